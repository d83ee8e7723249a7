package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// orderedObject is a small hand-rolled ordered-JSON emitter: entries are
// serialized in insertion order, unlike encoding/json's map output.
// grounded on no example's API — see DESIGN.md for why this stays
// stdlib rather than reaching for a third-party ordered-JSON package.
type orderedObject struct {
	keys   []string
	values []string
}

func newOrderedObject() *orderedObject {
	return &orderedObject{}
}

func (o *orderedObject) set(key string, value interface{}) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, jsonValue(value))
}

func jsonValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return strconv.Quote(fmt.Sprintf("%v", val))
	}
}

func (o *orderedObject) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
		sb.WriteString("  ")
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		sb.WriteString(o.values[i])
	}
	if len(o.keys) > 0 {
		sb.WriteByte('\n')
	}
	sb.WriteByte('}')
	return sb.String()
}
