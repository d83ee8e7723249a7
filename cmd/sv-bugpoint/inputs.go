package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// svExtensions lists the extensions -y scans a directory for (spec.md §6).
var svExtensions = map[string]bool{
	".sv":  true,
	".svh": true,
	".v":   true,
	".vh":  true,
}

// responseRefPrefix marks a response-file line as itself a nested
// response file to expand, rather than an input path, so that "recursion
// forbidden" (spec.md §6) has something to recurse through.
const responseRefPrefix = "@"

// resolveResponseFiles expands every response file in files (spec.md §6's
// "-f <file>..."): one path per line, "#"-prefixed and blank lines
// skipped, an "@"-prefixed line names another response file to expand in
// turn. seen tracks response files already being expanded on the current
// chain so a cycle is detected as fatal rather than looping forever.
func resolveResponseFiles(files []string, seen map[string]bool) ([]string, error) {
	var out []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving response file %s: %w", f, err)
		}
		if seen[abs] {
			return nil, fmt.Errorf("cycle in response files: %s re-included itself", f)
		}
		lines, err := readResponseFile(f)
		if err != nil {
			return nil, err
		}
		seen[abs] = true
		for _, line := range lines {
			if nested, ok := strings.CutPrefix(line, responseRefPrefix); ok {
				expanded, err := resolveResponseFiles([]string{nested}, seen)
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
				continue
			}
			out = append(out, line)
		}
		delete(seen, abs)
	}
	return out, nil
}

func readResponseFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading response file %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading response file %s: %w", path, err)
	}
	return lines, nil
}

// scanDirs implements spec.md §6's "-y <dir>...": every *.sv/*.svh/*.v/*.vh
// file directly inside each directory, sorted for deterministic ordering
// across runs (the directory read order is not otherwise guaranteed).
func scanDirs(dirs []string) ([]string, error) {
	var out []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scanning -y directory %s: %w", dir, err)
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if svExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
				found = append(found, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

// commonAncestor returns the deepest directory containing every path in
// paths, used to mirror input files under work-dir/minimized and
// work-dir/tmp (spec.md §6's work-dir layout) without collapsing
// distinct inputs that share a basename.
func commonAncestor(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("no input files given")
	}
	abs := make([]string, len(paths))
	for i, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", p, err)
		}
		abs[i] = filepath.Dir(a)
	}
	common := abs[0]
	for _, dir := range abs[1:] {
		common = longestCommonDir(common, dir)
	}
	return common, nil
}

func longestCommonDir(a, b string) string {
	aParts := strings.Split(filepath.ToSlash(a), "/")
	bParts := strings.Split(filepath.ToSlash(b), "/")
	n := len(aParts)
	if len(bParts) < n {
		n = len(bParts)
	}
	i := 0
	for i < n && aParts[i] == bParts[i] {
		i++
	}
	if i <= 1 {
		// i==1 on absolute paths means only the empty component before
		// the leading slash matched: nothing below root is shared.
		return string(filepath.Separator)
	}
	return filepath.FromSlash(strings.Join(aParts[:i], "/"))
}

// mirrorPath maps an absolute input path into base, preserving its path
// relative to ancestor (spec.md §6: "mirror of common-ancestor-relative
// input paths").
func mirrorPath(ancestor, base, inputPath string) (string, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(ancestor, abs)
	if err != nil {
		return "", fmt.Errorf("computing path of %s relative to %s: %w", inputPath, ancestor, err)
	}
	return filepath.Join(base, rel), nil
}
