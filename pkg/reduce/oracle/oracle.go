// Package oracle implements the Oracle Runner (spec.md §4.1): it writes a
// candidate tree to a scratch file, spawns the user's check script, and
// interprets the exit code as accept/reject.
package oracle

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/mitchellh/go-ps"

	"github.com/antmicro/sv-bugpoint/log"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// MaxRawAttempts bounds how many uncompressed attempt files accumulate in
// the --save-intermediates archive before the oldest are gzip-compressed
// in place, so long runs don't exhaust disk.
const MaxRawAttempts = 200

// SpawnError is returned when the check script itself could not be
// started (as opposed to running and exiting non-zero). Per spec.md §7
// this is Fatal-oracle: the caller must abort the whole run.
type SpawnError struct {
	Script string
	Err    error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn check script %q: %s", e.Script, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Input is one file under reduction: its scratch path (rewritten every
// attempt) and its currently-committed path (mutated only on acceptance).
type Input struct {
	Scratch   string
	Committed string
}

// Runner is the Oracle Runner for one multi-file run. CheckScript is
// coerced to start with "./" if it carries no path separator, per
// spec.md §6.
type Runner struct {
	CheckScript     string
	Inputs          []Input
	SaveIntermediates string // work-dir/debug/attempts, empty disables
	CombinedPath    string // sv-bugpoint-combined.sv, refreshed after each commit
}

// NewRunner resolves CheckScript's invocation form and returns a Runner
// ready to Test candidate trees against Inputs.
func NewRunner(checkScript string, inputs []Input) *Runner {
	return &Runner{CheckScript: coerceScriptPath(checkScript), Inputs: inputs}
}

func coerceScriptPath(p string) string {
	if strings.ContainsRune(p, os.PathSeparator) || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "/") {
		return p
	}
	return "./" + p
}

// Test implements spec.md §4.1's contract for the input at index idx:
// serialize candidate to that input's scratch path, run the check
// script with argv = [script, other-committed-paths..., scratch], and
// report whether the oracle accepted. On acceptance the scratch file is
// copied over the committed file and, if non-empty, CombinedPath is
// refreshed. attemptIndex and SaveIntermediates together drive the
// --save-intermediates copy.
func (r *Runner) Test(idx int, candidate syntax.Tree, attemptIndex uint64) (accepted bool, err error) {
	return r.TestRaw(idx, candidate.Serialize(), attemptIndex)
}

// TestRaw is Test's text-level counterpart, used by the verilator_config
// pre-strip (spec.md §6) which edits source text directly rather than
// going through a parsed syntax.Tree.
func (r *Runner) TestRaw(idx int, text string, attemptIndex uint64) (accepted bool, err error) {
	target := r.Inputs[idx]
	if err := os.WriteFile(target.Scratch, []byte(text), 0644); err != nil {
		return false, fmt.Errorf("writing scratch file %s: %w", target.Scratch, err)
	}

	if r.SaveIntermediates != "" {
		r.archiveAttempt(target.Scratch, attemptIndex)
	}

	argv := make([]string, 0, len(r.Inputs)+1)
	for i, in := range r.Inputs {
		if i == idx {
			continue
		}
		argv = append(argv, in.Committed)
	}
	argv = append(argv, target.Scratch)

	cmd := exec.Command(r.CheckScript, argv...)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if startErr := cmd.Start(); startErr != nil {
		return false, &SpawnError{Script: r.CheckScript, Err: startErr}
	}
	waitErr := cmd.Wait()
	if waitErr != nil {
		if _, isExit := waitErr.(*exec.ExitError); !isExit {
			// Abnormal termination that isn't a plain non-zero exit
			// (signal, I/O failure reaping the child, ...). Report
			// a process table snapshot to aid diagnosis, per
			// mitchellh/go-ps's minimal liveness-check surface.
			if proc, psErr := ps.FindProcess(cmd.Process.Pid); psErr == nil && proc != nil {
				log.WARN("oracle child pid %d (%s) exited abnormally: %s", proc.Pid(), proc.Executable(), waitErr)
			}
			return false, nil
		}
		return false, nil
	}

	if err := os.WriteFile(target.Committed, []byte(text), 0644); err != nil {
		return false, fmt.Errorf("promoting scratch to committed %s: %w", target.Committed, err)
	}
	if r.CombinedPath != "" {
		if err := r.refreshCombined(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *Runner) archiveAttempt(scratch string, attemptIndex uint64) {
	stem := strings.TrimSuffix(filepath.Base(scratch), filepath.Ext(scratch))
	dst := filepath.Join(r.SaveIntermediates, fmt.Sprintf("%s.attempt%d%s", stem, attemptIndex, filepath.Ext(scratch)))
	data, err := os.ReadFile(scratch)
	if err != nil {
		log.WARN("save-intermediates: could not read scratch %s: %s", scratch, err)
		return
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		log.WARN("save-intermediates: could not write %s: %s", dst, err)
		return
	}
	r.compactOldAttempts()
}

// compactOldAttempts gzip-compresses the oldest raw (uncompressed)
// attempt files once more than MaxRawAttempts have accumulated. The
// Oracle Runner never reads these back; this is purely archival.
func (r *Runner) compactOldAttempts() {
	entries, err := os.ReadDir(r.SaveIntermediates)
	if err != nil {
		return
	}
	var raw []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.Contains(name, ".attempt") && !strings.HasSuffix(name, ".gz") {
			raw = append(raw, name)
		}
	}
	if len(raw) <= MaxRawAttempts {
		return
	}
	attemptNum := func(name string) int {
		n := 0
		for _, ch := range name[strings.LastIndex(name, ".attempt")+len(".attempt"):] {
			if ch < '0' || ch > '9' {
				break
			}
			n = n*10 + int(ch-'0')
		}
		return n
	}
	sort.Slice(raw, func(i, j int) bool { return attemptNum(raw[i]) < attemptNum(raw[j]) })
	for _, name := range raw[:len(raw)-MaxRawAttempts] {
		path := filepath.Join(r.SaveIntermediates, name)
		if err := gzipInPlace(path); err != nil {
			log.WARN("save-intermediates: compacting %s: %s", path, err)
		}
	}
}

func gzipInPlace(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path + ".gz")
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		f.Close()
		os.Remove(path + ".gz")
		return err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(path + ".gz")
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path + ".gz")
		return err
	}
	return os.Remove(path)
}

func (r *Runner) refreshCombined() error {
	var sb strings.Builder
	for _, in := range r.Inputs {
		data, err := os.ReadFile(in.Committed)
		if err != nil {
			return fmt.Errorf("refreshing combined file, reading %s: %w", in.Committed, err)
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}
	return os.WriteFile(r.CombinedPath, []byte(sb.String()), 0644)
}
