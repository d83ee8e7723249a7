// Command sv-bugpoint minimizes a SystemVerilog test case against an
// interestingness oracle (spec.md §1), the same way bugpoint or C-Reduce
// shrink a failing input while preserving the failure.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/antmicro/sv-bugpoint/internal/config"
	"github.com/antmicro/sv-bugpoint/internal/frontend"
	"github.com/antmicro/sv-bugpoint/log"
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/debug"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/oracle"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/rewriters"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/trace"
)

// Version is set at build time via -ldflags.
var Version = "(development)"

// options mirrors spec.md §6's flag table. Remainder carries the three
// positional groups (work-dir, check-script, input files), split apart
// in parseArgs — goptions has no notion of "first two required, rest
// variadic".
type options struct {
	Force             bool               `goptions:"--force, description='Do not prompt when work-dir is non-empty'"`
	SaveIntermediates bool               `goptions:"--save-intermediates, description='Archive every attempt scratch file under work-dir/debug/attempts'"`
	DumpTrees         bool               `goptions:"--dump-trees, description='Dump syntax/AST trees before minimizing'"`
	ResponseFiles     []string           `goptions:"-f, description='Response file: one input path per line (may be given more than once)'"`
	Dirs              []string           `goptions:"-y, description='Add every *.sv/*.svh/*.v/*.vh file in a directory (may be given more than once)'"`
	ConfigPath        string             `goptions:"--config, description='Path to a sv-bugpoint YAML configuration file'"`
	Profile           string             `goptions:"--profile, description='Built-in configuration profile (aggressive, conservative)'"`
	Help              bool               `goptions:"-h, --help"`
	Remainder         goptions.Remainder `goptions:"description='<work-dir> <check-script> <input-file...>'"`
}

var printfStdOut = func(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) {
	os.Exit(code)
}

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

func main() {
	var opts options
	getopts(&opts)

	if opts.Help {
		goptions.PrintHelp()
		exit(0)
		return
	}

	if err := run(opts); err != nil {
		log.ERROR("%s", ansi.Sprintf("@R{%s}", err))
		exit(1)
	}
}

func run(opts options) error {
	workDir, checkScript, inputs, err := parseArgs(opts)
	if err != nil {
		return err
	}

	mgr, cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	applyLogLevel(cfg)

	proceed, err := prepareWorkDir(workDir, opts.Force)
	if err != nil {
		return err
	}
	if !proceed {
		exit(0)
		return nil
	}

	layout, err := makeLayout(workDir, cfg)
	if err != nil {
		return reduce.Fatal("creating work-dir layout", err)
	}

	ancestor, err := commonAncestor(inputs)
	if err != nil {
		return reduce.Fatal("resolving common ancestor of inputs", err)
	}

	source, elaborator, err := frontend.New(workDir)
	if err != nil {
		return reduce.Fatal("initializing SystemVerilog frontend", err)
	}

	oracleInputs := make([]oracle.Input, len(inputs))
	reduceInputs := make([]reduce.Input, len(inputs))
	for i, in := range inputs {
		minimizedPath, err := mirrorPath(ancestor, layout.minimized, in)
		if err != nil {
			return reduce.Fatal("mirroring "+in, err)
		}
		tmpPath, err := mirrorPath(ancestor, layout.tmp, in)
		if err != nil {
			return reduce.Fatal("mirroring "+in, err)
		}
		if err := copyIntoPlace(in, minimizedPath); err != nil {
			return reduce.Fatal("seeding "+minimizedPath, err)
		}
		if err := os.MkdirAll(filepath.Dir(tmpPath), 0755); err != nil {
			return reduce.Fatal("creating "+filepath.Dir(tmpPath), err)
		}

		oracleInputs[i] = oracle.Input{Scratch: tmpPath, Committed: minimizedPath}
		reduceInputs[i] = reduce.Input{Index: i, Path: minimizedPath, Elaborator: elaborator}
	}

	runner := oracle.NewRunner(checkScript, oracleInputs)
	if opts.SaveIntermediates || cfg.Reduce.SaveIntermediates {
		runner.SaveIntermediates = layout.attempts
	}
	runner.CombinedPath = layout.combined

	if err := dryRunCheck(runner, reduceInputs); err != nil {
		return err
	}

	dumpTreesEnabled := opts.DumpTrees || cfg.Reduce.DumpTrees
	var diffWriter *os.File
	if dumpTreesEnabled {
		if err := dumpTrees(source, elaborator, reduceInputs, layout); err != nil {
			return reduce.Fatal("dumping trees", err)
		}
		diffWriter, err = os.Create(layout.diffFile)
		if err != nil {
			return reduce.Fatal("creating dump-diff file", err)
		}
		defer diffWriter.Close()
	}

	traceFile, err := os.Create(layout.traceFile)
	if err != nil {
		return reduce.Fatal("creating trace file", err)
	}
	defer traceFile.Close()
	tracker := trace.NewTracker(traceFile)
	defer tracker.Close()
	counter := &trace.Counter{}

	initialStages := cfg.Reduce.Stages
	if len(initialStages) == 0 {
		initialStages = rewriters.Sequence
	}
	stages := newStageSource(initialStages)
	stopWatch, err := watchConfig(mgr, opts.ConfigPath, stages)
	if err != nil {
		return reduce.Fatal("starting config watcher", err)
	}
	defer stopWatch()

	outer := &reduce.OuterMinimizer{
		Source:  source,
		Oracle:  runner,
		Counter: counter,
		Tracker: tracker,
	}
	if diffWriter != nil {
		outer.DiffWriter = diffWriter
	}

	err = outer.Run(reduceInputs, func(in reduce.Input) *reduce.Orchestrator {
		return &reduce.Orchestrator{
			Handlers: rewriters.Registry,
			Stages:   stages.Get(),
			Oracle:   runner,
			Counter:  counter,
			Tracker:  tracker,
		}
	})
	if err != nil {
		return err
	}

	printfStdOut("minimized output written under %s\n", layout.minimized)
	return nil
}

// parseArgs splits goptions.Remainder into the three positional groups
// spec.md §6 names, folding in every -f response file and -y directory
// scan before validating there is at least one input.
func parseArgs(opts options) (workDir, checkScript string, inputs []string, err error) {
	remainder := []string(opts.Remainder)
	if len(remainder) < 2 {
		return "", "", nil, fmt.Errorf("expected <work-dir> <check-script> <input-file...>, got %d positional argument(s)", len(remainder))
	}
	workDir = remainder[0]
	checkScript = remainder[1]
	inputs = append(inputs, remainder[2:]...)

	if len(opts.ResponseFiles) > 0 {
		expanded, err := resolveResponseFiles(opts.ResponseFiles, map[string]bool{})
		if err != nil {
			return "", "", nil, reduce.Fatal("resolving response files", err)
		}
		inputs = append(inputs, expanded...)
	}

	if len(opts.Dirs) > 0 {
		scanned, err := scanDirs(opts.Dirs)
		if err != nil {
			return "", "", nil, reduce.Fatal("scanning -y directories", err)
		}
		inputs = append(inputs, scanned...)
	}

	if len(inputs) == 0 {
		return "", "", nil, fmt.Errorf("no input files given")
	}
	return workDir, checkScript, inputs, nil
}

func loadConfig(opts options) (*config.Manager, *config.Config, error) {
	mgr := config.NewManager()
	switch {
	case opts.ConfigPath != "":
		if err := mgr.Load(opts.ConfigPath); err != nil {
			return nil, nil, reduce.Fatal("loading configuration", err)
		}
	case opts.Profile != "":
		if err := mgr.LoadProfile(opts.Profile); err != nil {
			return nil, nil, reduce.Fatal("loading profile", err)
		}
	}
	return mgr, mgr.Get(), nil
}

func applyLogLevel(cfg *config.Config) {
	switch strings.ToLower(cfg.Logging.Level) {
	case "error":
		log.SetLevel(log.LevelError)
	case "warn":
		log.SetLevel(log.LevelWarn)
	case "debug":
		log.SetLevel(log.LevelDebug)
	case "trace":
		log.SetLevel(log.LevelTrace)
	default:
		log.SetLevel(log.LevelInfo)
	}
	log.SetColor(cfg.Logging.EnableColor)
}

// prepareWorkDir implements spec.md §6/§7's non-empty-work-dir prompt:
// read one line; an empty line or "Y"/"y" (surrounding whitespace
// ignored) proceeds, anything else declines (exit 0, reported by the
// caller as proceed=false).
func prepareWorkDir(workDir string, force bool) (proceed bool, err error) {
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return false, reduce.Fatal("creating work directory", err)
	}
	if force {
		return true, nil
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		return false, reduce.Fatal("reading work directory", err)
	}
	if len(entries) == 0 {
		return true, nil
	}

	printfStdOut("work-dir %s is not empty; proceed and overwrite its contents? [Y/n] ", workDir)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" || strings.EqualFold(line, "y") {
		return true, nil
	}
	return false, nil
}

type workLayout struct {
	minimized string
	tmp       string
	debug     string
	traceFile string
	syntaxDir string
	astDir    string
	attempts  string
	combined  string
	diffFile  string
}

// makeLayout records every path of spec.md §6's work-dir layout and
// creates minimized/, tmp/ and debug/, plus debug/attempts/ when
// DebugConfig.EnableAttemptsDir is set (independent of
// --save-intermediates). The dump directories are created by dumpTrees.
func makeLayout(workDir string, cfg *config.Config) (*workLayout, error) {
	l := &workLayout{
		minimized: filepath.Join(workDir, "minimized"),
		tmp:       filepath.Join(workDir, "tmp"),
		debug:     filepath.Join(workDir, "debug"),
		traceFile: filepath.Join(workDir, "debug", "trace"),
		syntaxDir: filepath.Join(workDir, "debug", "syntax-dump"),
		astDir:    filepath.Join(workDir, "debug", "ast-dump"),
		attempts:  filepath.Join(workDir, "debug", "attempts"),
		combined:  filepath.Join(workDir, "sv-bugpoint-combined.sv"),
		diffFile:  filepath.Join(workDir, "debug", "dump-diff.txt"),
	}
	dirs := []string{l.minimized, l.tmp, l.debug}
	if cfg.Debug.EnableAttemptsDir {
		dirs = append(dirs, l.attempts)
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func copyIntoPlace(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0644)
}

// dryRunCheck runs the oracle once against each input exactly as seeded,
// unmodified. Per spec.md §7 a rejection here is Fatal-oracle: the check
// script doesn't even accept the starting point.
func dryRunCheck(runner *oracle.Runner, inputs []reduce.Input) error {
	for i, in := range inputs {
		data, err := os.ReadFile(in.Path)
		if err != nil {
			return reduce.Fatal("reading "+in.Path+" for dry run", err)
		}
		accepted, err := runner.TestRaw(i, string(data), 0)
		if err != nil {
			return err
		}
		if !accepted {
			return fmt.Errorf("dry run rejected on unmodified input %s: check script must accept the starting point", in.Path)
		}
	}
	return nil
}

// dumpTrees implements spec.md §6's --dump-trees: a depth-first syntax
// dump plus an elaborated AST dump for every input, written before
// minimizing starts. --dump-trees also opens debug/dump-diff.txt, which
// OuterMinimizer.Run appends a debug.DumpDiff of to for every input that
// changes over an outer sweep.
func dumpTrees(source syntax.SourceManager, elaborator syntax.Elaborator, inputs []reduce.Input, layout *workLayout) error {
	if err := os.MkdirAll(layout.syntaxDir, 0755); err != nil {
		return err
	}
	if err := os.MkdirAll(layout.astDir, 0755); err != nil {
		return err
	}
	for _, in := range inputs {
		tree, err := source.Load(in.Path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", in.Path, err)
		}
		stem := strings.TrimSuffix(filepath.Base(in.Path), filepath.Ext(in.Path))

		syntaxDump := debug.DumpSyntaxTree(tree)
		if err := os.WriteFile(filepath.Join(layout.syntaxDir, stem+".txt"), []byte(syntaxDump), 0644); err != nil {
			return err
		}

		program, err := elaborator.Elaborate(tree)
		if err != nil {
			return fmt.Errorf("elaborating %s: %w", in.Path, err)
		}
		astDump := debug.DumpProgram(program)
		if err := os.WriteFile(filepath.Join(layout.astDir, stem+".json"), []byte(astDump), 0644); err != nil {
			return err
		}
	}
	return nil
}
