// Package cli implements the linereduce command-line tools.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"pkg.jsn.cam/linereduce/internal/history"
	"pkg.jsn.cam/linereduce/internal/logx"
	"pkg.jsn.cam/linereduce/pkg/executors"
	"pkg.jsn.cam/linereduce/pkg/linereduce"
)

// Exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// errUsage marks errors caused by how the tool was invoked.
var errUsage = errors.New("usage")

// Main runs the linereduce tool with args (without the program name).
func Main(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printMainUsage(stderr)
		return ExitUsage
	}

	var err error

	switch args[0] {
	case "run":
		err = cmdRun(args[1:], stderr)
	case "executors":
		err = cmdExecutors(stdout)
	case "history":
		err = cmdHistory(args[1:], stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, linereduce.Version)
	case "help", "-h", "--help":
		printMainUsage(stdout)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", args[0])
		printMainUsage(stderr)
		return ExitUsage
	}

	return exitCode(err, stderr)
}

// JobMain runs a fixed executor with positional arguments
// "<output_file> <input_file1> [input_file2 ...]". component prefixes
// every status line.
func JobMain(component, executor string, args []string, stderr io.Writer) int {
	log := logx.For(logx.New(stderr, logrus.InfoLevel), component)

	if len(args) < 2 {
		fmt.Fprintf(stderr, "Usage: %s <output_file> <input_file1> [input_file2 ...]\n", component)
		return ExitUsage
	}

	output, err := absPath(args[0])
	if err != nil {
		log.Error(err)
		return ExitUsage
	}

	inputs := ResolveInputs(args[1:], log)
	if len(inputs) == 0 {
		log.Error("No valid input files, nothing to do")
		fmt.Fprintf(stderr, "Usage: %s <output_file> <input_file1> [input_file2 ...]\n", component)
		return ExitUsage
	}

	workers, err := DefaultWorkers()
	if err != nil {
		log.Error(err)
		return ExitUsage
	}

	timeout, err := DefaultTimeout()
	if err != nil {
		log.Error(err)
		return ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunJob(ctx, Options{
		Executor: executor,
		Output:   output,
		Inputs:   inputs,
		Workers:  workers,
		Timeout:  timeout,
	}, log, stderr)

	return exitCode(err, stderr)
}

func cmdRun(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)

	defaultWorkers, err := DefaultWorkers()
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	defaultTimeout, err := DefaultTimeout()
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var (
		executor      = fs.String("executor", "wordcount", "Executor to run")
		output        = fs.String("output", "", "Path to the output file")
		workers       = fs.Int("workers", defaultWorkers, "Number of map workers")
		reduceWorkers = fs.Int("reduce-workers", 1, "Number of reduce workers (1 = sequential)")
		timeout       = fs.Duration("timeout", defaultTimeout, "Map phase timeout (0 = 1h)")
		policy        = fs.String("policy", "", "Output policy override: all or max")
		progress      = fs.Bool("progress", false, "Show a map phase progress bar")
		historyPath   = fs.String("history", "", "Record the run in this bbolt database")
		verbose       = fs.Bool("v", false, "Verbose logging")
		quiet         = fs.Bool("q", false, "Only log warnings and errors")
	)

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	level := logrus.InfoLevel
	switch {
	case *verbose:
		level = logrus.DebugLevel
	case *quiet:
		level = logrus.WarnLevel
	}
	log := logx.For(logx.New(stderr, level), *executor)

	if *output == "" {
		return fmt.Errorf("%w: -output is required", errUsage)
	}
	if !executors.IsValidExecutor(*executor) {
		return fmt.Errorf("%w: %w: %s", errUsage, linereduce.ErrUnknownExecutor, *executor)
	}

	outputPath, err := absPath(*output)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	inputs := ResolveInputs(fs.Args(), log)
	if len(inputs) == 0 {
		return fmt.Errorf("%w: no valid input files", errUsage)
	}

	var store history.Store = history.NoOpStore{}
	if *historyPath != "" {
		s, err := history.Open(*historyPath)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer s.Close()
		store = s
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = RunJob(ctx, Options{
		Executor:      *executor,
		Output:        outputPath,
		Inputs:        inputs,
		Workers:       *workers,
		ReduceWorkers: *reduceWorkers,
		Timeout:       *timeout,
		Policy:        *policy,
		Progress:      *progress,
		History:       store,
	}, log, stderr)

	return err
}

func cmdExecutors(stdout io.Writer) error {
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOLICY\tDESCRIPTION")

	for _, name := range executors.ListExecutors() {
		w := executors.GetExecutor(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, linereduce.PolicyOf(w), w.Description())
	}

	return tw.Flush()
}

func cmdHistory(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)

	dbPath := fs.String("db", "var/history.db", "Path to the history database")
	limit := fs.Int("limit", 20, "Maximum number of runs to list (0 = all)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if _, err := os.Stat(*dbPath); err != nil {
		return fmt.Errorf("history database %s: %w", *dbPath, err)
	}

	store, err := history.Open(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return printHistory(stdout, store, *limit)
}

func printHistory(w io.Writer, store history.Store, limit int) error {
	records, err := store.List()
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTATUS\tEXECUTOR\tFILES\tLINES\tWRITTEN\tDURATION\tSTARTED")

	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t%v\t%s\n",
			rec.ID,
			rec.Status,
			rec.Executor,
			rec.Files,
			humanize.Comma(rec.Lines),
			rec.Written,
			time.Duration(rec.Duration*float64(time.Second)).Round(time.Millisecond),
			humanize.Time(rec.StartedAt))
	}

	return tw.Flush()
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: linereduce <command> [flags]

Commands:
  run        Run a job: linereduce run -executor NAME -output FILE [flags] INPUT...
  executors  List available executors
  history    List recorded runs
  version    Print the version`)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	fmt.Fprintf(stderr, "error: %v\n", err)

	if errors.Is(err, errUsage) || errors.Is(err, linereduce.ErrInvalidArgument) || errors.Is(err, linereduce.ErrUnknownExecutor) {
		return ExitUsage
	}

	return ExitFailure
}

func absPath(p string) (string, error) {
	if p == "" {
		return "", fmt.Errorf("%w: empty path", linereduce.ErrInvalidArgument)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}

	return abs, nil
}
