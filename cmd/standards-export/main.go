// Command standards-export writes selected_data.csv from the standards
// dataset without starting the web server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/StandardsTable/internal/config"
	"github.com/JonMunkholm/StandardsTable/internal/core"
	"github.com/JonMunkholm/StandardsTable/internal/dataset"
	"github.com/JonMunkholm/StandardsTable/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// exitNoRows is returned when nothing was selected, so scripts can tell an
// empty export apart from a failure.
const exitNoRows = 2

type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		report(os.Stderr, err)
		os.Exit(1)
	}
}

// report prints a failed run for the terminal. Dataset and export errors
// with a known code get the coded message; the rest print verbatim.
func report(w io.Writer, err error) {
	var ue *core.UserError
	if errors.As(err, &ue) {
		if core.IsUserFacing(ue.Technical) {
			slog.Debug("export failed", "error", ue.Technical, "code", ue.User.Code)
			fmt.Fprintf(w, "error: %s\n", core.FormatUserError(ue.Technical))
			return
		}
		err = ue.Technical
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

type options struct {
	query   string
	country string
	ids     []string
	all     bool
	out     string
	mode    string
	path    string
	matcher string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Unlike the server, a shell-exported variable wins over .env here.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(logging.New(stderr, cfg.Logging.Level, cfg.Logging.Format))

	var opts options
	flagSet := pflag.NewFlagSet("standards-export", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.query, "query", "q", "", "free-text filter applied with --all")
	flagSet.StringVarP(&opts.country, "country", "c", "", "jurisdiction country facet applied with --all")
	flagSet.StringSliceVar(&opts.ids, "ids", nil, "comma-separated document codes to export")
	flagSet.BoolVar(&opts.all, "all", false, "select every row matching --query and --country")
	flagSet.StringVarP(&opts.out, "out", "o", cfg.Export.Dir, "directory to write "+core.ExportFilename+" into")
	flagSet.StringVar(&opts.mode, "mode", cfg.Export.CSVMode, "CSV encoding: quoted or literal")
	flagSet.StringVar(&opts.path, "dataset", cfg.Dataset.Path, "dataset file (.yaml, .json, .toml, .csv, optionally .gz/.zst); empty uses DATABASE_URL or the embedded sample")
	flagSet.StringVar(&opts.matcher, "matcher", cfg.Search.Matcher, "search matcher: substring or words")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	mode, err := core.ParseExportMode(opts.mode)
	if err != nil {
		return err
	}
	matcher, ok := core.Get(opts.matcher)
	if !ok {
		return fmt.Errorf("unknown matcher %q (registered: %v)", opts.matcher, core.Names())
	}

	src := cfg.Dataset.Loader()
	src.Path = opts.path
	ds, err := dataset.Open(ctx, src)
	if err != nil {
		return core.NewUserError(fmt.Errorf("load dataset: %w", err))
	}

	sel, unknown := buildSelection(ds, matcher, opts)
	for _, id := range unknown {
		slog.Warn("document code not in dataset", "id", id)
	}

	exp := core.DiskExporter{Dir: opts.out}
	res, err := core.Export(ctx, ds, sel, mode, exp)
	if errors.Is(err, core.ErrNoRowsSelected) {
		fmt.Fprintln(stderr, core.MapError(err).Message)
		return exitError{code: exitNoRows}
	}
	if err != nil {
		return core.NewUserError(err)
	}

	fmt.Fprintf(stdout, "wrote %d rows (%d bytes) to %s\n", res.Rows, res.Bytes, exp.Path(res.Filename))
	return nil
}

// buildSelection returns the rows to export: every row visible under the
// query and facet when --all is set, plus the explicit ids. Ids missing from
// the dataset are returned separately; they are still kept in the selection
// and dropped when the export resolves it.
func buildSelection(ds *core.Dataset, m core.Matcher, opts options) (core.Selection, []string) {
	var ids []string
	if opts.all {
		for _, rec := range ds.Filter(opts.query, opts.country, m) {
			ids = append(ids, rec.ID)
		}
	}

	var unknown []string
	for _, id := range opts.ids {
		if id == "" {
			continue
		}
		if _, ok := ds.Get(id); !ok {
			unknown = append(unknown, id)
		}
		ids = append(ids, id)
	}

	return core.NewSelection(ids...), unknown
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `standards-export writes the selected standards to %s.

Rows are chosen with --ids, --all, or both. --query and --country narrow
what --all selects; explicit ids are exported even when the filter hides
them. When nothing is selected the command prints a notice and exits 2.

Usage:
  standards-export [flags]

Examples:
  # Export two records by document code
  standards-export --ids AC-0001,AC-0004

  # Export every French standard mentioning concrete, literal encoding
  standards-export --all -c France -q concrete --mode literal -o exports/

Flags:
`, core.ExportFilename)
	flagSet.PrintDefaults()
}
