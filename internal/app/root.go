package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/agis/hitcount/internal/hitcount"
	"github.com/agis/hitcount/internal/report"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	Ties    string
	Verbose bool
	Profile string
	Config  string
}

func Execute() int {
	cmd := NewRootCommand()
	err := cmd.Execute()
	if err != nil {
		renderTopLevelError(cmd, err)
	}
	return ExitCode(err)
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{
		Ties:    string(report.TiesByName),
		Profile: "default",
	}

	root := &cobra.Command{
		Use:           "hitcount <file>",
		Short:         "Report website visit counts per UTC day from a <epoch-millis>|<website> log",
		Args:          exactlyOneFile,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       BuildVersionString(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args[0])
		},
	}
	root.SetVersionTemplate("hitcount {{.Version}}\n")
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return Wrap(ExitUsage, ArgumentError{Err: err})
	})

	root.Flags().StringVar(&opts.Ties, "ties", string(report.TiesByName), "Order of websites sharing a count: name|none")
	root.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose diagnostics on stderr")
	root.Flags().StringVar(&opts.Profile, "profile", "default", "Config profile")
	root.Flags().StringVar(&opts.Config, "config", "", "Config file path")

	return root
}

func exactlyOneFile(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return Wrap(ExitUsage, ArgumentError{Got: len(args)})
	}
	return nil
}

func runReport(cmd *cobra.Command, opts *globalOptions, path string) error {
	printer := report.Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}

	ro, err := resolveGlobalOptions(cmd, opts)
	if err != nil {
		err = ArgumentError{Err: err}
		_ = printer.Error(err.Error(), "Fix or remove the config file")
		return WrapPrinted(ExitUsage, err)
	}
	ties, err := report.ParseTieOrder(ro.Ties)
	if err != nil {
		err = ArgumentError{Err: err}
		_ = printer.Error(err.Error(), "Use --ties name or --ties none")
		return WrapPrinted(ExitUsage, err)
	}
	printer.Ties = ties
	if ro.Verbose {
		_, _ = fmt.Fprintf(printer.Err, "hitcount: file=%s ties=%s profile=%s config=%s\n", path, ties, ro.Profile, ro.Config)
	}

	start := time.Now()
	state, size, err := aggregateFile(path)
	if err != nil {
		code, hint := classify(err)
		_ = printer.Error(err.Error(), hint)
		return WrapPrinted(code, err)
	}
	if ro.Verbose {
		st := state.Stats()
		_, _ = fmt.Fprintf(printer.Err, "hitcount: size=%s lines=%s days=%d websites=%s site_days=%s elapsed=%s\n",
			humanize.Bytes(uint64(size)), humanize.Comma(int64(st.Lines)), st.Days,
			humanize.Comma(int64(st.DistinctSites)), humanize.Comma(int64(st.WebsiteDays)), time.Since(start))
	}
	return printer.Report(state)
}

// aggregateFile reads path to completion. The file is closed on every return.
func aggregateFile(path string) (*hitcount.State, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	state, err := hitcount.Aggregate(f)
	if err != nil {
		var lineErr hitcount.LineError
		if errors.As(err, &lineErr) {
			return nil, size, err
		}
		return nil, size, FileAccessError{Path: path, Err: err}
	}
	return state, size, nil
}

func renderTopLevelError(cmd *cobra.Command, err error) {
	var appErr AppError
	if errors.As(err, &appErr) && appErr.Printed {
		return
	}
	_, hint := classify(err)
	_ = report.Printer{Err: cmd.ErrOrStderr()}.Error(err.Error(), hint)
}
