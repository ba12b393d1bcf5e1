package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/seqrungo/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("seqrungo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
SeqRunGo - A declarative sequencer for external training/testing runs.

Usage:
  seqrungo [options] [SEQUENCE_PATH]

Arguments:
  SEQUENCE_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	sequenceFlag := flagSet.String("sequence", "", "Path to the sequence file or directory.")
	sFlag := flagSet.String("s", "", "Path to the sequence file or directory (shorthand).")
	toolFlag := flagSet.String("tool", "", "Override the external tool binary to invoke.")
	stopFlag := flagSet.String("stop-on-failure", "", "Override the sequence failure policy. Options: 'true' or 'false'.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Print the resolved plan without executing anything.")
	reportFlag := flagSet.String("report", "", "Path to write a YAML run report. Empty disables the report.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *sequenceFlag != "" {
		path = *sequenceFlag
	} else if *sFlag != "" {
		path = *sFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var stopOnFailure *bool
	switch strings.ToLower(*stopFlag) {
	case "":
		// no override, the sequence's own policy applies
	case "true":
		v := true
		stopOnFailure = &v
	case "false":
		v := false
		stopOnFailure = &v
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid stop-on-failure: must be 'true' or 'false'"}
	}

	return &app.Config{
		SequencePath:  path,
		Tool:          *toolFlag,
		StopOnFailure: stopOnFailure,
		DryRun:        *dryRunFlag,
		ReportPath:    *reportFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	}, false, nil
}
