// =============================================================================
// CSV Consolidator - Root Command
// =============================================================================
//
// This file defines the only command of the CLI. Running it consolidates
// every CSV file in the input directory into one file in the output
// directory.
//
// COMMAND USAGE:
//   csv-consolidator                      # derive the name from the data's dates
//   csv-consolidator combined_output.csv  # explicit name
//   csv-consolidator combined_output      # ".csv" is appended
//   csv-consolidator -report              # names starting with "-" are kept
//
// DIRECTORY LAYOUT (relative to the working directory):
//   data/unprocessed/   (put your CSV files here)
//   data/processed/     (consolidated files go here)
//   consolidator.yaml   (optional settings, see internal/config)
//
// EXIT STATUS:
//   0  consolidated, or nothing to consolidate
//   1  wrong number of arguments, a blank name, or the run failed
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/csv-consolidator/internal/config"
	"github.com/ginjaninja78/csv-consolidator/internal/consolidator"
	"github.com/ginjaninja78/csv-consolidator/internal/logging"
	"github.com/ginjaninja78/csv-consolidator/internal/schema"
)

// commandName is shown in usage text.
const commandName = "csv-consolidator"

// errUsage marks a wrong argument count or a blank file name.
var errUsage = errors.New("wrong number of arguments")

// IO bundles the streams the command talks to.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// NewRootCommand builds the root command.
//
// PARAMETERS:
//   - streams: Prompt input, user-facing output and log output.
//   - baseDir: Directory the data layout and config file are resolved
//     against. Empty means the working directory at run time.
func NewRootCommand(streams IO, baseDir string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   commandName + " [output_filename]",
		Short: "Consolidate exported CSV files into a single CSV file",
		Long: `Consolidates every CSV file in data/unprocessed into one file in
data/processed.

Each input file may start with any number of metadata lines; the real header
row is the first line containing "ID,Timestamp,Transaction Type". When files
have columns the first file lacks, you are asked whether to keep them.

Without an output file name, the name is built from the earliest and latest
dates in the data, e.g. consolidated_01-05-2024_thru_02-01-2024.csv.`,

		Args: func(cmd *cobra.Command, args []string) error {
			_, _, err := parseArgs(args)
			return err
		},

		// The only argument is a file name, which may itself start with
		// "-". Help is recognized by parseArgs instead.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,

		RunE: func(cmd *cobra.Command, args []string) error {
			outputName, help, err := parseArgs(args)
			if err != nil {
				return err
			}
			if help {
				return cmd.Help()
			}
			return runConsolidate(streams, baseDir, outputName)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetIn(streams.In)
	rootCmd.SetOut(streams.Out)
	rootCmd.SetErr(streams.Err)

	return rootCmd
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command against the process streams and returns
// the exit status.
func Execute(args []string) int {
	return execute(IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}, "", args)
}

func execute(streams IO, baseDir string, args []string) int {
	rootCmd := NewRootCommand(streams, baseDir)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		printUsage(streams.Out)
		return 1
	default:
		fmt.Fprintf(streams.Err, "Error: %v\n", err)
		return 1
	}
}

// parseArgs returns the output name, or whether help was asked for.
//
// ARGUMENT RULES:
//   - No argument derives the name from the data.
//   - "-h" or "--help" alone prints help.
//   - A leading "--" is dropped, so "-- --help" names a file "--help.csv".
//   - Any other single argument is the file name, even if it starts with
//     "-". A blank name or more than one argument is a usage error.
func parseArgs(args []string) (string, bool, error) {
	if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
		return "", true, nil
	}
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}

	switch len(args) {
	case 0:
		return "", false, nil
	case 1:
		if strings.TrimSpace(args[0]) == "" {
			return "", false, errUsage
		}
		return args[0], false, nil
	default:
		return "", false, errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s [output_filename]\n", commandName)
	fmt.Fprintf(w, "Example: %s combined_output.csv\n", commandName)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConsolidate loads the configuration and runs one consolidation.
func runConsolidate(streams IO, baseDir, outputName string) error {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
		baseDir = wd
	}

	cfg, err := config.LoadConfig(filepath.Join(baseDir, config.FileName))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Resolve(baseDir)

	logger := logging.New(streams.Err, cfg.LogLevel)
	decider := &schema.Prompter{In: streams.In, Out: streams.Out}

	_, err = consolidator.New(cfg, decider, logger).Run(outputName)
	if errors.Is(err, consolidator.ErrEmptyInput) {
		fmt.Fprintf(streams.Out, "No CSV files found in %s\n", cfg.InputDir)
		return nil
	}
	if err != nil {
		logger.Error("Consolidation failed", slog.String("error", err.Error()))
		return err
	}

	return nil
}
