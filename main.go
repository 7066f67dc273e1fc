// =============================================================================
// CSV Consolidator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the CSV Consolidator CLI. It hands the
// command line to the cmd package and exits with the status it returns.
//
// USAGE:
//   csv-consolidator [output_filename]
//
// ARCHITECTURE:
//   - cmd/           : The Cobra root command
//   - internal/      : Pipeline stages (parsing, schema, merge, naming, output)
//   - pkg/utils/     : File system helpers
//
// =============================================================================

package main

import (
	"os"

	"github.com/ginjaninja78/csv-consolidator/cmd"
)

func main() {
	os.Exit(cmd.Execute(os.Args[1:]))
}
