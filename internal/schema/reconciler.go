// =============================================================================
// CSV Consolidator - Schema Reconciler
// =============================================================================
//
// This module decides the single column list every consolidated row uses.
//
// RECONCILIATION:
//   1. The first discovered file's columns are the base schema.
//   2. Every other file is compared against the base; columns it has that
//      the base lacks are its "extras".
//   3. No extras anywhere: the base is used and nobody is asked.
//   4. Otherwise a Decider chooses between the union of all columns and
//      the base columns alone.
//
// The union keeps the base order and appends extras in the order they are
// first seen, so the column order is the same on every run.
//
// =============================================================================

package schema

import (
	"github.com/ginjaninja78/csv-consolidator/internal/types"
)

// FileColumns is the header of one discovered file.
type FileColumns struct {
	Path    string
	Columns []string
}

// FileExtras lists the columns a file has beyond the base schema.
type FileExtras struct {
	Path    string
	Columns []string
}

// Result is the outcome of a reconciliation.
type Result struct {
	// Columns is the authoritative column list for the merge.
	Columns []string

	// Extras holds one entry per file that has extra columns.
	Extras []FileExtras

	// Prompted is true when the Decider was consulted.
	Prompted bool

	// IncludedExtras is true when Columns is the union.
	IncludedExtras bool
}

// Reconcile computes the authoritative column list.
//
// PARAMETERS:
//   - files: The header of every file, in discovery order.
//   - decider: Consulted only when some file has extra columns.
//
// RETURNS:
//   - The reconciliation result. An empty files slice yields an empty result.
func Reconcile(files []FileColumns, decider Decider) Result {
	if len(files) == 0 {
		return Result{}
	}

	base := append([]string(nil), files[0].Columns...)
	baseSet := types.NewColumnSet(base)

	union := append([]string(nil), base...)
	inUnion := types.NewColumnSet(base)

	var extras []FileExtras
	for _, file := range files {
		extra := baseSet.Missing(file.Columns)
		if len(extra) == 0 {
			continue
		}
		extras = append(extras, FileExtras{Path: file.Path, Columns: extra})

		for _, column := range extra {
			if !inUnion.Has(column) {
				inUnion[column] = struct{}{}
				union = append(union, column)
			}
		}
	}

	result := Result{Columns: base, Extras: extras}
	if len(extras) == 0 {
		return result
	}

	result.Prompted = true
	if decider != nil && decider.Decide(extras) {
		result.Columns = union
		result.IncludedExtras = true
	}

	return result
}
