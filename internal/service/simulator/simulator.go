// Package simulator implements the dry-run risk simulator. Simulate is a pure
// function of (action kind, parameters): it touches no I/O and is recomputed
// on every request, so a stale report can never gate an execution.
package simulator

import (
	"fmt"
	"strings"

	"github.com/voxsheet/voxsheet-backend/internal/domain"
	"github.com/voxsheet/voxsheet-backend/pkg/metrics"
)

// Thresholds above which bulk operations escalate from low to medium risk.
const (
	UpdateCellThreshold   = 100
	InsertRowThreshold    = 10
	InsertColumnThreshold = 5

	// AppendImpact is the fixed estimate for append_transaction: one row of
	// up to five cells (date, description, amount, category, notes).
	AppendImpact = 5
)

// Service is the risk simulator. Stateless by construction.
type Service struct{}

// NewService creates a new simulator.
func NewService() *Service {
	return &Service{}
}

// Simulate produces the dry-run report for one intent. It fails only when the
// action kind is outside the supported set.
func (s *Service) Simulate(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error) {
	report, err := s.simulate(kind, params)
	if err == nil {
		metrics.RecordSimulation(kind.String(), report.RiskLevel.String())
	}
	return report, err
}

func (s *Service) simulate(kind domain.ActionKind, params domain.ActionParams) (domain.DryRunReport, error) {
	if params == nil {
		params = domain.ActionParams{}
	}

	switch kind {
	case domain.ActionCreateSpreadsheet, domain.ActionCreateTallySheet:
		return simulateCreate(kind, params), nil
	case domain.ActionOpenSpreadsheet:
		return domain.DryRunReport{
			AffectedRefs: []string{},
			RiskLevel:    domain.RiskLow,
			Reversible:   true,
			Preview:      "Open spreadsheet " + quoteOr(params.String("sheet_id"), "?"),
		}, nil
	case domain.ActionUpdateCell:
		return simulateUpdateCell(params), nil
	case domain.ActionUpdateRange:
		return simulateUpdateRange(params), nil
	case domain.ActionInsertRow:
		return simulateInsertLine(params, "row_index", "row", InsertRowThreshold), nil
	case domain.ActionInsertColumn:
		return simulateInsertLine(params, "column_index", "column", InsertColumnThreshold), nil
	case domain.ActionDeleteRow:
		return simulateDeleteLine(params, "row_index", "row"), nil
	case domain.ActionDeleteColumn:
		return simulateDeleteLine(params, "column_index", "column"), nil
	case domain.ActionFormatCells:
		return simulateFormat(params), nil
	case domain.ActionApplyFormula:
		return simulateFormula(params), nil
	case domain.ActionSortData:
		return simulateSort(params), nil
	case domain.ActionFilterData:
		return domain.DryRunReport{
			AffectedRefs: rangeRefs(params.String("range")),
			RiskLevel:    domain.RiskLow,
			Reversible:   true,
			Preview:      "Filter " + orUnknown(params.String("range")) + " — the data itself is not changed",
		}, nil
	case domain.ActionCreateChart:
		return domain.DryRunReport{
			AffectedRefs: rangeRefs(params.String("data_range")),
			RiskLevel:    domain.RiskLow,
			Reversible:   true,
			Preview:      "Create a " + orDefault(params.String("chart_type"), "chart") + " chart from " + orUnknown(params.String("data_range")),
		}, nil
	case domain.ActionRenameSheet:
		return domain.DryRunReport{
			AffectedRefs: []string{},
			RiskLevel:    domain.RiskLow,
			Reversible:   true,
			Preview:      "Rename the spreadsheet to " + quoteOr(params.String("title"), "?"),
		}, nil
	case domain.ActionMergeCells:
		rng := params.String("range")
		return domain.DryRunReport{
			AffectedRefs:    rangeRefs(rng),
			RiskLevel:       domain.RiskLow,
			Reversible:      true,
			Preview:         "Merge " + orUnknown(rng) + " into a single cell",
			EstimatedImpact: cellCount(rng, 1),
		}, nil
	case domain.ActionFreezeRows:
		n := params.IntOr("count", 1)
		return domain.DryRunReport{
			AffectedRefs:    []string{domain.RowBand(1, n)},
			RiskLevel:       domain.RiskLow,
			Reversible:      true,
			Preview:         fmt.Sprintf("Freeze the first %s", plural(n, "row")),
			EstimatedImpact: n,
		}, nil
	case domain.ActionFreezeColumns:
		n := params.IntOr("count", 1)
		return domain.DryRunReport{
			AffectedRefs:    []string{domain.ColumnBand(1, n)},
			RiskLevel:       domain.RiskLow,
			Reversible:      true,
			Preview:         fmt.Sprintf("Freeze the first %s", plural(n, "column")),
			EstimatedImpact: n,
		}, nil
	case domain.ActionAddDataValidation:
		rng := params.String("range")
		return domain.DryRunReport{
			AffectedRefs:    rangeRefs(rng),
			RiskLevel:       domain.RiskLow,
			Reversible:      true,
			Preview:         "Add a validation rule to " + orUnknown(rng),
			EstimatedImpact: cellCount(rng, 1),
		}, nil
	case domain.ActionClearRange:
		return simulateClear(params), nil
	case domain.ActionAppendTransaction:
		return domain.DryRunReport{
			AffectedRefs:    []string{},
			RiskLevel:       domain.RiskLow,
			Reversible:      true,
			Preview:         "Append one transaction row after the last entry",
			EstimatedImpact: AppendImpact,
		}, nil
	}

	return domain.DryRunReport{}, fmt.Errorf("simulate %q: %w", kind, domain.ErrUnsupportedAction)
}

// ---------------------------------------------------------------------------
// Per-kind simulations
// ---------------------------------------------------------------------------

func simulateCreate(kind domain.ActionKind, params domain.ActionParams) domain.DryRunReport {
	what := "spreadsheet"
	if kind == domain.ActionCreateTallySheet {
		what = "tally sheet"
	}
	return domain.DryRunReport{
		AffectedRefs: []string{},
		RiskLevel:    domain.RiskLow,
		// Creation has no inverse: there is nothing to restore a deletion to.
		Reversible: false,
		Preview:    "Create a new " + what + " " + quoteOr(params.String("title"), "Untitled"),
	}
}

func simulateUpdateCell(params domain.ActionParams) domain.DryRunReport {
	rng := params.String("range")
	count := cellCount(rng, 1)

	report := domain.DryRunReport{
		AffectedRefs:    rangeRefs(rng),
		Reversible:      true,
		Preview:         fmt.Sprintf("Set cell %s to %q", orUnknown(rng), params.String("value")),
		EstimatedImpact: count,
	}
	report.RiskLevel, report.Warnings = updateRisk(count)
	return report
}

func simulateUpdateRange(params domain.ActionParams) domain.DryRunReport {
	rng := params.String("range")
	count := cellCount(rng, gridSize(params.Values("values")))

	report := domain.DryRunReport{
		AffectedRefs:    rangeRefs(rng),
		Reversible:      true,
		Preview:         fmt.Sprintf("Update %s in %s", plural(count, "cell"), orUnknown(rng)),
		EstimatedImpact: count,
	}
	report.RiskLevel, report.Warnings = updateRisk(count)
	return report
}

// updateRisk applies the shared update threshold: low up to 100 cells,
// medium above, with a warning.
func updateRisk(count int) (domain.RiskLevel, []string) {
	if count > UpdateCellThreshold {
		return domain.RiskMedium, []string{
			fmt.Sprintf("large update: %d cells will be overwritten", count),
		}
	}
	return domain.RiskLow, nil
}

func simulateInsertLine(params domain.ActionParams, indexKey, unit string, threshold int) domain.DryRunReport {
	start := params.IntOr(indexKey, 1)
	count := params.IntOr("count", 1)

	report := domain.DryRunReport{
		AffectedRefs:    []string{lineBand(unit, start, count)},
		RiskLevel:       domain.RiskLow,
		Reversible:      true,
		Preview:         fmt.Sprintf("Insert %s at %s %d", plural(count, unit), unit, start),
		EstimatedImpact: count,
	}
	if count > threshold {
		report.RiskLevel = domain.RiskMedium
		report.Warnings = []string{fmt.Sprintf("inserting %d %ss at once", count, unit)}
	}
	return report
}

func simulateDeleteLine(params domain.ActionParams, indexKey, unit string) domain.DryRunReport {
	start := params.IntOr(indexKey, 1)
	count := params.IntOr("count", 1)

	return domain.DryRunReport{
		AffectedRefs: []string{lineBand(unit, start, count)},
		// Deletion is always high risk regardless of size.
		RiskLevel:       domain.RiskHigh,
		Reversible:      true,
		Preview:         fmt.Sprintf("Delete %s starting at %s %d", plural(count, unit), unit, start),
		Warnings:        []string{fmt.Sprintf("this permanently removes %s and everything in them from the sheet", plural(count, unit))},
		EstimatedImpact: count,
	}
}

func simulateFormat(params domain.ActionParams) domain.DryRunReport {
	rng := params.String("range")

	changed := "formatting"
	if f := params.Format("format"); f != nil {
		if attrs := f.ChangedAttributes(); len(attrs) > 0 {
			changed = strings.Join(attrs, ", ")
		}
	}

	return domain.DryRunReport{
		AffectedRefs:    rangeRefs(rng),
		RiskLevel:       domain.RiskLow,
		Reversible:      true,
		Preview:         fmt.Sprintf("Change %s on %s", changed, orUnknown(rng)),
		EstimatedImpact: cellCount(rng, 1),
	}
}

func simulateFormula(params domain.ActionParams) domain.DryRunReport {
	rng := params.String("range")
	return domain.DryRunReport{
		AffectedRefs:    rangeRefs(rng),
		RiskLevel:       domain.RiskLow,
		Reversible:      true,
		Preview:         fmt.Sprintf("Apply formula %s to %s", orDefault(params.String("formula"), "?"), orUnknown(rng)),
		EstimatedImpact: cellCount(rng, 1),
	}
}

func simulateSort(params domain.ActionParams) domain.DryRunReport {
	rng := params.String("range")
	direction := "descending"
	if params.Bool("ascending") {
		direction = "ascending"
	}

	return domain.DryRunReport{
		AffectedRefs: rangeRefs(rng),
		RiskLevel:    domain.RiskMedium,
		// The original row order is not captured anywhere.
		Reversible:      false,
		Preview:         fmt.Sprintf("Sort %s by column %d, %s", orUnknown(rng), params.IntOr("column", 1), direction),
		Warnings:        []string{"sorting reorders rows and cannot be undone"},
		EstimatedImpact: cellCount(rng, 0),
	}
}

func simulateClear(params domain.ActionParams) domain.DryRunReport {
	rng := params.String("range")
	count := cellCount(rng, 1)

	return domain.DryRunReport{
		AffectedRefs:    rangeRefs(rng),
		RiskLevel:       domain.RiskHigh,
		Reversible:      true,
		Preview:         fmt.Sprintf("Clear all content in %s (%s)", orUnknown(rng), plural(count, "cell")),
		Warnings:        []string{"all content in the range is permanently cleared"},
		EstimatedImpact: count,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// cellCount estimates the number of cells in an A1 range, falling back when
// the reference is absent or malformed. Simulation never fails on bad
// parameters, only on bad kinds.
func cellCount(rng string, fallback int) int {
	if rng == "" {
		return fallback
	}
	r, err := domain.ParseRange(rng)
	if err != nil {
		return fallback
	}
	return r.CellCount()
}

func gridSize(values [][]string) int {
	n := 0
	for _, row := range values {
		n += len(row)
	}
	if n == 0 {
		return 1
	}
	return n
}

func rangeRefs(rng string) []string {
	if rng == "" {
		return []string{}
	}
	return []string{rng}
}

func lineBand(unit string, start, count int) string {
	if unit == "column" {
		return domain.ColumnBand(start, count)
	}
	return domain.RowBand(start, count)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func orUnknown(s string) string {
	return orDefault(s, "the selected range")
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func quoteOr(s, def string) string {
	if s == "" {
		s = def
	}
	return fmt.Sprintf("%q", s)
}
