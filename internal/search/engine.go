package search

import (
	"sort"
	"strconv"
	"strings"

	"podium/internal/dataset"
	"podium/internal/query"
	"podium/internal/util"
)

// Meta describes the result set: exactly one of Error, Empty or RecordCount
// is meaningful.
type Meta struct {
	Empty       bool   `json:"empty,omitempty"`
	RecordCount int    `json:"record_count,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Result is the filtered and, for ranking queries, sorted subset of the
// dataset. Column order is preserved for the response generator.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Meta    Meta       `json:"meta"`
}

// rankColumns is the sort-column priority for ranking queries.
var rankColumns = []string{"Gold", "Silver", "Bronze", "Total"}

// perMedalColumns maps a medal type to its count column for datasets without
// a unified Medal column.
var perMedalColumns = map[string]string{
	"gold":   "Gold",
	"silver": "Silver",
	"bronze": "Bronze",
}

// Search applies a query plan to the dataset. Filters are AND-combined and
// each one is a no-op when its column is absent; absence of data is reported
// through Meta, never as a failure.
func Search(d *dataset.Dataset, prof dataset.Profile, plan query.Plan) Result {
	if d == nil {
		return Result{Meta: Meta{Error: util.ErrNoDataset.Error()}}
	}

	idx := make([]int, d.Len())
	for i := range idx {
		idx[i] = i
	}

	if v, ok := plan.Filters["country"]; ok && prof.Has(dataset.RoleCountry) {
		idx = keepContaining(d, idx, prof.Column(dataset.RoleCountry), v)
	}
	if v, ok := plan.Filters["city"]; ok && prof.Has(dataset.RoleCity) {
		idx = keepContaining(d, idx, prof.Column(dataset.RoleCity), v)
	}
	if v, ok := plan.Filters["year"]; ok && prof.Has(dataset.RoleYear) {
		idx = keepContaining(d, idx, prof.Column(dataset.RoleYear), v)
	}
	if v, ok := plan.Filters["athlete"]; ok && prof.Has(dataset.RoleAthlete) {
		idx = keepContaining(d, idx, prof.Column(dataset.RoleAthlete), v)
	}
	idx = applyMedalFilter(d, idx, plan.Filters["medal_type"])

	if plan.Intent == query.IntentRanking {
		idx = rank(d, idx, plan)
	}

	rows := make([][]string, 0, len(idx))
	for _, i := range idx {
		row := make([]string, len(d.Columns))
		for c, col := range d.Columns {
			row[c] = d.Value(i, col)
		}
		rows = append(rows, row)
	}

	res := Result{Columns: append([]string(nil), d.Columns...), Rows: rows}
	if len(rows) == 0 {
		res.Meta = Meta{Empty: true}
	} else {
		res.Meta = Meta{RecordCount: len(rows)}
	}
	return res
}

// applyMedalFilter keeps the legacy branch order: a unified Medal column and a
// column named after the medal type both fall through without filtering; only
// per-medal count columns actually narrow the rows.
func applyMedalFilter(d *dataset.Dataset, idx []int, medalType string) []int {
	if medalType == "" {
		return idx
	}
	if d.HasColumn("Medal") {
		return idx
	}
	if d.HasColumn(medalType) {
		return idx
	}
	countCol, ok := perMedalColumns[medalType]
	if !ok || !d.HasColumn(countCol) {
		return idx
	}
	out := idx[:0]
	for _, i := range idx {
		if n, err := strconv.ParseFloat(d.Value(i, countCol), 64); err == nil && n > 0 {
			out = append(out, i)
		}
	}
	return out
}

func keepContaining(d *dataset.Dataset, idx []int, column, value string) []int {
	needle := strings.ToLower(value)
	out := idx[:0]
	for _, i := range idx {
		if strings.Contains(strings.ToLower(d.Value(i, column)), needle) {
			out = append(out, i)
		}
	}
	return out
}

func rank(d *dataset.Dataset, idx []int, plan query.Plan) []int {
	sortCol := ""
	for _, col := range rankColumns {
		if d.HasColumn(col) {
			sortCol = col
			break
		}
	}
	if sortCol == "" {
		return idx
	}

	sort.SliceStable(idx, func(a, b int) bool {
		va, oka := parseNumber(d.Value(idx[a], sortCol))
		vb, okb := parseNumber(d.Value(idx[b], sortCol))
		if oka != okb {
			return oka // unparseable cells sort last either direction
		}
		if !oka {
			return false
		}
		if plan.Ascending {
			return va < vb
		}
		return va > vb
	})

	limit := plan.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(idx) > limit {
		idx = idx[:limit]
	}
	return idx
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}
