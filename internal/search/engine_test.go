package search

import (
	"strconv"
	"testing"

	"podium/internal/dataset"
	"podium/internal/query"

	"github.com/stretchr/testify/require"
)

func medalTable() (*dataset.Dataset, dataset.Profile) {
	d := dataset.New(
		[]string{"Team", "Year", "Gold", "Silver", "Bronze"},
		[][]string{
			{"USA", "2020", "39", "41", "33"},
			{"China", "2020", "38", "32", "18"},
			{"USA", "2016", "46", "37", "38"},
		},
	)
	return d, dataset.ProfileSchema(d, nil)
}

func TestSearchNoDataset(t *testing.T) {
	res := Search(nil, dataset.Profile{}, query.Plan{})
	require.Equal(t, "No data loaded", res.Meta.Error)
	require.Empty(t, res.Rows)
}

func TestSearchCountryAndYear(t *testing.T) {
	d, prof := medalTable()
	plan := query.Plan{
		Intent:  query.IntentMedalCount,
		Filters: map[string]string{"country": "USA", "year": "2020", "medal_type": "gold"},
	}
	res := Search(d, prof, plan)
	require.Equal(t, 1, res.Meta.RecordCount)
	require.Equal(t, "USA", res.Rows[0][0])
	require.Equal(t, "2020", res.Rows[0][1])
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	d, prof := medalTable()
	res := Search(d, prof, query.Plan{Filters: map[string]string{"country": "usa"}})
	require.Equal(t, 2, res.Meta.RecordCount)
}

func TestSearchMissingColumnIsNoop(t *testing.T) {
	d := dataset.New([]string{"Gold"}, [][]string{{"1"}, {"2"}})
	prof := dataset.ProfileSchema(d, nil)
	res := Search(d, prof, query.Plan{Filters: map[string]string{"country": "USA", "city": "Tokyo"}})
	require.Equal(t, 2, res.Meta.RecordCount)
}

func TestSearchRankingDescendingDefaultLimit(t *testing.T) {
	cols := []string{"Team", "Gold"}
	rows := make([][]string, 0, 12)
	teams := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"}
	for i, team := range teams {
		rows = append(rows, []string{team, strconv.Itoa(i)})
	}
	d := dataset.New(cols, rows)
	prof := dataset.ProfileSchema(d, nil)

	res := Search(d, prof, query.Plan{Intent: query.IntentRanking})
	require.Equal(t, 10, res.Meta.RecordCount)
	require.Equal(t, "L", res.Rows[0][0], "highest Gold first")
}

func TestSearchRankingTopTwoByGold(t *testing.T) {
	d, prof := medalTable()
	res := Search(d, prof, query.Plan{Intent: query.IntentRanking, Limit: 2, Filters: map[string]string{"year": "2020"}})
	require.Equal(t, 2, res.Meta.RecordCount)
	require.Equal(t, "USA", res.Rows[0][0], "USA (39) outranks China (38)")
	require.Equal(t, "China", res.Rows[1][0])
}

func TestSearchRankingWithoutSortColumn(t *testing.T) {
	d := dataset.New([]string{"Team"}, [][]string{{"USA"}, {"China"}})
	prof := dataset.ProfileSchema(d, nil)
	res := Search(d, prof, query.Plan{Intent: query.IntentRanking, Limit: 1})
	// no medal column to sort by: rows pass through untouched
	require.Equal(t, 2, res.Meta.RecordCount)
}

func TestSearchEmptyDataset(t *testing.T) {
	d := dataset.New([]string{"Team", "Year", "Gold"}, nil)
	prof := dataset.ProfileSchema(d, nil)
	res := Search(d, prof, query.Plan{Filters: map[string]string{"country": "USA"}})
	require.True(t, res.Meta.Empty)
	require.Empty(t, res.Rows)
}

func TestSearchUnknownCountryYieldsEmpty(t *testing.T) {
	d, prof := medalTable()
	res := Search(d, prof, query.Plan{Filters: map[string]string{"country": "Brazil"}})
	require.True(t, res.Meta.Empty)
}

func TestMedalFilterPerCountColumn(t *testing.T) {
	d := dataset.New(
		[]string{"Team", "Gold"},
		[][]string{{"USA", "3"}, {"Zeroland", "0"}},
	)
	prof := dataset.ProfileSchema(d, nil)
	res := Search(d, prof, query.Plan{Filters: map[string]string{"medal_type": "gold"}})
	require.Equal(t, 1, res.Meta.RecordCount)
	require.Equal(t, "USA", res.Rows[0][0])
}

func TestMedalFilterUnifiedMedalColumnIsNoop(t *testing.T) {
	d := dataset.New(
		[]string{"Name", "Medal"},
		[][]string{{"A", "Gold"}, {"B", "Silver"}},
	)
	prof := dataset.ProfileSchema(d, nil)
	res := Search(d, prof, query.Plan{Filters: map[string]string{"medal_type": "gold"}})
	// legacy fallthrough: a unified Medal column applies no medal filter
	require.Equal(t, 2, res.Meta.RecordCount)
}

func TestMedalFilterTotalIsNoop(t *testing.T) {
	d := dataset.New(
		[]string{"Team", "Gold", "Total"},
		[][]string{{"USA", "3", "10"}, {"China", "0", "8"}},
	)
	prof := dataset.ProfileSchema(d, nil)
	res := Search(d, prof, query.Plan{Filters: map[string]string{"medal_type": "total"}})
	require.Equal(t, 2, res.Meta.RecordCount)
}
