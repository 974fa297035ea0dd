package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govitrine/internal/catalog/stats"
)

type order struct {
	status  string
	total   float64
	created time.Time
}

var now = time.Date(2026, 5, 20, 10, 0, 0, 0, time.UTC)

func daysAgo(d float64) time.Time {
	return now.Add(-time.Duration(d * 24 * float64(time.Hour)))
}

func orderSpec() stats.Spec[order] {
	return stats.Spec[order]{
		CountWhere: map[string]func(order) bool{
			"pending":   func(o order) bool { return o.status == "pending" },
			"completed": func(o order) bool { return o.status == "completed" },
		},
		Sum:              map[string]func(order) float64{"revenue": func(o order) float64 { return o.total }},
		Average:          map[string]func(order) float64{"ticket": func(o order) float64 { return o.total }},
		DropOffs:         map[string]stats.DropOff{"checkout": {From: "pending", To: "completed"}},
		RecentWithinDays: 7,
		Timestamp:        func(o order) time.Time { return o.created },
		Now:              now,
	}
}

func TestSummarize_EmptyCollection(t *testing.T) {
	out := stats.Summarize(nil, orderSpec())

	assert.Equal(t, 0, out.Count)
	assert.Equal(t, 0.0, out.Averages["ticket"])
	assert.Equal(t, 0.0, out.Sums["revenue"])
	assert.Equal(t, 0, out.ByLabel["pending"])
	assert.Equal(t, 0.0, out.Percentages["pending"])
	assert.Equal(t, 0.0, out.DropOffs["checkout"])
	assert.Nil(t, out.ChangePercent)
}

func TestSummarize_Aggregates(t *testing.T) {
	collection := []order{
		{status: "pending", total: 100, created: daysAgo(1)},
		{status: "pending", total: 50, created: daysAgo(2)},
		{status: "pending", total: 30, created: daysAgo(9)},
		{status: "pending", total: 20, created: daysAgo(10)},
		{status: "completed", total: 200, created: daysAgo(3)},
	}

	out := stats.Summarize(collection, orderSpec())

	assert.Equal(t, 5, out.Count)
	assert.Equal(t, map[string]int{"pending": 4, "completed": 1}, out.ByLabel)
	assert.InDelta(t, 80.0, out.Percentages["pending"], 1e-9)
	assert.InDelta(t, 400.0, out.Sums["revenue"], 1e-9)
	assert.InDelta(t, 80.0, out.Averages["ticket"], 1e-9)
	assert.InDelta(t, 75.0, out.DropOffs["checkout"], 1e-9)

	assert.Equal(t, 3, out.Recent)
	assert.Equal(t, 2, out.PreviousRecent)
	require.NotNil(t, out.ChangePercent)
	assert.Equal(t, 50.0, *out.ChangePercent)
}

func TestSummarize_RecentWindowUsesCallerClock(t *testing.T) {
	collection := []order{
		{created: daysAgo(0)},
		{created: daysAgo(7)}, // limite inclusivo
		{created: daysAgo(7.5)},
		{created: now.Add(time.Hour)}, // futuro
	}

	out := stats.Summarize(collection, orderSpec())
	assert.Equal(t, 2, out.Recent)
	assert.Equal(t, 1, out.PreviousRecent)

	spec := orderSpec()
	spec.Now = now.AddDate(0, 0, 30)
	later := stats.Summarize(collection, spec)
	assert.Equal(t, 0, later.Recent)
	assert.Nil(t, later.ChangePercent)
}

func TestSummarize_ChangePercentIsRounded(t *testing.T) {
	collection := []order{
		{created: daysAgo(1)},
		{created: daysAgo(8)},
		{created: daysAgo(9)},
		{created: daysAgo(10)},
	}

	out := stats.Summarize(collection, orderSpec())

	require.NotNil(t, out.ChangePercent)
	assert.Equal(t, -66.7, *out.ChangePercent)
}

func TestSummarize_IsIdempotentAndDoesNotMutate(t *testing.T) {
	collection := []order{
		{status: "completed", total: 10, created: daysAgo(1)},
		{status: "pending", total: 5, created: daysAgo(2)},
	}
	snapshot := append([]order(nil), collection...)

	first := stats.Summarize(collection, orderSpec())
	second := stats.Summarize(collection, orderSpec())

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, collection)
}

func TestSummarize_PredicatesEvaluatedOncePerItem(t *testing.T) {
	calls := 0
	spec := stats.Spec[order]{
		CountWhere: map[string]func(order) bool{
			"any": func(order) bool { calls++; return true },
		},
	}

	stats.Summarize(make([]order, 4), spec)
	assert.Equal(t, 4, calls)
}
