package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/nutrilog-server/internal/model"
	"github.com/mkravets/nutrilog-server/internal/repository/memory"
	"github.com/mkravets/nutrilog-server/internal/store"
	"github.com/mkravets/nutrilog-server/internal/testutil"
)

func newTestStats(t *testing.T, now time.Time) (*Stats, *store.Store) {
	t.Helper()
	dataStore := store.NewStore(memory.NewKV(), testutil.MakeNoopLogger())
	s := NewStats(dataStore)
	s.now = func() time.Time { return now }
	return s, dataStore
}

func TestStats_Daily_SumsAllMacros(t *testing.T) {
	ctx := context.Background()
	s, dataStore := newTestStats(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	_, err := dataStore.AddFood(ctx, "a@b.c", "2026-08-30", model.FoodEntry{Name: "Oatmeal", Calories: 100, Protein: 5, Carbs: 20, Fats: 2})
	require.NoError(t, err)
	_, err = dataStore.AddFood(ctx, "a@b.c", "2026-08-30", model.FoodEntry{Name: "Chicken", Calories: 250, Protein: 30, Carbs: 0, Fats: 8})
	require.NoError(t, err)

	totals, err := s.Daily(ctx, "a@b.c", "2026-08-30")
	require.NoError(t, err)

	assert.Equal(t, 350, totals.Calories)
	assert.Equal(t, 35, totals.Protein)
	assert.Equal(t, 20, totals.Carbs)
	assert.Equal(t, 10, totals.Fats)
}

func TestStats_Daily_ZeroWhenNoLog(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStats(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	totals, err := s.Daily(ctx, "a@b.c", "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, model.NutritionTotals{}, totals)
}

func TestStats_Weekly_AlwaysSevenDaysOldestFirst(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC) // a Sunday
	s, _ := newTestStats(t, today)

	series, err := s.Weekly(ctx, "a@b.c")
	require.NoError(t, err)
	require.Len(t, series, 7)

	assert.Equal(t, "2026-08-24", series[0].Date)
	assert.Equal(t, "Mon", series[0].Day)
	assert.Equal(t, "2026-08-30", series[6].Date)
	assert.Equal(t, "Sun", series[6].Day)

	for _, day := range series {
		assert.Zero(t, day.Calories)
	}
}

func TestStats_Weekly_PicksUpLoggedDates(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	s, dataStore := newTestStats(t, today)

	_, err := dataStore.AddFood(ctx, "a@b.c", "2026-08-28", model.FoodEntry{Name: "Pasta", Calories: 600})
	require.NoError(t, err)
	_, err = dataStore.AddFood(ctx, "a@b.c", "2026-08-30", model.FoodEntry{Name: "Salad", Calories: 150})
	require.NoError(t, err)
	// Outside the window, must not appear.
	_, err = dataStore.AddFood(ctx, "a@b.c", "2026-08-20", model.FoodEntry{Name: "Burger", Calories: 900})
	require.NoError(t, err)

	series, err := s.Weekly(ctx, "a@b.c")
	require.NoError(t, err)
	require.Len(t, series, 7)

	byDate := make(map[string]int)
	for _, day := range series {
		byDate[day.Date] = day.Calories
	}
	assert.Equal(t, 600, byDate["2026-08-28"])
	assert.Equal(t, 150, byDate["2026-08-30"])
	assert.NotContains(t, byDate, "2026-08-20")
}

func TestStats_Weekly_WindowMovesWithClock(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStats(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	series, err := s.Weekly(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "2026-08-30", series[6].Date)

	s.now = func() time.Time { return time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC) }

	series, err = s.Weekly(ctx, "a@b.c")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02", series[6].Date)
	assert.Equal(t, "2026-08-27", series[0].Date)
}
