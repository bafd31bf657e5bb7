package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/mkravets/nutrilog-server/internal/model"
	"github.com/mkravets/nutrilog-server/internal/store"
)

// WeekLength is the number of days covered by the weekly series.
const WeekLength = 7

// Stats derives daily totals and the rolling weekly series from the
// persistence layer. It holds no state of its own.
type Stats struct {
	store *store.Store
	now   func() time.Time
}

func NewStats(store *store.Store) *Stats {
	return &Stats{
		store: store,
		now:   time.Now,
	}
}

// Daily sums all entry macros logged on date. Totals are zero when no log
// exists for that date.
func (s *Stats) Daily(ctx context.Context, email, date string) (model.NutritionTotals, error) {
	log, err := s.store.GetLog(ctx, email, date)
	if err != nil {
		return model.NutritionTotals{}, fmt.Errorf("failed to get log: %w", err)
	}

	var totals model.NutritionTotals
	for _, food := range log.Foods {
		totals.Calories += food.Calories
		totals.Protein += food.Protein
		totals.Carbs += food.Carbs
		totals.Fats += food.Fats
	}

	return totals, nil
}

// Weekly returns calories for the last seven days including today, oldest
// first. Date boundaries are recomputed from the clock on every call.
func (s *Stats) Weekly(ctx context.Context, email string) ([]model.DayCalories, error) {
	today := s.now()

	series := make([]model.DayCalories, 0, WeekLength)
	for i := WeekLength - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		date := d.Format(model.DateLayout)

		totals, err := s.Daily(ctx, email, date)
		if err != nil {
			return nil, err
		}

		series = append(series, model.DayCalories{
			Day:      d.Format("Mon"),
			Date:     date,
			Calories: totals.Calories,
		})
	}

	return series, nil
}
