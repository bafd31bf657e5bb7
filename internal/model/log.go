package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-date key format used throughout.
const DateLayout = "2006-01-02"

// FoodEntry is one logged food. Entries are immutable once appended.
type FoodEntry struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	Protein   int       `json:"protein"`
	Carbs     int       `json:"carbs"`
	Fats      int       `json:"fats"`
	Image     string    `json:"image,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DayLog holds the entries logged on one calendar date, in insertion order.
type DayLog struct {
	Foods []FoodEntry `json:"foods"`
}

// NutritionTotals is the sum of entry macros over some period.
type NutritionTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// DayCalories is one point of the weekly series. Day is a short weekday
// label ("Mon"), Date the YYYY-MM-DD key.
type DayCalories struct {
	Day      string `json:"day"`
	Date     string `json:"date"`
	Calories int    `json:"calories"`
}

// RecognitionResult is a nutrition estimate for one photographed food.
type RecognitionResult struct {
	Name     string `json:"name"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fats     int    `json:"fats"`
}
