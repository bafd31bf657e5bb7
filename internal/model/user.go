package model

import (
	"time"

	"github.com/google/uuid"
)

// Default daily goals assigned to every new profile.
const (
	DefaultCalorieGoal = 2000
	DefaultProteinGoal = 150
	DefaultCarbGoal    = 200
	DefaultFatGoal     = 70
)

// DefaultProfileName is used for records created lazily, before signup
// fills in a real name.
const DefaultProfileName = "User"

// Goals holds per-day nutrition targets.
type Goals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// DefaultGoals returns the goals assigned at record creation.
func DefaultGoals() Goals {
	return Goals{
		Calories: DefaultCalorieGoal,
		Protein:  DefaultProteinGoal,
		Carbs:    DefaultCarbGoal,
		Fats:     DefaultFatGoal,
	}
}

// Profile holds mutable user-facing profile data.
type Profile struct {
	Name   string    `json:"name"`
	Goals  Goals     `json:"goals"`
	Joined time.Time `json:"joined"`
}

// Streak counts distinct calendar dates with at least one logged entry.
// It never decrements; LastLoggedDate is kept so a consecutive-day variant
// can be derived later without a schema change.
type Streak struct {
	Count          int    `json:"count"`
	LastLoggedDate string `json:"lastLoggedDate,omitempty"`
}

// UserRecord is the whole per-user document. Log keys are calendar dates
// in YYYY-MM-DD form. Version guards whole-document overwrites.
type UserRecord struct {
	ID           uuid.UUID          `json:"id"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"passwordHash,omitempty"`
	Profile      Profile            `json:"profile"`
	Logs         map[string]*DayLog `json:"logs"`
	Streak       Streak             `json:"streak"`
	Version      int64              `json:"version"`
}
