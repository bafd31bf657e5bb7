package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
)

// Key layout in the underlying key-value store. All user documents live in
// one JSON blob keyed by email; theme preference has its own key.
const (
	dataKey  = "nutrilog:data"
	themeKey = "nutrilog:theme"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Store is the persistence layer. Every mutating operation is a full
// read-modify-write of the data document; SaveUser guards against stale
// overwrites with a version check.
type Store struct {
	kv     model.KeyValue
	logger *logger.Logger
	now    func() time.Time
}

func NewStore(kv model.KeyValue, logger *logger.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Store) loadAll(ctx context.Context) (map[string]*model.UserRecord, error) {
	raw, ok, err := s.kv.Get(ctx, dataKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read data document: %w", err)
	}
	if !ok {
		return make(map[string]*model.UserRecord), nil
	}

	all := make(map[string]*model.UserRecord)
	if err := json.Unmarshal([]byte(raw), &all); err != nil {
		return nil, fmt.Errorf("failed to decode data document: %w", err)
	}

	return all, nil
}

func (s *Store) saveAll(ctx context.Context, all map[string]*model.UserRecord) error {
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("failed to encode data document: %w", err)
	}
	if err := s.kv.Set(ctx, dataKey, string(raw)); err != nil {
		return fmt.Errorf("failed to write data document: %w", err)
	}
	return nil
}

func defaultRecord(email string, joined time.Time) *model.UserRecord {
	return &model.UserRecord{
		ID:    uuid.New(),
		Email: email,
		Profile: model.Profile{
			Name:   model.DefaultProfileName,
			Goals:  model.DefaultGoals(),
			Joined: joined,
		},
		Logs: make(map[string]*model.DayLog),
	}
}

// GetUser returns the record for email, creating and persisting a default
// one when absent.
func (s *Store) GetUser(ctx context.Context, email string) (model.UserRecord, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return model.UserRecord{}, err
	}

	rec, ok := all[email]
	if !ok {
		rec = defaultRecord(email, s.now())
		all[email] = rec
		if err := s.saveAll(ctx, all); err != nil {
			return model.UserRecord{}, err
		}
		s.logger.Debug("store: created default record", "email", email)
	}

	return *rec, nil
}

// FindUser returns the record for email without creating one.
func (s *Store) FindUser(ctx context.Context, email string) (model.UserRecord, bool, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return model.UserRecord{}, false, err
	}

	rec, ok := all[email]
	if !ok {
		return model.UserRecord{}, false, nil
	}
	return *rec, true, nil
}

// RegisterUser attaches credentials and a profile name to the record for
// email. A record that already carries credentials means the email is
// taken; a lazily created record is claimed instead of duplicated.
func (s *Store) RegisterUser(ctx context.Context, email, passwordHash, name string) (model.UserRecord, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return model.UserRecord{}, err
	}

	rec, ok := all[email]
	if ok && rec.PasswordHash != "" {
		return model.UserRecord{}, model.ErrEmailTaken
	}
	if !ok {
		rec = defaultRecord(email, s.now())
		all[email] = rec
	}

	rec.PasswordHash = passwordHash
	rec.Profile.Name = name
	rec.Profile.Joined = s.now()
	rec.Version++

	if err := s.saveAll(ctx, all); err != nil {
		return model.UserRecord{}, err
	}

	s.logger.Info("store: registered user", "email", email)
	return *rec, nil
}

// SaveUser overwrites the whole record for email. The caller must present
// the version it loaded; a mismatch means another writer got there first.
func (s *Store) SaveUser(ctx context.Context, email string, rec model.UserRecord) (model.UserRecord, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return model.UserRecord{}, err
	}

	if stored, ok := all[email]; ok && stored.Version != rec.Version {
		return model.UserRecord{}, model.ErrVersionConflict
	}

	rec.Version++
	all[email] = &rec

	if err := s.saveAll(ctx, all); err != nil {
		return model.UserRecord{}, err
	}

	return rec, nil
}

// UpdateGoal sets the daily calorie goal and returns the resulting goals.
// Input validation is the caller's responsibility.
func (s *Store) UpdateGoal(ctx context.Context, email string, calories int) (model.Goals, error) {
	rec, err := s.GetUser(ctx, email)
	if err != nil {
		return model.Goals{}, err
	}

	rec.Profile.Goals.Calories = calories

	saved, err := s.SaveUser(ctx, email, rec)
	if err != nil {
		return model.Goals{}, err
	}

	return saved.Profile.Goals, nil
}

// GetLog returns the day log for date, or an empty sentinel that is not
// persisted.
func (s *Store) GetLog(ctx context.Context, email, date string) (model.DayLog, error) {
	rec, err := s.GetUser(ctx, email)
	if err != nil {
		return model.DayLog{}, err
	}

	log, ok := rec.Logs[date]
	if !ok {
		return model.DayLog{Foods: []model.FoodEntry{}}, nil
	}
	return *log, nil
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// AddFood appends an entry to the log for date, creating the log on first
// use. The first entry of a new date bumps the streak; later entries on
// the same date do not. The date is caller-supplied so attribution does
// not depend on this function's wall clock.
func (s *Store) AddFood(ctx context.Context, email, date string, entry model.FoodEntry) (model.DayLog, error) {
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return model.DayLog{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	all, err := s.loadAll(ctx)
	if err != nil {
		return model.DayLog{}, err
	}

	rec, ok := all[email]
	if !ok {
		rec = defaultRecord(email, s.now())
		all[email] = rec
	}
	if rec.Logs == nil {
		rec.Logs = make(map[string]*model.DayLog)
	}

	log, ok := rec.Logs[date]
	if !ok {
		log = &model.DayLog{Foods: []model.FoodEntry{}}
		rec.Logs[date] = log
		rec.Streak.Count++
		rec.Streak.LastLoggedDate = date
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Calories = clamp(entry.Calories)
	entry.Protein = clamp(entry.Protein)
	entry.Carbs = clamp(entry.Carbs)
	entry.Fats = clamp(entry.Fats)

	log.Foods = append(log.Foods, entry)
	rec.Version++

	if err := s.saveAll(ctx, all); err != nil {
		return model.DayLog{}, err
	}

	s.logger.Debug("store: food logged",
		"email", email,
		"date", date,
		"name", entry.Name,
		"calories", entry.Calories)

	return *log, nil
}

// Theme returns the stored theme preference, defaulting to light.
func (s *Store) Theme(ctx context.Context) (string, error) {
	theme, ok, err := s.kv.Get(ctx, themeKey)
	if err != nil {
		return "", fmt.Errorf("failed to read theme: %w", err)
	}
	if !ok {
		return ThemeLight, nil
	}
	return theme, nil
}

// SetTheme stores the theme preference.
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	if err := s.kv.Set(ctx, themeKey, theme); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	return nil
}

// ToggleTheme flips the stored preference and returns the new value.
func (s *Store) ToggleTheme(ctx context.Context) (string, error) {
	current, err := s.Theme(ctx)
	if err != nil {
		return "", err
	}

	next := ThemeLight
	if current == ThemeLight {
		next = ThemeDark
	}

	if err := s.SetTheme(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
