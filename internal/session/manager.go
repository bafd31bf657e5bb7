package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
	"github.com/mkravets/nutrilog-server/internal/store"
)

// sessionKey is the single session slot in the key-value store.
const sessionKey = "nutrilog:session"

// Manager owns the session lifecycle: credential verification, the stored
// session record and the signed token handed to clients. The session slot
// lives in the key-value store directly, independent of user documents.
type Manager struct {
	store  *store.Store
	kv     model.KeyValue
	tokens model.TokenManager
	logger *logger.Logger
	now    func() time.Time
}

func NewManager(store *store.Store, kv model.KeyValue, tokens model.TokenManager, logger *logger.Logger) *Manager {
	return &Manager{
		store:  store,
		kv:     kv,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Signup registers email with a bcrypt-hashed password and logs the new
// user in. The profile name defaults to the email's local part. A taken
// email leaves the existing record untouched.
func (m *Manager) Signup(ctx context.Context, email, password string) (model.SessionRecord, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.SessionRecord{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}

	if _, err := m.store.RegisterUser(ctx, email, string(hash), name); err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			m.logger.Info("session: signup rejected, email taken", "email", email)
		}
		return model.SessionRecord{}, "", err
	}

	return m.Login(ctx, email, password)
}

// Login verifies credentials and writes a fresh session record. Failure
// leaves any existing session unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) (model.SessionRecord, string, error) {
	rec, ok, err := m.store.FindUser(ctx, email)
	if err != nil {
		return model.SessionRecord{}, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if !ok || rec.PasswordHash == "" {
		return model.SessionRecord{}, "", model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		m.logger.Info("session: login rejected", "email", email)
		return model.SessionRecord{}, "", model.ErrInvalidCredentials
	}

	session := model.SessionRecord{
		UserID: rec.ID,
		Email:  rec.Email,
		Name:   rec.Profile.Name,
		Expiry: m.now().Add(model.SessionDuration),
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return model.SessionRecord{}, "", fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.kv.Set(ctx, sessionKey, string(raw)); err != nil {
		return model.SessionRecord{}, "", fmt.Errorf("failed to write session: %w", err)
	}

	tok, err := m.tokens.GenerateSessionToken(rec.ID, session.Expiry)
	if err != nil {
		return model.SessionRecord{}, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	m.logger.Info("session: login successful", "email", email)
	return session, tok, nil
}

// Check validates the presented token against the stored session record.
// An expired or corrupt record is destroyed on read.
func (m *Manager) Check(ctx context.Context, token string) (model.SessionRecord, error) {
	userID, err := m.tokens.ParseSessionToken(token)
	if err != nil {
		return model.SessionRecord{}, model.ErrNoSession
	}

	raw, ok, err := m.kv.Get(ctx, sessionKey)
	if err != nil {
		return model.SessionRecord{}, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return model.SessionRecord{}, model.ErrNoSession
	}

	var session model.SessionRecord
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		_ = m.kv.Delete(ctx, sessionKey)
		return model.SessionRecord{}, model.ErrNoSession
	}

	if m.now().After(session.Expiry) {
		if err := m.kv.Delete(ctx, sessionKey); err != nil {
			return model.SessionRecord{}, fmt.Errorf("failed to destroy expired session: %w", err)
		}
		m.logger.Debug("session: expired session destroyed", "email", session.Email)
		return model.SessionRecord{}, model.ErrNoSession
	}

	if session.UserID != userID {
		return model.SessionRecord{}, model.ErrNoSession
	}

	return session, nil
}

// Logout destroys the stored session unconditionally.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, sessionKey); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
