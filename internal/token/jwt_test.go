package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestJWT_SessionToken_Roundtrip(t *testing.T) {
	j := NewJWT("secret")
	u := uuid.New()

	tok, err := j.GenerateSessionToken(u, time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	got, err := j.ParseSessionToken(tok)
	require.NoError(t, err)
	require.Equal(t, u, got)
}

func TestJWT_RejectsExpiredToken(t *testing.T) {
	j := NewJWT("secret")

	tok, err := j.GenerateSessionToken(uuid.New(), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = j.ParseSessionToken(tok)
	require.Error(t, err)
}

func TestJWT_RejectsWrongSecret(t *testing.T) {
	signer := NewJWT("secret")
	verifier := NewJWT("other-secret")

	tok, err := signer.GenerateSessionToken(uuid.New(), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = verifier.ParseSessionToken(tok)
	require.Error(t, err)
}

func TestJWT_RejectsGarbage(t *testing.T) {
	j := NewJWT("secret")

	_, err := j.ParseSessionToken("definitely.not.ajwt")
	require.Error(t, err)
}
