package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

func TestJWT_Hint_Roundtrip(t *testing.T) {
	j := NewJWT("secret")
	hint := model.RecognitionHint{
		UserID:      uuid.New(),
		TenantID:    uuid.New(),
		Fingerprint: "fp-1",
		ExpiresAt:   time.Now().Add(10 * time.Minute).Truncate(time.Second),
	}

	tok, err := j.Issue(hint)
	require.NoError(t, err)

	got, err := j.Parse(tok)
	require.NoError(t, err)
	require.Equal(t, hint.UserID, got.UserID)
	require.Equal(t, hint.TenantID, got.TenantID)
	require.Equal(t, hint.Fingerprint, got.Fingerprint)
	require.True(t, hint.ExpiresAt.Equal(got.ExpiresAt))
}

func TestJWT_Hint_Expired(t *testing.T) {
	j := NewJWT("secret")
	tok, err := j.Issue(model.RecognitionHint{
		UserID:    uuid.New(),
		TenantID:  uuid.New(),
		ExpiresAt: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	j.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = j.Parse(tok)
	require.ErrorIs(t, err, model.ErrHintInvalid)
}

func TestJWT_Hint_WrongKey(t *testing.T) {
	tok, err := NewJWT("secret").Issue(model.RecognitionHint{
		UserID:    uuid.New(),
		ExpiresAt: time.Now().Add(time.Minute),
	})
	require.NoError(t, err)

	_, err = NewJWT("other").Parse(tok)
	require.ErrorIs(t, err, model.ErrHintInvalid)
}

func TestJWT_Hint_TypeMismatch(t *testing.T) {
	j := NewJWT("secret")
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		TokenType: "access",
	})
	tok, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = j.Parse(tok)
	require.ErrorIs(t, err, model.ErrHintInvalid)
}
