package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
)

const typeHint = "recognition_hint"

// Claims represents recognition hint claims.
type Claims struct {
	jwt.RegisteredClaims
	TenantID    uuid.UUID `json:"tenant_id"`
	Fingerprint string    `json:"fp"`
	TokenType   string    `json:"typ"`
}

// JWT implements HintManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	now       func() time.Time
}

var _ model.HintManager = (*JWT)(nil)

// NewJWT creates a hint manager with the provided secret key.
func NewJWT(secretKey string) *JWT {
	return &JWT{secretKey: []byte(secretKey), now: time.Now}
}

// Issue signs a hint that expires at hint.ExpiresAt.
func (j *JWT) Issue(hint model.RecognitionHint) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   hint.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(j.now()),
			ExpiresAt: jwt.NewNumericDate(hint.ExpiresAt),
		},
		TenantID:    hint.TenantID,
		Fingerprint: hint.Fingerprint,
		TokenType:   typeHint,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign recognition hint: %w", err)
	}

	return tokenString, nil
}

// Parse validates the signature, expiry and type of a hint.
func (j *JWT) Parse(tokenString string) (model.RecognitionHint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		return model.RecognitionHint{}, fmt.Errorf("%w: %v", model.ErrHintInvalid, err)
	}
	if !token.Valid || claims.TokenType != typeHint {
		return model.RecognitionHint{}, model.ErrHintInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.RecognitionHint{}, fmt.Errorf("%w: bad subject", model.ErrHintInvalid)
	}

	return model.RecognitionHint{
		UserID:      userID,
		TenantID:    claims.TenantID,
		Fingerprint: claims.Fingerprint,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
