package token

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const purposePasswordReset = "password_reset"

type resetClaims struct {
	Purpose  string `json:"purpose"`
	Checksum string `json:"chk"`
	jwt.RegisteredClaims
}

// ResetTokens issues password reset tokens. Nothing is stored: a token carries
// a checksum of the account state it was issued for, so changing the password
// invalidates every outstanding token.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokens(secret string, ttl time.Duration) *ResetTokens {
	return &ResetTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// StateChecksum hashes the parts of an account that must not change while a token is live.
func StateChecksum(accountID, passwordHash string, emailVerified bool) string {
	h := sha256.New()
	h.Write([]byte(accountID))
	h.Write([]byte{0})
	h.Write([]byte(passwordHash))
	if emailVerified {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Make returns a signed token for accountID bound to the given state checksum.
func (r *ResetTokens) Make(accountID, checksum string) (string, error) {
	if len(r.secret) == 0 {
		return "", errors.New("token: signing secret not configured")
	}
	now := r.now()
	claims := resetClaims{
		Purpose:  purposePasswordReset,
		Checksum: checksum,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// Check verifies the token was issued for accountID in its current state.
func (r *ResetTokens) Check(accountID, checksum, tokenString string) bool {
	claims := &resetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return r.secret, nil
	}, jwt.WithTimeFunc(r.now))
	if err != nil || !token.Valid {
		return false
	}
	if claims.Purpose != purposePasswordReset || claims.Subject != accountID {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(claims.Checksum), []byte(checksum)) == 1
}

// EncodeUID and DecodeUID give the account id a URL-safe form for reset links.
func EncodeUID(accountID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(accountID))
}

func DecodeUID(uid string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(b), nil
}
