package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("token is invalid or expired")
	ErrWrongType    = errors.New("token has the wrong type")
	ErrRevoked      = errors.New("token has been revoked")
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// Claims carried by access and refresh tokens. Subject is the account id.
type Claims struct {
	Role string `json:"role,omitempty"`
	Type Type   `json:"typ"`
	jwt.RegisteredClaims
}

// Pair is returned on login.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Service signs and verifies HS256 bearer tokens and tracks revoked refresh tokens.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  Blacklist
	now        func() time.Time
}

func NewService(secret string, accessTTL, refreshTTL time.Duration, blacklist Blacklist) *Service {
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

// IssuePair signs a fresh access/refresh pair for the account.
func (s *Service) IssuePair(accountID, role string) (Pair, error) {
	access, err := s.sign(accountID, role, TypeAccess, s.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.sign(accountID, role, TypeRefresh, s.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

func (s *Service) sign(accountID, role string, typ Type, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("token: signing secret not configured")
	}
	now := s.now()
	claims := Claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) parse(tokenString string, typ Type) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != typ {
		return nil, ErrWrongType
	}
	return claims, nil
}

// ParseAccess validates an access token.
func (s *Service) ParseAccess(tokenString string) (*Claims, error) {
	return s.parse(tokenString, TypeAccess)
}

// ParseRefresh validates a refresh token and rejects revoked ones.
func (s *Service) ParseRefresh(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString, TypeRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke blacklists a refresh token until it would have expired anyway.
func (s *Service) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.ParseRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.blacklist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Refresh exchanges a live refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.ParseRefresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return s.sign(claims.Subject, claims.Role, TypeAccess, s.accessTTL)
}
