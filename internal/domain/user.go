package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleUnset     Role = ""
	RoleJobSeeker Role = "JOB_SEEKER"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

// Selectable reports whether a user may pick the role during registration.
func (r Role) Selectable() bool {
	return r == RoleJobSeeker || r == RoleEmployer
}

// Account is a registered user. Accounts are deactivated, never hard-deleted.
type Account struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            *string   `json:"email"`
	PasswordHash     string    `json:"-"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Role             Role      `json:"role"`
	IsEmailVerified  bool      `json:"is_email_verified"`
	ProfileImage     string    `json:"profile_image"`
	Title            string    `json:"title"`
	AboutMe          string    `json:"about_me"`
	Latitude         *float64  `json:"latitude"`
	Longitude        *float64  `json:"longitude"`
	WorkHoursPerWeek string    `json:"work_hours_per_week"`
	SalaryUSD        *float64  `json:"salary_usd"`
	IsActive         bool      `json:"is_active"`
	DateJoined       time.Time `json:"date_joined"`
}

// FullName joins first and last name, trimmed.
func (a *Account) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(a.FirstName) + " " + strings.TrimSpace(a.LastName))
}

// EmailAddress returns the email or "" when unset.
func (a *Account) EmailAddress() string {
	if a.Email == nil {
		return ""
	}
	return *a.Email
}

// AccountSnapshot is the current-account payload for /auth/me.
type AccountSnapshot struct {
	ID              string  `json:"id"`
	Username        string  `json:"username"`
	Email           *string `json:"email"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	Role            Role    `json:"role"`
	IsEmailVerified bool    `json:"is_email_verified"`
}

func (a *Account) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:              a.ID,
		Username:        a.Username,
		Email:           a.Email,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Role:            a.Role,
		IsEmailVerified: a.IsEmailVerified,
	}
}

// AccountFields is a partial update of the editable profile columns; nil means unchanged.
type AccountFields struct {
	Title            *string
	AboutMe          *string
	WorkHoursPerWeek *string
	SalaryUSD        *float64
	Latitude         *float64
	Longitude        *float64
	ProfileImage     *string
}

type AccountRepository interface {
	// Create inserts the account; a taken username returns ErrConflict.
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByUsername(ctx context.Context, username string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailTakenByOther reports whether another account already uses email (case-insensitive).
	EmailTakenByOther(ctx context.Context, email, accountID string) (bool, error)
	SetEmail(ctx context.Context, accountID, email string) error
	SetRole(ctx context.Context, accountID string, role Role) error
	SetPassword(ctx context.Context, accountID, passwordHash string) error
	UpdateFields(ctx context.Context, accountID string, fields AccountFields) (*Account, error)
	Search(ctx context.Context, query string, limit int) ([]Account, error)
}

// VerificationCode is the single outstanding email code of an account.
type VerificationCode struct {
	AccountID string    `json:"account_id"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type VerificationRepository interface {
	// Upsert replaces any existing code for the account.
	Upsert(ctx context.Context, accountID, code string) error
	// Consume deletes the (account, code) pair and marks the account verified in
	// one transaction. Returns ErrNotFound when the pair does not exist.
	Consume(ctx context.Context, accountID, code string) error
}

// TokenPair is returned by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RequestMeta identifies the client for audit and brute-force tracking.
type RequestMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type RegisterStep1Input struct {
	FirstName       string `json:"first_name" binding:"required,max=50" validate:"required,max=50,valid_name"`
	LastName        string `json:"last_name" binding:"required,max=50" validate:"required,max=50,valid_name"`
	Username        string `json:"username" binding:"required" validate:"required,username"`
	Password        string `json:"password" binding:"required" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required" validate:"required"`
}

type AuthUsecase interface {
	RegisterStep1(ctx context.Context, input RegisterStep1Input) (string, error)
	RegisterStep2SetEmail(ctx context.Context, accountID, email string) error
	RegisterStep3VerifyCode(ctx context.Context, accountID, code string) error
	RegisterStep4SetRole(ctx context.Context, accountID string, role Role) error
	ResendCode(ctx context.Context, accountID string) error
	Login(ctx context.Context, username, password string, meta RequestMeta) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, accountID, refreshToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error
	// Authenticate resolves a bearer access token to an active account.
	Authenticate(ctx context.Context, accessToken string) (*Account, error)
	Me(ctx context.Context, accountID string) (*AccountSnapshot, error)
}

// Actor is the authenticated caller as seen by usecases. The zero value is anonymous.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) Authenticated() bool { return a.ID != "" }
