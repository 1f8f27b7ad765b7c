package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/email"
	"jobmarket-backend/pkg/logger"
	"jobmarket-backend/pkg/security"
	"jobmarket-backend/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	accountRepo      domain.AccountRepository
	verificationRepo domain.VerificationRepository
	tokens           *token.Service
	resets           *token.ResetTokens
	notifier         email.Notifier
	tracker          *security.LoginTracker
	secLog           *security.SecurityLogger
	validate         *validator.Validate
	frontendURL      string
}

func NewAuthUsecase(
	accountRepo domain.AccountRepository,
	verificationRepo domain.VerificationRepository,
	tokens *token.Service,
	resets *token.ResetTokens,
	notifier email.Notifier,
	tracker *security.LoginTracker,
	secLog *security.SecurityLogger,
	validate *validator.Validate,
	frontendURL string,
) domain.AuthUsecase {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	if tracker == nil {
		tracker = security.NewLoginTracker(nil, security.DefaultLoginTrackerConfig(), secLog)
	}
	return &authUsecase{
		accountRepo:      accountRepo,
		verificationRepo: verificationRepo,
		tokens:           tokens,
		resets:           resets,
		notifier:         notifier,
		tracker:          tracker,
		secLog:           secLog,
		validate:         validate,
		frontendURL:      strings.TrimRight(frontendURL, "/"),
	}
}

func (u *authUsecase) RegisterStep1(ctx context.Context, input domain.RegisterStep1Input) (string, error) {
	// 1. Field rules
	if err := u.validate.Struct(input); err != nil {
		return "", validationErr(err)
	}
	if input.Password != input.ConfirmPassword {
		return "", apperror.Validation("Passwords do not match")
	}

	// 2. Username must be unique; the constraint covers the race
	exists, err := u.accountRepo.UsernameExists(ctx, input.Username)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if exists {
		return "", apperror.Validation("A user with that username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal(err)
	}

	// 3. Role and email stay unset until later steps
	account := &domain.Account{
		ID:           uuid.NewString(),
		Username:     input.Username,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         domain.RoleUnset,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
	}
	if err := u.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return "", apperror.Validation("A user with that username already exists")
		}
		return "", apperror.Internal(err)
	}
	return account.ID, nil
}

func (u *authUsecase) RegisterStep2SetEmail(ctx context.Context, accountID, address string) error {
	address = strings.TrimSpace(address)
	if err := u.validate.Var(address, "required,email"); err != nil {
		return apperror.Validation("Enter a valid email address")
	}

	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return repoErr(err, "User not found")
	}

	taken, err := u.accountRepo.EmailTakenByOther(ctx, address, account.ID)
	if err != nil {
		return apperror.Internal(err)
	}
	if taken {
		return apperror.Validation("This email is already in use")
	}

	// The address is stored before it is verified; verification only flips the flag.
	if err := u.accountRepo.SetEmail(ctx, account.ID, address); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return apperror.Validation("This email is already in use")
		}
		return apperror.Internal(err)
	}
	account.Email = &address

	return u.issueCode(ctx, account)
}

func (u *authUsecase) RegisterStep3VerifyCode(ctx context.Context, accountID, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperror.Validation("Code is required")
	}
	if _, err := u.accountRepo.GetByID(ctx, accountID); err != nil {
		return repoErr(err, "User not found")
	}

	if err := u.verificationRepo.Consume(ctx, accountID, code); err != nil {
		return repoErr(err, "Invalid or expired code")
	}

	u.secLog.LogAccountEvent(ctx, security.EventEmailVerified, accountID, nil)
	return nil
}

func (u *authUsecase) RegisterStep4SetRole(ctx context.Context, accountID string, role domain.Role) error {
	if !role.Selectable() {
		return apperror.Validation(fmt.Sprintf("Role must be %s or %s", domain.RoleJobSeeker, domain.RoleEmployer))
	}
	if _, err := u.accountRepo.GetByID(ctx, accountID); err != nil {
		return repoErr(err, "User not found")
	}
	if err := u.accountRepo.SetRole(ctx, accountID, role); err != nil {
		return repoErr(err, "User not found")
	}
	return nil
}

func (u *authUsecase) ResendCode(ctx context.Context, accountID string) error {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return repoErr(err, "User not found")
	}
	if account.EmailAddress() == "" {
		return apperror.Validation("Email is not set for this user")
	}
	return u.issueCode(ctx, account)
}

// issueCode replaces the account's code and mails it. A mail failure fails the step.
func (u *authUsecase) issueCode(ctx context.Context, account *domain.Account) error {
	code, err := generateCode()
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.verificationRepo.Upsert(ctx, account.ID, code); err != nil {
		return apperror.Internal(err)
	}

	body, err := email.VerificationBody(account.FullName(), code)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.notifier.Send(account.EmailAddress(), "Your verification code", body); err != nil {
		logger.Log.Error("verification email failed", "account_id", account.ID, "error", err)
		return apperror.Delivery("Could not send the verification email", err)
	}
	return nil
}

// generateCode returns a uniformly random code in 100000..999999.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func (u *authUsecase) Login(ctx context.Context, username, password string, meta domain.RequestMeta) (*domain.TokenPair, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.Validation("Username and password are required")
	}

	// 1. Brute force guard
	blocked, err := u.tracker.IsBlocked(ctx, username, meta.IP)
	if err != nil {
		logger.Log.Warn("login tracker unavailable", "error", err)
	}
	if blocked {
		return nil, apperror.New(apperror.KindAuth, http.StatusTooManyRequests, "Too many failed login attempts, try again later", nil)
	}

	// 2. Credentials
	account, err := u.accountRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if account == nil || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		if _, terr := u.tracker.RecordFailedAttempt(ctx, username, meta.IP, "invalid_credentials"); terr != nil {
			logger.Log.Warn("failed to record login attempt", "error", terr)
		}
		return nil, apperror.AuthFailed("Invalid username or password")
	}
	if !account.IsActive {
		u.secLog.LogLoginFailed(ctx, username, meta.IP, "inactive")
		return nil, apperror.AuthFailed("User account is disabled")
	}

	// 3. Unverified accounts never get a session
	if !account.IsEmailVerified {
		u.secLog.LogLoginFailed(ctx, username, meta.IP, "email_not_verified")
		return nil, apperror.AuthFailed("Email is not verified")
	}

	if err := u.tracker.ClearAttempts(ctx, username, meta.IP); err != nil {
		logger.Log.Warn("failed to clear login attempts", "error", err)
	}

	pair, err := u.tokens.IssuePair(account.ID, string(account.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u.secLog.Log(ctx, security.SecurityEvent{
		Event:        security.EventLoginSuccess,
		SubjectType:  "account_id",
		SubjectValue: account.ID,
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})
	return &domain.TokenPair{Access: pair.Access, Refresh: pair.Refresh}, nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", apperror.Validation("Refresh token is required")
	}
	access, err := u.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		if isTokenErr(err) {
			return "", apperror.Unauthorized("Token is invalid or expired")
		}
		return "", apperror.Internal(err)
	}
	return access, nil
}

func (u *authUsecase) Logout(ctx context.Context, accountID, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return apperror.Validation("Refresh token is required")
	}

	claims, err := u.tokens.ParseRefresh(ctx, refreshToken)
	if err != nil {
		if isTokenErr(err) {
			return apperror.Validation("Invalid or expired refresh token")
		}
		return apperror.Internal(err)
	}
	if claims.Subject != accountID {
		return apperror.Validation("Refresh token does not belong to this user")
	}

	if err := u.tokens.Revoke(ctx, refreshToken); err != nil {
		if isTokenErr(err) {
			return apperror.Validation("Invalid or expired refresh token")
		}
		return apperror.Internal(err)
	}

	u.secLog.LogAccountEvent(ctx, security.EventLogout, accountID, nil)
	return nil
}

func isTokenErr(err error) bool {
	return errors.Is(err, token.ErrInvalidToken) || errors.Is(err, token.ErrWrongType) || errors.Is(err, token.ErrRevoked)
}

func (u *authUsecase) RequestPasswordReset(ctx context.Context, address string) error {
	address = strings.TrimSpace(address)
	if err := u.validate.Var(address, "required,email"); err != nil {
		return apperror.Validation("Enter a valid email address")
	}

	// The 404 reveals whether an address is registered; clients rely on it.
	account, err := u.accountRepo.GetByEmail(ctx, address)
	if err != nil {
		return repoErr(err, "User with this email not found")
	}

	checksum := token.StateChecksum(account.ID, account.PasswordHash, account.IsEmailVerified)
	tok, err := u.resets.Make(account.ID, checksum)
	if err != nil {
		return apperror.Internal(err)
	}
	link := fmt.Sprintf("%s/reset-password/%s/%s", u.frontendURL, token.EncodeUID(account.ID), tok)

	body, err := email.PasswordResetBody(account.FullName(), link)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.notifier.Send(account.EmailAddress(), "Password reset", body); err != nil {
		logger.Log.Error("password reset email failed", "account_id", account.ID, "error", err)
		return apperror.Delivery("Could not send the password reset email", err)
	}

	u.secLog.LogAccountEvent(ctx, security.EventPasswordResetRequest, account.ID, nil)
	return nil
}

func (u *authUsecase) ConfirmPasswordReset(ctx context.Context, uid, resetToken, newPassword string) error {
	if err := u.validate.Var(newPassword, "required,min=8,max=128"); err != nil {
		return apperror.Validation("Password must be between 8 and 128 characters")
	}

	accountID, err := token.DecodeUID(uid)
	if err != nil {
		return apperror.AuthFailed("Invalid reset link")
	}
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.AuthFailed("Invalid reset link")
		}
		return apperror.Internal(err)
	}

	checksum := token.StateChecksum(account.ID, account.PasswordHash, account.IsEmailVerified)
	if !u.resets.Check(account.ID, checksum, resetToken) {
		return apperror.AuthFailed("Invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := u.accountRepo.SetPassword(ctx, account.ID, string(hash)); err != nil {
		return repoErr(err, "User not found")
	}

	u.secLog.LogAccountEvent(ctx, security.EventPasswordReset, account.ID, nil)
	return nil
}

func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*domain.Account, error) {
	claims, err := u.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	account, err := u.accountRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal(err)
	}
	if !account.IsActive {
		return nil, apperror.Unauthorized("User account is disabled")
	}
	return account, nil
}

func (u *authUsecase) Me(ctx context.Context, accountID string) (*domain.AccountSnapshot, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, repoErr(err, "User not found")
	}
	snap := account.Snapshot()
	return &snap, nil
}
