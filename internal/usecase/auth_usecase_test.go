package usecase_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"jobmarket-backend/internal/domain"
	"jobmarket-backend/internal/usecase"
	"jobmarket-backend/pkg/apperror"
	"jobmarket-backend/pkg/token"
	"jobmarket-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	accounts *MockAccountRepo
	codes    *MockVerificationRepo
	notifier *MockNotifier
	tokens   *token.Service
	uc       domain.AuthUsecase
}

func newAuthFixture() *authFixture {
	v := validator.New()
	validation.RegisterValidators(v)

	f := &authFixture{
		accounts: new(MockAccountRepo),
		codes:    new(MockVerificationRepo),
		notifier: new(MockNotifier),
		tokens:   token.NewService("test-secret", time.Minute, time.Hour, token.NewMemoryBlacklist()),
	}
	resets := token.NewResetTokens("reset-secret", time.Hour)
	f.uc = usecase.NewAuthUsecase(f.accounts, f.codes, f.tokens, resets, f.notifier, nil, nil, v, "https://app.test/")
	return f
}

func hashed(t *testing.T, password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func strPtr(s string) *string { return &s }

func TestRegisterStep1(t *testing.T) {
	ctx := context.Background()
	valid := domain.RegisterStep1Input{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Username:        "ada_l",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}

	t.Run("Should reject mismatched passwords", func(t *testing.T) {
		f := newAuthFixture()
		in := valid
		in.ConfirmPassword = "different-pass"
		_, err := f.uc.RegisterStep1(ctx, in)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Passwords do not match")
	})

	t.Run("Should reject a taken username", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("UsernameExists", ctx, "ada_l").Return(true, nil)
		_, err := f.uc.RegisterStep1(ctx, valid)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Should create an account without role or email", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("UsernameExists", ctx, "ada_l").Return(false, nil)
		var created *domain.Account
		f.accounts.On("Create", ctx, mock.MatchedBy(func(a *domain.Account) bool {
			return a.Role == domain.RoleUnset && a.Email == nil && !a.IsEmailVerified &&
				bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("s3cret-pass")) == nil
		})).Run(func(args mock.Arguments) {
			created = args.Get(1).(*domain.Account)
		}).Return(nil)

		before := time.Now()
		id, err := f.uc.RegisterStep1(ctx, valid)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		f.accounts.AssertExpectations(t)

		require.NotNil(t, created)
		assert.Equal(t, id, created.ID)
		assert.False(t, created.DateJoined.IsZero(), "join date is stamped")
		assert.WithinDuration(t, before, created.DateJoined, time.Minute)
	})
}

func TestRegisterStep2(t *testing.T) {
	ctx := context.Background()
	account := &domain.Account{ID: "acc-1", FirstName: "Ada"}

	t.Run("Should reject an email used by another account", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByID", ctx, "acc-1").Return(account, nil)
		f.accounts.On("EmailTakenByOther", ctx, "ada@example.com", "acc-1").Return(true, nil)

		err := f.uc.RegisterStep2SetEmail(ctx, "acc-1", "ada@example.com")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "already in use")
	})

	t.Run("Should surface a mail failure as a delivery error", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByID", ctx, "acc-1").Return(&domain.Account{ID: "acc-1"}, nil)
		f.accounts.On("EmailTakenByOther", ctx, "ada@example.com", "acc-1").Return(false, nil)
		f.accounts.On("SetEmail", ctx, "acc-1", "ada@example.com").Return(nil)
		f.codes.On("Upsert", ctx, "acc-1", mock.MatchedBy(func(code string) bool {
			return regexp.MustCompile(`^[1-9][0-9]{5}$`).MatchString(code)
		})).Return(nil)
		f.notifier.On("Send", "ada@example.com", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

		err := f.uc.RegisterStep2SetEmail(ctx, "acc-1", "ada@example.com")
		assert.True(t, apperror.Is(err, apperror.KindDelivery))
		f.codes.AssertExpectations(t)
	})

	t.Run("Should reject a malformed address before touching storage", func(t *testing.T) {
		f := newAuthFixture()
		err := f.uc.RegisterStep2SetEmail(ctx, "acc-1", "not-an-email")
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		f.accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestRegisterStep3CodeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.accounts.On("GetByID", ctx, "acc-1").Return(&domain.Account{ID: "acc-1"}, nil)
	f.codes.On("Consume", ctx, "acc-1", "123456").Return(nil).Once()
	f.codes.On("Consume", ctx, "acc-1", "123456").Return(domain.ErrNotFound).Once()

	require.NoError(t, f.uc.RegisterStep3VerifyCode(ctx, "acc-1", "123456"))

	err := f.uc.RegisterStep3VerifyCode(ctx, "acc-1", "123456")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Contains(t, err.Error(), "Invalid or expired code")
}

func TestRegisterStep4RejectsUnselectableRoles(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleUnset, "MANAGER"} {
		err := f.uc.RegisterStep4SetRole(ctx, "acc-1", role)
		assert.True(t, apperror.Is(err, apperror.KindValidation), string(role))
	}
	f.accounts.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestResendCodeRequiresEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.accounts.On("GetByID", ctx, "acc-1").Return(&domain.Account{ID: "acc-1"}, nil)

	err := f.uc.ResendCode(ctx, "acc-1")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	meta := domain.RequestMeta{IP: "203.0.113.7"}

	t.Run("Should reject an unverified account", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByUsername", ctx, "ada").Return(&domain.Account{
			ID: "acc-1", Username: "ada", PasswordHash: hashed(t, "pw-123456"), IsActive: true,
		}, nil)

		pair, err := f.uc.Login(ctx, "ada", "pw-123456", meta)
		assert.Nil(t, pair)
		assert.True(t, apperror.Is(err, apperror.KindAuth))
		assert.Contains(t, err.Error(), "not verified")
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByUsername", ctx, "ada").Return(&domain.Account{
			ID: "acc-1", PasswordHash: hashed(t, "pw-123456"), IsActive: true, IsEmailVerified: true,
		}, nil)

		_, err := f.uc.Login(ctx, "ada", "wrong-pass", meta)
		assert.True(t, apperror.Is(err, apperror.KindAuth))
	})

	t.Run("Should not reveal unknown usernames", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByUsername", ctx, "ghost").Return(nil, domain.ErrNotFound)

		_, err := f.uc.Login(ctx, "ghost", "whatever", meta)
		assert.Contains(t, err.Error(), "Invalid username or password")
	})

	t.Run("Should issue a token pair for a verified account", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByUsername", ctx, "ada").Return(&domain.Account{
			ID: "acc-1", Role: domain.RoleEmployer, PasswordHash: hashed(t, "pw-123456"), IsActive: true, IsEmailVerified: true,
		}, nil)

		pair, err := f.uc.Login(ctx, "ada", "pw-123456", meta)
		require.NoError(t, err)

		claims, err := f.tokens.ParseAccess(pair.Access)
		require.NoError(t, err)
		assert.Equal(t, "acc-1", claims.Subject)
		assert.Equal(t, string(domain.RoleEmployer), claims.Role)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	pair, err := f.tokens.IssuePair("acc-1", "JOB_SEEKER")
	require.NoError(t, err)

	t.Run("Should require a token", func(t *testing.T) {
		err := f.uc.Logout(ctx, "acc-1", "")
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Should refuse a token of another account", func(t *testing.T) {
		err := f.uc.Logout(ctx, "acc-2", pair.Refresh)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Should blacklist the refresh token", func(t *testing.T) {
		require.NoError(t, f.uc.Logout(ctx, "acc-1", pair.Refresh))

		_, err := f.uc.Refresh(ctx, pair.Refresh)
		assert.True(t, apperror.Is(err, apperror.KindAuth))
	})
}

var resetLinkRegex = regexp.MustCompile(`reset-password/([A-Za-z0-9_-]+)/([A-Za-z0-9_.-]+)`)

func TestPasswordResetRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	account := &domain.Account{
		ID:              "acc-1",
		Email:           strPtr("ada@example.com"),
		PasswordHash:    hashed(t, "old-password"),
		IsEmailVerified: true,
		IsActive:        true,
	}

	var body string
	f.accounts.On("GetByEmail", ctx, "ada@example.com").Return(account, nil)
	f.notifier.On("Send", "ada@example.com", "Password reset", mock.Anything).
		Run(func(args mock.Arguments) { body = args.String(2) }).
		Return(nil)

	require.NoError(t, f.uc.RequestPasswordReset(ctx, "ada@example.com"))
	m := resetLinkRegex.FindStringSubmatch(body)
	require.Len(t, m, 3, body)
	assert.Contains(t, body, "https://app.test/reset-password/")

	f.accounts.On("GetByID", ctx, "acc-1").Return(account, nil)
	f.accounts.On("SetPassword", ctx, "acc-1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { account.PasswordHash = args.String(2) }).
		Return(nil)

	require.NoError(t, f.uc.ConfirmPasswordReset(ctx, m[1], m[2], "new-password"))

	// the password hash changed, so the same link no longer verifies
	err := f.uc.ConfirmPasswordReset(ctx, m[1], m[2], "another-password")
	assert.True(t, apperror.Is(err, apperror.KindAuth))
	f.accounts.AssertNumberOfCalls(t, "SetPassword", 1)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	f.accounts.On("GetByEmail", ctx, "nobody@example.com").Return(nil, domain.ErrNotFound)

	err := f.uc.RequestPasswordReset(ctx, "nobody@example.com")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestAuthenticateRejectsInactiveAccounts(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	pair, err := f.tokens.IssuePair("acc-1", "EMPLOYER")
	require.NoError(t, err)
	f.accounts.On("GetByID", ctx, "acc-1").Return(&domain.Account{ID: "acc-1", IsActive: false}, nil)

	_, err = f.uc.Authenticate(ctx, pair.Access)
	assert.True(t, apperror.Is(err, apperror.KindAuth))

	_, err = f.uc.Authenticate(ctx, pair.Refresh)
	assert.Error(t, err)
}
