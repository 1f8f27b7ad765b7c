package email

import (
	"testing"

	"jobmarket-backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationBodyContainsCode(t *testing.T) {
	body, err := VerificationBody("Ada", "042917")
	require.NoError(t, err)
	assert.Contains(t, body, "042917")
	assert.Contains(t, body, "Hello Ada")
}

func TestPasswordResetBodyEscapesName(t *testing.T) {
	body, err := PasswordResetBody("<script>", "https://app.example/reset/abc/def")
	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "https://app.example/reset/abc/def")
}

func TestIsConfigured(t *testing.T) {
	svc := NewEmailService(&config.Config{SMTPHost: "smtp.example", SMTPPort: 587})
	assert.False(t, svc.IsConfigured())

	svc = NewEmailService(&config.Config{SMTPHost: "smtp.example", SMTPPort: 587, SMTPUsername: "mailer"})
	assert.True(t, svc.IsConfigured())
}
