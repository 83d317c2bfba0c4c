package mailer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-auth-service/pkg/mailer/templates"
)

func TestWelcomeJobSurvivesQueueEncoding(t *testing.T) {
	job := NewWelcomeJob(templates.NewWelcomeData("John", "john@example.com", templates.WithAppName("Shop")))

	b, err := json.Marshal(job)
	require.NoError(t, err)

	var decoded EmailJob
	require.NoError(t, json.Unmarshal(b, &decoded))

	subject, text, html, err := decoded.Content()
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", decoded.To)
	assert.Equal(t, "Welcome to Shop", subject)
	assert.Contains(t, text, "Hi John,")
	assert.Contains(t, html, "john@example.com")
}

func TestContentPreRendered(t *testing.T) {
	subject, text, html, err := EmailJob{To: "a@b.co", Subject: "s", Text: "t"}.Content()
	require.NoError(t, err)
	assert.Equal(t, "s", subject)
	assert.Equal(t, "t", text)
	assert.Empty(t, html)
}

func TestContentRequiresRecipient(t *testing.T) {
	_, _, _, err := EmailJob{Template: templates.Welcome}.Content()
	assert.ErrorIs(t, err, ErrNoRecipient)
}
