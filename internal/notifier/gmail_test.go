package notifier

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmail "google.golang.org/api/gmail/v1"

	"portfolio-api/internal/model"
)

func TestBuildNotification(t *testing.T) {
	contact := model.ContactMessage{
		ID:        "3f6c1c1e-7d4c-4a57-9d1f-0a9f3c2b8e11",
		Name:      "John Doe",
		Email:     "john.doe@example.com",
		Message:   "Hello, I'm interested in your portfolio.",
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Status:    model.StatusNew,
	}

	raw, err := buildNotification("me@example.com", "inbox@example.com", contact)
	require.NoError(t, err)

	r, err := mail.CreateReader(bytes.NewReader(raw))
	require.NoError(t, err)

	subject, err := r.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, "New contact message from John Doe", subject)

	from, err := r.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "me@example.com", from[0].Address)

	to, err := r.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "inbox@example.com", to[0].Address)

	replyTo, err := r.Header.AddressList("Reply-To")
	require.NoError(t, err)
	require.Len(t, replyTo, 1)
	assert.Equal(t, "john.doe@example.com", replyTo[0].Address)
	assert.Equal(t, "John Doe", replyTo[0].Name)

	assert.Equal(t, contact.ID, r.Header.Get("X-Contact-Id"))

	part, err := r.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Hello, I'm interested in your portfolio.")
	assert.Contains(t, string(body), "Email: john.doe@example.com")
}

func TestNoop(t *testing.T) {
	var n Notifier = Noop{}
	assert.NoError(t, n.NotifyNewContact(context.Background(), model.ContactMessage{}))
	assert.NoError(t, n.Close())
}

func TestOAuthConfig(t *testing.T) {
	cfg := OAuthConfig("client-id", "client-secret", "http://localhost:8080/callback")
	assert.Equal(t, []string{gmail.GmailSendScope}, cfg.Scopes)
	assert.Equal(t, "http://localhost:8080/callback", cfg.RedirectURL)
	assert.Contains(t, cfg.AuthCodeURL("state"), "client_id=client-id")
}
