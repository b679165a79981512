package notifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"portfolio-api/internal/config"
	"portfolio-api/internal/model"
)

// GmailNotifier sends new-contact notifications via the Gmail API
type GmailNotifier struct {
	service   *gmail.Service
	userEmail string
	notifyTo  string
}

// OAuthConfig returns the OAuth2 client configuration for sending mail.
// redirectURL is only needed when exchanging an authorization code.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
	}
}

// NewGmailNotifier creates a notifier authenticated with an OAuth2 refresh token
func NewGmailNotifier(ctx context.Context, cfg *config.NotifierConfig) (*GmailNotifier, error) {
	oauth2Config := OAuthConfig(cfg.ClientID, cfg.ClientSecret, "")

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	tokenSource := oauth2Config.TokenSource(ctx, token)

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &GmailNotifier{
		service:   service,
		userEmail: cfg.UserEmail,
		notifyTo:  cfg.NotifyTo,
	}, nil
}

// NotifyNewContact mails the contact message to the configured recipient.
// Replies go straight to the person who filled in the form.
func (n *GmailNotifier) NotifyNewContact(ctx context.Context, contact model.ContactMessage) error {
	raw, err := buildNotification(n.userEmail, n.notifyTo, contact)
	if err != nil {
		return fmt.Errorf("failed to build notification: %w", err)
	}

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}

	if _, err := n.service.Users.Messages.Send(n.userEmail, message).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	logrus.WithField("contact_id", contact.ID).Info("Sent new contact notification")
	return nil
}

// Close closes the notifier (no-op for Gmail API)
func (n *GmailNotifier) Close() error {
	return nil
}

func buildNotification(from, to string, contact model.ContactMessage) ([]byte, error) {
	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", []*mail.Address{{Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetAddressList("Reply-To", []*mail.Address{{Name: contact.Name, Address: contact.Email}})
	h.SetSubject(fmt.Sprintf("New contact message from %s", contact.Name))
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("X-Contact-Id", contact.ID)

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Name: %s\r\nEmail: %s\r\nReceived: %s\r\n\r\n%s\r\n",
		contact.Name,
		contact.Email,
		contact.CreatedAt.UTC().Format(time.RFC1123Z),
		contact.Message,
	)
	if _, err := io.WriteString(w, body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
