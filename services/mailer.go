package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/config"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendEmailRequest represents the request payload for the Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from the Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from the Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

// Mailer sends notification emails through Resend. Every public method is
// fire-and-forget: the send runs on its own goroutine and failures are
// logged, never returned, so a slow or broken mail provider cannot fail a
// committed state change.
type Mailer struct {
	apiKey string
	from   string
	client *http.Client
	logger zerolog.Logger
}

// NewMailer builds a Mailer from RESEND_API_KEY and RESEND_FROM_EMAIL.
// With an empty key the mailer is disabled and every send becomes a logged
// no-op, which keeps local development free of credentials.
func NewMailer(cfg map[string]string) *Mailer {
	return &Mailer{
		apiKey: config.GetString(cfg, "RESEND_API_KEY", ""),
		from:   config.GetString(cfg, "RESEND_FROM_EMAIL", "Capstone Hub <[email protected]>"),
		client: &http.Client{Timeout: 15 * time.Second},
		logger: log.With().Str("service", "mailer").Logger(),
	}
}

func (m *Mailer) TeamApplicationReceived(leaderEmail, leaderName, teamTitle, applicantName string) {
	subject := "New application to your team"
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p><strong>%s</strong> has applied to join your team <strong>%s</strong>.</p>
<p>Log in to review the application.</p>`, leaderName, applicantName, teamTitle)
	m.dispatch(leaderEmail, subject, body)
}

func (m *Mailer) TeamApplicationDecided(email, name, teamTitle string, accepted bool) {
	var subject, body string
	if accepted {
		subject = "You have joined a team"
		body = fmt.Sprintf(`<h2>Congratulations %s!</h2>
<p>Your application to the team <strong>%s</strong> has been accepted. Welcome aboard.</p>`, name, teamTitle)
	} else {
		subject = "Update on your team application"
		body = fmt.Sprintf(`<h2>Hello %s,</h2>
<p>Your application to the team <strong>%s</strong> was not accepted this time.</p>
<p>You can still apply to other open teams.</p>`, name, teamTitle)
	}
	m.dispatch(email, subject, body)
}

func (m *Mailer) TeamMemberRemoved(email, name, teamTitle string) {
	subject := "You have been removed from a team"
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>You are no longer a member of the team <strong>%s</strong>.</p>
<p>Your previously withdrawn applications to other open teams are active again.</p>`, name, teamTitle)
	m.dispatch(email, subject, body)
}

func (m *Mailer) ProjectApplicationReceived(teacherEmail, teacherName, projectTitle, teamTitle, leaderName string) {
	subject := "New team application to your project"
	body := fmt.Sprintf(`<h2>Hello %s,</h2>
<p>The team <strong>%s</strong> (led by %s) has applied to your project <strong>%s</strong>.</p>
<p>Log in to accept or reject the application.</p>`, teacherName, teamTitle, leaderName, projectTitle)
	m.dispatch(teacherEmail, subject, body)
}

func (m *Mailer) ProjectApplicationDecided(email, name, projectTitle string, accepted bool) {
	var subject, body string
	if accepted {
		subject = "Your project application was accepted"
		body = fmt.Sprintf(`<h2>Congratulations %s!</h2>
<p>Your team has been assigned to the project <strong>%s</strong>. Time to get to work.</p>`, name, projectTitle)
	} else {
		subject = "Update on your project application"
		body = fmt.Sprintf(`<h2>Hello %s,</h2>
<p>Your team's application to the project <strong>%s</strong> was rejected.</p>`, name, projectTitle)
	}
	m.dispatch(email, subject, body)
}

func (m *Mailer) dispatch(recipient, subject, body string) {
	if m.apiKey == "" {
		m.logger.Debug().Str("to", recipient).Str("subject", subject).Msg("mailer disabled, skipping send")
		return
	}
	go func() {
		if err := m.send(recipient, subject, body); err != nil {
			m.logger.Error().Err(err).Str("to", recipient).Str("subject", subject).Msg("failed to send email")
		}
	}()
}

func (m *Mailer) send(recipient, subject, body string) error {
	payload := ResendEmailRequest{
		From:    m.from,
		To:      []string{recipient},
		Subject: subject,
		Html:    body,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, resendEndpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to Resend API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read Resend API response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message)
		}
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err == nil {
		m.logger.Info().Str("emailId", emailResponse.ID).Str("to", recipient).Msg("email sent")
	}
	return nil
}
