package bridge

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// MailSender sends a prepared message. *sendgrid.Client satisfies it.
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Email sends a registration confirmation to the team leader through SendGrid
type Email struct {
	sender    MailSender
	fromEmail string
	fromName  string
	eventName string
}

// NewEmail creates an Email mirror backed by the SendGrid API
func NewEmail(apiKey, fromEmail, fromName, eventName string) *Email {
	return NewEmailWithSender(sendgrid.NewSendClient(apiKey), fromEmail, fromName, eventName)
}

// NewEmailWithSender creates an Email mirror with a custom sender
func NewEmailWithSender(sender MailSender, fromEmail, fromName, eventName string) *Email {
	return &Email{
		sender:    sender,
		fromEmail: fromEmail,
		fromName:  fromName,
		eventName: eventName,
	}
}

// Name implements Mirror
func (e *Email) Name() string { return "email" }

// Send implements Mirror
func (e *Email) Send(ctx context.Context, team *domain.Team) error {
	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail(team.TeamLeader.Name, team.TeamLeader.Email)

	subject := fmt.Sprintf("%s registration received: %s", e.eventName, team.TeamID)
	message := mail.NewSingleEmail(from, subject, to, e.plainText(team), e.htmlContent(team))

	response, err := e.sender.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (e *Email) plainText(team *domain.Team) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", team.TeamLeader.Name)
	fmt.Fprintf(&b, "Your team %q is registered for %s.\n", team.TeamName, e.eventName)
	fmt.Fprintf(&b, "Team ID: %s\n", team.TeamID)
	fmt.Fprintf(&b, "Project: %s (%s)\n", team.ProjectTitle, team.ProjectCategory)
	fmt.Fprintf(&b, "Members: %d\n\n", team.TeamSize)
	b.WriteString("Keep the Team ID for any further communication.\n")
	return b.String()
}

func (e *Email) htmlContent(team *domain.Team) string {
	return fmt.Sprintf(`<html><body>
<p>Hi %s,</p>
<p>Your team <strong>%s</strong> is registered for %s.</p>
<p>Team ID: <strong>%s</strong><br>Project: %s (%s)<br>Members: %d</p>
<p>Keep the Team ID for any further communication.</p>
</body></html>`,
		html.EscapeString(team.TeamLeader.Name),
		html.EscapeString(team.TeamName),
		html.EscapeString(e.eventName),
		html.EscapeString(team.TeamID),
		html.EscapeString(team.ProjectTitle),
		html.EscapeString(string(team.ProjectCategory)),
		team.TeamSize,
	)
}
