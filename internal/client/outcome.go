package client

import (
	"fmt"
	"strings"
	"time"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// ErrorDismissAfter is how long error feedback stays visible.
// Success feedback is never dismissed automatically.
const ErrorDismissAfter = 8 * time.Second

// Feedback messages shown to the registrant
const (
	MsgNetworkError       = "Network error. Please check your connection and try again."
	MsgRegistrationFailed = "Registration failed. Please try again."
)

// FeedbackKind distinguishes success from error feedback
type FeedbackKind string

// Feedback kinds
const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Outcome combines the results of both submission paths
type Outcome struct {
	Registration *domain.Registration
	Primary      PathResult
	Secondary    *PathResult
}

// OK reports whether at least one path accepted the registration
func (o *Outcome) OK() bool {
	return o.Primary.OK || (o.Secondary != nil && o.Secondary.OK)
}

// TeamID returns the identifier assigned by whichever path accepted the team
func (o *Outcome) TeamID() string {
	if o.Primary.OK && o.Primary.Response != nil && o.Primary.Response.Data != nil {
		return o.Primary.Response.Data.TeamID
	}
	if o.Secondary != nil && o.Secondary.OK && o.Secondary.Webhook != nil {
		return o.Secondary.Webhook.TeamID
	}
	return ""
}

// TeamName returns the accepted team name
func (o *Outcome) TeamName() string {
	if o.Primary.OK && o.Primary.Response != nil && o.Primary.Response.Data != nil {
		return o.Primary.Response.Data.TeamName
	}
	if o.Registration != nil {
		return o.Registration.TeamName
	}
	return ""
}

// Feedback is what the form shows after a submission
type Feedback struct {
	Kind             FeedbackKind
	Message          string
	Details          []string
	RegisteredEmails []string
	TeamID           string
	TeamName         string
	// DismissAfter is zero for persistent feedback
	DismissAfter time.Duration
}

// Feedback builds the user facing result of the submission
func (o *Outcome) Feedback() Feedback {
	if o.OK() {
		f := Feedback{
			Kind:     FeedbackSuccess,
			TeamID:   o.TeamID(),
			TeamName: o.TeamName(),
		}
		if f.TeamID != "" {
			f.Message = fmt.Sprintf("Registration successful! Team %s, your Team ID: %s. Please save this ID for future reference.", f.TeamName, f.TeamID)
		} else {
			f.Message = fmt.Sprintf("Registration successful! Team %s has been received.", f.TeamName)
		}
		return f
	}

	// Ни один из адресатов не ответил
	if !o.Primary.Responded() && (o.Secondary == nil || !o.Secondary.Responded()) {
		return Feedback{
			Kind:         FeedbackError,
			Message:      MsgNetworkError,
			DismissAfter: ErrorDismissAfter,
		}
	}

	f := Feedback{
		Kind:         FeedbackError,
		Message:      MsgRegistrationFailed,
		DismissAfter: ErrorDismissAfter,
	}
	if resp := o.Primary.Response; resp != nil {
		if resp.Message != "" {
			f.Message = resp.Message
		}
		for _, e := range resp.Errors {
			f.Details = append(f.Details, e.Message)
		}
		f.RegisteredEmails = resp.RegisteredEmails
	} else if o.Secondary != nil && o.Secondary.Webhook != nil && o.Secondary.Webhook.Message != "" {
		f.Message = o.Secondary.Webhook.Message
	}
	return f
}

// Text renders the feedback as plain text
func (f Feedback) Text() string {
	var b strings.Builder
	b.WriteString(f.Message)
	if len(f.Details) > 0 {
		b.WriteString("\n\nDetails:")
		for _, d := range f.Details {
			b.WriteString("\n• ")
			b.WriteString(d)
		}
	}
	if len(f.RegisteredEmails) > 0 {
		b.WriteString("\n\nAlready registered emails: ")
		b.WriteString(strings.Join(f.RegisteredEmails, ", "))
	}
	return b.String()
}
