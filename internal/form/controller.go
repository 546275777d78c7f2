// Package form is the state machine behind the multi-section registration form.
//
// The controller tracks the current section, checks the fields of a section
// before letting the registrant advance, derives the member sections from the
// chosen team size and builds the registration payload on submit.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SudilMin/Devthon-website/internal/client"
	"github.com/SudilMin/Devthon-website/internal/domain"
	"github.com/SudilMin/Devthon-website/internal/validation"
)

// ErrSubmitting is returned when Submit is called while a submission is in flight
var ErrSubmitting = errors.New("submission already in progress")

// ErrCompleted is returned when the form has already been accepted
var ErrCompleted = errors.New("registration already completed")

// FieldError blocks advancing past a section. Field is the input that
// should receive focus.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Submitter sends a finished registration. *client.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, reg *domain.Registration) *client.Outcome
}

// Controller holds the form values and navigation state
type Controller struct {
	values     map[string]string
	current    int // 1-indexed
	focused    string
	submitting bool
	completed  bool
	feedback   *client.Feedback
}

// New creates a Controller positioned on the first section
func New() *Controller {
	return &Controller{
		values:  make(map[string]string),
		current: 1,
	}
}

// Set stores the value of a field. Changing the team size re-derives the sections.
func (c *Controller) Set(name, value string) {
	c.values[name] = value
	if name == FieldTeamSize && c.current > c.Total() {
		c.current = c.Total()
	}
}

// Value returns the stored value of a field
func (c *Controller) Value(name string) string {
	return c.values[name]
}

// TeamSize returns the selected team size, or the maximum while none is chosen
func (c *Controller) TeamSize() int {
	n, err := strconv.Atoi(strings.TrimSpace(c.values[FieldTeamSize]))
	if err != nil || n < domain.MinTeamSize || n > domain.MaxTeamSize {
		return domain.MaxTeamSize
	}
	return n
}

// Sections returns the sections for the current team size
func (c *Controller) Sections() []Section {
	return BuildSections(c.TeamSize())
}

// Current returns the 1-indexed position of the visible section
func (c *Controller) Current() int {
	return c.current
}

// Total returns the number of sections for the current team size
func (c *Controller) Total() int {
	return c.TeamSize() + 2
}

// Section returns the visible section
func (c *Controller) Section() Section {
	return c.Sections()[c.current-1]
}

// Visible reports whether the section at the 1-indexed position is shown.
// Only the current section is visible.
func (c *Controller) Visible(index int) bool {
	return index == c.current && !c.completed
}

// Progress returns the completion percentage of the form
func (c *Controller) Progress() float64 {
	return float64(c.current) / float64(c.Total()) * 100
}

// ProgressLabel returns e.g. "Team Leader Details (2/7)"
func (c *Controller) ProgressLabel() string {
	return fmt.Sprintf("%s (%d/%d)", c.Section().Title, c.current, c.Total())
}

// Focused returns the field that failed the last check
func (c *Controller) Focused() string {
	return c.focused
}

// IsLast reports whether the review section is visible
func (c *Controller) IsLast() bool {
	return c.current == c.Total()
}

// Next validates the current section and moves to the following one.
// After the last member section the review section follows.
func (c *Controller) Next() error {
	if err := c.ValidateSection(); err != nil {
		return err
	}
	if c.current < c.Total() {
		c.current++
	}
	return nil
}

// Prev moves back one section without any checks
func (c *Controller) Prev() {
	if c.current > 1 {
		c.current--
	}
}

// ValidateSection checks the fields of the visible section in order and stops
// at the first failure
func (c *Controller) ValidateSection() error {
	c.focused = ""
	for _, f := range c.Section().Fields {
		if err := c.checkField(f); err != nil {
			c.focused = f.Name
			return err
		}
	}
	return nil
}

func (c *Controller) checkField(f Field) error {
	value := strings.TrimSpace(c.values[f.Name])
	if value == "" {
		if f.Required {
			return &FieldError{Field: f.Name, Message: fmt.Sprintf("Please fill in the %s", f.Label)}
		}
		return nil
	}

	switch {
	case f.Kind == KindEmail && !validation.IsEmail(value):
		return &FieldError{Field: f.Name, Message: "Please enter a valid email address"}
	case f.Kind == KindTel && !validation.IsPhone(value):
		return &FieldError{Field: f.Name, Message: "Please enter a valid WhatsApp number"}
	case isNICField(f.Name) && !validation.IsNIC(value):
		return &FieldError{Field: f.Name, Message: "Please enter a valid NIC number"}
	case f.Kind == KindURL && f.Name == FieldWhatsappGroup && !validation.IsWhatsappGroup(value):
		return &FieldError{Field: f.Name, Message: "Please enter a valid WhatsApp group link"}
	case f.Kind == KindSelect && len(f.Options) > 0 && !contains(f.Options, value):
		return &FieldError{Field: f.Name, Message: fmt.Sprintf("Please select a valid %s", f.Label)}
	}
	return nil
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// Payload builds the registration from the stored values. Comma separated
// lists are split and trimmed. Members whose name and email are both empty
// are left out.
func (c *Controller) Payload() *domain.Registration {
	size := c.TeamSize()

	reg := &domain.Registration{
		TeamName:           c.values[FieldTeamName],
		TeamSize:           size,
		TeamLeader:         c.member(1),
		Members:            []domain.MemberInput{},
		ProjectTitle:       c.values[FieldProjectTitle],
		ProjectDescription: c.values[FieldProjectDescription],
		TechStack:          domain.SplitList(c.values[FieldTechStack]),
		ProjectCategory:    c.values[FieldProjectCategory],
		Experience:         c.values[FieldExperience],
		Requirements:       c.values[FieldRequirements],
		WhatsappGroup:      c.values[FieldWhatsappGroup],
	}

	for n := 2; n <= size; n++ {
		m := c.member(n)
		if strings.TrimSpace(m.Name) == "" && strings.TrimSpace(m.Email) == "" {
			continue
		}
		reg.Members = append(reg.Members, *m)
	}
	return reg
}

func (c *Controller) member(n int) *domain.MemberInput {
	return &domain.MemberInput{
		Name:    c.values[MemberField(n, "name")],
		Email:   c.values[MemberField(n, "email")],
		Phone:   c.values[MemberField(n, "phone")],
		NIC:     c.values[MemberField(n, "nic")],
		College: c.values[MemberField(n, "college")],
		Year:    c.values[MemberField(n, "year")],
		Skills:  domain.SplitList(c.values[MemberField(n, "skills")]),
	}
}

// SubmitDisabled reports whether the submit control is disabled
func (c *Controller) SubmitDisabled() bool {
	return c.submitting || c.completed
}

// Completed reports whether the confirmation view replaced the form
func (c *Controller) Completed() bool {
	return c.completed
}

// Feedback returns the feedback of the last submission, if any
func (c *Controller) Feedback() *client.Feedback {
	return c.feedback
}

// Submit re-validates the visible section, builds the payload and hands it
// to s. The submit control stays disabled while the call runs; it is enabled
// again on failure and stays disabled after success.
func (c *Controller) Submit(ctx context.Context, s Submitter) (*client.Outcome, error) {
	switch {
	case c.completed:
		return nil, ErrCompleted
	case c.submitting:
		return nil, ErrSubmitting
	}
	if err := c.ValidateSection(); err != nil {
		return nil, err
	}

	c.submitting = true
	outcome := s.Submit(ctx, c.Payload())
	c.submitting = false

	feedback := outcome.Feedback()
	c.feedback = &feedback
	if outcome.OK() {
		c.completed = true
	}
	return outcome, nil
}
