package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// Validator checks registration payloads against the field rules and reports
// every violation it finds.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the registration specific rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so clients can map errors back to inputs
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]func(string) bool{
		"phone":         IsPhone,
		"nic":           IsNIC,
		"whatsapp":      IsWhatsappGroup,
		"academic_year": IsAcademicYear,
		"category": func(s string) bool {
			return domain.Category(s).Valid()
		},
	}
	for tag, rule := range rules {
		rule := rule
		// Registration only fails for an empty tag or a duplicate, both programmer errors
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return rule(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}

	return &Validator{validate: v}
}

// Registration validates a normalized registration. The result is empty when
// the payload is acceptable.
func (v *Validator) Registration(r *domain.Registration) []domain.FieldError {
	var fieldErrors []domain.FieldError

	if err := v.validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []domain.FieldError{{Field: "", Message: err.Error()}}
		}
		for _, fe := range verrs {
			field := fieldPath(fe.Namespace())
			fieldErrors = append(fieldErrors, domain.FieldError{
				Field:   field,
				Message: message(field, fe),
			})
		}
	}

	return append(fieldErrors, duplicateEmails(r)...)
}

// duplicateEmails reports emails used more than once inside the same team.
func duplicateEmails(r *domain.Registration) []domain.FieldError {
	var out []domain.FieldError
	seen := make(map[string]bool, len(r.Members)+1)
	if r.TeamLeader != nil && r.TeamLeader.Email != "" {
		seen[r.TeamLeader.Email] = true
	}
	for i, m := range r.Members {
		if m.Email == "" {
			continue
		}
		if seen[m.Email] {
			field := fmt.Sprintf("members[%d].email", i)
			out = append(out, domain.FieldError{
				Field:   field,
				Message: fmt.Sprintf("%s duplicates another team member's email", field),
			})
			continue
		}
		seen[m.Email] = true
	}
	return out
}

// fieldPath strips the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", field, bound, fe.Param())
		case reflect.Slice, reflect.Array:
			return fmt.Sprintf("%s must contain %s %s items", field, bound, fe.Param())
		default:
			return fmt.Sprintf("%s must be %s %s", field, bound, fe.Param())
		}
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "phone":
		return fmt.Sprintf("%s must be a valid mobile number", field)
	case "nic":
		return fmt.Sprintf("%s must be a valid NIC number", field)
	case "whatsapp":
		return fmt.Sprintf("%s must be a valid WhatsApp group link", field)
	case "academic_year":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(domain.AcademicYears, ", "))
	case "category":
		names := make([]string, len(domain.Categories))
		for i, c := range domain.Categories {
			names[i] = string(c)
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
