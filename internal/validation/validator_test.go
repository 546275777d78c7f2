package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

func validMember(name, email string) domain.MemberInput {
	return domain.MemberInput{
		Name:    name,
		Email:   email,
		Phone:   "0771234567",
		NIC:     "200012345678",
		College: "University of Moratuwa",
		Year:    "2nd Year",
		Skills:  []string{"Go"},
	}
}

func validRegistration() *domain.Registration {
	leader := validMember("Alice Perera", "alice@example.com")
	return &domain.Registration{
		TeamName:           "Alpha",
		TeamSize:           2,
		TeamLeader:         &leader,
		Members:            []domain.MemberInput{validMember("Bob Silva", "bob@example.com")},
		ProjectTitle:       "Campus Navigator",
		ProjectDescription: strings.Repeat("A project that helps students find lecture halls. ", 2),
		TechStack:          []string{"Go", "React"},
		ProjectCategory:    "Web Development",
		Experience:         "Intermediate",
	}
}

func fields(errs []domain.FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestPatterns(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		value string
		want  bool
	}{
		{"email ok", IsEmail, "a@x.com", true},
		{"email no domain dot", IsEmail, "a@x", false},
		{"email with space", IsEmail, "a b@x.com", false},
		{"phone local", IsPhone, "0771234567", true},
		{"phone international", IsPhone, "+94771234567", true},
		{"phone bare", IsPhone, "771234567", true},
		{"phone with spaces", IsPhone, "077 123 4567", true},
		{"phone landline", IsPhone, "0112345678", false},
		{"phone too short", IsPhone, "077123456", false},
		{"nic old", IsNIC, "981234567V", true},
		{"nic old lower x", IsNIC, "981234567x", true},
		{"nic new", IsNIC, "199812345678", true},
		{"nic bad letter", IsNIC, "981234567A", false},
		{"nic 11 digits", IsNIC, "19981234567", false},
		{"whatsapp ok", IsWhatsappGroup, "https://chat.whatsapp.com/AbC123", true},
		{"whatsapp http", IsWhatsappGroup, "http://chat.whatsapp.com/AbC123", false},
		{"whatsapp other host", IsWhatsappGroup, "https://example.com/AbC123", false},
		{"year ok", IsAcademicYear, "Post Graduate", true},
		{"year bad", IsAcademicYear, "5th Year", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.value))
		})
	}
}

func TestValidator_Registration(t *testing.T) {
	v := New()

	t.Run("valid registration", func(t *testing.T) {
		assert.Empty(t, v.Registration(validRegistration()))
	})

	t.Run("reports every violation", func(t *testing.T) {
		reg := validRegistration()
		reg.TeamName = "AB"
		reg.ProjectDescription = "too short"
		reg.TeamLeader.Email = "not-an-email"
		reg.Members[0].Phone = "12345"

		errs := v.Registration(reg)

		assert.ElementsMatch(t, []string{
			"teamName",
			"projectDescription",
			"teamLeader.email",
			"members[0].phone",
		}, fields(errs))
	})

	t.Run("messages name the field", func(t *testing.T) {
		reg := validRegistration()
		reg.ProjectCategory = "Cooking"

		errs := v.Registration(reg)

		require.Len(t, errs, 1)
		assert.Equal(t, "projectCategory", errs[0].Field)
		assert.True(t, strings.HasPrefix(errs[0].Message, "projectCategory must be one of: Web Development"))
	})

	t.Run("missing leader", func(t *testing.T) {
		reg := validRegistration()
		reg.TeamLeader = nil

		assert.Contains(t, fields(v.Registration(reg)), "teamLeader")
	})

	t.Run("team size out of range", func(t *testing.T) {
		reg := validRegistration()
		reg.TeamSize = 6

		assert.Contains(t, fields(v.Registration(reg)), "teamSize")
	})

	t.Run("empty tech stack", func(t *testing.T) {
		reg := validRegistration()
		reg.TechStack = []string{}

		assert.Contains(t, fields(v.Registration(reg)), "techStack")
	})

	t.Run("optional whatsapp link is checked when present", func(t *testing.T) {
		reg := validRegistration()
		reg.WhatsappGroup = "https://example.com/join"

		assert.Equal(t, []string{"whatsappGroup"}, fields(v.Registration(reg)))

		reg.WhatsappGroup = ""
		assert.Empty(t, v.Registration(reg))
	})

	t.Run("duplicate email inside team", func(t *testing.T) {
		reg := validRegistration()
		reg.Members[0].Email = "alice@example.com"

		errs := v.Registration(reg)

		require.Len(t, errs, 1)
		assert.Equal(t, "members[0].email", errs[0].Field)
	})
}
