package form

import (
	"fmt"
	"strings"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// Kind determines which format check applies to a field
type Kind int

// Field kinds
const (
	KindText Kind = iota
	KindEmail
	KindTel
	KindNumber
	KindSelect
	KindTextarea
	KindURL
)

// Field is one input of the registration form
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Options  []string
	Hint     string
}

// Section is one step of the form
type Section struct {
	Title  string
	Fields []Field
	// Member is 1 for the leader section, 2..5 for member sections and 0 otherwise
	Member int
}

// Field names of the team level inputs
const (
	FieldTeamName           = "team-name"
	FieldTeamSize           = "team-size"
	FieldProjectTitle       = "project-title"
	FieldProjectDescription = "project-description"
	FieldTechStack          = "tech-stack"
	FieldProjectCategory    = "project-category"
	FieldExperience         = "experience"
	FieldRequirements       = "requirements"
	FieldWhatsappGroup      = "whatsapp-group"
)

// Section titles
const (
	TitleTeamInfo = "Team Information"
	TitleLeader   = "Team Leader Details"
	TitleReview   = "Review & Submit"
)

// MemberPrefix returns the field name prefix of the n-th person: "leader"
// for n == 1 and "memberN" otherwise
func MemberPrefix(n int) string {
	if n == 1 {
		return "leader"
	}
	return fmt.Sprintf("member%d", n)
}

// MemberField returns the name of a person field, e.g. member3-email
func MemberField(n int, field string) string {
	return MemberPrefix(n) + "-" + field
}

func teamSizeOptions() []string {
	opts := make([]string, 0, domain.MaxTeamSize-domain.MinTeamSize+1)
	for n := domain.MinTeamSize; n <= domain.MaxTeamSize; n++ {
		opts = append(opts, fmt.Sprint(n))
	}
	return opts
}

func categoryOptions() []string {
	opts := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		opts[i] = string(c)
	}
	return opts
}

func teamInfoSection() Section {
	return Section{
		Title: TitleTeamInfo,
		Fields: []Field{
			{Name: FieldTeamName, Label: "Team Name", Kind: KindText, Required: true},
			{Name: FieldTeamSize, Label: "Team Size", Kind: KindSelect, Required: true, Options: teamSizeOptions()},
			{Name: FieldProjectTitle, Label: "Project Title", Kind: KindText, Required: true},
			{Name: FieldProjectDescription, Label: "Project Description", Kind: KindTextarea, Required: true},
			{Name: FieldTechStack, Label: "Tech Stack", Kind: KindText, Required: true, Hint: "comma separated"},
			{Name: FieldProjectCategory, Label: "Project Category", Kind: KindSelect, Required: true, Options: categoryOptions()},
			{Name: FieldExperience, Label: "Experience Level", Kind: KindSelect, Required: true, Options: domain.ExperienceLevels},
		},
	}
}

func memberSection(n int) Section {
	title := TitleLeader
	who := "Leader"
	if n > 1 {
		title = fmt.Sprintf("Member %d Details", n)
		who = fmt.Sprintf("Member %d", n)
	}
	return Section{
		Title:  title,
		Member: n,
		Fields: []Field{
			{Name: MemberField(n, "name"), Label: who + " Name", Kind: KindText, Required: true},
			{Name: MemberField(n, "email"), Label: who + " Email", Kind: KindEmail, Required: true},
			{Name: MemberField(n, "phone"), Label: who + " WhatsApp Number", Kind: KindTel, Required: true},
			{Name: MemberField(n, "nic"), Label: who + " NIC", Kind: KindText, Required: true},
			{Name: MemberField(n, "college"), Label: who + " College / University", Kind: KindText, Required: true},
			{Name: MemberField(n, "year"), Label: who + " Academic Year", Kind: KindSelect, Required: true, Options: domain.AcademicYears},
			{Name: MemberField(n, "skills"), Label: who + " Skills", Kind: KindText, Hint: "comma separated"},
		},
	}
}

func reviewSection() Section {
	return Section{
		Title: TitleReview,
		Fields: []Field{
			{Name: FieldRequirements, Label: "Special Requirements", Kind: KindTextarea},
			{Name: FieldWhatsappGroup, Label: "WhatsApp Group Link", Kind: KindURL},
		},
	}
}

// BuildSections returns the ordered sections for a team of the given size:
// team information, the leader, members 2..teamSize, then review
func BuildSections(teamSize int) []Section {
	if teamSize < domain.MinTeamSize || teamSize > domain.MaxTeamSize {
		teamSize = domain.MaxTeamSize
	}
	sections := make([]Section, 0, teamSize+2)
	sections = append(sections, teamInfoSection())
	for n := 1; n <= teamSize; n++ {
		sections = append(sections, memberSection(n))
	}
	return append(sections, reviewSection())
}

// isNICField reports whether the field holds an identity card number
func isNICField(name string) bool {
	return strings.Contains(name, "nic")
}
