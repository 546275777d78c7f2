package domain

import (
	"strings"
	"time"
)

// Registration представляет тело заявки на регистрацию команды.
// Теги validate проверяются пакетом validation до создания Team.
type Registration struct {
	TeamName           string        `json:"teamName" validate:"required,min=3,max=50"`
	TeamSize           int           `json:"teamSize" validate:"required,min=1,max=5"`
	TeamLeader         *MemberInput  `json:"teamLeader" validate:"required"`
	Members            []MemberInput `json:"members" validate:"dive"`
	ProjectTitle       string        `json:"projectTitle" validate:"required,max=100"`
	ProjectDescription string        `json:"projectDescription" validate:"required,min=50,max=1000"`
	TechStack          []string      `json:"techStack" validate:"required,min=1,max=15,dive,required"`
	ProjectCategory    string        `json:"projectCategory" validate:"required,category"`
	Experience         string        `json:"experience" validate:"required,oneof=Beginner Intermediate Advanced"`
	Requirements       string        `json:"requirements,omitempty" validate:"max=500"`
	WhatsappGroup      string        `json:"whatsappGroup,omitempty" validate:"omitempty,whatsapp"`
}

// MemberInput представляет данные участника в заявке
type MemberInput struct {
	Name    string   `json:"name" validate:"required,min=2,max=100"`
	Email   string   `json:"email" validate:"required,email"`
	Phone   string   `json:"phone" validate:"required,phone"`
	NIC     string   `json:"nic" validate:"required,nic"`
	College string   `json:"college" validate:"required,min=2,max=200"`
	Year    string   `json:"year" validate:"required,academic_year"`
	Skills  []string `json:"skills" validate:"max=10"`
}

// Normalize обрезает пробелы, приводит email к нижнему регистру и
// убирает пустые элементы списков
func (r *Registration) Normalize() {
	r.TeamName = strings.TrimSpace(r.TeamName)
	r.ProjectTitle = strings.TrimSpace(r.ProjectTitle)
	r.ProjectDescription = strings.TrimSpace(r.ProjectDescription)
	r.ProjectCategory = strings.TrimSpace(r.ProjectCategory)
	r.Experience = strings.TrimSpace(r.Experience)
	r.Requirements = strings.TrimSpace(r.Requirements)
	r.WhatsappGroup = strings.TrimSpace(r.WhatsappGroup)
	r.TechStack = CleanList(r.TechStack)
	if r.TeamLeader != nil {
		r.TeamLeader.Normalize()
	}
	for i := range r.Members {
		r.Members[i].Normalize()
	}
}

// Normalize приводит поля участника к каноническому виду
func (m *MemberInput) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = NormalizeEmail(m.Email)
	m.Phone = StripSpaces(m.Phone)
	m.NIC = strings.TrimSpace(m.NIC)
	m.College = strings.TrimSpace(m.College)
	m.Year = strings.TrimSpace(m.Year)
	m.Skills = CleanList(m.Skills)
}

// Emails возвращает email лидера и участников
func (r *Registration) Emails() []string {
	emails := make([]string, 0, len(r.Members)+1)
	if r.TeamLeader != nil {
		emails = append(emails, r.TeamLeader.Email)
	}
	for _, m := range r.Members {
		emails = append(emails, m.Email)
	}
	return emails
}

// ToTeam строит сущность Team из уже проверенной заявки
func (r *Registration) ToTeam(id, teamID string, now time.Time) *Team {
	members := make([]Member, len(r.Members))
	for i, m := range r.Members {
		members[i] = m.toMember()
	}
	return &Team{
		ID:                 id,
		TeamID:             teamID,
		TeamName:           r.TeamName,
		TeamSize:           r.TeamSize,
		TeamLeader:         r.TeamLeader.toMember(),
		Members:            members,
		ProjectTitle:       r.ProjectTitle,
		ProjectDescription: r.ProjectDescription,
		TechStack:          copyList(r.TechStack),
		ProjectCategory:    Category(r.ProjectCategory),
		Experience:         r.Experience,
		Requirements:       r.Requirements,
		WhatsappGroup:      r.WhatsappGroup,
		RegistrationDate:   now.UTC(),
		Status:             StatusPending,
	}
}

func (m MemberInput) toMember() Member {
	return Member{
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		NIC:     m.NIC,
		College: m.College,
		Year:    m.Year,
		Skills:  copyList(m.Skills),
	}
}

func copyList(items []string) []string {
	out := make([]string, len(items))
	copy(out, items)
	return out
}

// NormalizeEmail обрезает пробелы и приводит email к нижнему регистру
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StripSpaces удаляет все пробельные символы из строки
func StripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// CleanList обрезает элементы списка и убирает пустые
func CleanList(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// SplitList разбивает строку через запятую на очищенный список
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return CleanList(strings.Split(s, ","))
}
