package firestore

import (
	"time"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

// teamDoc представляет документ коллекции teams
type teamDoc struct {
	ID                 string      `firestore:"id"`
	TeamID             string      `firestore:"teamId"`
	TeamName           string      `firestore:"teamName"`
	TeamNameKey        string      `firestore:"teamNameKey"`
	TeamSize           int         `firestore:"teamSize"`
	TeamLeader         memberDoc   `firestore:"teamLeader"`
	Members            []memberDoc `firestore:"members"`
	ProjectTitle       string      `firestore:"projectTitle"`
	ProjectDescription string      `firestore:"projectDescription"`
	TechStack          []string    `firestore:"techStack"`
	ProjectCategory    string      `firestore:"projectCategory"`
	Experience         string      `firestore:"experience"`
	Requirements       string      `firestore:"requirements"`
	WhatsappGroup      string      `firestore:"whatsappGroup"`
	Status             string      `firestore:"status"`
	RegistrationDate   time.Time   `firestore:"registrationDate"`
}

type memberDoc struct {
	Name    string   `firestore:"name"`
	Email   string   `firestore:"email"`
	Phone   string   `firestore:"phone"`
	NIC     string   `firestore:"nic"`
	College string   `firestore:"college"`
	Year    string   `firestore:"year"`
	Skills  []string `firestore:"skills"`
}

// guardDoc закрепляет уникальное значение (название или email) за командой
type guardDoc struct {
	TeamID string `firestore:"teamId"`
}

type counterDoc struct {
	Value int64 `firestore:"value"`
}

func toDoc(t *domain.Team) teamDoc {
	members := make([]memberDoc, len(t.Members))
	for i, m := range t.Members {
		members[i] = toMemberDoc(m)
	}
	return teamDoc{
		ID:                 t.ID,
		TeamID:             t.TeamID,
		TeamName:           t.TeamName,
		TeamNameKey:        domain.TeamNameKey(t.TeamName),
		TeamSize:           t.TeamSize,
		TeamLeader:         toMemberDoc(t.TeamLeader),
		Members:            members,
		ProjectTitle:       t.ProjectTitle,
		ProjectDescription: t.ProjectDescription,
		TechStack:          nonNil(t.TechStack),
		ProjectCategory:    string(t.ProjectCategory),
		Experience:         t.Experience,
		Requirements:       t.Requirements,
		WhatsappGroup:      t.WhatsappGroup,
		Status:             string(t.Status),
		RegistrationDate:   t.RegistrationDate,
	}
}

func toMemberDoc(m domain.Member) memberDoc {
	return memberDoc{
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		NIC:     m.NIC,
		College: m.College,
		Year:    m.Year,
		Skills:  nonNil(m.Skills),
	}
}

func (d teamDoc) toDomain() *domain.Team {
	members := make([]domain.Member, len(d.Members))
	for i, m := range d.Members {
		members[i] = m.toDomain()
	}
	return &domain.Team{
		ID:                 d.ID,
		TeamID:             d.TeamID,
		TeamName:           d.TeamName,
		TeamSize:           d.TeamSize,
		TeamLeader:         d.TeamLeader.toDomain(),
		Members:            members,
		ProjectTitle:       d.ProjectTitle,
		ProjectDescription: d.ProjectDescription,
		TechStack:          nonNil(d.TechStack),
		ProjectCategory:    domain.Category(d.ProjectCategory),
		Experience:         d.Experience,
		Requirements:       d.Requirements,
		WhatsappGroup:      d.WhatsappGroup,
		Status:             domain.Status(d.Status),
		RegistrationDate:   d.RegistrationDate.UTC(),
	}
}

func (m memberDoc) toDomain() domain.Member {
	return domain.Member{
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		NIC:     m.NIC,
		College: m.College,
		Year:    m.Year,
		Skills:  nonNil(m.Skills),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
