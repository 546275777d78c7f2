package domain

import (
	"math"
	"time"
)

// Ограничения на размер команды (лидер входит в размер)
const (
	MinTeamSize = 1
	MaxTeamSize = 5
)

// Team представляет зарегистрированную команду
type Team struct {
	ID                 string    `json:"-"` // внутренний ключ хранилища
	TeamID             string    `json:"teamId"`
	TeamName           string    `json:"teamName"`
	TeamSize           int       `json:"teamSize"`
	TeamLeader         Member    `json:"teamLeader"`
	Members            []Member  `json:"members"`
	ProjectTitle       string    `json:"projectTitle"`
	ProjectDescription string    `json:"projectDescription"`
	TechStack          []string  `json:"techStack"`
	ProjectCategory    Category  `json:"projectCategory"`
	Experience         string    `json:"experience"`
	Requirements       string    `json:"requirements,omitempty"`
	WhatsappGroup      string    `json:"whatsappGroup,omitempty"`
	RegistrationDate   time.Time `json:"registrationDate"`
	Status             Status    `json:"status"`
}

// Member представляет участника команды (лидер или обычный участник)
type Member struct {
	Name    string   `json:"name"`
	Email   string   `json:"email,omitempty"` // пусто в публичном списке
	Phone   string   `json:"phone,omitempty"`
	NIC     string   `json:"nic,omitempty"`
	College string   `json:"college"`
	Year    string   `json:"year"`
	Skills  []string `json:"skills"`
}

// Emails возвращает email лидера и всех участников в порядке заявки
func (t *Team) Emails() []string {
	emails := make([]string, 0, len(t.Members)+1)
	emails = append(emails, t.TeamLeader.Email)
	for _, m := range t.Members {
		emails = append(emails, m.Email)
	}
	return emails
}

// TotalMembers возвращает фактическое число людей в команде
func (t *Team) TotalMembers() int {
	return len(t.Members) + 1
}

// Public возвращает копию команды без контактных данных участников
func (t *Team) Public() *Team {
	c := *t
	c.TeamLeader = t.TeamLeader.public()
	c.Members = make([]Member, len(t.Members))
	for i, m := range t.Members {
		c.Members[i] = m.public()
	}
	return &c
}

func (m Member) public() Member {
	m.Email = ""
	m.Phone = ""
	m.NIC = ""
	return m
}

// TeamFilter задает фильтры для списка команд
type TeamFilter struct {
	Status   Status
	Category Category
}

// Page задает параметры пагинации (Number начинается с 1)
type Page struct {
	Number int
	Limit  int
}

// Offset возвращает смещение для запроса. При переполнении
// возвращается math.MaxInt, то есть заведомо пустая страница.
func (p Page) Offset() int {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// TeamList представляет страницу команд
type TeamList struct {
	Teams       []*Team `json:"teams"`
	TotalPages  int     `json:"totalPages"`
	CurrentPage int     `json:"currentPage"`
	Total       int     `json:"total"`
}
