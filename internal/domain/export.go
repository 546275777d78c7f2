package domain

import "strconv"

// Роли участников в таблице Members
const (
	RoleLeader = "Team Leader"
	RoleMember = "Team Member"
)

// SheetDateLayout формат даты регистрации в таблицах
const SheetDateLayout = "2006-01-02 15:04:05"

// Заголовки листов Teams и Members
var (
	TeamSheetHeader = []string{
		"Team ID", "Team Name", "Team Leader", "Leader Email", "Leader Phone",
		"Leader NIC", "Leader College", "Team Size", "Registration Date",
	}
	MemberSheetHeader = []string{
		"Team ID", "Member Name", "Email", "Phone", "NIC", "College", "Role",
	}
)

// SheetRow возвращает строку команды для листа Teams
func (t *Team) SheetRow() []string {
	return []string{
		t.TeamID,
		t.TeamName,
		t.TeamLeader.Name,
		t.TeamLeader.Email,
		t.TeamLeader.Phone,
		t.TeamLeader.NIC,
		t.TeamLeader.College,
		strconv.Itoa(t.TeamSize),
		t.RegistrationDate.UTC().Format(SheetDateLayout),
	}
}

// MemberRows возвращает строки листа Members: сначала лидер, затем участники
func (t *Team) MemberRows() [][]string {
	rows := make([][]string, 0, len(t.Members)+1)
	rows = append(rows, memberRow(t.TeamID, t.TeamLeader, RoleLeader))
	for _, m := range t.Members {
		rows = append(rows, memberRow(t.TeamID, m, RoleMember))
	}
	return rows
}

func memberRow(teamID string, m Member, role string) []string {
	return []string{teamID, m.Name, m.Email, m.Phone, m.NIC, m.College, role}
}

// Export содержит данные для ручного переноса в таблицу
type Export struct {
	Teams        []map[string]string `json:"teams"`
	Members      []map[string]string `json:"members"`
	TotalTeams   int                 `json:"totalTeams"`
	TotalMembers int                 `json:"totalMembers"`
}

// NewExport строит выгрузку в раскладке листов Teams и Members
func NewExport(teams []*Team) *Export {
	e := &Export{
		Teams:   make([]map[string]string, 0, len(teams)),
		Members: []map[string]string{},
	}
	for _, t := range teams {
		e.Teams = append(e.Teams, rowMap(TeamSheetHeader, t.SheetRow()))
		for _, row := range t.MemberRows() {
			e.Members = append(e.Members, rowMap(MemberSheetHeader, row))
		}
	}
	e.TotalTeams = len(e.Teams)
	e.TotalMembers = len(e.Members)
	return e
}

func rowMap(header, row []string) map[string]string {
	m := make(map[string]string, len(header))
	for i, h := range header {
		m[h] = row[i]
	}
	return m
}
