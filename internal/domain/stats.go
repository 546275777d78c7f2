package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// StatusCounts содержит агрегированные счетчики по статусам
type StatusCounts struct {
	TotalTeams        int `json:"totalTeams"`
	TotalParticipants int `json:"totalParticipants"`
	PendingTeams      int `json:"pendingTeams"`
	ApprovedTeams     int `json:"approvedTeams"`
	RejectedTeams     int `json:"rejectedTeams"`
}

// Add учитывает одну команду в счетчиках
func (c *StatusCounts) Add(status Status, teamSize int) {
	c.TotalTeams++
	c.TotalParticipants += teamSize
	switch status {
	case StatusPending:
		c.PendingTeams++
	case StatusApproved:
		c.ApprovedTeams++
	case StatusRejected:
		c.RejectedTeams++
	}
}

// CategoryCount содержит количество команд в категории
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}

// Stats содержит общую статистику регистраций
type Stats struct {
	StatusCounts
	CategoryStats []CategoryCount `json:"categoryStats"`
}

// SortCategoryCounts сортирует категории по убыванию количества, затем по названию
func SortCategoryCounts(counts []CategoryCount) {
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
}

// TeamNameKey возвращает ключ уникальности названия команды
// (Unicode case folding, пробелы по краям игнорируются)
func TeamNameKey(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
