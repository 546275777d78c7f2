package domain

// Status представляет статус рассмотрения заявки
type Status string

// Возможные статусы заявки
const (
	StatusPending  Status = "pending"  // Заявка ожидает рассмотрения
	StatusApproved Status = "approved" // Заявка одобрена
	StatusRejected Status = "rejected" // Заявка отклонена
)

// Statuses перечисляет все допустимые статусы
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// Valid проверяет, что статус входит в допустимый набор
func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Category представляет категорию проекта
type Category string

// Categories перечисляет категории проектов
var Categories = []Category{
	"Web Development",
	"Mobile App Development",
	"AI/ML",
	"Blockchain",
	"IoT",
	"Game Development",
	"Data Science",
	"DevOps",
	"Cybersecurity",
	"AR/VR",
	"Other",
}

// Valid проверяет, что категория входит в допустимый набор
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// AcademicYears перечисляет допустимые курсы обучения
var AcademicYears = []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "Graduate", "Post Graduate"}

// ExperienceLevels перечисляет уровни опыта команды
var ExperienceLevels = []string{"Beginner", "Intermediate", "Advanced"}
