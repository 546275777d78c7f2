package form

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudilMin/Devthon-website/internal/client"
	"github.com/SudilMin/Devthon-website/internal/domain"
)

func fillTeamInfo(c *Controller, size int) {
	c.Set(FieldTeamName, "Alpha")
	c.Set(FieldTeamSize, fmt.Sprint(size))
	c.Set(FieldProjectTitle, "Campus Navigator")
	c.Set(FieldProjectDescription, strings.Repeat("Indoor navigation for campuses. ", 3))
	c.Set(FieldTechStack, "Go, Flutter , ,Postgres")
	c.Set(FieldProjectCategory, "Web Development")
	c.Set(FieldExperience, "Beginner")
}

func fillPerson(c *Controller, n int) {
	c.Set(MemberField(n, "name"), fmt.Sprintf("Person %d", n))
	c.Set(MemberField(n, "email"), fmt.Sprintf("p%d@x.com", n))
	c.Set(MemberField(n, "phone"), "0771234567")
	c.Set(MemberField(n, "nic"), "981234567V")
	c.Set(MemberField(n, "college"), "UoM")
	c.Set(MemberField(n, "year"), "1st Year")
	c.Set(MemberField(n, "skills"), "Go, SQL")
}

func titles(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Title
	}
	return out
}

func TestBuildSections(t *testing.T) {
	assert.Equal(t, []string{
		TitleTeamInfo,
		TitleLeader,
		"Member 2 Details",
		"Member 3 Details",
		"Member 4 Details",
		"Member 5 Details",
		TitleReview,
	}, titles(BuildSections(5)))

	assert.Equal(t, []string{TitleTeamInfo, TitleLeader, TitleReview}, titles(BuildSections(1)))
	assert.Len(t, BuildSections(0), 7)
	assert.Len(t, BuildSections(9), 7)

	leader := BuildSections(2)[1]
	assert.Equal(t, 1, leader.Member)
	assert.Equal(t, "leader-email", leader.Fields[1].Name)
	assert.Equal(t, "member2-nic", BuildSections(2)[2].Fields[3].Name)
}

func TestController_Navigation(t *testing.T) {
	c := New()

	assert.Equal(t, 1, c.Current())
	assert.Equal(t, 7, c.Total(), "all member sections are shown until a size is chosen")
	assert.True(t, c.Visible(1))
	assert.False(t, c.Visible(2))
	assert.Equal(t, "Team Information (1/7)", c.ProgressLabel())

	t.Run("empty required field blocks", func(t *testing.T) {
		err := c.Next()

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, FieldTeamName, fe.Field)
		assert.Equal(t, "Please fill in the Team Name", fe.Message)
		assert.Equal(t, FieldTeamName, c.Focused())
		assert.Equal(t, 1, c.Current())
	})

	fillTeamInfo(c, 3)
	require.NoError(t, c.Next())
	assert.Equal(t, 2, c.Current())
	assert.Equal(t, 5, c.Total())
	assert.InDelta(t, 40.0, c.Progress(), 0.001)

	t.Run("invalid leader email blocks", func(t *testing.T) {
		fillPerson(c, 1)
		c.Set(MemberField(1, "email"), "alice@")

		err := c.Next()

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "leader-email", fe.Field)
		assert.Equal(t, "Please enter a valid email address", fe.Message)
		assert.Equal(t, 2, c.Current())
	})

	t.Run("invalid phone and nic", func(t *testing.T) {
		c.Set(MemberField(1, "email"), "alice@x.com")
		c.Set(MemberField(1, "phone"), "12345")
		assert.EqualError(t, c.Next(), "Please enter a valid WhatsApp number")

		c.Set(MemberField(1, "phone"), "+94771234567")
		c.Set(MemberField(1, "nic"), "12345")
		assert.EqualError(t, c.Next(), "Please enter a valid NIC number")
		assert.Equal(t, "leader-nic", c.Focused())
	})

	t.Run("back is never blocked", func(t *testing.T) {
		c.Prev()
		assert.Equal(t, 1, c.Current())
		c.Prev()
		assert.Equal(t, 1, c.Current())
	})

	t.Run("shrinking the team clamps the position", func(t *testing.T) {
		c.Set(MemberField(1, "nic"), "200012345678")
		require.NoError(t, c.Next())
		require.NoError(t, c.Next())
		fillPerson(c, 2)
		require.NoError(t, c.Next())
		fillPerson(c, 3)
		require.NoError(t, c.Next())
		assert.True(t, c.IsLast())
		assert.Equal(t, 5, c.Current())

		c.Set(FieldTeamSize, "1")
		assert.Equal(t, 3, c.Total())
		assert.Equal(t, 3, c.Current())
		assert.Equal(t, TitleReview, c.Section().Title)
	})
}

func TestController_ReviewSection(t *testing.T) {
	c := New()
	fillTeamInfo(c, 1)
	require.NoError(t, c.Next())
	fillPerson(c, 1)
	require.NoError(t, c.Next())
	require.True(t, c.IsLast())

	// Необязательные поля проверяются только если заполнены
	require.NoError(t, c.ValidateSection())

	c.Set(FieldWhatsappGroup, "https://example.com/group")
	assert.EqualError(t, c.ValidateSection(), "Please enter a valid WhatsApp group link")

	c.Set(FieldWhatsappGroup, "https://chat.whatsapp.com/AbCdEf123")
	assert.NoError(t, c.ValidateSection())

	// На последнем шаге Next не уходит дальше
	require.NoError(t, c.Next())
	assert.Equal(t, 3, c.Current())
}

func TestController_SelectOptions(t *testing.T) {
	c := New()
	fillTeamInfo(c, 2)
	c.Set(FieldProjectCategory, "Cooking")

	assert.EqualError(t, c.Next(), "Please select a valid Project Category")
}

func TestController_Payload(t *testing.T) {
	c := New()
	fillTeamInfo(c, 4)
	fillPerson(c, 1)
	fillPerson(c, 2)
	fillPerson(c, 3)
	// Пятый участник заполнен, но не входит в команду из четырех
	fillPerson(c, 5)
	c.Set(FieldRequirements, "Vegetarian meals")

	reg := c.Payload()

	assert.Equal(t, "Alpha", reg.TeamName)
	assert.Equal(t, 4, reg.TeamSize)
	assert.Equal(t, []string{"Go", "Flutter", "Postgres"}, reg.TechStack)
	assert.Equal(t, "p1@x.com", reg.TeamLeader.Email)
	assert.Equal(t, "981234567V", reg.TeamLeader.NIC)
	assert.Equal(t, []string{"Go", "SQL"}, reg.TeamLeader.Skills)
	assert.Equal(t, "Vegetarian meals", reg.Requirements)

	// Участник 4 пуст и пропускается
	require.Len(t, reg.Members, 2)
	assert.Equal(t, "p2@x.com", reg.Members[0].Email)
	assert.Equal(t, "p3@x.com", reg.Members[1].Email)
}

type stubSubmitter struct {
	outcome *client.Outcome
	calls   int
	during  func()
}

func (s *stubSubmitter) Submit(_ context.Context, reg *domain.Registration) *client.Outcome {
	s.calls++
	if s.during != nil {
		s.during()
	}
	s.outcome.Registration = reg
	return s.outcome
}

func readyController(t *testing.T) *Controller {
	t.Helper()
	c := New()
	fillTeamInfo(c, 1)
	require.NoError(t, c.Next())
	fillPerson(c, 1)
	require.NoError(t, c.Next())
	return c
}

func TestController_Submit(t *testing.T) {
	t.Run("failure keeps the form editable", func(t *testing.T) {
		c := readyController(t)
		stub := &stubSubmitter{
			outcome: &client.Outcome{Primary: client.PathResult{
				Name:     client.PathPrimary,
				Response: &client.APIResponse{Message: "Team name already exists. Please choose a different name."},
			}},
		}
		stub.during = func() {
			assert.True(t, c.SubmitDisabled(), "submit is disabled while the request runs")
		}

		out, err := c.Submit(context.Background(), stub)

		require.NoError(t, err)
		assert.False(t, out.OK())
		assert.False(t, c.SubmitDisabled())
		assert.False(t, c.Completed())
		require.NotNil(t, c.Feedback())
		assert.Equal(t, client.FeedbackError, c.Feedback().Kind)
		assert.Equal(t, "Team name already exists. Please choose a different name.", c.Feedback().Message)
	})

	t.Run("success completes the form", func(t *testing.T) {
		c := readyController(t)
		stub := &stubSubmitter{
			outcome: &client.Outcome{Primary: client.PathResult{
				Name: client.PathPrimary,
				OK:   true,
				Response: &client.APIResponse{
					Success: true,
					Data:    &client.RegistrationData{TeamID: "DEV-0003", TeamName: "Alpha"},
				},
			}},
		}

		_, err := c.Submit(context.Background(), stub)

		require.NoError(t, err)
		assert.True(t, c.Completed())
		assert.True(t, c.SubmitDisabled())
		assert.False(t, c.Visible(c.Current()))
		assert.Equal(t, "DEV-0003", c.Feedback().TeamID)

		_, err = c.Submit(context.Background(), stub)
		assert.ErrorIs(t, err, ErrCompleted)
		assert.Equal(t, 1, stub.calls)
	})

	t.Run("invalid section is not sent", func(t *testing.T) {
		c := readyController(t)
		c.Set(FieldWhatsappGroup, "not a link")
		stub := &stubSubmitter{outcome: &client.Outcome{}}

		_, err := c.Submit(context.Background(), stub)

		var fe *FieldError
		assert.ErrorAs(t, err, &fe)
		assert.Zero(t, stub.calls)
	})
}
