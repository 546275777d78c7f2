package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SudilMin/Devthon-website/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistration() *domain.Registration {
	return &domain.Registration{
		TeamName:   "Alpha",
		TeamSize:   1,
		TeamLeader: &domain.MemberInput{Name: "Alice", Email: "a@x.com"},
		Members:    []domain.MemberInput{},
	}
}

func jsonServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reg domain.Registration
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reg))
		assert.Equal(t, "Alpha", reg.TeamName)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// unreachable возвращает адрес, на котором никто не слушает
func unreachable(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

func TestClient_Submit(t *testing.T) {
	accepted := map[string]any{
		"success": true,
		"message": "Team registered successfully!",
		"data":    map[string]any{"teamId": "DEV-0001", "teamName": "Alpha", "status": "pending"},
	}

	t.Run("api accepts", func(t *testing.T) {
		api := jsonServer(t, http.StatusCreated, accepted)
		c := New(api.URL, "", nil, quietLogger())

		out := c.Submit(context.Background(), testRegistration())

		assert.True(t, out.OK())
		assert.Nil(t, out.Secondary)
		assert.Equal(t, "DEV-0001", out.TeamID())

		f := out.Feedback()
		assert.Equal(t, FeedbackSuccess, f.Kind)
		assert.Equal(t, "Registration successful! Team Alpha, your Team ID: DEV-0001. Please save this ID for future reference.", f.Message)
		assert.Zero(t, f.DismissAfter)
	})

	t.Run("api rejects, webhook accepts", func(t *testing.T) {
		api := jsonServer(t, http.StatusConflict, map[string]any{
			"success": false,
			"code":    "TEAM_EXISTS",
			"message": "Team name already exists. Please choose a different name.",
		})
		hook := jsonServer(t, http.StatusOK, map[string]any{"success": true, "teamId": "DEV-0042"})
		c := New(api.URL, hook.URL, nil, quietLogger())

		out := c.Submit(context.Background(), testRegistration())

		assert.True(t, out.OK())
		assert.False(t, out.Primary.OK)
		assert.Equal(t, http.StatusConflict, out.Primary.StatusCode)
		require.NotNil(t, out.Secondary)
		assert.True(t, out.Secondary.OK)
		assert.Equal(t, "DEV-0042", out.TeamID())
	})

	t.Run("both reject", func(t *testing.T) {
		api := jsonServer(t, http.StatusConflict, map[string]any{
			"success":          false,
			"code":             "EMAIL_REGISTERED",
			"message":          "Some team members are already registered",
			"registeredEmails": []string{"a@x.com"},
		})
		hook := jsonServer(t, http.StatusOK, map[string]any{"success": false, "message": "duplicate"})
		c := New(api.URL, hook.URL, nil, quietLogger())

		out := c.Submit(context.Background(), testRegistration())

		assert.False(t, out.OK())
		f := out.Feedback()
		assert.Equal(t, FeedbackError, f.Kind)
		assert.Equal(t, ErrorDismissAfter, f.DismissAfter)
		assert.Equal(t, "Some team members are already registered\n\nAlready registered emails: a@x.com", f.Text())
	})

	t.Run("validation details", func(t *testing.T) {
		api := jsonServer(t, http.StatusBadRequest, map[string]any{
			"success": false,
			"code":    "VALIDATION_FAILED",
			"message": "Validation failed",
			"errors": []map[string]string{
				{"field": "teamName", "message": "teamName must be at least 3 characters"},
				{"field": "teamLeader.phone", "message": "teamLeader.phone must be a valid mobile number"},
			},
		})
		c := New(api.URL, "", nil, quietLogger())

		f := c.Submit(context.Background(), testRegistration()).Feedback()

		assert.Equal(t, "Validation failed\n\nDetails:\n• teamName must be at least 3 characters\n• teamLeader.phone must be a valid mobile number", f.Text())
	})

	t.Run("network error on both paths", func(t *testing.T) {
		c := New(unreachable(t), unreachable(t), &http.Client{Timeout: time.Second}, quietLogger())

		out := c.Submit(context.Background(), testRegistration())

		assert.False(t, out.OK())
		assert.Error(t, out.Primary.Err)
		assert.Error(t, out.Secondary.Err)
		f := out.Feedback()
		assert.Equal(t, MsgNetworkError, f.Message)
		assert.Equal(t, ErrorDismissAfter, f.DismissAfter)
	})

	t.Run("api down, webhook accepts", func(t *testing.T) {
		hook := jsonServer(t, http.StatusOK, map[string]any{"success": true})
		c := New(unreachable(t), hook.URL, nil, quietLogger())

		out := c.Submit(context.Background(), testRegistration())

		assert.True(t, out.OK())
		f := out.Feedback()
		assert.Equal(t, FeedbackSuccess, f.Kind)
		assert.Equal(t, "Registration successful! Team Alpha has been received.", f.Message)
	})

	t.Run("non json answer", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}))
		defer srv.Close()
		c := New(srv.URL, "", nil, quietLogger())

		out := c.Submit(context.Background(), testRegistration())

		assert.False(t, out.OK())
		assert.Equal(t, http.StatusBadGateway, out.Primary.StatusCode)
		assert.Error(t, out.Primary.Err)
		assert.Equal(t, MsgNetworkError, out.Feedback().Message)
	})
}

func TestNew_TrimsBaseURL(t *testing.T) {
	c := New("http://localhost:3000/", "", nil, nil)
	assert.Equal(t, "http://localhost:3000"+RegisterPath, c.apiURL)
}
