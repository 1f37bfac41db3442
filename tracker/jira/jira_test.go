package jira_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/issueops/tracker/jira"
)

func TestNewTracker_missing_url(t *testing.T) {
	t.Parallel()

	_, err := jira.NewTracker(jira.Config{Token: "tok"})

	assert.ErrorContains(t, err, "url must be set")
}

func TestNewTracker_missing_token(t *testing.T) {
	t.Parallel()

	_, err := jira.NewTracker(jira.Config{
		URL: "https://example.atlassian.net",
	})

	assert.ErrorContains(t, err, "token must be set")
}

func TestGetIssue(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(
				t,
				"/rest/api/2/issue/NPDEVOPS-1929",
				r.URL.Path,
			)

			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "dev@example.com", user)
			assert.Equal(t, "secret", pass)

			_, _ = w.Write([]byte(`{
				"key": "NPDEVOPS-1929",
				"fields": {
					"summary": "Исправить баг в логине",
					"assignee": {
						"name": "jdoe",
						"displayName": "John Doe"
					},
					"issuetype": {"name": "Bug"}
				}
			}`))
		},
	))
	defer srv.Close()

	trk, err := jira.NewTracker(jira.Config{
		URL:      srv.URL,
		Username: "dev@example.com",
		Token:    "secret",
	})
	require.NoError(t, err)

	iss, err := trk.GetIssue(
		t.Context(), "NPDEVOPS-1929",
	)

	require.NoError(t, err)
	assert.Equal(t, "NPDEVOPS-1929", iss.ID)
	assert.Equal(
		t, "Исправить баг в логине", iss.Title,
	)
	assert.Equal(t, "jdoe", iss.Assignee)
	assert.Equal(t, "bug", iss.Type)
}

func TestGetIssue_bearer_auth_without_username(
	t *testing.T,
) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(
				t,
				"Bearer pat-token",
				r.Header.Get("Authorization"),
			)

			_, _ = w.Write([]byte(
				`{"key":"PROJ-1","fields":{"summary":"x"}}`,
			))
		},
	))
	defer srv.Close()

	trk, err := jira.NewTracker(jira.Config{
		URL:   srv.URL,
		Token: "pat-token",
	})
	require.NoError(t, err)

	iss, err := trk.GetIssue(t.Context(), "PROJ-1")

	require.NoError(t, err)
	assert.Empty(t, iss.Assignee)
	assert.Equal(t, "issue", iss.Type)
}

func TestGetIssue_not_found(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(
				`{"errorMessages":["Issue does not exist"]}`,
			))
		},
	))
	defer srv.Close()

	trk, err := jira.NewTracker(jira.Config{
		URL:   srv.URL,
		Token: "tok",
	})
	require.NoError(t, err)

	_, err = trk.GetIssue(t.Context(), "PROJ-404")

	assert.ErrorContains(t, err, "404")
}

func TestNumericIssues(t *testing.T) {
	t.Parallel()

	trk, err := jira.NewTracker(jira.Config{
		URL:   "https://example.atlassian.net",
		Token: "tok",
	})
	require.NoError(t, err)

	assert.False(t, trk.NumericIssues())
	assert.Equal(t, "Jira", trk.DisplayName())
}
