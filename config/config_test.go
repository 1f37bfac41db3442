package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/issueops/config"
)

func TestParseBool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		def  bool
		want bool
	}{
		{name: "true", raw: "true", want: true},
		{name: "yes", raw: "yes", want: true},
		{name: "one", raw: "1", want: true},
		{name: "mixed case", raw: "TrUe", want: true},
		{name: "false", raw: "false", want: false},
		{name: "no", raw: "no", want: false},
		{name: "zero", raw: "0", want: false},
		{name: "garbage", raw: "maybe", def: true, want: false},
		{
			name: "inline comment",
			raw:  "true  # enables the thing",
			want: true,
		},
		{
			name: "comment only",
			raw:  "# nothing here",
			def:  true,
			want: true,
		},
		{
			name: "surrounding whitespace",
			raw:  "  yes  ",
			want: true,
		},
		{name: "empty uses default true", raw: "", def: true, want: true},
		{name: "empty uses default false", raw: "", def: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := config.ParseBool(tt.raw, tt.def)
			assert.Equal(t, tt.want, got)
		})
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".issueops.yaml")

	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
tracker: jira
branch_name_format: "{assignee}/{id}-{title}"
translate_titles: "yes"
translate_source_lang: uk
auto_push: "1"
jira:
  url: https://example.atlassian.net
  username: dev@example.com
  token: secret
gitlab_mr:
  url: https://gitlab.example.com
  token: glpat-xyz
  project: group/project
  insecure: "true # self-signed cert"
  keep_source: "no"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "jira", cfg.Tracker)
	assert.Equal(
		t,
		"{assignee}/{id}-{title}",
		cfg.BranchNameFormat,
	)
	assert.True(t, cfg.TranslateTitles)
	assert.Equal(t, "uk", cfg.TranslateSourceLang)
	assert.True(t, cfg.AutoPush)

	assert.Equal(
		t,
		"https://example.atlassian.net",
		cfg.Jira.URL,
	)
	assert.Equal(t, "dev@example.com", cfg.Jira.Username)
	assert.Equal(t, "secret", cfg.Jira.Token)

	assert.Equal(
		t, "https://gitlab.example.com", cfg.MR.URL,
	)
	assert.Equal(t, "glpat-xyz", cfg.MR.Token)
	assert.Equal(t, "group/project", cfg.MR.Project)
	assert.True(t, cfg.MR.Insecure)
	assert.False(t, cfg.MR.KeepSource)
}

func TestLoad_defaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "tracker: gitlab\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "{id}-{title}", cfg.BranchNameFormat)
	assert.True(t, cfg.TranslateTitles)
	assert.Equal(t, "ru", cfg.TranslateSourceLang)
	assert.False(t, cfg.AutoPush)
	assert.False(t, cfg.MR.Insecure)
	assert.False(t, cfg.MR.KeepSource)
	assert.Empty(t, cfg.MR.Project)
}

func TestLoad_missing_file(t *testing.T) {
	t.Parallel()

	_, err := config.Load(
		filepath.Join(t.TempDir(), "nope.yaml"),
	)

	assert.Error(t, err)
}

func TestLoad_malformed_yaml(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "tracker: [unclosed\n")

	_, err := config.Load(path)

	assert.Error(t, err)
}
