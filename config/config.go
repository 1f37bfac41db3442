// Package config loads the .issueops.yaml configuration
// file and resolves it once, at startup, into typed
// values.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultPath is the configuration file looked up in the
// working directory.
const DefaultPath = ".issueops.yaml"

// Defaults applied when the file leaves a value unset.
const (
	defaultBranchNameFormat = "{id}-{title}"
	defaultSourceLang       = "ru"
)

// Config is the resolved configuration. All bool-ish
// string values from the file have already been parsed.
type Config struct {
	// Tracker selects the issue tracker implementation
	// ("gitlab", "github" or "jira").
	Tracker string

	// BranchNameFormat is the branch name template.
	BranchNameFormat string

	// TranslateTitles enables title translation before
	// slugification.
	TranslateTitles bool

	// TranslateSourceLang is the language code handed
	// to the translator.
	TranslateSourceLang string

	// AutoPush pushes a freshly created branch.
	AutoPush bool

	GitLab TrackerGitLab
	GitHub TrackerGitHub
	Jira   TrackerJira

	MR MR
}

// TrackerGitLab configures the GitLab issue tracker.
type TrackerGitLab struct {
	URL     string
	Token   string
	Project string
}

// TrackerGitHub configures the GitHub issue tracker.
type TrackerGitHub struct {
	// Host is an optional GitHub Enterprise hostname;
	// empty means github.com.
	Host  string
	Token string
	Owner string
	Repo  string
}

// TrackerJira configures the Jira issue tracker.
type TrackerJira struct {
	URL      string
	Username string
	Token    string
}

// MR holds the gitlab_mr section driving merge request
// creation.
type MR struct {
	URL   string
	Token string

	// Project is the full project path; empty means
	// auto-detect from the origin remote.
	Project string

	// Insecure skips TLS certificate verification.
	Insecure bool

	// KeepSource keeps the source branch after merge
	// when the CLI flag is unset.
	KeepSource bool
}

// fileConfig mirrors the YAML document. Bool-ish values
// stay strings so inline comments and bare words survive
// until ParseBool.
type fileConfig struct {
	Tracker             string `yaml:"tracker"`
	BranchNameFormat    string `yaml:"branch_name_format"`
	TranslateTitles     string `yaml:"translate_titles"`
	TranslateSourceLang string `yaml:"translate_source_lang"`
	AutoPush            string `yaml:"auto_push"`

	GitLab struct {
		URL     string `yaml:"url"`
		Token   string `yaml:"token"`
		Project string `yaml:"project"`
	} `yaml:"gitlab"`

	GitHub struct {
		Host  string `yaml:"host"`
		Token string `yaml:"token"`
		Owner string `yaml:"owner"`
		Repo  string `yaml:"repo"`
	} `yaml:"github"`

	Jira struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Token    string `yaml:"token"`
	} `yaml:"jira"`

	MR struct {
		URL        string `yaml:"url"`
		Token      string `yaml:"token"`
		Project    string `yaml:"project"`
		Insecure   string `yaml:"insecure"`
		KeepSource string `yaml:"keep_source"`
	} `yaml:"gitlab_mr"`
}

// Load reads the configuration file at path and resolves
// it into typed values.
func Load(path string) (*Config, error) {
	const errCtx = "loading configuration"

	raw, err := os.ReadFile(path) //nolint:gosec // path from CLI flag
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	var fc fileConfig

	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf(
			"%s: decoding %s: %w", errCtx, path, err,
		)
	}

	return fc.resolve(), nil
}

// resolve turns the raw file values into the typed
// Config, applying defaults and the string-bool rule.
func (fc *fileConfig) resolve() *Config {
	return &Config{
		Tracker: strings.TrimSpace(fc.Tracker),
		BranchNameFormat: defaultString(
			fc.BranchNameFormat,
			defaultBranchNameFormat,
		),
		TranslateTitles: ParseBool(
			fc.TranslateTitles, true,
		),
		TranslateSourceLang: defaultString(
			fc.TranslateSourceLang,
			defaultSourceLang,
		),
		AutoPush: ParseBool(fc.AutoPush, false),
		GitLab: TrackerGitLab{
			URL:     fc.GitLab.URL,
			Token:   fc.GitLab.Token,
			Project: fc.GitLab.Project,
		},
		GitHub: TrackerGitHub{
			Host:  fc.GitHub.Host,
			Token: fc.GitHub.Token,
			Owner: fc.GitHub.Owner,
			Repo:  fc.GitHub.Repo,
		},
		Jira: TrackerJira{
			URL:      fc.Jira.URL,
			Username: fc.Jira.Username,
			Token:    fc.Jira.Token,
		},
		MR: MR{
			URL:     fc.MR.URL,
			Token:   fc.MR.Token,
			Project: fc.MR.Project,
			Insecure: ParseBool(
				fc.MR.Insecure, false,
			),
			KeepSource: ParseBool(
				fc.MR.KeepSource, false,
			),
		},
	}
}

// ParseBool resolves a string-valued boolean with an
// enumerated rule: "true", "yes" and "1" are true,
// case-insensitive; anything else is false. An inline
// "#" comment and surrounding whitespace are stripped
// first, and an empty value yields def.
func ParseBool(raw string, def bool) bool {
	val, _, _ := strings.Cut(raw, "#")

	val = strings.ToLower(strings.TrimSpace(val))
	if val == "" {
		return def
	}

	switch val {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}

func defaultString(val, def string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}

	return strings.TrimSpace(val)
}
