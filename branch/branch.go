// Package branch expands a configurable template
// against an issue into a valid git branch name.
package branch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/byte4ever/issueops/issue"
	"github.com/byte4ever/issueops/translate"
)

// Placeholders use single-brace tags, e.g. "{id}-{title}".
const (
	startTag = "{"
	endTag   = "}"
)

// Generator expands a branch-name template. Recognized
// placeholders are {id}, {title}, {assignee} and {type};
// {title} expands to the sanitized (translated and
// slugified) issue title.
type Generator struct {
	// Template is the branch name format string held in
	// configuration.
	Template string
}

// RequiresAssignee reports whether the template
// references the assignee placeholder. Callers use this
// to fail before any git side effect when the issue has
// no assignee.
func (g Generator) RequiresAssignee() bool {
	return strings.Contains(g.Template, "{assignee}")
}

// Generate expands the template against iss. Apart from
// the translation the gate may perform on the title, it
// is a pure function of its inputs: same issue and same
// template always produce the same name.
func (g Generator) Generate(
	ctx context.Context,
	iss *issue.Issue,
	gate *translate.Gate,
) (string, error) {
	const errCtx = "generating branch name"

	name, err := fasttemplate.ExecuteFuncStringWithErr(
		g.Template, startTag, endTag,
		func(w io.Writer, tag string) (int, error) {
			return expandTag(ctx, w, tag, iss, gate)
		},
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	name = strings.Trim(name, "-/")

	if err := validateName(name); err != nil {
		return "", fmt.Errorf(
			"%s: template %q: %w",
			errCtx, g.Template, err,
		)
	}

	return name, nil
}

// expandTag writes the substitution for a single
// placeholder. Unknown placeholders are an error so a
// typo in configuration surfaces instead of leaking
// braces into the branch name.
func expandTag(
	ctx context.Context,
	w io.Writer,
	tag string,
	iss *issue.Issue,
	gate *translate.Gate,
) (int, error) {
	switch tag {
	case "id":
		return io.WriteString(w, iss.ID)
	case "title":
		return io.WriteString(
			w, iss.SanitizedTitle(ctx, gate),
		)
	case "assignee":
		if iss.Assignee == "" {
			return 0, fmt.Errorf(
				"issue %s has no assignee", iss.ID,
			)
		}

		return io.WriteString(w, iss.Assignee)
	case "type":
		return io.WriteString(w, iss.Type)
	default:
		return 0, fmt.Errorf(
			"unknown placeholder {%s}", tag,
		)
	}
}

// validateName rejects names git would refuse: empty,
// whitespace, control characters, or ref-syntax
// metacharacters.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("produced an empty branch name")
	}

	for _, r := range name {
		if r <= ' ' || r == 0x7f {
			return fmt.Errorf(
				"produced name %q with whitespace or control characters",
				name,
			)
		}

		if strings.ContainsRune(`~^:?*[\`, r) {
			return fmt.Errorf(
				"produced name %q with character %q invalid in a git ref",
				name, r,
			)
		}
	}

	if strings.Contains(name, "..") {
		return fmt.Errorf(
			"produced name %q containing \"..\"", name,
		)
	}

	return nil
}
