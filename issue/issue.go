// Package issue defines the canonical in-memory
// representation of a tracker ticket.
package issue

import (
	"context"
	"strings"

	"github.com/byte4ever/issueops/translate"
)

// DefaultType is the generic issue kind used when a
// tracker does not report one.
const DefaultType = "issue"

// Issue is a normalized ticket record fetched from an
// external tracker. It lives for a single invocation.
type Issue struct {
	// ID is the tracker-native identifier, numeric or
	// alphanumeric key, kept exactly as given.
	ID string

	// Title is the raw human-authored title, in any
	// script or language.
	Title string

	// Assignee is an optional identity string. Empty is
	// a valid, meaningful state, not an error.
	Assignee string

	// Type is the issue category tag.
	Type string

	// Translate controls whether Title is translated
	// before sanitization. Set once from configuration
	// after the issue is loaded.
	Translate bool
}

// New returns an Issue with the default type and
// translation enabled.
func New(id, title, assignee string) *Issue {
	return &Issue{
		ID:        id,
		Title:     title,
		Assignee:  assignee,
		Type:      DefaultType,
		Translate: true,
	}
}

// SanitizedTitle returns the title as a slug, translated
// first when the Translate flag is set. The value is
// recomputed on every call so a later flip of the flag
// is honored.
func (i *Issue) SanitizedTitle(
	ctx context.Context,
	gate *translate.Gate,
) string {
	title := i.Title
	if i.Translate {
		title = gate.AutoTranslateIfNeeded(ctx, title)
	}

	return Slugify(title)
}

// Slugify converts free text to a lowercase,
// hyphen-separated, ASCII-only identifier. Runs of
// characters outside [a-z0-9] collapse into a single
// hyphen, and the result carries no leading or trailing
// hyphen.
func Slugify(text string) string {
	var sb strings.Builder

	pendingHyphen := false

	for _, r := range strings.ToLower(text) {
		isAlnum := (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9')

		if !isAlnum {
			pendingHyphen = sb.Len() > 0

			continue
		}

		if pendingHyphen {
			sb.WriteByte('-')

			pendingHyphen = false
		}

		sb.WriteRune(r)
	}

	return sb.String()
}
