// Package translate decides whether free text needs
// machine translation before it is used in identifiers
// or merge request text, and applies it best-effort.
package translate

import (
	"context"
	"log/slog"
	"strings"
	"unicode"
)

// defaultSourceLang is used when the gate has no
// explicit source language configured.
const defaultSourceLang = "ru"

// Translator converts text from a source language to
// English. Implementations live outside this package
// (see translate/google).
type Translator interface {
	Translate(
		ctx context.Context,
		text string,
		sourceLang string,
	) (string, error)
}

// NeedsTranslation reports whether text contains at
// least one Cyrillic code point.
func NeedsTranslation(text string) bool {
	return strings.ContainsFunc(text, func(r rune) bool {
		return unicode.Is(unicode.Cyrillic, r)
	})
}

// Gate applies translation to text that needs it. A
// translator failure never propagates: the original
// text is kept and a warning is logged, so branch and
// merge request creation are never blocked on
// translation.
type Gate struct {
	// Translator performs the actual translation. May
	// be nil when translation is unavailable.
	Translator Translator

	// SourceLang is the language code handed to the
	// translator (defaults to "ru").
	SourceLang string
}

// Translate converts text to English. Blank input is
// returned unchanged. On any translator failure the
// original text is returned.
func (g *Gate) Translate(
	ctx context.Context,
	text string,
) string {
	if g == nil || strings.TrimSpace(text) == "" {
		return text
	}

	if g.Translator == nil {
		slog.Warn(
			"no translator available, using original text",
		)

		return text
	}

	translated, err := g.Translator.Translate(
		ctx, text, g.sourceLang(),
	)
	if err != nil {
		slog.Warn(
			"translation failed, using original text",
			"error", err,
		)

		return text
	}

	slog.Debug(
		"translated text",
		"from", text,
		"to", translated,
	)

	return translated
}

// AutoTranslateIfNeeded translates text only when it
// contains Cyrillic characters. Empty input is returned
// unchanged and already-English text is never sent to
// the translator, so the call is idempotent.
func (g *Gate) AutoTranslateIfNeeded(
	ctx context.Context,
	text string,
) string {
	if text == "" {
		return text
	}

	if !NeedsTranslation(text) {
		return text
	}

	slog.Info(
		"detected cyrillic text, translating",
		"text", text,
	)

	return g.Translate(ctx, text)
}

// sourceLang returns the configured source language,
// falling back to the default.
func (g *Gate) sourceLang() string {
	if g.SourceLang == "" {
		return defaultSourceLang
	}

	return g.SourceLang
}
