// Package google implements the translation
// collaborator backed by the public Google web
// translate endpoint.
package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
)

// defaultBaseURL is the unauthenticated endpoint used by
// browser clients.
const defaultBaseURL = "https://translate.googleapis.com"

// Client translates text to English through the Google
// web endpoint. The zero value is ready to use.
type Client struct {
	// BaseURL overrides the endpoint, mainly for tests.
	BaseURL string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// NewClient returns a Client using the public endpoint.
func NewClient() *Client {
	return &Client{}
}

// Translate converts text from sourceLang to English.
func (c *Client) Translate(
	ctx context.Context,
	text string,
	sourceLang string,
) (string, error) {
	const errCtx = "translating text"

	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	qry := url.Values{}
	qry.Set("client", "gtx")
	qry.Set("sl", sourceLang)
	qry.Set("tl", "en")
	qry.Set("dt", "t")
	qry.Set("q", text)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		base+"/translate_a/single?"+qry.Encode(),
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf(
			"%s: unexpected status %s", errCtx, resp.Status,
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf(
			"%s: reading response: %w", errCtx, err,
		)
	}

	translated, err := decodePayload(body)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return translated, nil
}

// decodePayload extracts the translated segments from
// the nested-array payload the endpoint returns, e.g.
//
//	[[["Fix the bug","Исправить баг",null,null]],null,"ru"]
//
// Segments are concatenated in order.
func decodePayload(raw []byte) (string, error) {
	const errCtx = "decoding translate payload"

	var payload []json.RawMessage

	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if len(payload) == 0 {
		return "", fmt.Errorf("%s: empty payload", errCtx)
	}

	var segments [][]json.RawMessage

	err := json.Unmarshal(payload[0], &segments)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	var sb strings.Builder

	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}

		var part string

		if err := json.Unmarshal(seg[0], &part); err != nil {
			return "", fmt.Errorf("%s: %w", errCtx, err)
		}

		sb.WriteString(part)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf(
			"%s: no translation segments", errCtx,
		)
	}

	return sb.String(), nil
}
