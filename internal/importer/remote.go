package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"pastelsoft.com/medimap/internal/roster"
)

// RemoteParser sends raw report text to the AI-backed parsing endpoint and
// expects a JSON array of candidates back. The endpoint applies the clinic's
// section filtering (only rows from the clinic's own section of the daily
// report).
type RemoteParser struct {
	client *resty.Client
}

type remoteParseRequest struct {
	Text string `json:"text"`
}

// NewRemoteParser builds a parser client against baseURL authenticated with
// apiKey.
func NewRemoteParser(baseURL, apiKey string) *RemoteParser {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey)
	return &RemoteParser{client: client}
}

// Parse implements Parser.
func (rp *RemoteParser) Parse(ctx context.Context, raw string) ([]roster.Candidate, error) {
	var candidates []roster.Candidate
	resp, err := rp.client.R().
		SetContext(ctx).
		SetBody(remoteParseRequest{Text: raw}).
		SetResult(&candidates).
		Post("/parse")
	if err != nil {
		return nil, fmt.Errorf("remote parse request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("remote parser returned %d", resp.StatusCode())
	}

	log.Debug().
		Int("candidates", len(candidates)).
		Msg("Remote parser returned candidates")

	return candidates, nil
}

// FallbackParser tries the remote parser and falls back to the local
// heuristic on any failure. With no remote configured it goes straight to
// the heuristic.
type FallbackParser struct {
	Remote *RemoteParser
	Local  Parser
}

// Parse implements Parser.
func (fp FallbackParser) Parse(ctx context.Context, raw string) ([]roster.Candidate, error) {
	if fp.Remote == nil {
		return fp.Local.Parse(ctx, raw)
	}
	candidates, err := fp.Remote.Parse(ctx, raw)
	if err != nil {
		log.Warn().
			Err(err).
			Msg("Remote parser failed, using heuristic fallback")
		return fp.Local.Parse(ctx, raw)
	}
	return candidates, nil
}
