// Package monkeytype implements the MonkeytypeClient port against the
// Monkeytype ape-key API.
package monkeytype

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

const monkeytypeBaseURL = "https://api.monkeytype.com"

// Compile-time interface satisfaction check.
var _ driven.MonkeytypeClient = (*Client)(nil)

// envelope is the standard Monkeytype response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// personalBest is one record inside a time bucket. Pointers distinguish a
// missing field from a zero value.
type personalBest struct {
	WPM         *float64 `json:"wpm"`
	Acc         *float64 `json:"acc"`
	Consistency *float64 `json:"consistency"`
	Language    string   `json:"language"`
}

// Client implements driven.MonkeytypeClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a Monkeytype client whose requests are bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    monkeytypeBaseURL,
	}
}

// NewClientWithHTTPClient creates a Client against a custom base URL.
// This constructor is intended for testing with httptest servers.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// PersonalBests fetches time-mode personal bests and flattens them.
func (c *Client) PersonalBests(ctx context.Context, apeKey string) ([]model.TypingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/personalBests?mode=time", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "ApeKey "+apeKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("personal bests request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &driven.StatusError{Endpoint: "monkeytype personalBests", Status: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding personal bests: %w: %v", driven.ErrShapeMismatch, err)
	}

	return flattenPersonalBests(env.Data)
}

// flattenPersonalBests turns the bucket map into a flat record list. Buckets
// are visited in ascending numeric order; non-canonical keys and anything
// malformed are skipped.
func flattenPersonalBests(raw json.RawMessage) ([]model.TypingResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("personal bests data missing: %w", driven.ErrEmptyResult)
	}

	var buckets map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &buckets); err != nil {
		return nil, fmt.Errorf("personal bests data is not an object: %w", driven.ErrShapeMismatch)
	}

	type bucket struct {
		seconds int
		raw     json.RawMessage
	}
	ordered := make([]bucket, 0, len(buckets))
	for key, value := range buckets {
		seconds, ok := bucketSeconds(key)
		if !ok {
			slog.Debug("skipping non-numeric personal best bucket", "key", key)
			continue
		}
		ordered = append(ordered, bucket{seconds: seconds, raw: value})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].seconds < ordered[j].seconds })

	var results []model.TypingResult
	for _, b := range ordered {
		var records []json.RawMessage
		if err := json.Unmarshal(b.raw, &records); err != nil {
			slog.Debug("skipping malformed personal best bucket", "time", b.seconds, "error", err)
			continue
		}
		for _, rec := range records {
			var pb personalBest
			if err := json.Unmarshal(rec, &pb); err != nil || pb.WPM == nil {
				continue
			}
			results = append(results, model.TypingResult{
				WPM:         *pb.WPM,
				Acc:         deref(pb.Acc),
				Consistency: deref(pb.Consistency),
				Language:    pb.Language,
				Time:        b.seconds,
			})
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no personal bests recorded: %w", driven.ErrEmptyResult)
	}
	return results, nil
}

// bucketSeconds accepts only canonical array-index keys: "0" or decimal
// digits without a leading zero or sign, below 2^32-1.
func bucketSeconds(key string) (int, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	for _, r := range key {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return int(n), true
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
