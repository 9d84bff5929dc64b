package monkeytype_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtAdapter "github.com/andrespaulino/livestats/internal/adapter/driven/monkeytype"
	"github.com/andrespaulino/livestats/internal/application"
	"github.com/andrespaulino/livestats/internal/domain/model"
	"github.com/andrespaulino/livestats/internal/domain/port/driven"
)

func newTestClient(t *testing.T, body string, status int) *mtAdapter.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/personalBests", r.URL.Path)
		assert.Equal(t, "time", r.URL.Query().Get("mode"))
		assert.Equal(t, "ApeKey key-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return mtAdapter.NewClientWithHTTPClient(server.Client(), server.URL)
}

func TestPersonalBests_FlattensInNumericOrder(t *testing.T) {
	body := `{"message":"ok","data":{
		"60":[{"wpm":110.2,"acc":97.6,"consistency":80.5,"language":"english"}],
		"15":[{"wpm":120,"acc":95,"consistency":70,"language":"english"}],
		"120":[{"wpm":100,"acc":99,"consistency":85,"language":"english_1k"}]
	}}`
	client := newTestClient(t, body, http.StatusOK)

	results, err := client.PersonalBests(context.Background(), "key-123")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 15, results[0].Time)
	assert.Equal(t, 60, results[1].Time)
	assert.Equal(t, 120, results[2].Time)
	assert.InDelta(t, 110.2, results[1].WPM, 0.0001)
	assert.Equal(t, "english_1k", results[2].Language)
}

func TestPersonalBests_SkipsMalformedEntries(t *testing.T) {
	body := `{"data":{
		"abc":[{"wpm":300}],
		"15":"not a list",
		"30":[{"acc":99}, "oops", null, {"wpm":"fast"}],
		"60":[{"wpm":95,"acc":96,"consistency":77,"language":"english"}]
	}}`
	client := newTestClient(t, body, http.StatusOK)

	results, err := client.PersonalBests(context.Background(), "key-123")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 60, results[0].Time)
	assert.InDelta(t, 95.0, results[0].WPM, 0.0001)
}

func TestPersonalBests_EmptyResults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "missing data", body: `{"message":"ok"}`},
		{name: "null data", body: `{"data":null}`},
		{name: "empty object", body: `{"data":{}}`},
		{name: "only malformed buckets", body: `{"data":{"15":[{"acc":90}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.body, http.StatusOK)

			_, err := client.PersonalBests(context.Background(), "key-123")

			require.ErrorIs(t, err, driven.ErrEmptyResult)
		})
	}
}

func TestPersonalBests_NonObjectData(t *testing.T) {
	client := newTestClient(t, `{"data":[1,2,3]}`, http.StatusOK)

	_, err := client.PersonalBests(context.Background(), "key-123")

	require.ErrorIs(t, err, driven.ErrShapeMismatch)
}

func TestPersonalBests_MalformedBody(t *testing.T) {
	client := newTestClient(t, `not json`, http.StatusOK)

	_, err := client.PersonalBests(context.Background(), "key-123")

	require.ErrorIs(t, err, driven.ErrShapeMismatch)
}

func TestPersonalBests_Unauthorized(t *testing.T) {
	client := newTestClient(t, `{"message":"Invalid ApeKey"}`, http.StatusUnauthorized)

	_, err := client.PersonalBests(context.Background(), "key-123")

	var statusErr *driven.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
}

func TestPersonalBests_SkipsNonCanonicalKeys(t *testing.T) {
	body := `{"data":{
		"015":[{"wpm":100,"acc":90,"consistency":70,"language":"leading_zero"}],
		"+15":[{"wpm":100,"acc":90,"consistency":70,"language":"plus_sign"}],
		"-1":[{"wpm":100,"acc":90,"consistency":70,"language":"negative"}],
		"4294967295":[{"wpm":100,"acc":90,"consistency":70,"language":"too_large"}],
		"30":[{"wpm":100,"acc":96,"consistency":78,"language":"english"}]
	}}`
	client := newTestClient(t, body, http.StatusOK)

	results, err := client.PersonalBests(context.Background(), "key-123")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 30, results[0].Time)
	assert.Equal(t, "english", results[0].Language)
}

func TestPersonalBests_ZeroBucketIsCanonical(t *testing.T) {
	body := `{"data":{
		"15":[{"wpm":90,"language":"english"}],
		"0":[{"wpm":80,"language":"english"}]
	}}`
	client := newTestClient(t, body, http.StatusOK)

	results, err := client.PersonalBests(context.Background(), "key-123")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Time)
	assert.Equal(t, 15, results[1].Time)
}

func TestPersonalBests_HungUpstreamTimesOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)
	client := mtAdapter.NewClientWithHTTPClient(&http.Client{Timeout: 200 * time.Millisecond}, server.URL)

	start := time.Now()
	_, err := client.PersonalBests(context.Background(), "key-123")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, time.Second)

	creds := application.NewCredentialResolver(nil, map[string]string{
		application.CredentialKey(model.ServiceMonkeytype, model.KeyApeKey): "key-123",
	})
	svc := application.NewTypingService(client, creds, nil)

	start = time.Now()
	got := svc.Best(context.Background())

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, application.FallbackTyping(), got)
}
