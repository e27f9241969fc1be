package services

import (
	"codeclash/configs"
	"codeclash/internal/common"
	"codeclash/internal/models"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJudgeServer struct {
	t        *testing.T
	polls    atomic.Int32
	statuses func(poll int) []int
	stdout   string
	apiKey   string
}

func (s *fakeJudgeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.apiKey != "" {
		assert.Equal(s.t, s.apiKey, r.Header.Get("X-RapidAPI-Key"))
	}
	assert.Equal(s.t, "/submissions/batch", r.URL.Path)
	assert.Equal(s.t, "true", r.URL.Query().Get("base64_encoded"))

	switch r.Method {
	case http.MethodPost:
		var body struct {
			Submissions []judge0Submission `json:"submissions"`
		}
		if !assert.NoError(s.t, json.NewDecoder(r.Body).Decode(&body)) || len(body.Submissions) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		source, err := base64.StdEncoding.DecodeString(body.Submissions[0].SourceCode)
		assert.NoError(s.t, err)
		assert.Equal(s.t, "print(input())", string(source))

		tokens := make([]judge0Token, len(body.Submissions))
		for i := range tokens {
			tokens[i] = judge0Token{Token: "tok-" + string(rune('a'+i))}
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(tokens)

	case http.MethodGet:
		poll := int(s.polls.Add(1))
		tokens := strings.Split(r.URL.Query().Get("tokens"), ",")
		statuses := s.statuses(poll)

		results := make([]map[string]interface{}, len(tokens))
		for i, token := range tokens {
			result := map[string]interface{}{
				"token":     token,
				"status_id": statuses[i],
				"status":    map[string]interface{}{"id": statuses[i], "description": "Accepted"},
				"stdout":    nil,
				"time":      "0.02",
				"memory":    1024,
			}
			if s.stdout != "" {
				// The judge line-wraps long base64 payloads.
				encoded := base64.StdEncoding.EncodeToString([]byte(s.stdout))
				result["stdout"] = encoded[:4] + "\n" + encoded[4:]
			}
			results[i] = result
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"submissions": results})
	}
}

func newTestJudge(t *testing.T, handler http.Handler) (*Judge0Client, *[]time.Duration) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &configs.Config{
		Judge0URL:            srv.URL + "/",
		Judge0Host:           "judge.test",
		Judge0APIKey:         "key-123",
		JudgePollInterval:    2 * time.Second,
		JudgeMaxPollAttempts: 15,
	}

	var sleeps []time.Duration
	client := NewJudge0Client(cfg, srv.Client()).WithSleeper(func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	})
	return client, &sleeps
}

var judgeTestCases = []models.TestCase{
	{ID: 1, Input: "hello", ExpectedOutput: "hello"},
	{ID: 2, Input: "world", ExpectedOutput: "world"},
}

func TestEvaluateBatch_PollsUntilTerminal(t *testing.T) {
	server := &fakeJudgeServer{
		t:      t,
		apiKey: "key-123",
		stdout: "hello world\n",
		statuses: func(poll int) []int {
			if poll < 3 {
				return []int{3, 2}
			}
			return []int{3, 4}
		},
	}
	client, sleeps := newTestJudge(t, server)

	results, err := client.EvaluateBatch(context.Background(), "print(input())", 71, judgeTestCases)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, int32(3), server.polls.Load())
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *sleeps)

	assert.Equal(t, "tok-a", results[0].Token)
	assert.Equal(t, JudgeStatusAccepted, results[0].StatusID)
	assert.Equal(t, 4, results[1].StatusID)
	require.NotNil(t, results[0].Stdout)
	assert.Equal(t, "hello world\n", *results[0].Stdout)
	assert.Equal(t, 1024, *results[0].Memory)
}

func TestEvaluateBatch_TimesOutAfterMaxPolls(t *testing.T) {
	server := &fakeJudgeServer{
		t:        t,
		stdout:   "",
		statuses: func(int) []int { return []int{1, 2} },
	}
	client, sleeps := newTestJudge(t, server)

	_, err := client.EvaluateBatch(context.Background(), "print(input())", 71, judgeTestCases)

	assert.ErrorIs(t, err, common.ErrJudgeTimeout)
	assert.Equal(t, int32(15), server.polls.Load())
	assert.Len(t, *sleeps, 14)
}

func TestEvaluateBatch_Non2xx(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})
	client, _ := newTestJudge(t, handler)

	_, err := client.EvaluateBatch(context.Background(), "print(input())", 71, judgeTestCases)

	assert.ErrorIs(t, err, common.ErrJudgeUnavailable)
	assert.Contains(t, err.Error(), "429")
}

func TestEvaluateBatch_TokenCountMismatch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]judge0Token{{Token: "only-one"}})
	})
	client, _ := newTestJudge(t, handler)

	_, err := client.EvaluateBatch(context.Background(), "print(input())", 71, judgeTestCases)
	assert.ErrorIs(t, err, common.ErrJudgeUnavailable)
}

func TestEvaluateBatch_ContextCancelled(t *testing.T) {
	server := &fakeJudgeServer{
		t:        t,
		statuses: func(int) []int { return []int{1, 1} },
	}
	srv := httptest.NewServer(server)
	t.Cleanup(srv.Close)

	cfg := &configs.Config{Judge0URL: srv.URL, JudgePollInterval: time.Second, JudgeMaxPollAttempts: 15}
	ctx, cancel := context.WithCancel(context.Background())
	client := NewJudge0Client(cfg, srv.Client()).WithSleeper(func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	})

	_, err := client.EvaluateBatch(ctx, "print(input())", 71, judgeTestCases)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), server.polls.Load())
}

func TestDecode(t *testing.T) {
	out, err := decode(strPtr("aGVs\nbG8=\n"))
	require.NoError(t, err)
	assert.Equal(t, "hello", *out)

	out, err = decode(nil)
	require.NoError(t, err)
	assert.Nil(t, out)

	_, err = decode(strPtr("***"))
	assert.ErrorIs(t, err, common.ErrJudgeUnavailable)
}
