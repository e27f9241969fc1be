package services

import (
	"bytes"
	"codeclash/configs"
	"codeclash/internal/common"
	"codeclash/internal/logger"
	"codeclash/internal/metrics"
	"codeclash/internal/models"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	judgeStatusProcessing = 2
	// JudgeStatusAccepted is the only status that can count as a pass.
	JudgeStatusAccepted = 3

	judgeResultFields = "token,status_id,status,stdout,stderr,compile_output,time,memory"
)

// JudgeResult is one decoded entry of a batch, positionally matching the
// submitted test case.
type JudgeResult struct {
	Token         string
	StatusID      int
	Status        string
	Stdout        *string
	Stderr        *string
	CompileOutput *string
	Time          *string
	Memory        *int
}

type Judge interface {
	EvaluateBatch(ctx context.Context, sourceCode string, languageID int, testCases []models.TestCase) ([]JudgeResult, error)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Judge0Client struct {
	baseURL         string
	host            string
	apiKey          string
	httpClient      *http.Client
	pollInterval    time.Duration
	maxPollAttempts int
	sleep           SleepFunc
}

func NewJudge0Client(cfg *configs.Config, httpClient *http.Client) *Judge0Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Judge0Client{
		baseURL:         strings.TrimRight(cfg.Judge0URL, "/"),
		host:            cfg.Judge0Host,
		apiKey:          cfg.Judge0APIKey,
		httpClient:      httpClient,
		pollInterval:    cfg.JudgePollInterval,
		maxPollAttempts: cfg.JudgeMaxPollAttempts,
		sleep:           sleepContext,
	}
}

// WithSleeper replaces the wait between polls.
func (c *Judge0Client) WithSleeper(sleep SleepFunc) *Judge0Client {
	c.sleep = sleep
	return c
}

type judge0Submission struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type judge0Token struct {
	Token string `json:"token"`
}

type judge0Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type judge0Result struct {
	Token         string       `json:"token"`
	StatusID      int          `json:"status_id"`
	Status        judge0Status `json:"status"`
	Stdout        *string      `json:"stdout"`
	Stderr        *string      `json:"stderr"`
	CompileOutput *string      `json:"compile_output"`
	Time          *string      `json:"time"`
	Memory        *int         `json:"memory"`
}

// EvaluateBatch submits every test case as one batch and polls until all of
// them reach a terminal status. Partial results are never returned.
func (c *Judge0Client) EvaluateBatch(ctx context.Context, sourceCode string, languageID int, testCases []models.TestCase) ([]JudgeResult, error) {
	tokens, err := c.createBatch(ctx, sourceCode, languageID, testCases)
	if err != nil {
		metrics.JudgeErrorsTotal.WithLabelValues("submit").Inc()
		return nil, err
	}

	results, err := c.pollBatch(ctx, tokens)
	if err != nil {
		metrics.JudgeErrorsTotal.WithLabelValues("poll").Inc()
		return nil, err
	}

	return results, nil
}

func (c *Judge0Client) createBatch(ctx context.Context, sourceCode string, languageID int, testCases []models.TestCase) ([]string, error) {
	submissions := make([]judge0Submission, len(testCases))
	for i, tc := range testCases {
		submissions[i] = judge0Submission{
			SourceCode:     encode(sourceCode),
			LanguageID:     languageID,
			Stdin:          encode(tc.Input),
			ExpectedOutput: encode(tc.ExpectedOutput),
		}
	}

	body, err := json.Marshal(map[string]interface{}{"submissions": submissions})
	if err != nil {
		return nil, fmt.Errorf("failed to encode judge batch: %w", err)
	}

	var created []judge0Token
	endpoint := c.baseURL + "/submissions/batch?base64_encoded=true"
	if err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body), &created); err != nil {
		return nil, fmt.Errorf("failed to create judge batch: %w", err)
	}

	if len(created) != len(testCases) {
		return nil, fmt.Errorf("judge returned %d tokens for %d test cases: %w",
			len(created), len(testCases), common.ErrJudgeUnavailable)
	}

	tokens := make([]string, len(created))
	for i, t := range created {
		if t.Token == "" {
			return nil, fmt.Errorf("judge rejected test case %d: %w", i, common.ErrJudgeUnavailable)
		}
		tokens[i] = t.Token
	}

	return tokens, nil
}

func (c *Judge0Client) pollBatch(ctx context.Context, tokens []string) ([]JudgeResult, error) {
	query := url.Values{}
	query.Set("tokens", strings.Join(tokens, ","))
	query.Set("base64_encoded", "true")
	query.Set("fields", judgeResultFields)
	endpoint := c.baseURL + "/submissions/batch?" + query.Encode()

	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		var payload struct {
			Submissions []judge0Result `json:"submissions"`
		}
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &payload); err != nil {
			return nil, fmt.Errorf("failed to poll judge batch: %w", err)
		}

		if len(payload.Submissions) == len(tokens) && allTerminal(payload.Submissions) {
			metrics.JudgePollAttempts.Observe(float64(attempt))
			return decodeResults(payload.Submissions)
		}

		logger.Log.Debug("Judge batch still running",
			zap.Int("attempt", attempt),
			zap.Int("batch_size", len(tokens)))

		if attempt == c.maxPollAttempts {
			break
		}
		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, fmt.Errorf("judge polling cancelled: %w", err)
		}
	}

	return nil, fmt.Errorf("not all test cases finished after %d polls: %w", c.maxPollAttempts, common.ErrJudgeTimeout)
}

func (c *Judge0Client) do(ctx context.Context, method, endpoint string, body io.Reader, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
		req.Header.Set("X-RapidAPI-Host", c.host)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%v: %w", err, common.ErrJudgeUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("judge responded %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(msg)), common.ErrJudgeUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode judge response: %v: %w", err, common.ErrJudgeUnavailable)
	}
	return nil
}

func allTerminal(results []judge0Result) bool {
	for _, r := range results {
		if statusID(r) <= judgeStatusProcessing {
			return false
		}
	}
	return true
}

func statusID(r judge0Result) int {
	if r.StatusID != 0 {
		return r.StatusID
	}
	return r.Status.ID
}

func decodeResults(raw []judge0Result) ([]JudgeResult, error) {
	results := make([]JudgeResult, len(raw))
	for i, r := range raw {
		stdout, err := decode(r.Stdout)
		if err != nil {
			return nil, err
		}
		stderr, err := decode(r.Stderr)
		if err != nil {
			return nil, err
		}
		compileOutput, err := decode(r.CompileOutput)
		if err != nil {
			return nil, err
		}

		results[i] = JudgeResult{
			Token:         r.Token,
			StatusID:      statusID(r),
			Status:        r.Status.Description,
			Stdout:        stdout,
			Stderr:        stderr,
			CompileOutput: compileOutput,
			Time:          r.Time,
			Memory:        r.Memory,
		}
	}
	return results, nil
}

func encode(s string) string {
	if s == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// decode tolerates the line-wrapped base64 the judge emits.
func decode(s *string) (*string, error) {
	if s == nil {
		return nil, nil
	}
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(*s)
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 from judge: %v: %w", err, common.ErrJudgeUnavailable)
	}
	out := string(data)
	return &out, nil
}
