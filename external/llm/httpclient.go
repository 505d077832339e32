package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"

	"github.com/brackenfield/matchstate/internal/domain/softstate"
	"github.com/brackenfield/matchstate/internal/domain/world"
	"github.com/brackenfield/matchstate/internal/platform/logging"
	"github.com/brackenfield/matchstate/internal/platform/resilience"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ErrCollaboratorUnavailable wraps every terminal failure Propose can
// return, so usecase callers can treat a down collaborator the same way
// regardless of provider (timeout, breaker open, non-2xx, bad JSON).
var ErrCollaboratorUnavailable = errors.New("llm: soft-state collaborator unavailable")

// ClientConfig configures the HTTP-backed collaborator.
type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Model          string
	Temperature    float64
	MaxTokens      int
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// HTTPClient is the net/http-backed Client implementation: one chat-style
// completion request per Propose call, decoded into a proposal batch.
type HTTPClient struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	model          string
	temperature    float64
	maxTokens      int
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewHTTPClient(cfg ClientConfig) *HTTPClient {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &HTTPClient{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          cfg.Model,
		temperature:    cfg.Temperature,
		maxTokens:      cfg.MaxTokens,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type completionRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Proposals []wireProposal `json:"proposals"`
}

type wireProposal struct {
	TargetKind string  `json:"target_kind"`
	TargetID   string  `json:"target_id"`
	Field      string  `json:"field"`
	Value      float64 `json:"value"`
}

// Propose sends the world snapshot as prompt context and decodes the
// provider's response into a proposal batch. Any transport, circuit, or
// decode failure is wrapped in ErrCollaboratorUnavailable: the caller
// (orchestrator) treats a collaborator outage as "no proposals this
// matchday", never as a fatal error.
func (c *HTTPClient) Propose(ctx context.Context, snapshot *world.World, mctx MatchdayContext) ([]softstate.Proposal, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "llm circuit breaker rejected request", "state", c.breaker.State())
			return nil, errors.Wrap(ErrCollaboratorUnavailable, "circuit open")
		}
	}

	prompt := buildPrompt(snapshot, mctx)
	reqBody := completionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []message{
			{Role: "system", Content: "You adjust soft-state attributes for a simulated football league."},
			{Role: "user", Content: prompt},
		},
	}

	key := fmt.Sprintf("%s:%s:%d:%s", mctx.LeagueID, mctx.Phase, mctx.Matchday, snapshot.CurrentDate.Format(time.RFC3339))
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, reqBody)
		if c.circuitEnabled {
			if reqErr != nil {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, errors.Wrap(ErrCollaboratorUnavailable, err.Error())
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, errors.Wrap(ErrCollaboratorUnavailable, "unexpected response payload type")
	}

	var parsed completionResponse
	if err := jsoniter.Unmarshal(raw, &parsed); err != nil {
		return nil, errors.Wrap(ErrCollaboratorUnavailable, "decode collaborator payload: "+err.Error())
	}

	proposals := make([]softstate.Proposal, 0, len(parsed.Proposals))
	for _, wp := range parsed.Proposals {
		proposals = append(proposals, softstate.Proposal{
			Target: softstate.Target{Kind: softstate.TargetKind(wp.TargetKind), ID: wp.TargetID},
			Field:  wp.Field,
			Value:  wp.Value,
			Phase:  mctx.Phase,
		})
	}
	return proposals, nil
}

func (c *HTTPClient) executeRequest(ctx context.Context, body completionRequest) ([]byte, error) {
	payload, err := jsoniter.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("content-type", "application/json")
		req.Header.Set("authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("collaborator returned status %d", resp.StatusCode)
			continue
		}
		return raw, nil
	}
	return nil, lastErr
}

func buildPrompt(snapshot *world.World, mctx MatchdayContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "league=%s matchday=%d phase=%s season=%d\n", mctx.LeagueID, mctx.Matchday, mctx.Phase, snapshot.Season)
	if league, ok := snapshot.Leagues[mctx.LeagueID]; ok {
		fmt.Fprintf(&b, "teams=%d\n", len(league.TeamIDs))
	}
	for _, matchID := range mctx.MatchIDs {
		if m, ok := snapshot.Matches[matchID]; ok {
			fmt.Fprintf(&b, "match %s: %s %d-%d %s\n", m.ID, m.HomeTeamID, m.HomeScore, m.AwayScore, m.AwayTeamID)
		}
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
