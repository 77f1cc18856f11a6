package quest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultGeneratorTimeout bounds a single generator fetch. Expiry is treated
// like any other collaborator failure.
const DefaultGeneratorTimeout = 10 * time.Second

// HTTPGenerator fetches daily quest content from the external generator
// service (POST {base}/api/daily-quests).
type HTTPGenerator struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewHTTPGenerator(baseURL string) *HTTPGenerator {
	return &HTTPGenerator{
		BaseURL: baseURL,
		Client:  &http.Client{},
		Timeout: DefaultGeneratorTimeout,
	}
}

type generatorResponse struct {
	DateISO string `json:"dateISO"`
	Quests  []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Area  string `json:"area"`
	} `json:"quests"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, req Request) ([]Proposal, error) {
	if g.BaseURL == "" {
		return nil, fmt.Errorf("generator base URL not configured")
	}

	timeout := g.Timeout
	if timeout <= 0 {
		timeout = DefaultGeneratorTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/api/daily-quests", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("daily-quests request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("daily-quests backend status %d", resp.StatusCode)
	}

	var out generatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode daily-quests response: %w", err)
	}

	proposals := make([]Proposal, 0, len(out.Quests))
	for _, q := range out.Quests {
		proposals = append(proposals, Proposal{Title: q.Title, Area: toArea(q.Area)})
	}
	if err := ValidateProposals(proposals); err != nil {
		return nil, err
	}
	return proposals, nil
}
