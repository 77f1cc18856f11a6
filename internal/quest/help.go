package quest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/LifeXP-create/LifeXP/internal/model"
)

// HelpAction is a coaching request for a single quest.
type HelpAction string

const (
	HelpExplain HelpAction = "explain"
	HelpSteps   HelpAction = "steps"
	HelpEasier  HelpAction = "easier"
	HelpHarder  HelpAction = "harder"
)

func (a HelpAction) IsValid() bool {
	switch a {
	case HelpExplain, HelpSteps, HelpEasier, HelpHarder:
		return true
	}
	return false
}

// HelpResult is the collaborator's answer for one action. Failures surface
// as a per-action error string on ephemeral assistance state; they never
// touch quest completion.
type HelpResult struct {
	Action HelpAction `json:"action"`
	Title  string     `json:"title"`
	Area   model.Area `json:"area"`
	Text   string     `json:"text"`
	Steps  []string   `json:"steps,omitempty"`
}

// HelpClient talks to the quest-help collaborator
// (POST {base}/api/quest-help).
type HelpClient struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
}

func NewHelpClient(baseURL string) *HelpClient {
	return &HelpClient{BaseURL: baseURL, Client: &http.Client{}, Timeout: DefaultGeneratorTimeout}
}

type helpRequest struct {
	Action  HelpAction     `json:"action"`
	Quest   Proposal       `json:"quest"`
	Profile ProfileSummary `json:"profile"`
}

// Help requests assistance for a quest. The same action can simply be
// re-invoked to retry.
func (c *HelpClient) Help(ctx context.Context, action HelpAction, q model.DailyQuest, profile ProfileSummary) (HelpResult, error) {
	if !action.IsValid() {
		return HelpResult{}, fmt.Errorf("unknown help action %q", action)
	}
	if c.BaseURL == "" {
		return HelpResult{}, fmt.Errorf("quest-help base URL not configured")
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultGeneratorTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(helpRequest{
		Action:  action,
		Quest:   Proposal{Title: q.Title, Area: q.Area},
		Profile: profile,
	})
	if err != nil {
		return HelpResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/quest-help", bytes.NewReader(body))
	if err != nil {
		return HelpResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return HelpResult{}, fmt.Errorf("quest-help request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return HelpResult{}, fmt.Errorf("quest-help backend status %d", resp.StatusCode)
	}

	var out HelpResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return HelpResult{}, fmt.Errorf("decode quest-help response: %w", err)
	}
	return out, nil
}
