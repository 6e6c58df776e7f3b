package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/imagemodify/imagemodify/internal/models"
)

// AutomationTrigger starts batch runs on the automation service.
type AutomationTrigger interface {
	Trigger(ctx context.Context, apiKey string) error
	TriggerDynamic(ctx context.Context, apiKey, sheetID, sheetName string) error
}

// AutomationClient calls the automation service over HTTP, authenticating
// with the user's per-account API key.
type AutomationClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAutomationClient(baseURL string, timeout time.Duration) *AutomationClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AutomationClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Trigger starts a static-mode run.
func (c *AutomationClient) Trigger(ctx context.Context, apiKey string) error {
	return c.post(ctx, "/run", apiKey, nil)
}

// TriggerDynamic starts a run against a caller-supplied sheet.
func (c *AutomationClient) TriggerDynamic(ctx context.Context, apiKey, sheetID, sheetName string) error {
	return c.post(ctx, "/run-dynamic", apiKey, &models.DynamicRunRequest{
		SheetID:   sheetID,
		SheetName: sheetName,
	})
}

func (c *AutomationClient) post(ctx context.Context, path, apiKey string, body any) error {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &reqBody)
	if err != nil {
		return fmt.Errorf("build automation request: %w", err)
	}
	req.Header.Set("x-api-key", apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call automation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("automation service returned status %d", resp.StatusCode)
	}
	return nil
}
