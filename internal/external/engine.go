package external

import (
	"context"
	"fmt"
	"time"
)

// EngineClient delegates rep scoring to the external live engine. A room
// whose engine session never materialized simply plays without scoring.
type EngineClient struct {
	baseURL string
	client  *httpClient
}

func NewEngineClient(baseURL string, timeout time.Duration) *EngineClient {
	return &EngineClient{baseURL: baseURL, client: newHTTPClient(timeout)}
}

func (e *EngineClient) CreateSession(ctx context.Context, mode, exercise string) (string, error) {
	if exercise == "" {
		exercise = "pushups"
	}
	var resp struct {
		SessionID string `json:"sessionId"`
		Success   *bool  `json:"success"`
	}
	err := e.client.postJSON(ctx, e.baseURL+"/rooms/create", map[string]string{
		"gameMode":     mode,
		"exerciseName": exercise,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Success != nil && !*resp.Success {
		return "", fmt.Errorf("engine refused session for mode %q", mode)
	}
	return resp.SessionID, nil
}

func (e *EngineClient) EndSession(ctx context.Context, sessionID string) error {
	var resp struct {
		Success *bool `json:"success"`
	}
	err := e.client.postJSON(ctx, e.baseURL+"/rooms/"+sessionID+"/end", map[string]string{}, &resp)
	if err != nil {
		return err
	}
	if resp.Success != nil && !*resp.Success {
		return fmt.Errorf("engine refused to end session %s", sessionID)
	}
	return nil
}
