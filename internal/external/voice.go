package external

import (
	"context"
	"time"
)

// VoiceClient talks to the Discord helper bot that owns voice channels.
// Everything here is best-effort; a room without a voice link is still a
// perfectly good room.
type VoiceClient struct {
	baseURL string
	client  *httpClient
}

func NewVoiceClient(baseURL string, timeout time.Duration) *VoiceClient {
	return &VoiceClient{baseURL: baseURL, client: newHTTPClient(timeout)}
}

// Provision asks for a voice channel keyed by the room id and returns the
// invite link, if the bot produced one.
func (v *VoiceClient) Provision(ctx context.Context, roomID string) (string, error) {
	var resp struct {
		InviteLink string `json:"inviteLink"`
	}
	err := v.client.postJSON(ctx, v.baseURL+"/create-vc", map[string]string{"sessionId": roomID}, &resp)
	if err != nil {
		return "", err
	}
	return resp.InviteLink, nil
}

func (v *VoiceClient) Teardown(ctx context.Context, roomID string) error {
	return v.client.postJSON(ctx, v.baseURL+"/delete-vc", map[string]string{"sessionId": roomID}, nil)
}
