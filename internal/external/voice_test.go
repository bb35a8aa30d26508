package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestVoiceProvision(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{"inviteLink": "https://discord.gg/xyz"})
	}))
	defer srv.Close()

	v := NewVoiceClient(srv.URL, time.Second)
	link, err := v.Provision(context.Background(), "room_001")
	if err != nil {
		t.Fatalf("Provision: %v", err)
	}
	if link != "https://discord.gg/xyz" {
		t.Errorf("link = %q", link)
	}
	if gotPath != "/create-vc" {
		t.Errorf("path = %q, want /create-vc", gotPath)
	}
	if gotBody["sessionId"] != "room_001" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestVoiceProvisionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewVoiceClient(srv.URL, time.Second)
	if _, err := v.Provision(context.Background(), "room_001"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestVoiceTeardown(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	v := NewVoiceClient(srv.URL, time.Second)
	if err := v.Teardown(context.Background(), "room_001"); err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if gotPath != "/delete-vc" {
		t.Errorf("path = %q, want /delete-vc", gotPath)
	}
}

func TestVoiceTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	v := NewVoiceClient(srv.URL, 50*time.Millisecond)
	start := time.Now()
	_, err := v.Provision(context.Background(), "room_001")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout took %v, client timeout not applied", elapsed)
	}
}
