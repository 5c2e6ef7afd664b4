package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookNotifier_Send(t *testing.T) {
	receivedMessage := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST request, got %s", r.Method)
		}

		var payload map[string]string
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &payload)
		receivedMessage = payload["text"]

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL)
	message := "Benchmark finished for dj38.tsp"

	if err := notifier.Send(context.Background(), message); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if receivedMessage != message {
		t.Errorf("expected message %q, got %q", message, receivedMessage)
	}
}

func TestWebhookNotifier_Send_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL)
	if err := notifier.Send(context.Background(), "test"); err == nil {
		t.Error("expected error for non-OK status code, got nil")
	}
}

func TestWebhookNotifier_Send_MissingURL(t *testing.T) {
	notifier := NewWebhookNotifier("")
	if err := notifier.Send(context.Background(), "test"); err == nil {
		t.Error("expected error for missing webhook URL, got nil")
	}
}
