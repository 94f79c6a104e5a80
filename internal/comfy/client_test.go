package comfy

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"easel/internal/services"
	"easel/internal/workflow"
)

func testDocument(t *testing.T) workflow.Document {
	t.Helper()
	doc := workflow.Document{}
	if err := json.Unmarshal([]byte(`{"6":{"class_type":"CLIPTextEncode","inputs":{"text":"x"}}}`), &doc); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestSubmit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prompt" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Prompt map[string]json.RawMessage `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if _, ok := payload.Prompt["6"]; !ok {
			t.Error("payload missing node 6 under prompt key")
		}
		json.NewEncoder(w).Encode(map[string]string{"prompt_id": "abc-123"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	id, err := client.Submit(context.Background(), testDocument(t))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if id != "abc-123" {
		t.Fatalf("prompt id = %q", id)
	}
}

func TestSubmitPropagatesServerBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid node 12"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Submit(context.Background(), testDocument(t))
	if !errors.Is(err, services.ErrSubmission) {
		t.Fatalf("expected submission error, got %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "invalid node 12") {
		t.Fatalf("error does not carry server body: %v", got)
	}
}

func TestWaitForHistory(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history/job-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if calls.Add(1) < 3 {
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"job-1":{"outputs":{"9":{"images":[{"filename":"out_00001_.png","subfolder":"stage"}]}}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	h, err := client.WaitForHistory(context.Background(), "job-1", time.Second, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForHistory: %v", err)
	}
	images := h.Images()
	if len(images) != 1 || images[0].Filename != "out_00001_.png" || images[0].Subfolder != "stage" {
		t.Fatalf("images = %#v", images)
	}
	if calls.Load() < 3 {
		t.Fatalf("expected at least 3 polls, got %d", calls.Load())
	}
}

func TestWaitForHistoryTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.WaitForHistory(context.Background(), "job-1", 20*time.Millisecond, 5*time.Millisecond)
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestWaitForHistoryContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	client := NewClient(server.URL, nil)
	_, err := client.WaitForHistory(ctx, "job-1", time.Minute, 5*time.Millisecond)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestHistoryPendingOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	h, err := client.History(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(h) != 0 {
		t.Fatalf("expected pending history, got %#v", h)
	}
}
