package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"papertrader/types"
	"testing"
	"time"
)

func TestClientAnalyze(t *testing.T) {
	var gotBody analyzeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"score": 0.73, "verdict": "balanced"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	assets := []types.AssetWeight{
		{Ticker: "AAPL", Weight: 0},
		{Ticker: "MSFT", Weight: 1},
	}
	payload, err := client.Analyze(context.Background(), assets)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(gotBody.Assets) != 2 || gotBody.Assets[1].Ticker != "MSFT" {
		t.Errorf("Analyze() sent %+v, want the two weights", gotBody.Assets)
	}

	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("Analyze() payload not JSON: %v", err)
	}
	if decoded["verdict"] != "balanced" {
		t.Errorf("Analyze() verdict = %v, want balanced", decoded["verdict"])
	}
}

func TestClientAnalyzeErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	if _, err := client.Analyze(context.Background(), nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Analyze() error = %v, want ErrUnavailable", err)
	}

	down := NewClient("http://127.0.0.1:1", 200*time.Millisecond)
	if _, err := down.Analyze(context.Background(), nil); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Analyze() error = %v, want ErrUnavailable", err)
	}
}
