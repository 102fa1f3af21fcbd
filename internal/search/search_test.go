package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestBuildQuery(t *testing.T) {
	if got := BuildQuery("rain thunderstorm"); got != "rain thunderstorm ambience" {
		t.Fatalf("BuildQuery = %q", got)
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 503}, true},
		{"bad request", &googleapi.Error{Code: 400}, false},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"network error", fmt.Errorf("connection reset"), true},
		{"context cancelled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"wrapped api error", fmt.Errorf("call failed: %w", &googleapi.Error{Code: 500}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Fatalf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNewYouTubeClientRequiresAPIKey(t *testing.T) {
	_, err := NewYouTubeClient(context.Background(), YouTubeConfig{})
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestMockServiceSequentialResults(t *testing.T) {
	svc := NewMockService(
		nil,
		[]Video{{ID: "a"}, {ID: "b"}},
	)

	first, err := svc.Search(context.Background(), "query one", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("expected empty first result, got %d", len(first))
	}

	second, err := svc.Search(context.Background(), "query two", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(second) != 2 || second[0].ID != "a" {
		t.Fatalf("unexpected second result %v", second)
	}

	// Exhausted result sets repeat the last entry.
	third, _ := svc.Search(context.Background(), "query three", 1)
	if len(third) != 1 {
		t.Fatalf("expected maxResults cap, got %d", len(third))
	}

	if svc.RequestCount() != 3 {
		t.Fatalf("expected 3 requests, got %d", svc.RequestCount())
	}
	queries := svc.Queries()
	if len(queries) != 3 || queries[0] != "query one" {
		t.Fatalf("unexpected queries %v", queries)
	}
}

func TestMockServiceFailure(t *testing.T) {
	svc := &MockService{ShouldFail: true}
	_, err := svc.Search(context.Background(), "anything", 5)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, context.Canceled) {
		t.Fatal("unexpected error kind")
	}
}
