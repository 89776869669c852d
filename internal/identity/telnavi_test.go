package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/callwatch/internal/models"
)

func TestTelnaviStrategy_Search(t *testing.T) {
	t.Run("Registered name is extracted from the page title", func(t *testing.T) {
		var gotPath, gotAgent string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotAgent = r.Header.Get("User-Agent")
			fmt.Fprint(w, `<html><head><title>電話番号0312345678は〇〇株式会社</title></head><body></body></html>`)
		}))
		defer server.Close()

		strategy := NewTelnaviStrategy()
		strategy.baseURL = server.URL

		result, err := strategy.Search(context.Background(), "0312345678")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if gotPath != "/phone/0312345678" {
			t.Errorf("Unexpected request path: %s", gotPath)
		}
		if gotAgent == "" || gotAgent == "Go-http-client/1.1" {
			t.Errorf("Expected a browser user agent, got %q", gotAgent)
		}
		if result == nil {
			t.Fatal("Expected a hit")
		}
		if result.Name != "〇〇株式会社" {
			t.Errorf("Unexpected name: %s", result.Name)
		}
		if result.Kind != models.IdentityName {
			t.Errorf("Expected name identity, got %s", result.Kind)
		}
	})

	t.Run("Non-200 response is a miss not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		strategy := NewTelnaviStrategy()
		strategy.baseURL = server.URL

		result, err := strategy.Search(context.Background(), "0312345678")
		if err != nil {
			t.Fatalf("Expected miss, got error: %v", err)
		}
		if result != nil {
			t.Errorf("Expected miss, got %+v", result)
		}
	})

	t.Run("Unrelated page title is a miss", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><head><title>電話帳ナビ</title></head><body></body></html>`)
		}))
		defer server.Close()

		strategy := NewTelnaviStrategy()
		strategy.baseURL = server.URL

		result, err := strategy.Search(context.Background(), "0312345678")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result != nil {
			t.Errorf("Expected miss, got %+v", result)
		}
	})
}
