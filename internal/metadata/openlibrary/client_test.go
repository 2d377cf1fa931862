package openlibrary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	client.http = server.Client()
	client.baseURL = server.URL

	return client
}

func TestByISBN(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bibkeys") != "ISBN:9788532511010" {
			t.Errorf("unexpected bibkeys: %s", r.URL.Query().Get("bibkeys"))
		}
		w.Write([]byte(`{
			"ISBN:9788532511010": {
				"title": "O Hobbit",
				"authors": [{"name": "J.R.R. Tolkien"}, {"name": "Outro Colaborador"}]
			}
		}`))
	}

	client := newTestClient(t, handler)
	rec, err := client.ByISBN(context.Background(), "9788532511010")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Title != "O Hobbit" {
		t.Errorf("expected title O Hobbit, got %q", rec.Title)
	}
	if rec.Author != "J.R.R. Tolkien, Outro Colaborador" {
		t.Errorf("expected joined authors, got %q", rec.Author)
	}
}

func TestByISBN_EmptyResponseIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.ByISBN(context.Background(), "9788532511010")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestByISBN_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.ByISBN(context.Background(), "9788532511010")
	if !errors.Is(err, ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
}
