package command

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientSend(t *testing.T) {
	t.Run("success with full reply", func(t *testing.T) {
		var gotBody commandRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.URL.Path != DefaultCommandPath {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("unexpected content type %s", ct)
			}
			if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			json.NewEncoder(w).Encode(Reply{
				Speak:        "Opening invoices.",
				RedirectURL:  "/ar/invoices",
				NeedsConfirm: false,
			})
		}))
		defer srv.Close()

		client, err := NewClient(WithBaseURL(srv.URL))
		if err != nil {
			t.Fatalf("new client: %v", err)
		}

		reply, err := client.Send(context.Background(), "open invoices", "en-US")
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if reply.Speak != "Opening invoices." {
			t.Errorf("speak = %q", reply.Speak)
		}
		if reply.RedirectURL != "/ar/invoices" {
			t.Errorf("redirect = %q", reply.RedirectURL)
		}
		if gotBody.Text != "open invoices" || gotBody.Lang != "en-US" {
			t.Errorf("request body = %+v", gotBody)
		}
	})

	t.Run("empty text is a valid greet signal", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body commandRequest
			json.NewDecoder(r.Body).Decode(&body)
			if body.Text != "" {
				t.Errorf("expected empty text, got %q", body.Text)
			}
			json.NewEncoder(w).Encode(Reply{Speak: "Hello, how can I help?"})
		}))
		defer srv.Close()

		client, _ := NewClient(WithBaseURL(srv.URL))
		reply, err := client.Send(context.Background(), "", "en-US")
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if reply.Speak == "" {
			t.Error("expected non-empty greeting")
		}
	})

	t.Run("non-success status is a command failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error": "upstream down"}`))
		}))
		defer srv.Close()

		client, _ := NewClient(WithBaseURL(srv.URL))
		_, err := client.Send(context.Background(), "hello", "en")
		if err == nil {
			t.Fatal("expected error")
		}
		if !IsFailure(err) {
			t.Errorf("expected command failure, got %v", err)
		}
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %T", err)
		}
		if apiErr.StatusCode != http.StatusBadGateway {
			t.Errorf("status = %d", apiErr.StatusCode)
		}
		if !apiErr.IsServerError() {
			t.Error("expected server error classification")
		}
		if apiErr.Message != "upstream down" {
			t.Errorf("message = %q", apiErr.Message)
		}
	})

	t.Run("transport failure is a command failure", func(t *testing.T) {
		client, _ := NewClient(WithBaseURL("http://127.0.0.1:1"))
		_, err := client.Send(context.Background(), "hello", "en")
		if !IsFailure(err) {
			t.Errorf("expected command failure, got %v", err)
		}
	})

	t.Run("missing base URL", func(t *testing.T) {
		_, err := NewClient()
		if !errors.Is(err, ErrNoBaseURL) {
			t.Errorf("expected ErrNoBaseURL, got %v", err)
		}
	})
}

func TestClientProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != DefaultStatusPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"openai_enabled": true, "pid": 1234}`))
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL))
	status, err := client.Probe(context.Background())
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if !status.InterpreterEnabled {
		t.Error("expected interpreter enabled")
	}
}

func TestMockCommander(t *testing.T) {
	t.Run("records calls", func(t *testing.T) {
		m := NewMock()
		m.Send(context.Background(), "first", "en")
		m.Send(context.Background(), "second", "es")

		if m.CallCount() != 2 {
			t.Fatalf("expected 2 calls, got %d", m.CallCount())
		}
		last := m.LastCall()
		if last.Text != "second" || last.Lang != "es" {
			t.Errorf("last call = %+v", last)
		}
	})

	t.Run("error mock", func(t *testing.T) {
		m := WithError(ErrCommandFailed)
		_, err := m.Send(context.Background(), "x", "en")
		if !IsFailure(err) {
			t.Errorf("expected failure, got %v", err)
		}
	})
}

func TestNewClientDefaultTransport(t *testing.T) {
	c, err := NewClient(WithBaseURL("http://localhost:5000"), WithTimeout(7*time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if c.http.Timeout != 7*time.Second {
		t.Errorf("expected 7s timeout, got %v", c.http.Timeout)
	}
	if _, ok := c.http.Transport.(*http.Transport); !ok {
		t.Errorf("expected configured transport, got %T", c.http.Transport)
	}
}
