package httpc

import (
	"net/http"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	c := NewClient(5 * time.Second)

	if c.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", c.Timeout)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("expected *http.Transport, got %T", c.Transport)
	}
	if tr.IdleConnTimeout != DefaultIdleConnTimeout {
		t.Errorf("expected idle conn timeout %v, got %v", DefaultIdleConnTimeout, tr.IdleConnTimeout)
	}
}

func TestSharedClientHasTimeout(t *testing.T) {
	if Client.Timeout != DefaultTimeout {
		t.Errorf("expected shared client timeout %v, got %v", DefaultTimeout, Client.Timeout)
	}
	if Client.Transport == nil {
		t.Error("shared client has no transport configured")
	}
}
