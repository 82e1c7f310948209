package reqctx_test

import (
	"context"
	"testing"

	"github.com/ErlanBelekov/shiptrack/internal/reqctx"
	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	if got := reqctx.RequestID(context.Background()); got != "" {
		t.Errorf("empty context: got %q", got)
	}

	id := reqctx.NewRequestID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("NewRequestID() = %q, not a uuid: %v", id, err)
	}

	ctx := reqctx.WithRequestID(context.Background(), id)
	if got := reqctx.RequestID(ctx); got != id {
		t.Errorf("got %q, want %q", got, id)
	}
}

func TestUserID(t *testing.T) {
	ctx := reqctx.WithUserID(context.Background(), "user-1")
	if got := reqctx.UserID(ctx); got != "user-1" {
		t.Errorf("got %q, want user-1", got)
	}
	if got := reqctx.RequestID(ctx); got != "" {
		t.Errorf("user id leaked into request id: %q", got)
	}
}
