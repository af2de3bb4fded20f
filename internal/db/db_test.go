package db

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

func TestConnectRejectsMalformedDSN(t *testing.T) {
	_, err := Connect(context.Background(), "://not-a-dsn", 4, zerolog.Nop())
	if err == nil {
		t.Fatalf("expected an error for a malformed DSN")
	}
}
