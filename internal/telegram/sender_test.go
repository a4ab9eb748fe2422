package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	tgbot "github.com/go-telegram/bot"
)

func TestClassifySendErrorNil(t *testing.T) {
	if got := ClassifySendError(nil); got != nil {
		t.Fatalf("expected nil for nil error, got %+v", got)
	}
}

func TestClassifySendErrorKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want SendErrorKind
	}{
		{"unauthorized", fmt.Errorf("sendMessage: %w", tgbot.ErrorUnauthorized), SendUnauthorized},
		{"forbidden maps to unauthorized", fmt.Errorf("sendMessage: %w", tgbot.ErrorForbidden), SendUnauthorized},
		{"bad request", fmt.Errorf("sendMessage: %w", tgbot.ErrorBadRequest), SendBadRequest},
		{"deadline", context.DeadlineExceeded, SendTimedOut},
		{"net error", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, SendNetworkError},
		{"unknown", errors.New("something else"), SendOther},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifySendError(tc.err)
			if got == nil {
				t.Fatal("expected a SendError")
			}
			if got.Kind != tc.want {
				t.Fatalf("kind = %s, want %s", got.Kind, tc.want)
			}
			if !errors.Is(got, tc.err) && got.Err != tc.err {
				t.Fatalf("classified error must wrap the cause")
			}
		})
	}
}

func TestClassifySendErrorChatMigrated(t *testing.T) {
	cause := &tgbot.MigrateError{Message: "group upgraded", MigrateToChatID: 4242}
	got := ClassifySendError(fmt.Errorf("sendMessage: %w", cause))
	if got == nil || got.Kind != SendChatMigrated {
		t.Fatalf("expected chat_migrated, got %+v", got)
	}
	if got.MigratedTo != 4242 {
		t.Fatalf("MigratedTo = %d, want 4242", got.MigratedTo)
	}
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New("  ", nil); err == nil {
		t.Fatal("expected error for empty token")
	}
}
