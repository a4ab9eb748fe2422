package telegram

import (
	"context"
	"errors"
	"fmt"
	"net"

	tgbot "github.com/go-telegram/bot"
)

// Sender delivers rendered messages to a chat or channel.
type Sender interface {
	SendMarkdown(ctx context.Context, chatID string, text string) *SendError
}

// SendErrorKind tags the delivery failure categories the dispatcher matches on.
type SendErrorKind int

const (
	SendOther SendErrorKind = iota
	SendUnauthorized
	SendBadRequest
	SendTimedOut
	SendNetworkError
	SendChatMigrated
)

func (k SendErrorKind) String() string {
	switch k {
	case SendUnauthorized:
		return "unauthorized"
	case SendBadRequest:
		return "bad_request"
	case SendTimedOut:
		return "timed_out"
	case SendNetworkError:
		return "network_error"
	case SendChatMigrated:
		return "chat_migrated"
	default:
		return "other"
	}
}

// SendError is the tagged result of a failed send. MigratedTo is set only for
// SendChatMigrated.
type SendError struct {
	Kind       SendErrorKind
	MigratedTo int64
	Err        error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send %s: %v", e.Kind, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// ClassifySendError maps a Bot API or transport error onto a SendError
// variant. Returns nil for a nil error.
func ClassifySendError(err error) *SendError {
	if err == nil {
		return nil
	}

	var migrate *tgbot.MigrateError
	if errors.As(err, &migrate) {
		return &SendError{Kind: SendChatMigrated, MigratedTo: int64(migrate.MigrateToChatID), Err: err}
	}
	if errors.Is(err, tgbot.ErrorUnauthorized) || errors.Is(err, tgbot.ErrorForbidden) {
		return &SendError{Kind: SendUnauthorized, Err: err}
	}
	if errors.Is(err, tgbot.ErrorBadRequest) {
		return &SendError{Kind: SendBadRequest, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &SendError{Kind: SendTimedOut, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &SendError{Kind: SendTimedOut, Err: err}
		}
		return &SendError{Kind: SendNetworkError, Err: err}
	}

	return &SendError{Kind: SendOther, Err: err}
}
