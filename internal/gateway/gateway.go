package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ThreadHandle identifies a sent email so later replies can be threaded onto
// it and the thread inspected for customer responses.
type ThreadHandle string

// ThreadMessage is one message in a tracked thread, oldest first.
type ThreadMessage struct {
	IsOutbound bool
	Timestamp  time.Time
}

type SMSGateway interface {
	Send(ctx context.Context, to, body string) error
}

type EmailGateway interface {
	Send(ctx context.Context, to, subject, htmlBody string) (ThreadHandle, error)
	SendReply(ctx context.Context, handle ThreadHandle, to, subject, htmlBody string) error
	GetThread(ctx context.Context, handle ThreadHandle) ([]ThreadMessage, error)
}

// TextGenerator rewrites outreach copy before it is frozen onto a task.
// Implementations may call an LLM; TemplateText keeps the template as-is.
type TextGenerator interface {
	Rewrite(ctx context.Context, body string) (string, error)
}

type TemplateText struct{}

func (TemplateText) Rewrite(_ context.Context, body string) (string, error) {
	return body, nil
}

// AuthError marks a gateway failure caused by bad or expired credentials.
// Callers use this classification to trip circuit breakers instead of
// retrying forever against a credential that will never work.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}
