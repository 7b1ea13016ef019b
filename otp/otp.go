// Package otp produces and delivers one-time phone verification codes.
package otp

import (
	"context"
	"errors"
)

var ErrProviderUnavailable = errors.New("sms provider not available")

type Provider interface {
	Generate() (string, error)
	Send(ctx context.Context, phone, code string) error
}

// Mock reports whether this build carries the fixed-code development provider.
func Mock() bool { return mockBuild }
