//go:build devotp

package otp

import (
	"context"

	"go.uber.org/zap"

	"stay-booking/logger"
	"stay-booking/utils"
)

const (
	mockBuild = true
	MockCode  = "123456"
)

// NewProvider returns the development provider: every code is MockCode and nothing is sent.
func NewProvider() Provider { return mock{} }

type mock struct{}

func (mock) Generate() (string, error) { return MockCode, nil }

func (mock) Send(_ context.Context, phone, _ string) error {
	logger.L().Warn("dev OTP issued, no SMS sent", zap.String("phone", utils.MaskPhone(phone)))
	return nil
}
