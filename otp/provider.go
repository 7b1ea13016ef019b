//go:build !devotp

package otp

import (
	"context"

	"stay-booking/utils"
)

const mockBuild = false

// NewProvider returns the production provider. No SMS gateway is integrated yet, so sending fails.
func NewProvider() Provider { return unavailable{} }

type unavailable struct{}

func (unavailable) Generate() (string, error) { return utils.GenerateNumericCode(6) }

func (unavailable) Send(context.Context, string, string) error { return ErrProviderUnavailable }
