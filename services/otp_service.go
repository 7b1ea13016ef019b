package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"stay-booking/kvstore"
	"stay-booking/logger"
	"stay-booking/otp"
	"stay-booking/utils"
)

type otpRecord struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type OTPService struct {
	Store       kvstore.Store
	Provider    otp.Provider
	TTL         time.Duration
	MaxAttempts int
	Now         func() time.Time
}

func NewOTPService(store kvstore.Store, provider otp.Provider, ttl time.Duration, maxAttempts int) *OTPService {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &OTPService{Store: store, Provider: provider, TTL: ttl, MaxAttempts: maxAttempts, Now: time.Now}
}

func otpKey(phone string) string      { return "otp:" + phone }
func attemptsKey(phone string) string { return "otp_attempts:" + phone }

func normalizePhone(phone string) (string, error) {
	p := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	digits := strings.TrimPrefix(p, "+")
	if len(digits) < 6 || len(digits) > 15 {
		return "", ValidationError{Field: "phone", Msg: "invalid phone number"}
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", ValidationError{Field: "phone", Msg: "invalid phone number"}
		}
	}
	return p, nil
}

// Request issues a code for phone and hands it to the SMS provider.
func (s *OTPService) Request(ctx context.Context, phone string) error {
	phone, err := normalizePhone(phone)
	if err != nil {
		return err
	}
	code, err := s.Provider.Generate()
	if err != nil {
		return err
	}
	if err := s.Provider.Send(ctx, phone, code); err != nil {
		if errors.Is(err, otp.ErrProviderUnavailable) {
			return UnavailableError{Service: "sms verification", Err: err}
		}
		return FetchError{Op: "sms", Err: err}
	}
	raw, err := json.Marshal(otpRecord{Code: code, ExpiresAt: s.Now().Add(s.TTL)})
	if err != nil {
		return err
	}
	if err := s.Store.Set(ctx, attemptsKey(phone), []byte("0"), s.TTL); err != nil {
		return FetchError{Op: "otp", Err: err}
	}
	if err := s.Store.Set(ctx, otpKey(phone), raw, s.TTL); err != nil {
		return FetchError{Op: "otp", Err: err}
	}
	logger.L().Info("otp issued", zap.String("phone", utils.MaskPhone(phone)))
	return nil
}

// Verify consumes the pending code on success. Too many wrong guesses burn the code.
func (s *OTPService) Verify(ctx context.Context, phone, code string) error {
	phone, err := normalizePhone(phone)
	if err != nil {
		return err
	}
	raw, err := s.Store.Get(ctx, otpKey(phone))
	if errors.Is(err, kvstore.ErrNotFound) {
		return ValidationError{Field: "code", Msg: "no pending code, request a new one"}
	}
	if err != nil {
		return FetchError{Op: "otp", Err: err}
	}
	var rec otpRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return FetchError{Op: "otp", Err: err}
	}

	if subtle.ConstantTimeCompare([]byte(rec.Code), []byte(strings.TrimSpace(code))) == 1 {
		// Take so that two concurrent correct guesses verify once
		if _, err := s.Store.Take(ctx, otpKey(phone)); errors.Is(err, kvstore.ErrNotFound) {
			return ValidationError{Field: "code", Msg: "no pending code, request a new one"}
		} else if err != nil {
			return FetchError{Op: "otp", Err: err}
		}
		_ = s.Store.Delete(ctx, attemptsKey(phone))
		return nil
	}

	attempts, err := s.Store.Incr(ctx, attemptsKey(phone))
	if err != nil {
		return FetchError{Op: "otp", Err: err}
	}
	if attempts >= int64(s.MaxAttempts) || !rec.ExpiresAt.After(s.Now()) {
		s.burn(ctx, phone)
		return ValidationError{Field: "code", Msg: "too many attempts, request a new code"}
	}
	return ValidationError{Field: "code", Msg: "invalid code"}
}

func (s *OTPService) burn(ctx context.Context, phone string) {
	if err := s.Store.Delete(ctx, otpKey(phone)); err != nil {
		logger.L().Warn("otp burn failed", zap.String("phone", utils.MaskPhone(phone)), zap.Error(err))
	}
	_ = s.Store.Delete(ctx, attemptsKey(phone))
}
