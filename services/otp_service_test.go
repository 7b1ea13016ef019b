package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stay-booking/kvstore"
	"stay-booking/otp"
)

type fixedProvider struct {
	code string
	err  error
	sent []string
}

func (p *fixedProvider) Generate() (string, error) { return p.code, nil }

func (p *fixedProvider) Send(_ context.Context, phone, _ string) error {
	p.sent = append(p.sent, phone)
	return p.err
}

func TestOTPService(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 2, 16, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	newSvc := func(p otp.Provider) *OTPService {
		svc := NewOTPService(kvstore.NewMemoryStore().WithClock(clock), p, 5*time.Minute, 3)
		svc.Now = clock
		return svc
	}

	t.Run("request and verify", func(t *testing.T) {
		p := &fixedProvider{code: "424242"}
		svc := newSvc(p)

		require.NoError(t, svc.Request(ctx, "+33 6 12-34-56-78"))
		assert.Equal(t, []string{"+33612345678"}, p.sent)

		assert.True(t, IsValidation(svc.Verify(ctx, "+33612345678", "000000")))
		require.NoError(t, svc.Verify(ctx, "+33612345678", "424242"))
		// consumed
		assert.True(t, IsValidation(svc.Verify(ctx, "+33612345678", "424242")))
	})

	t.Run("attempts burn the code", func(t *testing.T) {
		svc := newSvc(&fixedProvider{code: "424242"})
		require.NoError(t, svc.Request(ctx, "0612345678"))

		for i := 0; i < 3; i++ {
			assert.Error(t, svc.Verify(ctx, "0612345678", "111111"))
		}
		assert.Error(t, svc.Verify(ctx, "0612345678", "424242"))
	})

	t.Run("concurrent wrong guesses stay within the limit", func(t *testing.T) {
		svc := newSvc(&fixedProvider{code: "424242"})
		require.NoError(t, svc.Request(ctx, "0612345678"))

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = svc.Verify(ctx, "0612345678", "111111")
			}()
		}
		wg.Wait()

		assert.True(t, IsValidation(svc.Verify(ctx, "0612345678", "424242")))
	})

	t.Run("a correct code verifies once under concurrency", func(t *testing.T) {
		svc := newSvc(&fixedProvider{code: "424242"})
		require.NoError(t, svc.Request(ctx, "0612345678"))

		var ok atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if svc.Verify(ctx, "0612345678", "424242") == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), ok.Load())
	})

	t.Run("invalid phone", func(t *testing.T) {
		svc := newSvc(&fixedProvider{code: "1"})
		assert.True(t, IsValidation(svc.Request(ctx, "12ab")))
	})

	t.Run("provider unavailable", func(t *testing.T) {
		svc := newSvc(&fixedProvider{code: "1", err: otp.ErrProviderUnavailable})
		assert.True(t, IsUnavailable(svc.Request(ctx, "0612345678")))
	})
}
