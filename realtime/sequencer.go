package realtime

import (
	"context"
	"errors"
	"strconv"

	"stay-booking/kvstore"
)

// Sequencer numbers wishlist changes per user so subscribers can detect missed events.
type Sequencer struct {
	kv kvstore.Store
}

func NewSequencer(kv kvstore.Store) *Sequencer { return &Sequencer{kv: kv} }

func seqKey(userID string) string { return "wishlist_seq:" + userID }

func (s *Sequencer) Next(ctx context.Context, userID string) (int64, error) {
	return s.kv.Incr(ctx, seqKey(userID))
}

// Current is the last issued number, 0 before the first change.
func (s *Sequencer) Current(ctx context.Context, userID string) (int64, error) {
	raw, err := s.kv.Get(ctx, seqKey(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}
