package booking

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"stay-booking/kvstore"
)

var ErrDraftNotFound = errors.New("booking draft not found or expired")

// DraftStore keeps drafts as JSON in a kvstore, so they live in redis when it is configured.
type DraftStore struct {
	kv  kvstore.Store
	ttl time.Duration
}

func NewDraftStore(kv kvstore.Store, ttl time.Duration) *DraftStore {
	return &DraftStore{kv: kv, ttl: ttl}
}

func draftKey(id string) string { return "draft:" + id }

func (s *DraftStore) Get(ctx context.Context, id string) (*Draft, error) {
	raw, err := s.kv.Get(ctx, draftKey(id))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}
	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Save writes d and refreshes its expiry.
func (s *DraftStore) Save(ctx context.Context, d *Draft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, draftKey(d.ID), raw, s.ttl)
}
