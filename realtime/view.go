package realtime

import (
	"context"
	"sync"
)

// Loader reads the authoritative wishlist and the sequence number it reflects.
type Loader func(ctx context.Context) (ids []string, seq int64, err error)

// WishlistView is one subscriber's copy of a wishlist kept current from change events.
type WishlistView struct {
	mu   sync.Mutex
	load Loader
	ids  []string
	seq  int64
}

func NewWishlistView(load Loader) *WishlistView {
	return &WishlistView{load: load}
}

func (v *WishlistView) Reload(ctx context.Context) error {
	ids, seq, err := v.load(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.ids = append([]string{}, ids...)
	v.seq = seq
	v.mu.Unlock()
	return nil
}

// Apply folds ev into the view. Stale events are ignored; a gap in the sequence or an
// unknown op falls back to a full reload, reported by reloaded.
func (v *WishlistView) Apply(ctx context.Context, ev WishlistChanged) (reloaded bool, err error) {
	v.mu.Lock()
	switch {
	case ev.Seq <= v.seq:
		v.mu.Unlock()
		return false, nil
	case ev.Seq != v.seq+1:
		v.mu.Unlock()
		return true, v.Reload(ctx)
	}

	switch ev.Op {
	case OpInsert:
		if v.index(ev.ExperienceID) < 0 {
			// newest first, as the list endpoint orders them
			v.ids = append([]string{ev.ExperienceID}, v.ids...)
		}
	case OpDelete:
		if i := v.index(ev.ExperienceID); i >= 0 {
			v.ids = append(v.ids[:i], v.ids[i+1:]...)
		}
	default:
		v.mu.Unlock()
		return true, v.Reload(ctx)
	}
	v.seq = ev.Seq
	v.mu.Unlock()
	return false, nil
}

func (v *WishlistView) index(id string) int {
	for i, x := range v.ids {
		if x == id {
			return i
		}
	}
	return -1
}

func (v *WishlistView) IDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string{}, v.ids...)
}

func (v *WishlistView) Seq() int64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.seq
}
