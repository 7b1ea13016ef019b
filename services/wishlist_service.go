package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stay-booking/auth"
	"stay-booking/kvstore"
	"stay-booking/logger"
	"stay-booking/metrics"
	"stay-booking/models"
	"stay-booking/repositories"
)

type WishlistService struct {
	Users     *UserService
	Wishlists repositories.WishlistRepository
	Locker    kvstore.Locker
	Events    EventPublisher
}

func NewWishlistService(users *UserService, wishlists repositories.WishlistRepository, locker kvstore.Locker, events EventPublisher) *WishlistService {
	if locker == nil {
		locker = kvstore.NewMemoryLocker()
	}
	return &WishlistService{Users: users, Wishlists: wishlists, Locker: locker, Events: publisherOrNoop(events)}
}

// Get lists the wishlisted experience ids. Anonymous callers, unprovisioned users and
// backend failures all yield an empty list.
func (s *WishlistService) Get(ctx context.Context, id auth.Identity) []string {
	user, err := s.Users.Resolve(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrAuthRequired) && !errors.Is(err, ErrUserNotFound) {
			logger.L().Error("wishlist user lookup failed", zap.Error(err))
		}
		return []string{}
	}
	ids, err := s.ListForUser(ctx, user.ID)
	if err != nil {
		logger.L().Error("wishlist fetch failed", zap.String("user_id", user.ID), zap.Error(err))
		return []string{}
	}
	return ids
}

// ListForUser is the raw read used for realtime snapshots; unlike Get it reports failures.
func (s *WishlistService) ListForUser(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.Wishlists.ListExperienceIDs(ctx, userID)
	if err != nil {
		return nil, FetchError{Op: "wishlist", Err: err}
	}
	return ids, nil
}

// Toggle flips presence of the (user, experience) entry and returns true when it is now present.
func (s *WishlistService) Toggle(ctx context.Context, id auth.Identity, experienceID string) (bool, error) {
	user, err := s.Users.Resolve(ctx, id)
	if err != nil {
		return false, err
	}
	if experienceID == "" {
		return false, ValidationError{Field: "experience_id", Msg: "required"}
	}

	unlock, err := s.Locker.Lock(ctx, "wishlist:"+user.ID+":"+experienceID)
	if err != nil {
		return false, FetchError{Op: "wishlist lock", Err: err}
	}
	defer unlock()

	existing, err := s.Wishlists.Find(ctx, user.ID, experienceID)
	if err != nil {
		return false, FetchError{Op: "wishlist", Err: err}
	}

	added := existing == nil
	if existing != nil {
		if err := s.Wishlists.Delete(ctx, existing.ID); err != nil {
			return false, FetchError{Op: "wishlist delete", Err: err}
		}
		metrics.WishlistToggles.WithLabelValues("delete").Inc()
	} else {
		entry := &models.Wishlist{UserID: user.ID, ExperienceID: experienceID}
		if err := s.Wishlists.Create(ctx, entry); err != nil {
			if !repositories.IsDuplicate(err) {
				return false, FetchError{Op: "wishlist insert", Err: err}
			}
			// a concurrent insert from another process already made it present
		}
		metrics.WishlistToggles.WithLabelValues("insert").Inc()
	}

	if err := s.Events.WishlistChanged(ctx, user.ID, experienceID, added); err != nil {
		logger.L().Warn("wishlist change not published", zap.String("user_id", user.ID), zap.Error(err))
	}
	return added, nil
}
