package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stay-booking/auth"
	"stay-booking/logger"
	"stay-booking/models"
	"stay-booking/repositories"
)

// Geocoder resolves coordinates to a city name.
type Geocoder interface {
	ReverseCity(ctx context.Context, lat, lon float64) (string, error)
}

type UserService struct {
	Users    repositories.UserRepository
	Geocoder Geocoder
}

func NewUserService(users repositories.UserRepository, geocoder Geocoder) *UserService {
	return &UserService{Users: users, Geocoder: geocoder}
}

// Resolve maps the caller's auth id to its users row. It never trusts a client-supplied user id.
func (s *UserService) Resolve(ctx context.Context, id auth.Identity) (*models.User, error) {
	if !id.Authenticated() {
		return nil, ErrAuthRequired
	}
	user, err := s.Users.FindByAuthID(ctx, id.AuthID)
	if err != nil {
		return nil, FetchError{Op: "user", Err: err}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// EnsureUser returns the users row for authID, creating it on first sight.
func (s *UserService) EnsureUser(ctx context.Context, authID, email string) (*models.User, error) {
	user, err := s.Users.FindByAuthID(ctx, authID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &models.User{AuthID: authID, Email: email}
	if err := s.Users.Create(ctx, user); err != nil {
		// another provisioning path won the race
		if repositories.IsDuplicate(err) {
			return s.Users.FindByAuthID(ctx, authID)
		}
		return nil, err
	}
	logger.L().Info("user provisioned", zap.String("auth_id", authID), zap.String("user_id", user.ID))
	return user, nil
}

// CheckIfUserExists reports whether the caller already has a users row.
func (s *UserService) CheckIfUserExists(ctx context.Context, id auth.Identity) (bool, error) {
	if !id.Authenticated() {
		return false, ErrAuthRequired
	}
	user, err := s.Users.FindByAuthID(ctx, id.AuthID)
	if err != nil {
		return false, FetchError{Op: "user", Err: err}
	}
	return user != nil, nil
}

type ProfileInput struct {
	Email     string
	FullName  *string
	City      string
	Latitude  *float64
	Longitude *float64
}

// CompleteProfile stores the email and home city collected after sign-up.
func (s *UserService) CompleteProfile(ctx context.Context, id auth.Identity, in ProfileInput) (*models.User, error) {
	if !id.Authenticated() {
		return nil, ErrAuthRequired
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, ValidationError{Field: "email", Msg: "required"}
	}
	if !strings.Contains(email, "@") {
		return nil, ValidationError{Field: "email", Msg: "invalid email"}
	}

	city := strings.TrimSpace(in.City)
	if city == "" && in.Latitude != nil && in.Longitude != nil && s.Geocoder != nil {
		resolved, err := s.Geocoder.ReverseCity(ctx, *in.Latitude, *in.Longitude)
		if err != nil {
			// city stays blank, the profile is still saved
			logger.L().Warn("reverse geocoding failed", zap.Error(err))
		} else {
			city = resolved
		}
	}

	current, err := s.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	prefs := map[string]interface{}{}
	for k, v := range current.Preferences {
		prefs[k] = v
	}
	prefs["city"] = city

	updates := map[string]interface{}{
		"email":       strings.ToLower(email),
		"preferences": datatypes.JSONMap(prefs),
	}
	if in.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*in.FullName)
	}

	user, err := s.Users.UpdateByAuthID(ctx, id.AuthID, updates)
	if err != nil {
		return nil, FetchError{Op: "profile", Err: err}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
