package services

import (
	"errors"
	"fmt"
)

var (
	ErrAuthRequired = errors.New("user not authenticated")
	ErrUserNotFound = errors.New("user not found")
)

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

type ConflictError struct {
	Resource string
	Msg      string
}

func (e ConflictError) Error() string {
	if e.Resource == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
}

// UnavailableError marks an optional integration that is not configured in this build or environment.
type UnavailableError struct {
	Service string
	Err     error
}

func (e UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable", e.Service)
}

func (e UnavailableError) Unwrap() error { return e.Err }

// FetchError, SearchError and ReservationError wrap a failed backend call.

type FetchError struct {
	Op  string
	Err error
}

func (e FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Op, e.Err) }
func (e FetchError) Unwrap() error { return e.Err }

type SearchError struct {
	Err error
}

func (e SearchError) Error() string { return fmt.Sprintf("search experiences: %v", e.Err) }
func (e SearchError) Unwrap() error { return e.Err }

type ReservationError struct {
	Op  string
	Err error
}

func (e ReservationError) Error() string { return fmt.Sprintf("reservation %s: %v", e.Op, e.Err) }
func (e ReservationError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target UnavailableError
	return errors.As(err, &target)
}

func IsFetch(err error) bool {
	var target FetchError
	return errors.As(err, &target)
}

func IsSearch(err error) bool {
	var target SearchError
	return errors.As(err, &target)
}

func IsReservation(err error) bool {
	var target ReservationError
	return errors.As(err, &target)
}

// IsBackend reports any of the wrapped backend failures.
func IsBackend(err error) bool {
	return IsFetch(err) || IsSearch(err) || IsReservation(err)
}
