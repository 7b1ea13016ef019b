package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stay-booking/auth"
	"stay-booking/logger"
	"stay-booking/metrics"
	"stay-booking/models"
	"stay-booking/repositories"
)

const (
	referencePrefix   = "STY"
	referenceLayout   = "2006-01-02"
	defaultCancelWin  = 24 * time.Hour
	defaultRefAttempt = 5
)

// ReservationDraft is the data committed at the end of the booking flow.
type ReservationDraft struct {
	ExperienceID string    `json:"experience_id"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	RoomType     string    `json:"room_type"`
	GuestCount   int       `json:"guest_count"`
	TotalPrice   float64   `json:"total_price"`
}

type ReservationFilter struct {
	Status string
	Limit  int
	Offset int
}

type ReservationService struct {
	Users        *UserService
	Reservations repositories.ReservationRepository
	CancelWindow time.Duration
	RefAttempts  int
	Now          func() time.Time
}

func NewReservationService(users *UserService, reservations repositories.ReservationRepository, cancelWindow time.Duration, attempts int) *ReservationService {
	if cancelWindow < 0 {
		cancelWindow = defaultCancelWin
	}
	if attempts <= 0 {
		attempts = defaultRefAttempt
	}
	return &ReservationService{
		Users:        users,
		Reservations: reservations,
		CancelWindow: cancelWindow,
		RefAttempts:  attempts,
		Now:          time.Now,
	}
}

func (d ReservationDraft) validate() error {
	if d.ExperienceID == "" {
		return ValidationError{Field: "experience_id", Msg: "required"}
	}
	if d.CheckInDate.IsZero() || d.CheckOutDate.IsZero() {
		return ValidationError{Field: "dates", Msg: "check-in and check-out are required"}
	}
	if !d.CheckOutDate.After(d.CheckInDate) {
		return ValidationError{Field: "check_out_date", Msg: "must be after check-in"}
	}
	if d.GuestCount < 1 {
		return ValidationError{Field: "guest_count", Msg: "must be at least 1"}
	}
	if d.TotalPrice < 0 {
		return ValidationError{Field: "total_price", Msg: "must not be negative"}
	}
	return nil
}

// Create inserts a confirmed, paid reservation under a fresh booking reference.
func (s *ReservationService) Create(ctx context.Context, id auth.Identity, d ReservationDraft) (*models.Reservation, error) {
	if !id.Authenticated() {
		return nil, ErrAuthRequired
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	user, err := s.Users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}

	prefix := fmt.Sprintf("%s-%s-", referencePrefix, d.CheckInDate.Format(referenceLayout))
	var lastErr error
	for attempt := 0; attempt < s.RefAttempts; attempt++ {
		n, err := s.Reservations.CountByReferencePrefix(ctx, prefix)
		if err != nil {
			metrics.ReservationFailures.Inc()
			return nil, ReservationError{Op: "reference", Err: err}
		}
		res := &models.Reservation{
			UserID:           user.ID,
			ExperienceID:     d.ExperienceID,
			BookingReference: fmt.Sprintf("%s%03d", prefix, n+1+int64(attempt)),
			CheckInDate:      d.CheckInDate,
			CheckOutDate:     d.CheckOutDate,
			RoomType:         d.RoomType,
			GuestCount:       d.GuestCount,
			TotalPrice:       d.TotalPrice,
			Status:           models.StatusConfirmed,
			PaymentStatus:    models.PaymentPaid,
		}
		lastErr = s.Reservations.Create(ctx, res)
		if lastErr == nil {
			metrics.ReservationsCreated.Inc()
			logger.L().Info("reservation created",
				zap.String("user_id", user.ID),
				zap.String("reservation_id", res.ID),
				zap.String("booking_reference", res.BookingReference))
			return res, nil
		}
		if !repositories.IsDuplicate(lastErr) {
			break
		}
		logger.L().Debug("booking reference collision, retrying", zap.Int("attempt", attempt+1), zap.String("reference", res.BookingReference))
	}

	metrics.ReservationFailures.Inc()
	logger.L().Error("reservation create failed", zap.String("user_id", user.ID), zap.Error(lastErr))
	return nil, ReservationError{Op: "create", Err: lastErr}
}

func (s *ReservationService) List(ctx context.Context, id auth.Identity, f ReservationFilter) ([]models.Reservation, error) {
	user, err := s.Users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status != "" && !models.ValidStatus(f.Status) {
		return nil, ValidationError{Field: "status", Msg: "unknown status"}
	}
	out, err := s.Reservations.ListForUser(ctx, user.ID, repositories.ReservationQuery{
		Status: f.Status,
		Limit:  f.Limit,
		Offset: f.Offset,
	})
	if err != nil {
		return nil, FetchError{Op: "reservations", Err: err}
	}
	return out, nil
}

func (s *ReservationService) Get(ctx context.Context, id auth.Identity, reservationID string) (*models.ReservationDetail, error) {
	user, err := s.Users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.Reservations.FindForUser(ctx, reservationID, user.ID)
	if err != nil {
		return nil, FetchError{Op: "reservation", Err: err}
	}
	if res == nil {
		return nil, NotFoundError{Resource: "reservation", ID: reservationID}
	}
	detail, err := s.Reservations.FindExperienceDetail(ctx, res.ExperienceID)
	if err != nil {
		return nil, FetchError{Op: "reservation experience", Err: err}
	}
	return &models.ReservationDetail{Reservation: *res, Experience: detail}, nil
}

// UpdateStatus moves a confirmed reservation to another status. Cancelled and completed are final.
// Setting the current status again is a no-op.
func (s *ReservationService) UpdateStatus(ctx context.Context, id auth.Identity, reservationID, status string) (*models.Reservation, error) {
	if !models.ValidStatus(status) {
		return nil, ValidationError{Field: "status", Msg: "unknown status"}
	}
	user, err := s.Users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.find(ctx, user.ID, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status == status {
		return res, nil
	}
	if err := s.checkTransition(res, status); err != nil {
		return nil, err
	}
	return s.updateStatus(ctx, user.ID, reservationID, status)
}

// Cancel moves a confirmed reservation to cancelled unless check-in is inside the cancellation window.
func (s *ReservationService) Cancel(ctx context.Context, id auth.Identity, reservationID string) (*models.Reservation, error) {
	user, err := s.Users.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := s.find(ctx, user.ID, reservationID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTransition(res, models.StatusCancelled); err != nil {
		return nil, err
	}
	return s.updateStatus(ctx, user.ID, reservationID, models.StatusCancelled)
}

func (s *ReservationService) checkTransition(res *models.Reservation, to string) error {
	if res.Status != models.StatusConfirmed {
		return ConflictError{Resource: "reservation", Msg: fmt.Sprintf("a %s reservation cannot become %s", res.Status, to)}
	}
	switch to {
	case models.StatusCancelled:
		if s.CancelWindow > 0 && res.CheckInDate.Sub(s.Now()) < s.CancelWindow {
			return ConflictError{Resource: "reservation", Msg: fmt.Sprintf("cancellation closes %s before check-in", s.CancelWindow)}
		}
	case models.StatusCompleted:
		if !res.CheckOutDate.Before(s.Now()) {
			return ConflictError{Resource: "reservation", Msg: "stay has not ended yet"}
		}
	}
	return nil
}

func (s *ReservationService) find(ctx context.Context, userID, reservationID string) (*models.Reservation, error) {
	res, err := s.Reservations.FindForUser(ctx, reservationID, userID)
	if err != nil {
		return nil, FetchError{Op: "reservation", Err: err}
	}
	if res == nil {
		return nil, NotFoundError{Resource: "reservation", ID: reservationID}
	}
	return res, nil
}

func (s *ReservationService) updateStatus(ctx context.Context, userID, reservationID, status string) (*models.Reservation, error) {
	if _, err := s.Reservations.UpdateStatusForUser(ctx, reservationID, userID, status); err != nil {
		return nil, ReservationError{Op: "update status", Err: err}
	}
	// read back: RowsAffected cannot tell "unchanged" from "missing"
	return s.find(ctx, userID, reservationID)
}

// CompletePast marks confirmed reservations whose check-out has passed as completed.
func (s *ReservationService) CompletePast(ctx context.Context) (int64, error) {
	n, err := s.Reservations.CompleteCheckedOut(ctx, s.Now())
	if err != nil {
		return 0, ReservationError{Op: "complete", Err: err}
	}
	return n, nil
}

// SplitUpcoming bisects reservations at now on check-in date: upcoming is check-in >= now.
func SplitUpcoming(reservations []models.Reservation, now time.Time) (upcoming, past []models.Reservation) {
	upcoming, past = []models.Reservation{}, []models.Reservation{}
	for _, r := range reservations {
		if r.CheckInDate.Before(now) {
			past = append(past, r)
		} else {
			upcoming = append(upcoming, r)
		}
	}
	return upcoming, past
}
