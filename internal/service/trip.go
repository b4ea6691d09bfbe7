package service

import (
	"context"
	"fmt"
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/pkordes/fahrtenbuch/internal/domain"
	"github.com/pkordes/fahrtenbuch/internal/repo"
)

// RecentTripLimit is the number of trips returned by TripService.Recent.
const RecentTripLimit = 8

// MaxOdometerKm bounds odometer readings in both directions. It is the
// largest integer a float64 holds exactly, so readings and their difference
// convert to int64 without loss.
const MaxOdometerKm = 1 << 53

// dateLayouts are the accepted formats for a trip date, tried in order.
// Values without a zone are taken as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// TripInput is the unvalidated data for a new trip.
// StartKm and EndKm are nil when the caller sent something that is not a number.
type TripInput struct {
	StartAddressID string
	DestAddressID  string
	StartKm        *float64
	EndKm          *float64
	Purpose        string
	Project        string
	Notes          string
	Date           string
}

// TripService implements business logic for Trip operations.
type TripService struct {
	repo repo.TripRepo
	now  func() time.Time
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{repo: r, now: time.Now}
}

// Create validates and persists a new trip.
// Distance is derived here from the odometer readings and nowhere else.
func (s *TripService) Create(ctx context.Context, in TripInput) (domain.Trip, error) {
	err := validation.Errors{
		"startAddressId": validation.Validate(in.StartAddressID,
			validation.Required.Error("is required"), validation.By(isUUID)),
		"destAddressId": validation.Validate(in.DestAddressID,
			validation.Required.Error("is required"), validation.By(isUUID)),
		"startKm": validation.Validate(in.StartKm,
			validation.NotNil.Error("is not a number"), validation.By(isFinite), validation.By(inOdometerRange)),
		"endKm": validation.Validate(in.EndKm,
			validation.NotNil.Error("is not a number"), validation.By(isFinite), validation.By(inOdometerRange)),
	}.Filter()
	if err := validationError(err); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	startKm := int64(math.Trunc(*in.StartKm))
	endKm := int64(math.Trunc(*in.EndKm))
	if endKm < startKm {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w",
			domain.NewValidationError("endKm must be >= startKm"))
	}

	date, err := s.parseDate(in.Date)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	trip := domain.Trip{
		Date:           date,
		Purpose:        domain.ParsePurpose(in.Purpose),
		Project:        optionalText(in.Project),
		Notes:          optionalText(in.Notes),
		StartKm:        startKm,
		EndKm:          endKm,
		Distance:       endKm - startKm,
		StartAddressID: uuid.MustParse(in.StartAddressID),
		DestAddressID:  uuid.MustParse(in.DestAddressID),
	}

	created, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single trip by ID.
func (s *TripService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips, newest first.
func (s *TripService) List(ctx context.Context) ([]domain.Trip, error) {
	return s.list(ctx, 0, "service.TripService.List")
}

// Recent returns the RecentTripLimit newest trips.
func (s *TripService) Recent(ctx context.Context) ([]domain.Trip, error) {
	return s.list(ctx, RecentTripLimit, "service.TripService.Recent")
}

func (s *TripService) list(ctx context.Context, limit int, op string) ([]domain.Trip, error) {
	trips, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// parseDate returns now for an empty string, otherwise the first layout that
// parses.
func (s *TripService) parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return s.now().UTC(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError("invalid date")
}

// isFinite is an ozzo-validation rule rejecting NaN and infinities.
func isFinite(value any) error {
	v, isNil := validation.Indirect(value)
	f, ok := v.(float64)
	if isNil || !ok {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return validation.NewError("validation_is_finite", "is not a number")
	}
	return nil
}

// inOdometerRange is an ozzo-validation rule rejecting readings beyond
// ±MaxOdometerKm. Run it after isFinite.
func inOdometerRange(value any) error {
	v, isNil := validation.Indirect(value)
	f, ok := v.(float64)
	if isNil || !ok {
		return nil
	}
	if math.Abs(f) > MaxOdometerKm {
		return validation.NewError("validation_odometer_range", "is out of range")
	}
	return nil
}
