package service

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/pkordes/fahrtenbuch/internal/domain"
	"github.com/pkordes/fahrtenbuch/internal/repo"
)

// TemplateInput is the unvalidated data for a new template.
type TemplateInput struct {
	Name           string
	StartAddressID string
	DestAddressID  string
	Purpose        string
	Project        string
	NotesHint      string
	Favorite       bool
}

// FromTripInput is the data for deriving a template from a logged trip.
// Name may be blank, in which case it is built from the trip's address labels.
type FromTripInput struct {
	TripID    string
	Name      string
	NotesHint string
	Favorite  bool
}

// TemplateService implements business logic for trip templates.
type TemplateService struct {
	templates repo.TemplateRepo
	trips     repo.TripRepo
}

// NewTemplateService constructs a TemplateService. The TripRepo is used to
// look up the source trip in CreateFromTrip.
func NewTemplateService(templates repo.TemplateRepo, trips repo.TripRepo) *TemplateService {
	return &TemplateService{templates: templates, trips: trips}
}

// Create validates and persists a new template.
func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (domain.Template, error) {
	in.Name = strings.TrimSpace(in.Name)
	err := validation.Errors{
		"name": validation.Validate(in.Name, validation.Required.Error("is required")),
		"startAddressId": validation.Validate(in.StartAddressID,
			validation.Required.Error("is required"), validation.By(isUUID)),
		"destAddressId": validation.Validate(in.DestAddressID,
			validation.Required.Error("is required"), validation.By(isUUID)),
	}.Filter()
	if err := validationError(err); err != nil {
		return domain.Template{}, fmt.Errorf("service.TemplateService.Create: %w", err)
	}

	created, err := s.templates.Create(ctx, domain.Template{
		Name:           in.Name,
		Purpose:        domain.ParsePurpose(in.Purpose),
		Project:        optionalText(in.Project),
		NotesHint:      optionalText(in.NotesHint),
		Favorite:       in.Favorite,
		StartAddressID: uuid.MustParse(in.StartAddressID),
		DestAddressID:  uuid.MustParse(in.DestAddressID),
	})
	if err != nil {
		return domain.Template{}, fmt.Errorf("service.TemplateService.Create: %w", err)
	}
	return created, nil
}

// CreateFromTrip derives a template from an existing trip: addresses, purpose
// and project are copied, notesHint and favorite come from the caller.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TemplateService) CreateFromTrip(ctx context.Context, in FromTripInput) (domain.Template, error) {
	if in.TripID == "" {
		return domain.Template{}, fmt.Errorf("service.TemplateService.CreateFromTrip: %w",
			domain.NewValidationError("tripId is required"))
	}
	tripID, err := uuid.Parse(in.TripID)
	if err != nil {
		// Not an id we could ever have issued.
		return domain.Template{}, fmt.Errorf("service.TemplateService.CreateFromTrip: %w", domain.ErrNotFound)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Template{}, fmt.Errorf("service.TemplateService.CreateFromTrip: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultTemplateName(trip)
	}

	created, err := s.templates.Create(ctx, domain.Template{
		Name:           name,
		Purpose:        trip.Purpose,
		Project:        trip.Project,
		NotesHint:      optionalText(in.NotesHint),
		Favorite:       in.Favorite,
		StartAddressID: trip.StartAddressID,
		DestAddressID:  trip.DestAddressID,
	})
	if err != nil {
		return domain.Template{}, fmt.Errorf("service.TemplateService.CreateFromTrip: %w", err)
	}
	return created, nil
}

// List returns all templates, favorites first, then by name.
func (s *TemplateService) List(ctx context.Context) ([]domain.Template, error) {
	templates, err := s.templates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TemplateService.List: %w", err)
	}
	if templates == nil {
		templates = []domain.Template{}
	}
	return templates, nil
}

// ToggleFavorite flips the favorite flag of a template.
// Returns domain.ErrNotFound if the template does not exist.
func (s *TemplateService) ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	updated, err := s.templates.ToggleFavorite(ctx, id)
	if err != nil {
		return domain.Template{}, fmt.Errorf("service.TemplateService.ToggleFavorite: %w", err)
	}
	return updated, nil
}

// defaultTemplateName is "<startLabel> → <destLabel>".
func defaultTemplateName(trip domain.Trip) string {
	var start, dest string
	if trip.StartAddress != nil {
		start = trip.StartAddress.Label
	}
	if trip.DestAddress != nil {
		dest = trip.DestAddress.Label
	}
	return start + " → " + dest
}
