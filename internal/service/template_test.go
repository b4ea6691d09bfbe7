package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fahrtenbuch/internal/domain"
	"github.com/pkordes/fahrtenbuch/internal/repo"
	"github.com/pkordes/fahrtenbuch/internal/service"
)

// mockTemplateRepo is a hand-written test double for repo.TemplateRepo.
type mockTemplateRepo struct {
	create         func(ctx context.Context, tpl domain.Template) (domain.Template, error)
	list           func(ctx context.Context) ([]domain.Template, error)
	toggleFavorite func(ctx context.Context, id uuid.UUID) (domain.Template, error)
}

func (m *mockTemplateRepo) Create(ctx context.Context, tpl domain.Template) (domain.Template, error) {
	return m.create(ctx, tpl)
}
func (m *mockTemplateRepo) List(ctx context.Context) ([]domain.Template, error) {
	return m.list(ctx)
}
func (m *mockTemplateRepo) ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Template, error) {
	return m.toggleFavorite(ctx, id)
}

// compile-time check: mockTemplateRepo must satisfy repo.TemplateRepo.
var _ repo.TemplateRepo = (*mockTemplateRepo)(nil)

func echoTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{
		create: func(_ context.Context, tpl domain.Template) (domain.Template, error) { return tpl, nil },
	}
}

func storedTrip() domain.Trip {
	start := storedAddress("Home", nil, nil, nil)
	dest := storedAddress("Client HQ", nil, nil, strPtr("Munich"))
	return domain.Trip{
		ID:             uuid.New(),
		Purpose:        domain.PurposePrivate,
		Project:        strPtr("Relocation"),
		Notes:          strPtr("trip notes are not copied"),
		StartAddressID: start.ID,
		DestAddressID:  dest.ID,
		StartAddress:   &start,
		DestAddress:    &dest,
	}
}

func tripLookup(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}

// ---- Create ----------------------------------------------------------------

func TestTemplateService_Create_Valid(t *testing.T) {
	svc := service.NewTemplateService(echoTemplateRepo(), &mockTripRepo{})
	startID, destID := uuid.New(), uuid.New()

	got, err := svc.Create(context.Background(), service.TemplateInput{
		Name:           "  Weekly shop ",
		StartAddressID: startID.String(),
		DestAddressID:  destID.String(),
		Purpose:        "PRIVATE",
		NotesHint:      "receipts",
		Favorite:       true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Weekly shop", got.Name)
	assert.Equal(t, startID, got.StartAddressID)
	assert.Equal(t, destID, got.DestAddressID)
	assert.Equal(t, domain.PurposePrivate, got.Purpose)
	assert.Nil(t, got.Project)
	assert.Equal(t, strPtr("receipts"), got.NotesHint)
	assert.True(t, got.Favorite)
}

func TestTemplateService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   service.TemplateInput
		want string
	}{
		{"blank name", service.TemplateInput{Name: "  ", StartAddressID: uuid.NewString(), DestAddressID: uuid.NewString()}, "name: is required"},
		{"missing start", service.TemplateInput{Name: "x", DestAddressID: uuid.NewString()}, "startAddressId: is required"},
		{"malformed dest", service.TemplateInput{Name: "x", StartAddressID: uuid.NewString(), DestAddressID: "42"}, "destAddressId: must be a valid id"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewTemplateService(echoTemplateRepo(), &mockTripRepo{})

			_, err := svc.Create(context.Background(), tc.in)

			requireValidation(t, err, tc.want)
		})
	}
}

// ---- CreateFromTrip --------------------------------------------------------

func TestTemplateService_CreateFromTrip_DefaultName(t *testing.T) {
	trip := storedTrip()
	svc := service.NewTemplateService(echoTemplateRepo(), tripLookup(trip))

	got, err := svc.CreateFromTrip(context.Background(), service.FromTripInput{
		TripID:    trip.ID.String(),
		Name:      "   ",
		NotesHint: "ask for parking",
	})

	require.NoError(t, err)
	assert.Equal(t, "Home → Client HQ", got.Name)
	assert.Equal(t, trip.StartAddressID, got.StartAddressID)
	assert.Equal(t, trip.DestAddressID, got.DestAddressID)
	assert.Equal(t, domain.PurposePrivate, got.Purpose)
	assert.Equal(t, strPtr("Relocation"), got.Project)
	assert.Equal(t, strPtr("ask for parking"), got.NotesHint)
	assert.False(t, got.Favorite)
}

func TestTemplateService_CreateFromTrip_ExplicitName(t *testing.T) {
	trip := storedTrip()
	svc := service.NewTemplateService(echoTemplateRepo(), tripLookup(trip))

	got, err := svc.CreateFromTrip(context.Background(), service.FromTripInput{
		TripID:   trip.ID.String(),
		Name:     "Moving day",
		Favorite: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Moving day", got.Name)
	assert.Nil(t, got.NotesHint)
	assert.True(t, got.Favorite)
}

func TestTemplateService_CreateFromTrip_NotFound(t *testing.T) {
	svc := service.NewTemplateService(echoTemplateRepo(), tripLookup(storedTrip()))

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		_, err := svc.CreateFromTrip(context.Background(), service.FromTripInput{TripID: id})

		require.ErrorIs(t, err, domain.ErrNotFound, "tripId %q", id)
	}
}

func TestTemplateService_CreateFromTrip_TripIDRequired(t *testing.T) {
	svc := service.NewTemplateService(echoTemplateRepo(), &mockTripRepo{})

	_, err := svc.CreateFromTrip(context.Background(), service.FromTripInput{})

	requireValidation(t, err, "tripId is required")
}

// ---- List / ToggleFavorite -------------------------------------------------

func TestTemplateService_List_NeverNil(t *testing.T) {
	svc := service.NewTemplateService(&mockTemplateRepo{
		list: func(_ context.Context) ([]domain.Template, error) { return nil, nil },
	}, &mockTripRepo{})

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestTemplateService_ToggleFavorite_PropagatesErrors(t *testing.T) {
	dbErr := errors.New("boom")
	svc := service.NewTemplateService(&mockTemplateRepo{
		toggleFavorite: func(_ context.Context, _ uuid.UUID) (domain.Template, error) { return domain.Template{}, dbErr },
	}, &mockTripRepo{})

	_, err := svc.ToggleFavorite(context.Background(), uuid.New())

	require.ErrorIs(t, err, dbErr)
}
