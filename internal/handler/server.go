// Package handler implements the HTTP handlers for the Fahrtenbuch API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (address.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/fahrtenbuch/internal/domain"
	"github.com/pkordes/fahrtenbuch/internal/service"
)

// AddressServicer defines the address book operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AddressServicer interface {
	List(ctx context.Context) ([]domain.Address, error)
	Resolve(ctx context.Context, in domain.AddressInput) (domain.Address, domain.ResolveOutcome, error)
	ForceUpdate(ctx context.Context, id uuid.UUID, patch domain.AddressPatch) (domain.Address, error)
	ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Address, error)
}

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, in service.TripInput) (domain.Trip, error)
	List(ctx context.Context) ([]domain.Trip, error)
	Recent(ctx context.Context) ([]domain.Trip, error)
}

// TemplateServicer defines the template operations the handlers depend on.
type TemplateServicer interface {
	Create(ctx context.Context, in service.TemplateInput) (domain.Template, error)
	CreateFromTrip(ctx context.Context, in service.FromTripInput) (domain.Template, error)
	List(ctx context.Context) ([]domain.Template, error)
	ToggleFavorite(ctx context.Context, id uuid.UUID) (domain.Template, error)
}

// ExportServicer produces the rows of the CSV export.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Pinger reports database reachability for the health check.
// *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies of every HTTP handler.
type Server struct {
	addresses AddressServicer
	trips     TripServicer
	templates TemplateServicer
	export    ExportServicer
	db        Pinger
}

// NewServer constructs the Server with all its dependencies.
// Any dependency may be nil in tests that do not exercise it; db == nil makes
// the health check report ok without a database round trip.
func NewServer(addresses AddressServicer, trips TripServicer, templates TemplateServicer, export ExportServicer, db Pinger) *Server {
	return &Server{
		addresses: addresses,
		trips:     trips,
		templates: templates,
		export:    export,
		db:        db,
	}
}

// Routes returns a chi router with every API endpoint registered.
// Global middleware (logging, recovery, CORS) is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/addresses", func(r chi.Router) {
		r.Get("/", s.ListAddresses)
		r.Post("/", s.ResolveAddress)
		r.Post("/{id}/favorite", s.ToggleAddressFavorite)
		r.Post("/{id}/force", s.ForceUpdateAddress)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Get("/recent", s.RecentTrips)
		r.Get("/export", s.ExportTrips)
	})

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", s.ListTemplates)
		r.Post("/", s.CreateTemplate)
		r.Post("/from-trip", s.CreateTemplateFromTrip)
		r.Post("/{id}/favorite", s.ToggleTemplateFavorite)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})
	return r
}
