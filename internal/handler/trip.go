package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/fahrtenbuch/internal/service"
)

// createTripRequest keeps the odometer readings raw so that numeric strings
// are accepted and anything else is reported as "not a number".
type createTripRequest struct {
	StartAddressID string          `json:"startAddressId"`
	DestAddressID  string          `json:"destAddressId"`
	StartKm        json.RawMessage `json:"startKm"`
	EndKm          json.RawMessage `json:"endKm"`
	Purpose        string          `json:"purpose"`
	Project        string          `json:"project"`
	Notes          string          `json:"notes"`
	Date           string          `json:"date"`
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.List(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// RecentTrips handles GET /trips/recent.
func (s *Server) RecentTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.Recent(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.trips.Create(r.Context(), service.TripInput{
		StartAddressID: req.StartAddressID,
		DestAddressID:  req.DestAddressID,
		StartKm:        number(req.StartKm),
		EndKm:          number(req.EndKm),
		Purpose:        req.Purpose,
		Project:        req.Project,
		Notes:          req.Notes,
		Date:           req.Date,
	})
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
