package handler

import (
	"net/http"

	"github.com/pkordes/fahrtenbuch/internal/service"
)

type createTemplateRequest struct {
	Name           looseText `json:"name"`
	StartAddressID string    `json:"startAddressId"`
	DestAddressID  string    `json:"destAddressId"`
	Purpose        string    `json:"purpose"`
	Project        looseText `json:"project"`
	NotesHint      looseText `json:"notesHint"`
	Favorite       looseBool `json:"favorite"`
}

type templateFromTripRequest struct {
	TripID    string    `json:"tripId"`
	Name      looseText `json:"name"`
	NotesHint looseText `json:"notesHint"`
	Favorite  looseBool `json:"favorite"`
}

// ListTemplates handles GET /templates.
func (s *Server) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.List(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

// CreateTemplate handles POST /templates.
func (s *Server) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.templates.Create(r.Context(), service.TemplateInput{
		Name:           req.Name.String(),
		StartAddressID: req.StartAddressID,
		DestAddressID:  req.DestAddressID,
		Purpose:        req.Purpose,
		Project:        req.Project.String(),
		NotesHint:      req.NotesHint.String(),
		Favorite:       bool(req.Favorite),
	})
	if err != nil {
		writeError(w, r, err, "template not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CreateTemplateFromTrip handles POST /templates/from-trip.
func (s *Server) CreateTemplateFromTrip(w http.ResponseWriter, r *http.Request) {
	var req templateFromTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.templates.CreateFromTrip(r.Context(), service.FromTripInput{
		TripID:    req.TripID,
		Name:      req.Name.String(),
		NotesHint: req.NotesHint.String(),
		Favorite:  bool(req.Favorite),
	})
	if err != nil {
		writeError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ToggleTemplateFavorite handles POST /templates/{id}/favorite.
func (s *Server) ToggleTemplateFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "template not found"))
		return
	}

	tpl, err := s.templates.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "template not found")
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}
