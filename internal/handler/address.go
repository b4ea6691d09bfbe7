package handler

import (
	"net/http"

	"github.com/pkordes/fahrtenbuch/internal/domain"
)

type resolveAddressRequest struct {
	Label    looseText `json:"label"`
	Street   looseText `json:"street"`
	Zip      looseText `json:"zip"`
	City     looseText `json:"city"`
	Favorite looseBool `json:"favorite"`
}

// forceAddressRequest only touches the fields present in the body.
type forceAddressRequest struct {
	Street   optionalText `json:"street"`
	Zip      optionalText `json:"zip"`
	City     optionalText `json:"city"`
	Favorite optionalBool `json:"favorite"`
}

// ListAddresses handles GET /addresses.
func (s *Server) ListAddresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := s.addresses.List(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, addresses)
}

// ResolveAddress handles POST /addresses.
// 201 when a new address was created, 200 when an existing one was merged or
// already matched, 409 with a field diff when the input conflicts.
func (s *Server) ResolveAddress(w http.ResponseWriter, r *http.Request) {
	var req resolveAddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	a, outcome, err := s.addresses.Resolve(r.Context(), domain.AddressInput{
		Label:    req.Label.String(),
		Street:   req.Street.value,
		Zip:      req.Zip.value,
		City:     req.City.value,
		Favorite: bool(req.Favorite),
	})
	if err != nil {
		writeError(w, r, err, "address not found")
		return
	}

	status := http.StatusOK
	if outcome == domain.OutcomeCreated {
		status = http.StatusCreated
	}
	writeJSON(w, status, a)
}

// ToggleAddressFavorite handles POST /addresses/{id}/favorite.
func (s *Server) ToggleAddressFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "address not found"))
		return
	}

	a, err := s.addresses.ToggleFavorite(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "address not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ForceUpdateAddress handles POST /addresses/{id}/force.
// It overwrites the supplied fields without conflict detection.
func (s *Server) ForceUpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "address not found"))
		return
	}

	var req forceAddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var patch domain.AddressPatch
	if req.Street.set {
		patch.Street = domain.Some(req.Street.value)
	}
	if req.Zip.set {
		patch.Zip = domain.Some(req.Zip.value)
	}
	if req.City.set {
		patch.City = domain.Some(req.City.value)
	}
	if req.Favorite.set {
		patch.Favorite = domain.Some(bool(req.Favorite.value))
	}

	a, err := s.addresses.ForceUpdate(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err, "address not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}
