package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/fahrtenbuch/internal/domain"
	"github.com/pkordes/fahrtenbuch/internal/handler"
)

func addressFixture() domain.Address {
	now := time.Now().UTC()
	return domain.Address{
		ID:        uuid.New(),
		Label:     "Office",
		Street:    strPtr("Hauptstraße 1"),
		City:      strPtr("Berlin"),
		Country:   "DE",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestListAddresses(t *testing.T) {
	a := addressFixture()
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		list: func(_ context.Context) ([]domain.Address, error) { return []domain.Address{a}, nil },
	}})

	rec := do(t, h, http.MethodGet, "/addresses", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[[]map[string]any](t, rec)
	require.Len(t, body, 1)
	assert.Equal(t, a.ID.String(), body[0]["id"])
	assert.Equal(t, "Office", body[0]["label"])
	assert.Nil(t, body[0]["zip"], "absent field is JSON null")
	assert.Equal(t, false, body[0]["favorite"])
	assert.Contains(t, body[0], "createdAt")
}

func TestListAddresses_EmptyIsArray(t *testing.T) {
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		list: func(_ context.Context) ([]domain.Address, error) { return []domain.Address{}, nil },
	}})

	rec := do(t, h, http.MethodGet, "/addresses", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestResolveAddress_StatusByOutcome(t *testing.T) {
	tests := []struct {
		outcome domain.ResolveOutcome
		status  int
	}{
		{domain.OutcomeCreated, http.StatusCreated},
		{domain.OutcomeMerged, http.StatusOK},
		{domain.OutcomeUnchanged, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.outcome.String(), func(t *testing.T) {
			var got domain.AddressInput
			h := newHTTPHandler(deps{addresses: &mockAddressServicer{
				resolve: func(_ context.Context, in domain.AddressInput) (domain.Address, domain.ResolveOutcome, error) {
					got = in
					return addressFixture(), tc.outcome, nil
				},
			}})

			rec := do(t, h, http.MethodPost, "/addresses",
				`{"label":"Office","street":"Hauptstraße 1","city":"Berlin","favorite":true}`)

			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, "Office", got.Label)
			assert.Equal(t, strPtr("Hauptstraße 1"), got.Street)
			assert.Nil(t, got.Zip)
			assert.True(t, got.Favorite)
		})
	}
}

func TestResolveAddress_Conflict(t *testing.T) {
	existing := addressFixture()
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		resolve: func(_ context.Context, in domain.AddressInput) (domain.Address, domain.ResolveOutcome, error) {
			return domain.Address{}, 0, &domain.ConflictError{
				Existing: existing,
				Incoming: in,
				Fields: map[string]domain.FieldConflict{
					"street": {Existing: "Hauptstraße 1", Incoming: "Nebenweg 2"},
				},
			}
		},
	}})

	rec := do(t, h, http.MethodPost, "/addresses", `{"label":"office","street":"Nebenweg 2"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody[handler.ConflictResponse](t, rec)
	assert.True(t, body.Conflict)
	assert.Equal(t, "conflict", body.Error.Code)
	assert.Equal(t, existing.ID, body.Existing.ID)
	assert.Equal(t, "office", body.Incoming.Label)
	assert.Equal(t, domain.FieldConflict{Existing: "Hauptstraße 1", Incoming: "Nebenweg 2"}, body.Fields["street"])
}

func TestResolveAddress_Validation(t *testing.T) {
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		resolve: func(_ context.Context, _ domain.AddressInput) (domain.Address, domain.ResolveOutcome, error) {
			return domain.Address{}, 0, domain.NewValidationError("label is required")
		},
	}})

	rec := do(t, h, http.MethodPost, "/addresses", `{"label":"  "}`)

	body := requireError(t, rec, http.StatusBadRequest, "validation_error")
	assert.Equal(t, "label is required", body.Error.Message)
}

func TestResolveAddress_BadBody(t *testing.T) {
	h := newHTTPHandler(deps{})

	for name, raw := range map[string]string{
		"malformed":        `{"label":`,
		"object as label":  `{"label":{"name":"Office"}}`,
		"array as zip":     `{"label":"Office","zip":["10115"]}`,
		"unknown favorite": `{"label":"Office","favorite":"maybe"}`,
		"empty":            "",
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/addresses", raw)

			requireError(t, rec, http.StatusBadRequest, "validation_error")
		})
	}
}

// Clients send zip codes as numbers and flags as strings; both are coerced.
func TestResolveAddress_CoercesScalars(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantZip      *string
		wantLabel    string
		wantFavorite bool
	}{
		{"numeric zip", `{"label":"Office","zip":10115}`, strPtr("10115"), "Office", false},
		{"numeric label", `{"label":42,"zip":"01067"}`, strPtr("01067"), "42", false},
		{"string true", `{"label":"Office","favorite":"true"}`, nil, "Office", true},
		{"string false", `{"label":"Office","favorite":"false"}`, nil, "Office", false},
		{"number one", `{"label":"Office","favorite":1}`, nil, "Office", true},
		{"null favorite", `{"label":"Office","favorite":null}`, nil, "Office", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got domain.AddressInput
			h := newHTTPHandler(deps{addresses: &mockAddressServicer{
				resolve: func(_ context.Context, in domain.AddressInput) (domain.Address, domain.ResolveOutcome, error) {
					got = in
					return addressFixture(), domain.OutcomeCreated, nil
				},
			}})

			rec := do(t, h, http.MethodPost, "/addresses", tc.body)

			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
			assert.Equal(t, tc.wantLabel, got.Label)
			assert.Equal(t, tc.wantZip, got.Zip)
			assert.Equal(t, tc.wantFavorite, got.Favorite)
		})
	}
}

func TestResolveAddress_InternalErrorHidesCause(t *testing.T) {
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		resolve: func(_ context.Context, _ domain.AddressInput) (domain.Address, domain.ResolveOutcome, error) {
			return domain.Address{}, 0, errors.New("pq: password authentication failed")
		},
	}})

	rec := do(t, h, http.MethodPost, "/addresses", `{"label":"Office"}`)

	body := requireError(t, rec, http.StatusInternalServerError, "internal_error")
	assert.NotContains(t, body.Error.Message, "password")
}

func TestToggleAddressFavorite(t *testing.T) {
	a := addressFixture()
	a.Favorite = true
	var gotID uuid.UUID
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		toggleFavorite: func(_ context.Context, id uuid.UUID) (domain.Address, error) {
			gotID = id
			return a, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/addresses/"+a.ID.String()+"/favorite", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, a.ID, gotID)
	body := decodeBody[domain.Address](t, rec)
	assert.True(t, body.Favorite)
}

func TestToggleAddressFavorite_NotFound(t *testing.T) {
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		toggleFavorite: func(_ context.Context, _ uuid.UUID) (domain.Address, error) {
			return domain.Address{}, domain.ErrNotFound
		},
	}})

	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		rec := do(t, h, http.MethodPost, "/addresses/"+id+"/favorite", "")

		body := requireError(t, rec, http.StatusNotFound, "not_found")
		assert.Equal(t, "address not found", body.Error.Message)
	}
}

func TestForceUpdateAddress_OnlyPresentFields(t *testing.T) {
	id := uuid.New()
	var got domain.AddressPatch
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		forceUpdate: func(_ context.Context, gotID uuid.UUID, patch domain.AddressPatch) (domain.Address, error) {
			require.Equal(t, id, gotID)
			got = patch
			return addressFixture(), nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/addresses/"+id.String()+"/force",
		`{"street":"Nebenweg 2","zip":null,"favorite":"true"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.Some(strPtr("Nebenweg 2")), got.Street)
	assert.True(t, got.Zip.Set, "explicit null is present")
	assert.Nil(t, got.Zip.Value)
	assert.False(t, got.City.Set, "omitted field is not touched")
	assert.Equal(t, domain.Some(true), got.Favorite)
}

func TestForceUpdateAddress_NumericZip(t *testing.T) {
	var got domain.AddressPatch
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		forceUpdate: func(_ context.Context, _ uuid.UUID, patch domain.AddressPatch) (domain.Address, error) {
			got = patch
			return addressFixture(), nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/addresses/"+uuid.NewString()+"/force", `{"zip":10115,"favorite":0}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.Some(strPtr("10115")), got.Zip)
	assert.Equal(t, domain.Some(false), got.Favorite)
	assert.False(t, got.Street.Set)
}

func TestForceUpdateAddress_NotFound(t *testing.T) {
	h := newHTTPHandler(deps{addresses: &mockAddressServicer{
		forceUpdate: func(_ context.Context, _ uuid.UUID, _ domain.AddressPatch) (domain.Address, error) {
			return domain.Address{}, domain.ErrNotFound
		},
	}})

	rec := do(t, h, http.MethodPost, "/addresses/"+uuid.NewString()+"/force", `{"city":"Berlin"}`)

	requireError(t, rec, http.StatusNotFound, "not_found")
}
