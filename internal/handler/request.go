package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
)

// decodeJSON reads the request body into v and writes the error response
// itself when that fails. It reports whether the handler should continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("request_too_large", "request body too large"))
	case errors.Is(err, io.EOF):
		writeJSON(w, http.StatusBadRequest, errorBody("validation_error", "request body is required"))
	default:
		writeJSON(w, http.StatusBadRequest, errorBody("validation_error", "invalid JSON body"))
	}
	return false
}

// pathID binds the {id} URL parameter the same way generated OpenAPI servers
// do. An id that is not a UUID cannot name a stored record, so callers treat
// ok == false as not found.
func pathID(r *http.Request) (uuid.UUID, bool) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// looseText is a JSON text field that also takes numbers and booleans, which
// clients send for values such as zip codes. Numbers keep their literal
// spelling. null reads as absent; objects and arrays are rejected.
type looseText struct {
	value *string
}

func (t *looseText) UnmarshalJSON(b []byte) error {
	v, err := decodeScalar(b)
	if err != nil {
		return err
	}
	t.value = nil
	switch x := v.(type) {
	case nil:
	case string:
		t.value = &x
	case json.Number:
		s := x.String()
		t.value = &s
	case bool:
		s := strconv.FormatBool(x)
		t.value = &s
	}
	return nil
}

// String returns the text, or "" when absent.
func (t looseText) String() string {
	if t.value == nil {
		return ""
	}
	return *t.value
}

// looseBool is a JSON boolean that also takes the strings understood by
// strconv.ParseBool and numbers (non-zero is true). null and "" read as false.
type looseBool bool

func (f *looseBool) UnmarshalJSON(b []byte) error {
	v, err := decodeScalar(b)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = looseBool(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return err
		}
		*f = n != 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			*f = false
			return nil
		}
		parsed, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("not a boolean: %q", x)
		}
		*f = looseBool(parsed)
	}
	return nil
}

// decodeScalar decodes a JSON null, boolean, number or string.
func decodeScalar(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch v.(type) {
	case nil, bool, json.Number, string:
		return v, nil
	default:
		return nil, fmt.Errorf("expected a scalar, got %s", b)
	}
}

// optionalText is a looseText that also records whether the field was
// present (including explicit null).
type optionalText struct {
	set bool
	looseText
}

func (o *optionalText) UnmarshalJSON(b []byte) error {
	o.set = true
	return o.looseText.UnmarshalJSON(b)
}

// optionalBool is the boolean counterpart of optionalText. null reads as false.
type optionalBool struct {
	set   bool
	value looseBool
}

func (o *optionalBool) UnmarshalJSON(b []byte) error {
	o.set = true
	return o.value.UnmarshalJSON(b)
}

// number reads a JSON number or numeric string. It returns nil for absent,
// null, or non-numeric values so the service can report them.
func number(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return &f
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}
