package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/UnknownOlympus/locus/internal/models"
	"github.com/UnknownOlympus/locus/internal/service"
	"github.com/UnknownOlympus/locus/internal/validation"
	"github.com/julienschmidt/httprouter"
)

const maxBodyBytes = 1 << 20

// SchoolService is the part of the school service the handlers depend on.
type SchoolService interface {
	AddSchool(ctx context.Context, input service.NewSchool) (int64, error)
	ListSchoolsByProximity(ctx context.Context, query service.ProximityQuery) ([]models.RankedSchool, error)
	ListSchools(ctx context.Context) ([]models.School, error)
}

// HealthChecker reports whether the record store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type handlers struct {
	log     *slog.Logger
	schools SchoolService
	health  HealthChecker
}

// addSchool handles POST /addSchool.
func (h *handlers) addSchool(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input service.NewSchool
	if err := decodeJSON(w, r, &input); err != nil {
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			writeServiceError(w, r, h.log, vErr)
			return
		}
		writeError(w, r, h.log, http.StatusBadRequest, ErrorDetail{Code: ErrCodeBadRequest, Message: err.Error()})
		return
	}

	// The insert is awaited even if the client disconnects.
	id, err := h.schools.AddSchool(context.WithoutCancel(r.Context()), input)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusCreated, envelope{"id": id})
}

// listSchools handles GET /listSchools?latitude=..&longitude=.. .
func (h *handlers) listSchools(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	params := r.URL.Query()
	query := service.ProximityQuery{
		Latitude:  params.Get("latitude"),
		Longitude: params.Get("longitude"),
	}

	ranked, err := h.schools.ListSchoolsByProximity(context.WithoutCancel(r.Context()), query)
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, envelope{"data": ranked})
}

// allSchools handles GET /schools.
func (h *handlers) allSchools(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	schools, err := h.schools.ListSchools(context.WithoutCancel(r.Context()))
	if err != nil {
		writeServiceError(w, r, h.log, err)
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, envelope{"data": schools})
}

// healthz handles GET /healthz.
func (h *handlers) healthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.log.DebugContext(r.Context(), "Performing health checks...")

	if err := h.health.Ping(r.Context()); err != nil {
		h.log.ErrorContext(r.Context(), "Store ping failed", "error", err)
		writeJSON(w, r, h.log, http.StatusServiceUnavailable, envelope{"status": "store unavailable"})
		return
	}

	writeJSON(w, r, h.log, http.StatusOK, envelope{"status": "ok"})
}

// decodeJSON reads a single JSON object from the request body into dst.
// A value of the wrong type is reported as a *validation.Error naming the field.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var typeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &typeError):
			vErr := &validation.Error{}
			if typeError.Field != "" {
				vErr.Add("%s must be a %s", typeError.Field, jsonTypeName(typeError.Type))
			} else {
				vErr.Add("body must be a JSON object")
			}
			return vErr
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return fmt.Errorf("failed to decode body: %w", err)
		}
	}

	if err = dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}
