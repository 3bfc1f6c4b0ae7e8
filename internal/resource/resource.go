// Package resource exposes list and detail endpoints whose bodies can be
// upgraded per request with extended=1 and extend_fields.
package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/animus-labs/animus-views/internal/extended"
	"github.com/animus-labs/animus-views/internal/platform/httpserver"
)

// Handler serves one resource type T.
type Handler[T any] struct {
	// Name is the key the collection is returned under in list bodies.
	Name string

	Serializer extended.Serializer[T]
	// ExtendedSerializer is optional. When nil the extended and
	// extend_fields parameters are ignored.
	ExtendedSerializer extended.Serializer[T]

	Lookup func(r *http.Request) (T, error)
	Query  func(r *http.Request) ([]T, error)

	Logger *slog.Logger
}

func (h Handler[T]) strategies() extended.Strategies[T] {
	s := extended.Strategies[T]{Default: h.Serializer}
	if h.ExtendedSerializer != nil {
		s.Extended = h.ExtendedSerializer
	}
	return s
}

// Retrieve looks up one item and serializes it under the request's
// response shape.
func (h Handler[T]) Retrieve(r *http.Request) (extended.Result, error) {
	if h.Lookup == nil {
		return extended.Result{}, errors.New("resource: lookup is not configured")
	}
	return extended.Shape(r.Context(), r.URL.Query(), h.strategies(), func(ctx context.Context, s extended.Serializer[T]) (extended.Result, error) {
		item, err := h.Lookup(r)
		if err != nil {
			return extended.Result{}, err
		}
		rec, err := s.Serialize(ctx, item)
		if err != nil {
			return extended.Result{}, fmt.Errorf("serialize %s: %w", h.Name, err)
		}
		return extended.Result{Status: http.StatusOK, Data: extended.Single{Record: rec}}, nil
	})
}

// List queries the collection and serializes it under the request's
// response shape.
func (h Handler[T]) List(r *http.Request) (extended.Result, error) {
	if h.Query == nil {
		return extended.Result{}, errors.New("resource: query is not configured")
	}
	return extended.Shape(r.Context(), r.URL.Query(), h.strategies(), func(ctx context.Context, s extended.Serializer[T]) (extended.Result, error) {
		items, err := h.Query(r)
		if err != nil {
			return extended.Result{}, err
		}
		data, err := extended.SerializeAll(ctx, s, items)
		if err != nil {
			return extended.Result{}, fmt.Errorf("serialize %s: %w", h.Name, err)
		}
		return extended.Result{Status: http.StatusOK, Data: data}, nil
	})
}

func (h Handler[T]) ServeRetrieve(w http.ResponseWriter, r *http.Request) {
	result, err := h.Retrieve(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.WriteJSON(w, result.Status, result.Data)
}

func (h Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	result, err := h.List(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpserver.WriteJSON(w, result.Status, map[string]any{h.Name: result.Data})
}

func (h Handler[T]) fail(w http.ResponseWriter, r *http.Request, err error) {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		httpserver.WriteError(w, r, statusErr.Status, statusErr.Code)
	case errors.Is(err, extended.ErrInvalidExtended):
		httpserver.WriteError(w, r, http.StatusBadRequest, "invalid_extended")
	default:
		if h.Logger != nil {
			requestID, _ := httpserver.RequestIDFromContext(r.Context())
			h.Logger.Error("resource request failed", "resource", h.Name, "request_id", requestID, "error", err)
		}
		httpserver.WriteError(w, r, http.StatusInternalServerError, "internal_error")
	}
}
