package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Generic CRUD handlers shared by every resource. Each takes the service
// method it delegates to; the owner always comes from the request context.

func urlID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// requireOwner writes 401 and returns false when the context has no owner.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := ownerFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
	}
	return owner, ok
}

func handleList[T any](name string, list func(ctx context.Context, owner string) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireOwner(w, r)
		if !ok {
			return
		}
		items, err := list(r.Context(), owner)
		if err != nil {
			writeError(w, r, "list "+name, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func handleGet[T any](name string, get func(ctx context.Context, owner, id string) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireOwner(w, r)
		if !ok {
			return
		}
		item, err := get(r.Context(), owner, urlID(r))
		if err != nil {
			writeError(w, r, "get "+name, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

func handleCreate[In, T any](name string, create func(ctx context.Context, owner string, in In) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireOwner(w, r)
		if !ok {
			return
		}
		var in In
		if err := decodeJSON(w, r, &in, false); err != nil {
			writeError(w, r, "create "+name, err)
			return
		}
		item, err := create(r.Context(), owner, in)
		if err != nil {
			writeError(w, r, "create "+name, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

// handleUpdate serves PUT-style partial updates and resource actions.
// allowEmpty lets actions with optional bodies accept an empty request.
func handleUpdate[In, T any](name string, update func(ctx context.Context, owner, id string, in In) (T, error), allowEmpty bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireOwner(w, r)
		if !ok {
			return
		}
		var in In
		if err := decodeJSON(w, r, &in, allowEmpty); err != nil {
			writeError(w, r, "update "+name, err)
			return
		}
		item, err := update(r.Context(), owner, urlID(r), in)
		if err != nil {
			writeError(w, r, "update "+name, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func handleDelete(name string, del func(ctx context.Context, owner, id string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, ok := requireOwner(w, r)
		if !ok {
			return
		}
		id := urlID(r)
		if err := del(r.Context(), owner, id); err != nil {
			writeError(w, r, "delete "+name, err)
			return
		}
		writeJSON(w, http.StatusOK, deleteResponse{ID: id, Deleted: true})
	}
}
