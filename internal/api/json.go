package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/lifemirror/lifemirror/internal/apperr"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// errBadBody marks a request body that could not be decoded.
var errBadBody = errors.New("invalid JSON body")

// decodeJSON reads a single JSON object into dst. Unknown fields, trailing
// data and bodies over maxBodyBytes are rejected. An empty body is accepted
// only when allowEmpty is set, leaving dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF) && allowEmpty:
			return nil
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: body is empty", errBadBody)
		case errors.As(err, &maxErr):
			return fmt.Errorf("%w: body exceeds %d bytes", errBadBody, maxErr.Limit)
		default:
			return fmt.Errorf("%w: %s", errBadBody, err.Error())
		}
	}
	if dec.More() {
		return fmt.Errorf("%w: unexpected data after JSON object", errBadBody)
	}
	return nil
}

// writeError maps err onto a status code and error body. Only server
// failures are logged at error level.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, errBadBody):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, invalidBody(err))
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrConflict):
		msg := "conflict"
		var ce *apperr.ConflictError
		if errors.As(err, &ce) {
			msg = ce.Msg
		}
		writeJSON(w, http.StatusConflict, errorBody(msg))
	default:
		owner, _ := ownerFrom(r)
		slog.Error(op+" failed",
			slog.String("owner", owner),
			slog.String("id", urlID(r)),
			slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func invalidBody(err error) errResponse {
	resp := errorBody("invalid data")
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var inv *apperr.InvalidError
		if errors.As(err, &inv) {
			resp.Error = inv.Err.Error()
		}
		return resp
	}
	resp.Fields = make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		if ferr != nil {
			resp.Fields[field] = ferr.Error()
		}
	}
	return resp
}
