package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"parish.org/internal/audit"
	"parish.org/internal/auth"
	"parish.org/internal/membership"
	"parish.org/internal/query"
	"parish.org/internal/repo"
)

// mount registers the CRUD routes of one collection.
func mount[T any](mux *http.ServeMux, collection string, m *membership.Manager[T]) {
	base := "/" + collection
	item := base + "/{id}"

	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		page, err := m.FindAll(r.Context(), actor(r), params(r))
		if err != nil {
			writeManagerError(w, r, err)
			return
		}
		if page.Results == nil {
			page.Results = []T{}
		}
		writeJSON(w, http.StatusOK, page)
	})

	mux.HandleFunc("POST "+base, func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		out, err := m.Create(r.Context(), actor(r), in)
		if err != nil {
			writeManagerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	})

	mux.HandleFunc("DELETE "+base, func(w http.ResponseWriter, r *http.Request) {
		if err := m.Delete(r.Context(), actor(r), params(r)); err != nil {
			writeManagerError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("GET "+item, func(w http.ResponseWriter, r *http.Request) {
		out, err := m.FindByID(r.Context(), actor(r), r.PathValue("id"), params(r))
		if err != nil {
			writeManagerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})

	mux.HandleFunc("PUT "+item, func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := decodeJSON(w, r, &in); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		out, err := m.Update(r.Context(), actor(r), r.PathValue("id"), in)
		if err != nil {
			writeManagerError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	})

	mux.HandleFunc("DELETE "+item, func(w http.ResponseWriter, r *http.Request) {
		if err := m.DeleteByID(r.Context(), actor(r), r.PathValue("id")); err != nil {
			writeManagerError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// params decodes the compiled query wire format from the URL.
func params(r *http.Request) query.Params {
	return query.ParseValues(r.URL.Query())
}

func actor(r *http.Request) auth.Session {
	if s, ok := auth.SessionFromContext(r.Context()); ok {
		return s
	}
	return auth.Anonymous
}

func writeManagerError(w http.ResponseWriter, r *http.Request, err error) {
	var permErr *auth.PermissionError
	switch {
	case errors.As(err, &permErr):
		payload := errorPayload(r, permErr.Error())
		payload["requiredPermissions"] = permErr.RequiredPermissions()
		writeJSON(w, http.StatusForbidden, payload)
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	case errors.Is(err, membership.ErrUnfilteredDelete):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, repo.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func errorPayload(r *http.Request, msg string) map[string]any {
	payload := map[string]any{"message": msg}
	if rid := audit.RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	return payload
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	writeJSON(w, code, errorPayload(r, msg))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
