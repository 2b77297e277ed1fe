package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/ttgen/pkg/buildinfo"
	"github.com/matzehuels/ttgen/pkg/errors"
	"github.com/matzehuels/ttgen/pkg/loader"
	"github.com/matzehuels/ttgen/pkg/store"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type saveSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
}

type listResponse struct {
	Saves []saveSummary `json:"saves"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Current()})
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.Defaults
	q := r.URL.Query()
	if v := q.Get("strict"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "strict: %q is not a boolean", v))
			return
		}
		opts.Strict = b
	}
	if v := q.Get("seed"); v != "" {
		opts.Seed = v
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: "scene exceeds " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes",
				Code:  string(errors.ErrCodeInvalidInput),
			})
			return
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(body) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "empty body"))
		return
	}

	out, err := s.Runner.Execute(r.Context(), body, format, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if out.CacheHit {
		w.Header().Set(HeaderCache, "hit")
	} else {
		w.Header().Set(HeaderCache, "miss")
	}

	if s.Store != nil {
		doc := store.NewDocument(out.Name, out.Hash, out.Save)
		if err := s.Store.Put(r.Context(), doc); err != nil {
			s.Logger.Warn("archive failed", "scene", out.Name, "error", err)
		} else {
			w.Header().Set(HeaderSaveID, doc.ID)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out.Save)
}

func (s *Server) handleGetSave(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		s.writeError(w, errors.New(errors.ErrCodeNotFound, "save archive is disabled"))
		return
	}
	doc, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Save)
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, http.StatusOK, listResponse{Saves: []saveSummary{}})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit: %q is not a non-negative integer", v))
			return
		}
		limit = n
	}

	docs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	resp := listResponse{Saves: make([]saveSummary, 0, len(docs))}
	for _, d := range docs {
		resp.Saves = append(resp.Saves, saveSummary{ID: d.ID, Name: d.Name, Hash: d.Hash, CreatedAt: d.CreatedAt})
	}
	writeJSON(w, http.StatusOK, resp)
}

// requestFormat reads ?format, then Content-Type, defaulting to YAML.
func requestFormat(r *http.Request) (loader.Format, error) {
	if v := r.URL.Query().Get("format"); v != "" {
		return loader.ParseFormat(v)
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err == nil {
			switch {
			case mt == "application/json" || strings.HasSuffix(mt, "+json"):
				return loader.FormatJSON, nil
			case strings.HasSuffix(mt, "toml"):
				return loader.FormatTOML, nil
			}
		}
	}
	return loader.FormatYAML, nil
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.IsInput(err), errors.Is(err, errors.ErrCodeAssetNotFound):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error(), Code: string(errors.GetCode(err))}
	if status == http.StatusInternalServerError {
		s.Logger.Error("request failed", "error", err)
		resp.Error = "internal error"
		if resp.Code == "" {
			resp.Code = string(errors.ErrCodeInternal)
		}
	} else {
		resp.Error = errors.UserMessage(err)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
