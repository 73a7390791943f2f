package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/datextract/internal/extract"
	"github.com/sells-group/datextract/internal/model"
	"github.com/sells-group/datextract/internal/store"
)

const defaultSource = "api"

func (s *Server) handleAnnotations(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)

	var req annotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if req.Save && s.store == nil {
		writeError(w, http.StatusBadRequest, "run persistence is not configured")
		return
	}
	p, err := s.params(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Source == "" {
		req.Source = defaultSource
	}

	anns := extract.CollectAnnotations(s.ext.Annotations(req.Text, p))
	resp := annotateResponse{Source: req.Source, Annotations: anns}

	if req.Save {
		runID, err := s.saveRun(r.Context(), req.Source, p, anns)
		if err != nil {
			s.log.Error("server: save run failed", zap.String("source", req.Source), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save run")
			return
		}
		resp.RunID = runID
	}

	writeJSON(w, http.StatusOK, resp)
}

// saveRun records a completed run. Partial failures mark the run failed.
func (s *Server) saveRun(ctx context.Context, source string, p extract.Params, anns []model.DateAnnotation) (string, error) {
	run, err := s.store.CreateRun(ctx, source, p.Record())
	if err != nil {
		return "", err
	}
	if err := s.store.SaveAnnotations(ctx, run.ID, anns); err != nil {
		if ferr := s.store.FailRun(ctx, run.ID, err); ferr != nil {
			s.log.Warn("server: mark run failed", zap.String("run_id", run.ID), zap.Error(ferr))
		}
		return "", err
	}
	if err := s.store.CompleteRun(ctx, run.ID); err != nil {
		return "", err
	}
	return run.ID, nil
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run persistence is not configured")
		return
	}

	q := r.URL.Query()
	filter := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		Source: q.Get("source"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.log.Error("server: list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run persistence is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(r.Context(), id)
	if eris.Is(err, store.ErrRunNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.log.Error("server: get run failed", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, eris.Errorf("invalid integer %q", s)
	}
	return n, nil
}
