package server

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/datextract/internal/extract"
	"github.com/sells-group/datextract/internal/locale"
	"github.com/sells-group/datextract/internal/model"
)

// annotateRequest is the body of POST /v1/annotations and of each websocket
// message. Unset fields fall back to the server defaults.
type annotateRequest struct {
	Text      string   `json:"text"`
	Source    string   `json:"source,omitempty"`
	Strict    *bool    `json:"strict,omitempty"`
	Locale    string   `json:"locale,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	BaseDate  string   `json:"base_date,omitempty"`
	Save      bool     `json:"save,omitempty"`
}

type annotateResponse struct {
	RunID       string                 `json:"run_id,omitempty"`
	Source      string                 `json:"source"`
	Annotations []model.DateAnnotation `json:"annotations"`
}

// params merges the request over the defaults. Errors are client errors.
func (s *Server) params(req annotateRequest) (extract.Params, error) {
	p := s.defaults
	if req.Strict != nil {
		p.Strict = *req.Strict
	}
	if req.Locale != "" {
		loc, err := locale.Resolve(req.Locale)
		if err != nil {
			return p, err
		}
		p.Locale = loc
	}
	if req.Threshold != nil {
		if *req.Threshold < 0 || *req.Threshold > 1 {
			return p, eris.New("threshold must be between 0 and 1")
		}
		p.Threshold = *req.Threshold
	}
	if req.BaseDate != "" {
		t, err := time.Parse("2006-01-02", req.BaseDate)
		if err != nil {
			return p, eris.Errorf("base_date %q must be YYYY-MM-DD", req.BaseDate)
		}
		p.BaseDate = t
	}
	return p, nil
}
