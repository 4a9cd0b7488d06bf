package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/sitewise-labs/ramsgen/internal/common"
	"github.com/sitewise-labs/ramsgen/internal/fields"
	"github.com/sitewise-labs/ramsgen/internal/generate"
	"github.com/sitewise-labs/ramsgen/internal/rams"
	"github.com/sitewise-labs/ramsgen/internal/render"
)

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleExtractFields(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, fields.Extract(req.Text))
}

func (s *Server) handleScopeSummary(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.generator.ExtractScopeData(r.Context(), req.Text))
}

type generateRequest struct {
	ScopeText      string               `json:"scopeText"`
	OrganizationID string               `json:"organizationId"`
	JobDetails     *generate.JobDetails `json:"jobDetails"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.ScopeText) == "" {
		s.writeError(w, r, common.NewAppError("BAD_REQUEST", "scopeText is required", common.ErrInvalidInput))
		return
	}

	content, err := s.generator.GenerateFromScope(r.Context(), req.ScopeText, req.OrganizationID, req.JobDetails)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, content)
}

type exportRequest struct {
	Content rams.Content `json:"content"`
	Format  string       `json:"format"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Content) == 0 {
		s.writeError(w, r, common.NewAppError("BAD_REQUEST", "content is required", common.ErrInvalidInput))
		return
	}
	format := render.Format(strings.ToLower(req.Format))

	doc, err := render.Render(req.Content, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	stem := rams.Normalize(req.Content).JobNumber
	if stem == "" {
		stem = "export"
	}
	filename := fmt.Sprintf("RAMS-%s.%s", stem, format)

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc); err != nil {
		s.logger.Error("http.write_failed", "error", err)
	}
}

func (s *Server) handleNearestHospital(w http.ResponseWriter, r *http.Request) {
	postcode := r.URL.Query().Get("postcode")
	if strings.TrimSpace(postcode) == "" {
		s.writeError(w, r, common.NewAppError("BAD_REQUEST", "postcode query parameter is required", common.ErrInvalidInput))
		return
	}
	s.writeJSON(w, http.StatusOK, s.finder.FindNearestByPostcode(r.Context(), postcode))
}
