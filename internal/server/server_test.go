package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitewise-labs/ramsgen/internal/common"
	"github.com/sitewise-labs/ramsgen/internal/generate"
	"github.com/sitewise-labs/ramsgen/internal/hospitals"
	"github.com/sitewise-labs/ramsgen/internal/llm"
	"github.com/sitewise-labs/ramsgen/internal/rams"
)

type stubGenerator struct {
	content   rams.Content
	err       error
	summary   generate.ScopeSummary
	lastScope string
	lastOrg   string
}

func (g *stubGenerator) GenerateFromScope(_ context.Context, scopeText, organizationID string, _ *generate.JobDetails) (rams.Content, error) {
	g.lastScope = scopeText
	g.lastOrg = organizationID
	return g.content, g.err
}

func (g *stubGenerator) ExtractScopeData(_ context.Context, _ string) generate.ScopeSummary {
	return g.summary
}

type stubFinder struct {
	contact hospitals.Contact
}

func (f *stubFinder) FindNearestByPostcode(_ context.Context, postcode string) hospitals.Contact {
	c := f.contact
	c.Postcode = hospitals.NormalizePostcode(postcode)
	return c
}

func newTestServer(gen *stubGenerator, health HealthChecker) *Server {
	return New(gen, &stubFinder{contact: hospitals.Contact{HospitalName: "St George's Hospital", Phone: "020 8672 1255"}}, health, nil)
}

func postJSON(t *testing.T, srv http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, func(context.Context) error { return nil })
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestHealthz_DependencyDown(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, func(context.Context) error { return common.ErrDatabase })
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "UNHEALTHY", decodeError(t, rr).Error.Code)
}

func TestExtractFields(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := postJSON(t, srv, "/v1/jobs/extract-fields",
		`{"text":"Project Name: Steel Beam Install\nClient: Acme Ltd\nPostcode SW1A 1AA"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "Steel Beam Install", out["projectName"])
	assert.Equal(t, "SW1A1AA", out["sitePostcode"])
}

func TestScopeSummary(t *testing.T) {
	gen := &stubGenerator{summary: generate.ScopeSummary{WorkDescription: "Install steel beams", Equipment: []string{"crane"}}}
	srv := newTestServer(gen, nil)
	rr := postJSON(t, srv, "/v1/scope/summary", `{"text":"some scope"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	var out generate.ScopeSummary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "Install steel beams", out.WorkDescription)
}

func TestGenerate_Success(t *testing.T) {
	gen := &stubGenerator{content: rams.Content{"activityDescription": "Steelwork"}}
	srv := newTestServer(gen, nil)
	rr := postJSON(t, srv, "/v1/rams/generate",
		`{"scopeText":"install beams","organizationId":"org-1","jobDetails":{"clientName":"Acme"}}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "install beams", gen.lastScope)
	assert.Equal(t, "org-1", gen.lastOrg)
	assert.Contains(t, rr.Body.String(), "Steelwork")
}

func TestGenerate_MissingScopeText(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := postJSON(t, srv, "/v1/rams/generate", `{"scopeText":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rr).Error.Code)
}

// failingCompleter stands in for a generation service that is down.
type failingCompleter struct {
	err error
}

func (f failingCompleter) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return "", f.err
}

// The status mapping is exercised through the real orchestrator here, so the
// error chain under test is the one production code actually builds.
func TestGenerate_GenerationFailureIsBadGateway(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rate limited upstream", &llm.ServiceError{Kind: llm.KindRateLimited, Status: 429, Message: "quota"}},
		{"untyped transport failure", errors.New("connection reset")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := generate.NewOrchestrator(failingCompleter{err: tt.err}, nil, 0.7, nil)
			srv := New(orch, &stubFinder{}, nil, nil)
			rr := postJSON(t, srv, "/v1/rams/generate", `{"scopeText":"install beams"}`)

			assert.Equal(t, http.StatusBadGateway, rr.Code)
			assert.Equal(t, "GENERATION_FAILED", decodeError(t, rr).Error.Code)
		})
	}
}

func TestGenerate_UnreadableReplyIsBadGateway(t *testing.T) {
	orch := generate.NewOrchestrator(staticCompleter{reply: "prose, not JSON"}, nil, 0.7, nil)
	srv := New(orch, &stubFinder{}, nil, nil)
	rr := postJSON(t, srv, "/v1/rams/generate", `{"scopeText":"install beams"}`)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "GENERATION_FAILED", decodeError(t, rr).Error.Code)
}

type staticCompleter struct {
	reply string
}

func (s staticCompleter) Complete(context.Context, llm.CompletionRequest) (string, error) {
	return s.reply, nil
}

func TestExport_PDF(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := postJSON(t, srv, "/v1/rams/export",
		`{"format":"pdf","content":{"jobNumber":"J-100","activityDescription":"Steelwork","hazards":[]}}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "RAMS-J-100.pdf")
	assert.True(t, strings.HasPrefix(rr.Body.String(), "%PDF"))
}

func TestExport_UnsupportedFormat(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := postJSON(t, srv, "/v1/rams/export", `{"format":"csv","content":{"activityDescription":"x"}}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "RENDER_FAILED", decodeError(t, rr).Error.Code)
}

func TestExport_EmptyContent(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := postJSON(t, srv, "/v1/rams/export", `{"format":"pdf"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestNearestHospital(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/hospitals/nearest?postcode=sw17+0qt", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var contact hospitals.Contact
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &contact))
	assert.Equal(t, "SW170QT", contact.Postcode)
	assert.Equal(t, "St George's Hospital", contact.HospitalName)
}

func TestNearestHospital_MissingPostcode(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/hospitals/nearest", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBadJSONBody(t *testing.T) {
	srv := newTestServer(&stubGenerator{}, nil)
	rr := postJSON(t, srv, "/v1/rams/generate", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "BAD_REQUEST", decodeError(t, rr).Error.Code)
}
