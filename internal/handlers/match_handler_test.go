package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitmate/match-engine/internal/config"
	"recruitmate/match-engine/internal/models"
	"recruitmate/match-engine/internal/services"
)

type stubDispatcher struct {
	lastReq *models.MatchRequest
	resp    *models.MatchResponse
	err     error
}

func (s *stubDispatcher) Start(context.Context) {}
func (s *stubDispatcher) Stop()                 {}

func (s *stubDispatcher) Dispatch(_ context.Context, req *models.MatchRequest) (*models.MatchResponse, error) {
	s.lastReq = req
	return s.resp, s.err
}

type stubPDFParser struct {
	text string
	err  error
}

func (s *stubPDFParser) ExtractText(io.ReaderAt, int64) (string, error) {
	return s.text, s.err
}

func testEngineConfig() *config.EngineConfig {
	return &config.EngineConfig{
		DefaultAlpha:    0.7,
		MinInputLength:  50,
		MinChunkTokens:  3,
		GoodThreshold:   0.65,
		MediumThreshold: 0.45,
		WeakThreshold:   0.30,
	}
}

func newTestApp(dispatcher services.MatchDispatcher, pdfParser services.PDFParserService) *fiber.App {
	cfg := testEngineConfig()
	handler := NewMatchHandler(dispatcher, pdfParser, services.NewResponseCurator(cfg), cfg)

	app := fiber.New()
	app.Post("/api/v1/match", handler.HandleMatch)
	app.Post("/api/v1/match/pdf", handler.HandleMatchPDF)
	return app
}

func longText(prefix string) string {
	return prefix + " " + strings.Repeat("lorem ipsum dolor sit amet ", 4)
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHandleMatch_Success(t *testing.T) {
	dispatcher := &stubDispatcher{resp: &models.MatchResponse{
		FinalScore:     0.8,
		CommonKeywords: []string{"python"},
	}}
	app := newTestApp(dispatcher, &stubPDFParser{})

	resp := postJSON(t, app, "/api/v1/match", models.MatchRequest{
		JobDescription: longText("job"),
		CVText:         longText("cv"),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.MatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 0.8, body.FinalScore)
	assert.Equal(t, []string{"python"}, body.CommonKeywords)
}

func TestHandleMatch_RejectsShortInputs(t *testing.T) {
	app := newTestApp(&stubDispatcher{resp: models.NewMatchResponse()}, &stubPDFParser{})

	tests := []struct {
		name string
		req  models.MatchRequest
	}{
		{
			name: "short job description",
			req:  models.MatchRequest{JobDescription: "too short", CVText: longText("cv")},
		},
		{
			name: "short cv text",
			req:  models.MatchRequest{JobDescription: longText("job"), CVText: "too short"},
		},
		{
			name: "both empty",
			req:  models.MatchRequest{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, "/api/v1/match", tt.req)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleMatch_RejectsOutOfRangeAlpha(t *testing.T) {
	app := newTestApp(&stubDispatcher{resp: models.NewMatchResponse()}, &stubPDFParser{})

	for _, alpha := range []float64{-0.1, 1.1} {
		a := alpha
		resp := postJSON(t, app, "/api/v1/match", models.MatchRequest{
			JobDescription: longText("job"),
			CVText:         longText("cv"),
			Alpha:          &a,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestHandleMatch_RejectsMalformedBody(t *testing.T) {
	app := newTestApp(&stubDispatcher{resp: models.NewMatchResponse()}, &stubPDFParser{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleMatch_RejectsUnknownTier(t *testing.T) {
	app := newTestApp(&stubDispatcher{resp: models.NewMatchResponse()}, &stubPDFParser{})

	resp := postJSON(t, app, "/api/v1/match?tier=platinum", models.MatchRequest{
		JobDescription: longText("job"),
		CVText:         longText("cv"),
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleMatch_FreeTierCuratesResponse(t *testing.T) {
	dispatcher := &stubDispatcher{resp: &models.MatchResponse{
		FinalScore:      0.9,
		CommonKeywords:  []string{"a", "b", "c", "d", "e", "f", "g"},
		MissingKeywords: []string{},
	}}
	app := newTestApp(dispatcher, &stubPDFParser{})

	resp := postJSON(t, app, "/api/v1/match?tier=free", models.MatchRequest{
		JobDescription: longText("job"),
		CVText:         longText("cv"),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.CuratedMatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Nil(t, body.FinalScorePercentage)
	assert.Equal(t, models.StatusGood, body.MatchLevel)
	assert.Len(t, body.CommonKeywords, 5)
}

func TestHandleMatch_PremiumTierShowsPercentage(t *testing.T) {
	dispatcher := &stubDispatcher{resp: &models.MatchResponse{FinalScore: 0.9}}
	app := newTestApp(dispatcher, &stubPDFParser{})

	resp := postJSON(t, app, "/api/v1/match?tier=premium", models.MatchRequest{
		JobDescription: longText("job"),
		CVText:         longText("cv"),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body models.CuratedMatchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.FinalScorePercentage)
	assert.Equal(t, 90, *body.FinalScorePercentage)
}

func TestHandleMatch_DispatcherErrorIs500(t *testing.T) {
	app := newTestApp(&stubDispatcher{err: errors.New("boom")}, &stubPDFParser{})

	resp := postJSON(t, app, "/api/v1/match", models.MatchRequest{
		JobDescription: longText("job"),
		CVText:         longText("cv"),
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func buildMultipartRequest(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	part, err := writer.CreateFormFile(fileField, fileName)
	require.NoError(t, err)
	_, err = part.Write(fileContent)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/pdf", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHandleMatchPDF_Success(t *testing.T) {
	dispatcher := &stubDispatcher{resp: &models.MatchResponse{FinalScore: 0.6}}
	pdfParser := &stubPDFParser{text: longText("extracted cv")}
	app := newTestApp(dispatcher, pdfParser)

	req := buildMultipartRequest(t,
		map[string]string{"job_description": longText("job"), "alpha": "0.5"},
		"cv_file", "cv.pdf", []byte("%PDF-1.4 fake"),
	)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NotNil(t, dispatcher.lastReq)
	assert.Equal(t, pdfParser.text, dispatcher.lastReq.CVText)
	require.NotNil(t, dispatcher.lastReq.Alpha)
	assert.Equal(t, 0.5, *dispatcher.lastReq.Alpha)
}

func TestHandleMatchPDF_MissingFile(t *testing.T) {
	app := newTestApp(&stubDispatcher{resp: models.NewMatchResponse()}, &stubPDFParser{})

	payload, err := json.Marshal(map[string]string{"job_description": longText("job")})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match/pdf", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleMatchPDF_ExtractionFailure(t *testing.T) {
	app := newTestApp(
		&stubDispatcher{resp: models.NewMatchResponse()},
		&stubPDFParser{err: errors.New("encrypted document")},
	)

	req := buildMultipartRequest(t,
		map[string]string{"job_description": longText("job")},
		"cv_file", "cv.pdf", []byte("%PDF-1.4 fake"),
	)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleMatchPDF_InvalidAlpha(t *testing.T) {
	app := newTestApp(
		&stubDispatcher{resp: models.NewMatchResponse()},
		&stubPDFParser{text: longText("extracted cv")},
	)

	req := buildMultipartRequest(t,
		map[string]string{"job_description": longText("job"), "alpha": "not-a-number"},
		"cv_file", "cv.pdf", []byte("%PDF-1.4 fake"),
	)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
