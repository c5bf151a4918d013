package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/satprep/internal/bank"
)

func question(id, topic string, d bank.Difficulty, text string) bank.Question {
	return bank.Question{
		ID:          id,
		Section:     bank.SectionMath,
		Topic:       topic,
		Difficulty:  d,
		Question:    text,
		Choices:     []string{"1", "2", "3", "4"},
		AnswerIndex: 0,
		Explanation: "x",
	}
}

func writeList(t *testing.T, records []bank.Question) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, bank.WriteFile(path, records))
	return path
}

func newTestServer(t *testing.T, path string) (*Holder, *httptest.Server) {
	t.Helper()
	h := NewHolder(FileLoader(path, bank.LoaderOptions{}))
	_, err := h.Reload()
	require.NoError(t, err)
	srv := httptest.NewServer(New(h, Options{Quiet: true}))
	t.Cleanup(srv.Close)
	return h, srv
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	_, srv := newTestServer(t, writeList(t, nil))

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBankEndpoint(t *testing.T) {
	path := writeList(t, []bank.Question{
		question("a1", bank.TopicAlgebra, bank.DifficultyEasy, "Q1"),
		question("a2", bank.TopicAlgebra, bank.DifficultyHard, "Q2"),
	})
	_, srv := newTestServer(t, path)

	type grouped map[string]map[string]map[string][]map[string]any
	var body struct {
		Size int     `json:"size"`
		Bank grouped `json:"bank"`
	}
	status := getJSON(t, srv.URL+"/api/bank", &body)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, body.Size)
	assert.Len(t, body.Bank["math"]["Algebra"]["easy"], 1)
	assert.Len(t, body.Bank["math"]["Algebra"]["hard"], 1)
}

func TestBucketEndpoint(t *testing.T) {
	path := writeList(t, []bank.Question{
		question("d1", bank.TopicDataAnalysis, bank.DifficultyMedium, "Q1"),
	})
	_, srv := newTestServer(t, path)

	var body bucketResponse
	status := getJSON(t, srv.URL+"/api/bank/math/data-analysis/medium", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, bank.TopicDataAnalysis, body.Topic)
	require.Len(t, body.Questions, 1)
	assert.Equal(t, "d1", body.Questions[0].ID)

	status = getJSON(t, srv.URL+"/api/bank/math/Data%20Analysis/medium", nil)
	assert.Equal(t, http.StatusOK, status)

	status = getJSON(t, srv.URL+"/api/bank/math/data-analysis/hard", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status = getJSON(t, srv.URL+"/api/bank/science/data-analysis/hard", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestIssuesEndpoint(t *testing.T) {
	bad := question("bad", bank.TopicAlgebra, bank.DifficultyEasy, "Q1")
	bad.Choices = []string{"1"}
	path := writeList(t, []bank.Question{bad, question("geo", bank.TopicGeometry, bank.DifficultyEasy, "Q2")})
	_, srv := newTestServer(t, path)

	var body struct {
		Count  int          `json:"count"`
		Issues []bank.Issue `json:"issues"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/issues", &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, bank.CodeChoiceCount, body.Issues[0].Code)
	assert.Equal(t, bank.CodeVisualMissing, body.Issues[1].Code)
}

func TestReloadSwapsBank(t *testing.T) {
	path := writeList(t, []bank.Question{question("a1", bank.TopicAlgebra, bank.DifficultyEasy, "Q1")})
	h, srv := newTestServer(t, path)
	before := h.Current()

	require.NoError(t, bank.WriteFile(path, []bank.Question{
		question("a1", bank.TopicAlgebra, bank.DifficultyEasy, "Q1"),
		question("a2", bank.TopicAlgebra, bank.DifficultyEasy, "Q2"),
	}))

	resp, err := http.Post(srv.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	var body reloadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, body.Size)
	assert.Equal(t, 1, before.Bank.Len(), "earlier snapshot is untouched")
	assert.Equal(t, 2, h.Current().Bank.Len())
}

func TestReloadFailureKeepsBank(t *testing.T) {
	path := writeList(t, []bank.Question{question("a1", bank.TopicAlgebra, bank.DifficultyEasy, "Q1")})
	h, srv := newTestServer(t, path)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	resp, err := http.Post(srv.URL+"/api/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, h.Current().Bank.Len())
}

func TestNotLoaded(t *testing.T) {
	h := NewHolder(func() (*bank.Bank, []bank.Issue, error) { return nil, nil, errors.New("boom") })
	srv := httptest.NewServer(New(h, Options{Quiet: true}))
	defer srv.Close()

	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/api/bank", nil))
	assert.Equal(t, http.StatusServiceUnavailable, getJSON(t, srv.URL+"/api/issues", nil))
}
