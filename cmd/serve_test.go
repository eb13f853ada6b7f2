package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdata/crimemap/internal/aggregate"
	"github.com/civicdata/crimemap/internal/boundary"
	"github.com/civicdata/crimemap/internal/division"
	"github.com/civicdata/crimemap/internal/model"
	"github.com/civicdata/crimemap/internal/session"
	"github.com/civicdata/crimemap/internal/view"
)

const testGeoJSON = `{"type":"FeatureCollection","features":[
  {"type":"Feature","properties":{"APREC":"Central"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}},
  {"type":"Feature","properties":{"APREC":"Topanga"},"geometry":{"type":"Polygon","coordinates":[[[2,2],[3,2],[3,3],[2,2]]]}},
  {"type":"Feature","properties":{"APREC":"Hollywood"},"geometry":{"type":"Polygon","coordinates":[[[4,4],[5,4],[5,5],[4,4]]]}}
]}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "divisions.geojson")
	require.NoError(t, os.WriteFile(path, []byte(testGeoJSON), 0o600))
	provider, err := boundary.OpenGeoJSON(path, "APREC")
	require.NoError(t, err)

	resolver, err := division.NewResolver(provider.Names())
	require.NoError(t, err)

	tables := aggregate.Build([]model.CleanRecord{
		{Division: "CENTRAL", Year: 2023, Description: "ROBBERY", Violent: true},
		{Division: "CENTRAL", Year: 2023, Description: "PETTY THEFT", Violent: false},
		{Division: "TOPANGA", Year: 2023, Description: "PETTY THEFT", Violent: false},
	}, resolver, []int{2020, 2021, 2022, 2023, 2024})

	registry := session.NewRegistry(tables, session.PolicyPersist)
	srv := httptest.NewServer(newRouter(registry, provider))
	t.Cleanup(srv.Close)
	return srv
}

func createSession(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/session", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["session_id"])
	return body["session_id"]
}

func postEvent(t *testing.T, srv *httptest.Server, id, event, payload string) view.Payload {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/session/"+id+"/"+event, "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p view.Payload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return p
}

func TestServeHealth(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeBoundariesPassthrough(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/boundaries")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Len(t, doc.Features, 3)
	assert.Equal(t, "CENTRAL", doc.Features[0].Properties["division"])
}

func TestServeSessionFlow(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	// Initial view: citywide, all years.
	resp, err := http.Get(srv.URL + "/api/session/" + id + "/view")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var initial view.Payload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&initial))
	assert.Equal(t, "Citywide Crime Ranking (All 2020–2024)", initial.Title)
	assert.Len(t, initial.Map, 3)

	// Filter to 2023, then click CENTRAL.
	p := postEvent(t, srv, id, "year", `{"year":2023}`)
	assert.Equal(t, "Citywide Crime Ranking (2023)", p.Title)

	p = postEvent(t, srv, id, "division", `{"division":"central"}`)
	assert.Equal(t, "Crime Ranking in CENTRAL (2023)", p.Title)
	require.Len(t, p.Table, 2)
	assert.Equal(t, "ROBBERY", p.Table[0].Description)
}

func TestServeDivisionWithNoDataYieldsEmptyTable(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	postEvent(t, srv, id, "year", `{"year":2023}`)
	p := postEvent(t, srv, id, "division", `{"division":"HOLLYWOOD"}`)
	assert.Empty(t, p.Table)
	assert.Equal(t, "Crime Ranking in HOLLYWOOD (2023)", p.Title)
}

func TestServeUnknownSession(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/session/nope/view")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp2, err := http.Post(srv.URL+"/api/session/nope/year", "application/json", strings.NewReader(`{"year":2023}`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestServeInvalidEventBody(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	resp, err := http.Post(srv.URL+"/api/session/"+id+"/year", "application/json", strings.NewReader("{nope"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServeDeleteSession(t *testing.T) {
	srv := testServer(t)
	id := createSession(t, srv)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/session/"+id, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/api/session/" + id + "/view")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}
