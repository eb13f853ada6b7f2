package boundary

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"APREC": " Central "},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[1,0],[1,1],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"APREC": "Topanga"},
      "geometry": {"type": "Polygon", "coordinates": [[[2,2],[3,2],[3,3],[2,2]]]}
    },
    {
      "type": "Feature",
      "properties": {"OTHER": "ignored"},
      "geometry": {"type": "Polygon", "coordinates": [[[4,4],[5,4],[5,5],[4,4]]]}
    }
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "divisions.geojson")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestOpenGeoJSON(t *testing.T) {
	g, err := OpenGeoJSON(writeFixture(t, fixtureGeoJSON), "APREC")
	require.NoError(t, err)

	assert.Equal(t, []string{"CENTRAL", "TOPANGA"}, g.Names())
}

func TestOpenGeoJSONStampsNormalizedName(t *testing.T) {
	g, err := OpenGeoJSON(writeFixture(t, fixtureGeoJSON), "APREC")
	require.NoError(t, err)

	var doc struct {
		Features []struct {
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(g.Document(), &doc))
	require.Len(t, doc.Features, 3)
	assert.Equal(t, "CENTRAL", doc.Features[0].Properties[DivisionProperty])
	assert.Equal(t, "TOPANGA", doc.Features[1].Properties[DivisionProperty])
	_, stamped := doc.Features[2].Properties[DivisionProperty]
	assert.False(t, stamped)
}

func TestOpenGeoJSONErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := OpenGeoJSON(filepath.Join(t.TempDir(), "missing.geojson"), "APREC")
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := OpenGeoJSON(writeFixture(t, "{nope"), "APREC")
		assert.Error(t, err)
	})

	t.Run("no named features is fatal", func(t *testing.T) {
		_, err := OpenGeoJSON(writeFixture(t, fixtureGeoJSON), "NO_SUCH_PROPERTY")
		assert.Error(t, err)
	})
}

func TestOpenPicksReaderByExtension(t *testing.T) {
	p, err := Open(writeFixture(t, fixtureGeoJSON), "APREC")
	require.NoError(t, err)
	assert.Equal(t, []string{"CENTRAL", "TOPANGA"}, p.Names())
}
