package boundary

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/division"
)

// DivisionProperty is the property each feature gains on load: the
// normalized division name the map client joins against. Mirrors the
// normalized key the aggregate tables use.
const DivisionProperty = "division"

// GeoJSON reads a boundary FeatureCollection from a GeoJSON file.
type GeoJSON struct {
	names []string
	doc   []byte
}

// OpenGeoJSON loads the feature collection at path and extracts one
// division name per feature from the named property. The returned
// document has the normalized name stamped onto every feature under
// DivisionProperty.
func OpenGeoJSON(path, property string) (*GeoJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read geojson %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "boundary: parse geojson %s", path)
	}

	var names []string
	for _, ft := range fc.Features {
		raw, _ := ft.Properties[property].(string)
		name := division.Normalize(raw)
		if name == "" {
			continue
		}
		if ft.Properties == nil {
			ft.Properties = map[string]interface{}{}
		}
		ft.Properties[DivisionProperty] = name
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, errNoFeatures(path)
	}

	doc, err := json.Marshal(&fc)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: encode geojson")
	}

	zap.L().Debug("boundary: geojson loaded",
		zap.String("path", path),
		zap.Int("features", len(fc.Features)),
		zap.Int("named", len(names)),
	)

	return &GeoJSON{names: names, doc: doc}, nil
}

// Names returns one division name per named feature.
func (g *GeoJSON) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

// Document returns the feature collection with normalized division names
// stamped in, ready to serve to the map client.
func (g *GeoJSON) Document() []byte {
	return g.doc
}
