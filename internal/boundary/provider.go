// Package boundary loads named geographic boundary features. The core
// consumes only the name set; geometry is passed through untouched for the
// map client.
package boundary

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Provider yields the canonical division names for the loaded boundary
// dataset.
type Provider interface {
	// Names returns one name per boundary feature, unnormalized.
	Names() []string
}

// Open loads a boundary file, picking the reader from the extension:
// .shp for shapefiles, anything else is treated as GeoJSON. property is
// the feature attribute holding the division name.
func Open(path, property string) (Provider, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return OpenShapefile(path, property)
	}
	return OpenGeoJSON(path, property)
}

// errNoFeatures is shared by both readers: a boundary dataset with zero
// named features cannot anchor the canonical division set.
func errNoFeatures(path string) error {
	return eris.Errorf("boundary: no named features in %s", path)
}
