package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicdata/crimemap/internal/division"
)

// Shapefile reads boundary features from an ESRI shapefile.
type Shapefile struct {
	names []string
}

// OpenShapefile reads the shapefile at path and extracts one division name
// per record from the named attribute field. Field matching is
// case-insensitive; DBF padding is stripped.
func OpenShapefile(path, field string) (*Shapefile, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	fieldIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, field) {
			fieldIdx = i
			break
		}
	}
	if fieldIdx < 0 {
		return nil, eris.Errorf("boundary: shapefile %s has no field %q", path, field)
	}

	var names []string
	for reader.Next() {
		val := strings.TrimRight(reader.Attribute(fieldIdx), "\x00")
		name := division.Normalize(val)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, errNoFeatures(path)
	}

	zap.L().Debug("boundary: shapefile loaded",
		zap.String("path", path),
		zap.Int("named", len(names)),
	)

	return &Shapefile{names: names}, nil
}

// Names returns one division name per named record.
func (s *Shapefile) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
