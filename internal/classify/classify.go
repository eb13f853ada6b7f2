// Package classify labels crime descriptions as violent or property.
package classify

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/civicdata/crimemap/internal/model"
)

// defaultKeywords flag a description as violent when any of them appears as
// a substring of the uppercased text.
var defaultKeywords = []string{
	"ASSAULT", "ROBBERY", "HOMICIDE", "MANSLAUGHTER",
	"RAPE", "SEXUAL", "PENETRATION", "ORAL COPULATION",
	"SODOMY", "BRANDISH WEAPON", "SHOTS FIRED",
}

// Classifier matches descriptions against a violent keyword set.
// The zero value is not usable; construct with New or LoadKeywords.
type Classifier struct {
	keywords []string
}

// New returns a classifier with the default keyword set.
func New() *Classifier {
	return &Classifier{keywords: defaultKeywords}
}

// keywordFile is the on-disk override format.
type keywordFile struct {
	ViolentKeywords []string `yaml:"violent_keywords"`
}

// LoadKeywords builds a classifier from a YAML override file. An empty
// keyword list in the file falls back to the defaults.
func LoadKeywords(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classify: read keywords %s", path)
	}

	var kf keywordFile
	if err := yaml.Unmarshal(data, &kf); err != nil {
		return nil, eris.Wrapf(err, "classify: parse keywords %s", path)
	}
	if len(kf.ViolentKeywords) == 0 {
		return New(), nil
	}

	keys := make([]string, len(kf.ViolentKeywords))
	for i, k := range kf.ViolentKeywords {
		keys[i] = strings.ToUpper(strings.TrimSpace(k))
	}
	return &Classifier{keywords: keys}, nil
}

// IsViolent reports whether the description contains any violent keyword.
// Matching is substring-level, case-insensitive. Blank input is property.
func (c *Classifier) IsViolent(desc string) bool {
	if desc == "" {
		return false
	}
	u := strings.ToUpper(desc)
	for _, k := range c.keywords {
		if strings.Contains(u, k) {
			return true
		}
	}
	return false
}

// Category returns the display label for a description.
func (c *Classifier) Category(desc string) string {
	if c.IsViolent(desc) {
		return model.CategoryViolent
	}
	return model.CategoryProperty
}
