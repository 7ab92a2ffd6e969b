package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Vocabulary is an optional extension file letting a job add trade- or
// site-specific fixture terms without a rebuild.
//
//	fixture_types:
//	  - grease interceptor
//	  - mixing box
type Vocabulary struct {
	FixtureTypes []string `yaml:"fixture_types"`
}

// LoadVocabulary reads a vocabulary YAML file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read vocabulary")
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, eris.Wrap(err, "catalog: parse vocabulary")
	}
	return &v, nil
}
