package narrate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VocabularyFile is a reusable word list stored as YAML:
//
//	name: medical terms
//	words:
//	  - stethoscope
//	  - auscultation
type VocabularyFile struct {
	Name  string   `yaml:"name"`
	Words []string `yaml:"words"`
}

// LoadVocabulary reads and validates a vocabulary file.
func LoadVocabulary(path string) (*VocabularyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var vf VocabularyFile
	if err := yaml.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}

	if len(vf.Words) == 0 {
		return nil, fmt.Errorf("vocabulary file contains no words")
	}
	if err := ValidateVocabulary(vf.Words); err != nil {
		return nil, err
	}

	return &vf, nil
}
