package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Plans []CreateParams `yaml:"plans"`
}

// LoadSeedFile reads initial catalog plans from a YAML file.
//
// Expected layout:
//
//	plans:
//	  - name: Pro Cloud
//	    module: Cloud Security
//	    price: 9900
//	    billing_cycle: monthly
//	    features: [CSPM, Drift detection]
func LoadSeedFile(path string) ([]CreateParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse plan seed file: %w", err)
	}
	return f.Plans, nil
}
