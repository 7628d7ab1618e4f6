package config

import (
	"fmt"
	"os"

	"github.com/futig/docchat/internal/entity"
	"gopkg.in/yaml.v3"
)

// modelsFile is the layout of MODELS_FILE
type modelsFile struct {
	Models []entity.ModelSpec `yaml:"models"`
}

// LoadModelCatalog returns the built-in catalog with context windows overridden
// from the YAML file at path. Only built-in models may be listed.
func LoadModelCatalog(path string) (entity.ModelCatalog, error) {
	catalog := entity.DefaultModelCatalog()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read models file: %w", err)
	}

	var file modelsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse models file: %w", err)
	}

	for _, spec := range file.Models {
		if _, ok := catalog.Lookup(spec.ID); !ok {
			return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedModel, spec.ID)
		}
		if spec.ContextWindow < 1 {
			return nil, fmt.Errorf("model %s: context_window must be positive", spec.ID)
		}
		catalog[spec.ID] = spec
	}

	return catalog, nil
}
