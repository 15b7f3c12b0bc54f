package semantic

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
)

// LocalStore is a Store loaded once at startup from a JSON file, or the
// built-in MockCatalog if the file is absent or fails to parse (spec.md
// §4.1, §6: "Parse failure on startup falls back to the mock catalog").
type LocalStore struct {
	*staticStore
}

// LoadLocalStore reads jsonPath as `{ name → SemanticModel }` (spec.md
// §6). A missing file or parse failure is logged and the mock catalog is
// used instead — this is a deliberate fallback, not a fatal startup
// error. A model that fails identifier validation (including one in the
// mock catalog) is returned as an error.
func LoadLocalStore(jsonPath string, logger *slog.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	models, err := loadModelsFromFile(jsonPath)
	if err != nil {
		logger.Warn("falling back to mock semantic-model catalog", slog.String("path", jsonPath), slog.String("error", err.Error()))
		models = MockCatalog()
	}

	for name, m := range models {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("semantic model %q: %w", name, err)
		}
	}

	return &LocalStore{staticStore: newStaticStore(models)}, nil
}

// GetModel, ListModels, GetMeasure, and Digest ignore ctx: a LocalStore's
// catalog is entirely in memory, so there is no suspension point to
// cancel (§5).
func (s *LocalStore) GetModel(_ context.Context, name string) (*SemanticModel, error) {
	return s.staticStore.getModel(name)
}

func (s *LocalStore) ListModels(_ context.Context) []string {
	return s.staticStore.listModels()
}

func (s *LocalStore) GetMeasure(_ context.Context, table, measure string) (*Measure, error) {
	return s.staticStore.getMeasure(table, measure)
}

func (s *LocalStore) Digest(_ context.Context) string {
	return s.staticStore.digest
}

func loadModelsFromFile(jsonPath string) (map[string]*SemanticModel, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", jsonPath, err)
	}

	var raw map[string]*SemanticModel
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", jsonPath, err)
	}
	for name, m := range raw {
		if m.Name == "" {
			m.Name = name
		}
	}
	return raw, nil
}
