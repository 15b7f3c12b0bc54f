package semantic

import (
	"fmt"
	"regexp"
)

// identifierPattern is the safe-identifier rule from SPEC_FULL §3: a
// semantic model's own name, and every dimension/measure name within it,
// must match this before the model is trusted — a malicious or malformed
// semantic-model file must not be able to inject SQL through a name that
// later gets spliced into rendered measure SQL or a generated projection.
// Grounded on the teacher's query/sanitizer.go ValidateIdentifier, with
// the dotted schema.table allowance dropped: semantic model names are
// single identifiers, never schema-qualified.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that name is safe to treat as a SQL
// identifier sourced from configuration (a model, dimension, or measure
// name), not as user input.
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("empty identifier")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q: must match [A-Za-z_][A-Za-z0-9_]*", name)
	}
	return nil
}

// Validate checks that a model's own name and every dimension/measure
// name within it are safe identifiers. Called once, at load time, by
// every Store implementation before a model is added to the catalog.
func (m *SemanticModel) Validate() error {
	if err := ValidateIdentifier(m.Name); err != nil {
		return fmt.Errorf("model name: %w", err)
	}
	seen := map[string]bool{}
	for _, d := range m.Dimensions {
		if err := ValidateIdentifier(d.Name); err != nil {
			return fmt.Errorf("model %q dimension: %w", m.Name, err)
		}
		if seen[d.Name] {
			return fmt.Errorf("model %q: duplicate dimension name %q", m.Name, d.Name)
		}
		seen[d.Name] = true
	}
	for _, meas := range m.Measures {
		if err := ValidateIdentifier(meas.Name); err != nil {
			return fmt.Errorf("model %q measure: %w", m.Name, err)
		}
		if seen[meas.Name] {
			return fmt.Errorf("model %q: duplicate measure/dimension name %q", m.Name, meas.Name)
		}
		seen[meas.Name] = true
	}
	return nil
}
