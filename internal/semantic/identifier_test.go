package semantic

import "testing"

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"a", "_a", "dm_employees", "department_level_1", "A1"}
	for _, name := range valid {
		if err := ValidateIdentifier(name); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "1abc", "has space", "schema.table", "drop;table", "a-b"}
	for _, name := range invalid {
		if err := ValidateIdentifier(name); err == nil {
			t.Errorf("ValidateIdentifier(%q) = nil, want error", name)
		}
	}
}

func TestSemanticModelValidate(t *testing.T) {
	m := &SemanticModel{
		Name:       "dm_employees",
		Dimensions: []Dimension{{Name: "id"}, {Name: "department_level_1"}},
		Measures:   []Measure{{Name: "headcount", Type: MeasureSimple, Aggregation: "count", SQL: "id"}},
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestSemanticModelValidate_BadModelName(t *testing.T) {
	m := &SemanticModel{Name: "1bad"}
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for invalid model name")
	}
}

func TestSemanticModelValidate_DuplicateName(t *testing.T) {
	m := &SemanticModel{
		Name:       "dm_employees",
		Dimensions: []Dimension{{Name: "id"}},
		Measures:   []Measure{{Name: "id", Type: MeasureSimple, Aggregation: "count", SQL: "id"}},
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for dimension/measure name collision")
	}
}

func TestSemanticModelValidate_BadDimensionName(t *testing.T) {
	m := &SemanticModel{
		Name:       "dm_employees",
		Dimensions: []Dimension{{Name: "bad name"}},
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected error for invalid dimension name")
	}
}
