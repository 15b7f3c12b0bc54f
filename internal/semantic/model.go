// Package semantic implements the Semantic Model (C1): an in-memory
// catalog of tables mapped to dimensions and measures, and the rendering
// of measures to SQL fragments.
package semantic

import (
	"fmt"
	"strings"

	"github.com/Pushkarm029/postgres-proxy-server/internal/apperr"
)

// Dimension is a named, typed column exposed on a logical table.
type Dimension struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DataType    string `json:"data_type,omitempty"`
}

// MeasureType tags which of the four Measure shapes a JSON record encodes.
// Matches spec.md §4.1's local-store JSON format: an optional field,
// default "simple".
type MeasureType string

const (
	MeasureSimple     MeasureType = "simple"
	MeasureRatio      MeasureType = "ratio"
	MeasureCumulative MeasureType = "cumulative"
	MeasureDerived    MeasureType = "derived"
)

// RatioPart names a sibling measure referenced by a Ratio measure's
// numerator or denominator.
type RatioPart struct {
	Name string `json:"name"`
}

// DerivedPart names one sibling measure substituted into a Derived
// measure's SQL template.
type DerivedPart struct {
	Name string `json:"name"`
}

// Measure is the tagged variant from spec.md §3: exactly one of Simple,
// Ratio, Cumulative, Derived is populated, selected by Type. Modeled as a
// single struct with a type tag (rather than four named Go types behind an
// interface) because rendering is driven entirely by field presence and a
// switch on Type — there is no behavior polymorphism beyond render, and
// the JSON shape is naturally one flat object with optional members
// (§4.1: "unknown fields are ignored").
type Measure struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DataType    string `json:"data_type,omitempty"`
	Type        MeasureType `json:"measure_type,omitempty"`

	// Simple, Cumulative
	Aggregation string `json:"aggregation,omitempty"`
	SQL         string `json:"sql,omitempty"`

	// Cumulative
	PartitionBy []string `json:"partition_by,omitempty"`

	// Ratio
	Numerator   RatioPart `json:"numerator,omitempty"`
	Denominator RatioPart `json:"denominator,omitempty"`

	// Derived
	Measures []DerivedPart `json:"measures,omitempty"`
}

// effectiveType returns Type, defaulting to MeasureSimple per §4.1.
func (m *Measure) effectiveType() MeasureType {
	if m.Type == "" {
		return MeasureSimple
	}
	return m.Type
}

// SemanticModel is a logical view of one physical table: an ordered set
// of dimensions and measures plus documentation metadata (spec.md §3).
type SemanticModel struct {
	Name        string      `json:"name"`
	Label       string      `json:"label,omitempty"`
	Description string      `json:"description,omitempty"`
	Dimensions  []Dimension `json:"dimensions"`
	Measures    []Measure   `json:"measures"`
}

// GetMeasure looks up a measure by name within this model.
func (m *SemanticModel) GetMeasure(name string) (*Measure, error) {
	for i := range m.Measures {
		if m.Measures[i].Name == name {
			return &m.Measures[i], nil
		}
	}
	return nil, apperr.MeasureNotFound(name, m.Name)
}

// HasDimension reports whether name is a declared dimension of this model.
func (m *SemanticModel) HasDimension(name string) bool {
	for _, d := range m.Dimensions {
		if d.Name == name {
			return true
		}
	}
	return false
}

// wrapAgg is the common aggregation-wrapping helper shared by Simple and
// Cumulative measures (spec.md §4.1).
func wrapAgg(inner, agg string) string {
	switch agg {
	case "sum":
		return fmt.Sprintf("SUM(%s)", inner)
	case "avg":
		return fmt.Sprintf("AVG(%s)", inner)
	case "median":
		return fmt.Sprintf("MEDIAN(%s)", inner)
	case "count":
		return fmt.Sprintf("COUNT(%s)", inner)
	case "count_distinct":
		return fmt.Sprintf("COUNT(DISTINCT %s)", inner)
	case "min":
		return fmt.Sprintf("MIN(%s)", inner)
	case "max":
		return fmt.Sprintf("MAX(%s)", inner)
	default:
		return inner
	}
}

func withAlias(sql, name string, alias bool) string {
	if !alias {
		return sql
	}
	return fmt.Sprintf("%s AS %s", sql, name)
}

// Render produces the SQL fragment for a measure owned by model, tracking
// a visited set to detect cycles among Ratio/Derived sibling references
// (spec.md §4.1, §9: "track a visited set during render").
func Render(m *Measure, model *SemanticModel, withAliasFlag bool) (string, error) {
	return render(m, model, withAliasFlag, map[string]bool{})
}

func render(m *Measure, model *SemanticModel, withAliasFlag bool, visited map[string]bool) (string, error) {
	key := model.Name + "." + m.Name
	if visited[key] {
		chain := make([]string, 0, len(visited)+1)
		for k := range visited {
			chain = append(chain, k)
		}
		chain = append(chain, key)
		return "", apperr.CycleDetected(chain)
	}
	// Marked only for the duration of this branch — a diamond reference
	// (two siblings that both depend on the same third measure) is not a
	// cycle, so the mark is cleared once this branch returns.
	visited[key] = true
	defer delete(visited, key)

	switch m.effectiveType() {
	case MeasureSimple:
		return withAlias(wrapAgg(m.SQL, m.Aggregation), m.Name, withAliasFlag), nil

	case MeasureRatio:
		num, err := model.GetMeasure(m.Numerator.Name)
		if err != nil {
			return "", err
		}
		den, err := model.GetMeasure(m.Denominator.Name)
		if err != nil {
			return "", err
		}
		numSQL, err := render(num, model, false, visited)
		if err != nil {
			return "", err
		}
		denSQL, err := render(den, model, false, visited)
		if err != nil {
			return "", err
		}
		sql := fmt.Sprintf("(%s) / NULLIFZERO(%s)", numSQL, denSQL)
		return withAlias(sql, m.Name, withAliasFlag), nil

	case MeasureCumulative:
		base := wrapAgg(m.SQL, m.Aggregation)
		sql := fmt.Sprintf("%s OVER (PARTITION BY %s)", base, strings.Join(m.PartitionBy, ", "))
		return withAlias(sql, m.Name, withAliasFlag), nil

	case MeasureDerived:
		sql := m.SQL
		for _, part := range m.Measures {
			sibling, err := model.GetMeasure(part.Name)
			if err != nil {
				return "", err
			}
			siblingSQL, err := render(sibling, model, false, visited)
			if err != nil {
				return "", err
			}
			sql = strings.ReplaceAll(sql, part.Name, siblingSQL)
		}
		return withAlias(sql, m.Name, withAliasFlag), nil

	default:
		return "", apperr.InvalidMeasureFunction(fmt.Sprintf("unknown measure_type %q on %q", m.Type, m.Name))
	}
}
