package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"sql parse", SqlParse("bad token"), "SqlParseError"},
		{"permission denied", PermissionDenied("Update"), "PermissionDenied"},
		{"measure not found", MeasureNotFound("headcount", "dm_employees"), "MeasureNotFound"},
		{"model not found", ModelNotFound("unknown_table"), "ModelNotFound"},
		{"column not found", ColumnNotFound("headcount", "dm_employees"), "ColumnNotFound"},
		{"invalid measure fn", InvalidMeasureFunction("too many args"), "InvalidMeasureFunction"},
		{"unsupported construct", UnsupportedSqlConstruct("wildcard mixed"), "UnsupportedSqlConstruct"},
		{"cycle", CycleDetected([]string{"a", "b", "a"}), "CycleDetected"},
		{"backend", Backend("connection refused"), "BackendError"},
		{"wrapped", fmt.Errorf("dispatch: %w", ModelNotFound("x")), "ModelNotFound"},
		{"foreign", errors.New("boom"), "UnknownError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassOf(tt.err); got != tt.want {
				t.Errorf("ClassOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestErrorUnwraps(t *testing.T) {
	err := ModelNotFound("dm_ghost")
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("errors.Is(err, ErrModelNotFound) = false, want true")
	}
	if errors.Is(err, ErrColumnNotFound) {
		t.Errorf("errors.Is(err, ErrColumnNotFound) = true, want false")
	}
}

func TestInformationSchemaResultIsNotATaxonomyKind(t *testing.T) {
	sentinel := &InformationSchemaResult{Names: []string{"dm_employees", "dm_departments"}}
	if ClassOf(sentinel) != "UnknownError" {
		t.Errorf("InformationSchemaResult must not be classified as a wire error kind")
	}
}
