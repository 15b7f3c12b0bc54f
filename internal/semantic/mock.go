package semantic

// MockCatalog is the built-in fallback catalog used when no local JSON
// file is configured or it fails to parse (spec.md §4.1, §8). Grounded
// verbatim on the original source's LocalSemanticModelStore::mock — same
// two models, same measure/dimension names and SQL, so the worked
// examples in spec.md §8 hold against this implementation unchanged.
func MockCatalog() map[string]*SemanticModel {
	employees := &SemanticModel{
		Name:        "dm_employees",
		Label:       "Employees",
		Description: "Dimensional model for employee data",
		Measures: []Measure{
			{
				Name:        "headcount",
				Description: "Count of distinct employees included in headcount",
				DataType:    "INTEGER",
				Type:        MeasureSimple,
				Aggregation: "count",
				SQL:         "dm_employees.id",
			},
			{
				Name:        "ending_headcount",
				Description: "Count of distinct effective dates for employees",
				DataType:    "INTEGER",
				Type:        MeasureSimple,
				Aggregation: "count_distinct",
				SQL:         "dm_employees.effective_date",
			},
		},
		Dimensions: []Dimension{
			{Name: "department_level_1", Description: "Top level department of the employee", DataType: "STRING"},
			{Name: "id", Description: "Unique identifier for the employee", DataType: "INTEGER"},
			{Name: "included_in_headcount", Description: "Flag indicating if the employee is included in headcount calculations", DataType: "BOOLEAN"},
		},
	}

	departments := &SemanticModel{
		Name:        "dm_departments",
		Label:       "Departments",
		Description: "Dimensional model for department data",
		Measures:    nil,
		Dimensions: []Dimension{
			{Name: "department_level_1_name", Description: "Top level department of the employee", DataType: "STRING"},
		},
	}

	return map[string]*SemanticModel{
		employees.Name:   employees,
		departments.Name: departments,
	}
}
