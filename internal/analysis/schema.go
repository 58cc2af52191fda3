package analysis

import "github.com/KaramelBytes/profitlens/internal/table"

// ValidateSchema checks that every required column is present, matching
// names exactly. It returns a *SchemaError naming all missing columns.
func ValidateSchema(t *table.Table, f Fields) error {
	var missing []string
	for _, name := range f.Required() {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
