package main

// maxPlainTextLen is the target platform's limit for plain-text fields.
const maxPlainTextLen = 255

// validateRecord checks field lengths, cardinality and required fields
// against the schema table. Violations only annotate the run; the record
// is still written.
func (m *Main) validateRecord(st *rowState) {
	for field, values := range st.rec.values {
		schema, ok := m.tables.SchemaFor(field)
		if !ok {
			continue
		}
		if schema.FieldType == "Text (plain)" {
			for _, v := range values {
				if len(v) > maxPlainTextLen {
					m.rep.AddException(st.pid, field, v,
						"value exceeds character limit")
				}
			}
		}
		if !schema.Repeatable && len(values) > 1 {
			m.rep.AddException(st.pid, field, joinValues(values),
				"multiple values in nonrepeatable field")
		}
	}

	for _, field := range requiredFields {
		if len(st.rec.Get(field)) == 0 {
			m.rep.AddException(st.pid, field, "",
				"record missing required "+field)
		}
	}
}
