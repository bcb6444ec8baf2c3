package main

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sfomuseum/go-edtf/parser"
)

// maxPlainTextLen is the target platform's limit for plain-text fields.
const maxPlainTextLen = 255

// validateCollectionID maps a collection reference to its node ID. Values
// that already are node IDs pass through; unresolved references log an
// exception and are dropped.
func (m *Main) validateCollectionID(pid, value string) string {
	node, ok := m.tables.NodeFor(value)
	if !ok {
		m.rep.AddException(pid, "field_member_of", value,
			"node ID not found for collection PID")
		return ""
	}
	return node
}

// validateDomain checks the value against the known domain access terms.
func (m *Main) validateDomain(pid, value string) bool {
	for _, term := range domainMapping {
		if term == value {
			return true
		}
	}
	m.rep.AddException(pid, "field_domain_access", value, "invalid domain")
	return false
}

// validateEDTF checks one date token against the EDTF grammar.
func (m *Main) validateEDTF(pid, value string) bool {
	if parser.IsValid(value) {
		return true
	}
	m.rep.AddException(pid, "field_edtf_date", value, "invalid EDTF date")
	return false
}

// validateTerm checks that a controlled value exists in its taxonomy.
func (m *Main) validateTerm(pid, field, value, taxonomy string) bool {
	if m.tables.HasTerm(value, taxonomy) {
		return true
	}
	m.rep.AddException(pid, field, value,
		"could not find term in "+taxonomy+" taxonomy")
	return false
}

var rgxDecimal = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?$`)

// 40°26'46"N, also accepts d/m/s unit letters
var rgxDMS = regexp.MustCompile(
	`^\s*([+-]?\d+(?:\.\d+)?)\s*[°ºd]?\s*` +
		`(?:(\d+(?:\.\d+)?)\s*['m]?\s*)?` +
		`(?:(\d+(?:\.\d+)?)\s*["s]?\s*)?` +
		`([NnSsEeWw])?\s*$`)

// validateCoordinates checks a latitude/longitude pair in decimal or
// sexagesimal form, separated by a comma or semicolon.
func (m *Main) validateCoordinates(pid, value string) bool {
	fail := func(reason string) bool {
		m.rep.AddException(pid, "field_coordinates", value, reason)
		return false
	}

	cleaned := cleanValue(value)
	if cleaned == "" {
		return fail("coordinate value is empty")
	}
	parts := regexp.MustCompile(`\s*[;,]\s*`).Split(cleaned, -1)
	if len(parts) != 2 {
		return fail("expected two coordinates (lat, lon) separated by ',' or ';'")
	}

	lat, ok := parseCoordinate(parts[0])
	if !ok {
		return fail("invalid coordinates (must be decimal or sexagesimal)")
	}
	lon, ok := parseCoordinate(parts[1])
	if !ok {
		return fail("invalid coordinates (must be decimal or sexagesimal)")
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fail("coordinates out of range")
	}
	return true
}

// parseCoordinate converts one decimal or DMS token to decimal degrees.
func parseCoordinate(token string) (float64, bool) {
	if rgxDecimal.MatchString(token) {
		v, err := strconv.ParseFloat(token, 64)
		return v, err == nil
	}

	groups := rgxDMS.FindStringSubmatch(token)
	if groups == nil || groups[1] == "" {
		return 0, false
	}
	deg, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return 0, false
	}
	var minutes, seconds float64
	if groups[2] != "" {
		minutes, _ = strconv.ParseFloat(groups[2], 64)
	}
	if groups[3] != "" {
		seconds, _ = strconv.ParseFloat(groups[3], 64)
	}

	sign := 1.0
	if deg < 0 {
		sign = -1.0
		deg = -deg
	}
	dd := sign * (deg + minutes/60 + seconds/3600)

	switch strings.ToUpper(groups[4]) {
	case "S", "W":
		if dd > 0 {
			dd = -dd
		}
	case "N", "E":
		if dd < 0 {
			dd = -dd
		}
	}
	return dd, true
}

// validateRecord checks field lengths, value types, cardinality and
// required fields against the schema. Child records inherit the parent's
// domain access and fall back to their PID as title before the required
// field checks.
func (m *Main) validateRecord(rec *Record, sheet *Sheet) {
	pid := rec.PID()

	for field, values := range rec.values {
		schema, ok := m.tables.SchemaFor(field)
		if !ok {
			continue
		}
		switch schema.FieldType {
		case "Text (plain)":
			for _, v := range values {
				if len(v) > maxPlainTextLen {
					m.rep.AddException(pid, field, v,
						"value exceeds character limit")
				}
			}
		case "Number (integer)":
			for _, v := range values {
				if _, err := strconv.Atoi(v); err != nil {
					m.rep.AddException(pid, field, v,
						"expected an integer")
				}
			}
		}
		if !schema.Repeatable && len(values) > 1 {
			m.rep.AddException(pid, field, joinValues(values),
				"multiple values in nonrepeatable field")
		}
	}

	var parentID string
	if parents := rec.Get("parent_id"); len(parents) > 0 {
		parentID = parents[0]
	}

	for _, field := range requiredFields {
		if parentID != "" {
			switch {
			case field == "title" && len(rec.Get(field)) == 0:
				rec.Add("title", pid)
			case field == "field_domain_access" && len(rec.Get(field)) == 0:
				for _, domain := range parentDomains(sheet, parentID) {
					rec.Add("field_domain_access", domain)
				}
			case field == "field_member_of":
				// children belong to their parent, not a collection
				continue
			}
		}
		if len(rec.Get(field)) == 0 {
			m.rep.AddException(pid, field, "",
				"record missing required "+field)
		}
	}
}

// parentDomains looks up the domain access values of the parent record in
// the merged sheet.
func parentDomains(sheet *Sheet, parentID string) []string {
	for _, row := range sheet.Rows {
		if normalizeID(row["id"]) != parentID {
			continue
		}
		var res []string
		for _, v := range strings.Split(row["field_domain_access"], "|") {
			if v = strings.TrimSpace(v); v != "" {
				res = append(res, v)
			}
		}
		return res
	}
	return nil
}
