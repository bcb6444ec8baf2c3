package main

import (
	"sort"
	"strings"
)

// rowState carries the per-row accumulator state shared by the
// transformers.
type rowState struct {
	rec        *Record
	pid        string
	noRelator  map[string]bool
	hasRelator map[string]bool
	sourceData map[string]string
	skip       bool
}

// fieldFunc remediates one value bound for a target field. Transformers
// append to the open record; a transformer may mark the whole row skipped.
type fieldFunc func(st *rowState, solrField, field, value string)

// buildDispatch maps every target field that needs remediation to its
// transformer. Fields without an entry are added verbatim, with the
// prefix from the field-mapping table.
func (m *Main) buildDispatch() map[string]fieldFunc {
	d := map[string]fieldFunc{
		"parent_id":                      m.transformParentID,
		"field_language":                 m.transformLanguage,
		"field_place_published_pitt":     m.transformCountry,
		"field_linked_agent":             m.transformName,
		"field_genre":                    m.transformGenre,
		"field_physical_form":            m.transformForm,
		"field_type_of_resources_legacy": m.transformResourceType,
		"field_rights_statement":         m.transformRights,
		"field_model":                    m.transformModel,
		"field_domain_access":            m.transformDomain,
	}
	for _, f := range titleFields {
		d[f] = m.transformTitle
	}
	for _, f := range dateFields {
		// dates come from the per-PID remediation table in a post pass
		d[f] = func(st *rowState, solrField, field, value string) {}
	}
	for _, f := range subjectSolrFields {
		d[f] = m.transformSubject
	}
	// source fields are collected whole-cell before dispatch
	return d
}

func (m *Main) transformParentID(st *rowState, solrField, field, value string) {
	value = strings.TrimPrefix(value, "info:fedora/")
	if inList(value, rootPIDs) {
		return
	}
	st.rec.Add("parent_id", value)
}

func (m *Main) transformTitle(st *rowState, solrField, field, value string) {
	st.rec.AddTitlePart(field, solrField, value)
}

func (m *Main) transformLanguage(st *rowState, solrField, field, value string) {
	term, ok := m.tables.Languages[value]
	if !ok {
		m.rep.AddException(st.pid, "field_language", value,
			"no language term found for code")
		term = value
	}
	st.rec.Add("field_language", term)
}

func (m *Main) transformCountry(st *rowState, solrField, field, value string) {
	term, ok := m.tables.Countries[value]
	if !ok {
		m.rep.AddException(st.pid, "field_place_published_pitt", value,
			"no country term found for code")
		term = value
	}
	st.rec.Add("field_place_published_pitt", term)
}

// transformName resolves a name heading against the name-authority table.
// Matched names land in field_linked_agent with a relator prefix; names
// typed as titles or places are rerouted to the subject fields. Personal
// names without a relator are held back until the end of the row so that
// attributed duplicates of credited names are not added twice.
func (m *Main) transformName(st *rowState, solrField, field, value string) {
	var matched bool
	for _, row := range m.tables.Names {
		if row.SolrField != solrField || row.OriginalName != value {
			continue
		}
		matched = true

		nameType := row.Type
		if t, ok := linkedAgentTypes[row.Type]; ok {
			nameType = t
		}

		if row.Action == "remove" {
			m.rep.AddTransformation(st.pid, solrField, value, "",
				"skipped "+nameType+" name")
			return
		}

		switch nameType {
		case "title":
			st.rec.Add("field_subject_title", row.ValidName)
			return
		case "geographic":
			st.rec.Add("field_geographic_subject", row.ValidName)
			return
		}

		if solrField == "mods_name_personal_namePart_ms" {
			st.noRelator[row.ValidName] = true
			return
		}
		if strings.Contains(solrField, "personal") {
			st.hasRelator[row.ValidName] = true
		}

		fm, _ := m.tables.FieldFor(solrField)
		prefix := fm.Prefix
		if ns, ok := linkedAgentTypes[row.Type]; ok {
			prefix += ns + ":"
		}
		st.rec.AddPrefixed("field_linked_agent", prefix, row.ValidName)
	}
	if !matched {
		m.rep.AddException(st.pid, solrField, value,
			"could not find name in mapping")
	}
}

// addAttributedNames adds the personal names that never appeared with a
// relator, prefixed as plain persons, in sorted order so repeated runs
// produce identical output.
func (m *Main) addAttributedNames(st *rowState) {
	var names []string
	for name := range st.noRelator {
		if !st.hasRelator[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		st.rec.AddPrefixed("field_linked_agent", "person:", name)
	}
}

func (m *Main) transformSubject(st *rowState, solrField, field, value string) {
	var matched bool
	for _, row := range m.tables.Subjects {
		if row.SolrField != solrField || row.OriginalHeading != value {
			continue
		}
		matched = true

		if row.Action == "remove" {
			m.rep.AddTransformation(st.pid, solrField, value, "",
				"skipped subject "+row.Type+" heading")
			return
		}

		field := subjectFieldMapping[row.Type]
		if field == "" {
			continue
		}
		// AAT-authority headings are genre terms, wherever they were filed
		if row.Authority == "aat" {
			field = "field_genre"
		}
		var prefix string
		if ns, ok := linkedAgentTypes[row.Type]; ok {
			prefix = ns + ":"
		}
		st.rec.AddPrefixed(field, prefix, row.ValidHeading)
	}
	if !matched {
		m.rep.AddException(st.pid, solrField, value,
			"could not find subject heading in mapping")
	}
}

func (m *Main) transformGenre(st *rowState, solrField, field, value string) {
	for _, row := range m.tables.Genres {
		if row.Original == value {
			if row.Genre != "" {
				st.rec.Add("field_genre", row.Genre)
			}
			return
		}
	}
	if m.tables.GenreTerms[value] {
		st.rec.Add("field_genre", value)
		return
	}
	m.rep.AddException(st.pid, solrField, value,
		"could not find genre in mapping")
}

func (m *Main) transformForm(st *rowState, solrField, field, value string) {
	for _, row := range m.tables.Forms {
		if row.Original != value {
			continue
		}
		for _, v := range splitPipe(row.PhysicalForm) {
			st.rec.Add("field_physical_form", v)
		}
		for _, v := range splitPipe(row.Genre) {
			st.rec.Add("field_genre", v)
		}
		for _, v := range splitPipe(row.Extent) {
			st.rec.Add("field_extent", v)
		}
		return
	}
	m.rep.AddException(st.pid, solrField, value,
		"could not find form in mapping")
}

func (m *Main) transformResourceType(st *rowState, solrField, field, value string) {
	term, ok := typeMapping[value]
	if !ok {
		m.rep.AddException(st.pid, solrField, value,
			"no resource type term found")
		term = value
	}
	for _, v := range splitPipe(term) {
		st.rec.Add("field_type_of_resources_legacy", v)
	}
}

func (m *Main) transformRights(st *rowState, solrField, field, value string) {
	if strings.Contains(value, "http://rightsstatements.org/vocab/") {
		st.rec.Add("field_rights_statement", rightsMapping[value])
	}
}

// transformModel maps the legacy content model. An unmapped model skips
// the whole record, not just the field; details go to the transformation
// log rather than the exception log so skipped objects can be reviewed
// separately.
func (m *Main) transformModel(st *rowState, solrField, field, value string) {
	om, ok := objectMapping[value]
	if !ok {
		m.rep.AddTransformation(st.pid, solrField, value, "",
			"skipped object due to model type")
		st.skip = true
		return
	}
	st.rec.Add("field_resource_type", om.ResourceType)
	st.rec.Add("field_model", om.Model)
}

func (m *Main) transformDomain(st *rowState, solrField, field, value string) {
	st.rec.Add("field_domain_access", domainMapping[value])
}

// collectSource stores source-collection columns for the row post pass;
// the whole cell is deduplicated rather than matched value by value.
func (m *Main) collectSource(st *rowState, solrField, field, value string) {
	st.sourceData[solrField] = dedup(value)
}

// processSource matches the accumulated source columns against the
// source-collection table; every column must match the same row. Records
// without source columns fall back to the by-PID table of collections
// with missing source data.
func (m *Main) processSource(st *rowState) {
	if len(st.sourceData) > 0 {
		for _, row := range m.tables.Sources {
			if sourceRowMatches(row, st.sourceData) {
				m.addSourceValues(st, row)
				return
			}
		}
		var pairs []string
		for k, v := range st.sourceData {
			pairs = append(pairs, k+"="+v)
		}
		m.rep.AddException(st.pid, "", joinValues(pairs),
			"could not find matching source collection data")
		return
	}
	for _, row := range m.tables.SourceMissing {
		if row["PID"] == st.pid {
			m.addSourceValues(st, row)
			return
		}
	}
}

func (m *Main) addSourceValues(st *rowState, row map[string]string) {
	for _, f := range append(append([]string{}, sourceFields...), "field_related_title_part_of") {
		if v := row[f]; v != "" {
			st.rec.Add(f, v)
		}
	}
}

func sourceRowMatches(row, data map[string]string) bool {
	for k, v := range data {
		if row[k] != v {
			return false
		}
	}
	return true
}

// processTitle concatenates the accumulated title parts and promotes the
// full title to the top-level title field. A non-Page record without any
// title is an exception.
func (m *Main) processTitle(st *rowState) {
	for _, field := range titleFields {
		t, ok := st.rec.titles[field]
		if !ok || t.empty() {
			continue
		}
		full := t.String()
		st.rec.Add(field, full)
		if field == "field_full_title" {
			st.rec.Add("title", full)
		}
	}
	model := st.rec.Get("field_model")
	if len(st.rec.Get("title")) == 0 && (len(model) == 0 || model[0] != "Page") {
		m.rep.AddException(st.pid, "title", "", "record missing title")
	}
}

// processDates pulls the remediated dates for this PID from the dates
// table. Invalid EDTF tokens are batched into a single exception and left
// out of the EDTF field.
func (m *Main) processDates(st *rowState) {
	row, ok := m.tables.Dates[st.pid]
	if !ok {
		return
	}
	edtf := splitPipe(row.EDTF)
	if len(edtf) == 0 {
		return
	}

	valid, invalid := validateEDTFDates(edtf)
	if len(invalid) > 0 {
		m.rep.AddException(st.pid, "field_date", joinValues(invalid),
			"found invalid dates")
	}
	for _, d := range valid {
		st.rec.Add("field_edtf_date", d)
	}
	for _, d := range splitPipe(row.Date) {
		st.rec.Add("field_date_str", d)
	}
	for _, d := range splitPipe(row.Copyright) {
		st.rec.Add("field_copyright_date", d)
	}
}

func splitPipe(s string) []string {
	var res []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
