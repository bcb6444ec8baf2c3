package main

import (
	"io"
	"regexp"
	"strings"

	xmlpath "gopkg.in/xmlpath.v2"
)

var rgxSpaces = regexp.MustCompile(`\s+`)

// cleanValue removes newlines, collapses repeated whitespace and trims
// the result.
func cleanValue(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = rgxSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Record maps output columns to their extracted values.
type Record map[string][]string

func (r Record) add(column, value string) {
	value = cleanValue(value)
	if value == "" {
		return
	}
	r[column] = append(r[column], value)
}

// Flatten joins multi-values with "; ".
func (r Record) Flatten() map[string]string {
	res := make(map[string]string, len(r))
	for column, values := range r {
		res[column] = strings.Join(values, "; ")
	}
	return res
}

// pidFromFilename recovers the object PID from a MODS export filename,
// e.g. pitt_pitt%3A31735033381234_MODS.xml.
func pidFromFilename(name string) string {
	name = strings.TrimSuffix(name, ".xml")
	name = strings.TrimSuffix(name, "_MODS")
	name = strings.TrimPrefix(name, "pitt_")
	return strings.ReplaceAll(name, "%3A", ":")
}

// ExtractRecord reads one MODS document and extracts a flat record.
// filename supplies the identifier fallback when the document itself
// carries none.
func ExtractRecord(r io.Reader, filename string) (Record, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, err
	}

	rec := make(Record)
	for _, mp := range modsPaths {
		for it := mp.Path.Iter(root); it.Next(); {
			rec.add(mp.Column, it.Node().String())
		}
	}

	extractGenres(root, rec)
	extractNames(root, rec)
	extractSubjects(root, rec)
	extractCopyright(root, rec)
	extractDateQualifier(root, rec)

	if len(rec["identifier"]) == 0 {
		rec.add("identifier", pidFromFilename(filename))
	}
	return rec, nil
}

// extractGenres routes genre terms on their authority attribute.
func extractGenres(root *xmlpath.Node, rec Record) {
	for it := pathGenre.Iter(root); it.Next(); {
		node := it.Node()
		column := "genre"
		if auth, ok := pathAuthority.String(node); ok && auth == "aat" {
			column = "genre_aat"
		}
		rec.add(column, node.String())
	}
}

// extractNames splits name entries on their role term. Known roles get
// their own column; names with an unknown role keep it in brackets under
// other_names, and names without a role land there too.
func extractNames(root *xmlpath.Node, rec Record) {
	for it := pathName.Iter(root); it.Next(); {
		node := it.Node()
		namePart, ok := pathNamePart.String(node)
		if !ok || cleanValue(namePart) == "" {
			continue
		}
		role, hasRole := pathRoleTerm.String(node)
		role = cleanValue(role)
		switch {
		case !hasRole || role == "":
			rec.add("other_names", namePart)
		case inList(role, nameRoles):
			rec.add(role, namePart)
		default:
			rec.add("other_names", cleanValue(namePart)+" ["+role+"]")
		}
	}
}

// extractSubjects handles the typed subject sub-elements. Multi-part
// headings (titles, hierarchical geographics) are joined before they are
// added.
func extractSubjects(root *xmlpath.Node, rec Record) {
	for it := pathSubject.Iter(root); it.Next(); {
		node := it.Node()
		authority, _ := pathAuthority.String(node)

		for t := pathSubjTopic.Iter(node); t.Next(); {
			column := "subject_topic"
			if authority == "local" {
				column = "subject_local"
			}
			rec.add(column, t.Node().String())
		}
		for g := pathSubjGeo.Iter(node); g.Next(); {
			rec.add("subject_geographic", g.Node().String())
		}
		for tm := pathSubjTemporal.Iter(node); tm.Next(); {
			rec.add("subject_temporal", tm.Node().String())
		}
		if name, ok := pathSubjName.String(node); ok && cleanValue(name) != "" {
			if role, ok := pathSubjNameRole.String(node); ok && cleanValue(role) != "" {
				name = cleanValue(name) + " [" + cleanValue(role) + "]"
			}
			rec.add("subject_name", name)
		}
		if parts := collectValues(pathSubjTitle, node); len(parts) > 0 {
			rec.add("subject_title", strings.Join(parts, ", "))
		}
		if parts := collectValues(pathSubjHierGeo, node); len(parts) > 0 {
			rec.add("subject_geographic", strings.Join(parts, "--"))
		}
		if v, ok := pathSubjCoords.String(node); ok {
			rec.add("coordinates", v)
		}
		if v, ok := pathSubjScale.String(node); ok {
			rec.add("scale", v)
		}
	}
}

// extractCopyright pulls the publication and copyright status attributes
// from the copyrightMD block.
func extractCopyright(root *xmlpath.Node, rec Record) {
	if v, ok := pathPubStatus.String(root); ok {
		rec.add("publication_status", v)
	}
	if v, ok := pathCopyStatus.String(root); ok {
		rec.add("copyright_status", v)
	}
	if v, ok := pathRightsHolder.String(root); ok {
		rec.add("rights_holder", v)
	}
}

var circaPatterns = []string{"c.", "ca.", "circa"}

// extractDateQualifier sets normalized_date_qualifier when the created
// date is marked approximate, or when the display date reads as circa.
func extractDateQualifier(root *xmlpath.Node, rec Record) {
	if pathApproxDate.Exists(root) {
		rec.add("normalized_date_qualifier", "yes")
		return
	}
	for _, display := range rec["DELETE_display_date"] {
		for _, pattern := range circaPatterns {
			if strings.Contains(display, pattern) {
				rec.add("normalized_date_qualifier", "yes")
				return
			}
		}
	}
}

func collectValues(p *xmlpath.Path, node *xmlpath.Node) []string {
	var res []string
	for it := p.Iter(node); it.Next(); {
		if v := cleanValue(it.Node().String()); v != "" {
			res = append(res, v)
		}
	}
	return res
}

func inList(s string, list []string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
