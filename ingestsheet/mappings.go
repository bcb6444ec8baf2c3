package main

// Static lookup tables for ingest sheet preparation. The curated mapping
// tables (field schema, template and manifest field mappings, taxonomies,
// collection nodes) are loaded from CSV at startup; see tables.go.

// modelTerm describes the resource type and viewer a model term implies.
type modelTerm struct {
	ResourceType string
	DisplayHint  string
}

var modelMapping = map[string]modelTerm{
	"Collection":        {"Collection", ""},
	"Compound Object":   {"Collection", ""},
	"Paged Content":     {"Collection", "Mirador"},
	"Newspaper":         {"Collection", "Mirador"},
	"Publication Issue": {"Collection", "Mirador"},
	"Page":              {"Text", "Mirador"},
	"Digital Document":  {"Text", "PDFjs"},
	"Image":             {"Still Image", "Mirador"},
	"Video":             {"Moving Image", ""},
	"Audio":             {"Sound", ""},
}

var issuanceMapping = map[string]string{
	"continuing":  "serial",
	"monographic": "single unit",
	"serial":      "serial",
}

var copyrightStatusMapping = map[string]string{
	"copyrighted": "In Copyright",
	"pd":          "No Copyright - United States",
	"pd_usfed":    "No Copyright - United States",
	"pd_holder":   "No Copyright - United States",
	"pd_expired":  "No Copyright - United States",
	"unknown":     "Copyright Undetermined",
}

// site URI -> domain access term
var domainMapping = map[string]string{
	"info:fedora/":                                  "digital_library_pitt_edu",
	"info:fedora/pitt:site.admin":                   "digital_library_pitt_edu",
	"info:fedora/pitt:site.american-music":          "americanmusic_library_pitt_edu",
	"info:fedora/pitt:site.documenting-pitt":        "documenting_pitt_edu",
	"info:fedora/pitt:site.historic-pittsburgh":     "historicpittsburgh_org",
	"info:fedora/pitt:site.uls-digital-collections": "digital_library_pitt_edu",
	"info:fedora/pitt:uls-digital-collections":      "digital_library_pitt_edu",
}

var requiredFields = []string{
	"id",
	"title",
	"field_model",
	"field_resource_type",
	"field_member_of",
	"field_domain_access",
}

// Fields whose values must resolve against a loaded taxonomy.
var controlledFields = []string{
	"field_depositor",
	"field_display_hints",
	"field_domain_access",
	"field_genre",
	"field_geographic_subject",
	"field_language",
	"field_linked_agent",
	"field_member_of",
	"field_mode_of_issuance",
	"field_model",
	"field_physical_form",
	"field_place_published_pitt",
	"field_resource_type",
	"field_rights_statement",
	"field_source_collection",
	"field_source_collection_id",
	"field_source_repository",
	"field_subject",
	"field_subject_genre",
	"field_subject_title",
	"field_subjects_name",
	"field_temporal_subject",
	"field_type_of_resource",
}

// Fields dropped at the minimal metadata level; they come back in a later
// complete-level update once vetted.
var vettedFields = []string{
	"field_depositor",
	"field_genre",
	"field_geographic_subject",
	"field_language",
	"field_linked_agent",
	"field_mode_of_issuance",
	"field_physical_form",
	"field_place_published_pitt",
	"field_source_collection",
	"field_source_collection_id",
	"field_source_repository",
	"field_subject",
	"field_subject_genre",
	"field_subject_title",
	"field_subjects_name",
	"field_temporal_subject",
	"field_type_of_resource",
}

var dateFields = []string{
	"field_edtf_date",
	"field_copyright_date",
	"field_date_str",
}

// Fields whose cell values hold several "; "-separated entries.
var delimitedFields = []string{
	"field_addresses",
	"field_coordinates",
	"field_copyright_date",
	"field_copyright_holder",
	"field_edition",
	"field_edtf_date",
	"field_extent",
	"field_frequency",
	"field_genre",
	"field_geographic_features",
	"field_geographic_subject",
	"field_isbn",
	"field_issn",
	"field_language",
	"field_linked_agent",
	"field_local_identifier",
	"field_physical_form",
	"field_scale",
	"field_subject",
	"field_subject_title",
	"field_subjects_name",
	"field_temporal_subject",
	"field_thoroughfares",
}

var parentModels = []string{
	"Compound Object",
	"Paged Content",
	"Newspaper",
	"Publication Issue",
}

// Manifest columns kept in the merged sheet, in order. node_id is added
// after id for update tasks.
var manifestColumns = []string{
	"id",
	"file",
	"field_model",
	"field_resource_type",
	"field_domain_access",
	"field_depositor",
	"field_member_of",
	"published",
}

var optionalManifestColumns = []string{
	"parent_id",
	"weight",
	"transcript",
	"thumbnail",
}

// Identifier cell values treated as empty when joining sheets.
var emptyPlaceholders = []string{
	"",
	"nan",
	"none",
	"null",
	"n/a",
	"na",
}

var batchSubdirs = []string{
	"configs",
	"export",
	"import",
	"import/media",
	"logs",
	"metadata",
	"rollback",
	"tmp",
}

func inList(s string, list []string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
