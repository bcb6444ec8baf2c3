package main

// Static lookup tables for the Solr-to-I2 migration. The larger
// remediation tables (names, subjects, genres, forms, source collections)
// are curated outside the repository and loaded from CSV at startup; see
// tables.go.

// objectModel describes the target model a legacy content model maps to.
type objectModel struct {
	Model        string
	ResourceType string
}

// RELS_EXT_hasModel_uri_ms -> target model
var objectMapping = map[string]objectModel{
	"info:fedora/islandora:collectionCModel":     {"Collection", "Collection"},
	"info:fedora/islandora:compoundCModel":       {"Compound Object", "Collection"},
	"info:fedora/islandora:oralhistoriesCModel":  {"Compound Object", "Collection"},
	"info:fedora/islandora:bookCModel":           {"Paged Content", "Collection"},
	"info:fedora/islandora:manuscriptCModel":     {"Paged Content", "Collection"},
	"info:fedora/islandora:newspaperCModel":      {"Newspaper", "Collection"},
	"info:fedora/islandora:newspaperIssueCModel": {"Publication Issue", "Collection"},
	"info:fedora/islandora:pageCModel":           {"Page", "Text"},
	"info:fedora/islandora:manuscriptPageCModel": {"Page", "Text"},
	"info:fedora/islandora:newspaperPageCModel":  {"Page", "Text"},
	"info:fedora/islandora:sp_pdf":               {"Digital Document", "Text"},
	"info:fedora/islandora:sp_large_image_cmodel": {
		"Image", "Still Image",
	},
	"info:fedora/islandora:sp_videoCModel": {"Video", "Moving Image"},
	"info:fedora/islandora:sp-audioCModel": {"Audio", "Sound"},
}

// mods_typeOfResource_ms -> resource type term
var typeMapping = map[string]string{
	"cartographic":               "Cartographic",
	"mixed material":             "Mixed material",
	"moving image":               "Moving image",
	"notated music":              "Notated music",
	"software, multimedia":       "Multimedia|Software",
	"sound recording":            "Audio",
	"Sound Recording":            "Audio",
	"sound recording-musical":    "Audio musical",
	"sound recording-nonmusical": "Audio non-musical",
	"sound recordings-nonmusical": "Audio non-musical",
	"still image":                "Still image",
	"still_image":                "Still image",
	"text":                       "Text",
	"three dimensional object":   "Artifact",
}

// RELS_EXT_isMemberOfSite_uri_ms -> domain access term
var domainMapping = map[string]string{
	"info:fedora/":                                  "digital_library_pitt_edu",
	"info:fedora/pitt:site.admin":                   "digital_library_pitt_edu",
	"info:fedora/pitt:site.american-music":          "americanmusic_library_pitt_edu",
	"info:fedora/pitt:site.documenting-pitt":        "documenting_pitt_edu",
	"info:fedora/pitt:site.historic-pittsburgh":     "historicpittsburgh_org",
	"info:fedora/pitt:site.uls-digital-collections": "digital_library_pitt_edu",
	"info:fedora/pitt:uls-digital-collections":      "digital_library_pitt_edu",
}

// rights statement URI -> label
var rightsMapping = map[string]string{
	"http://rightsstatements.org/vocab/UND/1.0/":    "Copyright Undetermined",
	"http://rightsstatements.org/vocab/CNE/1.0/":    "Copyright Undetermined",
	"http://rightsstatements.org/vocab/NoC-US/1.0/": "No Copyright - United States",
	"http://rightsstatements.org/vocab/InC/1.0/":    "In Copyright",
}

// subject heading type -> target field
var subjectFieldMapping = map[string]string{
	"conference":   "field_subjects_name",
	"corporate":    "field_subjects_name",
	"family":       "field_subjects_name",
	"genre":        "field_subject_genre",
	"geographic":   "field_geographic_subject",
	"personal":     "field_subjects_name",
	"temporal":     "field_temporal_subject",
	"title":        "field_subject_title",
	"topic":        "field_subject",
	"address":      "field_addresses",
	"thoroughfare": "field_thoroughfares",
	"feature":      "field_geographic_features",
}

// name type -> linked agent prefix namespace
var linkedAgentTypes = map[string]string{
	"conference": "conference",
	"corporate":  "corporate_body",
	"family":     "family",
	"personal":   "person",
}

var requiredFields = []string{
	"id",
	"field_model",
	"field_resource_type",
}

// Solr columns intentionally left unmapped; their presence is not an error.
var unmappedFields = []string{
	"fedora_datastream_info_HOCR_ID_ms",
	"fedora_datastream_info_JP2_ID_ms",
	"fedora_datastream_info_TRANSCRIPT_ID_ms",
	"mods_name_namePart_ms",
}

var titleFields = []string{
	"field_full_title",
	"field_uniform_title",
	"field_alternative_title_pitt",
}

var dateFields = []string{
	"field_edtf_date",
	"field_copyright_date",
	"field_date_str",
}

var sourceFields = []string{
	"field_source_collection_id",
	"field_source_collection",
	"field_source_repository",
	"field_source_citation",
}

var subjectSolrFields = []string{
	"mods_subject_genre_ms",
	"mods_subject_geographic_ms",
	"mods_subject_name_conference_namePart_ms",
	"mods_subject_name_corporate_namePart_ms",
	"mods_subject_name_namePart_ms",
	"mods_subject_name_personal_namePart_ms",
	"mods_subject_temporal_ms",
	"mods_subject_titleInfo_partName_ms",
	"mods_subject_titleInfo_title_ms",
	"mods_subject_topic_ms",
}

var parentModels = []string{
	"Compound Object",
	"Paged Content",
	"Newspaper",
	"Publication Issue",
}

var pageModels = []string{
	"info:fedora/islandora:pageCModel",
	"info:fedora/islandora:manuscriptPageCModel",
	"info:fedora/islandora:newspaperPageCModel",
}

// Root PIDs that never become parent references.
var rootPIDs = []string{
	"pitt:root",
	"islandora:root",
}

// EDTF masks used in the legacy index that the EDTF grammar rejects but
// the target platform accepts.
var irregularEDTF = []string{
	"18XX/",
	"184X/",
	"186X/1975~",
	"196X/",
	"197X/",
	"19XX/",
	"19XX/..",
}

// Collection files processed after everything else, in this order.
var collectionsToHold = []string{
	"pitt_collection_49.csv",
	"pitt_collection_137.csv",
	"pitt_collection_370.csv",
	"pitt_collection_9.csv",
	"pitt_collection_159.csv",
	"pitt_collection_4.csv",
	"pitt_collection_5.csv",
	"pitt_collection_12.csv",
	"pitt_collection_8.csv",
	"pitt_collection_3.csv",
	"pitt_collection_190.csv",
	"pitt_collection_143.csv",
	"pitt_collection_111.csv",
	"pitt_collection_107.csv",
	"pitt_collection_2.csv",
	"pitt_collection_7.csv",
	"pitt_collection_241.csv",
	"pitt_collection_123.csv",
	"pitt_collection_153.csv",
	"pitt_collection_373.csv",
	"null_collection_objects.csv",
}

// Collection files excluded from migration.
var collectionsToIgnore = []string{
	"pitt_collection_131.csv",
	"pitt_collection_158.csv",
	"pitt_collection_165.csv",
	"pitt_collection_166.csv",
	"pitt_collection_167.csv",
	"pitt_collection_178.csv",
	"pitt_collection_189.csv",
	"pitt_collection_206.csv",
	"pitt_collection_208.csv",
	"pitt_collection_209.csv",
	"pitt_collection_210.csv",
	"pitt_collection_211.csv",
	"pitt_collection_220.csv",
	"pitt_collection_221.csv",
	"pitt_collection_222.csv",
	"pitt_collection_224.csv",
	"pitt_collection_227.csv",
	"pitt_collection_242.csv",
	"pitt_collection_248.csv",
	"pitt_collection_255.csv",
	"pitt_collection_260.csv",
	"pitt_collection_264.csv",
	"pitt_collection_265.csv",
	"pitt_collection_267.csv",
	"pitt_collection_268.csv",
	"pitt_collection_271.csv",
	"pitt_collection_272.csv",
	"pitt_collection_276.csv",
	"pitt_collection_277.csv",
	"pitt_collection_280.csv",
	"pitt_collection_284.csv",
	"pitt_collection_297.csv",
	"pitt_collection_301.csv",
	"pitt_collection_307.csv",
	"pitt_collection_348.csv",
	"pitt_collection_364.csv",
	"pitt_collection_371.csv",
	"pitt_collection_387.csv",
	"pitt_collection_39.csv",
	"pitt_collection_398.csv",
	"pitt_collection_406.csv",
	"pitt_collection_413.csv",
	"pitt_collection_414.csv",
	"pitt_collection_419.csv",
	"pitt_collection_424.csv",
	"pitt_collection_429.csv",
	"pitt_collection_439.csv",
	"pitt_collection_614.csv",
}

// Output column order. Columns not listed here are appended after,
// sorted.
var fieldnames = []string{
	"id",
	"parent_id",
	"field_weight",
	"title",
	"field_full_title",
	"field_uniform_title",
	"field_alternative_title_pitt",
	"field_model",
	"field_resource_type",
	"field_member_of",
	"field_domain_access",
	"field_linked_agent",
	"field_edtf_date",
	"field_date_str",
	"field_copyright_date",
	"field_language",
	"field_place_published_pitt",
	"field_publisher",
	"field_extent",
	"field_physical_form",
	"field_genre",
	"field_subject",
	"field_subject_genre",
	"field_subject_title",
	"field_subjects_name",
	"field_geographic_subject",
	"field_temporal_subject",
	"field_rights_statement",
	"field_copyright_holder",
	"field_source_collection_id",
	"field_source_collection",
	"field_source_repository",
	"field_source_citation",
	"field_related_title_part_of",
	"field_identifier",
	"field_description",
}
