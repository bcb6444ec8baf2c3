package main

import (
	xmlpath "gopkg.in/xmlpath.v2"
)

// modsPath binds one MODS element path to an output column. Paths match
// local element names; xmlpath ignores namespace prefixes.
type modsPath struct {
	Column string
	Path   *xmlpath.Path
}

// Simple element paths extracted verbatim. Names, subjects and the
// copyrightMD block need structural handling; see extract.go.
var modsPaths = []modsPath{
	{"identifier", xmlpath.MustCompile("/mods/identifier[@type='pitt']")},
	{"title", xmlpath.MustCompile("/mods/titleInfo/title")},
	{"type_of_resource", xmlpath.MustCompile("/mods/typeOfResource")},
	{"publisher", xmlpath.MustCompile("/mods/originInfo/publisher")},
	{"pub_place", xmlpath.MustCompile("/mods/originInfo/place/placeTerm[@type='text']")},
	{"DELETE_display_date", xmlpath.MustCompile("/mods/originInfo/dateOther[@type='display']")},
	{"DELETE_sort_date", xmlpath.MustCompile("/mods/originInfo/dateOther[@type='sort']")},
	{"normalized_date", xmlpath.MustCompile("/mods/originInfo/dateCreated")},
	{"date_digitized", xmlpath.MustCompile("/mods/originInfo/dateCaptured")},
	{"language", xmlpath.MustCompile("/mods/language/languageTerm[@type='code']")},
	{"description", xmlpath.MustCompile("/mods/abstract")},
	{"format", xmlpath.MustCompile("/mods/physicalDescription/form")},
	{"extent", xmlpath.MustCompile("/mods/physicalDescription/extent")},
	{"source_collection", xmlpath.MustCompile("/mods/relatedItem[@type='host']/titleInfo/title")},
	{"source_collection_date", xmlpath.MustCompile("/mods/relatedItem[@type='host']/originInfo/dateCreated")},
	{"source_collection_id", xmlpath.MustCompile("/mods/relatedItem[@type='host']/identifier")},
	{"source_citation", xmlpath.MustCompile("/mods/relatedItem[@type='host']/note[@type='prefercite']")},
	{"source_container", xmlpath.MustCompile("/mods/relatedItem[@type='host']/note[@type='container']")},
	{"source_series", xmlpath.MustCompile("/mods/relatedItem[@type='host']/note[@type='series']")},
	{"source_subseries", xmlpath.MustCompile("/mods/relatedItem[@type='host']/note[@type='subseries']")},
	{"source_other_level", xmlpath.MustCompile("/mods/relatedItem[@type='host']/note[@type='otherlevel']")},
	{"source_ownership", xmlpath.MustCompile("/mods/relatedItem[@type='host']/note[@type='ownership']")},
	{"source_id", xmlpath.MustCompile("/mods/identifier[@type='source']")},
	{"address", xmlpath.MustCompile("/mods/note[@type='address']")},
	{"gift_of", xmlpath.MustCompile("/mods/note[@type='donor']")},
}

var (
	pathGenre     = xmlpath.MustCompile("/mods/genre")
	pathAuthority = xmlpath.MustCompile("@authority")

	pathName     = xmlpath.MustCompile("/mods/name")
	pathNamePart = xmlpath.MustCompile("namePart")
	pathRoleTerm = xmlpath.MustCompile("role/roleTerm")

	pathSubject      = xmlpath.MustCompile("/mods/subject")
	pathSubjName     = xmlpath.MustCompile("name/namePart")
	pathSubjNameRole = xmlpath.MustCompile("name/role/roleTerm")
	pathSubjTopic    = xmlpath.MustCompile("topic")
	pathSubjGeo      = xmlpath.MustCompile("geographic")
	pathSubjTemporal = xmlpath.MustCompile("temporal")
	pathSubjTitle    = xmlpath.MustCompile("titleInfo/*")
	pathSubjHierGeo  = xmlpath.MustCompile("hierarchicalGeographic/*")
	pathSubjCoords   = xmlpath.MustCompile("cartographics/coordinates")
	pathSubjScale    = xmlpath.MustCompile("cartographics/scale")

	pathPubStatus = xmlpath.MustCompile(
		"/mods/accessCondition/copyright/@publication.status")
	pathCopyStatus = xmlpath.MustCompile(
		"/mods/accessCondition/copyright/@copyright.status")
	pathRightsHolder = xmlpath.MustCompile(
		"/mods/accessCondition/copyright/rights.holder/name")

	pathApproxDate = xmlpath.MustCompile(
		"/mods/originInfo/dateCreated[@qualifier='approximate' " +
			"and @encoding='iso8601' and @keyDate='yes']")
)

// Name roles with a dedicated output column; everything else lands in
// other_names with the role in brackets.
var nameRoles = []string{
	"creator",
	"contributor",
	"depositor",
	"interviewer",
	"interviewee",
	"other_names",
}

// Output column order. Columns not listed here are appended after, sorted.
var fieldnames = []string{
	"identifier",
	"title",
	"creator",
	"contributor",
	"interviewer",
	"interviewee",
	"other_names",
	"subject_geographic",
	"subject_topic",
	"subject_local",
	"subject_name",
	"subject_temporal",
	"subject_title",
	"description",
	"normalized_date",
	"normalized_date_qualifier",
	"DELETE_display_date",
	"DELETE_sort_date",
	"date_digitized",
	"type_of_resource",
	"language",
	"genre",
	"genre_aat",
	"format",
	"extent",
	"publisher",
	"pub_place",
	"coordinates",
	"scale",
	"publication_status",
	"copyright_status",
	"rights_holder",
	"address",
	"gift_of",
	"source_collection",
	"source_collection_id",
	"source_collection_date",
	"source_citation",
	"source_container",
	"source_series",
	"source_subseries",
	"source_other_level",
	"source_ownership",
	"source_id",
}
