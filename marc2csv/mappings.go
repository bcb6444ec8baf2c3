package main

// recordTypes maps the type-of-record code at leader position 6 to a
// human-readable label.
var recordTypes = map[byte]string{
	'a': "text",
	'c': "notated music",
	'd': "manuscript notated music",
	'e': "cartographic material",
	'f': "manuscript cartographic material",
	'g': "projected medium",
	'i': "nonmusical sound recording",
	'j': "musical sound recording",
	'k': "two-dimensional nonprojectable graphic",
	'm': "computer file",
	'o': "kit",
	'p': "mixed materials",
	'r': "three-dimensional artifact",
	't': "manuscript text",
}

// subjectCodes are the 650 subfields that make up a single heading,
// in the order they are joined.
var subjectCodes = []string{"a", "x", "y", "z", "v"}

// fieldnames is the output column order.
var fieldnames = []string{
	"identifier",
	"type_of_record",
	"title",
	"creator",
	"contributor",
	"publisher",
	"date",
	"extent",
	"subject",
	"genre",
	"language",
}
