package main

import (
	"github.com/sfomuseum/go-edtf/parser"
)

// validEDTF reports whether a date token parses as EDTF, or is one of the
// known-irregular legacy masks the target platform accepts anyway.
func validEDTF(date string) bool {
	if inList(date, irregularEDTF) {
		return true
	}
	return parser.IsValid(date)
}

// validateEDTFDates splits a list of date tokens into valid and invalid
// ones, preserving order.
func validateEDTFDates(dates []string) (valid, invalid []string) {
	for _, d := range dates {
		if validEDTF(d) {
			valid = append(valid, d)
		} else {
			invalid = append(invalid, d)
		}
	}
	return valid, invalid
}
