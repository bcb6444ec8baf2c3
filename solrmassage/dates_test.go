package main

import (
	"reflect"
	"testing"
)

func TestValidEDTF(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"1999", true},
		{"1999-01", true},
		{"1999-01-15", true},
		{"1999~", true},
		{"1999?", true},
		{"1880/1920", true},
		{"18XX", true},
		{"18XX/", true},        // irregular legacy mask
		{"186X/1975~", true},   // irregular legacy mask
		{"19XX/..", true},      // irregular legacy mask
		{"not-a-date", false},
		{"ca. 1920", false},
		{"1999-13", false},
	}
	for _, tt := range tests {
		if got := validEDTF(tt.date); got != tt.want {
			t.Errorf("validEDTF(%q) = %v; want %v", tt.date, got, tt.want)
		}
	}
}

func TestValidateEDTFDates(t *testing.T) {
	valid, invalid := validateEDTFDates([]string{"1999", "not-a-date", "1850/1900", "never"})
	if want := []string{"1999", "1850/1900"}; !reflect.DeepEqual(valid, want) {
		t.Errorf("valid = %v; want %v", valid, want)
	}
	if want := []string{"not-a-date", "never"}; !reflect.DeepEqual(invalid, want) {
		t.Errorf("invalid = %v; want %v", invalid, want)
	}
}
