package model

import "strings"

// Sentinel values stored in the annotation columns. ErrorPrefix marks failed
// rows; summary statistics partition on it, so it must never collide with a
// real group name. Unknown doubles as the location-count placeholder.
const (
	GroupIndependent = "Independent"
	Unknown          = "Unknown"
	ErrorPrefix      = "ERROR:"

	// GroupManualReview is stored when search snippets imply group ownership
	// but no group name could be extracted from them.
	GroupManualReview = "Part of Restaurant Group (verify manually)"
)

// Verification outcomes written to the verified column. Empty means the row
// has not been through verification.
const (
	VerifiedGroupIdentified = "Yes - Group Identified"
	VerifiedGroupFound      = "Yes - Group Found"
	VerifiedIndependent     = "Yes - Confirmed Independent"
	VerifiedNoSerper        = "No - Serper Not Available"
)

// Record is one restaurant row from the dataset plus its enrichment
// annotations.
type Record struct {
	Name   string `json:"name"`
	Market string `json:"market,omitempty"`
	Domain string `json:"domain,omitempty"`

	HospitalityGroup string `json:"hospitality_group,omitempty"`
	TotalLocations   string `json:"total_locations,omitempty"`
	Verified         string `json:"verified,omitempty"`
}

// HasGroup reports whether the record carries any group annotation,
// sentinels and error markers included.
func (r *Record) HasGroup() bool {
	return r.HospitalityGroup != ""
}

// IsError reports whether the group annotation is an error sentinel.
func (r *Record) IsError() bool {
	return strings.HasPrefix(r.HospitalityGroup, ErrorPrefix)
}

// IsIndependent reports whether the record resolved to a standalone
// restaurant.
func (r *Record) IsIndependent() bool {
	return r.HospitalityGroup == GroupIndependent
}

// IsVerified reports whether the verification tag is affirmative.
func (r *Record) IsVerified() bool {
	return strings.HasPrefix(r.Verified, "Yes")
}

// Resolved reports whether the record is terminal for batch purposes. When
// verification is in play a row must additionally carry an affirmative tag,
// so rows annotated before a search credential existed (and error rows,
// which never carry a tag) are picked up again on rerun. Without
// verification, any group annotation counts.
func (r *Record) Resolved(requireVerified bool) bool {
	if !r.HasGroup() {
		return false
	}
	if requireVerified {
		return r.IsVerified()
	}
	return true
}
