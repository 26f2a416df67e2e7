package watchlist

import (
	"strings"
)

// Source identifies the authority that published a watchlist partition.
type Source string

const (
	SourceUN   Source = "UN"
	SourceOFAC Source = "OFAC"
	SourceEU   Source = "EU"
	SourceUK   Source = "UK"
	SourcePEP  Source = "PEP"
)

// ListClass distinguishes sanctions partitions from PEP partitions. The
// scorer weights the two classes differently.
type ListClass string

const (
	ClassSanctions ListClass = "sanctions"
	ClassPEP       ListClass = "pep"
)

// Class returns the list class for a source. Unknown sources are treated
// as sanctions, the stricter class.
func (s Source) Class() ListClass {
	if s == SourcePEP {
		return ClassPEP
	}
	return ClassSanctions
}

// RecordType distinguishes listed individuals from listed entities.
type RecordType string

const (
	RecordTypeIndividual RecordType = "individual"
	RecordTypeEntity     RecordType = "entity"
)

// Record is a single consolidated watchlist entry. Records are immutable
// once loaded; a reload replaces the whole generation.
type Record struct {
	Source         Source     `json:"source"`
	SourceFile     string     `json:"source_file"`
	RecordType     RecordType `json:"record_type"`
	ExternalID     string     `json:"external_id"`
	PrimaryName    string     `json:"primary_name"`
	Aliases        []string   `json:"aliases"`
	Nationalities  []string   `json:"nationalities"`
	DateOfBirth    string     `json:"date_of_birth"`
	LastUpdated    string     `json:"last_updated"`
	ProcessingDate string     `json:"processing_date"`
}

// Key returns the identity key of a record within the consolidated set.
func (r Record) Key() string {
	return string(r.Source) + ":" + r.ExternalID
}

// HasNationality reports whether the record lists the given ISO country
// code, case-insensitively.
func (r Record) HasNationality(code string) bool {
	code = strings.TrimSpace(code)
	for _, n := range r.Nationalities {
		if strings.EqualFold(n, code) {
			return true
		}
	}
	return false
}

// splitMulti splits a "; "-delimited multi-value CSV cell as produced by
// the list normalization pipeline.
func splitMulti(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
