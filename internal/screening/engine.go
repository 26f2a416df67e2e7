package screening

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/finshield/riskscreen/internal/watchlist"
)

// DefaultSimilarityThreshold is the minimum similarity for a record to
// count as a match.
const DefaultSimilarityThreshold = 85

// Confidence bands over the similarity score.
const (
	highConfidenceThreshold   = 95
	mediumConfidenceThreshold = 90
)

// Confidence expresses how close a match is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Identity is the query subject for one screening call.
type Identity struct {
	FullName    string
	DateOfBirth string // optional, "YYYY-MM-DD"
	Nationality string // optional ISO country code
}

// Match is one watchlist record that cleared the similarity threshold.
// DOBMatch and CountryMatch are nil when the identity or the record lacks
// the corroborating field.
type Match struct {
	MatchedName  string              `json:"matched_name"`
	PrimaryName  string              `json:"primary_name"`
	Source       watchlist.Source    `json:"source"`
	ListClass    watchlist.ListClass `json:"list_class"`
	ExternalID   string              `json:"external_id"`
	Similarity   int                 `json:"similarity"`
	Confidence   Confidence          `json:"confidence"`
	DOBMatch     *bool               `json:"dob_match,omitempty"`
	CountryMatch *bool               `json:"country_match,omitempty"`
}

// RecordSource is the read side of the watchlist store.
type RecordSource interface {
	Records() []watchlist.Record
}

// Engine scans the consolidated watchlist for approximate name matches.
type Engine struct {
	store     RecordSource
	threshold int
	logger    *zap.Logger
}

// NewEngine creates a screening engine over the given record source.
// A threshold of zero selects the default.
func NewEngine(store RecordSource, threshold int, logger *zap.Logger) *Engine {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Engine{
		store:     store,
		threshold: threshold,
		logger:    logger.Named("screening"),
	}
}

// Screen scans every record for the identity and returns matches ordered
// by descending similarity, ties broken by source name. A blank identity
// name or an empty watchlist yields an empty result, never an error.
func (e *Engine) Screen(identity Identity) []Match {
	if strings.TrimSpace(identity.FullName) == "" {
		return nil
	}

	records := e.store.Records()
	if len(records) == 0 {
		return nil
	}

	start := time.Now()
	var matches []Match
	for i := range records {
		if m, ok := e.matchRecord(identity, &records[i]); ok {
			matches = append(matches, m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Source < matches[j].Source
	})

	e.logger.Debug("screening scan complete",
		zap.Int("records", len(records)),
		zap.Int("matches", len(matches)),
		zap.Duration("elapsed", time.Since(start)))
	return matches
}

// matchRecord scores one record against the identity. Only the best
// scoring name variant counts; a record never matches twice through
// different aliases.
func (e *Engine) matchRecord(identity Identity, rec *watchlist.Record) (Match, bool) {
	best := Similarity(identity.FullName, rec.PrimaryName)
	bestName := rec.PrimaryName
	for _, alias := range rec.Aliases {
		if s := Similarity(identity.FullName, alias); s > best {
			best = s
			bestName = alias
		}
	}
	if best < e.threshold {
		return Match{}, false
	}

	m := Match{
		MatchedName: bestName,
		PrimaryName: rec.PrimaryName,
		Source:      rec.Source,
		ListClass:   rec.Source.Class(),
		ExternalID:  rec.ExternalID,
		Similarity:  best,
		Confidence:  confidenceFor(best),
	}

	if identity.DateOfBirth != "" && rec.DateOfBirth != "" {
		equal := strings.TrimSpace(identity.DateOfBirth) == strings.TrimSpace(rec.DateOfBirth)
		m.DOBMatch = &equal
	}
	if identity.Nationality != "" && len(rec.Nationalities) > 0 {
		member := rec.HasNationality(identity.Nationality)
		m.CountryMatch = &member
	}
	return m, true
}

func confidenceFor(similarity int) Confidence {
	switch {
	case similarity >= highConfidenceThreshold:
		return ConfidenceHigh
	case similarity >= mediumConfidenceThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
