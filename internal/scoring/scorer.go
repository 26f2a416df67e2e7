package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/finshield/riskscreen/internal/screening"
	"github.com/finshield/riskscreen/internal/watchlist"
)

// ErrNoRiskInput is returned by Combine when neither an AML nor a KYC
// result is supplied. It is the only error this package produces; every
// other irregular input degrades to a zero contribution.
var ErrNoRiskInput = errors.New("combined risk requires at least one of aml or kyc result")

// RiskLevel is the categorical outcome derived from a score.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Score thresholds for risk levels. Every ScoreResult this package
// produces honors these.
const (
	highRiskThreshold   = 70
	mediumRiskThreshold = 40
)

// FactorType tags a scoring rule for audit.
type FactorType string

const (
	FactorSanctions       FactorType = "sanctions"
	FactorConfidence      FactorType = "match_confidence"
	FactorDOB             FactorType = "dob_match"
	FactorCountry         FactorType = "country_match"
	FactorMultipleMatches FactorType = "multiple_matches"
	FactorPEP             FactorType = "pep"
	FactorDocument        FactorType = "document"
	FactorFaceMatch       FactorType = "face_match"
	FactorExpiry          FactorType = "expiry"
	FactorOCRQuality      FactorType = "ocr_quality"
	FactorMissingFields   FactorType = "missing_fields"
	FactorDataQuality     FactorType = "data_quality"
)

// RiskFactor is one contributing rule, kept for audit.
type RiskFactor struct {
	Type        FactorType `json:"type"`
	Weight      int        `json:"weight"`
	Description string     `json:"description"`
}

// ScoreResult is a bounded score with its derived level and the factors
// that produced it.
type ScoreResult struct {
	Score   int          `json:"score"`
	Level   RiskLevel    `json:"level"`
	Factors []RiskFactor `json:"factors"`
}

// LevelFor derives the risk level from a score using the fixed thresholds.
func LevelFor(score int) RiskLevel {
	switch {
	case score >= highRiskThreshold:
		return RiskLevelHigh
	case score >= mediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// AML scoring weights.
const (
	sanctionsBaseWeight      = 50
	highConfidenceWeight     = 30
	mediumConfidenceWeight   = 15
	dobMatchWeight           = 10
	countryMatchWeight       = 5
	extraMatchWeight         = 5
	extraMatchCap            = 20
	pepWeight                = 30
)

// ScoreAML maps screening output to a bounded score. Contributions are
// accounted per match class: the confidence, DOB and country bonuses apply
// only to sanctions-class matches, and the PEP weight fires only when no
// sanctions match exists.
func ScoreAML(matches []screening.Match, hasSanctionsMatch, hasPEPMatch bool) ScoreResult {
	score := 0
	var factors []RiskFactor

	sanctions := make([]screening.Match, 0, len(matches))
	for _, m := range matches {
		if m.ListClass != watchlist.ClassPEP {
			sanctions = append(sanctions, m)
		}
	}

	if hasSanctionsMatch {
		score += sanctionsBaseWeight
		factors = append(factors, RiskFactor{
			Type:        FactorSanctions,
			Weight:      sanctionsBaseWeight,
			Description: "sanctions list match",
		})

		switch bestConfidence(sanctions) {
		case screening.ConfidenceHigh:
			score += highConfidenceWeight
			factors = append(factors, RiskFactor{
				Type:        FactorConfidence,
				Weight:      highConfidenceWeight,
				Description: "high confidence match",
			})
		case screening.ConfidenceMedium:
			score += mediumConfidenceWeight
			factors = append(factors, RiskFactor{
				Type:        FactorConfidence,
				Weight:      mediumConfidenceWeight,
				Description: "medium confidence match",
			})
		}

		if anyDOBMatch(sanctions) {
			score += dobMatchWeight
			factors = append(factors, RiskFactor{
				Type:        FactorDOB,
				Weight:      dobMatchWeight,
				Description: "date of birth corroborates match",
			})
		}
		if anyCountryMatch(sanctions) {
			score += countryMatchWeight
			factors = append(factors, RiskFactor{
				Type:        FactorCountry,
				Weight:      countryMatchWeight,
				Description: "nationality corroborates match",
			})
		}
	}

	if hasPEPMatch && !hasSanctionsMatch {
		score += pepWeight
		factors = append(factors, RiskFactor{
			Type:        FactorPEP,
			Weight:      pepWeight,
			Description: "politically exposed person match",
		})
	}

	if n := len(matches); n > 1 {
		bonus := extraMatchWeight * (n - 1)
		if bonus > extraMatchCap {
			bonus = extraMatchCap
		}
		score += bonus
		factors = append(factors, RiskFactor{
			Type:        FactorMultipleMatches,
			Weight:      bonus,
			Description: fmt.Sprintf("%d additional matches", n-1),
		})
	}

	return finalize(score, factors)
}

// Face match thresholds over the 0-1 similarity the face pipeline emits.
// At or above accept there is no contribution; between reject and accept
// the match is ambiguous; below reject it is a mismatch.
const (
	FaceMatchAcceptThreshold = 0.65
	FaceMatchRejectThreshold = 0.45
)

// KYC scoring weights.
const (
	invalidDocumentWeight  = 40
	faceMismatchWeight     = 35
	faceAmbiguousWeight    = 20
	expiredDocumentWeight  = 30
	expiringSoonWeight     = 10
	poorOCRWeight          = 25
	missingFieldWeight     = 5
	missingFieldsCap       = 20
	dataQualityIssueWeight = 5
	dataQualityCap         = 15
)

// KYCSignals is the bag of document-verification evidence. Absent optional
// signals contribute zero.
type KYCSignals struct {
	DocumentValid        bool
	FaceMatchScore       *float64 // 0-1, nil when no face comparison ran
	DocumentExpired      bool
	DocumentExpiringSoon bool
	OCRQualityPoor       bool
	MissingFieldCount    int
	DataQualityIssues    int
}

// ScoreKYC maps document-verification signals to a bounded score.
func ScoreKYC(signals KYCSignals) ScoreResult {
	score := 0
	var factors []RiskFactor

	if !signals.DocumentValid {
		score += invalidDocumentWeight
		factors = append(factors, RiskFactor{
			Type:        FactorDocument,
			Weight:      invalidDocumentWeight,
			Description: "document failed validation",
		})
	}

	// Mismatch and ambiguous-band are mutually exclusive; only the most
	// severe applies.
	if s := signals.FaceMatchScore; s != nil && *s < FaceMatchAcceptThreshold {
		if *s < FaceMatchRejectThreshold {
			score += faceMismatchWeight
			factors = append(factors, RiskFactor{
				Type:        FactorFaceMatch,
				Weight:      faceMismatchWeight,
				Description: "face does not match document photo",
			})
		} else {
			score += faceAmbiguousWeight
			factors = append(factors, RiskFactor{
				Type:        FactorFaceMatch,
				Weight:      faceAmbiguousWeight,
				Description: "low confidence face match",
			})
		}
	}

	if signals.DocumentExpired {
		score += expiredDocumentWeight
		factors = append(factors, RiskFactor{
			Type:        FactorExpiry,
			Weight:      expiredDocumentWeight,
			Description: "document expired",
		})
	} else if signals.DocumentExpiringSoon {
		score += expiringSoonWeight
		factors = append(factors, RiskFactor{
			Type:        FactorExpiry,
			Weight:      expiringSoonWeight,
			Description: "document expiring soon",
		})
	}

	if signals.OCRQualityPoor {
		score += poorOCRWeight
		factors = append(factors, RiskFactor{
			Type:        FactorOCRQuality,
			Weight:      poorOCRWeight,
			Description: "poor OCR extraction quality",
		})
	}

	if n := signals.MissingFieldCount; n > 0 {
		weight := missingFieldWeight * n
		if weight > missingFieldsCap {
			weight = missingFieldsCap
		}
		score += weight
		factors = append(factors, RiskFactor{
			Type:        FactorMissingFields,
			Weight:      weight,
			Description: fmt.Sprintf("%d required fields missing", n),
		})
	}

	if n := signals.DataQualityIssues; n > 0 {
		weight := dataQualityIssueWeight * n
		if weight > dataQualityCap {
			weight = dataQualityCap
		}
		score += weight
		factors = append(factors, RiskFactor{
			Type:        FactorDataQuality,
			Weight:      weight,
			Description: fmt.Sprintf("%d data quality issues", n),
		})
	}

	return finalize(score, factors)
}

// Combined score weighting when both checks are present.
const (
	amlWeight = 0.6
	kycWeight = 0.4
)

// Combine folds independent AML and KYC results into one score. With both
// present the AML score weighs 60% and KYC 40%; with exactly one present
// that score passes through unchanged. The level is always re-derived from
// the combined score, never inherited.
func Combine(aml, kyc *ScoreResult) (ScoreResult, error) {
	switch {
	case aml == nil && kyc == nil:
		return ScoreResult{}, ErrNoRiskInput
	case kyc == nil:
		return finalize(aml.Score, aml.Factors), nil
	case aml == nil:
		return finalize(kyc.Score, kyc.Factors), nil
	}

	combined := int(math.Round(float64(aml.Score)*amlWeight + float64(kyc.Score)*kycWeight))
	factors := make([]RiskFactor, 0, len(aml.Factors)+len(kyc.Factors))
	factors = append(factors, aml.Factors...)
	factors = append(factors, kyc.Factors...)
	return finalize(combined, factors), nil
}

// finalize clamps the score and derives the level.
func finalize(score int, factors []RiskFactor) ScoreResult {
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return ScoreResult{Score: score, Level: LevelFor(score), Factors: factors}
}

func bestConfidence(matches []screening.Match) screening.Confidence {
	best := screening.ConfidenceLow
	for _, m := range matches {
		switch m.Confidence {
		case screening.ConfidenceHigh:
			return screening.ConfidenceHigh
		case screening.ConfidenceMedium:
			best = screening.ConfidenceMedium
		}
	}
	return best
}

func anyDOBMatch(matches []screening.Match) bool {
	for _, m := range matches {
		if m.DOBMatch != nil && *m.DOBMatch {
			return true
		}
	}
	return false
}

func anyCountryMatch(matches []screening.Match) bool {
	for _, m := range matches {
		if m.CountryMatch != nil && *m.CountryMatch {
			return true
		}
	}
	return false
}
