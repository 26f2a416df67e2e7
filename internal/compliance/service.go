package compliance

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/finshield/riskscreen/internal/audit"
	"github.com/finshield/riskscreen/internal/metrics"
	"github.com/finshield/riskscreen/internal/screening"
	"github.com/finshield/riskscreen/internal/scoring"
	"github.com/finshield/riskscreen/internal/watchlist"
)

// OCRQualityPoorThreshold is the 0-1 extraction quality below which OCR
// output counts as poor.
const OCRQualityPoorThreshold = 0.5

// Status is the gate decision derived from a risk level.
type Status string

const (
	StatusPass   Status = "pass"
	StatusReview Status = "review"
	StatusFail   Status = "fail"
)

// StatusFor maps a risk level to the pass/review/fail gate.
func StatusFor(level scoring.RiskLevel) Status {
	switch level {
	case scoring.RiskLevelHigh:
		return StatusFail
	case scoring.RiskLevelMedium:
		return StatusReview
	default:
		return StatusPass
	}
}

// KYCInput carries the identity, document fields and upstream-computed
// verification signals for one KYC check. The OCR and face signals come
// from an external extraction pipeline.
type KYCInput struct {
	FullName             string
	DateOfBirth          string
	Nationality          string
	DocumentType         string
	DocumentNumber       string
	FaceMatchScore       *float64
	FaceMatchResult      *bool
	OCRQuality           *float64
	DocumentExpired      bool
	DocumentExpiringSoon bool
	MissingFields        []string
	DataQualityIssues    []string
}

// AMLReport is the outcome of one sanctions screening.
type AMLReport struct {
	RequestID      string               `json:"request_id"`
	SanctionsMatch bool                 `json:"sanctions_match"`
	PEPMatch       bool                 `json:"pep_match"`
	RiskScore      int                  `json:"risk_score"`
	RiskLevel      scoring.RiskLevel    `json:"risk_level"`
	RiskFactors    []scoring.RiskFactor `json:"risk_factors"`
	Matches        []screening.Match    `json:"matches"`
	Details        []string             `json:"details"`
}

// KYCReport is the outcome of one document verification.
type KYCReport struct {
	RequestID   string               `json:"request_id"`
	Status      Status               `json:"status"`
	RiskScore   int                  `json:"risk_score"`
	RiskLevel   scoring.RiskLevel    `json:"risk_level"`
	RiskFactors []scoring.RiskFactor `json:"risk_factors"`
	Details     []string             `json:"details"`
}

// CombinedReport is the outcome of a combined risk assessment.
type CombinedReport struct {
	RequestID    string               `json:"request_id"`
	RiskScore    int                  `json:"combined_risk_score"`
	RiskLevel    scoring.RiskLevel    `json:"combined_risk_level"`
	RiskFactors  []scoring.RiskFactor `json:"risk_factors"`
	AMLRiskScore *int                 `json:"aml_risk_score,omitempty"`
	AMLRiskLevel scoring.RiskLevel    `json:"aml_risk_level,omitempty"`
	KYCRiskScore *int                 `json:"kyc_risk_score,omitempty"`
	KYCRiskLevel scoring.RiskLevel    `json:"kyc_risk_level,omitempty"`
	Details      []string             `json:"details"`
}

// CombinedInput accepts raw check data and/or pre-computed results.
// A pre-computed result wins over raw data for the same check.
type CombinedInput struct {
	Identity  *screening.Identity
	KYC       *KYCInput
	AMLResult *scoring.ScoreResult
	KYCResult *scoring.ScoreResult
}

// Service is the AML/KYC workflow facade: screen, score, audit.
type Service struct {
	store  *watchlist.Store
	engine *screening.Engine
	audit  *audit.Recorder
	logger *zap.Logger
}

// NewService wires the screening engine and audit recorder into one
// workflow service.
func NewService(store *watchlist.Store, engine *screening.Engine, recorder *audit.Recorder, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		engine: engine,
		audit:  recorder,
		logger: logger.Named("compliance"),
	}
}

// Store exposes the underlying watchlist store for reload management.
func (s *Service) Store() *watchlist.Store {
	return s.store
}

// ScreenIdentity runs sanctions screening for one identity and scores the
// outcome. Zero watchlist records means zero matches, not a failure.
func (s *Service) ScreenIdentity(identity screening.Identity) AMLReport {
	requestID := uuid.NewString()
	start := time.Now()

	matches := s.engine.Screen(identity)
	hasSanctions, hasPEP := classify(matches)
	result := scoring.ScoreAML(matches, hasSanctions, hasPEP)

	outcome := "clear"
	if len(matches) > 0 {
		outcome = "match"
	}
	metrics.ScreeningsTotal.WithLabelValues(outcome).Inc()
	metrics.ScreeningMatches.Observe(float64(len(matches)))
	metrics.ScreeningLatency.Observe(time.Since(start).Seconds())
	metrics.RiskScores.WithLabelValues("aml").Observe(float64(result.Score))

	details := []string{fmt.Sprintf("found %d similar names", len(matches))}
	if len(matches) == 0 {
		details = []string{"no matches found"}
	}

	report := AMLReport{
		RequestID:      requestID,
		SanctionsMatch: hasSanctions,
		PEPMatch:       hasPEP,
		RiskScore:      result.Score,
		RiskLevel:      result.Level,
		RiskFactors:    result.Factors,
		Matches:        matches,
		Details:        details,
	}

	s.audit.Record(audit.Event{
		RequestID: requestID,
		Check:     audit.CheckAML,
		Action:    "screen",
		Result: map[string]interface{}{
			"sanctions_match": hasSanctions,
			"pep_match":       hasPEP,
			"risk_score":      result.Score,
			"risk_level":      string(result.Level),
			"matches":         len(matches),
		},
		Metadata: map[string]interface{}{
			"watchlist_generation": s.store.Generation(),
		},
	})
	return report
}

// VerifyDocument runs the KYC check over upstream-computed signals and
// derives the pass/review/fail status from the scored risk level.
func (s *Service) VerifyDocument(input KYCInput) KYCReport {
	requestID := uuid.NewString()

	signals := signalsFrom(input)
	result := scoring.ScoreKYC(signals)
	status := StatusFor(result.Level)
	metrics.RiskScores.WithLabelValues("kyc").Observe(float64(result.Score))

	details := make([]string, 0, 4)
	if signals.DocumentValid {
		details = append(details, "document format valid")
	} else {
		details = append(details, "document format invalid")
	}
	for _, f := range result.Factors {
		if f.Type != scoring.FactorDocument {
			details = append(details, f.Description)
		}
	}

	report := KYCReport{
		RequestID:   requestID,
		Status:      status,
		RiskScore:   result.Score,
		RiskLevel:   result.Level,
		RiskFactors: result.Factors,
		Details:     details,
	}

	s.audit.Record(audit.Event{
		RequestID: requestID,
		Check:     audit.CheckKYC,
		Action:    "verify",
		Result: map[string]interface{}{
			"status":     string(status),
			"risk_score": result.Score,
			"risk_level": string(result.Level),
		},
		Metadata: map[string]interface{}{
			"document_type": input.DocumentType,
		},
	})
	return report
}

// AssessCombined folds AML and KYC evidence into one decision. It returns
// scoring.ErrNoRiskInput when the input carries neither check.
func (s *Service) AssessCombined(input CombinedInput) (CombinedReport, error) {
	requestID := uuid.NewString()
	var details []string

	amlResult := input.AMLResult
	if amlResult == nil && input.Identity != nil {
		report := s.ScreenIdentity(*input.Identity)
		amlResult = &scoring.ScoreResult{
			Score:   report.RiskScore,
			Level:   report.RiskLevel,
			Factors: report.RiskFactors,
		}
		details = append(details, fmt.Sprintf("aml risk calculated: %d (%s)", report.RiskScore, report.RiskLevel))
	} else if amlResult != nil {
		details = append(details, fmt.Sprintf("using pre-calculated aml risk: %d", amlResult.Score))
	}

	kycResult := input.KYCResult
	if kycResult == nil && input.KYC != nil {
		report := s.VerifyDocument(*input.KYC)
		kycResult = &scoring.ScoreResult{
			Score:   report.RiskScore,
			Level:   report.RiskLevel,
			Factors: report.RiskFactors,
		}
		details = append(details, fmt.Sprintf("kyc risk calculated: %d (%s)", report.RiskScore, report.RiskLevel))
	} else if kycResult != nil {
		details = append(details, fmt.Sprintf("using pre-calculated kyc risk: %d", kycResult.Score))
	}

	combined, err := scoring.Combine(amlResult, kycResult)
	if err != nil {
		return CombinedReport{}, err
	}
	metrics.RiskScores.WithLabelValues("combined").Observe(float64(combined.Score))
	details = append(details, fmt.Sprintf("combined: %d (%s)", combined.Score, combined.Level))

	report := CombinedReport{
		RequestID:   requestID,
		RiskScore:   combined.Score,
		RiskLevel:   combined.Level,
		RiskFactors: combined.Factors,
		Details:     details,
	}
	if amlResult != nil {
		report.AMLRiskScore = &amlResult.Score
		report.AMLRiskLevel = amlResult.Level
	}
	if kycResult != nil {
		report.KYCRiskScore = &kycResult.Score
		report.KYCRiskLevel = kycResult.Level
	}

	s.audit.Record(audit.Event{
		RequestID: requestID,
		Check:     audit.CheckRisk,
		Action:    "combined",
		Result: map[string]interface{}{
			"combined_risk_score": combined.Score,
			"combined_risk_level": string(combined.Level),
		},
		Metadata: map[string]interface{}{
			"has_aml": amlResult != nil,
			"has_kyc": kycResult != nil,
		},
	})
	return report, nil
}

// ReloadWatchlists invalidates the cached generation and loads a fresh one.
func (s *Service) ReloadWatchlists() error {
	s.store.Invalidate()
	if err := s.store.Load(); err != nil {
		return err
	}
	metrics.WatchlistRecords.Set(float64(len(s.store.Records())))
	return nil
}

// signalsFrom lowers raw KYC input to the scorer's signal bag.
func signalsFrom(input KYCInput) scoring.KYCSignals {
	ocrPoor := input.OCRQuality != nil && *input.OCRQuality < OCRQualityPoorThreshold
	return scoring.KYCSignals{
		DocumentValid:        len(input.DocumentNumber) > 3,
		FaceMatchScore:       input.FaceMatchScore,
		DocumentExpired:      input.DocumentExpired,
		DocumentExpiringSoon: input.DocumentExpiringSoon,
		OCRQualityPoor:       ocrPoor,
		MissingFieldCount:    len(input.MissingFields),
		DataQualityIssues:    len(input.DataQualityIssues),
	}
}

// classify derives the sanctions/PEP booleans from match list classes.
func classify(matches []screening.Match) (hasSanctions, hasPEP bool) {
	for _, m := range matches {
		if m.ListClass == watchlist.ClassPEP {
			hasPEP = true
		} else {
			hasSanctions = true
		}
	}
	return hasSanctions, hasPEP
}
