package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finshield/riskscreen/internal/compliance"
	"github.com/finshield/riskscreen/internal/screening"
	"github.com/finshield/riskscreen/internal/scoring"
)

// AMLScreenRequest is the identity payload for sanctions screening.
type AMLScreenRequest struct {
	FullName    string `json:"full_name" binding:"required"`
	DOB         string `json:"dob"`
	Nationality string `json:"nationality"`
}

// KYCVerifyRequest carries identity, document and upstream signal data.
type KYCVerifyRequest struct {
	FullName             string   `json:"full_name" binding:"required"`
	DOB                  string   `json:"dob"`
	Nationality          string   `json:"nationality"`
	DocumentType         string   `json:"document_type" binding:"required"`
	DocumentNumber       string   `json:"document_number" binding:"required"`
	FaceMatchScore       *float64 `json:"face_match_score" binding:"omitempty,gte=0,lte=1"`
	FaceMatchResult      *bool    `json:"face_match_result"`
	OCRQuality           *float64 `json:"ocr_quality" binding:"omitempty,gte=0,lte=1"`
	DocumentExpired      bool     `json:"document_expired"`
	DocumentExpiringSoon bool     `json:"document_expiring_soon"`
	MissingFields        []string `json:"missing_fields"`
	DataQualityIssues    []string `json:"data_quality_issues"`
}

// PreCalculatedRisk is a previously computed check result supplied to the
// combined endpoint instead of raw data.
type PreCalculatedRisk struct {
	RiskScore   int                  `json:"risk_score" binding:"gte=0,lte=100"`
	RiskLevel   string               `json:"risk_level" binding:"required,oneof=low medium high"`
	RiskFactors []scoring.RiskFactor `json:"risk_factors"`
}

// CombinedRiskRequest accepts raw data and/or pre-calculated scores for
// either check. At least one of the four must be present.
type CombinedRiskRequest struct {
	AMLData *AMLScreenRequest `json:"aml_data"`
	KYCData *KYCVerifyRequest `json:"kyc_data"`
	AMLRisk *PreCalculatedRisk `json:"aml_risk"`
	KYCRisk *PreCalculatedRisk `json:"kyc_risk"`
}

func (s *Server) handleAMLScreen(c *gin.Context) {
	var req AMLScreenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := s.service.ScreenIdentity(screening.Identity{
		FullName:    req.FullName,
		DateOfBirth: req.DOB,
		Nationality: req.Nationality,
	})
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleKYCVerify(c *gin.Context) {
	var req KYCVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := s.service.VerifyDocument(kycInputFrom(&req))
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleCombinedRisk(c *gin.Context) {
	var req CombinedRiskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := compliance.CombinedInput{}
	if req.AMLRisk != nil {
		if err := s.validate.Struct(req.AMLRisk); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.AMLResult = scoreResultFrom(req.AMLRisk)
	} else if req.AMLData != nil {
		input.Identity = &screening.Identity{
			FullName:    req.AMLData.FullName,
			DateOfBirth: req.AMLData.DOB,
			Nationality: req.AMLData.Nationality,
		}
	}
	if req.KYCRisk != nil {
		if err := s.validate.Struct(req.KYCRisk); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		input.KYCResult = scoreResultFrom(req.KYCRisk)
	} else if req.KYCData != nil {
		kyc := kycInputFrom(req.KYCData)
		input.KYC = &kyc
	}

	report, err := s.service.AssessCombined(input)
	if err != nil {
		if errors.Is(err, scoring.ErrNoRiskInput) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "at least one of aml_data, kyc_data, aml_risk or kyc_risk must be provided",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "combined risk assessment failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func kycInputFrom(req *KYCVerifyRequest) compliance.KYCInput {
	return compliance.KYCInput{
		FullName:             req.FullName,
		DateOfBirth:          req.DOB,
		Nationality:          req.Nationality,
		DocumentType:         req.DocumentType,
		DocumentNumber:       req.DocumentNumber,
		FaceMatchScore:       req.FaceMatchScore,
		FaceMatchResult:      req.FaceMatchResult,
		OCRQuality:           req.OCRQuality,
		DocumentExpired:      req.DocumentExpired,
		DocumentExpiringSoon: req.DocumentExpiringSoon,
		MissingFields:        req.MissingFields,
		DataQualityIssues:    req.DataQualityIssues,
	}
}

func scoreResultFrom(pre *PreCalculatedRisk) *scoring.ScoreResult {
	return &scoring.ScoreResult{
		Score:   pre.RiskScore,
		Level:   scoring.RiskLevel(pre.RiskLevel),
		Factors: pre.RiskFactors,
	}
}
