package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"salary-api/internal/domain"
	"salary-api/internal/ml"
)

const (
	heuristicBase         = 35000.0
	seniorBonus           = 15000.0
	intermediateBonus     = 8000.0
	parisPremium          = 8000.0
	majorCityPremium      = 4000.0
	highValueSkillBonus   = 2000.0
	estimateErrorMargin   = 3900.0
	estimateLowerFraction = 0.85
	estimateUpperFraction = 1.15
)

var (
	seniorMarkers    = []string{"senior", "5", "10", "expert", "lead"}
	juniorMarkers    = []string{"junior", "0-2", "débutant"}
	parisMarkers     = []string{"paris", "île-de-france"}
	majorCityMarkers = []string{"lyon", "rhône", "marseille"}
	highValueSkills  = map[string]struct{}{
		"python":           {},
		"java":             {},
		"aws":              {},
		"kubernetes":       {},
		"docker":           {},
		"react":            {},
		"machine learning": {},
	}
)

// EstimateInput son los atributos de una oferta a estimar.
type EstimateInput struct {
	Title       string
	Description string
	JobTitle    string
	Region      string
	Experience  string
	Skills      []string
}

// SalaryEstimator delega en el modelo cuando esta disponible y si no aplica la heuristica.
type SalaryEstimator struct {
	logger *zap.Logger
	model  ml.Regressor
}

// NewSalaryEstimator acepta model == nil: en ese caso siempre usa la heuristica.
func NewSalaryEstimator(logger *zap.Logger, model ml.Regressor) *SalaryEstimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaryEstimator{logger: logger, model: model}
}

func (e *SalaryEstimator) Estimate(ctx context.Context, in EstimateInput) domain.SalaryEstimate {
	if e.model != nil {
		value, err := e.model.Predict(ctx, featureRow(in))
		if err == nil && (math.IsNaN(value) || math.IsInf(value, 0) || value <= 0) {
			err = ml.ErrInvalidPrediction
		}
		if err == nil {
			return deriveEstimate(value, true)
		}
		if errors.Is(err, ml.ErrModelUnavailable) {
			e.logger.Debug("model unavailable, using heuristic", zap.Error(err))
		} else {
			e.logger.Warn("model inference failed, using heuristic", zap.Error(err))
		}
	}
	return deriveEstimate(HeuristicSalary(in.Experience, in.Region, in.Skills), false)
}

func featureRow(in EstimateInput) ml.FeatureRow {
	return ml.FeatureRow{
		TextFeatures: in.Title + " " + in.Description + " " + strings.Join(in.Skills, ", "),
		JobTitle:     in.JobTitle,
		Region:       in.Region,
		Experience:   in.Experience,
	}
}

// HeuristicSalary calcula un salario anual determinista a partir de reglas fijas.
func HeuristicSalary(experience, region string, skills []string) float64 {
	salary := heuristicBase

	if experience != "" {
		exp := strings.ToLower(experience)
		switch {
		case containsAny(exp, seniorMarkers):
			salary += seniorBonus
		case containsAny(exp, juniorMarkers):
		default:
			salary += intermediateBonus
		}
	}

	if region != "" {
		r := strings.ToLower(region)
		switch {
		case containsAny(r, parisMarkers):
			salary += parisPremium
		case containsAny(r, majorCityMarkers):
			salary += majorCityPremium
		}
	}

	for _, skill := range skills {
		if _, ok := highValueSkills[strings.ToLower(skill)]; ok {
			salary += highValueSkillBonus
		}
	}
	return salary
}

func deriveEstimate(point float64, modelUsed bool) domain.SalaryEstimate {
	return domain.SalaryEstimate{
		PredictedSalary: round2(point),
		SalaryMin:       round2(point * estimateLowerFraction),
		SalaryMax:       round2(point * estimateUpperFraction),
		MonthlySalary:   round2(point / 12),
		ErrorMargin:     estimateErrorMargin,
		ModelUsed:       modelUsed,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
