package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salary-api/internal/domain"
	"salary-api/internal/repository"
)

type PredictionInput struct {
	UserID      string
	Title       string
	Description string
	JobTitle    string
	Region      string
	Experience  string
	Skills      []string
}

type PredictionResult struct {
	domain.SalaryEstimate
	DetectedSkills  []string `json:"detected_skills"`
	ExperienceLevel *string  `json:"experience_level"`
}

// PredictionService estima salarios y registra cada prediccion en el historial.
type PredictionService struct {
	logger    *zap.Logger
	estimator *SalaryEstimator
	history   repository.HistoryRepository
	now       func() time.Time
}

func NewPredictionService(logger *zap.Logger, estimator *SalaryEstimator, history repository.HistoryRepository) *PredictionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{
		logger:    logger,
		estimator: estimator,
		history:   history,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Predict nunca falla por el historial: un error de insercion se registra y se ignora.
func (s *PredictionService) Predict(ctx context.Context, in PredictionInput) PredictionResult {
	detected := ExtractSkills(in.Title + " " + in.Description)
	skills := mergeSkills(in.Skills, detected)

	experience := strings.TrimSpace(in.Experience)
	if experience == "" {
		if level, ok := InferExperienceLevel(in.Description); ok {
			experience = level
		}
	}

	estimate := s.estimator.Estimate(ctx, EstimateInput{
		Title:       in.Title,
		Description: in.Description,
		JobTitle:    in.JobTitle,
		Region:      in.Region,
		Experience:  experience,
		Skills:      skills,
	})

	s.record(ctx, in, experience, estimate)

	result := PredictionResult{
		SalaryEstimate: estimate,
		DetectedSkills: detected,
	}
	if experience != "" {
		result.ExperienceLevel = &experience
	}
	return result
}

func (s *PredictionService) History(ctx context.Context, userID string) ([]domain.PredictionRecord, error) {
	return s.history.ListByUser(ctx, userID)
}

func (s *PredictionService) record(ctx context.Context, in PredictionInput, experience string, estimate domain.SalaryEstimate) {
	if s.history == nil {
		return
	}
	rec := domain.PredictionRecord{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Title:           in.Title,
		Description:     in.Description,
		JobTitle:        in.JobTitle,
		Region:          in.Region,
		ExperienceLevel: experience,
		Skills:          in.Skills,
		PredictedSalary: estimate.PredictedSalary,
		SalaryMin:       estimate.SalaryMin,
		SalaryMax:       estimate.SalaryMax,
		MonthlySalary:   estimate.MonthlySalary,
		ModelUsed:       estimate.ModelUsed,
		CreatedAt:       s.now(),
	}
	if err := s.history.Create(ctx, rec); err != nil {
		s.logger.Error("insert prediction history failed", zap.Error(err), zap.String("user_id", in.UserID))
	}
}

// mergeSkills concatena sin duplicados, conservando el orden de aparicion.
func mergeSkills(given, detected []string) []string {
	seen := make(map[string]struct{}, len(given)+len(detected))
	out := make([]string, 0, len(given)+len(detected))
	for _, list := range [][]string{given, detected} {
		for _, skill := range list {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			out = append(out, skill)
		}
	}
	return out
}
