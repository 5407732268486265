package ml

import (
	"context"
	"errors"
)

// FeatureRow es la fila de entrada que espera el modelo de regresion.
type FeatureRow struct {
	TextFeatures string `json:"text_features"`
	JobTitle     string `json:"job_title"`
	Region       string `json:"region"`
	Experience   string `json:"experience"`
}

// Regressor define la interfaz de inferencia de salario anual.
type Regressor interface {
	Predict(ctx context.Context, row FeatureRow) (float64, error)
}

var (
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrInvalidPrediction = errors.New("invalid prediction")
)
