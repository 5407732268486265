package ml

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultArtifactName es el nombre del artefacto buscado en las rutas candidatas.
const DefaultArtifactName = "salary_model.json"

// LinearModel es un modelo lineal exportado a JSON: intercepto, pesos por
// token de texto y pesos por valor de cada campo categorico.
type LinearModel struct {
	Name               string                        `json:"name"`
	Version            string                        `json:"version"`
	Intercept          float64                       `json:"intercept"`
	TextWeights        map[string]float64            `json:"text_weights"`
	CategoricalWeights map[string]map[string]float64 `json:"categorical_weights"`

	tokens []string
}

func (m *LinearModel) Predict(_ context.Context, row FeatureRow) (float64, error) {
	text := strings.ToLower(row.TextFeatures)
	value := m.Intercept
	for _, token := range m.textTokens() {
		if strings.Contains(text, token) {
			value += m.TextWeights[token]
		}
	}
	value += m.categorical("job_title", row.JobTitle)
	value += m.categorical("region", row.Region)
	value += m.categorical("experience", row.Experience)

	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrediction, value)
	}
	return value, nil
}

// textTokens devuelve los tokens en orden lexicografico.
func (m *LinearModel) textTokens() []string {
	if len(m.tokens) == len(m.TextWeights) {
		return m.tokens
	}
	return slices.Sorted(maps.Keys(m.TextWeights))
}

func (m *LinearModel) categorical(field, value string) float64 {
	weights, ok := m.CategoricalWeights[field]
	if !ok {
		return 0
	}
	return weights[strings.ToLower(strings.TrimSpace(value))]
}

// LoadLinearModel lee y valida un artefacto JSON desde disco.
func LoadLinearModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}

	var m LinearModel
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if math.IsNaN(m.Intercept) || math.IsInf(m.Intercept, 0) {
		return nil, errors.New("model intercept is not finite")
	}
	if len(m.TextWeights) == 0 && len(m.CategoricalWeights) == 0 {
		return nil, errors.New("model has no weights")
	}

	m.TextWeights = lowerKeys(m.TextWeights)
	m.tokens = slices.Sorted(maps.Keys(m.TextWeights))
	for field, weights := range m.CategoricalWeights {
		m.CategoricalWeights[field] = lowerKeys(weights)
	}
	return &m, nil
}

func lowerKeys(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// CandidatePaths arma la lista de rutas donde buscar el artefacto: la ruta
// explicita primero, luego el directorio de trabajo y el del ejecutable.
func CandidatePaths(explicit string) []string {
	var paths []string
	if strings.TrimSpace(explicit) != "" {
		paths = append(paths, explicit)
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths,
			filepath.Join(wd, DefaultArtifactName),
			filepath.Join(wd, "models", DefaultArtifactName),
		)
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, DefaultArtifactName),
			filepath.Join(dir, "..", "models", DefaultArtifactName),
		)
	}
	return paths
}

// ResolveArtifact devuelve la primera ruta candidata que existe como archivo.
func ResolveArtifact(candidates []string) (string, error) {
	for _, p := range candidates {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in %d candidate paths", ErrModelUnavailable, DefaultArtifactName, len(candidates))
}
