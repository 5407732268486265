package ml

import (
	"context"
	"fmt"
	"sync"
)

// LoadFunc carga un Regressor; se invoca como maximo una vez.
type LoadFunc func() (Regressor, error)

// OnceLoader carga el modelo en la primera llamada y cachea el resultado,
// incluido el error: un fallo de carga es permanente para el proceso.
type OnceLoader struct {
	load  LoadFunc
	once  sync.Once
	model Regressor
	err   error
}

func NewOnceLoader(load LoadFunc) *OnceLoader {
	return &OnceLoader{load: load}
}

// Model devuelve el modelo cargado o el error de carga cacheado.
func (l *OnceLoader) Model() (Regressor, error) {
	l.once.Do(func() {
		if l.load == nil {
			l.err = ErrModelUnavailable
			return
		}
		l.model, l.err = l.load()
		if l.err == nil && l.model == nil {
			l.err = ErrModelUnavailable
		}
	})
	return l.model, l.err
}

func (l *OnceLoader) Predict(ctx context.Context, row FeatureRow) (float64, error) {
	model, err := l.Model()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return model.Predict(ctx, row)
}

// FileLoader busca el artefacto en las rutas candidatas y lo carga.
func FileLoader(candidates []string) LoadFunc {
	return func() (Regressor, error) {
		path, err := ResolveArtifact(candidates)
		if err != nil {
			return nil, err
		}
		model, err := LoadLinearModel(path)
		if err != nil {
			return nil, err
		}
		return model, nil
	}
}
