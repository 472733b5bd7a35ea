package sales

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// sagaStep es un paso compensable del commit de una venta. Compensate
// puede ser nil cuando el paso no deja nada que deshacer.
type sagaStep struct {
	Name       string
	Run        func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// runSaga ejecuta los pasos en orden. Si el paso n falla, compensa
// n..1 en orden inverso antes de devolver el error original: se incluye
// el propio paso fallido porque su Run puede haber escrito parcialmente
// (varias líneas o movimientos) antes de fallar, y cada Compensate es un
// borrado idempotente por venta. El caller nunca observa una venta a
// medio aplicar. Los errores de compensación se registran pero no tapan
// el error que disparó el rollback.
func runSaga(ctx context.Context, log zerolog.Logger, steps []sagaStep) error {
	for i, st := range steps {
		if err := st.Run(ctx); err != nil {
			compensate(ctx, log, steps[:i+1])
			return fmt.Errorf("%s: %w", st.Name, err)
		}
	}
	return nil
}

func compensate(ctx context.Context, log zerolog.Logger, done []sagaStep) {
	for j := len(done) - 1; j >= 0; j-- {
		st := done[j]
		if st.Compensate == nil {
			continue
		}
		if err := st.Compensate(ctx); err != nil {
			log.Error().Err(err).Str("paso", st.Name).Msg("compensación de venta falló; requiere conciliación manual")
		}
	}
}
