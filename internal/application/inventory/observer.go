package inventory

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Stock-api/internal/application/ports"
	"github.com/jhoicas/Stock-api/pkg/logger"
)

const tracerName = "github.com/jhoicas/Stock-api/internal/application"

// Observer instrumenta una operación de caso de uso: span OTel, métrica de latencia por resultado
// y log Warn (rechazo de negocio) o Error (fallo de infraestructura).
type Observer struct {
	tracer  trace.Tracer
	metrics ports.LedgerMetrics
	log     *logger.Logger
}

// NewObserver usa el TracerProvider global; sin exporter configurado los spans no salen del proceso.
func NewObserver(metrics ports.LedgerMetrics, log *logger.Logger) Observer {
	if metrics == nil {
		metrics = ports.NopMetrics()
	}
	if log == nil {
		log = logger.Nop()
	}
	return Observer{tracer: otel.Tracer(tracerName), metrics: metrics, log: log}
}

// Start abre el span de la operación. La función devuelta se difiere con el error nombrado del caller:
//
//	ctx, end := uc.obs.Start(ctx, "livraison.create")
//	defer end(&err)
func (o Observer) Start(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(*error)) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, operation, trace.WithAttributes(attrs...))
	return ctx, func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		outcome := ports.OutcomeOf(err)
		o.metrics.ObserveOperation(operation, outcome, time.Since(start))
		span.SetAttributes(attribute.String("outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			if ports.IsRejection(err) {
				o.log.Warn().Str("operation", operation).Str("outcome", outcome).Err(err).Msg("operación rechazada")
			} else {
				o.log.Error().Str("operation", operation).Err(err).Msg("operación fallida")
			}
		}
		span.End()
	}
}
