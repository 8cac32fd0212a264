package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/campushq/edge-auth"

var (
	metricsOnce    sync.Once
	repoOps        metric.Int64Counter
	authEvents     metric.Int64Counter
	routeDecisions metric.Int64Counter
)

func instruments() {
	metricsOnce.Do(func() {
		meter := otel.Meter(meterName)
		repoOps, _ = meter.Int64Counter("edge_auth.repository.operations",
			metric.WithDescription("Repository operations by entity, operation and outcome"))
		authEvents, _ = meter.Int64Counter("edge_auth.auth.events",
			metric.WithDescription("Session issuance, verification and logout events"))
		routeDecisions, _ = meter.Int64Counter("edge_auth.routing.decisions",
			metric.WithDescription("Tenant routing decisions by action"))
	})
}

func RecordRepositoryOperation(ctx context.Context, entity, op, outcome string) {
	instruments()
	repoOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func RecordAuthEvent(ctx context.Context, op, outcome string) {
	instruments()
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", op),
		attribute.String("outcome", outcome),
	))
}

func RecordRoutingDecision(ctx context.Context, action string, tenant bool) {
	instruments()
	routeDecisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.Bool("tenant", tenant),
	))
}
