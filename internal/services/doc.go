// Package services implements the application layer between transport and
// the comparison core.
//
// ComparisonService runs a comparison batch with tracing, metrics and
// logging around it and renders the workbooks that accompany a result.
// HealthService answers liveness, readiness and version queries.
//
// Services receive their dependencies through constructors:
//
//	svc := services.NewComparisonService(cfg.Compare, metrics, tracer, logger)
//	report, err := svc.Report(ctx, docs)
//	if errors.Is(err, comparison.ErrNoValidBids) {
//		// nothing readable in the batch
//	}
package services
