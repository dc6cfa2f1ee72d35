// Package telemetry sets up tracing for the level host.
//
// The loader and worker packages create their spans through the global
// TracerProvider unless told otherwise. NewTracerProvider builds an SDK provider that
// writes ended spans to a slog.Logger, which is what the command line tools install:
//
//	tp := telemetry.NewTracerProvider("levelrun", logger)
//	defer tp.Shutdown(context.Background())
//	otel.SetTracerProvider(tp)
package telemetry
