package services

import "context"

type contextKey int

const (
	fileKey contextKey = iota
	stageKey
	batchIDKey
)

// WithFile attaches the file currently being processed to the context.
func WithFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, fileKey, path)
}

// FileFromContext returns the file path recorded on the context, if any.
func FileFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(fileKey).(string)
	return value, ok && value != ""
}

// WithStage attaches the pipeline stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name recorded on the context, if any.
func StageFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(stageKey).(string)
	return value, ok && value != ""
}

// WithBatchID attaches the batch run identifier to the context.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchIDFromContext returns the batch identifier recorded on the context, if any.
func BatchIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(batchIDKey).(string)
	return value, ok && value != ""
}
