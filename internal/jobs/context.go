package jobs

import "context"

type ctxKey struct{}

// WithJobID attaches a job ID to ctx
func WithJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// JobIDFromContext returns the job ID, or "" outside a job
func JobIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
