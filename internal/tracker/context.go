package tracker

import "context"

type ctxKey struct{}

// WithTracker attaches t to ctx.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext returns the tracker attached to ctx, or a new idle tracker with
// no reporters if there is none.
func FromContext(ctx context.Context) *Tracker {
	if ctx != nil {
		if t, ok := ctx.Value(ctxKey{}).(*Tracker); ok && t != nil {
			return t
		}
	}
	return New()
}
