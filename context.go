package crm

import "context"

// Skip tells a Runner which parts of the response the caller will not read,
// so it can avoid computing them.
type Skip struct {
	Options bool
}

type ctxKeySkip struct{}

func WithSkip(ctx context.Context, skip Skip) context.Context {
	return context.WithValue(ctx, ctxKeySkip{}, skip)
}

func GetSkip(ctx context.Context) Skip {
	skip, _ := ctx.Value(ctxKeySkip{}).(Skip)
	return skip
}
