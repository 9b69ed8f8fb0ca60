// Package hook chains wrapper functions of the form func(next T) T.
package hook

// Chain composes hooks so the first one wraps outermost. Returns nil when
// given nothing to compose.
func Chain[T any](hooks ...func(next T) T) func(next T) T {
	if len(hooks) == 0 {
		return nil
	}
	return func(next T) T {
		for i := len(hooks) - 1; i >= 0; i-- {
			if hooks[i] == nil {
				continue
			}
			next = hooks[i](next)
		}
		return next
	}
}

// Prepend places hooks ahead of an existing (possibly nil) hook.
func Prepend[T any](existing func(next T) T, hooks ...func(next T) T) func(next T) T {
	if existing != nil {
		hooks = append(append([]func(next T) T{}, hooks...), existing)
	}
	return Chain(hooks...)
}
