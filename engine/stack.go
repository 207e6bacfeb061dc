package engine

import "context"

// stackKey is the context.Context key under which the current resolution
// stack travels. Go has no thread-local storage; threading the stack
// through context.Context is the idiomatic equivalent of spec §4.3(d)'s
// "per-resolution resolution stack" — each goroutine's call chain carries
// its own context value, so a resolution on one goroutine never observes
// another's stack, with no explicit goroutine-ID bookkeeping required.
type stackKey struct{}

func stackFrom(ctx context.Context) []string {
	s, _ := ctx.Value(stackKey{}).([]string)

	return s
}

func pushStack(ctx context.Context, path string) context.Context {
	cur := stackFrom(ctx)
	next := make([]string, len(cur)+1)
	copy(next, cur)
	next[len(cur)] = path

	return context.WithValue(ctx, stackKey{}, next)
}

func onStack(ctx context.Context, path string) bool {
	for _, p := range stackFrom(ctx) {
		if p == path {
			return true
		}
	}

	return false
}
