// Package txhook carries post-commit callbacks through a store transaction.
// Code running inside a transaction registers hooks; the store runs them
// after the transaction commits, inside the same serialization scope, so
// hook order always matches commit order. A rolled-back transaction never
// runs its hooks.
package txhook

import "context"

type key struct{}

// Hooks is an ordered list of callbacks to run after commit.
type Hooks struct {
	fns []func(context.Context)
}

// Add registers fn to run after the transaction commits.
func (h *Hooks) Add(fn func(context.Context)) {
	h.fns = append(h.fns, fn)
}

// Run invokes the registered hooks in registration order.
func (h *Hooks) Run(ctx context.Context) {
	for _, fn := range h.fns {
		fn(ctx)
	}
}

// With returns a context carrying a fresh hook list.
func With(ctx context.Context) (context.Context, *Hooks) {
	h := &Hooks{}
	return context.WithValue(ctx, key{}, h), h
}

// From returns the hook list carried by ctx, or nil outside a transaction.
func From(ctx context.Context) *Hooks {
	h, _ := ctx.Value(key{}).(*Hooks)
	return h
}
