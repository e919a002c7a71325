package app

import (
	"context"

	"github.com/SergejKubat/crypto-sports/internal/domain"
	"github.com/SergejKubat/crypto-sports/internal/storage/txhook"
)

// Notifier receives notifications for committed transactions. The stores
// invoke it inside their commit critical section, so a consumer never
// observes a notification for state that was rolled back and the append
// order always matches the commit order.
type Notifier interface {
	Append(ctx context.Context, n domain.Notification)
}

// notify hands n to the notifier once the surrounding transaction commits.
// Inside a transaction the append is staged as a commit hook; the hook is
// discarded with the transaction on rollback. Outside a transaction the
// append is immediate.
func notify(ctx context.Context, notifier Notifier, n domain.Notification) {
	if notifier == nil {
		return
	}
	if hooks := txhook.From(ctx); hooks != nil {
		hooks.Add(func(ctx context.Context) {
			notifier.Append(ctx, n)
		})
		return
	}
	notifier.Append(ctx, n)
}
