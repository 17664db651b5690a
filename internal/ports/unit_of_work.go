package ports

import "context"

// Tx is an opaque transaction handle passed through context. The
// infrastructure layer owns the concrete type (here, *gorm.DB).
type Tx interface{}

// UnitOfWork is a callback-style transaction boundary: the callback
// returning nil commits, returning an error rolls everything back.
//
// The auto-scheduling decision engine runs its check-then-create step
// inside one of these so the idempotency guarantee lives at the storage
// layer, not in process memory.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext stores a transaction handle in context.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext reads a transaction handle from context, nil when absent.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
