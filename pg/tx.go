package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/uptrace/bun"
)

const (
	txRetryAttempts = 3
	txRetryDelay    = 20 * time.Millisecond
)

// CodeSerializationFailure marks errors that abort a transaction because of a concurrent
// writer. RunInTx retries the transaction when it sees this code.
const CodeSerializationFailure = "SERIALIZATION_FAILURE"

var (
	// ReadCommitted is the default PostgreSQL isolation level.
	ReadCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	// RepeatableRead gives every statement of the transaction the same snapshot.
	RepeatableRead = &sql.TxOptions{Isolation: sql.LevelRepeatableRead}
)

// RunInTx runs fn in a transaction opened on idb.
//
// The transaction commits when fn returns nil and rolls back on error or panic.
// When idb is already a transaction, a savepoint is used instead. Serialization
// failures restart the whole transaction a bounded number of times, so fn must not
// keep state between attempts other than what it recomputes.
func RunInTx(ctx context.Context, idb bun.IDB, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	if _, nested := idb.(bun.Tx); nested {
		return idb.RunInTx(ctx, opts, fn)
	}

	return retry.Do(
		func() error {
			return idb.RunInTx(ctx, opts, fn)
		},
		retry.Context(ctx),
		retry.Attempts(txRetryAttempts),
		retry.Delay(txRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
}

func isRetryable(err error) bool {
	return IsSerializationFailure(err) || errx.IsCodeIn(err, CodeSerializationFailure)
}
