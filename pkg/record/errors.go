package record

import "errors"

// The two terminal error kinds of the core. Both abort the current
// invocation without partial writes.
var (
	// ErrInvalidTransaction marks submitted evidence or queries that
	// violate a business rule. The ledger applies no state change.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInternal marks stored-data corruption or misconfiguration:
	// undecodable records, required rows that are absent, violated
	// data invariants. Not a retryable condition.
	ErrInternal = errors.New("internal state error")
)
