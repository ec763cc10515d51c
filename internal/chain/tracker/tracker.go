// Package tracker reconciles the asynchronous outcome of a submitted
// transaction by polling the node for its receipt.
//
// Each tracked transaction walks an explicit state machine:
//
//	Pending -> Confirmed  receipt with success=true
//	Pending -> Failed     receipt with success=false (terminal business
//	                      outcome, not an error)
//	Pending -> TimedOut   deadline passed with no receipt; the transaction
//	                      may still confirm later
//
// Transport faults during polling are retried up to a cap before escalating
// to a PollingError. Cancelling the context stops the local loop only; it
// never affects whether the transaction is eventually mined.
package tracker

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/zilpool/go-zil-wallet/internal/chain/provider"
	"github.com/zilpool/go-zil-wallet/internal/util"
)

// State is the tracking state of a submitted transaction.
type State int

const (
	Pending State = iota
	Confirmed
	Failed
	TimedOut
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed-out"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a tracking run. For Confirmed and
// Failed the node's receipt is attached; for TimedOut it is nil.
type Outcome struct {
	State    State
	TxID     string
	Receipt  *provider.Receipt
	Attempts int
}

// Options tune the polling policy. Zero values fall back to defaults.
type Options struct {
	// Timeout bounds the whole wait; past it the outcome is TimedOut.
	Timeout time.Duration

	// PollInterval is the initial delay between receipt queries.
	PollInterval time.Duration

	// BackoffFactor multiplies the interval after each empty poll. Values
	// below 1 disable backoff.
	BackoffFactor float64

	// MaxInterval caps the backed-off interval.
	MaxInterval time.Duration

	// TransportRetryLimit is the number of consecutive transport failures
	// tolerated before the run escalates to a PollingError.
	TransportRetryLimit int
}

const (
	defaultTimeout             = 90 * time.Second
	defaultPollInterval        = 2 * time.Second
	defaultTransportRetryLimit = 5
)

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.PollInterval <= 0 {
		o.PollInterval = defaultPollInterval
	}
	if o.BackoffFactor < 1 {
		o.BackoffFactor = 1
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = o.PollInterval
	}
	if o.TransportRetryLimit <= 0 {
		o.TransportRetryLimit = defaultTransportRetryLimit
	}
	return o
}

// Receipts is the slice of the provider the tracker needs.
type Receipts interface {
	GetTransaction(ctx context.Context, txID string) (*provider.TransactionResult, error)
}

// Track polls for txID's receipt until a terminal state or cancellation.
// Terminal business outcomes (Confirmed, Failed, TimedOut) return a non-nil
// Outcome with a nil error; errors are reserved for cancellation, fatal
// node errors, and exhausted transport retries.
//
// Trackers for distinct transactions share no mutable state and may run
// concurrently.
func Track(ctx context.Context, client Receipts, txID string, opts Options) (*Outcome, error) {
	opts = opts.withDefaults()

	deadline := time.Now().Add(opts.Timeout)
	interval := opts.PollInterval
	attempts := 0
	transportFailures := 0

	log := util.LogFromContext(ctx)
	log.Debug().Str("tx_id", txID).Dur("timeout", opts.Timeout).Msg("Tracking transaction")

	for {
		attempts++

		result, err := client.GetTransaction(ctx, txID)
		switch {
		case err == nil:
			if result.Receipt != nil {
				return terminalOutcome(ctx, txID, result.Receipt, attempts), nil
			}
			// Known to the node but no receipt attached yet; keep polling.
			transportFailures = 0

		case provider.HasRPCErrorCode(err, provider.ErrCodeTxHashNotPresent):
			// Not yet mined; keep polling.
			transportFailures = 0

		case provider.IsTransportError(err):
			transportFailures++
			if transportFailures > opts.TransportRetryLimit {
				return nil, &PollingError{TxID: txID, Attempts: attempts, Err: err}
			}
			log.Warn().Str("tx_id", txID).Int("failures", transportFailures).Err(err).
				Msg("Transport failure while polling, will retry")

		default:
			// Any other node response is fatal for the poll loop: deterministic
			// protocol errors do not resolve by retrying.
			return nil, errors.Wrapf(err, "failed to query receipt for %s", txID)
		}

		if !time.Now().Before(deadline) {
			log.Debug().Str("tx_id", txID).Int("attempts", attempts).Msg("Gave up waiting for receipt")
			return &Outcome{State: TimedOut, TxID: txID, Attempts: attempts}, nil
		}

		if err := sleep(ctx, boundedInterval(interval, deadline)); err != nil {
			return nil, err
		}

		interval = nextInterval(interval, opts)
	}
}

func terminalOutcome(ctx context.Context, txID string, receipt *provider.Receipt, attempts int) *Outcome {
	state := Confirmed
	if !receipt.Success {
		state = Failed
	}

	util.LogFromContext(ctx).Debug().Str("tx_id", txID).Stringer("state", state).Int("attempts", attempts).
		Msg("Transaction reached terminal state")

	return &Outcome{State: state, TxID: txID, Receipt: receipt, Attempts: attempts}
}

// boundedInterval never sleeps past the deadline.
func boundedInterval(interval time.Duration, deadline time.Time) time.Duration {
	if remaining := time.Until(deadline); interval > remaining {
		return remaining
	}
	return interval
}

func nextInterval(interval time.Duration, opts Options) time.Duration {
	next := time.Duration(float64(interval) * opts.BackoffFactor)
	if next > opts.MaxInterval {
		next = opts.MaxInterval
	}
	if next < opts.PollInterval {
		next = opts.PollInterval
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		d = time.Millisecond
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
