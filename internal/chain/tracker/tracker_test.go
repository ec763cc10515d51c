package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zilpool/go-zil-wallet/internal/chain/provider"
	"github.com/zilpool/go-zil-wallet/internal/chain/tracker"
)

// scriptedClient returns one scripted response per GetTransaction call; the
// final entry repeats forever.
type scriptedClient struct {
	calls     int
	responses []scriptedResponse
}

type scriptedResponse struct {
	result *provider.TransactionResult
	err    error
}

func (c *scriptedClient) GetTransaction(_ context.Context, _ string) (*provider.TransactionResult, error) {
	idx := c.calls
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	c.calls++

	r := c.responses[idx]
	return r.result, r.err
}

func notPresent() scriptedResponse {
	return scriptedResponse{err: &provider.RPCError{Code: provider.ErrCodeTxHashNotPresent, Message: "Txn Hash not Present"}}
}

func withReceipt(success bool, receipt *provider.Receipt) scriptedResponse {
	if receipt == nil {
		receipt = &provider.Receipt{}
	}
	receipt.Success = success
	return scriptedResponse{result: &provider.TransactionResult{ID: "deadbeef", Receipt: receipt}}
}

func fastOpts() tracker.Options {
	return tracker.Options{
		Timeout:      500 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	}
}

func TestConfirmedAfterPending(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		notPresent(),
		notPresent(),
		withReceipt(true, &provider.Receipt{CumulativeGas: "50"}),
	}}

	outcome, err := tracker.Track(context.Background(), client, "deadbeef", fastOpts())
	require.NoError(t, err)

	assert.Equal(t, tracker.Confirmed, outcome.State)
	assert.Equal(t, 3, outcome.Attempts)
	require.NotNil(t, outcome.Receipt)
	assert.Equal(t, "50", outcome.Receipt.CumulativeGas)
}

// A mined-but-reverted transaction is a terminal business outcome carrying
// the node's detail, never a transport or protocol error.
func TestFailedReceiptIsTerminalNotError(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		withReceipt(false, &provider.Receipt{
			Exceptions: []provider.Exception{{Line: 1, Message: "insufficient balance"}},
		}),
	}}

	outcome, err := tracker.Track(context.Background(), client, "deadbeef", fastOpts())
	require.NoError(t, err)

	assert.Equal(t, tracker.Failed, outcome.State)
	require.NotNil(t, outcome.Receipt)
	require.Len(t, outcome.Receipt.Exceptions, 1)
	assert.Equal(t, "insufficient balance", outcome.Receipt.Exceptions[0].Message)
}

func TestTimedOutAfterDeadline(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{notPresent()}}

	opts := tracker.Options{
		Timeout:      120 * time.Millisecond,
		PollInterval: 8 * time.Millisecond,
	}

	start := time.Now()
	outcome, err := tracker.Track(context.Background(), client, "deadbeef", opts)
	require.NoError(t, err)

	assert.Equal(t, tracker.TimedOut, outcome.State)
	assert.Nil(t, outcome.Receipt)
	// Roughly timeout/interval polls, and definitely no indefinite hang.
	assert.GreaterOrEqual(t, outcome.Attempts, 10)
	assert.LessOrEqual(t, outcome.Attempts, 20)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestTransportErrorsRetriedThenEscalated(t *testing.T) {
	transportErr := &provider.TransportError{Op: "GetTransaction", Err: errors.New("connection refused")}
	client := &scriptedClient{responses: []scriptedResponse{{err: transportErr}}}

	opts := fastOpts()
	opts.TransportRetryLimit = 3

	_, err := tracker.Track(context.Background(), client, "deadbeef", opts)
	require.Error(t, err)
	require.True(t, tracker.IsPollingError(err))
	assert.Equal(t, 4, client.calls, "retry cap plus the final escalating attempt")
}

func TestTransportFailureCounterResetsOnSuccess(t *testing.T) {
	transportErr := &provider.TransportError{Op: "GetTransaction", Err: errors.New("timeout")}
	client := &scriptedClient{responses: []scriptedResponse{
		{err: transportErr},
		{err: transportErr},
		notPresent(), // healthy round trip resets the counter
		{err: transportErr},
		{err: transportErr},
		withReceipt(true, nil),
	}}

	opts := fastOpts()
	opts.TransportRetryLimit = 2

	outcome, err := tracker.Track(context.Background(), client, "deadbeef", opts)
	require.NoError(t, err)
	assert.Equal(t, tracker.Confirmed, outcome.State)
}

func TestFatalRPCErrorStopsPolling(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{
		{err: &provider.RPCError{Code: -8, Message: "Invalid params"}},
	}}

	_, err := tracker.Track(context.Background(), client, "deadbeef", fastOpts())
	require.Error(t, err)
	assert.False(t, tracker.IsPollingError(err))
	assert.NotNil(t, provider.AsRPCError(err))
	assert.Equal(t, 1, client.calls)
}

func TestCancellationStopsLoopOnly(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{notPresent()}}

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var trackErr error
	go func() {
		defer close(done)
		_, trackErr = tracker.Track(ctx, client, "deadbeef", tracker.Options{
			Timeout:      time.Hour,
			PollInterval: 10 * time.Millisecond,
		})
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("tracker did not stop after cancellation")
	}

	require.ErrorIs(t, trackErr, context.Canceled)
}

func TestBackoffCapsAtMaxInterval(t *testing.T) {
	client := &scriptedClient{responses: []scriptedResponse{notPresent()}}

	opts := tracker.Options{
		Timeout:       150 * time.Millisecond,
		PollInterval:  5 * time.Millisecond,
		BackoffFactor: 2,
		MaxInterval:   20 * time.Millisecond,
	}

	outcome, err := tracker.Track(context.Background(), client, "deadbeef", opts)
	require.NoError(t, err)
	assert.Equal(t, tracker.TimedOut, outcome.State)
	// With backoff capped at 20ms the loop still fits several attempts in.
	assert.GreaterOrEqual(t, outcome.Attempts, 5)
}

func TestConcurrentTrackersAreIndependent(t *testing.T) {
	mkClient := func(success bool) *scriptedClient {
		return &scriptedClient{responses: []scriptedResponse{
			notPresent(),
			withReceipt(success, nil),
		}}
	}

	type result struct {
		outcome *tracker.Outcome
		err     error
	}

	results := make(chan result, 2)
	for _, success := range []bool{true, false} {
		go func(success bool) {
			outcome, err := tracker.Track(context.Background(), mkClient(success), "tx", fastOpts())
			results <- result{outcome, err}
		}(success)
	}

	states := map[tracker.State]int{}
	for i := 0; i < 2; i++ {
		r := <-results
		require.NoError(t, r.err)
		states[r.outcome.State]++
	}

	assert.Equal(t, 1, states[tracker.Confirmed])
	assert.Equal(t, 1, states[tracker.Failed])
}
