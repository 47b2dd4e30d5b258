package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/metrics"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

const sendTimeout = 10 * time.Second

// Aggregator folds lifecycle events of the current trade attempt into a Record and
// flushes it to a Sender. Regular updates are debounced. Swap outcomes and
// settlement details are flushed immediately.
type Aggregator struct {
	mu      sync.Mutex
	record  Record
	settled *Record
	starts  map[Phase]time.Time

	debounce *debouncer
	sender   Sender
	logger   logger.Logger
	now      func() time.Time
	newID    func() string

	inflight sync.WaitGroup
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithDebounce sets the flush debounce interval
func WithDebounce(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.debounce = newDebouncer(d)
		}
	}
}

// WithClock replaces the clock used for phase durations
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithIDGenerator replaces the generator of record ids
func WithIDGenerator(newID func() string) Option {
	return func(a *Aggregator) { a.newID = newID }
}

// WithLogger sets the logger used for send failures
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New creates an aggregator holding a fresh record
func New(sender Sender, opts ...Option) *Aggregator {
	if sender == nil {
		sender = NopSender{}
	}
	a := &Aggregator{
		starts:   make(map[Phase]time.Time),
		debounce: newDebouncer(DefaultDebounce),
		sender:   sender,
		logger:   &logger.EmptyLogger{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.record = Record{}.next(a.newID())
	metrics.TelemetryAttempts.Inc()
	return a
}

// Snapshot returns a copy of the current record
func (a *Aggregator) Snapshot() Record {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record
}

// Settled returns the last successful swap record, enriched with settlement details once known
func (a *Aggregator) Settled() (Record, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.settled == nil {
		return Record{}, false
	}
	return *a.settled, true
}

// ID returns the id of the current record
func (a *Aggregator) ID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.record.ID
}

func (a *Aggregator) ModuleLoaded(liquidityHubDisabled bool) {
	a.update(ModuleLoaded{LiquidityHubDisabled: liquidityHubDisabled})
}

// Init sets the partner and chain carried by every following record
func (a *Aggregator) Init(partner string, chainID int) {
	a.update(SessionStarted{Partner: partner, ChainID: chainID})
}

func (a *Aggregator) WalletConnected(name string) {
	a.update(WalletConnected{Name: name})
}

func (a *Aggregator) NotLiquidityHubTrade(reason string) {
	a.update(NotLiquidityHubTrade{Reason: reason})
}

func (a *Aggregator) QuoteRequested(intent models.TradeIntent) {
	a.start(PhaseQuote, QuoteRequested{
		Intent:         intent,
		DexOutAmountWS: DexOutWithSlippage(intent.DexMinAmountOut, intent.Slippage),
	})
}

func (a *Aggregator) QuoteSucceeded(quote *models.Quote) {
	a.finish(PhaseQuote, func(ms int64) Transition { return QuoteSucceeded{Millis: ms, Quote: quote} })
}

func (a *Aggregator) QuoteFailed(err error) {
	a.finish(PhaseQuote, func(ms int64) Transition { return QuoteFailed{Millis: ms, Error: errString(err)} })
}

func (a *Aggregator) ApprovalRequested() {
	a.start(PhaseApproval, ApprovalRequested{})
}

func (a *Aggregator) ApprovalSucceeded(txHash string) {
	a.finish(PhaseApproval, func(ms int64) Transition { return ApprovalSucceeded{Millis: ms, TxHash: txHash} })
}

func (a *Aggregator) ApprovalFailed(err error) {
	a.finish(PhaseApproval, func(ms int64) Transition { return ApprovalFailed{Millis: ms, Error: errString(err)} })
}

func (a *Aggregator) SignatureRequested() {
	a.start(PhaseSignature, SignatureRequested{})
}

func (a *Aggregator) SignatureSucceeded(signature string) {
	a.finish(PhaseSignature, func(ms int64) Transition { return SignatureSucceeded{Millis: ms, Signature: signature} })
}

func (a *Aggregator) SignatureFailed(err error) {
	a.finish(PhaseSignature, func(ms int64) Transition { return SignatureFailed{Millis: ms, Error: errString(err)} })
}

func (a *Aggregator) WrapRequested() {
	a.start(PhaseWrap, WrapRequested{})
}

func (a *Aggregator) WrapSucceeded(txHash string) {
	a.finish(PhaseWrap, func(ms int64) Transition { return WrapSucceeded{Millis: ms, TxHash: txHash} })
}

func (a *Aggregator) WrapFailed(err error) {
	a.finish(PhaseWrap, func(ms int64) Transition { return WrapFailed{Millis: ms, Error: errString(err)} })
}

func (a *Aggregator) SwapRequested() {
	a.start(PhaseSwap, SwapRequested{})
}

// SwapSucceeded flushes the attempt immediately and starts a new record. The settled
// record is kept so settlement details can still be attached to it.
func (a *Aggregator) SwapSucceeded(txHash string) {
	a.mu.Lock()
	a.record = Apply(a.record, SwapSucceeded{Millis: a.elapsed(PhaseSwap), TxHash: txHash})
	snapshot := a.record
	a.settled = &snapshot
	a.rotate()
	a.dispatch(snapshot)
	a.mu.Unlock()
}

// SwapFailed flushes the attempt immediately and starts a new record
func (a *Aggregator) SwapFailed(err error) {
	a.mu.Lock()
	a.record = Apply(a.record, SwapFailed{Millis: a.elapsed(PhaseSwap), Error: errString(err)})
	snapshot := a.record
	a.settled = nil
	a.rotate()
	a.dispatch(snapshot)
	a.mu.Unlock()
}

func (a *Aggregator) SettlementDetailsSucceeded(exactOutAmount, gasCharges string) {
	a.settle(SettlementSucceeded{ExactOutAmount: exactOutAmount, GasCharges: gasCharges})
}

func (a *Aggregator) SettlementDetailsFailed(err error) {
	a.settle(SettlementFailed{Error: errString(err)})
}

// Flush sends the current record now, dropping any pending debounced flush
func (a *Aggregator) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.debounce.Cancel()
	a.dispatch(a.record)
}

// Close flushes a pending update and waits for in-flight sends to finish
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.debounce.Cancel() {
		a.dispatch(a.record)
	}
	a.mu.Unlock()

	a.inflight.Wait()
}

func (a *Aggregator) settle(t Transition) {
	a.mu.Lock()
	if a.settled == nil {
		a.mu.Unlock()
		a.logger.Debug("Settlement details without a settled swap, ignoring")
		return
	}
	enriched := Apply(*a.settled, t)
	a.settled = &enriched
	a.dispatch(enriched)
	a.mu.Unlock()
}

func (a *Aggregator) start(phase Phase, t Transition) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.starts[phase] = a.now()
	a.apply(t)
}

func (a *Aggregator) finish(phase Phase, build func(ms int64) Transition) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.apply(build(a.elapsed(phase)))
}

func (a *Aggregator) update(t Transition) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.apply(t)
}

// apply folds t into the current record and schedules a debounced flush. Callers hold mu.
func (a *Aggregator) apply(t Transition) {
	a.record = Apply(a.record, t)
	a.debounce.Schedule(a.flushDebounced)
}

func (a *Aggregator) flushDebounced(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.debounce.Current(gen) {
		a.dispatch(a.record)
	}
}

// elapsed is the time since the phase started. A phase that never started measures zero.
func (a *Aggregator) elapsed(phase Phase) int64 {
	started, ok := a.starts[phase]
	if !ok {
		return 0
	}
	return a.now().Sub(started).Milliseconds()
}

// rotate replaces the current record with a fresh one. Callers hold mu.
func (a *Aggregator) rotate() {
	a.debounce.Cancel()
	a.record = a.record.next(a.newID())
	a.starts = make(map[Phase]time.Time)
	metrics.TelemetryAttempts.Inc()
}

// dispatch sends the record in the background. Callers hold mu.
func (a *Aggregator) dispatch(record Record) {
	a.inflight.Add(1)
	go func() {
		defer a.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		err := a.sender.Send(ctx, record)
		switch {
		case err == nil:
			metrics.TelemetryFlushes.WithLabelValues("success").Inc()
		case errors.Is(err, ErrCircuitOpen):
			metrics.TelemetryFlushes.WithLabelValues("skipped").Inc()
		default:
			metrics.TelemetryFlushes.WithLabelValues("failed").Inc()
			a.logger.Debug("Failed to send telemetry record %s: %v", record.ID, err)
		}
	}()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
