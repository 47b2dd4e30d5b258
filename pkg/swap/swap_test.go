package swap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/hubclient"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/logger"
	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

type statusReply struct {
	txHash string
	err    error
}

type fakeClient struct {
	mu           sync.Mutex
	submitted    []hubclient.SwapRequest
	submitErr    error
	statuses     []statusReply
	statusCalls  int
	details      []*models.TxDetails
	detailsErr   error
	detailsCalls int
	detailsReqs  []hubclient.TxDetailsRequest
}

func (c *fakeClient) SwapAsync(_ context.Context, _ int, req hubclient.SwapRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitted = append(c.submitted, req)
	return "", c.submitErr
}

func (c *fakeClient) SwapStatus(_ context.Context, _ int, _ string, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusCalls++
	if c.statusCalls > len(c.statuses) {
		return "", nil
	}
	r := c.statuses[c.statusCalls-1]
	return r.txHash, r.err
}

func (c *fakeClient) TxDetails(_ context.Context, _ int, _ string, req hubclient.TxDetailsRequest) (*models.TxDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detailsCalls++
	c.detailsReqs = append(c.detailsReqs, req)
	if c.detailsErr != nil {
		return nil, c.detailsErr
	}
	if c.detailsCalls > len(c.details) {
		return &models.TxDetails{Status: "pending"}, nil
	}
	return c.details[c.detailsCalls-1], nil
}

func (c *fakeClient) counts() (status, details, submitted int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusCalls, c.detailsCalls, len(c.submitted)
}

type fakeReporter struct {
	mu     sync.Mutex
	events []string
	txHash string
	err    error
	detErr error
	outAmt string
}

func (r *fakeReporter) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *fakeReporter) SwapRequested() { r.record("requested") }

func (r *fakeReporter) SwapSucceeded(txHash string) {
	r.record("succeeded")
	r.mu.Lock()
	r.txHash = txHash
	r.mu.Unlock()
}

func (r *fakeReporter) SwapFailed(err error) {
	r.record("failed")
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

func (r *fakeReporter) SettlementDetailsSucceeded(exactOutAmount, _ string) {
	r.record("details")
	r.mu.Lock()
	r.outAmt = exactOutAmount
	r.mu.Unlock()
}

func (r *fakeReporter) SettlementDetailsFailed(err error) {
	r.record("details-failed")
	r.mu.Lock()
	r.detErr = err
	r.mu.Unlock()
}

func (r *fakeReporter) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func fastConfig() Config {
	return Config{
		StatusPollInterval:  time.Millisecond,
		StatusPollAttempts:  60,
		DetailsPollInterval: time.Millisecond,
		DetailsPollAttempts: 10,
	}
}

func testQuote() *models.Quote {
	return &models.Quote{
		InToken:   "0xin",
		OutToken:  "0xout",
		InAmount:  "1000",
		User:      "0x1111111111111111111111111111111111111111",
		SessionID: "s1",
		QS:        "utm=1",
		Partner:   "orbs",
	}
}

func newTestService(client *fakeClient, cfg Config) (*Service, *fakeReporter) {
	reporter := &fakeReporter{}
	return NewService(client, reporter, cfg, &logger.EmptyLogger{}), reporter
}

func TestSubmit(t *testing.T) {
	t.Run("Settles", func(t *testing.T) {
		client := &fakeClient{
			statuses: []statusReply{{}, {}, {txHash: "0xtx"}},
			details:  []*models.TxDetails{{Status: " Mined ", ExactOutAmount: "0.51", GasCharges: "0.001"}},
		}
		svc, reporter := newTestService(client, fastConfig())

		res, err := svc.Submit(context.Background(), testQuote(), "0xsig", 137, &models.DexRouterData{To: "0xrouter"})
		require.NoError(t, err)
		assert.Equal(t, "0xtx", res.TxHash)
		assert.Equal(t, "0.51", res.ExactOutAmount)
		assert.Equal(t, "0.001", res.GasCharges)
		assert.NoError(t, res.DetailsErr)
		assert.Equal(t, []string{"requested", "succeeded", "details"}, reporter.all())

		status, details, _ := client.counts()
		assert.Equal(t, 3, status)
		assert.Equal(t, 1, details)
		assert.Equal(t, hubclient.TxDetailsRequest{
			OutToken:  "0xout",
			User:      "0x1111111111111111111111111111111111111111",
			QS:        "utm=1",
			Partner:   "orbs",
			SessionID: "s1",
		}, client.detailsReqs[0])

		assert.Eventually(t, func() bool { _, _, n := client.counts(); return n == 1 }, time.Second, time.Millisecond)
		client.mu.Lock()
		assert.Equal(t, "0xsig", client.submitted[0].Signature)
		assert.Equal(t, "0xrouter", client.submitted[0].DexTx.To)
		client.mu.Unlock()
	})

	t.Run("MissingQuote", func(t *testing.T) {
		client := &fakeClient{}
		svc, reporter := newTestService(client, fastConfig())

		_, err := svc.Submit(context.Background(), nil, "0xsig", 137, nil)
		assert.ErrorIs(t, err, ErrMissingQuote)
		assert.Equal(t, []string{"requested", "failed"}, reporter.all())
		status, _, _ := client.counts()
		assert.Zero(t, status)
	})

	t.Run("SubmissionErrorIsNotReturned", func(t *testing.T) {
		client := &fakeClient{
			submitErr: errors.New("bad signature"),
			statuses:  []statusReply{{txHash: "0xtx"}},
			details:   []*models.TxDetails{{Status: "mined"}},
		}
		svc, reporter := newTestService(client, fastConfig())

		res, err := svc.Submit(context.Background(), testQuote(), "0xsig", 137, nil)
		require.NoError(t, err)
		assert.Equal(t, "0xtx", res.TxHash)
		assert.NotContains(t, reporter.all(), "failed")
	})

	t.Run("StatusTimeout", func(t *testing.T) {
		client := &fakeClient{}
		svc, reporter := newTestService(client, fastConfig())

		_, err := svc.Submit(context.Background(), testQuote(), "0xsig", 137, nil)

		var terr *TimeoutError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, 60, terr.Attempts)
		assert.Equal(t, []string{"requested", "failed"}, reporter.all())
		assert.Equal(t, err, reporter.err)

		time.Sleep(20 * time.Millisecond)
		status, details, _ := client.counts()
		assert.Equal(t, 60, status)
		assert.Zero(t, details)
	})

	t.Run("PollErrorFailsFast", func(t *testing.T) {
		client := &fakeClient{statuses: []statusReply{{}, {err: &hubclient.ServerError{Message: "session expired"}}}}
		svc, reporter := newTestService(client, fastConfig())

		_, err := svc.Submit(context.Background(), testQuote(), "0xsig", 137, nil)

		var perr *PollError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 2, perr.Attempt)
		var serr *hubclient.ServerError
		assert.ErrorAs(t, err, &serr)
		assert.Equal(t, []string{"requested", "failed"}, reporter.all())
		status, _, _ := client.counts()
		assert.Equal(t, 2, status)
	})

	t.Run("ContinueOnPollError", func(t *testing.T) {
		client := &fakeClient{
			statuses: []statusReply{{err: errors.New("flaky")}, {txHash: "0xtx"}},
			details:  []*models.TxDetails{{Status: "mined"}},
		}
		cfg := fastConfig()
		cfg.ContinueOnPollError = true
		svc, _ := newTestService(client, cfg)

		res, err := svc.Submit(context.Background(), testQuote(), "0xsig", 137, nil)
		require.NoError(t, err)
		assert.Equal(t, "0xtx", res.TxHash)
	})

	t.Run("DetailsTimeoutStillSucceeds", func(t *testing.T) {
		client := &fakeClient{statuses: []statusReply{{txHash: "0xtx"}}}
		svc, reporter := newTestService(client, fastConfig())

		res, err := svc.Submit(context.Background(), testQuote(), "0xsig", 137, nil)
		require.NoError(t, err)
		assert.Equal(t, "0xtx", res.TxHash)
		assert.Empty(t, res.ExactOutAmount)

		var derr *TxDetailsTimeoutError
		require.ErrorAs(t, res.DetailsErr, &derr)
		assert.Equal(t, 10, derr.Attempts)
		assert.Equal(t, []string{"requested", "succeeded", "details-failed"}, reporter.all())
		_, details, _ := client.counts()
		assert.Equal(t, 10, details)
	})

	t.Run("DetailsErrorStillSucceeds", func(t *testing.T) {
		client := &fakeClient{
			statuses:   []statusReply{{txHash: "0xtx"}},
			detailsErr: hubclient.ErrNoResult,
		}
		svc, reporter := newTestService(client, fastConfig())

		res, err := svc.Submit(context.Background(), testQuote(), "0xsig", 137, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, res.DetailsErr, hubclient.ErrNoResult)
		assert.Equal(t, []string{"requested", "succeeded", "details-failed"}, reporter.all())
	})

	t.Run("IgnoresCallerCancellation", func(t *testing.T) {
		client := &fakeClient{
			statuses: []statusReply{{}, {}, {txHash: "0xtx"}},
			details:  []*models.TxDetails{{Status: "mined"}},
		}
		cfg := fastConfig()
		cfg.StatusPollInterval = 10 * time.Millisecond
		svc, _ := newTestService(client, cfg)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(5 * time.Millisecond)
			cancel()
		}()
		res, err := svc.Submit(ctx, testQuote(), "0xsig", 137, nil)
		require.NoError(t, err)
		assert.Equal(t, "0xtx", res.TxHash)
	})
}

func TestNewServiceDefaults(t *testing.T) {
	svc := NewService(&fakeClient{}, &fakeReporter{}, Config{ContinueOnPollError: true}, &logger.EmptyLogger{})

	want := DefaultConfig()
	want.ContinueOnPollError = true
	assert.Equal(t, want, svc.config)
	assert.Equal(t, 2*time.Second, want.StatusPollInterval)
	assert.Equal(t, 2500*time.Millisecond, want.DetailsPollInterval)
}

func TestTxDetailsStandalone(t *testing.T) {
	t.Run("NilQuote", func(t *testing.T) {
		client := &fakeClient{details: []*models.TxDetails{{Status: "pending"}, {Status: "MINED", ExactOutAmount: "5"}}}
		svc, reporter := newTestService(client, fastConfig())

		details, err := svc.TxDetails(context.Background(), 137, "0xtx", nil)
		require.NoError(t, err)
		assert.Equal(t, "5", details.ExactOutAmount)
		assert.Equal(t, hubclient.TxDetailsRequest{}, client.detailsReqs[0])
		assert.Empty(t, reporter.all())
	})

	t.Run("Cancelled", func(t *testing.T) {
		cfg := fastConfig()
		cfg.DetailsPollInterval = time.Hour
		svc, _ := newTestService(&fakeClient{}, cfg)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.TxDetails(ctx, 137, "0xtx", nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
