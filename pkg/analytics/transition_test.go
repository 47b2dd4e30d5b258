package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

func TestApply(t *testing.T) {
	t.Run("InputUntouched", func(t *testing.T) {
		before := Record{ID: "a"}
		after := Apply(before, ApprovalSucceeded{Millis: 10, TxHash: "0xabc"})

		assert.Empty(t, before.ApprovalState)
		assert.Nil(t, before.ApprovalMillis)
		assert.Equal(t, StateSuccess, after.ApprovalState)
		require.NotNil(t, after.ApprovalMillis)
		assert.Equal(t, int64(10), *after.ApprovalMillis)
	})

	t.Run("OverwritesOnlySuppliedFields", func(t *testing.T) {
		r := Apply(Record{}, SignatureSucceeded{Millis: 5, Signature: "0xsig"})
		r = Apply(r, ApprovalSucceeded{Millis: 10, TxHash: "0xabc"})
		r = Apply(r, ApprovalSucceeded{Millis: 20})

		assert.Equal(t, "0xabc", r.ApprovalTxHash)
		assert.Equal(t, int64(20), *r.ApprovalMillis)
		assert.Equal(t, "0xsig", r.Signature)
		assert.Equal(t, int64(5), *r.SignatureMillis)
	})

	t.Run("QuoteLifecycle", func(t *testing.T) {
		r := Apply(Record{}, QuoteRequested{Intent: models.TradeIntent{
			FromToken:       "USDC",
			ToToken:         "ETH",
			InAmount:        "1000",
			Slippage:        0.5,
			Partner:         "Orbs",
			DexMinAmountOut: "100",
		}})
		assert.Equal(t, 1, r.QuoteIndex)
		assert.Equal(t, StatePending, r.QuoteState)
		assert.Equal(t, "orbs", r.Partner)

		r = Apply(r, QuoteRequested{Intent: models.TradeIntent{DexMinAmountOut: "100"}})
		assert.Equal(t, 2, r.QuoteIndex)
		assert.Equal(t, "orbs", r.Partner)

		r = Apply(r, QuoteSucceeded{Millis: 40, Quote: &models.Quote{
			OutAmount:    "111",
			MinAmountOut: "110",
			SessionID:    "s1",
		}})
		assert.Equal(t, StateSuccess, r.QuoteState)
		assert.Equal(t, "10", r.ClobDexPriceDiffPercent)
		assert.Equal(t, "s1", r.SessionID)
		assert.Equal(t, "110", r.QuoteMinAmountOut)
	})

	t.Run("QuoteFailedMarksDexTrade", func(t *testing.T) {
		r := Apply(Record{}, QuoteFailed{Millis: 1, Error: "no liquidity"})
		assert.Equal(t, StateFailed, r.QuoteState)
		assert.Equal(t, "no liquidity", r.QuoteError)
		assert.True(t, r.IsDexTrade)
		assert.Equal(t, "quote-failed", r.NotClobTradeReason)
	})

	t.Run("SwapSucceeded", func(t *testing.T) {
		r := Apply(Record{Session: Session{IsDexTrade: true}}, SwapSucceeded{Millis: 3000, TxHash: "0xtx"})
		assert.Equal(t, StateSuccess, r.SwapState)
		assert.Equal(t, "0xtx", r.TxHash)
		assert.True(t, r.IsClobTrade)
		assert.False(t, r.IsDexTrade)
		assert.Equal(t, StatePending, r.OnChainClobSwapState)
	})

	t.Run("FirstFailureIsSticky", func(t *testing.T) {
		r := Apply(Record{Session: Session{SessionID: "s1"}}, SwapFailed{Error: "boom"})
		assert.Equal(t, "s1", r.FirstFailureSessionID)

		r = r.next("b")
		r.SessionID = "s2"
		r = Apply(r, SwapFailed{Error: "boom"})
		assert.Equal(t, "s1", r.FirstFailureSessionID)
	})

	t.Run("Settlement", func(t *testing.T) {
		r := Apply(Record{}, SettlementSucceeded{ExactOutAmount: "0.51", GasCharges: "0.001"})
		assert.Equal(t, StateSuccess, r.OnChainClobSwapState)
		assert.Equal(t, "0.51", r.ExactOutAmount)

		r = Apply(Record{}, SettlementFailed{Error: "timeout"})
		assert.Equal(t, StateFailed, r.OnChainClobSwapState)
		assert.Equal(t, "timeout", r.OnChainError)
	})

	t.Run("NilTransition", func(t *testing.T) {
		r := Record{ID: "a"}
		assert.Equal(t, r, Apply(r, nil))
	})
}

func TestNextRecord(t *testing.T) {
	r := Record{
		ID: "a",
		Session: Session{
			Partner:               "orbs",
			ChainID:               137,
			FirstFailureSessionID: "s1",
			SessionID:             "s2",
			IsClobTrade:           true,
		},
		QuotePhase: QuotePhase{QuoteIndex: 3, QuoteState: StateSuccess},
		SwapPhase:  SwapPhase{TxHash: "0xtx"},
	}
	next := r.next("b")

	assert.Equal(t, "b", next.ID)
	assert.Equal(t, "orbs", next.Partner)
	assert.Equal(t, 137, next.ChainID)
	assert.Equal(t, "s1", next.FirstFailureSessionID)
	assert.Equal(t, Version, next.Version)
	assert.Empty(t, next.SessionID)
	assert.Empty(t, next.TxHash)
	assert.Zero(t, next.QuoteIndex)
	assert.False(t, next.IsClobTrade)
}

func TestPriceDiffPercent(t *testing.T) {
	tests := []struct {
		name string
		hub  string
		dex  string
		want string
	}{
		{"Better", "110", "100", "10"},
		{"Fractional", "0.52", "0.5", "4"},
		{"Worse", "90", "100", "-10"},
		{"NoDex", "110", "", "0"},
		{"ZeroDex", "110", "0", "0"},
		{"InvalidDex", "110", "abc", "0"},
		{"InvalidHub", "", "100", "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceDiffPercent(tt.hub, tt.dex))
		})
	}
}

func TestDexOutWithSlippage(t *testing.T) {
	assert.Equal(t, "0.5025", DexOutWithSlippage("0.5", 0.5))
	assert.Equal(t, "100", DexOutWithSlippage("100", 0))
	assert.Equal(t, "0", DexOutWithSlippage("", 1))
}
