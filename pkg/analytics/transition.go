package analytics

import (
	"strings"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

// Transition is a single lifecycle event folded into a Record by Apply
type Transition interface {
	apply(r *Record)
}

// Apply returns the record with the transition folded in. The input record is not modified.
func Apply(r Record, t Transition) Record {
	if t != nil {
		t.apply(&r)
	}
	return r
}

type ModuleLoaded struct {
	LiquidityHubDisabled bool
}

func (t ModuleLoaded) apply(r *Record) {
	r.ModuleLoaded = true
	r.LiquidityHubDisabled = t.LiquidityHubDisabled
}

type SessionStarted struct {
	Partner string
	ChainID int
}

func (t SessionStarted) apply(r *Record) {
	r.Partner = strings.ToLower(t.Partner)
	r.ChainID = t.ChainID
}

type WalletConnected struct {
	Name string
}

func (t WalletConnected) apply(r *Record) {
	r.WalletConnectName = t.Name
}

type NotLiquidityHubTrade struct {
	Reason string
}

func (t NotLiquidityHubTrade) apply(r *Record) {
	r.markDexTrade(t.Reason)
}

// markDexTrade marks the attempt as settled through the DEX
func (s *Session) markDexTrade(reason string) {
	s.NotClobTradeReason = reason
	s.IsDexTrade = true
	s.IsClobTrade = false
}

type QuoteRequested struct {
	Intent         models.TradeIntent
	DexOutAmountWS string
}

func (t QuoteRequested) apply(r *Record) {
	r.QuoteIndex++
	r.QuoteState = StatePending
	r.SrcTokenAddress = t.Intent.FromToken
	r.DstTokenAddress = t.Intent.ToToken
	r.SrcAmount = t.Intent.InAmount
	r.Slippage = t.Intent.Slippage
	r.DexAmountOut = t.Intent.DexMinAmountOut
	r.DexOutAmountWS = t.DexOutAmountWS
	if t.Intent.Account != "" {
		r.WalletAddress = t.Intent.Account
	}
	if t.Intent.Partner != "" {
		r.Partner = strings.ToLower(t.Intent.Partner)
	}
	if t.Intent.ChainID != 0 {
		r.ChainID = t.Intent.ChainID
	}
}

type QuoteSucceeded struct {
	Millis int64
	Quote  *models.Quote
}

func (t QuoteSucceeded) apply(r *Record) {
	r.QuoteState = StateSuccess
	r.QuoteMillis = millis(t.Millis)
	r.QuoteError = ""
	r.NotClobTradeReason = ""
	if t.Quote == nil {
		return
	}
	r.QuoteAmountOut = t.Quote.OutAmount
	r.QuoteMinAmountOut = t.Quote.MinAmountOut
	r.QuoteSerializedOrder = t.Quote.SerializedOrder
	r.SessionID = t.Quote.SessionID
	r.ClobDexPriceDiffPercent = PriceDiffPercent(t.Quote.MinAmountOut, r.DexAmountOut)
}

type QuoteFailed struct {
	Millis int64
	Error  string
}

func (t QuoteFailed) apply(r *Record) {
	r.QuoteState = StateFailed
	r.QuoteMillis = millis(t.Millis)
	r.QuoteError = t.Error
	r.markDexTrade("quote-failed")
}

type ApprovalRequested struct{}

func (ApprovalRequested) apply(r *Record) {
	r.ApprovalState = StatePending
}

type ApprovalSucceeded struct {
	Millis int64
	TxHash string
}

func (t ApprovalSucceeded) apply(r *Record) {
	r.ApprovalState = StateSuccess
	r.ApprovalMillis = millis(t.Millis)
	if t.TxHash != "" {
		r.ApprovalTxHash = t.TxHash
	}
}

type ApprovalFailed struct {
	Millis int64
	Error  string
}

func (t ApprovalFailed) apply(r *Record) {
	r.ApprovalState = StateFailed
	r.ApprovalMillis = millis(t.Millis)
	r.ApprovalError = t.Error
	r.markDexTrade("approval failed")
}

type SignatureRequested struct{}

func (SignatureRequested) apply(r *Record) {
	r.SignatureState = StatePending
}

type SignatureSucceeded struct {
	Millis    int64
	Signature string
}

func (t SignatureSucceeded) apply(r *Record) {
	r.SignatureState = StateSuccess
	r.SignatureMillis = millis(t.Millis)
	if t.Signature != "" {
		r.Signature = t.Signature
	}
}

type SignatureFailed struct {
	Millis int64
	Error  string
}

func (t SignatureFailed) apply(r *Record) {
	r.SignatureState = StateFailed
	r.SignatureMillis = millis(t.Millis)
	r.SignatureError = t.Error
	r.markDexTrade("signature failed")
}

type WrapRequested struct{}

func (WrapRequested) apply(r *Record) {
	r.WrapState = StatePending
}

type WrapSucceeded struct {
	Millis int64
	TxHash string
}

func (t WrapSucceeded) apply(r *Record) {
	r.WrapState = StateSuccess
	r.WrapMillis = millis(t.Millis)
	if t.TxHash != "" {
		r.WrapTxHash = t.TxHash
	}
}

type WrapFailed struct {
	Millis int64
	Error  string
}

func (t WrapFailed) apply(r *Record) {
	r.WrapState = StateFailed
	r.WrapMillis = millis(t.Millis)
	r.WrapError = t.Error
	r.markDexTrade("wrap failed")
}

type SwapRequested struct{}

func (SwapRequested) apply(r *Record) {
	r.SwapState = StatePending
}

type SwapSucceeded struct {
	Millis int64
	TxHash string
}

func (t SwapSucceeded) apply(r *Record) {
	r.SwapState = StateSuccess
	r.SwapMillis = millis(t.Millis)
	r.TxHash = t.TxHash
	r.IsClobTrade = true
	r.IsDexTrade = false
	r.OnChainClobSwapState = StatePending
}

// SwapFailed records the failure. The first failing session id of a run is kept across attempts.
type SwapFailed struct {
	Millis int64
	Error  string
}

func (t SwapFailed) apply(r *Record) {
	r.SwapState = StateFailed
	r.SwapMillis = millis(t.Millis)
	r.SwapError = t.Error
	r.markDexTrade("swap failed")
	if r.FirstFailureSessionID == "" {
		r.FirstFailureSessionID = r.SessionID
	}
}

type SettlementSucceeded struct {
	ExactOutAmount string
	GasCharges     string
}

func (t SettlementSucceeded) apply(r *Record) {
	r.OnChainClobSwapState = StateSuccess
	r.ExactOutAmount = t.ExactOutAmount
	r.GasCharges = t.GasCharges
}

type SettlementFailed struct {
	Error string
}

func (t SettlementFailed) apply(r *Record) {
	r.OnChainClobSwapState = StateFailed
	r.OnChainError = t.Error
}
