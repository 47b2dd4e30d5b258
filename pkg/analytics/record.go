// Package analytics aggregates trade lifecycle events into one telemetry record per
// trade attempt and reports it to the BI backend.
package analytics

// Version is reported with every record and selects the BI collection
const Version = 0.7

// DefaultEndpoint is the BI collection records are posted to
const DefaultEndpoint = "https://bi.orbs.network/putes/liquidity-hub-0.7"

// State is the status of a lifecycle phase
type State string

const (
	StatePending State = "pending"
	StateSuccess State = "success"
	StateFailed  State = "failed"
)

// Phase identifies a timed lifecycle phase
type Phase string

const (
	PhaseQuote     Phase = "quote"
	PhaseApproval  Phase = "approval"
	PhaseSignature Phase = "signature"
	PhaseWrap      Phase = "wrap"
	PhaseSwap      Phase = "swap"
)

// Session is the context shared by every phase of a trade attempt
type Session struct {
	ModuleLoaded          bool    `json:"moduleLoaded"`
	LiquidityHubDisabled  bool    `json:"liquidityHubDisabled"`
	Partner               string  `json:"partner,omitempty"`
	ChainID               int     `json:"chainId,omitempty"`
	Version               float64 `json:"version"`
	IsForceClob           bool    `json:"isForceClob"`
	IsClobTrade           bool    `json:"isClobTrade"`
	IsDexTrade            bool    `json:"isDexTrade"`
	FirstFailureSessionID string  `json:"firstFailureSessionId,omitempty"`
	SessionID             string  `json:"sessionId,omitempty"`
	WalletAddress         string  `json:"walletAddress,omitempty"`
	WalletConnectName     string  `json:"walletConnectName,omitempty"`
	NotClobTradeReason    string  `json:"isNotClobTradeReason,omitempty"`
}

// QuotePhase holds the trade parameters and quote outcome
type QuotePhase struct {
	QuoteState              State   `json:"quoteState,omitempty"`
	QuoteIndex              int     `json:"quoteIndex"`
	QuoteMillis             *int64  `json:"quoteMillis,omitempty"`
	QuoteError              string  `json:"quoteError,omitempty"`
	SrcTokenAddress         string  `json:"srcTokenAddress,omitempty"`
	DstTokenAddress         string  `json:"dstTokenAddress,omitempty"`
	SrcAmount               string  `json:"srcAmount,omitempty"`
	Slippage                float64 `json:"slippage,omitempty"`
	DexAmountOut            string  `json:"dexAmountOut,omitempty"`
	DexOutAmountWS          string  `json:"dexOutAmountWS,omitempty"`
	QuoteAmountOut          string  `json:"quoteAmountOut,omitempty"`
	QuoteMinAmountOut       string  `json:"quoteMinAmountOut,omitempty"`
	QuoteSerializedOrder    string  `json:"quoteSerializedOrder,omitempty"`
	ClobDexPriceDiffPercent string  `json:"clobDexPriceDiffPercent,omitempty"`
}

type ApprovalPhase struct {
	ApprovalState  State  `json:"approvalState,omitempty"`
	ApprovalMillis *int64 `json:"approvalMillis,omitempty"`
	ApprovalError  string `json:"approvalError,omitempty"`
	ApprovalTxHash string `json:"approvalTxHash,omitempty"`
}

type SignaturePhase struct {
	SignatureState  State  `json:"signatureState,omitempty"`
	SignatureMillis *int64 `json:"signatureMillis,omitempty"`
	Signature       string `json:"signature,omitempty"`
	SignatureError  string `json:"signatureError,omitempty"`
}

type WrapPhase struct {
	WrapState  State  `json:"wrapState,omitempty"`
	WrapMillis *int64 `json:"wrapMillis,omitempty"`
	WrapError  string `json:"wrapError,omitempty"`
	WrapTxHash string `json:"wrapTxHash,omitempty"`
}

type SwapPhase struct {
	SwapState  State  `json:"swapState,omitempty"`
	SwapMillis *int64 `json:"swapMillis,omitempty"`
	SwapError  string `json:"swapError,omitempty"`
	TxHash     string `json:"txHash,omitempty"`
}

// SettlementPhase is the on-chain enrichment reported after a swap settled
type SettlementPhase struct {
	OnChainClobSwapState State  `json:"onChainClobSwapState,omitempty"`
	OnChainDexSwapState  State  `json:"onChainDexSwapState,omitempty"`
	OnChainError         string `json:"onChainClobSwapError,omitempty"`
	ExactOutAmount       string `json:"exactOutAmount,omitempty"`
	GasCharges           string `json:"gasCharges,omitempty"`
}

// Record is the telemetry record of one trade attempt. It is posted as a flat JSON object.
type Record struct {
	ID string `json:"_id"`
	Session
	QuotePhase
	ApprovalPhase
	SignaturePhase
	WrapPhase
	SwapPhase
	SettlementPhase
}

// next returns a fresh record for the following trade attempt
func (r Record) next(id string) Record {
	return Record{
		ID: id,
		Session: Session{
			Version:               Version,
			Partner:               r.Partner,
			ChainID:               r.ChainID,
			FirstFailureSessionID: r.FirstFailureSessionID,
		},
	}
}

func millis(v int64) *int64 {
	return &v
}
