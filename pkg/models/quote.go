package models

import (
	"encoding/json"
	"strings"
)

// Quote is a priced offer returned by the hub
type Quote struct {
	InToken         string          `json:"inToken"`
	OutToken        string          `json:"outToken"`
	InAmount        string          `json:"inAmount"`
	OutAmount       string          `json:"outAmount"`
	MinAmountOut    string          `json:"minAmountOut"`
	User            string          `json:"user"`
	Slippage        float64         `json:"slippage"`
	QS              string          `json:"qs"`
	Partner         string          `json:"partner"`
	Exchange        string          `json:"exchange,omitempty"`
	SessionID       string          `json:"sessionId"`
	SerializedOrder string          `json:"serializedOrder"`
	PermitData      json.RawMessage `json:"permitData,omitempty"`
	ReferencePrice  string          `json:"referencePrice,omitempty"`
	GasAmountOut    string          `json:"gasAmountOut,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// Failed reports whether the hub returned an error instead of a usable quote
func (q *Quote) Failed() bool {
	return q != nil && q.Error != ""
}

// DexRouterData carries the DEX fallback transaction forwarded with a swap
type DexRouterData struct {
	To   string `json:"to,omitempty"`
	Data string `json:"data,omitempty"`
}

// TxDetails is the on-chain outcome of a settled swap
type TxDetails struct {
	Status         string `json:"status"`
	ExactOutAmount string `json:"exactOutAmount"`
	GasCharges     string `json:"gasCharges"`
}

// Mined reports whether the transaction status is "mined", ignoring case
func (d *TxDetails) Mined() bool {
	return d != nil && strings.EqualFold(strings.TrimSpace(d.Status), "mined")
}

// SettlementResult is returned by a swap once its transaction hash is known
type SettlementResult struct {
	TxHash         string `json:"txHash"`
	ExactOutAmount string `json:"exactOutAmount,omitempty"`
	GasCharges     string `json:"gasCharges,omitempty"`
	// DetailsErr is set when the swap settled but its details could not be fetched
	DetailsErr error `json:"-"`
}
