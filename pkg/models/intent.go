package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// TradeIntent is the caller's request to exchange one token for another
type TradeIntent struct {
	FromToken string
	ToToken   string
	InAmount  string
	// Slippage tolerance in percent (0-100)
	Slippage float64
	Account  string
	Partner  string
	ChainID  int
	// DexMinAmountOut is the DEX reference amount; empty when no DEX price is known
	DexMinAmountOut string
	// Timeout overrides the default quote timeout when non-zero
	Timeout time.Duration
}

// Validate checks the intent before it is sent to the hub
func (i TradeIntent) Validate() error {
	if strings.TrimSpace(i.FromToken) == "" {
		return fmt.Errorf("from token is required")
	}
	if strings.TrimSpace(i.ToToken) == "" {
		return fmt.Errorf("to token is required")
	}
	amount, err := decimal.NewFromString(i.InAmount)
	if err != nil {
		return fmt.Errorf("invalid in amount: %s", i.InAmount)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("in amount must be greater than 0")
	}
	if i.Slippage < 0 || i.Slippage > 100 {
		return fmt.Errorf("slippage must be between 0 and 100, got %v", i.Slippage)
	}
	if i.Account != "" && !common.IsHexAddress(i.Account) {
		return fmt.Errorf("invalid account address: %s", i.Account)
	}
	return nil
}

// HasDexReference reports whether a DEX reference amount was supplied
func (i TradeIntent) HasDexReference() bool {
	return i.DexMinAmountOut != ""
}
