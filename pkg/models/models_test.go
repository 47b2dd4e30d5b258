package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIntent() TradeIntent {
	return TradeIntent{
		FromToken: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
		ToToken:   "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619",
		InAmount:  "1000",
		Slippage:  0.5,
		Account:   "0x1111111111111111111111111111111111111111",
		Partner:   "quickswap",
		ChainID:   137,
	}
}

func TestTradeIntentValidate(t *testing.T) {
	t.Run("Valid intent", func(t *testing.T) {
		assert.NoError(t, validIntent().Validate())
	})

	t.Run("Symbols are accepted as tokens", func(t *testing.T) {
		intent := validIntent()
		intent.FromToken = "USDC"
		intent.ToToken = "ETH"
		assert.NoError(t, intent.Validate())
	})

	t.Run("Account is optional", func(t *testing.T) {
		intent := validIntent()
		intent.Account = ""
		assert.NoError(t, intent.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*TradeIntent)
	}{
		{"missing from token", func(i *TradeIntent) { i.FromToken = " " }},
		{"missing to token", func(i *TradeIntent) { i.ToToken = "" }},
		{"unparseable amount", func(i *TradeIntent) { i.InAmount = "ten" }},
		{"zero amount", func(i *TradeIntent) { i.InAmount = "0" }},
		{"negative slippage", func(i *TradeIntent) { i.Slippage = -1 }},
		{"slippage above 100", func(i *TradeIntent) { i.Slippage = 100.5 }},
		{"bad account", func(i *TradeIntent) { i.Account = "0x1234" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := validIntent()
			tt.mutate(&intent)
			assert.Error(t, intent.Validate())
		})
	}
}

func TestQuoteDecoding(t *testing.T) {
	body := `{"inToken":"A","outToken":"B","inAmount":"1","outAmount":"2","minAmountOut":"1.9",
		"sessionId":"s-1","serializedOrder":"0xdead","permitData":{"domain":{"name":"Permit2"}}}`

	var q Quote
	require.NoError(t, json.Unmarshal([]byte(body), &q))
	assert.Equal(t, "s-1", q.SessionID)
	assert.JSONEq(t, `{"domain":{"name":"Permit2"}}`, string(q.PermitData))
	assert.False(t, q.Failed())

	q.Error = "no liquidity"
	assert.True(t, q.Failed())

	var nilQuote *Quote
	assert.False(t, nilQuote.Failed())
}

func TestTxDetailsMined(t *testing.T) {
	assert.True(t, (&TxDetails{Status: "mined"}).Mined())
	assert.True(t, (&TxDetails{Status: " MINED "}).Mined())
	assert.False(t, (&TxDetails{Status: "pending"}).Mined())
	assert.False(t, (*TxDetails)(nil).Mined())
}

func TestIsNativeToken(t *testing.T) {
	assert.True(t, IsNativeToken("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsNativeToken("0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"))
	assert.False(t, IsNativeToken("ETH"))
	assert.Equal(t, 256, MaxUint256.BitLen())
	assert.Equal(t, "0x000000000022D473030F116dDEE9F6B43aC78BA3", Permit2Address.Hex())
}
