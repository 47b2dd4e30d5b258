package models

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
)

var (
	// ZeroAddress denotes the chain's native token
	ZeroAddress = common.Address{}

	// Permit2Address is the spender approved before signing a quote
	Permit2Address = common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3")

	// MaxUint256 is the allowance granted to Permit2
	MaxUint256 = new(big.Int).Set(math.MaxBig256)
)

// IsNativeToken reports whether the token refers to the native currency
func IsNativeToken(token string) bool {
	token = strings.TrimSpace(token)
	if !common.IsHexAddress(token) {
		return false
	}
	return common.HexToAddress(token) == ZeroAddress
}
