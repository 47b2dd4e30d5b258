package liquidityhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/orbs-network/liquidity-hub-sdk/pkg/models"
)

// ErrMissingSigner is returned by Execute when no Signer is supplied
var ErrMissingSigner = errors.New("signer is required")

// ErrMissingWrapper is returned by Execute for a native input token without a Wrapper
var ErrMissingWrapper = errors.New("wrapper is required for native input")

// Wrapper wraps the native currency before trading it
type Wrapper interface {
	Wrap(ctx context.Context, amount string) (txHash string, err error)
}

// Approver grants an allowance to a spender
type Approver interface {
	Approve(ctx context.Context, token string, spender common.Address, amount *big.Int) (txHash string, err error)
}

// Signer signs the permit data of a quote
type Signer interface {
	Sign(ctx context.Context, permitData json.RawMessage) (signature string, err error)
}

// Steps are the wallet operations Execute drives. A nil Approver skips approval.
type Steps struct {
	Wrapper  Wrapper
	Approver Approver
	Signer   Signer
	DexTx    *models.DexRouterData
}

// Execute runs a full trade: quote, wrap for native input, approve the permit2
// spender, sign, then submit and wait for settlement. Every step is reported to telemetry.
func (s *SDK) Execute(ctx context.Context, intent models.TradeIntent, steps Steps) (*models.SettlementResult, error) {
	if steps.Signer == nil {
		return nil, ErrMissingSigner
	}

	q, err := s.GetQuote(ctx, intent)
	if err != nil {
		return nil, err
	}

	if models.IsNativeToken(intent.FromToken) {
		if err := s.wrap(ctx, steps.Wrapper, intent.InAmount); err != nil {
			return nil, err
		}
	}

	if steps.Approver != nil {
		if err := s.approve(ctx, steps.Approver, q.InToken); err != nil {
			return nil, err
		}
	}

	signature, err := s.sign(ctx, steps.Signer, q.PermitData)
	if err != nil {
		return nil, err
	}

	return s.Swap(ctx, q, signature, steps.DexTx)
}

func (s *SDK) wrap(ctx context.Context, w Wrapper, amount string) error {
	s.analytics.WrapRequested()
	if w == nil {
		s.analytics.WrapFailed(ErrMissingWrapper)
		return ErrMissingWrapper
	}
	txHash, err := w.Wrap(ctx, amount)
	if err != nil {
		s.analytics.WrapFailed(err)
		return fmt.Errorf("wrap failed: %w", err)
	}
	s.analytics.WrapSucceeded(txHash)
	return nil
}

func (s *SDK) approve(ctx context.Context, a Approver, token string) error {
	s.analytics.ApprovalRequested()
	txHash, err := a.Approve(ctx, token, models.Permit2Address, new(big.Int).Set(models.MaxUint256))
	if err != nil {
		s.analytics.ApprovalFailed(err)
		return fmt.Errorf("approval failed: %w", err)
	}
	s.analytics.ApprovalSucceeded(txHash)
	return nil
}

func (s *SDK) sign(ctx context.Context, signer Signer, permitData json.RawMessage) (string, error) {
	s.analytics.SignatureRequested()
	signature, err := signer.Sign(ctx, permitData)
	if err != nil {
		s.analytics.SignatureFailed(err)
		return "", fmt.Errorf("signature failed: %w", err)
	}
	s.analytics.SignatureSucceeded(signature)
	return signature, nil
}
