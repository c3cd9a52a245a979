package application

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/novacoinotc/claudewallet/internal/core/ports"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

// RelayService drives a signed transfer pair through the sponsored
// broadcast sequence:
//  1. Re-validate the transfer parameters and verify both legs carry a
//     signature and an untampered transaction id.
//  2. Read the sponsor's energy fresh and refuse if below the floor.
//  3. Co-sign both legs with the sponsor key so the network bills the
//     sponsor for gas.
//  4. Broadcast the fee leg. If it is not accepted nothing else happens.
//  5. Wait for the fee leg to settle per the configured policy.
//  6. Broadcast the principal leg.
//
// Failed broadcasts are never retried: retrying a transaction whose
// outcome is unknown risks double spending the sender's funds. A failure
// after the fee leg settled is reported as a PartialFailureError carrying
// the fee transaction id, since those funds have already moved.
type RelayService struct {
	tronClient ports.TronClient
	sponsorSvc *SponsorService
	settlement SettlementPolicy

	log func(format string, a ...interface{})
}

func NewRelayService(
	tronClient ports.TronClient, sponsorSvc *SponsorService,
	settlement SettlementPolicy,
) (*RelayService, error) {
	if sponsorSvc == nil {
		return nil, fmt.Errorf("missing sponsor service")
	}
	if settlement == nil {
		return nil, fmt.Errorf("missing settlement policy")
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("relay service: %s", format)
		log.Debugf(format, a...)
	}
	return &RelayService{tronClient, sponsorSvc, settlement, logFn}, nil
}

func (rs *RelayService) Submit(
	ctx context.Context, pair *SignedTransferPair,
) (*RelayResult, error) {
	start := time.Now()

	res, err := rs.submit(ctx, pair)
	relayOutcomes.WithLabelValues(relayOutcome(err)).Inc()
	if err != nil {
		if e, ok := err.(*PartialFailureError); ok {
			log.WithField("fee_txid", e.FeeTxID).Warn(err)
		}
		return nil, err
	}

	relayDuration.Observe(time.Since(start).Seconds())
	return res, nil
}

func (rs *RelayService) submit(
	ctx context.Context, pair *SignedTransferPair,
) (*RelayResult, error) {
	if pair == nil || pair.FeeLeg == nil || pair.PrincipalLeg == nil {
		return nil, fmt.Errorf("missing transfer legs")
	}
	if !wallet.IsValidAddress(pair.From) || !wallet.IsValidAddress(pair.To) {
		return nil, ErrInvalidAddress
	}
	if pair.From == pair.To {
		return nil, ErrSameAddress
	}
	if pair.Total == 0 {
		return nil, ErrInvalidAmount
	}
	for _, leg := range []*domain.SignedTransaction{
		pair.FeeLeg, pair.PrincipalLeg,
	} {
		if err := leg.Validate(); err != nil {
			return nil, err
		}
		if _, err := leg.Digest(); err != nil {
			return nil, err
		}
	}

	if err := rs.sponsorSvc.CheckReady(ctx); err != nil {
		return nil, err
	}

	if err := rs.coSign(pair.FeeLeg); err != nil {
		return nil, err
	}
	if err := rs.coSign(pair.PrincipalLeg); err != nil {
		return nil, err
	}

	feeTxID, err := rs.broadcast(ctx, StageFee, pair.FeeLeg)
	if err != nil {
		return nil, err
	}
	rs.log("fee leg %s accepted, waiting for settlement", feeTxID)

	if err := rs.settlement.WaitSettled(ctx, feeTxID); err != nil {
		return nil, &PartialFailureError{FeeTxID: feeTxID, Reason: err}
	}

	principalTxID, err := rs.broadcast(ctx, StagePrincipal, pair.PrincipalLeg)
	if err != nil {
		// A transport failure is not a rejection: the leg may well have
		// landed, so the caller must re-query status, not assume failure.
		var unknownErr *UnknownOutcomeError
		if errors.As(err, &unknownErr) {
			unknownErr.FeeTxID = feeTxID
			return nil, unknownErr
		}
		return nil, &PartialFailureError{FeeTxID: feeTxID, Reason: err}
	}
	rs.log("principal leg %s accepted", principalTxID)

	return &RelayResult{
		FeeTxID:       feeTxID,
		PrincipalTxID: principalTxID,
	}, nil
}

// coSign appends the sponsor's signature so the contract call is billed
// against the sponsor's energy instead of the sender's.
func (rs *RelayService) coSign(tx *domain.SignedTransaction) error {
	digest, err := tx.Digest()
	if err != nil {
		return err
	}

	sig, err := rs.sponsorSvc.Wallet().SignDigest(wallet.SignDigestArgs{
		Digest: digest,
	})
	if err != nil {
		return fmt.Errorf("failed to co-sign transaction: %s", err)
	}
	tx.Signature = append(tx.Signature, hex.EncodeToString(sig))
	return nil
}

func (rs *RelayService) broadcast(
	ctx context.Context, stage Stage, tx *domain.SignedTransaction,
) (string, error) {
	res, err := rs.tronClient.BroadcastTransaction(ctx, tx)
	if err != nil {
		return "", &UnknownOutcomeError{Stage: stage, Err: err}
	}
	if !res.Accepted {
		return "", &BroadcastError{
			Stage:   stage,
			Code:    res.Code,
			Message: res.Message,
		}
	}
	txID := res.TxID
	if txID == "" {
		txID = tx.TxID
	}
	return txID, nil
}
