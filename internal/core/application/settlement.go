package application

import (
	"context"
	"fmt"
	"time"

	"github.com/novacoinotc/claudewallet/internal/core/ports"
)

// SettlementPolicy decides when a broadcast fee leg is considered
// settled enough for the principal leg to follow. WaitSettled blocks
// until the transaction is deemed settled, the policy gives up, or the
// context is done.
type SettlementPolicy interface {
	WaitSettled(ctx context.Context, txID string) error
}

// delaySettlement waits a flat interval after broadcast. It matches the
// network's block cadence closely enough for ordering purposes and does
// not require any extra node calls.
type delaySettlement struct {
	delay time.Duration
}

func NewDelaySettlement(delay time.Duration) SettlementPolicy {
	return &delaySettlement{delay}
}

func (s *delaySettlement) WaitSettled(ctx context.Context, _ string) error {
	t := time.NewTimer(s.delay)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// pollSettlement polls the node for the transaction receipt until it is
// confirmed or the timeout elapses.
type pollSettlement struct {
	tronClient ports.TronClient
	interval   time.Duration
	timeout    time.Duration
}

func NewPollSettlement(
	tronClient ports.TronClient, interval, timeout time.Duration,
) SettlementPolicy {
	return &pollSettlement{tronClient, interval, timeout}
}

func (s *pollSettlement) WaitSettled(ctx context.Context, txID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			status, err := s.tronClient.GetTransactionStatus(ctx, txID)
			if err != nil {
				continue
			}
			if status.Confirmed {
				return nil
			}
		case <-ctx.Done():
			return fmt.Errorf("tx %s not settled: %s", txID, ctx.Err())
		}
	}
}
