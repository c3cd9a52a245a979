package application

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
)

func TestRelayOutcomeLabels(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, outcomeSettled},
		{&SponsorUnderfundedError{EnergyAvailable: 1, EnergyFloor: 2}, outcomeUnderfunded},
		{&PartialFailureError{FeeTxID: "aa", Reason: fmt.Errorf("rejected")}, outcomePartialFailure},
		{&UnknownOutcomeError{Stage: StagePrincipal, Err: fmt.Errorf("timeout")}, outcomeUnknown},
		{&BroadcastError{Stage: StageFee, Code: "SIGERROR"}, outcomeFeeRejected},
		// Requests refused before any broadcast must not be counted as
		// network rejections.
		{ErrInvalidAddress, outcomeRejectedInput},
		{ErrSameAddress, outcomeRejectedInput},
		{domain.ErrTxMissingSig, outcomeRejectedInput},
		{domain.ErrTxDigestMismatch, outcomeRejectedInput},
		{fmt.Errorf("missing transfer legs"), outcomeRejectedInput},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, relayOutcome(tt.err), "error: %v", tt.err)
	}
}
