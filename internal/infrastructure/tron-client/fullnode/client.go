// Package fullnode implements ports.TronClient against the JSON HTTP API
// of a TRON full node. Addresses are sent in hex form (visible=false).
package fullnode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/novacoinotc/claudewallet/internal/core/ports"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

const defaultRequestTimeout = 15 * time.Second

type service struct {
	baseURL         string
	contractAddress string
	feeLimit        int64
	client          *http.Client

	log func(format string, a ...interface{})
}

// NewService returns a TronClient talking to the node at baseURL. All
// token calls target the TRC20 contract at contractAddress, and built
// transfers carry the given fee limit in sun.
func NewService(
	baseURL, contractAddress string, feeLimit int64,
) (ports.TronClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("missing node url")
	}
	if !wallet.IsValidAddress(contractAddress) {
		return nil, fmt.Errorf("invalid token contract address")
	}
	if feeLimit <= 0 {
		return nil, fmt.Errorf("fee limit must be positive")
	}

	logFn := func(format string, a ...interface{}) {
		format = fmt.Sprintf("tron client: %s", format)
		log.Debugf(format, a...)
	}
	return &service{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		contractAddress: contractAddress,
		feeLimit:        feeLimit,
		client:          &http.Client{Timeout: defaultRequestTimeout},
		log:             logFn,
	}, nil
}

func (s *service) GetTokenBalance(
	ctx context.Context, address string,
) (uint64, error) {
	ownerHex, err := wallet.AddressToHex(address)
	if err != nil {
		return 0, err
	}
	contractHex, _ := wallet.AddressToHex(s.contractAddress)
	param, err := abiAddressParam(address)
	if err != nil {
		return 0, err
	}

	var res triggerResult
	if err := s.post(ctx, "/wallet/triggerconstantcontract", triggerRequest{
		OwnerAddress:     ownerHex,
		ContractAddress:  contractHex,
		FunctionSelector: balanceOfSelector,
		Parameter:        param,
	}, &res); err != nil {
		return 0, err
	}
	if err := res.err(); err != nil {
		return 0, err
	}
	if len(res.ConstantResult) == 0 {
		return 0, fmt.Errorf("empty balanceOf result")
	}
	return parseABIUint(res.ConstantResult[0])
}

func (s *service) GetTrxBalance(
	ctx context.Context, address string,
) (uint64, error) {
	hexAddr, err := wallet.AddressToHex(address)
	if err != nil {
		return 0, err
	}

	// An account that never received funds is absent from the chain and
	// the node answers with an empty object.
	var res accountInfo
	if err := s.post(ctx, "/wallet/getaccount", addressRequest{
		Address: hexAddr,
	}, &res); err != nil {
		return 0, err
	}
	return res.Balance, nil
}

func (s *service) GetAccountResources(
	ctx context.Context, address string,
) (*domain.AccountResources, error) {
	hexAddr, err := wallet.AddressToHex(address)
	if err != nil {
		return nil, err
	}

	var res accountResources
	if err := s.post(ctx, "/wallet/getaccountresource", addressRequest{
		Address: hexAddr,
	}, &res); err != nil {
		return nil, err
	}
	return &domain.AccountResources{
		EnergyUsed:   res.EnergyUsed,
		EnergyLimit:  res.EnergyLimit,
		NetUsed:      res.NetUsed,
		NetLimit:     res.NetLimit,
		FreeNetUsed:  res.FreeNetUsed,
		FreeNetLimit: res.FreeNetLimit,
	}, nil
}

func (s *service) BuildTokenTransfer(
	ctx context.Context, from, to string, amount uint64,
) (*domain.UnsignedTransaction, error) {
	fromHex, err := wallet.AddressToHex(from)
	if err != nil {
		return nil, err
	}
	contractHex, _ := wallet.AddressToHex(s.contractAddress)
	toParam, err := abiAddressParam(to)
	if err != nil {
		return nil, err
	}

	var res triggerResult
	if err := s.post(ctx, "/wallet/triggersmartcontract", triggerRequest{
		OwnerAddress:     fromHex,
		ContractAddress:  contractHex,
		FunctionSelector: transferSelector,
		Parameter:        toParam + abiUintParam(amount),
		FeeLimit:         s.feeLimit,
	}, &res); err != nil {
		return nil, err
	}
	if err := res.err(); err != nil {
		return nil, err
	}
	if len(res.Transaction) == 0 {
		return nil, fmt.Errorf("node returned no transaction")
	}

	tx := &domain.UnsignedTransaction{}
	if err := json.Unmarshal(res.Transaction, tx); err != nil {
		return nil, fmt.Errorf("failed to decode built transaction: %s", err)
	}
	if _, err := tx.Digest(); err != nil {
		return nil, err
	}
	s.log("built transfer of %d units from %s to %s: %s", amount, from, to, tx.TxID)
	return tx, nil
}

func (s *service) BroadcastTransaction(
	ctx context.Context, tx *domain.SignedTransaction,
) (*domain.BroadcastResult, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	var res broadcastResponse
	if err := s.post(ctx, "/wallet/broadcasttransaction", tx, &res); err != nil {
		return nil, err
	}

	txID := res.TxID
	if txID == "" {
		txID = tx.TxID
	}
	return &domain.BroadcastResult{
		Accepted: res.Result,
		TxID:     txID,
		Code:     res.Code,
		Message:  decodeNodeMessage(res.Message),
	}, nil
}

func (s *service) GetTransactionStatus(
	ctx context.Context, txid string,
) (*domain.TransactionStatus, error) {
	var res txInfo
	var raw json.RawMessage
	if err := s.post(ctx, "/wallet/gettransactioninfobyid", txInfoRequest{
		Value: txid,
	}, &raw); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("failed to decode transaction info: %s", err)
	}

	// The node answers with an empty object while the tx is unknown or
	// not yet included in a block.
	confirmed := res.ID == txid && res.BlockNumber > 0 &&
		res.Receipt.Result == "SUCCESS"
	return &domain.TransactionStatus{
		TxID:        txid,
		Confirmed:   confirmed,
		BlockNumber: res.BlockNumber,
		Raw:         raw,
	}, nil
}

func (s *service) post(
	ctx context.Context, path string, body, out interface{},
) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("node request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node answered %s with status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode node response: %s", err)
	}
	return nil
}
