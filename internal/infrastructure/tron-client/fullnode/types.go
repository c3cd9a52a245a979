package fullnode

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

const (
	balanceOfSelector = "balanceOf(address)"
	transferSelector  = "transfer(address,uint256)"
)

type triggerRequest struct {
	OwnerAddress     string `json:"owner_address"`
	ContractAddress  string `json:"contract_address"`
	FunctionSelector string `json:"function_selector"`
	Parameter        string `json:"parameter"`
	FeeLimit         int64  `json:"fee_limit,omitempty"`
	CallValue        int64  `json:"call_value"`
	Visible          bool   `json:"visible"`
}

type triggerResult struct {
	Result struct {
		Result  bool   `json:"result"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"result"`
	ConstantResult []string        `json:"constant_result"`
	Transaction    json.RawMessage `json:"transaction"`
}

func (r triggerResult) err() error {
	if r.Result.Result {
		return nil
	}
	return fmt.Errorf(
		"node refused contract call: %s %s", r.Result.Code,
		decodeNodeMessage(r.Result.Message),
	)
}

type addressRequest struct {
	Address string `json:"address"`
	Visible bool   `json:"visible"`
}

type accountInfo struct {
	Balance uint64 `json:"balance"`
}

type accountResources struct {
	EnergyUsed   uint64 `json:"EnergyUsed"`
	EnergyLimit  uint64 `json:"EnergyLimit"`
	NetUsed      uint64 `json:"NetUsed"`
	NetLimit     uint64 `json:"NetLimit"`
	FreeNetUsed  uint64 `json:"freeNetUsed"`
	FreeNetLimit uint64 `json:"freeNetLimit"`
}

type broadcastResponse struct {
	Result  bool   `json:"result"`
	TxID    string `json:"txid"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type txInfoRequest struct {
	Value string `json:"value"`
}

type txInfo struct {
	ID          string `json:"id"`
	BlockNumber uint64 `json:"blockNumber"`
	Receipt     struct {
		Result string `json:"result"`
	} `json:"receipt"`
}

// abiAddressParam encodes a TRON address as a 32-byte ABI word: the
// 20-byte payload of the hex form, left-padded with zeros.
func abiAddressParam(address string) (string, error) {
	hexAddr, err := wallet.AddressToHex(address)
	if err != nil {
		return "", err
	}
	return strings.Repeat("0", 24) + hexAddr[2:], nil
}

// abiUintParam encodes an amount as a 32-byte ABI word.
func abiUintParam(amount uint64) string {
	return fmt.Sprintf("%064x", amount)
}

// parseABIUint decodes a 32-byte ABI word as returned in a constant
// call result.
func parseABIUint(word string) (uint64, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(word), 16)
	if !ok {
		return 0, fmt.Errorf("invalid constant call result %q", word)
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("constant call result out of range")
	}
	return n.Uint64(), nil
}

// decodeNodeMessage turns the node's hex-encoded error message into a
// readable string, leaving it untouched when it is not hex.
func decodeNodeMessage(msg string) string {
	buf, err := hex.DecodeString(msg)
	if err != nil || len(buf) == 0 {
		return msg
	}
	return string(buf)
}
