package http_interface_test

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appconfig "github.com/novacoinotc/claudewallet/internal/app-config"
	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/novacoinotc/claudewallet/internal/interfaces"
	http_interface "github.com/novacoinotc/claudewallet/internal/interfaces/http"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

// stubNode fakes the TRON full node HTTP API.
type stubNode struct {
	lock         sync.Mutex
	balanceUnits uint64
	energyUsed   uint64
	energyLimit  uint64
	broadcasted  []string
	rejectCodes  map[string]string
}

func (n *stubNode) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/wallet/triggerconstantcontract",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(
				w, `{"result":{"result":true},"constant_result":["%064x"]}`,
				n.balanceUnits,
			)
		})
	mux.HandleFunc("/wallet/triggersmartcontract",
		func(w http.ResponseWriter, r *http.Request) {
			raw := make([]byte, 64)
			rand.Read(raw)
			digest := sha256.Sum256(raw)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"result": map[string]interface{}{"result": true},
				"transaction": map[string]interface{}{
					"txID":         hex.EncodeToString(digest[:]),
					"raw_data_hex": hex.EncodeToString(raw),
				},
			})
		})
	mux.HandleFunc("/wallet/getaccountresource",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(
				w, `{"EnergyUsed":%d,"EnergyLimit":%d}`,
				n.energyUsed, n.energyLimit,
			)
		})
	mux.HandleFunc("/wallet/getaccount",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"balance":1000000000}`)
		})
	mux.HandleFunc("/wallet/broadcasttransaction",
		func(w http.ResponseWriter, r *http.Request) {
			var tx struct {
				TxID string `json:"txID"`
			}
			json.NewDecoder(r.Body).Decode(&tx)

			n.lock.Lock()
			code, rejected := n.rejectCodes[tx.TxID]
			if !rejected {
				n.broadcasted = append(n.broadcasted, tx.TxID)
			}
			n.lock.Unlock()

			if rejected {
				fmt.Fprintf(
					w, `{"result":false,"code":"%s","message":"%s"}`,
					code, hex.EncodeToString([]byte("node rejected tx")),
				)
				return
			}
			fmt.Fprintf(w, `{"result":true,"txid":"%s"}`, tx.TxID)
		})
	mux.HandleFunc("/wallet/gettransactioninfobyid",
		func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Value string `json:"value"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			fmt.Fprintf(
				w, `{"id":"%s","blockNumber":100,"receipt":{"result":"SUCCESS"}}`,
				req.Value,
			)
		})
	return mux
}

type fixture struct {
	node    *stubNode
	router  http.Handler
	sender  *wallet.Wallet
	sponsor *wallet.Wallet
}

func newFixture(t *testing.T, rateLimitMax int) *fixture {
	t.Helper()

	node := &stubNode{
		balanceUnits: 50_000_000,
		energyLimit:  1_000_000,
		rejectCodes:  make(map[string]string),
	}
	nodeSrv := httptest.NewServer(node.handler())
	t.Cleanup(nodeSrv.Close)

	sponsor, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)
	contract, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)
	feeReceiver, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)
	sender, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)

	appCfg := &appconfig.AppConfig{
		Version:            "test",
		NodeURL:            nodeSrv.URL,
		ContractAddress:    contract.Address(),
		FeeReceiverAddress: feeReceiver.Address(),
		SponsorPrivateKey:  hex.EncodeToString(sponsor.PrivateKeyBytes()),
		FeeUnits:           1_000_000,
		FeeLimitSun:        100_000_000,
		EnergyFloor:        50_000,
		SettlementStrategy: appconfig.SettlementDelay,
		SettlementDelay:    time.Millisecond,
	}

	svcManager, err := interfaces.NewHTTPServiceManager(
		http_interface.ServiceConfig{
			Port:            3001,
			RateLimitWindow: time.Minute,
			RateLimitMax:    rateLimitMax,
		}, appCfg,
	)
	require.NoError(t, err)

	routed, ok := svcManager.Service.(interface{ Router() http.Handler })
	require.True(t, ok)

	return &fixture{
		node:    node,
		router:  routed.Router(),
		sender:  sender,
		sponsor: sponsor,
	}
}

func (f *fixture) do(
	t *testing.T, method, path string, body interface{},
) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	parsed := make(map[string]json.RawMessage)
	if rec.Body.Len() > 0 {
		json.Unmarshal(rec.Body.Bytes(), &parsed)
	}
	return rec, parsed
}

func (f *fixture) signLeg(
	t *testing.T, raw json.RawMessage,
) *domain.SignedTransaction {
	t.Helper()

	var leg struct {
		Transaction *domain.UnsignedTransaction `json:"transaction"`
	}
	require.NoError(t, json.Unmarshal(raw, &leg))
	require.NotNil(t, leg.Transaction)

	digest, err := leg.Transaction.Digest()
	require.NoError(t, err)
	sig, err := f.sender.SignDigest(wallet.SignDigestArgs{Digest: digest})
	require.NoError(t, err)

	return &domain.SignedTransaction{
		UnsignedTransaction: *leg.Transaction,
		Signature:           []string{hex.EncodeToString(sig)},
	}
}

func TestTransferRoundTrip(t *testing.T) {
	f := newFixture(t, 100)
	recipient, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)

	rec, body := f.do(t, http.MethodPost, "/api/v1/transaction/prepare", map[string]interface{}{
		"from":   f.sender.Address(),
		"to":     recipient.Address(),
		"amount": "10",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var total string
	require.NoError(t, json.Unmarshal(body["total"], &total))
	require.Equal(t, "10", total)

	feeLeg := f.signLeg(t, body["feeLeg"])
	principalLeg := f.signLeg(t, body["principalLeg"])

	rec, body = f.do(t, http.MethodPost, "/api/v1/transaction/submit", map[string]interface{}{
		"from":         f.sender.Address(),
		"to":           recipient.Address(),
		"amount":       "10",
		"feeLeg":       feeLeg,
		"principalLeg": principalLeg,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var feeTxID, principalTxID string
	require.NoError(t, json.Unmarshal(body["feeTxID"], &feeTxID))
	require.NoError(t, json.Unmarshal(body["principalTxID"], &principalTxID))
	require.Equal(t, feeLeg.TxID, feeTxID)
	require.Equal(t, principalLeg.TxID, principalTxID)

	// Fee leg first, principal second.
	require.Equal(t, []string{feeLeg.TxID, principalLeg.TxID}, f.node.broadcasted)

	// Status endpoint reports the settled principal leg.
	rec, body = f.do(
		t, http.MethodGet, "/api/v1/transaction/"+principalTxID, nil,
	)
	require.Equal(t, http.StatusOK, rec.Code)
	var confirmed bool
	require.NoError(t, json.Unmarshal(body["confirmed"], &confirmed))
	require.True(t, confirmed)
}

func TestSubmitFeeLegRejected(t *testing.T) {
	f := newFixture(t, 100)
	recipient, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)

	rec, body := f.do(t, http.MethodPost, "/api/v1/transaction/prepare", map[string]interface{}{
		"from":   f.sender.Address(),
		"to":     recipient.Address(),
		"amount": "10",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	feeLeg := f.signLeg(t, body["feeLeg"])
	principalLeg := f.signLeg(t, body["principalLeg"])
	f.node.rejectCodes[feeLeg.TxID] = "CONTRACT_VALIDATE_ERROR"

	rec, _ = f.do(t, http.MethodPost, "/api/v1/transaction/submit", map[string]interface{}{
		"from":         f.sender.Address(),
		"to":           recipient.Address(),
		"amount":       "10",
		"feeLeg":       feeLeg,
		"principalLeg": principalLeg,
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Empty(t, f.node.broadcasted)
}

func TestSubmitPrincipalLegRejected(t *testing.T) {
	f := newFixture(t, 100)
	recipient, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)

	rec, body := f.do(t, http.MethodPost, "/api/v1/transaction/prepare", map[string]interface{}{
		"from":   f.sender.Address(),
		"to":     recipient.Address(),
		"amount": "10",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	feeLeg := f.signLeg(t, body["feeLeg"])
	principalLeg := f.signLeg(t, body["principalLeg"])
	f.node.rejectCodes[principalLeg.TxID] = "DUP_TRANSACTION_ERROR"

	rec, respBody := f.do(t, http.MethodPost, "/api/v1/transaction/submit", map[string]interface{}{
		"from":         f.sender.Address(),
		"to":           recipient.Address(),
		"amount":       "10",
		"feeLeg":       feeLeg,
		"principalLeg": principalLeg,
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	// The response names the fee leg whose funds already moved.
	var feeTxID string
	require.NoError(t, json.Unmarshal(respBody["feeTxID"], &feeTxID))
	require.Equal(t, feeLeg.TxID, feeTxID)
	require.Equal(t, []string{feeLeg.TxID}, f.node.broadcasted)
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t, 100)
	recipient, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)

	rec, body := f.do(t, http.MethodPost, "/api/v1/transaction/prepare", map[string]interface{}{
		"from":   f.sender.Address(),
		"to":     recipient.Address(),
		"amount": "10",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	feeLeg := f.signLeg(t, body["feeLeg"])
	principalLeg := f.signLeg(t, body["principalLeg"])

	// Missing transfer parameters.
	rec, _ = f.do(t, http.MethodPost, "/api/v1/transaction/submit", map[string]interface{}{
		"feeLeg":       feeLeg,
		"principalLeg": principalLeg,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Addresses are re-checked at submit, not trusted from prepare.
	rec, _ = f.do(t, http.MethodPost, "/api/v1/transaction/submit", map[string]interface{}{
		"from":         f.sender.Address(),
		"to":           "garbage",
		"amount":       "10",
		"feeLeg":       feeLeg,
		"principalLeg": principalLeg,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.Empty(t, f.node.broadcasted)
}

func TestPrepareValidation(t *testing.T) {
	f := newFixture(t, 100)
	recipient, err := wallet.NewWallet(wallet.NewWalletArgs{})
	require.NoError(t, err)

	// Amount not covering the fee.
	rec, _ := f.do(t, http.MethodPost, "/api/v1/transaction/prepare", map[string]interface{}{
		"from":   f.sender.Address(),
		"to":     recipient.Address(),
		"amount": "1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Gross amount above balance.
	rec, _ = f.do(t, http.MethodPost, "/api/v1/transaction/prepare", map[string]interface{}{
		"from":   f.sender.Address(),
		"to":     recipient.Address(),
		"amount": "100",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Malformed address.
	rec, _ = f.do(t, http.MethodPost, "/api/v1/transaction/prepare", map[string]interface{}{
		"from":   "garbage",
		"to":     recipient.Address(),
		"amount": "10",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSponsorEndpoints(t *testing.T) {
	f := newFixture(t, 100)

	rec, body := f.do(t, http.MethodGet, "/api/v1/sponsor/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ready bool
	require.NoError(t, json.Unmarshal(body["ready"], &ready))
	require.True(t, ready)

	// Drain the sponsor below the floor.
	f.node.energyUsed = f.node.energyLimit - 40_000
	rec, body = f.do(t, http.MethodGet, "/api/v1/sponsor/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(body["ready"], &ready))
	require.False(t, ready)

	rec, body = f.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status string
	require.NoError(t, json.Unmarshal(body["status"], &status))
	require.Equal(t, "ok", status)
}

func TestGetBalanceEndpoint(t *testing.T) {
	f := newFixture(t, 100)

	rec, body := f.do(
		t, http.MethodGet, "/api/v1/balance/"+f.sender.Address(), nil,
	)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance string
	require.NoError(t, json.Unmarshal(body["balance"], &balance))
	require.Equal(t, "50", balance)

	rec, _ = f.do(t, http.MethodGet, "/api/v1/balance/garbage", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, 2)

	for i := 0; i < 2; i++ {
		rec, _ := f.do(t, http.MethodGet, "/api/v1/health", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, _ := f.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
