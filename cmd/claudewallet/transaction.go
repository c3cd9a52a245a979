package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/novacoinotc/claudewallet/pkg/wallet"
)

var (
	sendTo     string
	sendAmount string

	txBalanceCmd = &cobra.Command{
		Use:   "balance",
		Short: "show the wallet USDT balance",
		Long: "this command queries the daemon for the USDT balance of the " +
			"local wallet address",
		RunE: txBalance,
	}
	txSendCmd = &cobra.Command{
		Use:   "send",
		Short: "send USDT without holding TRX",
		Long: "this command prepares a sponsored transfer through the daemon, " +
			"signs both legs with the local wallet and submits them for " +
			"broadcasting. The fee is paid in USDT, deducted from the amount",
		RunE: txSend,
	}
	txStatusCmd = &cobra.Command{
		Use:   "status <txid>",
		Short: "show the on-chain status of a transaction",
		Long: "this command queries the daemon for the confirmation status of " +
			"a broadcast transaction",
		Args: cobra.ExactArgs(1),
		RunE: txStatus,
	}
	txCmd = &cobra.Command{
		Use:   "tx",
		Short: "send transfers and check balances",
		Long: "this command lets you check your USDT balance, send sponsored " +
			"transfers and track their status",
	}
)

func init() {
	txSendCmd.Flags().StringVar(&sendTo, "to", "", "recipient TRON address")
	txSendCmd.MarkFlagRequired("to")
	txSendCmd.Flags().StringVar(
		&sendAmount, "amount", "", "total USDT amount, fee included",
	)
	txSendCmd.MarkFlagRequired("amount")
	txSendCmd.Flags().StringVar(&password, "password", "", "wallet password")

	txCmd.AddCommand(txBalanceCmd, txSendCmd, txStatusCmd)
}

type preparedLeg struct {
	Recipient   string                      `json:"recipient"`
	Amount      string                      `json:"amount"`
	Transaction *domain.UnsignedTransaction `json:"transaction"`
}

type preparedTransfer struct {
	Total        string      `json:"total"`
	FeeLeg       preparedLeg `json:"feeLeg"`
	PrincipalLeg preparedLeg `json:"principalLeg"`
}

type submittedTransfer struct {
	FeeTxID       string `json:"feeTxID"`
	PrincipalTxID string `json:"principalTxID"`
}

func txBalance(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}

	addr, err := svc.GetAddress(context.Background())
	cleanup()
	if err != nil {
		printErr(err)
		return nil
	}

	out := map[string]interface{}{}
	if err := getJSON("/api/v1/balance/"+addr, &out); err != nil {
		printErr(err)
		return nil
	}

	jsonPrint(out)
	return nil
}

func txSend(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}

	addr, err := svc.GetAddress(context.Background())
	if err != nil {
		cleanup()
		printErr(err)
		return nil
	}

	pwd, err := readPassword("Wallet password")
	if err != nil {
		cleanup()
		printErr(err)
		return nil
	}

	signer, err := svc.Unlock(context.Background(), pwd)
	cleanup()
	if err != nil {
		printErr(err)
		return nil
	}

	prepared := preparedTransfer{}
	if err := postJSON("/api/v1/transaction/prepare", map[string]string{
		"from":   addr,
		"to":     sendTo,
		"amount": sendAmount,
	}, &prepared); err != nil {
		printErr(err)
		return nil
	}

	fmt.Printf(
		"sending %s: %s to %s, %s fee\n",
		prepared.Total, prepared.PrincipalLeg.Amount,
		prepared.PrincipalLeg.Recipient, prepared.FeeLeg.Amount,
	)

	feeLeg, err := signLeg(signer, prepared.FeeLeg.Transaction)
	if err != nil {
		printErr(err)
		return nil
	}
	principalLeg, err := signLeg(signer, prepared.PrincipalLeg.Transaction)
	if err != nil {
		printErr(err)
		return nil
	}

	submitted := submittedTransfer{}
	if err := postJSON("/api/v1/transaction/submit", map[string]interface{}{
		"from":         addr,
		"to":           sendTo,
		"amount":       sendAmount,
		"feeLeg":       feeLeg,
		"principalLeg": principalLeg,
	}, &submitted); err != nil {
		printErr(err)
		return nil
	}

	jsonPrint(submitted)
	return nil
}

func txStatus(cmd *cobra.Command, args []string) error {
	out := map[string]interface{}{}
	if err := getJSON("/api/v1/transaction/"+args[0], &out); err != nil {
		printErr(err)
		return nil
	}

	jsonPrint(out)
	return nil
}

// signLeg verifies the digest of a prepared leg before signing it, so a
// malicious or buggy daemon cannot trick the wallet into signing something
// other than what the declared txID commits to.
func signLeg(
	signer *wallet.Wallet, tx *domain.UnsignedTransaction,
) (*domain.SignedTransaction, error) {
	if tx == nil {
		return nil, fmt.Errorf("daemon returned an empty transaction leg")
	}

	digest, err := tx.Digest()
	if err != nil {
		return nil, err
	}

	sig, err := signer.SignDigest(wallet.SignDigestArgs{Digest: digest})
	if err != nil {
		return nil, err
	}

	return &domain.SignedTransaction{
		UnsignedTransaction: *tx,
		Signature:           []string{hex.EncodeToString(sig)},
	}, nil
}
