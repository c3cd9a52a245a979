package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/cobra"
)

var (
	datadir   = btcutil.AppDataDir("claudewallet-cli", false)
	statePath = filepath.Join(datadir, "state.json")

	mnemonic   string
	password   string
	privateKey string

	walletGenSeedCmd = &cobra.Command{
		Use:   "genseed",
		Short: "generate a random mnemonic",
		Long: "this command lets you generate a new random mnemonic to " +
			"initialize a new wallet from scratch",
		RunE: walletGenSeed,
	}
	walletCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "initialize with a brand new wallet",
		Long: "this command lets you initialize a new wallet from scratch " +
			"with the given mnemonic (or let me create one for you), " +
			"encrypted with your choosen password",
		RunE: walletCreate,
	}
	walletRestoreCmd = &cobra.Command{
		Use:   "restore",
		Short: "restore a wallet from a mnemonic",
		Long: "this command lets you restore an existing wallet from its " +
			"mnemonic, encrypted with your choosen password",
		RunE: walletRestore,
	}
	walletImportCmd = &cobra.Command{
		Use:   "import",
		Short: "import a raw private key",
		Long: "this command lets you initialize the wallet from a raw " +
			"hex-encoded private key instead of a mnemonic",
		RunE: walletImport,
	}
	walletAddressCmd = &cobra.Command{
		Use:   "address",
		Short: "show the wallet address",
		Long: "this command prints the TRON address of the wallet without " +
			"requiring the password",
		RunE: walletAddress,
	}
	walletDeleteCmd = &cobra.Command{
		Use:   "delete",
		Short: "delete the wallet from this machine",
		Long: "this command wipes the stored wallet after verifying the " +
			"password. Make sure you backed up the mnemonic first",
		RunE: walletDelete,
	}
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "manage the local wallet",
		Long: "this command lets you create, restore or delete the local " +
			"wallet. Keys are encrypted on disk and never sent to the daemon",
	}
)

func init() {
	walletCreateCmd.Flags().StringVar(
		&mnemonic, "mnemonic", "", "space separated word list as wallet seed",
	)
	walletCreateCmd.Flags().StringVar(&password, "password", "", "encryption password")

	walletRestoreCmd.Flags().StringVar(
		&mnemonic, "mnemonic", "", "space separated word list as wallet seed",
	)
	walletRestoreCmd.MarkFlagRequired("mnemonic")
	walletRestoreCmd.Flags().StringVar(&password, "password", "", "encryption password")

	walletImportCmd.Flags().StringVar(
		&privateKey, "key", "", "hex-encoded private key",
	)
	walletImportCmd.MarkFlagRequired("key")
	walletImportCmd.Flags().StringVar(&password, "password", "", "encryption password")

	walletDeleteCmd.Flags().StringVar(&password, "password", "", "encryption password")

	walletCmd.AddCommand(
		walletGenSeedCmd, walletCreateCmd, walletRestoreCmd, walletImportCmd,
		walletAddressCmd, walletDeleteCmd,
	)
}

func walletGenSeed(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	words, err := svc.GenSeed(context.Background())
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(strings.Join(words, " "))
	return nil
}

func walletCreate(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	pwd, err := readPassword("New wallet password")
	if err != nil {
		printErr(err)
		return nil
	}

	mnemonicToGenerate := len(mnemonic) == 0
	words := strings.Fields(mnemonic)
	if mnemonicToGenerate {
		words, err = svc.GenSeed(context.Background())
		if err != nil {
			printErr(err)
			return nil
		}
	}

	addr, err := svc.CreateWallet(context.Background(), words, pwd)
	if err != nil {
		printErr(err)
		return nil
	}

	if mnemonicToGenerate {
		fmt.Println(strings.Join(words, " "))
		fmt.Println("")
	}
	fmt.Printf("wallet initialized with address %s\n", addr)
	return nil
}

func walletRestore(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	pwd, err := readPassword("New wallet password")
	if err != nil {
		printErr(err)
		return nil
	}

	addr, err := svc.RestoreWallet(
		context.Background(), strings.Fields(mnemonic), pwd,
	)
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Printf("wallet restored with address %s\n", addr)
	return nil
}

func walletImport(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	pwd, err := readPassword("New wallet password")
	if err != nil {
		printErr(err)
		return nil
	}

	addr, err := svc.ImportPrivateKey(context.Background(), privateKey, pwd)
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Printf("wallet imported with address %s\n", addr)
	return nil
}

func walletAddress(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	addr, err := svc.GetAddress(context.Background())
	if err != nil {
		printErr(err)
		return nil
	}

	fmt.Println(addr)
	return nil
}

func walletDelete(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := getWalletService()
	if err != nil {
		return err
	}
	defer cleanup()

	pwd, err := readPassword("Wallet password")
	if err != nil {
		printErr(err)
		return nil
	}

	if err := svc.DeleteWallet(context.Background(), pwd); err != nil {
		printErr(err)
		return nil
	}

	fmt.Println("wallet deleted")
	return nil
}
