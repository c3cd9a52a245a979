package main

import (
	"github.com/spf13/cobra"
)

var (
	sponsorStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "show the sponsor account status",
		Long: "this command queries the daemon for the sponsor account status: " +
			"its address, energy reserve and whether it is ready to cover " +
			"new transfers",
		RunE: sponsorStatus,
	}
	sponsorCmd = &cobra.Command{
		Use:   "sponsor",
		Short: "inspect the gas sponsor",
		Long: "this command lets you inspect the account that pays TRX fees " +
			"on behalf of wallet users",
	}
)

func init() {
	sponsorCmd.AddCommand(sponsorStatusCmd)
}

func sponsorStatus(cmd *cobra.Command, args []string) error {
	out := map[string]interface{}{}
	if err := getJSON("/api/v1/sponsor/status", &out); err != nil {
		printErr(err)
		return nil
	}

	jsonPrint(out)
	return nil
}
