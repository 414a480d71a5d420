package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optioner/internal/log"
	"github.com/rustyeddy/optioner/master"
)

var mastersCmd = &cobra.Command{
	Use:   "masters",
	Short: "Download the NFO master contract list",
	Long: `Masters fetches the zipped contract list from Shoonya, extracts it into
the local cache, and prints the upcoming weekly expiries for each supported
index. Trade runs use the same cache to resolve blank expiries.`,
	RunE: runMasters,
}

var (
	mastersDirFlag string
	mastersScrip   string
)

func init() {
	rootCmd.AddCommand(mastersCmd)

	mastersCmd.Flags().StringVar(&mastersDirFlag, "dir", "", "download directory (default: user cache)")
	mastersCmd.Flags().StringVarP(&mastersScrip, "scrip", "s", "", "print the next weekly expiry for this index only")
}

func runMasters(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	logger, err := log.New("")
	if err != nil {
		return err
	}
	defer logger.Sync()

	dir := mastersDirFlag
	if dir == "" {
		dir, err = mastersDir()
		if err != nil {
			return err
		}
	}

	path, err := master.Download(ctx, nil, "", dir, logger)
	if err != nil {
		return err
	}
	contracts, err := master.Load(path)
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d contracts from %s\n", len(contracts), path)

	scrips := []string{"NIFTY", "BANKNIFTY", "FINNIFTY", "MIDCPNIFTY"}
	if mastersScrip != "" {
		scrips = []string{mastersScrip}
	}

	now := time.Now()
	for _, scrip := range scrips {
		expiry, err := master.NextExpiry(contracts, scrip, master.Weekly, now)
		if err != nil {
			fmt.Printf("%-12s %v\n", scrip, err)
			continue
		}
		fmt.Printf("%-12s next weekly expiry %s\n", scrip, expiry.Format("2006-01-02"))
	}
	return nil
}
