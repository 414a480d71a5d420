package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/optioner/broker"
	"github.com/rustyeddy/optioner/broker/fivepaisa"
	"github.com/rustyeddy/optioner/broker/shoonya"
	"github.com/rustyeddy/optioner/config"
	"github.com/rustyeddy/optioner/exec"
	"github.com/rustyeddy/optioner/internal/log"
	"github.com/rustyeddy/optioner/journal"
	"github.com/rustyeddy/optioner/market"
	"github.com/rustyeddy/optioner/master"
	"github.com/rustyeddy/optioner/strategy"
)

var tradeCmd = &cobra.Command{
	Use:   "trade",
	Short: "Place a strategy's orders for every configured client",
	Long: `Trade expands the strategy into hedged legs, slices them to the freeze
quantity, shows a summary, asks for confirmation, and then places the orders
client by client. Any live order failure aborts the whole run immediately.

Example:
  optioner trade -f examples/strategies/banknifty.yaml -u users.yaml --demo`,
	RunE: runTrade,
}

var (
	tradeStrategyPath string
	tradeConfigPath   string
	tradeDemo         bool
	tradeYes          bool
)

func init() {
	rootCmd.AddCommand(tradeCmd)

	tradeCmd.Flags().StringVarP(&tradeStrategyPath, "file", "f", "", "path to strategy file (required)")
	tradeCmd.Flags().StringVarP(&tradeConfigPath, "users", "u", "./users.yaml", "path to user config file")
	tradeCmd.Flags().BoolVarP(&tradeDemo, "demo", "d", false, "dry-run mode, no live orders are placed")
	tradeCmd.Flags().BoolVarP(&tradeYes, "yes", "y", false, "skip the confirmation prompt")
	tradeCmd.MarkFlagRequired("file")
}

func runTrade(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadFromFile(tradeConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	st, err := strategy.LoadFromFile(tradeStrategyPath)
	if err != nil {
		return fmt.Errorf("load strategy: %w", err)
	}

	logger, err := log.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if st.Expiry == "" {
		if err := resolveExpiry(ctx, st, logger); err != nil {
			return fmt.Errorf("resolve expiry: %w", err)
		}
	}

	clients := clientsFor(st, cfg)
	if len(clients) == 0 {
		return fmt.Errorf("no strategy client has a matching user in %s", tradeConfigPath)
	}

	printSummary(st, clients)

	if tradeDemo {
		color.Yellow("Demo mode: no orders will be placed.")
	} else if !tradeYes {
		if !confirm("Are you sure you want to proceed and place orders?") {
			return fmt.Errorf("aborted by user")
		}
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	fmt.Println("Placing Orders!")
	for _, clientID := range clients {
		b, err := newBroker(ctx, cfg.Users[clientID], logger)
		if err != nil {
			return fmt.Errorf("client %s: %w", clientID, err)
		}

		color.Cyan("Client: %s (%s)", clientID, b.Name())
		runner := &exec.Runner{
			Broker:  b,
			Journal: j,
			Logger:  logger,
			Demo:    tradeDemo,
		}
		if _, err := runner.Run(ctx, st, clientID); err != nil {
			return fmt.Errorf("client %s: %w", clientID, err)
		}
	}

	return nil
}

// clientsFor returns the strategy's clients that have a configured user, in
// stable order.
func clientsFor(st *strategy.Strategy, cfg *config.Config) []string {
	var clients []string
	for name := range st.Clients {
		if _, ok := cfg.Users[name]; ok {
			clients = append(clients, name)
		}
	}
	sort.Strings(clients)
	return clients
}

// newBroker builds the right backend for a user, establishing a Shoonya
// session when only login credentials are configured.
func newBroker(ctx context.Context, u config.User, logger *zap.Logger) (broker.Broker, error) {
	switch u.Broker {
	case config.BrokerFivePaisa:
		return fivepaisa.New(fivepaisa.Config{
			AppKey:      u.AppKey,
			ClientCode:  u.ClientCode,
			AccessToken: u.AccessToken,
		}), nil

	case config.BrokerShoonya:
		client := shoonya.New(shoonya.Config{
			UserID:     u.UserID,
			Password:   u.Password,
			Factor2:    u.Factor2,
			VendorCode: u.VendorCode,
			APISecret:  u.APISecret,
			IMEI:       u.IMEI,
		}, logger)
		if u.SessionToken != "" {
			client.SetSession(u.SessionToken)
			return client, nil
		}
		if err := client.Login(ctx); err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown broker %q", u.Broker)
	}
}

// resolveExpiry fills in the nearest weekly expiry from the master contract
// list when the strategy leaves it blank.
func resolveExpiry(ctx context.Context, st *strategy.Strategy, logger *zap.Logger) error {
	dir, err := mastersDir()
	if err != nil {
		return err
	}
	path, err := master.Download(ctx, nil, "", dir, logger)
	if err != nil {
		return err
	}
	contracts, err := master.Load(path)
	if err != nil {
		return err
	}
	expiry, err := master.NextExpiry(contracts, st.Scrip, master.Weekly, time.Now())
	if err != nil {
		return err
	}

	st.SetExpiry(expiry)
	fmt.Printf("Resolved weekly expiry: %s\n", st.Expiry)
	return nil
}

func mastersDir() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cache, "optioner"), nil
}

func printSummary(st *strategy.Strategy, clients []string) {
	fmt.Printf("Scrip: %s  Expiry: %s\n", st.Scrip, st.Expiry)
	fmt.Println("Summary of orders to be placed:")

	limit := market.FreezeQty(st.Scrip)
	for _, clientID := range clients {
		legs, err := strategy.ExpandLegs(st, st.Clients[clientID])
		if err != nil {
			continue
		}
		strategy.SortByQtyDesc(legs)
		orders := exec.SliceForFreeze(legs, limit)
		buys, sells := exec.Partition(orders)

		fmt.Printf("\n%s (%d orders)\n", clientID, len(orders))
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, o := range buys {
			fmt.Fprintln(w, color.GreenString("  BUY\t%d %s\tqty %d", o.Strike, o.Opt, o.Qty))
		}
		for _, o := range sells {
			fmt.Fprintln(w, color.RedString("  SELL\t%d %s\tqty %d", o.Strike, o.Opt, o.Qty))
		}
		w.Flush()
	}
	fmt.Println()
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	case "csv":
		return journal.NewCSV(jc.OrdersFile)
	default:
		return journal.Nop{}, nil
	}
}
