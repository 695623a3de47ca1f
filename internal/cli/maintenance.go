package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	portssvc "github.com/SscSPs/studio_ops_app/internal/core/ports/services"
	"github.com/SscSPs/studio_ops_app/internal/core/services"
	"github.com/SscSPs/studio_ops_app/internal/platform/config"
	"github.com/SscSPs/studio_ops_app/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(expirePromosCmd)
	rootCmd.AddCommand(hashPasswordCmd)
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute cached balances from the transaction log",
	Long: `Recompute every project payment, card balance, pocket amount and reward
balance from the transaction log and rewrite the records that drifted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, c *servicesHandle) error {
			n, err := c.container.Finance.Reconcile(ctx, "system")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reconciled %d records\n", n)
			return nil
		})
	},
}

var expirePromosCmd = &cobra.Command{
	Use:   "expire-promos",
	Short: "Deactivate promo codes whose expiry date has passed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(func(ctx context.Context, c *servicesHandle) error {
			n, err := c.container.Catalog.ExpirePromoCodes(ctx, time.Now().In(c.cfg.Location))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deactivated %d promo codes\n", n)
			return nil
		})
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [PASSWORD]",
	Short: "Print the bcrypt hash to use as ADMIN_PASSWORD_HASH",
	Long:  `Print the bcrypt hash of PASSWORD. Without an argument the password is read from the first line of stdin.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var password string
		if len(args) == 1 {
			password = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}
		hash, err := utils.HashPassword(password)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

type servicesHandle struct {
	cfg       *config.Config
	container *portssvc.ServiceContainer
}

// withServices opens the configured store, builds the services and runs fn.
func withServices(fn func(ctx context.Context, c *servicesHandle) error) error {
	logger := newLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ctx := context.Background()
	repos, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	container := services.NewServiceContainer(cfg, repos, services.WithLocation(cfg.Location))
	return fn(ctx, &servicesHandle{cfg: cfg, container: container})
}
