package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe the saved state and reseed the market",
	Long: `Replace the persisted snapshot with a freshly seeded one: random
initial prices, zero holdings, the starting balance, and an empty
ledger.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	if err := sess.gateway.Clear(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	if err := sess.engine.Reset(); err != nil {
		return err
	}

	fmt.Printf("reset: balance %s, %d instruments reseeded, ledger cleared\n",
		sess.engine.Balance().StringFixed(0), len(sess.engine.List()))
	return nil
}
