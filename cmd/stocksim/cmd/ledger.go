package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show the transaction history",
	Long:  `Print the persisted transaction ledger, most recent first.`,
	RunE:  runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	txs := sess.engine.Transactions()
	if len(txs) == 0 {
		fmt.Println("no transactions recorded")
		return nil
	}
	for _, t := range txs {
		fmt.Printf("[%s] %-4s %-22s %d @ %d = %s\n",
			t.Timestamp, t.Kind, t.Instrument, t.Quantity, t.UnitPrice, t.Total())
	}
	return nil
}
