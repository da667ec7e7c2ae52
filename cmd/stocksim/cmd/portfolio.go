package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show the saved portfolio",
	Long:  `Print the persisted cash balance, holdings, and total portfolio value without starting a session.`,
	RunE:  runPortfolio,
}

func init() {
	rootCmd.AddCommand(portfolioCmd)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	fmt.Printf("cash balance:    %s\n", sess.engine.Balance().StringFixed(0))
	fmt.Printf("portfolio value: %s\n\n", sess.engine.PortfolioValue().StringFixed(0))
	for _, v := range sess.engine.List() {
		fmt.Printf("  %-22s price %6d%s  held %4d  value %8s\n",
			v.Name, v.Price, deltaSuffix(v), v.Quantity, v.Value)
	}
	return nil
}
