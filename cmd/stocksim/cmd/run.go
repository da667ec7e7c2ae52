package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quantlab/stocksim/journal"
	"github.com/quantlab/stocksim/sim"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive trading session",
	Long: `Run the simulator interactively. Prices evolve every 30 seconds
(configurable) while you trade from the prompt.

Commands at the prompt:
  ls                 list instruments with prices and holdings
  buy <n> <qty>      buy shares of instrument number n
  sell <n> <qty>     sell shares of instrument number n
  show <n>           show one instrument with its price history
  tx                 show the transaction ledger, most recent first
  reset              wipe everything and reseed the market
  quit               save and exit`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sess, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer sess.close()

	evolveEvery, err := cfg.EvolveInterval()
	if err != nil {
		return fmt.Errorf("evolve interval: %w", err)
	}
	tickEvery, err := cfg.TickInterval()
	if err != nil {
		return fmt.Errorf("tick interval: %w", err)
	}

	sched := sim.NewScheduler(func() {
		if err := sess.engine.Evolve(); err != nil {
			notice(err)
		}
	}, evolveEvery, tickEvery)
	sched.Start()
	defer sched.Stop()

	fmt.Println("stocksim — type 'help' for commands")
	printList(sess.engine, sched)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "help":
			fmt.Println(cmd.Long)
		case "ls":
			printList(sess.engine, sched)
		case "buy", "sell":
			doTrade(sess.engine, fields)
		case "show":
			doShow(sess.engine, fields)
		case "tx":
			printLedger(sess.engine)
		case "reset":
			if err := sess.engine.Reset(); err != nil {
				notice(err)
			}
			sched.Restart()
			fmt.Println("market reseeded")
			printList(sess.engine, sched)
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("unknown command %q, try 'help'\n", fields[0])
		}
	}
}

// nameByIndex resolves the 1-based instrument number shown by ls.
func nameByIndex(e *sim.Engine, arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return "", fmt.Errorf("instrument must be a number from 'ls', got %q", arg)
	}
	views := e.List()
	if n < 1 || n > len(views) {
		return "", fmt.Errorf("no instrument %d", n)
	}
	return views[n-1].Name, nil
}

func doTrade(e *sim.Engine, fields []string) {
	if len(fields) != 3 {
		fmt.Printf("usage: %s <n> <qty>\n", fields[0])
		return
	}
	name, err := nameByIndex(e, fields[1])
	if err != nil {
		fmt.Println(err)
		return
	}
	qty, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		fmt.Println("quantity must be a whole number")
		return
	}

	var tx journal.Transaction
	if fields[0] == "buy" {
		tx, err = e.Buy(name, qty)
	} else {
		tx, err = e.Sell(name, qty)
	}

	switch {
	case err == nil:
		fmt.Printf("%s %d x %s for %s\n", fields[0], qty, name, tx.Total())
	case errors.Is(err, sim.ErrPersistence):
		// The trade went through; only the durable copy is stale.
		fmt.Printf("%s %d x %s for %s\n", fields[0], qty, name, tx.Total())
		notice(err)
	default:
		fmt.Println(err)
	}
}

func doShow(e *sim.Engine, fields []string) {
	if len(fields) != 2 {
		fmt.Println("usage: show <n>")
		return
	}
	name, err := nameByIndex(e, fields[1])
	if err != nil {
		fmt.Println(err)
		return
	}
	v, ok := e.Detail(name)
	if !ok {
		fmt.Printf("no such instrument %q\n", name)
		return
	}

	fmt.Printf("%s\n", v.Name)
	fmt.Printf("  price:    %d%s\n", v.Price, deltaSuffix(v))
	fmt.Printf("  held:     %d (value %s)\n", v.Quantity, v.Value)
	fmt.Printf("  history:  ")
	for i, p := range v.History {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(p)
	}
	fmt.Println()
}

func printList(e *sim.Engine, sched *sim.Scheduler) {
	fmt.Printf("cash: %s   portfolio: %s   next move in %ds\n",
		e.Balance().StringFixed(0), e.PortfolioValue().StringFixed(0), sched.SecondsLeft())
	for i, v := range e.List() {
		fmt.Printf("  %d. %-22s %6d%s  held %d\n", i+1, v.Name, v.Price, deltaSuffix(v), v.Quantity)
	}
}

func printLedger(e *sim.Engine) {
	txs := e.Transactions()
	if len(txs) == 0 {
		fmt.Println("no transactions yet")
		return
	}
	for _, t := range txs {
		fmt.Printf("  [%s] %-4s %-22s %d @ %d = %s\n",
			t.Timestamp, t.Kind, t.Instrument, t.Quantity, t.UnitPrice, t.Total())
	}
}

func deltaSuffix(v sim.StockView) string {
	if !v.HasDelta || v.Delta == 0 {
		return ""
	}
	return fmt.Sprintf(" (%+d)", v.Delta)
}

func notice(err error) {
	fmt.Printf("notice: %v\n", err)
}
