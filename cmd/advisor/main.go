/*
main.go - Application entry point

PURPOSE:
  The advisor binary. One cobra command tree covers both the HTTP server
  and the terminal reports, all sharing the same configuration and
  SQLite ledger.

COMMANDS:
  serve                         HTTP API (+ optional advice digest)
  advice                        Render advice in the terminal
  summary [--days N]            Totals, category spend, budgets, weekly series
  add <type> <amount> <cat> [d] Record income or expense
  budget set <cat> <amount>     Set (replace) a monthly budget
  budget list
  demo list | demo load <id>    Demo ledgers (resets the database)

CONFIGURATION:
  ADVISOR_* environment variables, optionally from .env, plus an
  optional TOML rules file (see config/config.go). --db overrides
  ADVISOR_DB_PATH.

EXAMPLES:
  advisor add expense 12.50 Food "Lunch"
  advisor budget set Food 400
  advisor advice
  ADVISOR_DIGEST_SCHEDULE=@daily advisor serve

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Settings
*/
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/warp/finance-advisor/advice"
	"github.com/warp/finance-advisor/analytics"
	"github.com/warp/finance-advisor/config"
	"github.com/warp/finance-advisor/store/sqlite"
)

// app carries what every subcommand needs once PersistentPreRunE ran.
type app struct {
	cfg       config.Config
	log       *logrus.Logger
	store     *sqlite.Store
	analytics *analytics.Engine
	advisor   *advice.Engine

	dbOverride string
}

func main() {
	root, a := newRootCmd()
	err := root.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. The caller closes the returned app
// once Execute returns, whether or not the command failed.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:          "advisor",
		Short:        "Personal finance tracker with rule-based advice",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open()
		},
	}
	root.PersistentFlags().StringVar(&a.dbOverride, "db", "", "SQLite database path (overrides ADVISOR_DB_PATH)")

	root.AddCommand(
		newServeCmd(a),
		newAdviceCmd(a),
		newSummaryCmd(a),
		newAddCmd(a),
		newBudgetCmd(a),
		newDemoCmd(a),
	)
	return root, a
}

func (a *app) open() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.dbOverride != "" {
		cfg.DBPath = a.dbOverride
	}
	a.cfg = cfg
	a.log = cfg.NewLogger()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.store = store
	a.analytics = analytics.NewEngine(store)
	a.advisor = advice.NewEngine(a.analytics, cfg.Rules.AdviceConfig())
	return nil
}

func (a *app) close() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}
