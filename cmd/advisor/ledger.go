package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/finance-advisor/ledger"
)

func newAddCmd(a *app) *cobra.Command {
	var daysAgo int

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount> <category> [description...]",
		Short: "Record a transaction",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := ledger.ParseKind(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			at := time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour)

			tx, err := ledger.NewTransaction(amount, args[2], strings.Join(args[3:], " "), kind, at)
			if err != nil {
				return err
			}
			if err := a.store.AppendTransaction(cmd.Context(), tx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s\n", tx)
			return nil
		},
	}
	cmd.Flags().IntVar(&daysAgo, "days-ago", 0, "Backdate the transaction by N days")
	return cmd
}

func newBudgetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly category budgets",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set (replace) the monthly budget for a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			b, err := ledger.NewBudget(args[0], amount)
			if err != nil {
				return err
			}
			if err := a.store.SetBudget(cmd.Context(), b); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Budget set: %s for %s\n", money(b.MonthlyAmount), b.Category)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			budgets, err := a.store.QueryBudgets(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderBudgets(budgets))
			return nil
		},
	})
	return cmd
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if err != nil {
		return decimal.Zero, &ledger.ValidationError{Field: "amount", Value: s, Err: ledger.ErrInvalidAmount}
	}
	return d, nil
}
