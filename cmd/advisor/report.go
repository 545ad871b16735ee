package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/warp/finance-advisor/analytics"
)

func newAdviceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "advice",
		Short: "Show advice for the current ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := a.advisor.Generate(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderAdvice(items))
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var days, weeks int

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Income, spending, budgets and weekly trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			summary, err := a.analytics.Summary(ctx, days)
			if err != nil {
				return err
			}
			weekly, err := a.analytics.WeeklySeries(ctx, weeks)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summary, weekly, days))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "n", analytics.BudgetWindowDays, "Window in days for totals and category spend")
	cmd.Flags().IntVarP(&weeks, "weeks", "w", 4, "Number of weeks in the weekly series")
	return cmd
}
