package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/warp/finance-advisor/api"
)

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Demo ledgers for trying out the advice rules",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List demo scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(cmd.OutOrStdout(), renderScenarios(api.Scenarios()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <scenario>",
		Short: "Reset the database and load a demo scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := api.LoadScenario(cmd.Context(), a.store, args[0], time.Now())
			if err != nil {
				return err
			}
			a.log.WithField("scenario", sc.ID).Info("scenario loaded")
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded scenario: %s\n", sc.Name)
			return nil
		},
	})
	return cmd
}
