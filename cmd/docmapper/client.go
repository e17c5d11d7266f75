package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newClientCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage clients in the rule store",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create NAME",
			Short: "Register a client and print its ID",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				c, err := s.CreateClient(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				a.logger.Info("client created", zap.String("id", c.ID), zap.String("name", c.Name))
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)

				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List clients",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				clients, err := s.ListClients(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCREATED")

				for _, c := range clients {
					fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.CreatedAt.Format(time.RFC3339))
				}

				return w.Flush()
			},
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a client and all of its rules",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer s.Close()

				if err := s.DeleteClient(cmd.Context(), args[0]); err != nil {
					return err
				}

				a.logger.Info("client deleted", zap.String("id", args[0]))

				return nil
			},
		},
	)

	return cmd
}
