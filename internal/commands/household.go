package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"gastocerto/internal/session"
)

func newHouseholdCommand(d *deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household",
		Short: "Create, join or leave a household",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "new",
		Short: "Create a household and make it the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := d.session()
			if err != nil {
				return err
			}
			sess.HouseholdID = session.NewHouseholdID()
			if err := d.store.Save(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created household %s\nShare this id so others can join.\n", sess.HouseholdID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "join <id>",
		Short: "Make an existing household the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := d.session()
			if err != nil {
				return err
			}
			sess.HouseholdID = args[0]
			if err := d.store.Save(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined household %s\n", sess.HouseholdID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active household",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := d.session()
			if err != nil {
				return err
			}
			if err := sess.Require(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Household: %s\nUser:      %s\n", sess.HouseholdID, sess.Owner())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "leave",
		Short: "Forget the active household",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := d.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Left the household.")
			return nil
		},
	})

	return cmd
}
