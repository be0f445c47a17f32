package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemaCommand(flags *rootFlags) *cobra.Command {
	schema := &cobra.Command{
		Use:   "schema",
		Short: "manage the schema of the user database",
	}

	schema.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "print the current and the latest schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, _, err := flags.database(cmd.Context())
				if err != nil {
					return err
				}
				defer closeOrLog(db)

				current, err := db.Schema().Version(cmd.Context())
				if err != nil {
					return err
				}
				latest, err := db.Schema().Latest()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "current: %d\nlatest: %d\n", current, latest)
				return nil
			},
		},
		&cobra.Command{
			Use:   "upgrade",
			Short: "apply schema versions newer than the current one",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				db, _, err := flags.database(cmd.Context())
				if err != nil {
					return err
				}
				defer closeOrLog(db)

				if err := db.Schema().Upgrade(cmd.Context()); err != nil {
					return err
				}
				v, err := db.Schema().Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema is upgraded to version %d\n", v)
				return nil
			},
		},
	)
	return schema
}
