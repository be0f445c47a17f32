package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	kdb "github.com/opensilex/phis/pkg/db"
	"github.com/opensilex/phis/pkg/security"
	"github.com/opensilex/phis/pkg/uri"
	"github.com/spf13/cobra"
)

type userFlags struct {
	email      string
	firstName  string
	familyName string
	password   string
	language   string
	admin      bool
	groups     []string
}

func newUserCommand(flags *rootFlags) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "manage users",
	}

	uf := &userFlags{}
	add := &cobra.Command{
		Use:   "add",
		Short: "register a user",
		Example: `  phisadm user add --email admin@opensilex.org --first-name admin --family-name phis \
    --password azerty --admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, conf, err := flags.database(cmd.Context())
			if err != nil {
				return err
			}
			defer closeOrLog(db)

			u, err := addUser(cmd.Context(), db, conf.BaseURI(), *uf)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.URI)
			return nil
		},
	}
	add.Flags().StringVar(&uf.email, "email", "", "email, used as the identifier to log in")
	add.Flags().StringVar(&uf.firstName, "first-name", "", "first name")
	add.Flags().StringVar(&uf.familyName, "family-name", "", "family name")
	add.Flags().StringVar(&uf.password, "password", "", "password")
	add.Flags().StringVar(&uf.language, "lang", "en", "preferred language")
	add.Flags().BoolVar(&uf.admin, "admin", false, "make the user an administrator")
	add.Flags().StringSliceVar(&uf.groups, "group", nil, "URI of a group the user joins. repeatable")
	for _, f := range []string{"email", "family-name", "password"} {
		if err := add.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}

	user.AddCommand(add)
	return user
}

// addUser registers the user and puts it into groups.
func addUser(ctx context.Context, db kdb.Database, baseURI string, uf userFlags) (kdb.User, error) {
	if !strings.Contains(uf.email, "@") {
		return kdb.User{}, fmt.Errorf("email is not valid: %q", uf.email)
	}
	hash, err := security.HashPassword(uf.password)
	if err != nil {
		return kdb.User{}, err
	}
	u, err := db.Users().Create(ctx, kdb.UserParam{
		URI:          uri.ForClass(baseURI, "user", uf.firstName, uf.familyName),
		Email:        uf.email,
		FirstName:    uf.firstName,
		FamilyName:   uf.familyName,
		Admin:        uf.admin,
		Language:     uf.language,
		PasswordHash: hash,
	})
	if errors.Is(err, kdb.ErrConflict) {
		return kdb.User{}, fmt.Errorf("user %s is already registered: %w", uf.email, err)
	} else if err != nil {
		return kdb.User{}, err
	}
	for _, g := range uf.groups {
		if err := db.Groups().AddMember(ctx, g, u.URI); err != nil {
			return u, fmt.Errorf("user is registered, but can not join %s: %w", g, err)
		}
	}
	return u, nil
}
