// Copyright 2024 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package user defines cobra commands to register and look up ring users.
package user

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/config"
	ringcmd "github.com/cckit/cck/cck/ring"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/app/command"
	"github.com/cckit/cck/private/storage/ring"
)

// Cmd creates a new cobra command to manage users.
func Cmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Register and look up users",
	}
	joined := command.Join(pather, cmd)

	cmd.AddCommand(
		newAddCmd(joined, cfg),
		newShowCmd(joined, cfg),
	)
	return cmd
}

func newAddCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		name  string
		email string
	}
	cmd := &cobra.Command{
		Use:     "add --name <name> --email <email>",
		Short:   "Register a new user in the ring",
		Example: fmt.Sprintf(`  %[1]s --name alice --email alice@example.com`,
			pather.CommandPath()),
		Long: `'add' registers a new user and prints its id.

The id is derived from the name, the email and a random salt. Registering the
same name and email twice yields two distinct users.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := keyring.NewUser(flags.name, flags.email)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			err = ringcmd.WithRing(cfg, func(db ring.DB) error {
				return db.InsertUser(cmd.Context(), user)
			})
			if err != nil {
				return serrors.Wrap("registering user", err, "user", user)
			}
			log.Info("Registered user", "id", user.ID, "name", user.Name, "email", user.Email)
			fmt.Fprintln(cmd.OutOrStdout(), user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.name, "name", "", "The name of the user")
	cmd.Flags().StringVar(&flags.email, "email", "", "The email address of the user")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newShowCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		id    string
		name  string
		email string
	}
	cmd := &cobra.Command{
		Use:   "show (--id <id> | --email <email> | --name <name>)",
		Short: "Look up users",
		Example: fmt.Sprintf(`  %[1]s --email alice@example.com
  %[1]s --name alice`, pather.CommandPath()),
		Long: `'show' looks up users by id, email or name.

A lookup by email returns the earliest registered user. A lookup by name
returns all users with that name.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			var users []*keyring.User
			err := ringcmd.WithRing(cfg, func(db ring.DB) error {
				ctx := cmd.Context()
				switch {
				case flags.id != "":
					user, err := db.UserByID(ctx, flags.id)
					if err != nil {
						return err
					}
					users = append(users, user)
				case flags.email != "":
					user, err := db.UserByEmail(ctx, flags.email)
					if err != nil {
						return err
					}
					users = append(users, user)
				default:
					var err error
					users, err = db.UsersByName(ctx, flags.name)
					return err
				}
				return nil
			})
			if err != nil {
				return serrors.Wrap("looking up user", err)
			}
			renderUsers(cmd.OutOrStdout(), users)
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.id, "id", "", "The id of the user")
	cmd.Flags().StringVar(&flags.email, "email", "", "The email address of the user")
	cmd.Flags().StringVar(&flags.name, "name", "", "The name of the users")
	cmd.MarkFlagsMutuallyExclusive("id", "email", "name")
	cmd.MarkFlagsOneRequired("id", "email", "name")
	return cmd
}

func renderUsers(w io.Writer, users []*keyring.User) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"ID", "NAME", "EMAIL"})
	for _, u := range users {
		table.Append([]string{u.ID, u.Name, u.Email})
	}
	table.Render()
}
