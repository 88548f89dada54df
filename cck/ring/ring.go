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

// Package ring defines cobra commands to store and look up keys in the ring.
package ring

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/cck/file"
	"github.com/cckit/cck/cck/key"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/app/command"
	"github.com/cckit/cck/private/storage"
	ringdb "github.com/cckit/cck/private/storage/ring"
)

// Open opens the ring configured in cfg. The caller must close it.
func Open(cfg *config.Config) (ringdb.DB, error) {
	return storage.NewRingStorage(cfg.Ring, nil)
}

// WithRing opens the ring, runs fn on it and closes it. A failure to close is
// reported if fn succeeded.
func WithRing(cfg *config.Config, fn func(db ringdb.DB) error) (err error) {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(db)
}

// Cmd creates a new cobra command to manage the ring.
func Cmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ring",
		Short: "Store and look up keys in the ring",
	}
	joined := command.Join(pather, cmd)

	cmd.AddCommand(
		newImportCmd(joined, cfg),
		newListCmd(joined, cfg),
		newShowCmd(joined, cfg),
	)
	return cmd
}

func newImportCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		user string
	}
	cmd := &cobra.Command{
		Use:   "import --user <id> <record>",
		Short: "Import a key record for a user",
		Example: fmt.Sprintf(`  %[1]s --user 4f0c... alice.cck
  %[1]s --user 4f0c... bob.pub.cck`, pather.CommandPath()),
		Long: `'import' stores a private or public key record for the user.

The ring is append-only. Importing a record with the same fingerprint again
adds another row. Lookups return the earliest one.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			k, err := key.Load(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return WithRing(cfg, func(db ringdb.DB) error {
				ctx := cmd.Context()
				user, err := db.UserByID(ctx, flags.user)
				if err != nil {
					return serrors.Wrap("looking up user", err, "user", flags.user)
				}
				switch k := k.(type) {
				case *keyring.PrivateKey:
					err = db.InsertPrivateKey(ctx, user.ID, k)
				case *keyring.PublicKey:
					err = db.InsertPublicKey(ctx, user.ID, k)
				}
				if err != nil {
					return serrors.Wrap("importing key", err, "user", user.ID)
				}
				log.Info("Imported key", "user", user.ID, "fingerprint", k.Fingerprint(),
					"private", k.IsPrivate())
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s for %s\n", k.Fingerprint(), user)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&flags.user, "user", "", "The id of the user")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newListCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		user string
	}
	cmd := &cobra.Command{
		Use:     "list --user <id>",
		Short:   "List the keys of a user",
		Example: fmt.Sprintf(`  %[1]s --user 4f0c...`, pather.CommandPath()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			return WithRing(cfg, func(db ringdb.DB) error {
				ctx := cmd.Context()
				privs, err := db.PrivateKeys(ctx, flags.user)
				if err != nil {
					return err
				}
				pubs, err := db.PublicKeys(ctx, flags.user)
				if err != nil {
					return err
				}
				keys := make([]keyring.AsymmetricKey, 0, len(privs)+len(pubs))
				for _, k := range privs {
					keys = append(keys, k)
				}
				for _, k := range pubs {
					keys = append(keys, k)
				}
				renderKeys(cmd.OutOrStdout(), keys)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&flags.user, "user", "", "The id of the user")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderKeys(w io.Writer, keys []keyring.AsymmetricKey) {
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		kind := "public"
		if k.IsPrivate() {
			kind = "private"
		}
		expiry := k.Expiry().String()
		if k.Expiry().IsZero() {
			expiry = "never"
		}
		rows = append(rows, []string{
			k.Fingerprint().String(),
			kind,
			k.Type().String(),
			strconv.FormatBool(k.IsPrimary()),
			expiry,
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader([]string{"FINGERPRINT", "KIND", "TYPE", "PRIMARY", "EXPIRY"})
	table.AppendBulk(rows)
	table.Render()
}

func newShowCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		fingerprint string
		user        string
		public      bool
		out         string
		force       bool
	}
	cmd := &cobra.Command{
		Use:   "show --fingerprint <hex> [flags]",
		Short: "Print a stored key record",
		Example: fmt.Sprintf(`  %[1]s --fingerprint 9a3e...
  %[1]s --fingerprint 9a3e... --public --user 4f0c...`, pather.CommandPath()),
		Long: `'show' prints the record of the key with the fingerprint.

Private keys are looked up by default. With --user the key must belong to
that user. Private records are not written to a terminal without --force.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := keyring.ParseFingerprint(flags.fingerprint)
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			var k keyring.AsymmetricKey
			err = WithRing(cfg, func(db ringdb.DB) error {
				var err error
				ctx := cmd.Context()
				switch {
				case flags.public && flags.user != "":
					k, err = db.PublicKey(ctx, flags.user, fp)
				case flags.public:
					k, err = db.PublicKeyByFingerprint(ctx, fp)
				case flags.user != "":
					k, err = db.PrivateKey(ctx, flags.user, fp)
				default:
					k, err = db.PrivateKeyByFingerprint(ctx, fp)
				}
				return err
			})
			if err != nil {
				return serrors.Wrap("looking up key", err, "fingerprint", fp)
			}
			raw := []byte(keyring.Encode(k))
			return file.Output(cmd.OutOrStdout(), flags.out, raw, k.IsPrivate(),
				file.WithForce(flags.force))
		},
	}
	cmd.Flags().StringVar(&flags.fingerprint, "fingerprint", "", "The hex fingerprint of the key")
	cmd.Flags().StringVar(&flags.user, "user", "", "Restrict the lookup to the user id")
	cmd.Flags().BoolVar(&flags.public, "public", false, "Look up a public key")
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the record to this file")
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Overwrite an existing file, and allow private records on a terminal")
	_ = cmd.MarkFlagRequired("fingerprint")
	return cmd
}
