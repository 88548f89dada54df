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

package key

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/app/command"
	"github.com/cckit/cck/private/app/flag"
)

func newGenerateCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		outputFlags
		keyType keyring.KeyType
		expiry  keyring.Expiry
		primary bool
	}
	cmd := &cobra.Command{
		Use:   "generate [flags]",
		Short: "Generate a new private key record",
		Example: fmt.Sprintf(`  %[1]s --type ed25519 --primary --out alice.cck
  %[1]s --type x25519 --expiry 2030/12/31`,
			pather.CommandPath(),
		),
		Long: `'generate' creates a fresh private key record.

Only signing keys (ed25519) can be primary. The record is written to standard
out unless --out is set. Private records are not written to a terminal
without --force.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.primary && !flags.keyType.CanSign() {
				return serrors.New("only signing keys can be primary", "type", flags.keyType)
			}
			cmd.SilenceUsage = true

			k, err := keyring.GenerateKey(flags.keyType)
			if err != nil {
				return serrors.Wrap("generating key", err)
			}
			if err := k.SetPrimary(flags.primary); err != nil {
				return err
			}
			k.SetExpiry(flags.expiry)
			log.Debug("Generated key", "type", k.Type(), "fingerprint", k.Fingerprint())
			return flags.write(cmd, k, cfg)
		},
	}
	flag.KeyTypeVar(cmd.Flags(), &flags.keyType, "type", keyring.Ed25519,
		"The key type (ed25519|x25519)")
	flag.ExpiryVar(cmd.Flags(), &flags.expiry, "expiry", keyring.NoExpiry,
		"The expiry date YYYY/MM/DD. The zero date never expires")
	cmd.Flags().BoolVar(&flags.primary, "primary", false, "Mark the key as primary")
	flags.register(cmd)
	return cmd
}

func newDeriveCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		outputFlags
		keyType keyring.KeyType
		expiry  keyring.Expiry
	}
	cmd := &cobra.Command{
		Use:   "derive [flags] <issuer>",
		Short: "Derive a new key signed by the issuer",
		Example: fmt.Sprintf(`  %[1]s --type x25519 alice.cck
  %[1]s --type ed25519 --expiry 2030/12/31 --out signing.cck alice.cck`,
			pather.CommandPath(),
		),
		Long: `'derive' generates a fresh key and signs its public key with the issuer.

The issuer must be a private signing key record. The derived key is not
primary.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			issuer, err := LoadPrivate(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			k, err := issuer.DeriveKey(flags.keyType)
			if err != nil {
				return serrors.Wrap("deriving key", err, "issuer", issuer.Fingerprint())
			}
			k.SetExpiry(flags.expiry)
			log.Debug("Derived key", "issuer", issuer.Fingerprint(),
				"fingerprint", k.Fingerprint())
			return flags.write(cmd, k, cfg)
		},
	}
	flag.KeyTypeVar(cmd.Flags(), &flags.keyType, "type", keyring.X25519,
		"The key type (ed25519|x25519)")
	flag.ExpiryVar(cmd.Flags(), &flags.expiry, "expiry", keyring.NoExpiry,
		"The expiry date YYYY/MM/DD. The zero date never expires")
	flags.register(cmd)
	return cmd
}

func newPublicCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags outputFlags
	cmd := &cobra.Command{
		Use:     "public [flags] <private-record>",
		Short:   "Extract the public key record of a private key record",
		Example: fmt.Sprintf(`  %[1]s --out alice.pub.cck alice.cck`, pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			priv, err := LoadPrivate(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return flags.write(cmd, priv.PublicKey(), cfg)
		},
	}
	flags.register(cmd)
	return cmd
}
