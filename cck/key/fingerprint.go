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
	"strings"

	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/cck/file"
	"github.com/cckit/cck/pkg/encoding"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/app/command"
	"github.com/cckit/cck/private/app/flag"
)

func newFingerprintCmd(pather command.Pather) *cobra.Command {
	var flags struct {
		format string
	}
	cmd := &cobra.Command{
		Use:   "fingerprint [flags] <record>",
		Short: "Print the fingerprint of a key record",
		Example: fmt.Sprintf(`  %[1]s alice.cck
  %[1]s --format base58 alice.pub.cck`, pather.CommandPath()),
		Long: fmt.Sprintf(`'fingerprint' prints the fingerprint stored in the key record.

The fingerprint is the BLAKE3 digest of the public key. It is written in one
of the formats (%s).
`, strings.Join(encoding.Formats, "|")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			k, err := Load(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			output, err := encoding.EncodeBytes(k.Fingerprint(), flags.format)
			if err != nil {
				return serrors.Wrap("encoding fingerprint", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}
	flag.FormatVar(cmd.Flags(), &flags.format, "format", encoding.FormatHex,
		fmt.Sprintf("The format of the fingerprint (%s)", strings.Join(encoding.Formats, "|")))
	return cmd
}

func newPEMCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		out   string
		force bool
		raw   bool
	}
	cmd := &cobra.Command{
		Use:   "pem [flags] <record>",
		Short: "Encapsulate a key record in a PEM block",
		Example: fmt.Sprintf(`  %[1]s alice.pub.cck
  %[1]s --raw --out alice.pem alice.pub.cck`, pather.CommandPath()),
		Long: `'pem' writes the key record as a PEM block.

By default the full record is encapsulated with a CCK label, and can be read
back by all commands that take a record. With --raw only the bare key bytes
are written under the generic PRIVATE KEY or PUBLIC KEY label.

The line ending follows the pem section of the configuration.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			k, err := Load(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			encodeFn := keyring.EncodePEM
			if flags.raw {
				encodeFn = keyring.EncodeRawPEM
			}
			raw, err := encodeFn(k, cfg.PEM.Ending())
			if err != nil {
				return err
			}
			return file.Output(cmd.OutOrStdout(), flags.out, raw, k.IsPrivate(),
				file.WithForce(flags.force))
		},
	}
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the PEM block to this file")
	cmd.Flags().BoolVar(&flags.force, "force", false,
		"Overwrite an existing file, and allow private keys on a terminal")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "Write only the key bytes")
	return cmd
}

func newVerifyCmd(pather command.Pather) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verify <record> <issuer>",
		Short:   "Verify that the issuer signed the key record",
		Example: fmt.Sprintf(`  %[1]s signing.pub.cck alice.pub.cck`, pather.CommandPath()),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			k, err := Load(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			issuer, err := loadPublic(cmd, args[1])
			if err != nil {
				return err
			}
			if err := k.VerifySignature(issuer); err != nil {
				return serrors.Wrap("verifying signature", err,
					"key", k.Fingerprint(), "issuer", issuer.Fingerprint())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signature of %s by %s is valid\n",
				k.Fingerprint(), issuer.Fingerprint())
			return nil
		},
	}
	return cmd
}

func loadPublic(cmd *cobra.Command, filename string) (*keyring.PublicKey, error) {
	k, err := Load(cmd.InOrStdin(), filename)
	if err != nil {
		return nil, err
	}
	switch k := k.(type) {
	case *keyring.PrivateKey:
		return k.PublicKey(), nil
	case *keyring.PublicKey:
		return k, nil
	default:
		return nil, serrors.New("unsupported record", "type", fmt.Sprintf("%T", k))
	}
}
