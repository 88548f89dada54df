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

// Package message defines cobra commands to seal and open messages for key
// agreement keys.
package message

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/cck/file"
	"github.com/cckit/cck/cck/key"
	"github.com/cckit/cck/pkg/compress"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/app/command"
)

// Cmd creates a new cobra command to seal and open messages.
func Cmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Seal and open messages",
	}
	joined := command.Join(pather, cmd)

	cmd.AddCommand(
		newSealCmd(joined, cfg),
		newOpenCmd(joined),
	)
	return cmd
}

func newSealCmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	var flags struct {
		to    string
		level int
		out   string
		force bool
	}
	cmd := &cobra.Command{
		Use:   "seal --to <record> [flags] <file>",
		Short: "Seal a message for the holder of an X25519 key",
		Example: fmt.Sprintf(`  %[1]s --to bob.pub.cck letter.txt
  %[1]s --to bob.pub.cck --level 9 --out letter.pem - < letter.txt`,
			pather.CommandPath(),
		),
		Long: `'seal' compresses and encrypts the file for the recipient.

The recipient must be an X25519 key record. The result is a CCK MESSAGE PEM
block that only the holder of the private recipient key can open. The file -
reads from standard in.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level := compress.Level(flags.level)
			if err := level.Validate(); err != nil {
				return err
			}
			cmd.SilenceUsage = true

			recipient, err := key.Load(nil, flags.to)
			if err != nil {
				return err
			}
			var pub *keyring.PublicKey
			switch k := recipient.(type) {
			case *keyring.PrivateKey:
				pub = k.PublicKey()
			case *keyring.PublicKey:
				pub = k
			}
			plaintext, err := file.Read(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			sealed, err := keyring.SealMessage(pub, plaintext, level)
			if err != nil {
				return serrors.Wrap("sealing message", err, "recipient", pub.Fingerprint())
			}
			raw, err := keyring.EncodeMessagePEM(sealed, cfg.PEM.Ending())
			if err != nil {
				return err
			}
			return file.Output(cmd.OutOrStdout(), flags.out, raw, false,
				file.WithForce(flags.force))
		},
	}
	cmd.Flags().StringVar(&flags.to, "to", "", "The key record of the recipient")
	cmd.Flags().IntVar(&flags.level, "level", int(compress.DefaultLevel),
		"The deflate level (1 fastest to 9 best)")
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the sealed message to this file")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing file")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newOpenCmd(pather command.Pather) *cobra.Command {
	var flags struct {
		key   string
		out   string
		force bool
	}
	cmd := &cobra.Command{
		Use:     "open --key <private-record> [flags] <message>",
		Short:   "Open a sealed message",
		Example: fmt.Sprintf(`  %[1]s --key bob.cck letter.pem`, pather.CommandPath()),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			priv, err := key.LoadPrivate(nil, flags.key)
			if err != nil {
				return err
			}
			raw, err := file.Read(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			sealed, err := keyring.DecodeMessagePEM(raw)
			if err != nil {
				return err
			}
			plaintext, err := keyring.OpenMessage(priv, sealed)
			if err != nil {
				return serrors.Wrap("opening message", err, "key", priv.Fingerprint())
			}
			return file.Output(cmd.OutOrStdout(), flags.out, plaintext, false,
				file.WithForce(flags.force))
		},
	}
	cmd.Flags().StringVar(&flags.key, "key", "", "The private key record of the recipient")
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the plaintext to this file")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing file")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
