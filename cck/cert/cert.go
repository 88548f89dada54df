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

// Package cert defines cobra commands to create and check certificates.
package cert

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/file"
	"github.com/cckit/cck/cck/key"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/app/command"
)

// Cmd creates a new cobra command to manage certificates.
func Cmd(pather command.Pather) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cert",
		Short: "Create and verify certificates",
	}
	joined := command.Join(pather, cmd)

	cmd.AddCommand(
		newCreateCmd(joined),
		newVerifyCmd(joined),
		newMatchCmd(joined),
	)
	return cmd
}

func newCreateCmd(pather command.Pather) *cobra.Command {
	var flags struct {
		out   string
		force bool
	}
	cmd := &cobra.Command{
		Use:   "create [flags] <record>",
		Short: "Create the certificate of a key record",
		Example: fmt.Sprintf(`  %[1]s alice.pub.cck
  %[1]s --out alice.crt alice.cck`, pather.CommandPath()),
		Long: `'create' writes the certificate of the public half of the key record.

The certificate consists of the expiry, the key type, the public key and its
fingerprint. It carries no signature.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			k, err := key.Load(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var pub *keyring.PublicKey
			switch k := k.(type) {
			case *keyring.PrivateKey:
				pub = k.PublicKey()
			case *keyring.PublicKey:
				pub = k
			}
			cert := keyring.NewCertificate(pub)
			raw := []byte(cert.String() + "\n")
			return file.Output(cmd.OutOrStdout(), flags.out, raw, false,
				file.WithForce(flags.force))
		},
	}
	cmd.Flags().StringVar(&flags.out, "out", "", "Write the certificate to this file")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Overwrite an existing file")
	return cmd
}

func newVerifyCmd(pather command.Pather) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verify <certificate>",
		Short:   "Verify that the certificate is well formed",
		Example: fmt.Sprintf(`  %[1]s alice.crt`, pather.CommandPath()),
		Long: `'verify' parses the certificate and checks that the fingerprint matches the
certified public key.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			pub, err := load(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Certificate of %s key %s (expiry %s) is valid\n",
				pub.Type(), pub.Fingerprint(), pub.Expiry())
			return nil
		},
	}
	return cmd
}

func newMatchCmd(pather command.Pather) *cobra.Command {
	var flags struct {
		separator string
	}
	cmd := &cobra.Command{
		Use:   "match <record> <certificate> [<certificate> ...]",
		Short: "Find the certificates of the key record",
		Example: fmt.Sprintf(`  %[1]s alice.cck alice.crt
  %[1]s alice.cck *.crt`, pather.CommandPath()),
		Long: `'match' finds all the certificates that certify the key record.

Certificates that cannot be parsed are ignored with a warning.
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			k, err := key.Load(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			var pub []byte
			switch k := k.(type) {
			case *keyring.PrivateKey:
				pub = k.PublicBytes()
			default:
				pub = k.Bytes()
			}

			var certificates []string
			for _, filename := range args[1:] {
				cpub, err := load(cmd.InOrStdin(), filename)
				if err != nil {
					log.Info("Ignoring certificate", "file", filename, "err", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "WARN: ignoring %q: %s\n", filename, err)
					continue
				}
				if bytes.Equal(pub, cpub.Bytes()) {
					certificates = append(certificates, filename)
				}
			}
			if len(certificates) == 0 {
				return serrors.New("no matching certificate found")
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(certificates, flags.separator))
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.separator, "separator", "\n", "The separator between file names")
	return cmd
}

// load parses and validates the certificate in filename. A single trailing
// line break is accepted.
func load(r io.Reader, filename string) (*keyring.PublicKey, error) {
	raw, err := file.Read(r, filename)
	if err != nil {
		return nil, err
	}
	s := strings.ReplaceAll(string(raw), "\r\n", "\n")
	cert, err := keyring.ParseCertificate(strings.TrimSuffix(s, "\n"))
	if err != nil {
		return nil, serrors.Wrap("parsing certificate", err, "file", filename)
	}
	return cert.PublicKey()
}
