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

// Package key defines cobra commands to manage key records.
package key

import (
	"bytes"
	"io"

	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/cck/file"
	"github.com/cckit/cck/pkg/keyring"
	"github.com/cckit/cck/pkg/private/serrors"
	"github.com/cckit/cck/private/app/command"
)

// Cmd creates a new cobra command to manage keys.
func Cmd(pather command.Pather, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage private and public key records",
	}
	joined := command.Join(pather, cmd)

	cmd.AddCommand(
		newGenerateCmd(joined, cfg),
		newDeriveCmd(joined, cfg),
		newPublicCmd(joined, cfg),
		newFingerprintCmd(joined),
		newPEMCmd(joined, cfg),
		newVerifyCmd(joined),
	)
	return cmd
}

var pemPrefix = []byte("-----BEGIN ")

// Load reads a key record from filename. Both the record text and the CCK PEM
// encapsulation are accepted. The name - reads from r.
func Load(r io.Reader, filename string) (keyring.AsymmetricKey, error) {
	raw, err := file.Read(r, filename)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), pemPrefix) {
		return keyring.DecodePEM(raw)
	}
	return keyring.Decode(string(raw))
}

// LoadPrivate reads a private key record from filename.
func LoadPrivate(r io.Reader, filename string) (*keyring.PrivateKey, error) {
	k, err := Load(r, filename)
	if err != nil {
		return nil, err
	}
	priv, ok := k.(*keyring.PrivateKey)
	if !ok {
		return nil, serrors.New("expected a private key record", "file", filename)
	}
	return priv, nil
}

// encode renders k as a record, or as a PEM block if asPEM is set.
func encode(k keyring.AsymmetricKey, asPEM bool, cfg *config.Config) ([]byte, error) {
	if asPEM {
		return keyring.EncodePEM(k, cfg.PEM.Ending())
	}
	return []byte(keyring.Encode(k)), nil
}

type outputFlags struct {
	out   string
	force bool
	pem   bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.out, "out", "", "Write the record to this file instead of standard out")
	cmd.Flags().BoolVar(&f.force, "force", false,
		"Overwrite an existing file, and allow private records on a terminal")
	cmd.Flags().BoolVar(&f.pem, "pem", false, "Write the record as a PEM block")
}

func (f *outputFlags) write(cmd *cobra.Command, k keyring.AsymmetricKey,
	cfg *config.Config) error {

	raw, err := encode(k, f.pem, cfg)
	if err != nil {
		return err
	}
	return file.Output(cmd.OutOrStdout(), f.out, raw, k.IsPrivate(), file.WithForce(f.force))
}
