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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/private/app/command"
)

func newSample(pather command.Pather, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Display sample files",
	}
	joined := command.Join(pather, cmd)
	cmd.AddCommand(&cobra.Command{
		Use:     "config",
		Short:   "Display a sample configuration file",
		Example: fmt.Sprintf("  %s config > cck.toml", joined.CommandPath()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var sample config.Config
			sample.Sample(cmd.OutOrStdout(), nil, nil)
			return nil
		},
	})
	return cmd
}
