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

// Command cck manages a personal keyring.
package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cckit/cck/cck/cert"
	"github.com/cckit/cck/cck/config"
	"github.com/cckit/cck/cck/key"
	"github.com/cckit/cck/cck/message"
	"github.com/cckit/cck/cck/ring"
	"github.com/cckit/cck/cck/user"
	"github.com/cckit/cck/pkg/log"
	"github.com/cckit/cck/private/app/command"
	"github.com/cckit/cck/private/app/launcher"
)

func main() {
	defer log.HandlePanic()
	var cfg config.Config
	app := &launcher.Application{
		TOMLConfig: &cfg,
		ShortName:  "Personal keyring",
	}
	newRoot(app, &cfg, filepath.Base(os.Args[0]))
	app.Run()
}

func newRoot(app *launcher.Application, cfg *config.Config, executable string) *cobra.Command {
	cmd := app.Command(executable)
	cmd.PersistentFlags().String("ring", "", "Path of the ring database")
	app.BindFlag("ring.connection", cmd.PersistentFlags().Lookup("ring"))

	cmd.AddCommand(
		command.NewCompletion(cmd),
		newSample(cmd, cfg),
		key.Cmd(cmd, cfg),
		cert.Cmd(cmd),
		user.Cmd(cmd, cfg),
		ring.Cmd(cmd, cfg),
		message.Cmd(cmd, cfg),
	)
	return cmd
}
