// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matrixorigin/mo-vexec/pkg/config"
	"github.com/matrixorigin/mo-vexec/pkg/logutil"
)

type options struct {
	configFile string
	cfg        *config.Config
}

func rootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "mo-vexec",
		Short:         "Vectorized execution core tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "cfg", "", "toml configuration, defaults are used when empty")

	cmd.AddCommand(
		functionsCommand(),
		benchCommand(opts),
		configCommand(opts),
	)
	return cmd
}

func (opts *options) load() (err error) {
	if opts.configFile == "" {
		opts.cfg = config.NewDefaultConfig()
	} else if opts.cfg, err = config.LoadConfig(opts.configFile); err != nil {
		return err
	}
	logutil.SetupMOLogger(&opts.cfg.Log)
	return nil
}

func main() {
	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
