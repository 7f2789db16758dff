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
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matrixorigin/mo-vexec/pkg/sql/plan/function"
)

func functionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the registered scalar functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listFunctions(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func listFunctions(ctx context.Context, w io.Writer) error {
	f := function.Instance()
	for _, name := range f.FunctionNames() {
		features, err := f.GetFeatures(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-24s %s\n", name, describeFeatures(features))
	}
	return nil
}

func describeFeatures(f function.FunctionFeatures) string {
	var parts []string
	switch {
	case f.MaxArgs == function.VariadicArgs:
		parts = append(parts, fmt.Sprintf("args=%d+", f.MinArgs))
	case f.MinArgs == f.MaxArgs:
		parts = append(parts, fmt.Sprintf("args=%d", f.MinArgs))
	default:
		parts = append(parts, fmt.Sprintf("args=%d..%d", f.MinArgs, f.MaxArgs))
	}
	if f.Deterministic {
		parts = append(parts, "deterministic")
	}
	if f.IsBoolFunc {
		parts = append(parts, "bool")
	}
	if f.HasMonotonicity {
		parts = append(parts, "monotonic")
	}
	if f.NegativeFunction != "" {
		parts = append(parts, "negation="+f.NegativeFunction)
	}
	return strings.Join(parts, " ")
}
