// Copyright (c) 2026 dotandev
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

package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/canact/internal/candid"
)

var methodsCmd = &cobra.Command{
	Use:   "methods <canister>",
	Short: "List the methods a registered canister exposes",
	Long: `List every method declared in the canister's interface, with its
argument types, return types, and whether it is a query.`,
	Example: `  canact methods chat`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := openRegistry(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}

		methods := candid.ParseService(rec.InterfaceText)
		if len(methods) == 0 {
			fmt.Println("No methods found in the canister interface.")
			return nil
		}

		fmt.Printf("Methods for %s (%s):\n\n", rec.Name, rec.Principal)
		queryTag := color.New(color.FgCyan).Sprint("query")
		for _, m := range methods {
			mode := "update"
			if m.Query {
				mode = queryTag
			}
			fmt.Printf("  %-24s %-6s (%s) -> (%s)\n", m.Name, mode, m.Args, m.ReturnType)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(methodsCmd)
}
