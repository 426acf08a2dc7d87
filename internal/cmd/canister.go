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
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	canisterInterfaceFlag string
	canisterNetworkFlag   string
)

var canisterCmd = &cobra.Command{
	Use:   "canister",
	Short: "Manage the local canister registry",
	Long: `Register canisters by name so calls can reference them without
repeating principals and interface files.

Available subcommands:
  add     - Register a canister with its interface text
  list    - View registered canisters
  remove  - Remove a canister from the registry`,
	Example: `  # Register a canister
  canact canister add chat u6s2n-gx777-77774-qaaba-cai --interface chat.did

  # List registered canisters
  canact canister list

  # Remove one
  canact canister remove chat`,
}

var canisterAddCmd = &cobra.Command{
	Use:   "add <name> <principal>",
	Short: "Register a canister",
	Long: `Register a canister under a short name. The interface file holds the
canister's Candid interface text; its field names are what call results
get rehydrated with. Re-adding an existing name replaces the entry.`,
	Example: `  canact canister add chat u6s2n-gx777-77774-qaaba-cai --interface chat.did
  canact canister add ledger ryjl3-tyaaa-aaaaa-aaaba-cai --interface ledger.did --canister-network local`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		interfaceText, err := os.ReadFile(canisterInterfaceFlag)
		if err != nil {
			return fmt.Errorf("failed to read interface file: %w", err)
		}

		network := canisterNetworkFlag
		if network == "" {
			network = string(cfg.Network)
		}

		store, err := openRegistry(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.Add(ctx, args[0], args[1], network, string(interfaceText))
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Printf("Registered canister %s\n", rec.Name)
		fmt.Printf("  Principal: %s\n", rec.Principal)
		fmt.Printf("  Network:   %s\n", rec.Network)
		fmt.Printf("  Interface: %d bytes\n", len(rec.InterfaceText))
		return nil
	},
}

var canisterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered canisters",
	Args:  cobra.NoArgs,
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

		canisters, err := store.List(ctx)
		if err != nil {
			return err
		}
		if len(canisters) == 0 {
			fmt.Println("No canisters registered.")
			return nil
		}

		fmt.Printf("Registered canisters (%d):\n\n", len(canisters))
		fmt.Printf("%-16s %-30s %-10s %-20s\n", "Name", "Principal", "Network", "Last Used")
		fmt.Println("--------------------------------------------------------------------------------")
		for _, c := range canisters {
			fmt.Printf("%-16s %-30s %-10s %-20s\n",
				c.Name, c.Principal, c.Network, c.LastUsedAt.Format(time.RFC3339))
		}
		return nil
	},
}

var canisterRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a canister from the registry",
	Args:  cobra.ExactArgs(1),
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

		if err := store.Remove(ctx, args[0]); err != nil {
			return err
		}

		fmt.Printf("Removed canister: %s\n", args[0])
		return nil
	},
}

func init() {
	canisterAddCmd.Flags().StringVarP(&canisterInterfaceFlag, "interface", "i", "", "Path to the Candid interface file (required)")
	canisterAddCmd.Flags().StringVar(&canisterNetworkFlag, "canister-network", "", "Network the canister lives on (defaults to the configured network)")
	_ = canisterAddCmd.MarkFlagRequired("interface")

	canisterCmd.AddCommand(canisterAddCmd)
	canisterCmd.AddCommand(canisterListCmd)
	canisterCmd.AddCommand(canisterRemoveCmd)
	rootCmd.AddCommand(canisterCmd)
}
