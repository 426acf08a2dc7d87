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
	"github.com/spf13/cobra"

	"github.com/dotandev/canact/internal/config"
	"github.com/dotandev/canact/internal/logger"
	"github.com/dotandev/canact/internal/registry"
	"github.com/dotandev/canact/internal/updater"
)

// Global flag variables
var (
	GatewayURLFlag string
	NetworkFlag    string
	AuthTokenFlag  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "canact",
	Short: "Canister actor client with field-name recovery",
	Long: `Canact talks to Internet Computer canisters from the command line and
recovers human-readable field names in call results.

Candid replies carry record fields and variant arms as 32-bit hashes. Canact
rebuilds the hash-to-name table from the canister's interface text and
rewrites every reply so you see names, collapsed unit variants, hex-encoded
subaccounts, and textual principals instead of raw wire shapes.

Examples:
  canact canister add chat u6s2n-gx777-77774-qaaba-cai --interface chat.did
  canact methods chat                        List the canister's methods
  canact call chat login                     Call a method and print the result
  canact call chat add_contact '["alice"]'   Pass JSON arguments
  canact daemon --port 8080                  Serve calls over JSON-RPC

Get started with 'canact canister add --help'.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Check for updates asynchronously (non-blocking)
		checkForUpdatesAsync()
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// checkForUpdatesAsync runs the update check in a goroutine to not block CLI startup
func checkForUpdatesAsync() {
	go func() {
		checker := updater.NewChecker(Version)
		checker.CheckForUpdates()
	}()
}

// loadConfig resolves the effective configuration: file, environment, then
// command-line flags, most specific last.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if NetworkFlag != "" {
		cfg.Network = config.Network(NetworkFlag)
		cfg.GatewayURL = cfg.NetworkURL()
	}
	if GatewayURLFlag != "" {
		cfg.GatewayURL = GatewayURLFlag
	}
	if AuthTokenFlag != "" {
		cfg.AuthToken = AuthTokenFlag
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.SetLevel(logger.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

// openRegistry opens the canister registry configured for this run.
func openRegistry(cfg *config.Config) (*registry.Store, error) {
	if cfg.RegistryPath != "" {
		return registry.NewStoreAt(cfg.RegistryPath)
	}
	return registry.NewStore()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&GatewayURLFlag,
		"gateway-url",
		"",
		"Override the API gateway URL",
	)

	rootCmd.PersistentFlags().StringVar(
		&NetworkFlag,
		"network",
		"",
		"Target network: mainnet or local",
	)

	rootCmd.PersistentFlags().StringVar(
		&AuthTokenFlag,
		"token",
		"",
		"Bearer token sent to the gateway",
	)
}
