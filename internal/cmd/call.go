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
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dotandev/canact/internal/actor"
	"github.com/dotandev/canact/internal/agent"
	"github.com/dotandev/canact/internal/config"
	"github.com/dotandev/canact/internal/principal"
	"github.com/dotandev/canact/internal/value"
)

var callInterfaceFlag string

var callCmd = &cobra.Command{
	Use:   "call <canister> <method> [json-args]",
	Short: "Call a canister method and print the normalized result",
	Long: `Call a method on a registered canister.

The canister can be referenced by its registered name or its principal.
Arguments, when given, are a JSON array with one element per Candid
argument. The reply is decoded against the canister's interface, field
hashes are rewritten to names, and the result is printed as JSON.

Query methods go through the fast read path; everything else is submitted
as an update call and polled until the gateway certifies a reply.`,
	Example: `  # Call a zero-argument method
  canact call chat login

  # Pass arguments as a JSON array
  canact call chat add_contact '["alice", {"age": 30}]'

  # Call by principal instead of registered name
  canact call u6s2n-gx777-77774-qaaba-cai login

  # Call an unregistered canister with an explicit interface file
  canact call u6s2n-gx777-77774-qaaba-cai login --interface chat.did`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, cmdArgs []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		target, interfaceText, err := resolveTarget(ctx, cfg, cmdArgs[0])
		if err != nil {
			return err
		}

		var callArgs []value.Value
		if len(cmdArgs) == 3 {
			callArgs, err = value.FromJSON([]byte(cmdArgs[2]))
			if err != nil {
				return fmt.Errorf("invalid arguments: %w", err)
			}
		}

		transport := agent.New(agent.Options{
			GatewayURL: cfg.GatewayURL,
			AuthToken:  cfg.AuthToken,
		})

		act, err := actor.New(target, interfaceText, transport)
		if err != nil {
			return err
		}

		result, err := act.CallMethod(ctx, cmdArgs[1], callArgs)
		if err != nil {
			return err
		}

		return printResult(result)
	},
}

// resolveTarget turns the canister argument into a principal and interface
// text. With --interface the argument must be a principal and the registry is
// bypassed; otherwise the registry resolves both.
func resolveTarget(ctx context.Context, cfg *config.Config, canisterArg string) (principal.Principal, string, error) {
	if callInterfaceFlag != "" {
		target, err := principal.FromText(canisterArg)
		if err != nil {
			return principal.Principal{}, "", fmt.Errorf("--interface requires a principal, got %q: %w", canisterArg, err)
		}
		text, err := os.ReadFile(callInterfaceFlag)
		if err != nil {
			return principal.Principal{}, "", fmt.Errorf("failed to read interface file: %w", err)
		}
		return target, string(text), nil
	}

	store, err := openRegistry(cfg)
	if err != nil {
		return principal.Principal{}, "", err
	}
	defer store.Close()

	rec, err := store.Get(ctx, canisterArg)
	if err != nil {
		return principal.Principal{}, "", err
	}
	target, err := principal.FromText(rec.Principal)
	if err != nil {
		return principal.Principal{}, "", err
	}
	return target, rec.InterfaceText, nil
}

// printResult renders one call outcome. Rejections still return an error so
// the process exits non-zero.
func printResult(result *actor.Result) error {
	switch result.Kind {
	case actor.ResultError:
		color.New(color.FgRed).Printf("Call rejected (code %d)\n", result.Failure.Code)
		return fmt.Errorf("canister rejected the call: %s", result.Failure.Message)

	case actor.ResultRaw:
		color.New(color.FgYellow).Printf("Reply could not be decoded, raw bytes (%d):\n", len(result.Raw))
		fmt.Println(hex.EncodeToString(result.Raw))
		return nil

	default:
		for _, v := range result.Values {
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		}
		return nil
	}
}

func init() {
	callCmd.Flags().StringVarP(&callInterfaceFlag, "interface", "i", "", "Candid interface file for an unregistered canister")
	rootCmd.AddCommand(callCmd)
}
