// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/canact/internal/actor"
	"github.com/dotandev/canact/internal/config"
	"github.com/dotandev/canact/internal/value"
)

func resetFlags(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	GatewayURLFlag = ""
	NetworkFlag = ""
	AuthTokenFlag = ""
	t.Cleanup(func() {
		GatewayURLFlag = ""
		NetworkFlag = ""
		AuthTokenFlag = ""
	})
}

func TestLoadConfigNetworkFlagSelectsGateway(t *testing.T) {
	resetFlags(t)
	NetworkFlag = "local"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.NetworkLocal, cfg.Network)
	assert.Equal(t, config.LocalGatewayURL, cfg.GatewayURL)
}

func TestLoadConfigGatewayFlagWinsOverNetwork(t *testing.T) {
	resetFlags(t)
	NetworkFlag = "local"
	GatewayURLFlag = "http://gateway.example:9999"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://gateway.example:9999", cfg.GatewayURL)
}

func TestLoadConfigAuthTokenFlag(t *testing.T) {
	resetFlags(t)
	AuthTokenFlag = "sekrit"

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sekrit", cfg.AuthToken)
}

func TestPrintResultRejectionIsAnError(t *testing.T) {
	err := printResult(&actor.Result{
		Kind:    actor.ResultError,
		Failure: &actor.CallFailure{Code: 4, Message: "method does not exist"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method does not exist")
}

func TestPrintResultValueAndRawSucceed(t *testing.T) {
	require.NoError(t, printResult(&actor.Result{
		Kind:   actor.ResultValue,
		Values: []value.Value{value.Text("hello")},
	}))
	require.NoError(t, printResult(&actor.Result{
		Kind: actor.ResultRaw,
		Raw:  []byte{0xDE, 0xAD},
	}))
}
