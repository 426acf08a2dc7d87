// Copyright 2025 Canact Users
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/canact/internal/config"
	"github.com/dotandev/canact/internal/errors"
)

func TestResolveTargetWithInterfaceFile(t *testing.T) {
	resetFlags(t)
	didPath := filepath.Join(t.TempDir(), "chat.did")
	require.NoError(t, os.WriteFile(didPath, []byte("service : { ping : () -> (text) query }"), 0o600))
	callInterfaceFlag = didPath
	t.Cleanup(func() { callInterfaceFlag = "" })

	target, text, err := resolveTarget(context.Background(), config.DefaultConfig(), "2vxsx-fae")
	require.NoError(t, err)
	assert.Equal(t, "2vxsx-fae", target.String())
	assert.Contains(t, text, "ping")
}

func TestResolveTargetInterfaceFlagNeedsPrincipal(t *testing.T) {
	resetFlags(t)
	callInterfaceFlag = "whatever.did"
	t.Cleanup(func() { callInterfaceFlag = "" })

	_, _, err := resolveTarget(context.Background(), config.DefaultConfig(), "chat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a principal")
}

func TestResolveTargetUnknownCanister(t *testing.T) {
	resetFlags(t)
	cfg := config.DefaultConfig().WithRegistryPath(filepath.Join(t.TempDir(), "registry.db"))

	_, _, err := resolveTarget(context.Background(), cfg, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCanisterNotFound)
}
