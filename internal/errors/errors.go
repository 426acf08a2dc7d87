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

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for comparison with errors.Is
var (
	ErrInterfaceUnavailable = errors.New("candid interface unavailable")
	ErrCanisterNotFound     = errors.New("canister not found")
	ErrAgentConnection      = errors.New("agent connection failed")
	ErrAgentTimeout         = errors.New("agent request timed out")
	ErrCallRejected         = errors.New("canister rejected call")
	ErrDecodeFailed         = errors.New("candid decode failed")
	ErrMarshalFailed        = errors.New("failed to marshal request")
	ErrUnmarshalFailed      = errors.New("failed to unmarshal response")
	ErrInvalidPrincipal     = errors.New("invalid principal")
	ErrConfigInvalid        = errors.New("invalid configuration")
)

// Wrap functions for consistent error wrapping
func WrapInterfaceUnavailable(detail string) error {
	return fmt.Errorf("%w: %s", ErrInterfaceUnavailable, detail)
}

func WrapCanisterNotFound(canisterID string) error {
	return fmt.Errorf("%w: %s", ErrCanisterNotFound, canisterID)
}

func WrapAgentConnection(err error) error {
	return fmt.Errorf("%w: %w", ErrAgentConnection, err)
}

func WrapAgentTimeout(err error) error {
	return fmt.Errorf("%w: %w", ErrAgentTimeout, err)
}

func WrapCallRejected(code int, message string) error {
	return fmt.Errorf("%w: reject code %d: %s", ErrCallRejected, code, message)
}

func WrapDecodeFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrDecodeFailed, err)
}

func WrapMarshalFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrMarshalFailed, err)
}

func WrapUnmarshalFailed(err error) error {
	return fmt.Errorf("%w: %w", ErrUnmarshalFailed, err)
}

func WrapInvalidPrincipal(text string, err error) error {
	return fmt.Errorf("%w: %q: %w", ErrInvalidPrincipal, text, err)
}

func WrapConfigError(msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConfigInvalid, msg, err)
}

func WrapValidationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrConfigInvalid, msg)
}
