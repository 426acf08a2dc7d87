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

// Package actor dispatches method calls against one canister: it decides
// query vs update from the declared signature, moves bytes through the
// transport, decodes the reply, and runs the result through the field-name
// recovery pipeline.
package actor

import (
	"context"
	goerrors "errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dotandev/canact/internal/agent"
	"github.com/dotandev/canact/internal/candid"
	"github.com/dotandev/canact/internal/errors"
	"github.com/dotandev/canact/internal/logger"
	"github.com/dotandev/canact/internal/principal"
	"github.com/dotandev/canact/internal/telemetry"
	"github.com/dotandev/canact/internal/value"
)

// Actor binds one canister's interface text to a transport. The field table
// is built once here and shared read-only by every call.
type Actor struct {
	canister  principal.Principal
	source    string
	table     candid.FieldTable
	transport agent.Transport
}

// ResultKind distinguishes the three outcome shapes of a call.
type ResultKind int

const (
	// ResultValue carries normalized reply values.
	ResultValue ResultKind = iota
	// ResultError carries a structured rejection from the canister.
	ResultError
	// ResultRaw carries reply bytes that no decode path could interpret.
	ResultRaw
)

func (k ResultKind) String() string {
	switch k {
	case ResultValue:
		return "value"
	case ResultError:
		return "error"
	case ResultRaw:
		return "raw"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// CallFailure is the structured error shape of a rejected call.
type CallFailure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Result is the outcome of one method call. Exactly one of Values, Failure,
// or Raw is meaningful, selected by Kind.
type Result struct {
	Kind    ResultKind
	Values  []value.Value
	Failure *CallFailure
	Raw     []byte
}

// New builds an actor from the canister identity and its interface text.
// Empty interface text is a construction failure: every later rehydration
// would silently return hash-keyed garbage, which is worse than failing
// here.
func New(canister principal.Principal, interfaceSource string, transport agent.Transport) (*Actor, error) {
	if strings.TrimSpace(interfaceSource) == "" {
		return nil, errors.WrapInterfaceUnavailable(fmt.Sprintf("canister %s has no interface text", canister.String()))
	}

	table := candid.BuildFieldTable(interfaceSource)
	logger.Logger.Debug("Actor constructed",
		"canister", canister.String(),
		"field_names", len(table),
	)

	return &Actor{
		canister:  canister,
		source:    interfaceSource,
		table:     table,
		transport: transport,
	}, nil
}

// Canister returns the target canister identity.
func (a *Actor) Canister() principal.Principal { return a.canister }

// FieldTable exposes the hash table built at construction.
func (a *Actor) FieldTable() candid.FieldTable { return a.table }

// Methods lists every method declared in the service block of the interface
// text.
func (a *Actor) Methods() []candid.Method {
	return candid.ParseService(a.source)
}

// CallMethod invokes one method with already-modeled argument values.
//
// The reply bytes run through the decode fallback chain: typed decode
// against the declared return type, then the permissive two-armed ok/err
// probe when the typed decode reports a schema mismatch, then the raw bytes
// verbatim when nothing decodes. Decoded values are normalized in a fixed
// order: rehydration first (the later stages key on names, not hashes),
// then unit-variant collapsing, then the blob and principal rewrites.
func (a *Actor) CallMethod(ctx context.Context, method string, args []value.Value) (*Result, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "actor_call_method")
	span.SetAttributes(
		attribute.String("canister.id", a.canister.String()),
		attribute.String("canister.method", method),
	)
	defer span.End()

	sig, declared := candid.FindSignature(a.source, method)
	query := declared && sig.Query
	span.SetAttributes(attribute.Bool("call.query", query))

	argBytes, err := candid.EncodeArgs(args)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	logger.Logger.Debug("Dispatching call",
		"canister", a.canister.String(),
		"method", method,
		"query", query,
		"declared", declared,
	)

	var raw []byte
	if query {
		raw, err = a.transport.Query(ctx, a.canister, method, argBytes)
	} else {
		raw, err = a.transport.Call(ctx, a.canister, method, argBytes)
	}
	if err != nil {
		var rej *agent.RejectError
		if goerrors.As(err, &rej) {
			logger.Logger.Info("Call rejected", "method", method, "code", rej.Code)
			return &Result{
				Kind:    ResultError,
				Failure: &CallFailure{Code: rej.Code, Message: rej.Message},
			}, nil
		}
		span.RecordError(err)
		return nil, err
	}

	vals, decoded := a.decodeReply(raw, sig, declared, method)
	if !decoded {
		logger.Logger.Warn("Reply bytes did not decode, returning them verbatim",
			"method", method,
			"bytes", len(raw),
		)
		return &Result{Kind: ResultRaw, Raw: raw}, nil
	}

	normalized := make([]value.Value, len(vals))
	for i, v := range vals {
		normalized[i] = a.normalize(v)
	}

	logger.Logger.Debug("Call completed", "method", method, "values", len(normalized))
	return &Result{Kind: ResultValue, Values: normalized}, nil
}

// decodeReply runs the fallback chain over the reply bytes.
func (a *Actor) decodeReply(raw []byte, sig candid.Signature, declared bool, method string) ([]value.Value, bool) {
	if declared && strings.TrimSpace(sig.ReturnType) != "" {
		vals, err := candid.DecodeWithType(raw, sig.ReturnType)
		if err == nil {
			return vals, true
		}
		if candid.IsSchemaMismatch(err) {
			logger.Logger.Debug("Typed decode hit a schema mismatch, probing ok/err shape",
				"method", method,
				"error", err,
			)
			if vals, probeErr := candid.ProbeResult(raw); probeErr == nil {
				return vals, true
			}
		}
		return nil, false
	}

	// No declared return type to check against: decode generically.
	vals, err := candid.Decode(raw)
	if err != nil {
		return nil, false
	}
	return vals, true
}

// normalize applies the recovery pipeline to one decoded value.
func (a *Actor) normalize(v value.Value) value.Value {
	out := value.Rehydrate(v, a.table)
	out = value.CollapseUnitVariants(out)
	out = value.SubaccountsToHex(out)
	out = value.PrincipalsToText(out)
	return out
}
