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

// Package agent speaks the HTTP gateway protocol: CBOR envelopes posted to
// the query, call, and read_state endpoints of an API boundary node. All
// requests go out under the anonymous sender.
package agent

import (
	"bytes"
	"context"
	"encoding/hex"
	goerrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dotandev/canact/internal/errors"
	"github.com/dotandev/canact/internal/logger"
	"github.com/dotandev/canact/internal/principal"
	"github.com/dotandev/canact/internal/telemetry"
)

// Transport is the call surface the dispatcher needs: a read-only query and
// a state-changing update against one canister method.
type Transport interface {
	Query(ctx context.Context, canister principal.Principal, method string, arg []byte) ([]byte, error)
	Call(ctx context.Context, canister principal.Principal, method string, arg []byte) ([]byte, error)
}

// anonymousSender is the self-authenticating blob of the anonymous identity.
var anonymousSender = []byte{0x04}

// RejectError carries the canister's reject code and message so callers can
// surface them as a structured failure instead of parsing error text.
type RejectError struct {
	Code    int
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%v: reject code %d: %s", errors.ErrCallRejected, e.Code, e.Message)
}

func (e *RejectError) Unwrap() error { return errors.ErrCallRejected }

// IsReject checks if error is a canister reject
func IsReject(err error) bool {
	var rej *RejectError
	return goerrors.As(err, &rej)
}

const (
	defaultIngressExpiry = 4 * time.Minute
	defaultPollInterval  = 1 * time.Second
	defaultPollTimeout   = 2 * time.Minute
)

// Options tunes a gateway agent. Zero values fall back to defaults.
type Options struct {
	// GatewayURL is the boundary node base URL, e.g. https://icp-api.io.
	GatewayURL string
	// AuthToken, when set, is sent as a Bearer token on every request.
	AuthToken string
	// PollInterval is the delay between read_state probes for update calls.
	PollInterval time.Duration
	// PollTimeout bounds how long an update call waits for its reply.
	PollTimeout time.Duration
	// Retry overrides the transport retry behavior.
	Retry *RetryConfig
	// HTTPClient overrides the underlying client, mainly for tests.
	HTTPClient *http.Client
}

// Agent is an HTTP gateway client implementing Transport.
type Agent struct {
	endpoint     string
	retrier      *Retrier
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// authTransport is a custom HTTP RoundTripper that adds authentication headers
type authTransport struct {
	token     string
	transport http.RoundTripper
}

// RoundTrip implements http.RoundTripper interface
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		// Add Bearer token to Authorization header
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.transport.RoundTrip(req)
}

// New creates a gateway agent for the given options.
func New(opts Options) *Agent {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if opts.AuthToken != "" {
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		client = &http.Client{
			Transport: &authTransport{token: opts.AuthToken, transport: base},
			Timeout:   client.Timeout,
		}
	}

	retryCfg := DefaultRetryConfig()
	if opts.Retry != nil {
		retryCfg = *opts.Retry
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	pollTimeout := opts.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}

	if opts.AuthToken != "" {
		logger.Logger.Debug("Gateway agent initialized with authentication")
	} else {
		logger.Logger.Debug("Gateway agent initialized without authentication")
	}

	return &Agent{
		endpoint:     strings.TrimRight(opts.GatewayURL, "/"),
		retrier:      NewRetrier(retryCfg, client),
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

// queryResponse is the CBOR body of a query endpoint reply.
type queryResponse struct {
	Status        string `cbor:"status"`
	Reply         *struct {
		Arg []byte `cbor:"arg"`
	} `cbor:"reply"`
	RejectCode    uint64 `cbor:"reject_code"`
	RejectMessage string `cbor:"reject_message"`
}

// readStateResponse is the CBOR body of a read_state endpoint reply.
type readStateResponse struct {
	Certificate []byte `cbor:"certificate"`
}

// Query executes a read-only call. The reply argument bytes come back
// directly in the response body.
func (a *Agent) Query(ctx context.Context, canister principal.Principal, method string, arg []byte) ([]byte, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "agent_query")
	span.SetAttributes(
		attribute.String("canister.id", canister.String()),
		attribute.String("canister.method", method),
	)
	defer span.End()

	c := content{
		RequestType:   "query",
		Sender:        anonymousSender,
		IngressExpiry: ingressExpiry(),
		CanisterID:    canister.Raw(),
		MethodName:    method,
		Arg:           arg,
	}

	body, err := a.post(ctx, fmt.Sprintf("/api/v2/canister/%s/query", canister.String()), c)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var resp queryResponse
	if err := cbor.Unmarshal(body, &resp); err != nil {
		span.RecordError(err)
		return nil, errors.WrapUnmarshalFailed(fmt.Errorf("query response: %w", err))
	}

	switch resp.Status {
	case "replied":
		if resp.Reply == nil {
			return nil, errors.WrapUnmarshalFailed(fmt.Errorf("replied status without reply body"))
		}
		logger.Logger.Debug("Query replied", "method", method, "reply_bytes", len(resp.Reply.Arg))
		return resp.Reply.Arg, nil
	case "rejected":
		logger.Logger.Warn("Query rejected", "method", method, "code", resp.RejectCode, "message", resp.RejectMessage)
		return nil, &RejectError{Code: int(resp.RejectCode), Message: resp.RejectMessage}
	default:
		return nil, errors.WrapUnmarshalFailed(fmt.Errorf("unexpected query status %q", resp.Status))
	}
}

// Call submits an update and polls read_state until the request settles. A
// nonce makes retried submissions distinct.
func (a *Agent) Call(ctx context.Context, canister principal.Principal, method string, arg []byte) ([]byte, error) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "agent_call")
	span.SetAttributes(
		attribute.String("canister.id", canister.String()),
		attribute.String("canister.method", method),
	)
	defer span.End()

	nonce := uuid.New()
	c := content{
		RequestType:   "call",
		Sender:        anonymousSender,
		Nonce:         nonce[:],
		IngressExpiry: ingressExpiry(),
		CanisterID:    canister.Raw(),
		MethodName:    method,
		Arg:           arg,
	}
	requestID := c.RequestID()

	logger.Logger.Debug("Submitting update call",
		"canister", canister.String(),
		"method", method,
		"request_id", hex.EncodeToString(requestID[:]),
	)

	if _, err := a.post(ctx, fmt.Sprintf("/api/v2/canister/%s/call", canister.String()), c); err != nil {
		span.RecordError(err)
		return nil, err
	}

	reply, err := a.pollRequestStatus(ctx, canister, requestID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("reply.size_bytes", len(reply)))
	return reply, nil
}

// pollRequestStatus probes read_state until the request reaches a terminal
// status or the poll window closes.
func (a *Agent) pollRequestStatus(ctx context.Context, canister principal.Principal, requestID [32]byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.pollTimeout)
	defer cancel()

	statusPath := [][]byte{[]byte("request_status"), requestID[:]}

	for {
		cert, err := a.readState(ctx, canister, statusPath)
		if err != nil {
			return nil, err
		}

		status, found, err := cert.Lookup([]byte("request_status"), requestID[:], []byte("status"))
		if err != nil {
			return nil, err
		}
		if found {
			switch string(status) {
			case "replied":
				reply, ok, err := cert.Lookup([]byte("request_status"), requestID[:], []byte("reply"))
				if err != nil {
					return nil, err
				}
				if !ok {
					return nil, errors.WrapUnmarshalFailed(fmt.Errorf("replied status without reply leaf"))
				}
				return reply, nil
			case "rejected":
				code, _, err := cert.Lookup([]byte("request_status"), requestID[:], []byte("reject_code"))
				if err != nil {
					return nil, err
				}
				msg, _, err := cert.Lookup([]byte("request_status"), requestID[:], []byte("reject_message"))
				if err != nil {
					return nil, err
				}
				rejectCode, _ := decodeULEB(code)
				logger.Logger.Warn("Update call rejected", "code", rejectCode, "message", string(msg))
				return nil, &RejectError{Code: int(rejectCode), Message: string(msg)}
			case "done":
				return nil, &RejectError{Message: "call completed but the reply is no longer available"}
			case "received", "processing":
				// Keep polling.
			default:
				return nil, errors.WrapUnmarshalFailed(fmt.Errorf("unknown request status %q", string(status)))
			}
		}

		select {
		case <-ctx.Done():
			return nil, errors.WrapAgentTimeout(ctx.Err())
		case <-time.After(a.pollInterval):
		}
	}
}

// readState fetches a certificate covering the given path.
func (a *Agent) readState(ctx context.Context, canister principal.Principal, path [][]byte) (*certificate, error) {
	c := content{
		RequestType:   "read_state",
		Sender:        anonymousSender,
		IngressExpiry: ingressExpiry(),
		Paths:         [][][]byte{path},
	}

	body, err := a.post(ctx, fmt.Sprintf("/api/v2/canister/%s/read_state", canister.String()), c)
	if err != nil {
		return nil, err
	}

	var resp readStateResponse
	if err := cbor.Unmarshal(body, &resp); err != nil {
		return nil, errors.WrapUnmarshalFailed(fmt.Errorf("read_state response: %w", err))
	}
	return parseCertificate(resp.Certificate)
}

// post submits one CBOR envelope and returns the raw response body.
func (a *Agent) post(ctx context.Context, path string, c content) ([]byte, error) {
	payload, err := marshalEnvelope(c)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WrapAgentConnection(err)
	}
	req.Header.Set("Content-Type", "application/cbor")

	resp, err := a.retrier.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapAgentConnection(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Logger.Error("Gateway returned error status", "path", path, "status", resp.StatusCode)
		return nil, errors.WrapAgentConnection(fmt.Errorf("gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	return stripSelfDescribed(body), nil
}

func ingressExpiry() uint64 {
	return uint64(time.Now().Add(defaultIngressExpiry).UnixNano())
}
