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

package daemon

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dotandev/canact/internal/actor"
	"github.com/dotandev/canact/internal/agent"
	"github.com/dotandev/canact/internal/candid"
	"github.com/dotandev/canact/internal/logger"
	"github.com/dotandev/canact/internal/principal"
	"github.com/dotandev/canact/internal/registry"
	"github.com/dotandev/canact/internal/telemetry"
	"github.com/dotandev/canact/internal/value"
)

// Server represents the JSON-RPC daemon server
type Server struct {
	store     *registry.Store
	transport agent.Transport
	authToken string
}

// Config holds daemon configuration
type Config struct {
	Port       string
	GatewayURL string
	AuthToken  string
}

// NewServer creates a new JSON-RPC server backed by the canister registry.
func NewServer(config Config, store *registry.Store) *Server {
	return &Server{
		store:     store,
		transport: agent.New(agent.Options{GatewayURL: config.GatewayURL}),
		authToken: config.AuthToken,
	}
}

// NewServerWithTransport wires an explicit transport, mainly for tests.
func NewServerWithTransport(config Config, store *registry.Store, transport agent.Transport) *Server {
	return &Server{
		store:     store,
		transport: transport,
		authToken: config.AuthToken,
	}
}

// authenticate validates the authorization token
func (s *Server) authenticate(r *http.Request) bool {
	if s.authToken == "" {
		return true // No auth required
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return false
	}

	// Support "Bearer <token>" format
	if strings.HasPrefix(auth, "Bearer ") {
		token := strings.TrimPrefix(auth, "Bearer ")
		return token == s.authToken
	}

	return auth == s.authToken
}

// CallRequest represents the Actor.Call RPC request.
type CallRequest struct {
	// Canister is a registered name or a principal text.
	Canister string `json:"canister"`
	Method   string `json:"method"`
	// Args is a JSON array of argument values.
	Args json.RawMessage `json:"args,omitempty"`
}

// CallResponse represents the Actor.Call RPC response. Kind selects which of
// the three payload fields carries the outcome.
type CallResponse struct {
	Canister string             `json:"canister"`
	Method   string             `json:"method"`
	Kind     string             `json:"kind"`
	Values   []value.Value      `json:"values,omitempty"`
	Error    *actor.CallFailure `json:"error,omitempty"`
	Raw      string             `json:"raw,omitempty"` // base64 of undecoded reply bytes
}

// MethodsRequest represents the Actor.Methods RPC request.
type MethodsRequest struct {
	Canister string `json:"canister"`
}

// MethodsResponse represents the Actor.Methods RPC response.
type MethodsResponse struct {
	Canister string          `json:"canister"`
	Methods  []candid.Method `json:"methods"`
}

// actorFor builds an actor for a registered canister.
func (s *Server) actorFor(ctx context.Context, nameOrPrincipal string) (*actor.Actor, *registry.Canister, error) {
	c, err := s.store.Get(ctx, nameOrPrincipal)
	if err != nil {
		return nil, nil, err
	}
	p, err := principal.FromText(c.Principal)
	if err != nil {
		return nil, nil, err
	}
	a, err := actor.New(p, c.InterfaceText, s.transport)
	if err != nil {
		return nil, nil, err
	}
	return a, c, nil
}

// Call handles Actor.Call RPC calls
func (s *Server) Call(r *http.Request, req *CallRequest, resp *CallResponse) error {
	if !s.authenticate(r) {
		return fmt.Errorf("unauthorized")
	}

	ctx := r.Context()
	tracer := telemetry.GetTracer()
	ctx, span := tracer.Start(ctx, "rpc_actor_call")
	span.SetAttributes(
		attribute.String("canister", req.Canister),
		attribute.String("method", req.Method),
	)
	defer span.End()

	logger.Logger.Info("Processing Actor.Call RPC", "canister", req.Canister, "method", req.Method)

	a, c, err := s.actorFor(ctx, req.Canister)
	if err != nil {
		span.RecordError(err)
		return err
	}

	var args []value.Value
	if len(req.Args) > 0 {
		args, err = value.FromJSON(req.Args)
		if err != nil {
			span.RecordError(err)
			return err
		}
	}

	result, err := a.CallMethod(ctx, req.Method, args)
	if err != nil {
		span.RecordError(err)
		return err
	}

	*resp = CallResponse{
		Canister: c.Name,
		Method:   req.Method,
		Kind:     result.Kind.String(),
	}
	switch result.Kind {
	case actor.ResultValue:
		resp.Values = result.Values
	case actor.ResultError:
		resp.Error = result.Failure
	case actor.ResultRaw:
		resp.Raw = base64.StdEncoding.EncodeToString(result.Raw)
	}

	return nil
}

// Methods handles Actor.Methods RPC calls
func (s *Server) Methods(r *http.Request, req *MethodsRequest, resp *MethodsResponse) error {
	if !s.authenticate(r) {
		return fmt.Errorf("unauthorized")
	}

	logger.Logger.Info("Processing Actor.Methods RPC", "canister", req.Canister)

	a, c, err := s.actorFor(r.Context(), req.Canister)
	if err != nil {
		return err
	}

	*resp = MethodsResponse{
		Canister: c.Name,
		Methods:  a.Methods(),
	}
	return nil
}

// Handler builds the HTTP handler exposing /rpc and /health.
func (s *Server) Handler() (http.Handler, error) {
	server := rpc.NewServer()
	server.RegisterCodec(json2.NewCodec(), "application/json")
	server.RegisterCodec(json2.NewCodec(), "application/json;charset=UTF-8")

	if err := server.RegisterService(s, "Actor"); err != nil {
		return nil, fmt.Errorf("failed to register service: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/rpc", server)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	return mux, nil
}

// Start starts the JSON-RPC server
func (s *Server) Start(ctx context.Context, port string) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	logger.Logger.Info("Starting JSON-RPC server", "port", port)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	// Start server in goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Error("Server failed", "error", err)
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()
	logger.Logger.Info("Shutting down JSON-RPC server")
	return srv.Shutdown(context.Background())
}
