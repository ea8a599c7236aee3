// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/AccelByte/extend-escape-room/pkg/authority"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// AuthorityServer serves the local authority's /api endpoints so network
// mode clients can play without a remote game server.
type AuthorityServer struct {
	server    *http.Server
	listener  net.Listener
	port      int
	authority *authority.Authority
}

func NewAuthorityServer(port int, a *authority.Authority) *AuthorityServer {
	return &AuthorityServer{
		port:      port,
		authority: a,
	}
}

// Setup builds the HTTP server and binds the port, so a port clash
// surfaces before Start.
func (s *AuthorityServer) Setup() error {
	handler := otelhttp.NewHandler(authority.NewHandler(s.authority), "authority")

	s.server = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}
	s.listener = lis
	return nil
}

// Addr returns the bound address.
func (s *AuthorityServer) Addr() string {
	return s.listener.Addr().String()
}

// Start serves requests in the background.
func (s *AuthorityServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("authority server listening on %s", s.listener.Addr())
		if err := s.server.Serve(s.listener); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("authority server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the authority server.
func (s *AuthorityServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down authority server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("authority server stopped")
	return nil
}
