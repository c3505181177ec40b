// Copyright (c) 2026 Sheetdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package interceptor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const grpcAuthorizationKey = "authorization"

// UnaryClientInterceptor applies the pipeline to unary gRPC calls.
func (p *Pipeline) UnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx, attached := p.outgoingContext(ctx)
		err := invoker(ctx, method, req, reply, cc, opts...)
		if err != nil {
			p.handleCode(status.Code(err), attached, method)
		}
		return err
	}
}

// StreamClientInterceptor applies the pipeline to streaming gRPC calls.
// Failures surfacing later on RecvMsg are handled once per stream.
func (p *Pipeline) StreamClientInterceptor() grpc.StreamClientInterceptor {
	return func(ctx context.Context, desc *grpc.StreamDesc, cc *grpc.ClientConn, method string, streamer grpc.Streamer, opts ...grpc.CallOption) (grpc.ClientStream, error) {
		ctx, attached := p.outgoingContext(ctx)
		cs, err := streamer(ctx, desc, cc, method, opts...)
		if err != nil {
			p.handleCode(status.Code(err), attached, method)
			return nil, err
		}
		return &authStream{ClientStream: cs, p: p, attached: attached, method: method}, nil
	}
}

func (p *Pipeline) outgoingContext(ctx context.Context) (context.Context, bool) {
	if md, ok := metadata.FromOutgoingContext(ctx); ok && len(md.Get(grpcAuthorizationKey)) > 0 {
		return ctx, false
	}
	token, ok := p.token()
	if !ok {
		return ctx, false
	}
	return metadata.AppendToOutgoingContext(ctx, grpcAuthorizationKey, "Bearer "+token), true
}

func (p *Pipeline) handleCode(code codes.Code, attached bool, method string) {
	switch code {
	case codes.Unauthenticated:
		p.handleStatus(http.StatusUnauthorized, attached, method)
	case codes.PermissionDenied:
		p.handleStatus(http.StatusForbidden, attached, method)
	}
}

type authStream struct {
	grpc.ClientStream
	p        *Pipeline
	attached bool
	method   string
	once     sync.Once
}

func (s *authStream) RecvMsg(m any) error {
	err := s.ClientStream.RecvMsg(m)
	if err != nil && !errors.Is(err, io.EOF) {
		s.once.Do(func() { s.p.handleCode(status.Code(err), s.attached, s.method) })
	}
	return err
}
