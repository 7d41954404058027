package grpc

import (
	"context"
	"net"
	"strings"

	"github.com/dmitrijs2005/cipher/internal/api"
	"github.com/dmitrijs2005/cipher/internal/common"
	"github.com/dmitrijs2005/cipher/internal/server/auth"
	"github.com/dmitrijs2005/cipher/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

type ctxKey string

const (
	claimsKey ctxKey = "claims"
	tokenKey  ctxKey = "token"
)

// publicMethods need no token at all; pendingMethods accept only a pending
// token. Every other method requires a full token.
var (
	publicMethods = map[string]bool{
		api.MethodPing:     true,
		api.MethodRegister: true,
		api.MethodLogin:    true,
	}
	pendingMethods = map[string]bool{
		api.MethodCompleteSecondFactor: true,
	}
)

// accessTokenInterceptor records request provenance and enforces the token
// scope of each method.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	ctx = services.WithRequestInfo(ctx, requestInfo(ctx))

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := tokenFromMetadata(ctx)
	if len(accessToken) == 0 {
		return nil, common.ErrorUnauthorized
	}

	verify := s.tokens.VerifyFull
	if pendingMethods[info.FullMethod] {
		verify = s.tokens.VerifyPending
	}

	claims, err := verify(accessToken)
	if err != nil {
		return nil, err
	}

	ctx = context.WithValue(ctx, claimsKey, claims)
	ctx = context.WithValue(ctx, tokenKey, accessToken)

	return handler(ctx, req)
}

func tokenFromMetadata(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			return strings.TrimPrefix(values[0], "Bearer ")
		}
	}
	return ""
}

func requestInfo(ctx context.Context) services.RequestInfo {
	var info services.RequestInfo

	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		addr := p.Addr.String()
		if host, _, err := net.SplitHostPort(addr); err == nil {
			addr = host
		}
		info.IP = addr
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.UserAgentHeaderName); len(values) > 0 {
			info.UserAgent = values[0]
		}
	}

	return info
}

func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

// accountID returns the authenticated subject. Handlers behind the
// interceptor always have one.
func accountID(ctx context.Context) string {
	if c := claimsFrom(ctx); c != nil {
		return c.AccountID()
	}
	return ""
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
