package grpc

import (
	"context"

	"github.com/dmitrijs2005/cipher/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var kindCodes = map[common.Kind]codes.Code{
	common.KindInvalidCredentials:         codes.Unauthenticated,
	common.KindInvalidSecondFactor:        codes.Unauthenticated,
	common.KindSecondFactorAlreadyEnabled: codes.FailedPrecondition,
	common.KindSecondFactorNotEnabled:     codes.FailedPrecondition,
	common.KindSecondFactorNotInitialized: codes.FailedPrecondition,
	common.KindDenied:                     codes.PermissionDenied,
	common.KindNotFound:                   codes.NotFound,
	common.KindConflict:                   codes.AlreadyExists,
	common.KindValidationFailed:           codes.InvalidArgument,
	common.KindUnauthenticated:            codes.Unauthenticated,
	common.KindInternal:                   codes.Internal,
}

// toStatus converts a service error into a gRPC status carrying the error
// kind as an ErrorInfo reason.
func toStatus(err error) *status.Status {
	kind := common.KindOf(err)

	code, ok := kindCodes[kind]
	if !ok {
		code = codes.Internal
	}

	st := status.New(code, common.MessageOf(err))
	if withInfo, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: string(kind), Domain: common.ErrorDomain}); derr == nil {
		st = withInfo
	}
	return st
}

// errorInterceptor maps returned errors to statuses. Internal failures are
// logged with the original error; the caller only sees a generic message.
func (s *GRPCServer) errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err == nil {
		return resp, nil
	}

	if _, ok := status.FromError(err); ok {
		return nil, err
	}

	st := toStatus(err)
	if st.Code() == codes.Internal {
		s.logger.Error(ctx, "internal error", "method", info.FullMethod, "error", err)
	} else {
		s.logger.Warn(ctx, "request failed", "method", info.FullMethod, "kind", string(common.KindOf(err)))
	}

	return nil, st.Err()
}
