package grpc

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	mdwlog "github.com/msto63/owsh/foundation/core/log"
	"github.com/msto63/owsh/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var (
	interceptorLogger = logging.New("grpc")
	loggerMu          sync.RWMutex
)

// SetLogger replaces the logger used by the interceptors
func SetLogger(logger *mdwlog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	interceptorLogger = logging.Wrap(logger.WithField("component", "grpc"), "grpc")
}

func getLogger() *logging.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return interceptorLogger
}

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	callerKey    contextKey = "caller"

	// RequestIDHeader carries the id of one call across the wire
	RequestIDHeader = "x-request-id"
	// CallerHeader names the program or node issuing the call
	CallerHeader = "x-ows-caller"
)

// RecoveryInterceptor turns a handler panic into codes.Internal
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				getLogger().Error("handler panicked",
					"method", info.FullMethod,
					"caller", GetCaller(ctx),
					"panic", r,
					"stack", string(debug.Stack()))
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs every served call with its caller and outcome
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		getLogger().Info("call served",
			"request_id", GetRequestID(ctx),
			"caller", GetCaller(ctx),
			"method", info.FullMethod,
			"status", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}

// MetadataInterceptor stores the request id and caller of an incoming
// call in its context. A missing request id is generated.
func MetadataInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := incoming(ctx, RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = context.WithValue(ctx, requestIDKey, requestID)
		if caller := incoming(ctx, CallerHeader); caller != "" {
			ctx = context.WithValue(ctx, callerKey, caller)
		}
		return handler(ctx, req)
	}
}

// ClientTimeoutInterceptor bounds calls that carry no deadline
func ClientTimeoutInterceptor(timeout time.Duration) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if _, ok := ctx.Deadline(); !ok && timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ClientMetadataInterceptor sends a request id and, when set, the caller
// name with every outgoing call
func ClientMetadataInterceptor(caller string) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		requestID := GetRequestID(ctx)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		kv := []string{RequestIDHeader, requestID}
		if caller != "" {
			kv = append(kv, CallerHeader, caller)
		}
		ctx = metadata.AppendToOutgoingContext(ctx, kv...)
		return invoker(ctx, method, req, reply, cc, opts...)
	}
}

// ClientLoggingInterceptor logs outgoing calls at debug level
func ClientLoggingInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)

		getLogger().Debug("call sent",
			"method", method,
			"target", cc.Target(),
			"status", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return err
	}
}

// GetRequestID returns the request id stored in ctx or sent by the peer
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return incoming(ctx, RequestIDHeader)
}

// WithRequestID sets the request id used for calls made with ctx
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetCaller returns the caller name of an incoming call, or "" when the
// peer did not send one
func GetCaller(ctx context.Context) string {
	if caller, ok := ctx.Value(callerKey).(string); ok {
		return caller
	}
	return incoming(ctx, CallerHeader)
}

func incoming(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
