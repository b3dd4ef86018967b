package rpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/owsh/foundation/core/error"
)

// ErrNotConnected is returned by Client operations that need an open
// connection
var ErrNotConnected = mdwerror.New("Not connected!").WithCode(mdwerror.CodeOWSNotConnected)

var toGRPC = map[mdwerror.Code]codes.Code{
	mdwerror.CodeOWSRouting:      codes.FailedPrecondition,
	mdwerror.CodeOWSNode:         codes.NotFound,
	mdwerror.CodeOWSJob:          codes.Aborted,
	mdwerror.CodeOWSProcessing:   codes.Internal,
	mdwerror.CodeOWSParse:        codes.InvalidArgument,
	mdwerror.CodeOWSNotConnected: codes.Unavailable,
}

// fromGRPC is used when a status carries no OWS code detail
var fromGRPC = map[codes.Code]mdwerror.Code{
	codes.FailedPrecondition: mdwerror.CodeOWSRouting,
	codes.NotFound:           mdwerror.CodeOWSNode,
	codes.Aborted:            mdwerror.CodeOWSJob,
	codes.Internal:           mdwerror.CodeOWSProcessing,
	codes.InvalidArgument:    mdwerror.CodeOWSParse,
	codes.Unavailable:        mdwerror.CodeConnectionFailed,
	codes.DeadlineExceeded:   mdwerror.CodeTimeout,
	codes.Canceled:           mdwerror.CodeTimeout,
}

// toStatus converts a node-side error into a gRPC status error carrying
// the OWS code as a detail
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	code := mdwerror.GetCode(err)
	grpcCode, ok := toGRPC[code]
	if !ok {
		grpcCode = codes.Unknown
	}

	st := status.New(grpcCode, message(err))
	detail, derr := structpb.NewStruct(map[string]interface{}{"code": code.String()})
	if derr == nil {
		if withDetail, werr := st.WithDetails(detail); werr == nil {
			st = withDetail
		}
	}
	return st.Err()
}

// fromStatus converts an error returned by a gRPC call into a coded error
func fromStatus(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return mdwerror.Wrap(err, "transport failure").WithCode(mdwerror.CodeConnectionFailed)
	}

	code, found := mdwerror.CodeUnknown, false
	for _, d := range st.Details() {
		if s, ok := d.(*structpb.Struct); ok {
			if v := s.GetFields()["code"].GetStringValue(); v != "" {
				code, found = mdwerror.Code(v), true
				break
			}
		}
	}
	if !found {
		if c, ok := fromGRPC[st.Code()]; ok {
			code = c
		}
	}

	return mdwerror.New(st.Message()).
		WithCode(code).
		WithDetail("grpc_code", st.Code().String())
}

// message returns the innermost text of a coded error, or err.Error()
func message(err error) string {
	var e *mdwerror.Error
	if errors.As(err, &e) && e.Unwrap() == nil {
		return e.Message()
	}
	return err.Error()
}
