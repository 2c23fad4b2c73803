package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AdminServer is the bridge's control-plane RPC surface: liveness, endpoint
// introspection, and pause/resume directives that let an operator suspend
// or restart a sink endpoint's Kafka consumption independently of the
// AMQP-side credit signal that drives the same pause/resume path
// internally.
type AdminServer interface {
	Ping(context.Context, *PingRequest) (*PingReply, error)
	ListEndpoints(context.Context, *ListEndpointsRequest) (*ListEndpointsReply, error)
	Pause(context.Context, *PauseRequest) (*PauseReply, error)
	Resume(context.Context, *ResumeRequest) (*ResumeReply, error)
}

type UnimplementedAdminServer struct{}

func (UnimplementedAdminServer) Ping(context.Context, *PingRequest) (*PingReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedAdminServer) ListEndpoints(context.Context, *ListEndpointsRequest) (*ListEndpointsReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListEndpoints not implemented")
}
func (UnimplementedAdminServer) Pause(context.Context, *PauseRequest) (*PauseReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Pause not implemented")
}
func (UnimplementedAdminServer) Resume(context.Context, *ResumeRequest) (*ResumeReply, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Resume not implemented")
}

const (
	adminPingFullMethodName          = "/bridge.v1.Admin/Ping"
	adminListEndpointsFullMethodName = "/bridge.v1.Admin/ListEndpoints"
	adminPauseFullMethodName         = "/bridge.v1.Admin/Pause"
	adminResumeFullMethodName        = "/bridge.v1.Admin/Resume"
)

func RegisterAdminServer(s grpc.ServiceRegistrar, srv AdminServer) {
	s.RegisterService(&adminServiceDesc, srv)
}

func _Admin_Ping_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: adminPingFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).Ping(ctx, req.(*PingRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_ListEndpoints_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListEndpointsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).ListEndpoints(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: adminListEndpointsFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).ListEndpoints(ctx, req.(*ListEndpointsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_Pause_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PauseRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).Pause(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: adminPauseFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).Pause(ctx, req.(*PauseRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Admin_Resume_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ResumeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServer).Resume(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: adminResumeFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServer).Resume(ctx, req.(*ResumeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var adminServiceDesc = grpc.ServiceDesc{
	ServiceName: "bridge.v1.Admin",
	HandlerType: (*AdminServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: _Admin_Ping_Handler},
		{MethodName: "ListEndpoints", Handler: _Admin_ListEndpoints_Handler},
		{MethodName: "Pause", Handler: _Admin_Pause_Handler},
		{MethodName: "Resume", Handler: _Admin_Resume_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/transport/admin.go",
}
