package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/admissions-server/internal/api/grpc/codec"
)

// ServiceName is the fully qualified admission service name.
const ServiceName = "admission.v1.Admission"

// Full method names.
const (
	ProvisionStudentMethod     = "/" + ServiceName + "/ProvisionStudent"
	ProvisionStaffMethod       = "/" + ServiceName + "/ProvisionStaff"
	RequestPasswordResetMethod = "/" + ServiceName + "/RequestPasswordReset"
	RegisterDeviceTokenMethod  = "/" + ServiceName + "/RegisterDeviceToken"
	UploadProfileImageMethod   = "/" + ServiceName + "/UploadProfileImage"
)

// AdmissionServer is the server API for the admission service.
type AdmissionServer interface {
	ProvisionStudent(context.Context, *ProvisionStudentRequest) (*ProvisionStudentResponse, error)
	ProvisionStaff(context.Context, *ProvisionStaffRequest) (*ProvisionStaffResponse, error)
	RequestPasswordReset(context.Context, *RequestPasswordResetRequest) (*RequestPasswordResetResponse, error)
	RegisterDeviceToken(context.Context, *RegisterDeviceTokenRequest) (*RegisterDeviceTokenResponse, error)
	UploadProfileImage(context.Context, *UploadProfileImageRequest) (*UploadProfileImageResponse, error)
}

// UnimplementedAdmissionServer answers every method with codes.Unimplemented.
type UnimplementedAdmissionServer struct{}

func (UnimplementedAdmissionServer) ProvisionStudent(context.Context, *ProvisionStudentRequest) (*ProvisionStudentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProvisionStudent not implemented")
}

func (UnimplementedAdmissionServer) ProvisionStaff(context.Context, *ProvisionStaffRequest) (*ProvisionStaffResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ProvisionStaff not implemented")
}

func (UnimplementedAdmissionServer) RequestPasswordReset(context.Context, *RequestPasswordResetRequest) (*RequestPasswordResetResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RequestPasswordReset not implemented")
}

func (UnimplementedAdmissionServer) RegisterDeviceToken(context.Context, *RegisterDeviceTokenRequest) (*RegisterDeviceTokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterDeviceToken not implemented")
}

func (UnimplementedAdmissionServer) UploadProfileImage(context.Context, *UploadProfileImageRequest) (*UploadProfileImageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UploadProfileImage not implemented")
}

// AdmissionServiceDesc describes the admission service for grpc.Server.RegisterService.
var AdmissionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdmissionServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProvisionStudent",
			Handler:    unaryHandler(ProvisionStudentMethod, AdmissionServer.ProvisionStudent),
		},
		{
			MethodName: "ProvisionStaff",
			Handler:    unaryHandler(ProvisionStaffMethod, AdmissionServer.ProvisionStaff),
		},
		{
			MethodName: "RequestPasswordReset",
			Handler:    unaryHandler(RequestPasswordResetMethod, AdmissionServer.RequestPasswordReset),
		},
		{
			MethodName: "RegisterDeviceToken",
			Handler:    unaryHandler(RegisterDeviceTokenMethod, AdmissionServer.RegisterDeviceToken),
		},
		{
			MethodName: "UploadProfileImage",
			Handler:    unaryHandler(UploadProfileImageMethod, AdmissionServer.UploadProfileImage),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "admission/v1/admission.json",
}

// RegisterAdmissionServer registers srv on s.
func RegisterAdmissionServer(s grpc.ServiceRegistrar, srv AdmissionServer) {
	s.RegisterService(&AdmissionServiceDesc, srv)
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(AdmissionServer, context.Context, *Req) (*Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AdmissionServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AdmissionServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AdmissionClient is the client API for the admission service. Every call
// uses the JSON codec.
type AdmissionClient struct {
	cc grpc.ClientConnInterface
}

// NewAdmissionClient creates an AdmissionClient on top of cc.
func NewAdmissionClient(cc grpc.ClientConnInterface) *AdmissionClient {
	return &AdmissionClient{cc: cc}
}

func (c *AdmissionClient) ProvisionStudent(ctx context.Context, in *ProvisionStudentRequest, opts ...grpc.CallOption) (*ProvisionStudentResponse, error) {
	out := new(ProvisionStudentResponse)
	if err := c.invoke(ctx, ProvisionStudentMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdmissionClient) ProvisionStaff(ctx context.Context, in *ProvisionStaffRequest, opts ...grpc.CallOption) (*ProvisionStaffResponse, error) {
	out := new(ProvisionStaffResponse)
	if err := c.invoke(ctx, ProvisionStaffMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdmissionClient) RequestPasswordReset(ctx context.Context, in *RequestPasswordResetRequest, opts ...grpc.CallOption) (*RequestPasswordResetResponse, error) {
	out := new(RequestPasswordResetResponse)
	if err := c.invoke(ctx, RequestPasswordResetMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdmissionClient) RegisterDeviceToken(ctx context.Context, in *RegisterDeviceTokenRequest, opts ...grpc.CallOption) (*RegisterDeviceTokenResponse, error) {
	out := new(RegisterDeviceTokenResponse)
	if err := c.invoke(ctx, RegisterDeviceTokenMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdmissionClient) UploadProfileImage(ctx context.Context, in *UploadProfileImageRequest, opts ...grpc.CallOption) (*UploadProfileImageResponse, error) {
	out := new(UploadProfileImageResponse)
	if err := c.invoke(ctx, UploadProfileImageMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdmissionClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
