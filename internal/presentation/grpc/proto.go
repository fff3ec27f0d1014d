package grpc

// proto.go defines the gRPC server interface derived from
// intellifin/servicing/v1/servicing.proto. This file serves as a stand-in for
// buf-generated code. Once `buf generate` is run, replace this file with the
// import from the generated package.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoanServicingServiceServer is the server API for LoanServicingService.
// It mirrors the proto-generated interface from
// intellifin.servicing.v1.LoanServicingService.
type LoanServicingServiceServer interface {
	GenerateSchedule(context.Context, *GenerateScheduleRequest) (*GenerateScheduleResponse, error)
	GetSchedule(context.Context, *GetScheduleRequest) (*GetScheduleResponse, error)
	ApplyPayment(context.Context, *ApplyPaymentRequest) (*ApplyPaymentResponse, error)
	GetPaymentHistory(context.Context, *GetPaymentHistoryRequest) (*GetPaymentHistoryResponse, error)
	ClassifyLoan(context.Context, *ClassifyLoanRequest) (*ClassifyLoanResponse, error)
	ClassifyAllLoans(context.Context, *ClassifyAllLoansRequest) (*ClassifyAllLoansResponse, error)
	GetClassificationHistory(context.Context, *GetClassificationHistoryRequest) (*GetClassificationHistoryResponse, error)
	mustEmbedUnimplementedLoanServicingServiceServer()
}

// UnimplementedLoanServicingServiceServer provides forward-compatible default
// implementations.
type UnimplementedLoanServicingServiceServer struct{}

func (UnimplementedLoanServicingServiceServer) GenerateSchedule(context.Context, *GenerateScheduleRequest) (*GenerateScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GenerateSchedule not implemented")
}
func (UnimplementedLoanServicingServiceServer) GetSchedule(context.Context, *GetScheduleRequest) (*GetScheduleResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSchedule not implemented")
}
func (UnimplementedLoanServicingServiceServer) ApplyPayment(context.Context, *ApplyPaymentRequest) (*ApplyPaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ApplyPayment not implemented")
}
func (UnimplementedLoanServicingServiceServer) GetPaymentHistory(context.Context, *GetPaymentHistoryRequest) (*GetPaymentHistoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPaymentHistory not implemented")
}
func (UnimplementedLoanServicingServiceServer) ClassifyLoan(context.Context, *ClassifyLoanRequest) (*ClassifyLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClassifyLoan not implemented")
}
func (UnimplementedLoanServicingServiceServer) ClassifyAllLoans(context.Context, *ClassifyAllLoansRequest) (*ClassifyAllLoansResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ClassifyAllLoans not implemented")
}
func (UnimplementedLoanServicingServiceServer) GetClassificationHistory(context.Context, *GetClassificationHistoryRequest) (*GetClassificationHistoryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetClassificationHistory not implemented")
}
func (UnimplementedLoanServicingServiceServer) mustEmbedUnimplementedLoanServicingServiceServer() {}

// RegisterLoanServicingServiceServer registers the server with the gRPC server.
func RegisterLoanServicingServiceServer(s *grpclib.Server, srv LoanServicingServiceServer) {
	s.RegisterService(&_LoanServicingService_serviceDesc, srv) //nolint:revive // gRPC handler registration
}

//nolint:revive // gRPC handler registration
var _LoanServicingService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "intellifin.servicing.v1.LoanServicingService",
	HandlerType: (*LoanServicingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "GenerateSchedule", Handler: _LoanServicingService_GenerateSchedule_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "GetSchedule", Handler: _LoanServicingService_GetSchedule_Handler},                           //nolint:revive // gRPC handler registration
		{MethodName: "ApplyPayment", Handler: _LoanServicingService_ApplyPayment_Handler},                         //nolint:revive // gRPC handler registration
		{MethodName: "GetPaymentHistory", Handler: _LoanServicingService_GetPaymentHistory_Handler},               //nolint:revive // gRPC handler registration
		{MethodName: "ClassifyLoan", Handler: _LoanServicingService_ClassifyLoan_Handler},                         //nolint:revive // gRPC handler registration
		{MethodName: "ClassifyAllLoans", Handler: _LoanServicingService_ClassifyAllLoans_Handler},                 //nolint:revive // gRPC handler registration
		{MethodName: "GetClassificationHistory", Handler: _LoanServicingService_GetClassificationHistory_Handler}, //nolint:revive // gRPC handler registration
	},
	Streams: []grpclib.StreamDesc{},
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanServicingService_GenerateSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GenerateScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServicingServiceServer).GenerateSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/intellifin.servicing.v1.LoanServicingService/GenerateSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServicingServiceServer).GenerateSchedule(ctx, req.(*GenerateScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanServicingService_GetSchedule_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetScheduleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServicingServiceServer).GetSchedule(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/intellifin.servicing.v1.LoanServicingService/GetSchedule",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServicingServiceServer).GetSchedule(ctx, req.(*GetScheduleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanServicingService_ApplyPayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ApplyPaymentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServicingServiceServer).ApplyPayment(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/intellifin.servicing.v1.LoanServicingService/ApplyPayment",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServicingServiceServer).ApplyPayment(ctx, req.(*ApplyPaymentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanServicingService_GetPaymentHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetPaymentHistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServicingServiceServer).GetPaymentHistory(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/intellifin.servicing.v1.LoanServicingService/GetPaymentHistory",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServicingServiceServer).GetPaymentHistory(ctx, req.(*GetPaymentHistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanServicingService_ClassifyLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClassifyLoanRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServicingServiceServer).ClassifyLoan(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/intellifin.servicing.v1.LoanServicingService/ClassifyLoan",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServicingServiceServer).ClassifyLoan(ctx, req.(*ClassifyLoanRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanServicingService_ClassifyAllLoans_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(ClassifyAllLoansRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServicingServiceServer).ClassifyAllLoans(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/intellifin.servicing.v1.LoanServicingService/ClassifyAllLoans",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServicingServiceServer).ClassifyAllLoans(ctx, req.(*ClassifyAllLoansRequest))
	}
	return interceptor(ctx, in, info, handler)
}

//nolint:revive,errcheck // gRPC handler registration
func _LoanServicingService_GetClassificationHistory_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetClassificationHistoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LoanServicingServiceServer).GetClassificationHistory(ctx, in)
	}
	info := &grpclib.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/intellifin.servicing.v1.LoanServicingService/GetClassificationHistory",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LoanServicingServiceServer).GetClassificationHistory(ctx, req.(*GetClassificationHistoryRequest))
	}
	return interceptor(ctx, in, info, handler)
}
