package marketpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MarketServer is the server API for the Market service.
type MarketServer interface {
	RegisterFile(context.Context, *RegisterFileRequest) (*Empty, error)
	CheckHolders(context.Context, *CheckHoldersRequest) (*HoldersResponse, error)
}

// UnimplementedMarketServer can be embedded to have forward compatible
// implementations, in the same shape protoc-gen-go-grpc emits.
type UnimplementedMarketServer struct{}

func (UnimplementedMarketServer) RegisterFile(context.Context, *RegisterFileRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterFile not implemented")
}

func (UnimplementedMarketServer) CheckHolders(context.Context, *CheckHoldersRequest) (*HoldersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckHolders not implemented")
}

func _Market_RegisterFile_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RegisterFileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketServer).RegisterFile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/market.Market/RegisterFile"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MarketServer).RegisterFile(ctx, req.(*RegisterFileRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Market_CheckHolders_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CheckHoldersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketServer).CheckHolders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/market.Market/CheckHolders"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MarketServer).CheckHolders(ctx, req.(*CheckHoldersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc for the Market service, authored
// by hand in place of protoc-gen-go-grpc's generated _Market_serviceDesc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "market.Market",
	HandlerType: (*MarketServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterFile", Handler: _Market_RegisterFile_Handler},
		{MethodName: "CheckHolders", Handler: _Market_CheckHolders_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "market.proto",
}

// RegisterMarketServer registers srv against s, the generated-style entry
// point a protoc-gen-go-grpc output would name RegisterMarketServer.
func RegisterMarketServer(s grpc.ServiceRegistrar, srv MarketServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// MarketClient is the client API for the Market service.
type MarketClient interface {
	RegisterFile(ctx context.Context, in *RegisterFileRequest, opts ...grpc.CallOption) (*Empty, error)
	CheckHolders(ctx context.Context, in *CheckHoldersRequest, opts ...grpc.CallOption) (*HoldersResponse, error)
}

type marketClient struct {
	cc grpc.ClientConnInterface
}

// NewMarketClient returns a MarketClient backed by cc.
func NewMarketClient(cc grpc.ClientConnInterface) MarketClient {
	return &marketClient{cc: cc}
}

func (c *marketClient) RegisterFile(ctx context.Context, in *RegisterFileRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/market.Market/RegisterFile", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *marketClient) CheckHolders(ctx context.Context, in *CheckHoldersRequest, opts ...grpc.CallOption) (*HoldersResponse, error) {
	out := new(HoldersResponse)
	if err := c.cc.Invoke(ctx, "/market.Market/CheckHolders", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
