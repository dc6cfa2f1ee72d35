package remote

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the full gRPC name of the level service.
const ServiceName = "infinifold.levels.v1.Level"

// Method names of the level service.
const (
	methodSymbols    = "Symbols"
	methodIncluded   = "Included"
	methodIsOk       = "IsOk"
	methodInit       = "Init"
	methodInfo       = "Info"
	methodNew        = "New"
	methodDestroy    = "Destroy"
	methodGetFaces   = "GetFaces"
	methodWhenAngled = "WhenAngled"
)

// LevelServer is the server API of the level service.
type LevelServer interface {
	Symbols(context.Context, *Empty) (*SymbolsReply, error)
	Included(context.Context, *Empty) (*BoolReply, error)
	IsOk(context.Context, *Empty) (*BoolReply, error)
	Init(context.Context, *Empty) (*Empty, error)
	Info(context.Context, *Empty) (*InfoReply, error)
	New(context.Context, *Empty) (*HandleMessage, error)
	Destroy(context.Context, *HandleMessage) (*Empty, error)
	GetFaces(context.Context, *HandleMessage) (*FacesReply, error)
	WhenAngled(context.Context, *AngledRequest) (*BoolReply, error)
}

// RegisterLevelServer registers srv with s.
func RegisterLevelServer(s grpc.ServiceRegistrar, srv LevelServer) {
	s.RegisterService(&levelServiceDesc, srv)
}

var levelServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LevelServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(methodSymbols, LevelServer.Symbols),
		unary(methodIncluded, LevelServer.Included),
		unary(methodIsOk, LevelServer.IsOk),
		unary(methodInit, LevelServer.Init),
		unary(methodInfo, LevelServer.Info),
		unary(methodNew, LevelServer.New),
		unary(methodDestroy, LevelServer.Destroy),
		unary(methodGetFaces, LevelServer.GetFaces),
		unary(methodWhenAngled, LevelServer.WhenAngled),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "levels/remote",
}

// unary builds the method descriptor for a LevelServer method expression.
func unary[Req, Resp any](name string, call func(LevelServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(LevelServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}
