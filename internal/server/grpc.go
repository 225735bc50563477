package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/idle-backend/internal/session"
)

// The idle.v1.Game service speaks protobuf well-known types only, so it needs
// no generated message code:
//
//	service Game {
//	  rpc Snapshot(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Actions(google.protobuf.Empty) returns (google.protobuf.ListValue);
//	  rpc Invoke(google.protobuf.StringValue) returns (google.protobuf.BoolValue);
//	  rpc Reset(google.protobuf.Empty) returns (google.protobuf.Empty);
//	}
const gameServiceName = "idle.v1.Game"

// GameServer is the server API for the idle.v1.Game service.
type GameServer interface {
	Snapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Actions(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	Invoke(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	Reset(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

func RegisterGameServer(s grpc.ServiceRegistrar, srv GameServer) {
	s.RegisterService(&gameServiceDesc, srv)
}

var gameServiceDesc = grpc.ServiceDesc{
	ServiceName: gameServiceName,
	HandlerType: (*GameServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Snapshot", Handler: gameSnapshotHandler},
		{MethodName: "Actions", Handler: gameActionsHandler},
		{MethodName: "Invoke", Handler: gameInvokeHandler},
		{MethodName: "Reset", Handler: gameResetHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "idle/v1/game.proto",
}

func gameSnapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServer).Snapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + gameServiceName + "/Snapshot"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServer).Snapshot(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func gameActionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServer).Actions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + gameServiceName + "/Actions"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServer).Actions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func gameInvokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + gameServiceName + "/Invoke"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServer).Invoke(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func gameResetHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GameServer).Reset(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + gameServiceName + "/Reset"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(GameServer).Reset(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// GameClient is the client API for the idle.v1.Game service.
type GameClient interface {
	Snapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Actions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
	Invoke(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
	Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type gameClient struct {
	cc grpc.ClientConnInterface
}

func NewGameClient(cc grpc.ClientConnInterface) GameClient {
	return &gameClient{cc: cc}
}

func (c *gameClient) Snapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+gameServiceName+"/Snapshot", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameClient) Actions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, "/"+gameServiceName+"/Actions", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameClient) Invoke(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, "/"+gameServiceName+"/Invoke", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gameClient) Reset(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, "/"+gameServiceName+"/Reset", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// gameService implements GameServer on top of a session.
type gameService struct {
	sess *session.Session
}

// NewGRPC returns a gRPC server with the game service registered.
func NewGRPC(sess *session.Session, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logUnary)}, opts...)
	s := grpc.NewServer(opts...)
	RegisterGameServer(s, &gameService{sess: sess})
	return s
}

func (g *gameService) Snapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	var m map[string]any
	if err := roundTrip(g.sess.View(), &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode view: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode view: %v", err)
	}
	return out, nil
}

func (g *gameService) Actions(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	var l []any
	if err := roundTrip(g.sess.Actions(), &l); err != nil {
		return nil, status.Errorf(codes.Internal, "encode actions: %v", err)
	}
	out, err := structpb.NewList(l)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode actions: %v", err)
	}
	return out, nil
}

func (g *gameService) Invoke(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	name := in.GetValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "action name is required")
	}
	changed, err := g.sess.Invoke(ctx, name)
	if errors.Is(err, session.ErrUnknownAction) {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bool(changed), nil
}

func (g *gameService) Reset(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	g.sess.Reset(ctx)
	return &emptypb.Empty{}, nil
}

// roundTrip converts v into the generic JSON shapes structpb accepts.
func roundTrip(v, out any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "grpc call failed", "method", info.FullMethod, "code", status.Code(err), "err", err)
		return resp, err
	}
	slog.DebugContext(ctx, "grpc call", "method", info.FullMethod, "took", time.Since(start))
	return resp, nil
}
