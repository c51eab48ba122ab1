package inventory_service_api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "airline.inventory.v1.InventoryService"

const (
	CheckCapacityMethod = "/" + ServiceName + "/CheckCapacity"
	PurchaseMethod      = "/" + ServiceName + "/Purchase"
	AuditMethod         = "/" + ServiceName + "/Audit"
)

// InventoryServiceServer is the server side of the inventory API. Requests and
// responses are google.protobuf.Struct documents.
type InventoryServiceServer interface {
	CheckCapacity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Purchase(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Audit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv InventoryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var InventoryServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CheckCapacity",
			Handler: unaryHandler(CheckCapacityMethod, func(srv InventoryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.CheckCapacity(ctx, req)
			}),
		},
		{
			MethodName: "Purchase",
			Handler: unaryHandler(PurchaseMethod, func(srv InventoryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.Purchase(ctx, req)
			}),
		},
		{
			MethodName: "Audit",
			Handler: unaryHandler(AuditMethod, func(srv InventoryServiceServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
				return srv.Audit(ctx, req)
			}),
		},
	},
	Metadata: "airline/inventory/v1/inventory.proto",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryServiceDesc, srv)
}

// Client calls the inventory API over any client connection.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) CheckCapacity(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckCapacityMethod, req, opts...)
}

func (c *Client) Purchase(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PurchaseMethod, req, opts...)
}

func (c *Client) Audit(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, AuditMethod, req, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
