package inventory_service_api

import (
	"context"
	"net/http"

	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

type flightCall func(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)

// RegisterGateway exposes the read only inventory calls as REST routes on mux.
// Build mux with SessionMetadata so the caller's session reaches the server.
func RegisterGateway(mux *runtime.ServeMux, conn grpc.ClientConnInterface) error {
	client := NewClient(conn)
	routes := []struct {
		pattern string
		method  string
		call    flightCall
	}{
		{pattern: "/v1/airlines/{airline}/flights/{flight}/capacity", method: CheckCapacityMethod, call: client.CheckCapacity},
		{pattern: "/v1/airlines/{airline}/flights/{flight}/audit", method: AuditMethod, call: client.Audit},
	}
	for _, route := range routes {
		if err := mux.HandlePath(http.MethodGet, route.pattern, flightHandler(mux, route.pattern, route.method, route.call)); err != nil {
			return err
		}
	}
	return nil
}

// SessionMetadata forwards the session cookie of a REST request as gRPC
// metadata. Authorization headers are forwarded by the gateway itself.
func SessionMetadata(cookieName string) func(context.Context, *http.Request) metadata.MD {
	return func(_ context.Context, r *http.Request) metadata.MD {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			return nil
		}
		return metadata.Pairs(SessionMetadataKey, cookie.Value)
	}
}

func flightHandler(mux *runtime.ServeMux, pattern, method string, call flightCall) runtime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, pathParams map[string]string) {
		_, marshaler := runtime.MarshalerForRequest(mux, r)

		ctx, err := runtime.AnnotateContext(r.Context(), mux, r, method, runtime.WithHTTPPathPattern(pattern))
		if err != nil {
			runtime.HTTPError(r.Context(), mux, marshaler, w, r, err)
			return
		}

		req, err := structpb.NewStruct(map[string]any{
			"airline_name":  pathParams["airline"],
			"flight_number": pathParams["flight"],
		})
		if err != nil {
			runtime.HTTPError(ctx, mux, marshaler, w, r, err)
			return
		}

		resp, err := call(ctx, req)
		if err != nil {
			runtime.HTTPError(ctx, mux, marshaler, w, r, err)
			return
		}

		body, err := marshaler.Marshal(resp)
		if err != nil {
			runtime.HTTPError(ctx, mux, marshaler, w, r, err)
			return
		}
		w.Header().Set("Content-Type", marshaler.ContentType(resp))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}
