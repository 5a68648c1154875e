// Package checkerrpc exposes one inference run as a unary gRPC method.
//
// This module has no .proto file and no protoc-generated stubs: the
// service descriptor is built by hand, the same way the teacher's
// grpcRegister builtin (internal/evaluator/builtins_grpc.go) builds a
// grpc.ServiceDesc at runtime from a loaded proto descriptor rather
// than from generated code. Request/response payloads travel as
// google.golang.org/protobuf/types/known/structpb.Struct — a
// proto.Message the protobuf module ships pre-compiled, so no codegen
// step is needed to get real protobuf wire encoding.
package checkerrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/funxy-typecheck/internal/ast"
	"github.com/funvibe/funxy-typecheck/internal/checker/diagnostic"
	"github.com/funvibe/funxy-typecheck/internal/checker/infer"
)

const (
	// ServiceName is the fully-qualified name RegisterChecker registers
	// under and Invoke dials against.
	ServiceName = "checkerrpc.Checker"
	// InferMethod is the single method this service exposes.
	InferMethod = "/checkerrpc.Checker/Infer"
)

// Program is one named, pre-built inference target. This module has no
// parser (spec §1) so the server can't accept arbitrary source text; it
// selects among a fixed registry of programs by name, the same
// constraint cmd/funxycheck works under.
type Program struct {
	AST     *ast.Program
	Binding string
}

// Checker runs a named Program against a freshly-seeded inference run.
// newChecker is a factory rather than a shared instance because a
// Checker is one inference run (spec §5) and must not be reused across
// requests.
type Checker struct {
	newChecker func() (*infer.Checker, error)
	programs   map[string]Program
}

func NewChecker(newChecker func() (*infer.Checker, error), programs map[string]Program) *Checker {
	return &Checker{newChecker: newChecker, programs: programs}
}

// Infer runs the program named by req's "program" field and returns
// either its bound scheme under "scheme" or the reported diagnostics
// under "diagnostics".
func (c *Checker) Infer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, _ := req.AsMap()["program"].(string)
	prog, ok := c.programs[name]
	if !ok {
		return structpb.NewStruct(map[string]interface{}{
			"error": fmt.Sprintf("unknown program %q", name),
		})
	}

	ck, err := c.newChecker()
	if err != nil {
		return nil, fmt.Errorf("checkerrpc: seeding checker: %w", err)
	}

	res, diags := ck.Run(prog.AST)
	if len(diags) > 0 {
		return structpb.NewStruct(map[string]interface{}{
			"diagnostics": diagnosticStrings(diags),
		})
	}

	sch, ok := res.Schemes[prog.Binding]
	if !ok {
		return structpb.NewStruct(map[string]interface{}{
			"error": fmt.Sprintf("no scheme recorded for %q", prog.Binding),
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"binding": prog.Binding,
		"scheme":  sch.Type.String(),
	})
}

func diagnosticStrings(diags []*diagnostic.Diagnostic) []interface{} {
	out := make([]interface{}, len(diags))
	for i, d := range diags {
		out[i] = d.Error()
	}
	return out
}

// RegisterChecker registers impl on s under ServiceName, building the
// grpc.ServiceDesc directly rather than from generated code — mirrors
// builtinGrpcRegister's manual grpc.ServiceDesc/grpc.MethodDesc
// construction.
func RegisterChecker(s *grpc.Server, impl *Checker) {
	desc := &grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*Checker)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Infer",
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
					req := &structpb.Struct{}
					if err := dec(req); err != nil {
						return nil, err
					}
					c := srv.(*Checker)
					if interceptor == nil {
						return c.Infer(ctx, req)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InferMethod}
					handler := func(ctx context.Context, req interface{}) (interface{}, error) {
						return c.Infer(ctx, req.(*structpb.Struct))
					}
					return interceptor(ctx, req, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "checkerrpc.proto",
	}
	s.RegisterService(desc, impl)
}

// Invoke calls the Infer method on conn for the named program.
func Invoke(ctx context.Context, conn *grpc.ClientConn, program string) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"program": program})
	if err != nil {
		return nil, fmt.Errorf("checkerrpc: building request: %w", err)
	}
	resp := &structpb.Struct{}
	if err := conn.Invoke(ctx, InferMethod, req, resp); err != nil {
		return nil, fmt.Errorf("checkerrpc: invoking %s: %w", InferMethod, err)
	}
	return resp, nil
}
