// Command funxycheckd serves the checker over gRPC: one Infer call per
// named demo program, registered the same way cmd/funxycheck runs them
// directly, just reachable over the network instead of in-process.
package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/funvibe/funxy-typecheck/internal/checker/demo"
	"github.com/funvibe/funxy-typecheck/internal/checker/infer"
	"github.com/funvibe/funxy-typecheck/internal/checker/prelude"
	"github.com/funvibe/funxy-typecheck/internal/checkerrpc"
)

func main() {
	addr := ":9781"
	for i, arg := range os.Args {
		if arg == "-addr" && i+1 < len(os.Args) {
			addr = os.Args[i+1]
		}
	}

	log.SetFlags(0)

	programs := map[string]checkerrpc.Program{}
	for _, p := range demo.Programs() {
		programs[p.Name] = checkerrpc.Program{AST: p.AST, Binding: p.Binding}
	}

	impl := checkerrpc.NewChecker(newChecker, programs)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "funxycheckd: listening:", err)
		os.Exit(1)
	}

	srv := grpc.NewServer()
	checkerrpc.RegisterChecker(srv, impl)

	log.Printf("funxycheckd: serving %s on %s", checkerrpc.ServiceName, addr)
	if err := srv.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, "funxycheckd: serving:", err)
		os.Exit(1)
	}
}

// newChecker seeds a fresh inference run for each request — a Checker
// is one inference run (spec §5) and must never be shared across calls.
func newChecker() (*infer.Checker, error) {
	return infer.New([]byte(prelude.Default))
}
