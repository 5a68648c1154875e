// Command funxycheck is a thin driver over the type checker: it owns no
// lexing or parsing (this module has none, spec §1), so it runs the
// fixed set of demo programs in internal/checker/demo and prints the
// inferred top-level schemes and any diagnostics.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/funxy-typecheck/internal/checker/cache"
	"github.com/funvibe/funxy-typecheck/internal/checker/demo"
	"github.com/funvibe/funxy-typecheck/internal/checker/diagnostic"
	"github.com/funvibe/funxy-typecheck/internal/checker/infer"
	"github.com/funvibe/funxy-typecheck/internal/checker/prelude"
)

// colorLevel mirrors the teacher's detectColorLevel (internal/evaluator/
// builtins_term.go): NO_COLOR and a dumb TERM disable color outright,
// otherwise color is on only when stdout is an actual terminal.
func colorLevel() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paint(color bool, code, s string) string {
	if !color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) >= 2 && (os.Args[1] == "-help" || os.Args[1] == "--help" || os.Args[1] == "help") {
		printUsage()
		return
	}

	cachePath := ""
	for i, arg := range os.Args {
		if arg == "-cache" && i+1 < len(os.Args) {
			cachePath = os.Args[i+1]
		}
	}

	var store *cache.Store
	if cachePath != "" {
		s, err := cache.Open(cachePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "funxycheck: opening cache:", err)
			os.Exit(1)
		}
		defer s.Close()
		store = s
	}

	color := colorLevel()
	hadDiagnostics := false

	for _, prog := range demo.Programs() {
		ck, err := infer.New([]byte(prelude.Default))
		if err != nil {
			fmt.Fprintln(os.Stderr, "funxycheck: loading prelude:", err)
			os.Exit(1)
		}

		res, diags := ck.Run(prog.AST)
		if len(diags) > 0 {
			hadDiagnostics = true
			printDiagnostics(prog.Name, diags, color)
			continue
		}

		printScheme(prog.Name, prog.Binding, res, store, color)
	}

	if hadDiagnostics {
		os.Exit(1)
	}
}

func printDiagnostics(name string, diags []*diagnostic.Diagnostic, color bool) {
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, paint(color, "31", fmt.Sprintf("%s: %s", name, d.Error())))
	}
}

func printScheme(name, binding string, res *infer.Result, store *cache.Store, color bool) {
	sch, ok := res.Schemes[binding]
	if !ok {
		fmt.Fprintf(os.Stderr, "funxycheck: %s: no scheme recorded for %q\n", name, binding)
		return
	}
	printed := sch.Type.String()

	if store != nil {
		fingerprint := name
		if cached, ok, err := store.Get(fingerprint, binding); err == nil && ok && cached == printed {
			fmt.Printf("%s: %s %s %s\n", name, binding, paint(color, "2", "(cached)"), paint(color, "32", printed))
			return
		}
		if err := store.Put(fingerprint, binding, printed); err != nil {
			fmt.Fprintln(os.Stderr, "funxycheck: caching scheme:", err)
		}
	}

	fmt.Printf("%s: %s : %s\n", name, binding, paint(color, "32", printed))
}

func printUsage() {
	fmt.Println("Usage: funxycheck [-cache <path>]")
	fmt.Println()
	fmt.Println("Runs the bundled demo programs through the checker and prints each")
	fmt.Println("top-level binding's inferred scheme. Pass -cache to memoize printed")
	fmt.Println("schemes in a sqlite database across runs.")
}
