package fuzztests

import (
	"testing"
	"time"

	"dust/internal/ast"
	"dust/internal/diag"
	"dust/internal/lexer"
	"dust/internal/parser"
	"dust/internal/source"
	"dust/internal/testkit"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parse(input []byte) (*ast.Builder, ast.ExprID, *source.File, *diag.Bag) {
	fs := source.NewFileSet(source.NewSession())
	file := fs.Get(fs.AddVirtual("fuzz.dust", input))

	bag := diag.NewBag(128)
	rep := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: rep})
	b := ast.NewBuilder(ast.Hints{})
	res := parser.ParseFile(lx, b, parser.Options{Reporter: rep, MaxErrors: 128})
	return b, res.Root, file, bag
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		b, root, file, _ := parse(clampSeed(input))
		if err := testkit.CheckTree(b, root, file); err != nil {
			t.Fatalf("tree invariant: %v", err)
		}
	})
}

// FuzzParserNoHang tests that the parser terminates on any input,
// including inputs that drive error recovery in circles.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("f(a, b c d) }}}} (("))
	f.Add([]byte("{{{{{{{{{{"))
	f.Add([]byte("x is $a $b $c"))
	f.Add([]byte(";;;;,,,,"))

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			parse(append([]byte(nil), input...))
		}()
		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser did not finish within %s on %d bytes", parseTimeout, len(input))
		}
	})
}
