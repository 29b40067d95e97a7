package pipeline

import (
	"baa/internal/diagnostics"
	"baa/internal/frontend/ast"
	"baa/internal/frontend/lexer"
	"baa/internal/frontend/parser"
	"baa/internal/preprocessor"
	"baa/internal/types"
)

// Result is the output of one front-end run: the processed text, whatever
// AST could be built, and every diagnostic from all three stages.
type Result struct {
	Processed string
	Program   *ast.Program
	Registry  *types.Registry

	PreprocessorDiags *diagnostics.Sink
	ParserDiags       []*diagnostics.Diagnostic
	HadError          bool
}

// Run drives a file through preprocessor → lexer → parser. Each stage feeds
// the next; there is no transformation here.
func Run(path string, includePaths []string) *Result {
	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := preprocessor.New(includePaths, sink)

	processed, err := pp.ProcessFile(path)
	if err != nil {
		return &Result{PreprocessorDiags: sink, HadError: true}
	}

	return frontend(path, processed, sink)
}

// RunString is Run over an in-memory source with a synthetic name.
func RunString(name, text string, includePaths []string) *Result {
	sink := diagnostics.NewSink(diagnostics.DefaultLimits())
	pp := preprocessor.New(includePaths, sink)

	processed, err := pp.ProcessString(name, text)
	if err != nil {
		return &Result{PreprocessorDiags: sink, HadError: true}
	}

	return frontend(name, processed, sink)
}

func frontend(name, processed string, sink *diagnostics.Sink) *Result {
	registry := types.NewRegistry()
	lex := lexer.New(processed, name)
	p := parser.New(lex, name, registry)
	program := p.ParseProgram()

	return &Result{
		Processed:         processed,
		Program:           program,
		Registry:          registry,
		PreprocessorDiags: sink,
		ParserDiags:       p.Diagnostics,
		HadError:          p.HadError() || sink.HasErrors(),
	}
}
