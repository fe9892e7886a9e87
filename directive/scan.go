package directive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Func holds the directives found in the doc comment of one Go function.
type Func struct {
	File       string
	Line       int
	Receiver   string
	Name       string
	Directives []*Directive
}

// QualifiedName returns "Receiver.Name", or Name for plain functions.
func (f *Func) QualifiedName() string {
	if f.Receiver == "" {
		return f.Name
	}
	return f.Receiver + "." + f.Name
}

// ScanSource extracts directives from the function doc comments of a Go
// source file. Functions without directives are skipped. Directive lines
// that fail to parse or name unknown directives are reported with their
// file position.
func ScanSource(filename string, src any) ([]*Func, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var (
		funcs []*Func
		errs  []error
	)
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Doc == nil {
			continue
		}

		f := &Func{
			File:     filename,
			Line:     fset.Position(fn.Pos()).Line,
			Receiver: receiverName(fn),
			Name:     fn.Name.Name,
		}

		for _, c := range fn.Doc.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if !strings.HasPrefix(text, "@") {
				continue
			}

			line := fset.Position(c.Pos()).Line
			d, err := Parse(text)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s:%d: %w", filename, line, err))
				continue
			}
			if !Known(d.Name) {
				errs = append(errs, fmt.Errorf("%s:%d: %w: @%s", filename, line, ErrUnknownDirective, d.Name))
				continue
			}
			d.Pos.Filename = filename
			d.Pos.Line = line
			f.Directives = append(f.Directives, d)
		}

		if len(f.Directives) > 0 {
			funcs = append(funcs, f)
		}
	}
	return funcs, errors.Join(errs...)
}

// ScanFile is ScanSource reading from path.
func ScanFile(path string) ([]*Func, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ScanSource(path, src)
}

// ScanDir scans every non-test .go file directly inside dir, in file name
// order.
func ScanDir(dir string) ([]*Func, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.go"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var (
		funcs []*Func
		errs  []error
	)
	for _, p := range paths {
		if strings.HasSuffix(p, "_test.go") {
			continue
		}
		found, err := ScanFile(p)
		if err != nil {
			errs = append(errs, err)
		}
		funcs = append(funcs, found...)
	}
	return funcs, errors.Join(errs...)
}

func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}
