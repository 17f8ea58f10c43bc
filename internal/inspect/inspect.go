// Package inspect statically scans Go packages for wirebind endpoint
// declarations.
//
// It looks for calls to wirebind.Compile and wirebind.MustCompile whose
// argument is a Spec literal, extracts the statically-known fields, and
// reports definition problems that would otherwise only surface when the
// package runs: missing names, endpoints without a path, malformed
// placeholder syntax, unknown HTTP methods, duplicate endpoint names.
//
// The scan is syntax-only. It never builds or executes the scanned code,
// so it works on packages that do not currently compile.
package inspect

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/wirebind/wirebind"
)

// modulePath is the import path whose Compile/MustCompile calls are
// recognized.
const modulePath = "github.com/wirebind/wirebind"

// Decl is one endpoint declaration found in source. Only fields given as
// string literals are filled; anything computed stays empty.
type Decl struct {
	Name        string
	Description string
	Method      string
	Paths       []string // non-empty path template literals
	FuncName    string   // Compile or MustCompile
	Pos         token.Position
}

// Finding is one problem reported against a declaration.
type Finding struct {
	Code    string
	Message string
	Pos     token.Position
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s: %s", f.Pos, f.Code, f.Message)
}

// Options configures the checks applied by Scan.
type Options struct {
	// RequireDescription reports endpoints with no Description literal.
	RequireDescription bool
}

// Result contains the declarations found in a package and the findings
// against them.
type Result struct {
	Decls    []Decl
	Findings []Finding
}

// knownMethods are the HTTP verbs an endpoint may declare.
var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

// Scan loads the package matching pattern (go command semantics) rooted
// at dir and checks every endpoint declaration in it. If dir is empty the
// current directory is used.
func Scan(pattern, dir string, opts Options) (*Result, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages found matching %q", pattern)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found matching %q; specify a single package", pattern)
	}

	result := &Result{}
	fset := token.NewFileSet()
	for _, filename := range pkgs[0].GoFiles {
		f, err := parser.ParseFile(fset, filename, nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		result.Decls = append(result.Decls, scanFile(fset, f)...)
	}

	result.Findings = check(result.Decls, opts)
	return result, nil
}

// scanFile extracts endpoint declarations from a single file.
func scanFile(fset *token.FileSet, f *ast.File) []Decl {
	alias := importAlias(f)
	if alias == "" {
		return nil
	}

	var decls []Decl
	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) == 0 {
			return true
		}
		funcName, ok := compileCall(call.Fun, alias)
		if !ok {
			return true
		}
		lit, ok := call.Args[0].(*ast.CompositeLit)
		if !ok {
			return true
		}

		decl := Decl{
			FuncName: funcName,
			Pos:      fset.Position(call.Pos()),
		}
		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}
			key, ok := kv.Key.(*ast.Ident)
			if !ok {
				continue
			}
			val, ok := stringLiteral(kv.Value)
			if !ok {
				continue
			}
			switch key.Name {
			case "Name":
				decl.Name = val
			case "Description":
				decl.Description = val
			case "Method":
				decl.Method = val
			case "UnstablePath", "R0Path", "StablePath":
				if val != "" {
					decl.Paths = append(decl.Paths, val)
				}
			}
		}
		decls = append(decls, decl)
		return true
	})
	return decls
}

// importAlias returns the local name under which f imports this module,
// or "" when it does not.
func importAlias(f *ast.File) string {
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || path != modulePath {
			continue
		}
		if imp.Name != nil {
			return imp.Name.Name
		}
		return "wirebind"
	}
	return ""
}

// compileCall matches wirebind.Compile / wirebind.MustCompile call
// expressions, with or without explicit type arguments.
func compileCall(fun ast.Expr, alias string) (string, bool) {
	switch e := fun.(type) {
	case *ast.IndexExpr:
		return compileCall(e.X, alias)
	case *ast.IndexListExpr:
		return compileCall(e.X, alias)
	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok || pkg.Name != alias {
			return "", false
		}
		if e.Sel.Name == "Compile" || e.Sel.Name == "MustCompile" {
			return e.Sel.Name, true
		}
	}
	return "", false
}

func stringLiteral(e ast.Expr) (string, bool) {
	lit, ok := e.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// check applies the definition checks that are observable from literals.
func check(decls []Decl, opts Options) []Finding {
	var findings []Finding
	report := func(d Decl, code, format string, args ...any) {
		findings = append(findings, Finding{
			Code:    code,
			Message: fmt.Sprintf(format, args...),
			Pos:     d.Pos,
		})
	}

	seen := make(map[string]token.Position)
	for _, d := range decls {
		if d.Name == "" {
			report(d, "missing_name", "endpoint declaration has no Name literal")
		} else if prev, dup := seen[d.Name]; dup {
			report(d, "duplicate_name", "endpoint %q already declared at %s", d.Name, prev)
		} else {
			seen[d.Name] = d.Pos
		}

		if len(d.Paths) == 0 {
			report(d, "no_path", "endpoint %q declares no path template", d.Name)
		}
		for _, p := range d.Paths {
			if _, err := wirebind.ParseTemplate(p); err != nil {
				report(d, "invalid_template", "%v", err)
			}
		}

		if d.Method == "" {
			report(d, "missing_method", "endpoint %q declares no Method literal", d.Name)
		} else if !knownMethods[strings.ToUpper(d.Method)] {
			report(d, "unknown_method", "endpoint %q uses unknown HTTP method %q", d.Name, d.Method)
		}

		if opts.RequireDescription && d.Description == "" {
			report(d, "missing_description", "endpoint %q has no description", d.Name)
		}
	}
	return findings
}
