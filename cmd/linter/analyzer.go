// Package linter содержит анализатор, запрещающий аварийное завершение процесса
// вне main.main: экспортёр должен возвращать ошибки, а код выхода выбирает только точка входа.
package linter

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
)

var Analyzer = &analysis.Analyzer{
	Name: "exitcheck",
	Doc:  "reports panic, os.Exit, log.Fatal*/Panic* and zap Fatal/Panic calls outside main.main",
	Run:  run,
}

// forbidden — функции и методы, завершающие процесс или раскручивающие стек,
// по пути пакета.
var forbidden = map[string]map[string]bool{
	"os": {"Exit": true},
	"log": {
		"Fatal": true, "Fatalf": true, "Fatalln": true,
		"Panic": true, "Panicf": true, "Panicln": true,
	},
	"go.uber.org/zap": {
		"Fatal": true, "Fatalf": true, "Fatalw": true,
		"Panic": true, "Panicf": true, "Panicw": true,
		"DPanic": true, "DPanicf": true, "DPanicw": true,
	},
}

func run(pass *analysis.Pass) (interface{}, error) {
	inMainPkg := pass.Pkg.Name() == "main"
	for _, file := range pass.Files {
		for _, decl := range file.Decls {
			allowed := false
			if fn, ok := decl.(*ast.FuncDecl); ok {
				if fn.Body == nil {
					continue
				}
				allowed = inMainPkg && fn.Recv == nil && fn.Name.Name == "main"
			}
			if allowed {
				continue
			}
			ast.Inspect(decl, func(node ast.Node) bool {
				if call, ok := node.(*ast.CallExpr); ok {
					checkCall(pass, call)
				}
				return true
			})
		}
	}
	return nil, nil
}

func checkCall(pass *analysis.Pass, call *ast.CallExpr) {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		// Встроенный panic не принадлежит ни одному пакету.
		if b, ok := pass.TypesInfo.Uses[fun].(*types.Builtin); ok && b.Name() == "panic" {
			pass.Reportf(fun.Pos(), "panic outside main.main: return an error instead")
		}
	case *ast.SelectorExpr:
		fn, ok := pass.TypesInfo.Uses[fun.Sel].(*types.Func)
		if !ok || fn.Pkg() == nil {
			return
		}
		if forbidden[fn.Pkg().Path()][fn.Name()] {
			pass.Reportf(fun.Sel.Pos(), "%s.%s outside main.main: return an error instead", fn.Pkg().Name(), fn.Name())
		}
	}
}
