// Command staticlint запускает анализатор exitcheck над пакетами модуля:
//
//	go run ./cmd/linter/staticlint ./...
package main

import (
	"github.com/RoGogDBD/qdb-cloudwatch/cmd/linter"
	"golang.org/x/tools/go/analysis/singlechecker"
)

func main() {
	singlechecker.Main(linter.Analyzer)
}
