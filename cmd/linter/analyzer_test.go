package linter_test

import (
	"testing"

	"github.com/RoGogDBD/qdb-cloudwatch/cmd/linter"
	"golang.org/x/tools/go/analysis/analysistest"
)

func TestAnalyzer(t *testing.T) {
	testdata := analysistest.TestData()
	analysistest.Run(t, testdata, linter.Analyzer, "store", "entry")
}
