package rules

import "github.com/ludo-technologies/dsastcheck/internal/constants"

// ParseErrorRule reports the first syntax error of a file when enabled.
// The tree is still analysed as far as the parser recovered.
var ParseErrorRule = &Rule{
	Name:    "parse-error",
	Doc:     "report files the parser could not fully recover",
	Reports: []string{constants.RuleParseError},
	Finish: func(pass *Pass) {
		if !pass.Options.ReportParseErrors {
			return
		}
		if node := pass.Root.FirstError(); node != nil {
			pass.Report(node, constants.RuleParseError,
				"syntax error (the file was analysed as far as the parser recovered)")
		}
	},
}
