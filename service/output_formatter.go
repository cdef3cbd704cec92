package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/dsastcheck/domain"
	"github.com/ludo-technologies/dsastcheck/internal/constants"
)

// OutputFormatter renders check results. Text output follows the classic
// report: a pass line on stdout, or a failure header and one line per issue
// on stderr. Structured formats always go to stdout.
type OutputFormatter struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatter {
	return &OutputFormatter{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteCheck writes the AST check result in the given format
func (f *OutputFormatter) WriteCheck(result *domain.CheckResult, format domain.OutputFormat, stdout, stderr io.Writer) error {
	var err error
	switch format {
	case domain.OutputFormatText, "":
		err = f.writeCheckText(result, stdout, stderr)
	case domain.OutputFormatJSON:
		err = WriteJSON(stdout, result)
	case domain.OutputFormatYAML:
		err = WriteYAML(stdout, result)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func (f *OutputFormatter) writeCheckText(result *domain.CheckResult, stdout, stderr io.Writer) error {
	if len(result.Issues) == 0 {
		_, err := fmt.Fprintf(stdout, "%s passed (%d files scanned)\n", constants.ReportPrefix, result.Summary.FilesScanned)
		return err
	}

	if _, err := fmt.Fprintf(stderr, "%s failed with %d issue(s):\n", constants.ReportPrefix, len(result.Issues)); err != nil {
		return err
	}
	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(stderr, "- %s\n", issue.String()); err != nil {
			return err
		}
	}
	return nil
}

// lineCheckDocument is the structured form of a line check result
type lineCheckDocument struct {
	Passed       bool               `json:"passed" yaml:"passed"`
	FilesScanned int                `json:"files_scanned" yaml:"files_scanned"`
	Issues       []domain.LineIssue `json:"issues" yaml:"issues"`
}

// WriteLines writes the line-oriented check result in the given format
func (f *OutputFormatter) WriteLines(result *domain.LineCheckResult, format domain.OutputFormat, stdout, stderr io.Writer) error {
	doc := lineCheckDocument{
		Passed:       result.Passed(),
		FilesScanned: result.FilesScanned,
		Issues:       result.Issues,
	}
	if doc.Issues == nil {
		doc.Issues = []domain.LineIssue{}
	}

	var err error
	switch format {
	case domain.OutputFormatText, "":
		err = f.writeLinesText(result, stdout, stderr)
	case domain.OutputFormatJSON:
		err = WriteJSON(stdout, doc)
	case domain.OutputFormatYAML:
		err = WriteYAML(stdout, doc)
	default:
		return domain.NewOutputError(fmt.Sprintf("unsupported output format: %s", format), nil)
	}
	if err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func (f *OutputFormatter) writeLinesText(result *domain.LineCheckResult, stdout, stderr io.Writer) error {
	if result.Passed() {
		_, err := fmt.Fprintf(stdout, "%s passed (%d files scanned)\n", constants.LinesReportPrefix, result.FilesScanned)
		return err
	}

	if _, err := fmt.Fprintf(stderr, "%s failed with %d issue(s):\n", constants.LinesReportPrefix, len(result.Issues)); err != nil {
		return err
	}
	for _, issue := range result.Issues {
		if _, err := fmt.Fprintf(stderr, "- %s:%d [%s] %s\n", issue.File, issue.Line, issue.Rule, issue.Detail); err != nil {
			return err
		}
	}
	return nil
}

// FormatFatal renders a run-aborting error. An unusable allowlist keeps its
// own two-line shape: the header naming the file, then the cause.
func FormatFatal(err error) string {
	var domainErr domain.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == domain.ErrCodeAllowlist {
		msg := fmt.Sprintf("%s failed: %s", constants.ReportPrefix, domainErr.Message)
		if domainErr.Cause != nil {
			msg += "\n" + domainErr.Cause.Error()
		}
		return msg
	}
	return fmt.Sprintf("%s failed: %v", constants.ReportPrefix, err)
}
