package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/toyz/rtgen/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return NewDiagnosticReporterTo(verbose, os.Stderr)
}

// NewDiagnosticReporterTo creates a diagnostic reporter writing to w
func NewDiagnosticReporterTo(verbose bool, w io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     w,
	}
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	var multi *errors.MultipleErrors
	var genErr errors.GenError
	switch {
	case stderrors.As(err, &multi) && multi.Count() > 1:
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "[%d/%d]\n", i+1, multi.Count())
			r.reportGenError(e)
		}
		r.printAdditionalHelp(multi.ErrorCode())
	case stderrors.As(err, &genErr):
		r.reportGenError(genErr)
		r.printAdditionalHelp(genErr.ErrorCode())
	default:
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
		r.printAdditionalHelp(errors.UnknownErrorCode)
	}

	fmt.Fprintf(r.out, "\n")
}

// reportGenError reports a GenError with full context and suggestions
func (r *DiagnosticReporter) reportGenError(genErr errors.GenError) {
	r.printErrorHeader(genErr.ErrorCode())

	fmt.Fprintf(r.out, "Message: %s\n\n", genErr.Error())

	if loc := genErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n\n", loc.String())
	}

	if ctx := genErr.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if suggestions := genErr.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}

	if r.verbose {
		r.printVerboseDebuggingInfo(genErr)
	}
}

// printErrorHeader prints a formatted error header based on error code
func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var errorTypeStr string

	switch code {
	case errors.SyntaxErrorCode:
		errorTypeStr = "Metadata Syntax Error"
	case errors.FormatVersionErrorCode:
		errorTypeStr = "Snapshot Format Error"
	case errors.RegistrationErrorCode:
		errorTypeStr = "Registration Error"
	case errors.MetadataShapeErrorCode:
		errorTypeStr = "Metadata Shape Error"
	case errors.LookupErrorCode:
		errorTypeStr = "Type Lookup Error"
	case errors.PhaseErrorCode:
		errorTypeStr = "Phase Violation"
	case errors.GenerationErrorCode:
		errorTypeStr = "Code Generation Error"
	case errors.FileSystemErrorCode:
		errorTypeStr = "File System Error"
	case errors.ConfigurationErrorCode:
		errorTypeStr = "Configuration Error"
	default:
		errorTypeStr = "Unknown Error"
	}

	fmt.Fprintf(r.out, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// printContext prints context information in a readable format
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"type", "method", "referenced_by", "field", "path"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), value)
			printed[key] = true
		}
	}

	var rest []string
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.out, "\n")
}

// formatContextKey formats context keys to be more readable
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "referenced_by":
		return "Referenced By"
	case "config_type":
		return "Config"
	default:
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// printAdditionalHelp prints additional help based on error code
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.MetadataShapeErrorCode:
		fmt.Fprintf(r.out, "Supported Parameter Shapes:\n")
		fmt.Fprintf(r.out, "  - By-reference parameters must be marked [out]\n")
		fmt.Fprintf(r.out, "  - Arrays may not contain arrays or references\n")
		fmt.Fprintf(r.out, "  - GetMany takes exactly one output buffer\n\n")

	case errors.LookupErrorCode:
		fmt.Fprintf(r.out, "Closed World:\n")
		fmt.Fprintf(r.out, "  - Every referenced type must be declared by a loaded snapshot\n")
		fmt.Fprintf(r.out, "  - Pass all dependent snapshot files with --metadata\n\n")

	case errors.FormatVersionErrorCode:
		fmt.Fprintf(r.out, "Snapshot Format:\n")
		fmt.Fprintf(r.out, "  - The first line must be: format \"v1.x.y\"\n\n")
	}

	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run 'rtgen check' to validate snapshots without generating\n")
	fmt.Fprintf(r.out, "  - Run with --verbose for more detailed output\n")
}

// printVerboseDebuggingInfo prints additional debugging information in verbose mode
func (r *DiagnosticReporter) printVerboseDebuggingInfo(genErr errors.GenError) {
	fmt.Fprintf(r.out, "Verbose Debug Information:\n")
	fmt.Fprintf(r.out, "  Error Code: %s (%d)\n", genErr.ErrorCode(), int(genErr.ErrorCode()))

	if cause := genErr.Unwrap(); cause != nil {
		fmt.Fprintf(r.out, "  Error Chain:\n")
		level := 1
		for err := cause; err != nil; err = stderrors.Unwrap(err) {
			fmt.Fprintf(r.out, "    %d. %s\n", level, err.Error())
			level++
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	SnapshotsLoaded     int
	AssembliesLoaded    int
	TypesCataloged      int
	TypesSkipped        int
	TypesEmitted        int
	InstancesConsidered int
	InstancesEmitted    int
	OutputFile          string
	BytesWritten        int
}
