package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cifrato/invoice-backend/internal/parser/ubl"
)

var outputFile string

var parseCmd = &cobra.Command{
	Use:   "parse [files...]",
	Short: "Parse UBL invoice XML files",
	Long: `Parse one or more DIAN electronic invoice XML files and print the
extracted data. Supports plain Invoice, CreditNote and AttachedDocument
profiles.

Examples:
  cifrato parse factura.xml
  cifrato parse facturas/*.xml -f table
  cifrato parse factura.xml -o resultado.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
}

// ParseResult holds the outcome for a single file.
type ParseResult struct {
	File    string             `json:"file"`
	Invoice *ubl.ParsedInvoice `json:"invoice,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func runParse(cmd *cobra.Command, args []string) error {
	results := make([]*ParseResult, 0, len(args))
	for _, file := range args {
		printVerbose("Parsing: %s\n", file)
		results = append(results, parseFile(file))
	}
	return outputResults(results)
}

func parseFile(path string) *ParseResult {
	result := &ParseResult{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read file: %v", err)
		return result
	}

	invoice, err := ubl.Parse(data)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	result.Invoice = invoice
	return result
}

func outputResults(results []*ParseResult) error {
	var writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	case "table":
		return outputTable(writer, results)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputTable(w *os.File, results []*ParseResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tID\tDATE\tSUPPLIER\tTOTAL\tLINES")
	fmt.Fprintln(tw, "----\t--\t----\t--------\t-----\t-----")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\n", r.File, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.File,
			r.Invoice.ExternalID,
			r.Invoice.IssueDate.Format("2006-01-02"),
			r.Invoice.SupplierName,
			r.Invoice.TotalAmount.String(),
			len(r.Invoice.Lines),
		)
	}
	return tw.Flush()
}
