// Package export renders claim triage history as CSV or XLSX for download.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"polisure/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"Claim ID",
	"Status",
	"Extractor",
	"Incident Type",
	"Incident Date",
	"Location",
	"Involved Parties",
	"Damage Description",
	"Estimated Cost",
	"Key Topics",
	"Eligible",
	"Matched Policy",
	"Suggested Policy",
	"Confidence",
	"Reasoning",
	"Triage Error",
	"Submitted At",
}

// Writer wraps csv.Writer for exporting claims as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteClaims converts a batch of claims to CSV rows and writes them.
func (w *Writer) WriteClaims(claims []domain.Claim) error {
	for i := range claims {
		if err := w.csv.Write(claimToRow(&claims[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// claimToRow converts a single claim to a string slice matching columns.
// Extraction and verification columns stay empty when the stored JSON is
// missing or unparsable; metadata columns are always filled.
func claimToRow(claim *domain.Claim) []string {
	row := make([]string, len(columns))

	row[0] = claim.ID.String()
	row[1] = string(claim.Status)
	row[2] = claim.ExtractorUsed
	row[15] = claim.TriageError
	row[16] = claim.CreatedAt.Format("2006-01-02 15:04:05")

	if len(claim.Extraction) > 0 {
		var ext domain.ClaimExtraction
		if err := json.Unmarshal(claim.Extraction, &ext); err == nil {
			row[3] = ext.IncidentType
			row[4] = ext.IncidentDate
			row[5] = ext.Location
			row[6] = strings.Join(ext.InvolvedParties, "; ")
			row[7] = ext.DamageDescription
			row[8] = ext.EstimatedCost
			row[9] = strings.Join(ext.KeyTopics, "; ")
		}
	}

	if len(claim.Verification) > 0 {
		var ver domain.VerificationResult
		if err := json.Unmarshal(claim.Verification, &ver); err == nil {
			row[10] = strconv.FormatBool(ver.Eligible)
			row[11] = ver.MatchedPolicy
			row[12] = ver.SuggestedPolicy
			row[13] = strconv.FormatFloat(ver.Confidence, 'f', 2, 64)
			row[14] = ver.Reasoning
		}
	}
	return row
}

// WriteCSV writes the full claim history as BOM-prefixed CSV to w.
func WriteCSV(w io.Writer, claims []domain.Claim) error {
	if _, err := w.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	writer := NewWriter(w)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	if err := writer.WriteClaims(claims); err != nil {
		return fmt.Errorf("writing CSV rows: %w", err)
	}
	writer.Flush()
	return writer.Error()
}

const xlsxSheet = "Claims"

// WriteXLSX writes the full claim history as an XLSX workbook to w.
func WriteXLSX(w io.Writer, claims []domain.Claim) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	for i := range claims {
		strRow := claimToRow(&claims[i])
		row := make([]interface{}, len(strRow))
		for j, v := range strRow {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell for row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
