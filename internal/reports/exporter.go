package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// table is the format-neutral shape every export is rendered from.
type table struct {
	title   string
	sheet   string
	name    string
	headers []string
	widths  []float64
	rows    [][]string
}

type Exporter interface {
	Bills(format string, rows []BillReportRow) (*File, error)
	Payments(format string, rows []PaymentReportRow) (*File, error)
}

type exporter struct {
	now func() time.Time
}

func NewExporter() Exporter {
	return &exporter{now: time.Now}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (e *exporter) Bills(format string, rows []BillReportRow) (*File, error) {
	t := table{
		title:   "Bills Report",
		sheet:   "Bills",
		name:    "bills_report",
		headers: []string{"ID", "Month", "Flat", "Tenant", "Email", "Rent", "Utilities", "Services", "Discount", "Total", "Status", "Due Date"},
		widths:  []float64{10, 14, 14, 34, 46, 20, 20, 20, 18, 22, 30, 22},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Month,
			r.FlatNumber,
			r.TenantName,
			r.TenantEmail,
			money(r.Rent),
			money(r.Utilities),
			money(r.Services),
			money(r.Discount),
			money(r.Total),
			r.Status,
			r.DueDate.Format("2006-01-02"),
		})
	}
	return e.render(format, t)
}

func (e *exporter) Payments(format string, rows []PaymentReportRow) (*File, error) {
	t := table{
		title:   "Payments Report",
		sheet:   "Payments",
		name:    "payments_report",
		headers: []string{"ID", "Bill", "Month", "Tenant", "Amount", "bKash Txn", "bKash Phone", "Status", "Submitted", "Verified"},
		widths:  []float64{12, 14, 18, 42, 24, 38, 30, 22, 36, 36},
	}
	for _, r := range rows {
		verified := ""
		if r.VerifiedAt != nil {
			verified = r.VerifiedAt.Format("2006-01-02 15:04")
		}
		t.rows = append(t.rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			strconv.FormatUint(uint64(r.BillID), 10),
			r.BillMonth,
			r.TenantName,
			money(r.Amount),
			r.BkashTransactionID,
			r.BkashPhoneNumber,
			r.Status,
			r.CreatedAt.Format("2006-01-02 15:04"),
			verified,
		})
	}
	return e.render(format, t)
}

func (e *exporter) render(format string, t table) (*File, error) {
	timestamp := e.now().Format("20060102_150405")

	var (
		data []byte
		err  error
		ext  string
		mime string
	)
	switch format {
	case FormatCSV:
		data, err = exportCSV(t)
		ext, mime = "csv", mimeCSV
	case FormatExcel:
		data, err = exportExcel(t)
		ext, mime = "xlsx", mimeExcel
	case FormatPDF:
		data, err = exportPDF(t)
		ext, mime = "pdf", mimePDF
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return nil, err
	}
	return &File{
		Data:     data,
		Filename: fmt.Sprintf("%s_%s.%s", t.name, timestamp, ext),
		MimeType: mime,
	}, nil
}

func exportCSV(t table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportExcel(t table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(t.sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, h := range t.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(t.sheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(t.headers), 1)
	if err := f.SetCellStyle(t.sheet, "A1", last, header); err != nil {
		return nil, err
	}

	for r, row := range t.rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(t.sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportPDF(t table) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, t.title)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 8)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 7)
	for _, row := range t.rows {
		for i, v := range row {
			pdf.CellFormat(t.widths[i], 6, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
