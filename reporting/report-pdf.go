package reporting

import (
	"fmt"
	"os"
	"time"

	"github.com/activecm/xrootd-monitor/pkg/acquisition"
	"github.com/activecm/xrootd-monitor/pkg/xrootd"
	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 50, "L"},
	{"Active", 30, "R"},
	{"Finished", 30, "R"},
	{"Running", 30, "R"},
	{"Rate (MB/s)", 40, "R"},
}

// PrintPDF writes a PDF with one page per instance holding the latest
// plot of the instance and its details table
func PrintPDF(instances []string, outFile string, repo xrootd.Repository, archive *acquisition.Archive) error {
	if len(instances) == 0 {
		return fmt.Errorf("no instances to report on")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	generated := time.Now().Format(updatedFormat)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr("Generated by xrootd-monitor | "+generated), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	for _, instance := range instances {
		pdf.AddPage()
		pdf.SetFillColor(40, 40, 40)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 12, tr("  "+instance), "", 1, "L", true, 0, "")
		pdf.Ln(4)

		pdf.SetTextColor(50, 50, 50)
		pdf.SetFont("Arial", "", 10)

		dataset, err := repo.LatestDataset(instance)
		if err == xrootd.ErrNotFound {
			pdf.MultiCell(190, 5, tr("No datasets have been acquired for this instance yet."), "", "L", false)
			continue
		} else if err != nil {
			return err
		}

		pdf.MultiCell(190, 5, tr(fmt.Sprintf("%s: %s, acquired %s from %s",
			dataset.TierName, dataset.Attribute, dataset.Time.Format(updatedFormat), dataset.SourceURL)), "", "L", false)
		pdf.Ln(4)

		plotPath := archive.Locate(dataset.Time, dataset.RunID, dataset.FilenamePlot)
		if _, err := os.Stat(plotPath); err == nil {
			pdf.ImageOptions(plotPath, 10, pdf.GetY(), 190, 0, true,
				gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
			pdf.Ln(4)
		} else {
			pdf.MultiCell(190, 5, tr("Plot "+dataset.FilenamePlot+" is missing."), "", "L", false)
		}

		details, err := repo.FindDetails(dataset.ID)
		if err != nil {
			return err
		}
		writeDetailsTable(pdf, details)
	}

	if err := pdf.OutputFileAndClose(outFile); err != nil {
		return fmt.Errorf("error writing PDF file: %w", err)
	}
	fmt.Println("[-] Wrote " + outFile)
	return nil
}

func writeDetailsTable(pdf *gofpdf.Fpdf, details []xrootd.Detail) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "B", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, d := range details {
		cells := []string{
			d.Date,
			fmt.Sprintf("%.0f", d.Active),
			fmt.Sprintf("%.0f", d.Finished),
			fmt.Sprintf("%.0f", d.Running()),
			fmt.Sprintf("%.3f", d.Rate),
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, cells[i], "", 0, col.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}
