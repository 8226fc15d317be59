package export

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SquareFit/internal/engine"
	"github.com/piwi3910/SquareFit/internal/model"
)

// RunSummary is the data encoded into the QR code on the PDF summary page.
type RunSummary struct {
	RunID             string          `json:"run"`
	Instance          int             `json:"instance"`
	Points            int             `json:"points"`
	Placed            int             `json:"placed"`
	Heuristic         model.Heuristic `json:"heuristic"`
	TotalDisplacement float64         `json:"total_displacement"`
	MaxDisplacement   float64         `json:"max_displacement"`
	Stats             engine.Stats    `json:"stats"`
}

// Summarize collects the QR summary of a run.
func Summarize(run Run) RunSummary {
	return RunSummary{
		RunID:             run.ID,
		Instance:          run.Instance.ID,
		Points:            len(run.Instance.Points),
		Placed:            run.Result.PlacedCount(),
		Heuristic:         run.Settings.Heuristic,
		TotalDisplacement: run.Result.TotalDisplacement,
		MaxDisplacement:   run.Result.MaxDisplacement,
		Stats:             run.Result.Stats,
	}
}

// qrSize is the printed QR code size in mm.
const qrSize = 40.0

// renderSummaryQR draws a QR code encoding the run summary as JSON with its
// top-left corner at (x, y).
func renderSummaryQR(pdf *fpdf.Fpdf, x, y float64, summary RunSummary) error {
	payload, err := sonic.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", summary.RunID, summary.Instance)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x-1, y-1, qrSize+2, qrSize+2, "D")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x, y+qrSize+1)
	pdf.CellFormat(qrSize, 3, "Run "+summary.RunID, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}
