// Package export renders saved prescriptions for printing.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/julianstephens/clinicdesk/internal/models"
)

// Header is the context printed above the prescriptions.
type Header struct {
	DoctorName string
	Generated  time.Time
}

// PrescriptionPDF renders every prescription of one appointment into a
// single A4 document.
func PrescriptionPDF(w io.Writer, h Header, prescriptions []models.Prescription) error {
	if len(prescriptions) == 0 {
		return fmt.Errorf("no prescriptions to export")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "Clinic Prescription", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	generated := h.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	pdf.CellFormat(0, 7, "Generated "+generated.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	if h.DoctorName != "" {
		pdf.CellFormat(0, 7, "Dr. "+h.DoctorName, "", 1, "C", false, 0, "")
	}

	for i, p := range prescriptions {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, fmt.Sprintf("Prescription %d", i+1), "1", 1, "C", false, 0, "")
		detail(pdf, "Patient", p.PatientName)
		detail(pdf, "Appointment", fmt.Sprintf("%d", p.AppointmentID))
		detail(pdf, "Medication", p.Medication)
		detail(pdf, "Dosage", p.Dosage)
		if p.DoctorNotes != "" {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(0, 8, "Notes", "LR", 1, "", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.MultiCell(0, 6, p.DoctorNotes, "LRB", "L", false)
		}
	}

	pdf.SetY(pdf.GetY() + 12)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 10, "This is a computer generated prescription", "", 1, "R", false, 0, "")

	return pdf.Output(w)
}

func detail(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 8, label, "1", 0, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, value, "1", 1, "", false, 0, "")
}

// WritePrescriptionPDF renders into path, replacing any existing file.
func WritePrescriptionPDF(path string, h Header, prescriptions []models.Prescription) error {
	var buf bytes.Buffer
	if err := PrescriptionPDF(&buf, h, prescriptions); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
