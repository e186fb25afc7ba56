package documents

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

func frDate(t time.Time) string {
	months := []string{
		"janvier", "février", "mars", "avril", "mai", "juin",
		"juillet", "août", "septembre", "octobre", "novembre", "décembre",
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

func formatXOF(amount int64) string {
	return fmt.Sprintf("%d FCFA", amount)
}

func newPDF() (*gofpdf.Fpdf, func(string) string) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	return pdf, tr
}

// WorkCertificate renders the certificat de travail the employer must hand
// over on termination.
func WorkCertificate(data CertificateData) ([]byte, error) {
	pdf, tr := newPDF()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("CERTIFICAT DE TRAVAIL"))
	pdf.Ln(15)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 7, tr(fmt.Sprintf(
		"Nous soussignés, %s, certifions que %s %s a été employé(e) au sein de notre société "+
			"du %s au %s en qualité de %s, au département %s.",
		data.CompanyName, data.FirstName, data.LastName,
		frDate(data.HireDate), frDate(data.EndDate), data.Position, data.Department)), "", "L", false)
	pdf.Ln(5)
	pdf.MultiCell(0, 7, tr("L'intéressé(e) nous quitte libre de tout engagement. "+
		"En foi de quoi, nous lui délivrons le présent certificat pour servir et valoir ce que de droit."), "", "L", false)
	pdf.Ln(15)

	pdf.Cell(0, 8, tr(fmt.Sprintf("Fait à Abidjan, le %s", frDate(time.Now()))))
	pdf.Ln(20)
	pdf.Cell(0, 8, tr("La Direction"))

	return output(pdf)
}

// CNPSAttestation renders the attestation the employee files with the CNPS
// to close their contribution account.
func CNPSAttestation(data CertificateData) ([]byte, error) {
	pdf, tr := newPDF()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("ATTESTATION CNPS"))
	pdf.Ln(15)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Employeur : %s", data.CompanyName)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Salarié(e) : %s %s", data.FirstName, data.LastName)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Matricule CNPS : %s", data.CNPSNumber)))
	pdf.Ln(12)
	pdf.MultiCell(0, 7, tr(fmt.Sprintf(
		"Nous attestons que les cotisations sociales de l'intéressé(e) ont été régulièrement "+
			"déclarées et versées à la Caisse Nationale de Prévoyance Sociale pour la période "+
			"du %s au %s.",
		frDate(data.HireDate), frDate(data.EndDate))), "", "L", false)
	pdf.Ln(15)

	pdf.Cell(0, 8, tr(fmt.Sprintf("Fait à Abidjan, le %s", frDate(time.Now()))))
	pdf.Ln(20)
	pdf.Cell(0, 8, tr("La Direction"))

	return output(pdf)
}

// FinalPayslip renders the solde de tout compte.
func FinalPayslip(data FinalPayslipData) ([]byte, error) {
	pdf, tr := newPDF()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("SOLDE DE TOUT COMPTE"))
	pdf.Ln(15)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Employeur : %s", data.CompanyName)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Salarié(e) : %s %s", data.FirstName, data.LastName)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Matricule CNPS : %s", data.CNPSNumber)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Date de fin de contrat : %s", frDate(data.EndDate))))
	pdf.Ln(12)

	line := func(label string, amount int64) {
		pdf.Cell(110, 8, tr(label))
		pdf.CellFormat(50, 8, tr(formatXOF(amount)), "", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	line("Salaire brut du dernier mois", data.Gross)
	line("Cotisation CNPS (part salariale)", -data.CNPSEmployee)
	line("Cotisation CMU (part salariale)", -data.CMUEmployee)
	line("Impôt sur les traitements et salaires", -data.ITS)
	if data.Severance > 0 {
		line("Indemnité de licenciement", data.Severance)
	}
	if data.NoticePay > 0 {
		line("Indemnité compensatrice de préavis", data.NoticePay)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	line("NET À PAYER", data.Net)

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
