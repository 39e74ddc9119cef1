package cabinetbundle

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/gorilla/mux"
	"github.com/jung-kurt/gofpdf"
)

// invoiceNumber shows the last six id characters, enough to reference a
// printed invoice on the phone.
func invoiceNumber(id string) string {
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return strings.ToUpper(id)
}

func (c *CabinetController) createInvoicePDF(invoice Invoice, patient *Patient) (string, error) {
	tmpPath := c.GetTmpUploadPath()
	os.MkdirAll(tmpPath, 0777)

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	cabinet := core.Config.Cabinet

	pdf.SetFont("Arial", "B", 12)
	pdf.Text(10, 14, tr(cabinet.DoctorName))
	pdf.SetFont("Arial", "", 9)
	pdf.Text(10, 20, tr(cabinet.Speciality))
	if cabinet.Inpe != "" {
		pdf.Text(10, 25, tr("INPE: "+cabinet.Inpe))
	}
	pdf.SetFont("Arial", "", 8)
	y := 30.0
	for _, line := range []string{cabinet.AddressLine1, cabinet.AddressLine2, cabinet.Phone} {
		if line != "" {
			pdf.Text(10, y, tr(line))
			y += 4
		}
	}

	pdf.Line(10, y+2, 138, y+2)
	y += 12

	pdf.SetFont("Arial", "B", 16)
	pdf.Text(10, y, "Facture")
	pdf.SetFont("Arial", "", 9)
	pdf.Text(10, y+6, tr(fmt.Sprintf("N° %s", invoiceNumber(invoice.ID))))
	if invoice.Date.Valid {
		pdf.Text(10, y+11, "Le "+invoice.Date.Time.Format("02/01/2006"))
	}

	pdf.SetFont("Arial", "B", 7)
	pdf.Text(95, y, tr("FACTURÉ À"))
	pdf.SetFont("Arial", "B", 10)
	if patient != nil {
		pdf.Text(95, y+6, tr(strings.ToUpper(patient.LastName)+" "+patient.FirstName))
		if patient.Cin != "" {
			pdf.SetFont("Arial", "", 8)
			pdf.Text(95, y+11, tr("CIN: "+patient.Cin))
		}
	} else {
		pdf.Text(95, y+6, tr(invoice.PatientName))
	}
	y += 20

	// items table
	pdf.SetY(y)
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(98, 7, tr("Désignation"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Total (MAD)", "B", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, item := range invoice.Items {
		pdf.CellFormat(98, 7, tr(item.Description), "B", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", float64(item.Price)), "B", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(98, 8, tr("NET À PAYER"), "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f MAD", float64(invoice.Total())), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 8)
	label := PaymentLabels[invoice.PaymentType]
	if label == "" {
		label = invoice.PaymentType
	}
	pdf.CellFormat(0, 6, tr("Mode de Règlement: "+label), "", 1, "L", false, 0, "")

	fileName := tmpPath + "facture_" + invoiceNumber(invoice.ID) + ".pdf"
	if err := pdf.OutputFileAndClose(fileName); err != nil {
		return "", err
	}
	return fileName, nil
}

func (c *CabinetController) GetInvoicePDFHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	invoices, err := c.loadInvoices()
	if c.HandleError(err, w) {
		return
	}

	var invoice *Invoice
	for i := range invoices {
		if invoices[i].ID == vars["invoiceId"] {
			invoice = &invoices[i]
			break
		}
	}
	if invoice == nil {
		c.HandleErrorWithStatus(errors.New("Invoice not found"), w, http.StatusNotFound)
		return
	}

	var patient *Patient
	if invoice.PatientID != "" && invoice.PatientID != "divers" {
		patients, err := c.loadPatients()
		if c.HandleError(err, w) {
			return
		}
		for i := range patients {
			if patients[i].ID == invoice.PatientID {
				patient = &patients[i]
				break
			}
		}
	}

	fileName, err := c.createInvoicePDF(*invoice, patient)
	if c.HandleError(err, w) {
		return
	}
	c.SendFileWithName(w, r, fileName, "attachment; filename=facture_"+invoiceNumber(invoice.ID)+".pdf")
}

func (c *CabinetController) createPrescriptionPDF(consultation Consultation, patient *Patient) (string, error) {
	tmpPath := c.GetTmpUploadPath()
	os.MkdirAll(tmpPath, 0777)

	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	cabinet := core.Config.Cabinet

	pdf.SetFont("Arial", "B", 12)
	pdf.Text(10, 14, tr(cabinet.DoctorName))
	pdf.SetFont("Arial", "", 9)
	pdf.Text(10, 20, tr(cabinet.Speciality))
	pdf.Line(10, 24, 138, 24)

	pdf.SetFont("Arial", "B", 14)
	pdf.Text(10, 36, "Ordonnance")
	pdf.SetFont("Arial", "", 9)
	if consultation.Date.Valid {
		pdf.Text(10, 42, "Le "+consultation.Date.Time.Format("02/01/2006"))
	}
	name := consultation.PatientName
	if patient != nil {
		name = patient.FullName()
	}
	pdf.Text(10, 47, tr("Patient: "+name))

	pdf.SetY(56)
	pdf.SetFont("Arial", "", 10)
	for _, line := range consultation.Prescription {
		pdf.CellFormat(0, 8, tr("- "+line), "", 1, "L", false, 0, "")
	}

	fileName := tmpPath + "ordonnance_" + consultation.ID + ".pdf"
	if err := pdf.OutputFileAndClose(fileName); err != nil {
		return "", err
	}
	return fileName, nil
}

func (c *CabinetController) GetPrescriptionPDFHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	consultations, err := c.loadConsultations()
	if c.HandleError(err, w) {
		return
	}

	var consultation *Consultation
	for i := range consultations {
		if consultations[i].ID == vars["consultationId"] {
			consultation = &consultations[i]
			break
		}
	}
	if consultation == nil {
		c.HandleErrorWithStatus(errors.New("Consultation not found"), w, http.StatusNotFound)
		return
	}
	if len(consultation.Prescription) == 0 {
		c.HandleErrorWithStatus(errors.New("Consultation has no prescription"), w, http.StatusBadRequest)
		return
	}

	var patient *Patient
	if consultation.PatientID != "" {
		patients, err := c.loadPatients()
		if c.HandleError(err, w) {
			return
		}
		for i := range patients {
			if patients[i].ID == consultation.PatientID {
				patient = &patients[i]
				break
			}
		}
	}

	fileName, err := c.createPrescriptionPDF(*consultation, patient)
	if c.HandleError(err, w) {
		return
	}

	c.SendFileWithName(w, r, fileName, "attachment; filename=ordonnance_"+consultation.ID+".pdf")
}
