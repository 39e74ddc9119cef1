package cabinetbundle

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// createFinanceWorkbook builds the yearly export with one sheet per side of
// the ledger, Recettes and Dépenses.
func (c *CabinetController) createFinanceWorkbook(year int, invoices Invoices, expenses Expenses, patients Patients) (*excelize.File, error) {
	f := excelize.NewFile()

	patientNames := make(map[string]string, len(patients))
	for _, patient := range patients {
		patientNames[patient.ID] = patient.FullName()
	}

	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].Date.Time.Before(invoices[j].Date.Time)
	})
	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Date.Time.Before(expenses[j].Date.Time)
	})

	if _, err := f.NewSheet("Recettes"); err != nil {
		return nil, err
	}
	headers := []string{"Date", "Patient", "Motif", "Mode de Paiement", "Montant (MAD)"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Recettes", cell, header)
	}
	row := 2
	for _, invoice := range invoices {
		if !invoice.Date.Valid || invoice.Date.Time.Year() != year {
			continue
		}
		name := patientNames[invoice.PatientID]
		if name == "" {
			name = invoice.PatientName
		}
		motif := "Recette"
		if len(invoice.Items) > 0 && invoice.Items[0].Description != "" {
			motif = invoice.Items[0].Description
		}
		label := PaymentLabels[invoice.PaymentType]
		if label == "" {
			label = invoice.PaymentType
		}
		values := []interface{}{invoice.Date.Time.Format("02/01/2006"), name, motif, label, float64(invoice.Amount)}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue("Recettes", cell, value)
		}
		row++
	}

	if _, err := f.NewSheet("Dépenses"); err != nil {
		return nil, err
	}
	headers = []string{"Date", "Catégorie", "Désignation", "Mode de Paiement", "Montant (MAD)"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue("Dépenses", cell, header)
	}
	row = 2
	for _, expense := range expenses {
		if !expense.Date.Valid || expense.Date.Time.Year() != year {
			continue
		}
		category := CategoryLabels[expense.Category]
		if category == "" {
			category = expense.Category
		}
		label := PaymentLabels[expense.PaymentType]
		if label == "" {
			label = expense.PaymentType
		}
		values := []interface{}{expense.Date.Time.Format("02/01/2006"), category, expense.Description, label, float64(expense.Amount)}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue("Dépenses", cell, value)
		}
		row++
	}

	f.DeleteSheet("Sheet1")
	return f, nil
}

func (c *CabinetController) ExportFinanceHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	year := time.Now().Year()
	if val, ok := r.URL.Query()["year"]; ok && len(val) > 0 && val[0] != "" {
		if parsed, err := strconv.Atoi(val[0]); err == nil {
			year = parsed
		}
	}

	invoices, err := c.loadInvoices()
	if c.HandleError(err, w) {
		return
	}
	expenses, err := c.loadExpenses()
	if c.HandleError(err, w) {
		return
	}
	patients, err := c.loadPatients()
	if c.HandleError(err, w) {
		return
	}

	f, err := c.createFinanceWorkbook(year, invoices, expenses, patients)
	if c.HandleError(err, w) {
		return
	}

	tmpPath := c.GetTmpUploadPath()
	os.MkdirAll(tmpPath, 0777)
	fileName := tmpPath + fmt.Sprintf("Finance_Cabinet_%d.xlsx", year)
	if err := f.SaveAs(fileName); c.HandleError(err, w) {
		return
	}

	c.SendFileWithName(w, r, fileName, fmt.Sprintf("attachment; filename=Finance_Cabinet_%d.xlsx", year))
}
