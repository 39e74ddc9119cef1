package importbundle

import (
	"strings"

	"github.com/GFattehallah/CMHE-Manager/app/cabinetbundle"
)

// Keyword groups for ledger columns.
var (
	amountKeywords      = []string{"montant", "prix", "somme", "amount", "total", "valeur", "honoraire"}
	dateKeywords        = []string{"date", "jour", "le", "periode", "moment", "time", "echeance"}
	paymentKeywords     = []string{"paiement", "mode", "reglement", "type", "moyen"}
	expenseDescKeywords = []string{"designation", "description", "motif", "objet", "label", "libelle"}
	categoryKeywords    = []string{"categorie", "type", "classe", "nature"}
	revenueDescKeywords = []string{"motif", "acte", "objet", "libelle", "description", "designation"}
	payerKeywords       = []string{"patient", "client", "nom", "beneficiaire", "nomcomplet"}
)

const (
	defaultExpenseDescription = "Dépense Importée"
	defaultRevenueDescription = "Recette Importée"

	// UnresolvedPatientID marks revenue rows whose payer could not be
	// matched against the patient list.
	UnresolvedPatientID = "divers"
)

// ExpenseDraft is one staged expense row.
type ExpenseDraft struct {
	Date         string  `json:"date"`
	DateDetected bool    `json:"date_detected"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	Category     string  `json:"category"`
	PaymentType  string  `json:"payment_type"`
}

// RevenueDraft is one staged revenue row. It becomes a paid single item
// invoice on commit.
type RevenueDraft struct {
	Date         string  `json:"date"`
	DateDetected bool    `json:"date_detected"`
	Amount       float64 `json:"amount"`
	Description  string  `json:"description"`
	PatientID    string  `json:"patient_id"`
	PatientName  string  `json:"patient_name"`
	PaymentType  string  `json:"payment_type"`
}

func mapPaymentType(headers []string, row Row) string {
	raw := ExtractString(headers, row, paymentKeywords)
	if raw == "" {
		raw = "Especes"
	}
	mode := Normalize(raw)
	switch {
	case strings.Contains(mode, "cheque"):
		return cabinetbundle.PaymentCheck
	case strings.Contains(mode, "virement"):
		return cabinetbundle.PaymentTransfer
	case strings.Contains(mode, "carte"), strings.Contains(mode, "cb"):
		return cabinetbundle.PaymentCard
	}
	return cabinetbundle.PaymentCash
}

// MapExpenseRow applies the column heuristics to one expense row. Rows whose
// amount coerces to zero or below are dropped by the caller.
func MapExpenseRow(headers []string, row Row, defaultDate string) ExpenseDraft {
	amountCell, _ := ExtractCell(headers, row, amountKeywords)
	dateCell, _ := ExtractCell(headers, row, dateKeywords)
	date, detected := CoerceDate(dateCell, defaultDate)

	description := ExtractString(headers, row, expenseDescKeywords)
	if description == "" {
		description = defaultExpenseDescription
	}

	categoryRaw := Normalize(ExtractString(headers, row, categoryKeywords))
	category := cabinetbundle.CategoryOther
	switch {
	case strings.Contains(categoryRaw, "loyer"), strings.Contains(categoryRaw, "fixe"), strings.Contains(categoryRaw, "charge"):
		category = cabinetbundle.CategoryFixed
	case strings.Contains(categoryRaw, "conso"), strings.Contains(categoryRaw, "medical"), strings.Contains(categoryRaw, "achat"):
		category = cabinetbundle.CategoryConsumable
	case strings.Contains(categoryRaw, "salaire"), strings.Contains(categoryRaw, "prime"), strings.Contains(categoryRaw, "perso"):
		category = cabinetbundle.CategorySalary
	case strings.Contains(categoryRaw, "materiel"), strings.Contains(categoryRaw, "equip"), strings.Contains(categoryRaw, "immo"):
		category = cabinetbundle.CategoryEquipment
	case strings.Contains(categoryRaw, "tax"), strings.Contains(categoryRaw, "impot"), strings.Contains(categoryRaw, "etat"):
		category = cabinetbundle.CategoryTax
	}

	return ExpenseDraft{
		Date:         date,
		DateDetected: detected,
		Amount:       CoerceAmount(amountCell),
		Description:  description,
		Category:     category,
		PaymentType:  mapPaymentType(headers, row),
	}
}

// MapRevenueRow applies the column heuristics to one revenue row and tries
// to resolve the payer against the known patients.
func MapRevenueRow(headers []string, row Row, defaultDate string, patients cabinetbundle.Patients) RevenueDraft {
	amountCell, _ := ExtractCell(headers, row, amountKeywords)
	dateCell, _ := ExtractCell(headers, row, dateKeywords)
	date, detected := CoerceDate(dateCell, defaultDate)

	description := ExtractString(headers, row, revenueDescKeywords)
	if description == "" {
		description = defaultRevenueDescription
	}

	patientName := ExtractString(headers, row, payerKeywords)
	patientID := UnresolvedPatientID
	if patientName != "" {
		if patient := ResolvePatient(patientName, patients); patient != nil {
			patientID = patient.ID
		}
	}
	if patientName == "" {
		patientName = "Divers"
	}

	return RevenueDraft{
		Date:         date,
		DateDetected: detected,
		Amount:       CoerceAmount(amountCell),
		Description:  description,
		PatientID:    patientID,
		PatientName:  patientName,
		PaymentType:  mapPaymentType(headers, row),
	}
}

// MapExpenseRows maps every table row and keeps the rows with a positive
// amount. Rows whose amount coerces to zero or below never reach staging.
func MapExpenseRows(table Table, defaultDate string) []ExpenseDraft {
	drafts := make([]ExpenseDraft, 0, len(table.Rows))
	for _, row := range table.Rows {
		draft := MapExpenseRow(table.Headers, row, defaultDate)
		if draft.Amount > 0 {
			drafts = append(drafts, draft)
		}
	}
	return drafts
}

// MapRevenueRows maps every table row and keeps the rows with a positive
// amount.
func MapRevenueRows(table Table, defaultDate string, patients cabinetbundle.Patients) []RevenueDraft {
	drafts := make([]RevenueDraft, 0, len(table.Rows))
	for _, row := range table.Rows {
		draft := MapRevenueRow(table.Headers, row, defaultDate, patients)
		if draft.Amount > 0 {
			drafts = append(drafts, draft)
		}
	}
	return drafts
}

// ResolvePatient matches a free text payer name against the patient list.
// The normalized full name must contain the sheet name, or the sheet name
// must contain the normalized last name.
func ResolvePatient(name string, patients cabinetbundle.Patients) *cabinetbundle.Patient {
	nameInSheet := Normalize(name)
	if nameInSheet == "" {
		return nil
	}
	for i := range patients {
		fullName := Normalize(patients[i].LastName + " " + patients[i].FirstName)
		lastName := Normalize(patients[i].LastName)
		if strings.Contains(fullName, nameInSheet) || (lastName != "" && strings.Contains(nameInSheet, lastName)) {
			return &patients[i]
		}
	}
	return nil
}
