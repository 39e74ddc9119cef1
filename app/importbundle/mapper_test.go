package importbundle

import (
	"reflect"
	"testing"

	"github.com/GFattehallah/CMHE-Manager/app/cabinetbundle"
)

func TestMapPatientRowSeparateColumns(t *testing.T) {
	headers := []string{"nom", "prenom", "datedenaissance", "cin", "telephone", "mutuelle"}
	row := textRow("alami", "Karim", "15/03/1985", "ab123456", "0612345678", "CNSS")

	draft := MapPatientRow(headers, row)

	if draft.LastName != "ALAMI" {
		t.Errorf("LastName = %q, want ALAMI", draft.LastName)
	}
	if draft.FirstName != "Karim" {
		t.Errorf("FirstName = %q, want Karim", draft.FirstName)
	}
	if draft.BirthDate != "1985-03-15" || !draft.BirthDateDetected {
		t.Errorf("BirthDate = (%q, %v), want 1985-03-15 detected", draft.BirthDate, draft.BirthDateDetected)
	}
	if draft.Cin != "AB123456" {
		t.Errorf("Cin = %q, want AB123456", draft.Cin)
	}
	if draft.InsuranceType != cabinetbundle.InsuranceCnss {
		t.Errorf("InsuranceType = %q, want CNSS", draft.InsuranceType)
	}
}

func TestMapPatientRowCombinedName(t *testing.T) {
	headers := []string{"patient", "montant"}
	row := textRow("Martin Sophie Claire", "200")

	draft := MapPatientRow(headers, row)

	if draft.LastName != "MARTIN" {
		t.Errorf("LastName = %q, want MARTIN", draft.LastName)
	}
	if draft.FirstName != "Sophie Claire" {
		t.Errorf("FirstName = %q, want %q", draft.FirstName, "Sophie Claire")
	}
}

func TestMapPatientRowSingleWordName(t *testing.T) {
	headers := []string{"nomcomplet"}
	row := textRow("Benani")

	draft := MapPatientRow(headers, row)

	if draft.LastName != "BENANI" {
		t.Errorf("LastName = %q, want BENANI", draft.LastName)
	}
	if draft.FirstName != "-" {
		t.Errorf("FirstName = %q, want -", draft.FirstName)
	}
}

func TestMapPatientRowPlaceholders(t *testing.T) {
	headers := []string{"telephone"}
	row := textRow("0612345678")

	draft := MapPatientRow(headers, row)

	if draft.LastName != placeholderLastName {
		t.Errorf("LastName = %q, want placeholder", draft.LastName)
	}
	if draft.FirstName != placeholderFirstName {
		t.Errorf("FirstName = %q, want placeholder", draft.FirstName)
	}
	if draft.BirthDate != defaultBirthDate || draft.BirthDateDetected {
		t.Errorf("BirthDate = (%q, %v), want the undetected placeholder", draft.BirthDate, draft.BirthDateDetected)
	}
}

func TestMapPatientRowInsurance(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"CNSS", cabinetbundle.InsuranceCnss},
		{"assurance cnops", cabinetbundle.InsuranceCnops},
		{"AXA Assurance", cabinetbundle.InsurancePrivate},
		{"assurance privee", cabinetbundle.InsurancePrivate},
		{"RMA Watanya", cabinetbundle.InsurancePrivate},
		{"", cabinetbundle.InsuranceNone},
		{"aucune", cabinetbundle.InsuranceNone},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			headers := []string{"nom", "mutuelle"}
			row := textRow("ALAMI", tt.raw)
			draft := MapPatientRow(headers, row)
			if draft.InsuranceType != tt.want {
				t.Errorf("insurance %q mapped to %q, want %q", tt.raw, draft.InsuranceType, tt.want)
			}
		})
	}
}

func TestMapPatientRowLists(t *testing.T) {
	headers := []string{"nom", "antecedents", "allergies"}
	row := textRow("ALAMI", "HTA; Diabète", "Pénicilline")

	draft := MapPatientRow(headers, row)

	if !reflect.DeepEqual([]string(draft.MedicalHistory), []string{"HTA", "Diabète"}) {
		t.Errorf("MedicalHistory = %v", draft.MedicalHistory)
	}
	if !reflect.DeepEqual([]string(draft.Allergies), []string{"Pénicilline"}) {
		t.Errorf("Allergies = %v", draft.Allergies)
	}
}

func TestIsDuplicatePatient(t *testing.T) {
	existing := cabinetbundle.Patients{
		{LastName: "ALAMI", FirstName: "Karim", Cin: "AB123456", Phone: "0612345678"},
		{LastName: "BENANI", FirstName: "Sara", Phone: ""},
	}

	tests := []struct {
		name  string
		draft PatientDraft
		want  bool
	}{
		{"cin match beats different name", PatientDraft{LastName: "AUTRE", FirstName: "Nom", Cin: "AB123456"}, true},
		{"name and phone match", PatientDraft{LastName: "ALAMI", FirstName: "Karim", Phone: "0612345678"}, true},
		{"same name different phone", PatientDraft{LastName: "ALAMI", FirstName: "Karim", Phone: "0699999999"}, false},
		{"same name blank phone imports", PatientDraft{LastName: "BENANI", FirstName: "Sara"}, false},
		{"unknown patient", PatientDraft{LastName: "NOUVEAU", FirstName: "Patient", Cin: "XY000001"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicatePatient(tt.draft, existing); got != tt.want {
				t.Errorf("IsDuplicatePatient() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapExpenseRow(t *testing.T) {
	headers := []string{"date", "designation", "categorie", "montant", "modedepaiement"}
	row := textRow("15/03/2024", "Loyer cabinet", "Charges fixes", "4 500,00", "Virement")

	draft := MapExpenseRow(headers, row, "2024-01-01")

	if draft.Date != "2024-03-15" || !draft.DateDetected {
		t.Errorf("Date = (%q, %v)", draft.Date, draft.DateDetected)
	}
	if draft.Description != "Loyer cabinet" {
		t.Errorf("Description = %q", draft.Description)
	}
	if draft.Category != cabinetbundle.CategoryFixed {
		t.Errorf("Category = %q, want FIXED", draft.Category)
	}
	if draft.Amount != 4500 {
		t.Errorf("Amount = %v, want 4500", draft.Amount)
	}
	if draft.PaymentType != cabinetbundle.PaymentTransfer {
		t.Errorf("PaymentType = %q, want VIREMENT", draft.PaymentType)
	}
}

func TestMapExpenseRowDefaults(t *testing.T) {
	headers := []string{"montant"}
	row := textRow("100")

	draft := MapExpenseRow(headers, row, "2024-06-01")

	if draft.Date != "2024-06-01" || draft.DateDetected {
		t.Errorf("Date = (%q, %v), want fallback undetected", draft.Date, draft.DateDetected)
	}
	if draft.Description != defaultExpenseDescription {
		t.Errorf("Description = %q", draft.Description)
	}
	if draft.Category != cabinetbundle.CategoryOther {
		t.Errorf("Category = %q, want OTHER", draft.Category)
	}
	if draft.PaymentType != cabinetbundle.PaymentCash {
		t.Errorf("PaymentType = %q, want CASH", draft.PaymentType)
	}
}

func TestMapExpenseRowCategories(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Loyer", cabinetbundle.CategoryFixed},
		{"Achat médical", cabinetbundle.CategoryConsumable},
		{"Salaires et primes", cabinetbundle.CategorySalary},
		{"Équipement", cabinetbundle.CategoryEquipment},
		{"Impôts", cabinetbundle.CategoryTax},
		{"Divers", cabinetbundle.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			headers := []string{"montant", "nature"}
			row := textRow("100", tt.raw)
			draft := MapExpenseRow(headers, row, "2024-01-01")
			if draft.Category != tt.want {
				t.Errorf("category %q mapped to %q, want %q", tt.raw, draft.Category, tt.want)
			}
		})
	}
}

func TestMapExpenseRowsDropsNonPositiveAmounts(t *testing.T) {
	table := Table{
		Headers: []string{"designation", "montant"},
		Rows: []Row{
			textRow("Loyer", "4500"),
			textRow("Gratuit", "0"),
			textRow("Avoir", "-50"),
			textRow("Fournitures", "120,50"),
		},
	}

	drafts := MapExpenseRows(table, "2024-01-01")

	if len(drafts) != 2 {
		t.Fatalf("len(drafts) = %d, want 2", len(drafts))
	}
	if drafts[0].Description != "Loyer" || drafts[1].Description != "Fournitures" {
		t.Errorf("kept %q and %q, want Loyer and Fournitures", drafts[0].Description, drafts[1].Description)
	}
}

func TestMapRevenueRowsDropsNonPositiveAmounts(t *testing.T) {
	table := Table{
		Headers: []string{"patient", "montant"},
		Rows: []Row{
			textRow("Dupont Jean", "150"),
			textRow("Martin Sophie", "0"),
		},
	}

	drafts := MapRevenueRows(table, "2024-01-01", nil)

	if len(drafts) != 1 {
		t.Fatalf("len(drafts) = %d, want 1", len(drafts))
	}
	if drafts[0].PatientName != "Dupont Jean" {
		t.Errorf("PatientName = %q, want Dupont Jean", drafts[0].PatientName)
	}
}

func TestMapRevenueRowResolvesPatient(t *testing.T) {
	patients := cabinetbundle.Patients{
		{LastName: "EL AMRANI", FirstName: "Yasmine"},
		{LastName: "ALAMI", FirstName: "Karim"},
	}
	patients[0].ID = "P-001"
	patients[1].ID = "P-002"

	headers := []string{"nomcomplet", "montant", "date", "acte"}
	row := textRow("el amrani yasmine", "150,00", "15/03/2024", "Consultation")

	draft := MapRevenueRow(headers, row, "2024-01-01", patients)

	if draft.PatientID != "P-001" {
		t.Errorf("PatientID = %q, want P-001", draft.PatientID)
	}
	if draft.Amount != 150 {
		t.Errorf("Amount = %v, want 150", draft.Amount)
	}
	if draft.Date != "2024-03-15" || !draft.DateDetected {
		t.Errorf("Date = (%q, %v)", draft.Date, draft.DateDetected)
	}
	if draft.Description != "Consultation" {
		t.Errorf("Description = %q", draft.Description)
	}
}

func TestMapRevenueRowUnresolvedPatient(t *testing.T) {
	headers := []string{"patient", "montant"}
	row := textRow("Inconnu Personne", "100")

	draft := MapRevenueRow(headers, row, "2024-01-01", nil)

	if draft.PatientID != UnresolvedPatientID {
		t.Errorf("PatientID = %q, want %q", draft.PatientID, UnresolvedPatientID)
	}
	if draft.PatientName != "Inconnu Personne" {
		t.Errorf("PatientName = %q, original name must be kept", draft.PatientName)
	}
	if draft.Description != defaultRevenueDescription {
		t.Errorf("Description = %q", draft.Description)
	}
}

func TestRevenueImportFromOffsetSheet(t *testing.T) {
	grid := Grid{
		textRow("Recettes du cabinet"),
		textRow(""),
		textRow("Nom Prénom", "Montant", "Date"),
		textRow("Dupont Jean", "150,00", "15/03/2024"),
	}

	if got := LocateHeaderRow(grid); got != 2 {
		t.Fatalf("LocateHeaderRow() = %d, want 2", got)
	}

	table := NewTable(grid)
	if len(table.Rows) != 1 {
		t.Fatalf("expected 1 data row, got %d", len(table.Rows))
	}

	draft := MapRevenueRow(table.Headers, table.Rows[0], "2024-01-01", nil)
	if draft.Description != defaultRevenueDescription {
		t.Errorf("Description = %q, want the default", draft.Description)
	}
	if draft.Amount != 150 {
		t.Errorf("Amount = %v, want 150", draft.Amount)
	}
	if draft.Date != "2024-03-15" || !draft.DateDetected {
		t.Errorf("Date = (%q, %v), want 2024-03-15 detected", draft.Date, draft.DateDetected)
	}
	if draft.PatientName != "Dupont Jean" || draft.PatientID != UnresolvedPatientID {
		t.Errorf("payer = (%q, %q)", draft.PatientName, draft.PatientID)
	}
}

func TestResolvePatientByLastName(t *testing.T) {
	patients := cabinetbundle.Patients{{LastName: "BENANI", FirstName: "Sara"}}
	patients[0].ID = "P-010"

	// the sheet often carries more than the registered name
	if p := ResolvePatient("Mme Benani", patients); p == nil || p.ID != "P-010" {
		t.Errorf("ResolvePatient(Mme Benani) = %v", p)
	}
	if p := ResolvePatient("quelqu'un d'autre", patients); p != nil {
		t.Errorf("expected no match, got %v", p)
	}
}
