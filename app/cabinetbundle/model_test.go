package cabinetbundle

import (
	"strings"
	"testing"
)

func TestPatientValidate(t *testing.T) {
	patient := Patient{LastName: "ALAMI", FirstName: "Karim"}
	if !patient.Validate() {
		t.Fatalf("valid patient rejected: %v", patient.Errors)
	}
	if patient.InsuranceType != InsuranceNone {
		t.Errorf("InsuranceType = %q, want the default %q", patient.InsuranceType, InsuranceNone)
	}

	patient = Patient{FirstName: "Karim"}
	if patient.Validate() {
		t.Error("patient without last name accepted")
	}

	patient = Patient{LastName: "ALAMI", Email: "not-an-address"}
	if patient.Validate() {
		t.Error("patient with malformed email accepted")
	}

	patient = Patient{LastName: "ALAMI", InsuranceType: "MUTUELLE-X"}
	if patient.Validate() {
		t.Error("patient with unknown insurance type accepted")
	}
}

func TestPatientFullName(t *testing.T) {
	patient := Patient{FirstName: "Karim", LastName: "ALAMI"}
	if got := patient.FullName(); got != "Karim ALAMI" {
		t.Errorf("FullName() = %q", got)
	}
	patient = Patient{LastName: "ALAMI"}
	if got := patient.FullName(); got != "ALAMI" {
		t.Errorf("FullName() = %q", got)
	}
}

func TestInvoiceValidateSyncsAmount(t *testing.T) {
	invoice := Invoice{
		PatientName: "ALAMI Karim",
		Items: InvoiceItems{
			{Description: "Consultation", Price: 250},
			{Description: "ECG", Price: 300},
		},
	}
	if !invoice.Validate() {
		t.Fatalf("valid invoice rejected: %v", invoice.Errors)
	}
	if float64(invoice.Amount) != 550 {
		t.Errorf("Amount = %v, want the item total 550", invoice.Amount)
	}
	if invoice.Status != InvoiceUnpaid {
		t.Errorf("Status = %q, want the default %q", invoice.Status, InvoiceUnpaid)
	}
	if invoice.PaymentType != PaymentCash {
		t.Errorf("PaymentType = %q, want the default %q", invoice.PaymentType, PaymentCash)
	}
	if !invoice.Date.Valid {
		t.Error("Date was not defaulted")
	}
}

func TestInvoiceValidateRejectsEmpty(t *testing.T) {
	invoice := Invoice{}
	if invoice.Validate() {
		t.Fatal("empty invoice accepted")
	}
	if _, ok := invoice.Errors["patient"]; !ok {
		t.Error("missing patient error")
	}
	if _, ok := invoice.Errors["items"]; !ok {
		t.Error("missing items error")
	}
}

func TestExpenseValidate(t *testing.T) {
	expense := Expense{Description: "Loyer", Amount: 4500}
	if !expense.Validate() {
		t.Fatalf("valid expense rejected: %v", expense.Errors)
	}
	if expense.Category != CategoryOther {
		t.Errorf("Category = %q, want the default %q", expense.Category, CategoryOther)
	}

	expense = Expense{Description: "Loyer"}
	if expense.Validate() {
		t.Error("expense without amount accepted")
	}

	expense = Expense{Description: "Loyer", Amount: 100, Category: "RANDOM"}
	if expense.Validate() {
		t.Error("expense with unknown category accepted")
	}
}

func TestNewRecordID(t *testing.T) {
	id := NewRecordID("P")
	if !strings.HasPrefix(id, "P-") {
		t.Fatalf("id = %q, want a P- prefix", id)
	}
	if len(id) != len("P-")+12 {
		t.Errorf("id = %q, want 12 characters after the prefix", id)
	}
	if id == NewRecordID("P") {
		t.Error("two generated ids collided")
	}
}

func TestNormalizeSearch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Aïcha", "aicha"},
		{"  EL AMRANI ", "el amrani"},
		{"Bénani", "benani"},
		{"0612-345", "0612-345"},
	}
	for _, tc := range tests {
		if got := normalizeSearch(tc.in); got != tc.want {
			t.Errorf("normalizeSearch(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
