package importbundle

import (
	"errors"
	"strings"
	"testing"

	"github.com/GFattehallah/CMHE-Manager/app/cabinetbundle"
	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
)

// fakeStore is an in memory RecordStore for commit tests. failOn rejects the
// record whose id prefix check happens after assignment, so failures are
// injected by description instead.
type fakeStore struct {
	records map[string][]storage.Record
	failOn  func(entity string, record storage.Record) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string][]storage.Record)}
}

func (s *fakeStore) List(entity string) ([]storage.Record, error) {
	return s.records[entity], nil
}

func (s *fakeStore) Save(entity string, record storage.Record) error {
	if s.failOn != nil {
		if err := s.failOn(entity, record); err != nil {
			return err
		}
	}
	for i, existing := range s.records[entity] {
		if existing.GetID() == record.GetID() {
			s.records[entity][i] = record
			return nil
		}
	}
	s.records[entity] = append(s.records[entity], record)
	return nil
}

func (s *fakeStore) Delete(entity string, id string) error {
	return s.DeleteBulk(entity, []string{id})
}

func (s *fakeStore) DeleteBulk(entity string, ids []string) error {
	kept := []storage.Record{}
	for _, record := range s.records[entity] {
		drop := false
		for _, id := range ids {
			if record.GetID() == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, record)
		}
	}
	s.records[entity] = kept
	return nil
}

func TestCommitPatientsSkipsDuplicates(t *testing.T) {
	store := newFakeStore()
	store.Save(storage.EntityPatients, &cabinetbundle.Patient{
		Model:    core.Model{ID: "P-001"},
		LastName: "ALAMI",
		Cin:      "AB123456",
	})

	batch := &StagedBatch{
		Kind: KindPatients,
		Patients: []PatientDraft{
			{LastName: "ALAMI", FirstName: "Karim", Cin: "AB123456"},
			{LastName: "BENANI", FirstName: "Sara", Phone: "0612345678"},
		},
	}

	result := CommitBatch(store, batch)
	if result.Imported != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v, want 1 imported and 1 skipped", result)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if got := len(store.records[storage.EntityPatients]); got != 2 {
		t.Errorf("store holds %d patients, want 2", got)
	}
}

func TestCommitPatientsDeduplicatesWithinBatch(t *testing.T) {
	store := newFakeStore()

	batch := &StagedBatch{
		Kind: KindPatients,
		Patients: []PatientDraft{
			{LastName: "TAZI", FirstName: "Omar", Phone: "0655443322"},
			{LastName: "TAZI", FirstName: "Omar", Phone: "0655443322"},
		},
	}

	result := CommitBatch(store, batch)
	if result.Imported != 1 || result.Skipped != 1 {
		t.Fatalf("result = %+v, want the second row skipped", result)
	}
}

func TestCommitPatientsAssignsImportIDs(t *testing.T) {
	store := newFakeStore()

	batch := &StagedBatch{
		Kind: KindPatients,
		Patients: []PatientDraft{
			{LastName: "IDRISSI", FirstName: "Nadia", BirthDate: "1985-03-15"},
		},
	}

	result := CommitBatch(store, batch)
	if result.Imported != 1 {
		t.Fatalf("result = %+v, want 1 imported", result)
	}
	patient, ok := store.records[storage.EntityPatients][0].(*cabinetbundle.Patient)
	if !ok {
		t.Fatalf("stored record is %T, want *cabinetbundle.Patient", store.records[storage.EntityPatients][0])
	}
	if !strings.HasPrefix(patient.ID, "P-IMP-") {
		t.Errorf("ID = %q, want a P-IMP- prefix", patient.ID)
	}
	if !patient.BirthDate.Valid {
		t.Error("BirthDate was not parsed")
	}
	if patient.LastName != "IDRISSI" || patient.FirstName != "Nadia" {
		t.Errorf("name = %q %q", patient.LastName, patient.FirstName)
	}
}

func TestCommitExpensesContinuesAfterFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn = func(entity string, record storage.Record) error {
		expense, ok := record.(*cabinetbundle.Expense)
		if ok && expense.Description == "Broken" {
			return errors.New("disk full")
		}
		return nil
	}

	batch := &StagedBatch{
		Kind: KindExpense,
		Expenses: []ExpenseDraft{
			{Description: "Loyer", Amount: 4500, Date: "2024-01-05"},
			{Description: "Broken", Amount: 100, Date: "2024-01-06"},
			{Description: "Fournitures", Amount: 320, Date: "2024-01-07"},
		},
	}

	result := CommitBatch(store, batch)
	if result.Imported != 2 {
		t.Errorf("Imported = %d, want 2", result.Imported)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "row 2") {
		t.Errorf("Errors = %v, want one error naming row 2", result.Errors)
	}
	if got := len(store.records[storage.EntityExpenses]); got != 2 {
		t.Errorf("store holds %d expenses, want 2", got)
	}
}

func TestCommitRevenuesWritesPaidInvoices(t *testing.T) {
	store := newFakeStore()

	batch := &StagedBatch{
		Kind: KindRevenue,
		Revenues: []RevenueDraft{
			{
				Date:        "2024-02-10",
				Amount:      250,
				Description: "Consultation",
				PatientID:   "P-001",
				PatientName: "ALAMI Karim",
				PaymentType: cabinetbundle.PaymentCash,
			},
		},
	}

	result := CommitBatch(store, batch)
	if result.Imported != 1 {
		t.Fatalf("result = %+v, want 1 imported", result)
	}

	invoice, ok := store.records[storage.EntityInvoices][0].(*cabinetbundle.Invoice)
	if !ok {
		t.Fatalf("stored record is %T, want *cabinetbundle.Invoice", store.records[storage.EntityInvoices][0])
	}
	if !strings.HasPrefix(invoice.ID, "INV-IMP-") {
		t.Errorf("ID = %q, want an INV-IMP- prefix", invoice.ID)
	}
	if invoice.Status != cabinetbundle.InvoicePaid {
		t.Errorf("Status = %q, want %q", invoice.Status, cabinetbundle.InvoicePaid)
	}
	if len(invoice.Items) != 1 || invoice.Items[0].Description != "Consultation" {
		t.Errorf("Items = %+v, want one consultation item", invoice.Items)
	}
	if float64(invoice.Amount) != 250 || float64(invoice.Items[0].Price) != 250 {
		t.Errorf("amounts = %v / %v, want 250", invoice.Amount, invoice.Items[0].Price)
	}
	if invoice.PatientID != "P-001" || invoice.PatientName != "ALAMI Karim" {
		t.Errorf("patient = %q %q", invoice.PatientID, invoice.PatientName)
	}
}
