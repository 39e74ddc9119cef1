package importbundle

import (
	"testing"
)

func TestStagedBatchRemoveAt(t *testing.T) {
	batch := &StagedBatch{
		Kind: KindExpense,
		Expenses: []ExpenseDraft{
			{Description: "Loyer"},
			{Description: "Electricité"},
			{Description: "Fournitures"},
		},
	}

	if err := batch.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt(1) returned %v", err)
	}
	if batch.Len() != 2 {
		t.Fatalf("Len() = %d after removal, want 2", batch.Len())
	}
	if batch.Expenses[0].Description != "Loyer" || batch.Expenses[1].Description != "Fournitures" {
		t.Errorf("unexpected rows after removal: %q, %q",
			batch.Expenses[0].Description, batch.Expenses[1].Description)
	}

	if err := batch.RemoveAt(5); err == nil {
		t.Error("RemoveAt(5) should fail on a batch of 2 rows")
	}
	if err := batch.RemoveAt(-1); err == nil {
		t.Error("RemoveAt(-1) should fail")
	}
}

func TestStagedBatchRemoveAtPatients(t *testing.T) {
	batch := &StagedBatch{
		Kind: KindPatients,
		Patients: []PatientDraft{
			{LastName: "ALAMI"},
			{LastName: "BENANI"},
		},
	}
	if err := batch.RemoveAt(0); err != nil {
		t.Fatalf("RemoveAt(0) returned %v", err)
	}
	if batch.Len() != 1 || batch.Patients[0].LastName != "BENANI" {
		t.Errorf("unexpected rows after removal: %+v", batch.Patients)
	}
}

func TestStagingStorePerTokenAndKind(t *testing.T) {
	store := NewStagingStore()

	store.Put("token-a", KindPatients, &StagedBatch{Kind: KindPatients, FileName: "patients.xlsx"})
	store.Put("token-a", KindExpense, &StagedBatch{Kind: KindExpense, FileName: "depenses.csv"})
	store.Put("token-b", KindPatients, &StagedBatch{Kind: KindPatients, FileName: "autres.xlsx"})

	if got := store.Get("token-a", KindPatients); got == nil || got.FileName != "patients.xlsx" {
		t.Errorf("Get(token-a, patients) = %+v", got)
	}
	if got := store.Get("token-a", KindExpense); got == nil || got.FileName != "depenses.csv" {
		t.Errorf("Get(token-a, expense) = %+v", got)
	}
	if got := store.Get("token-b", KindPatients); got == nil || got.FileName != "autres.xlsx" {
		t.Errorf("Get(token-b, patients) = %+v", got)
	}
	if got := store.Get("token-b", KindExpense); got != nil {
		t.Errorf("Get(token-b, expense) = %+v, want nil", got)
	}
}

func TestStagingStoreReplaceAndDrop(t *testing.T) {
	store := NewStagingStore()

	store.Put("token", KindRevenue, &StagedBatch{Kind: KindRevenue, FileName: "old.xlsx"})
	store.Put("token", KindRevenue, &StagedBatch{Kind: KindRevenue, FileName: "new.xlsx"})
	if got := store.Get("token", KindRevenue); got == nil || got.FileName != "new.xlsx" {
		t.Fatalf("Get after second Put = %+v, want the new batch", got)
	}

	store.Drop("token", KindRevenue)
	if got := store.Get("token", KindRevenue); got != nil {
		t.Errorf("Get after Drop = %+v, want nil", got)
	}

	// Dropping an unknown token must not panic.
	store.Drop("missing", KindPatients)
}
