package importbundle

import (
	"fmt"
	"log"

	"github.com/GFattehallah/CMHE-Manager/app/cabinetbundle"
	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
	"github.com/jinzhu/copier"
)

// CommitResult sums up a commit: rows written, duplicates skipped and the
// per row failures. A failing row never aborts the rest of the batch.
// swagger:model
type CommitResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func commitPatients(store storage.RecordStore, batch *StagedBatch) CommitResult {
	result := CommitResult{}

	existing := cabinetbundle.Patients{}
	records, err := store.List(storage.EntityPatients)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	for _, record := range records {
		if patient, ok := record.(*cabinetbundle.Patient); ok {
			existing = append(existing, *patient)
		}
	}

	for i, draft := range batch.Patients {
		if IsDuplicatePatient(draft, existing) {
			result.Skipped++
			continue
		}

		patient := cabinetbundle.Patient{}
		copier.Copy(&patient, &draft)
		patient.BirthDate.FromString(draft.BirthDate)
		patient.ID = cabinetbundle.NewRecordID("P-IMP")

		if err := store.Save(storage.EntityPatients, &patient); err != nil {
			log.Println(err)
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		existing = append(existing, patient)
		result.Imported++
	}
	return result
}

func commitExpenses(store storage.RecordStore, batch *StagedBatch) CommitResult {
	result := CommitResult{}

	for i, draft := range batch.Expenses {
		expense := cabinetbundle.Expense{}
		copier.Copy(&expense, &draft)
		expense.Amount = core.CurrencyNumber(draft.Amount)
		expense.Date.FromString(draft.Date)
		expense.ID = cabinetbundle.NewRecordID("EXP-IMP")

		if err := store.Save(storage.EntityExpenses, &expense); err != nil {
			log.Println(err)
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}
	return result
}

// commitRevenues writes each staged revenue as a paid invoice with a single
// item.
func commitRevenues(store storage.RecordStore, batch *StagedBatch) CommitResult {
	result := CommitResult{}

	for i, draft := range batch.Revenues {
		invoice := cabinetbundle.Invoice{
			PatientID:   draft.PatientID,
			PatientName: draft.PatientName,
			Amount:      core.CurrencyNumber(draft.Amount),
			PaymentType: draft.PaymentType,
			Status:      cabinetbundle.InvoicePaid,
			Items: cabinetbundle.InvoiceItems{
				{Description: draft.Description, Price: core.CurrencyNumber(draft.Amount)},
			},
		}
		invoice.Date.FromString(draft.Date)
		invoice.ID = cabinetbundle.NewRecordID("INV-IMP")

		if err := store.Save(storage.EntityInvoices, &invoice); err != nil {
			log.Println(err)
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Imported++
	}
	return result
}

// CommitBatch writes a staged batch to the record store, row by row.
func CommitBatch(store storage.RecordStore, batch *StagedBatch) CommitResult {
	switch batch.Kind {
	case KindPatients:
		return commitPatients(store, batch)
	case KindExpense:
		return commitExpenses(store, batch)
	default:
		return commitRevenues(store, batch)
	}
}
