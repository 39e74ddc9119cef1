package storage

// Entity names double as table keys for the database backend and file names
// for the file backend.
const (
	EntityPatients      = "patients"
	EntityAppointments  = "appointments"
	EntityConsultations = "consultations"
	EntityInvoices      = "invoices"
	EntityExpenses      = "expenses"
	EntityAccounts      = "accounts"
)

// Record is anything a RecordStore can persist.
type Record interface {
	GetID() string
	SetID(id string)
}

// Entity describes one persisted collection. New returns a pointer to a zero
// record, NewSlice a pointer to an empty slice of the concrete type so the
// database backend can Find into it.
type Entity struct {
	Name     string
	New      func() Record
	NewSlice func() interface{}
}

// RecordStore is the persistence contract shared by the database and file
// backends. Save upserts by record id.
type RecordStore interface {
	List(entity string) ([]Record, error)
	Save(entity string, record Record) error
	Delete(entity string, id string) error
	DeleteBulk(entity string, ids []string) error
}
