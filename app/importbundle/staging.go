package importbundle

import (
	"fmt"
	"sync"

	"github.com/GFattehallah/CMHE-Manager/app/core"
)

// Batch kinds, also the {kind} path segment of the preview routes.
const (
	KindPatients = "patients"
	KindExpense  = "expense"
	KindRevenue  = "revenue"
)

// StagedBatch holds the mapped rows of one uploaded file until the user
// commits or cancels them. Only one of the slices is filled, per Kind.
// swagger:model
type StagedBatch struct {
	Kind      string         `json:"kind"`
	FileName  string         `json:"file_name"`
	CreatedAt core.NullTime  `json:"created_at"`
	Patients  []PatientDraft `json:"patients,omitempty"`
	Expenses  []ExpenseDraft `json:"expenses,omitempty"`
	Revenues  []RevenueDraft `json:"revenues,omitempty"`
}

func (b *StagedBatch) Len() int {
	switch b.Kind {
	case KindPatients:
		return len(b.Patients)
	case KindExpense:
		return len(b.Expenses)
	default:
		return len(b.Revenues)
	}
}

// RemoveAt drops one staged row, the preview table lets the user throw out
// rows before committing.
func (b *StagedBatch) RemoveAt(index int) error {
	if index < 0 || index >= b.Len() {
		return fmt.Errorf("row %d out of range", index)
	}
	switch b.Kind {
	case KindPatients:
		b.Patients = append(b.Patients[:index], b.Patients[index+1:]...)
	case KindExpense:
		b.Expenses = append(b.Expenses[:index], b.Expenses[index+1:]...)
	default:
		b.Revenues = append(b.Revenues[:index], b.Revenues[index+1:]...)
	}
	return nil
}

// StagingStore keeps staged batches per session token and kind. Batches are
// in memory only, a restart clears them, which is the wanted behavior for
// half finished imports.
type StagingStore struct {
	mutex   sync.Mutex
	batches map[string]map[string]*StagedBatch
}

func NewStagingStore() *StagingStore {
	return &StagingStore{
		batches: make(map[string]map[string]*StagedBatch),
	}
}

func (s *StagingStore) Put(token, kind string, batch *StagedBatch) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.batches[token]; !ok {
		s.batches[token] = make(map[string]*StagedBatch)
	}
	s.batches[token][kind] = batch
}

func (s *StagingStore) Get(token, kind string) *StagedBatch {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.batches[token][kind]
}

func (s *StagingStore) Drop(token, kind string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if kinds, ok := s.batches[token]; ok {
		delete(kinds, kind)
		if len(kinds) == 0 {
			delete(s.batches, token)
		}
	}
}
