package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
)

// FileStore keeps each entity in a single json array file under its base
// path. It is the fallback backend for installations without a database and
// holds the whole collection in memory between writes, which is fine for the
// record counts a single practice produces.
type FileStore struct {
	mutex    sync.Mutex
	basePath string
	entities map[string]Entity
}

func NewFileStore(basePath string, entities map[string]Entity) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0700); err != nil {
		return nil, err
	}
	return &FileStore{
		basePath: basePath,
		entities: entities,
	}, nil
}

func (s *FileStore) entity(name string) (Entity, error) {
	e, ok := s.entities[name]
	if !ok {
		return Entity{}, fmt.Errorf("unknown entity '%s'", name)
	}
	return e, nil
}

func (s *FileStore) fileName(entity string) string {
	return filepath.Join(s.basePath, entity+".json")
}

func (s *FileStore) load(e Entity) ([]Record, error) {
	data, err := os.ReadFile(s.fileName(e.Name))
	if os.IsNotExist(err) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	slice := e.NewSlice()
	if err := json.Unmarshal(data, slice); err != nil {
		return nil, err
	}

	v := reflect.ValueOf(slice).Elem()
	records := make([]Record, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		records = append(records, v.Index(i).Addr().Interface().(Record))
	}
	return records, nil
}

// write replaces the entity file atomically so a crash mid write never
// truncates existing data.
func (s *FileStore) write(e Entity, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmpName := s.fileName(e.Name) + ".tmp"
	if err := os.WriteFile(tmpName, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.fileName(e.Name))
}

func (s *FileStore) List(entity string) ([]Record, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}
	return s.load(e)
}

func (s *FileStore) Save(entity string, record Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, err := s.entity(entity)
	if err != nil {
		return err
	}
	records, err := s.load(e)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range records {
		if existing.GetID() == record.GetID() {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return s.write(e, records)
}

func (s *FileStore) Delete(entity string, id string) error {
	return s.DeleteBulk(entity, []string{id})
}

func (s *FileStore) DeleteBulk(entity string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()

	e, err := s.entity(entity)
	if err != nil {
		return err
	}
	records, err := s.load(e)
	if err != nil {
		return err
	}

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	kept := make([]Record, 0, len(records))
	for _, record := range records {
		if !drop[record.GetID()] {
			kept = append(kept, record)
		}
	}
	return s.write(e, kept)
}
