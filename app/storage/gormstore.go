package storage

import (
	"fmt"
	"reflect"

	"github.com/jinzhu/gorm"
)

// GormStore persists records in MySQL through gorm.
type GormStore struct {
	db       *gorm.DB
	entities map[string]Entity
}

func NewGormStore(db *gorm.DB, entities map[string]Entity) *GormStore {
	return &GormStore{
		db:       db,
		entities: entities,
	}
}

func (s *GormStore) entity(name string) (Entity, error) {
	e, ok := s.entities[name]
	if !ok {
		return Entity{}, fmt.Errorf("unknown entity '%s'", name)
	}
	return e, nil
}

func (s *GormStore) List(entity string) ([]Record, error) {
	e, err := s.entity(entity)
	if err != nil {
		return nil, err
	}

	slice := e.NewSlice()
	if err := s.db.Find(slice).Error; err != nil {
		return nil, err
	}

	v := reflect.ValueOf(slice).Elem()
	records := make([]Record, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		records = append(records, v.Index(i).Addr().Interface().(Record))
	}
	return records, nil
}

func (s *GormStore) Save(entity string, record Record) error {
	e, err := s.entity(entity)
	if err != nil {
		return err
	}

	existing := e.New()
	err = s.db.Where("id = ?", record.GetID()).First(existing).Error
	if gorm.IsRecordNotFoundError(err) {
		return s.db.Set("gorm:save_associations", false).Create(record).Error
	}
	if err != nil {
		return err
	}
	return s.db.Set("gorm:save_associations", false).Save(record).Error
}

func (s *GormStore) Delete(entity string, id string) error {
	e, err := s.entity(entity)
	if err != nil {
		return err
	}
	return s.db.Where("id = ?", id).Delete(e.New()).Error
}

func (s *GormStore) DeleteBulk(entity string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	e, err := s.entity(entity)
	if err != nil {
		return err
	}
	return s.db.Where("id in (?)", ids).Delete(e.New()).Error
}
