package core

import (
	"fmt"
	"time"
)

// swagger:model
type ResponseData struct {
	Status          int         `json:"status,omitempty"`
	Message         string      `json:"message,omitempty"`
	Detail          string      `json:"detail,omitempty"`
	RecordsFiltered int         `json:"recordsFiltered,omitempty"`
	RecordsTotal    int         `json:"recordsTotal,omitempty"`
	Data            interface{} `json:"data,omitempty"`
	Paging          *Paging     `json:"paging,omitempty"`
}

// swagger:model
type HandleErrorData struct {
	Status  int    `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// Model is the base for every persisted record. Ids are strings ("P-…",
// "INV-…") so records created by the import flows keep their generated ids
// across both store backends.
// swagger:model
type Model struct {
	ID        string     `json:"id" gorm:"primary_key;type:varchar(64)"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"-"`
	DeletedAt *time.Time `json:"-" sql:"index"`
}

func (m Model) GetID() string {
	return m.ID
}

func (m *Model) SetID(id string) {
	m.ID = id
}

type CurrencyNumber float64

func (n CurrencyNumber) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%.2f", n)), nil
}

type Paging struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
	TotalPage  int `json:"total_page"`
	Offset     int `json:"offset"` // Helper
	Limit      int `json:"limit"`  // Helper
}
