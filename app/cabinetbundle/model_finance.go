package cabinetbundle

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/GFattehallah/CMHE-Manager/app/core"
)

const (
	PaymentCash     = "CASH"
	PaymentCheck    = "CHECK"
	PaymentTransfer = "VIREMENT"
	PaymentCard     = "CARD"
)

const (
	InvoicePaid   = "PAID"
	InvoiceUnpaid = "UNPAID"
)

const (
	CategoryFixed      = "FIXED"
	CategoryConsumable = "CONSUMABLE"
	CategorySalary     = "SALARY"
	CategoryEquipment  = "EQUIPMENT"
	CategoryTax        = "TAX"
	CategoryOther      = "OTHER"
)

// PaymentLabels and CategoryLabels hold the display names used on printed
// invoices and in the yearly export.
var PaymentLabels = map[string]string{
	PaymentCash:     "Espèces",
	PaymentCheck:    "Chèque",
	PaymentTransfer: "Virement",
	PaymentCard:     "Carte",
}

var CategoryLabels = map[string]string{
	CategoryFixed:      "Charges Fixes",
	CategoryConsumable: "Consommables",
	CategorySalary:     "Salaires",
	CategoryEquipment:  "Matériel",
	CategoryTax:        "Impôts & Taxes",
	CategoryOther:      "Autres",
}

// swagger:model
type InvoiceItem struct {
	Description string              `json:"description"`
	Price       core.CurrencyNumber `json:"price"`
}

// InvoiceItems is persisted as a json array inside a text column.
type InvoiceItems []InvoiceItem

func (l *InvoiceItems) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []uint8:
		if len(v) == 0 {
			*l = nil
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = nil
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for InvoiceItems")
}

func (l InvoiceItems) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// swagger:model
type Invoice struct {
	core.Model
	PatientID   string              `json:"patient_id"`
	PatientName string              `json:"patient_name"`
	Date        core.NullTime       `json:"date" gorm:"type:date"`
	Items       InvoiceItems        `json:"items" gorm:"type:text"`
	Amount      core.CurrencyNumber `json:"amount"`
	PaymentType string              `json:"payment_type"`
	Status      string              `json:"status"`

	Errors map[string]string `json:"-" gorm:"-"`
}

type Invoices []Invoice

func (Invoice) TableName() string {
	return "cabinet_invoices"
}

// Total sums the item prices. Amount is kept in sync on save so list views
// never have to unpack the items column.
func (i *Invoice) Total() core.CurrencyNumber {
	var total core.CurrencyNumber
	for _, item := range i.Items {
		total += item.Price
	}
	return total
}

func (i *Invoice) Validate() bool {
	i.Errors = make(map[string]string)
	if strings.TrimSpace(i.PatientName) == "" && i.PatientID == "" {
		i.Errors["patient"] = "patient is required"
	}
	if len(i.Items) == 0 {
		i.Errors["items"] = "at least one item is required"
	}
	if i.PaymentType == "" {
		i.PaymentType = PaymentCash
	}
	if _, ok := PaymentLabels[i.PaymentType]; !ok {
		i.Errors["payment_type"] = "unknown payment type"
	}
	if i.Status == "" {
		i.Status = InvoiceUnpaid
	}
	if i.Status != InvoicePaid && i.Status != InvoiceUnpaid {
		i.Errors["status"] = "unknown status"
	}
	if !i.Date.Valid {
		i.Date = core.Now()
	}
	i.Amount = i.Total()
	return len(i.Errors) == 0
}

// swagger:model
type Expense struct {
	core.Model
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Amount      core.CurrencyNumber `json:"amount"`
	Date        core.NullTime       `json:"date" gorm:"type:date"`
	PaymentType string              `json:"payment_type"`

	Errors map[string]string `json:"-" gorm:"-"`
}

type Expenses []Expense

func (Expense) TableName() string {
	return "cabinet_expenses"
}

func (e *Expense) Validate() bool {
	e.Errors = make(map[string]string)
	if strings.TrimSpace(e.Description) == "" {
		e.Errors["description"] = "description is required"
	}
	if e.Amount <= 0 {
		e.Errors["amount"] = "amount must be positive"
	}
	if e.Category == "" {
		e.Category = CategoryOther
	}
	if _, ok := CategoryLabels[e.Category]; !ok {
		e.Errors["category"] = "unknown category"
	}
	if e.PaymentType == "" {
		e.PaymentType = PaymentCash
	}
	if _, ok := PaymentLabels[e.PaymentType]; !ok {
		e.Errors["payment_type"] = "unknown payment type"
	}
	if !e.Date.Valid {
		e.Date = core.Now()
	}
	return len(e.Errors) == 0
}
