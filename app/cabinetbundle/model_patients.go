package cabinetbundle

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"

	"github.com/GFattehallah/CMHE-Manager/app/core"
)

const (
	InsuranceNone    = "AUCUNE"
	InsuranceCnss    = "CNSS"
	InsuranceCnops   = "CNOPS"
	InsurancePrivate = "PRIVEE"
)

// StringList is persisted as a json array inside a text column so both store
// backends handle it the same way.
type StringList []string

func (l *StringList) Scan(value interface{}) error {
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
	return errors.New("unsupported type for StringList")
}

func (l StringList) Value() (driver.Value, error) {
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
type Patient struct {
	core.Model
	FirstName       string        `json:"first_name"`
	LastName        string        `json:"last_name"`
	BirthDate       core.NullTime `json:"birth_date" gorm:"type:date"`
	Cin             string        `json:"cin"`
	Phone           string        `json:"phone"`
	Email           string        `json:"email"`
	Address         string        `json:"address"`
	InsuranceType   string        `json:"insurance_type"`
	InsuranceNumber string        `json:"insurance_number"`
	MedicalHistory  StringList    `json:"medical_history" gorm:"type:text"`
	Allergies       StringList    `json:"allergies" gorm:"type:text"`

	Errors map[string]string `json:"-" gorm:"-"`
}

type Patients []Patient

func (Patient) TableName() string {
	return "cabinet_patients"
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *Patient) Validate() bool {
	p.Errors = make(map[string]string)
	if strings.TrimSpace(p.LastName) == "" {
		p.Errors["last_name"] = "last name is required"
	}
	switch p.InsuranceType {
	case "", InsuranceNone, InsuranceCnss, InsuranceCnops, InsurancePrivate:
	default:
		p.Errors["insurance_type"] = "unknown insurance type"
	}
	if p.InsuranceType == "" {
		p.InsuranceType = InsuranceNone
	}
	if p.Email != "" {
		if err := core.ValidateFormat(p.Email); err != nil {
			p.Errors["email"] = err.Error()
		}
	}
	return len(p.Errors) == 0
}
