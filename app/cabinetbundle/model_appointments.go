package cabinetbundle

import (
	"strings"

	"github.com/GFattehallah/CMHE-Manager/app/core"
)

const (
	AppointmentScheduled = "PLANIFIE"
	AppointmentConfirmed = "CONFIRME"
	AppointmentDone      = "TERMINE"
	AppointmentCancelled = "ANNULE"
)

// swagger:model
type Appointment struct {
	core.Model
	PatientID   string        `json:"patient_id"`
	PatientName string        `json:"patient_name"`
	Date        core.NullTime `json:"date" gorm:"type:date"`
	Time        string        `json:"time"`
	Reason      string        `json:"reason"`
	Status      string        `json:"status"`

	Errors map[string]string `json:"-" gorm:"-"`
}

type Appointments []Appointment

func (Appointment) TableName() string {
	return "cabinet_appointments"
}

func (a *Appointment) Validate() bool {
	a.Errors = make(map[string]string)
	if strings.TrimSpace(a.PatientName) == "" && a.PatientID == "" {
		a.Errors["patient"] = "patient is required"
	}
	if !a.Date.Valid {
		a.Errors["date"] = "date is required"
	}
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
	switch a.Status {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentDone, AppointmentCancelled:
	default:
		a.Errors["status"] = "unknown status"
	}
	return len(a.Errors) == 0
}

// swagger:model
type Consultation struct {
	core.Model
	PatientID    string        `json:"patient_id"`
	PatientName  string        `json:"patient_name"`
	Date         core.NullTime `json:"date" gorm:"type:date"`
	Reason       string        `json:"reason"`
	Diagnosis    string        `json:"diagnosis"`
	Notes        string        `json:"notes" gorm:"type:text"`
	Prescription StringList    `json:"prescription" gorm:"type:text"`

	Errors map[string]string `json:"-" gorm:"-"`
}

type Consultations []Consultation

func (Consultation) TableName() string {
	return "cabinet_consultations"
}

func (c *Consultation) Validate() bool {
	c.Errors = make(map[string]string)
	if c.PatientID == "" && strings.TrimSpace(c.PatientName) == "" {
		c.Errors["patient"] = "patient is required"
	}
	if !c.Date.Valid {
		c.Date = core.Now()
	}
	return len(c.Errors) == 0
}
