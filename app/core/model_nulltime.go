package core

import (
	"database/sql/driver"
	"encoding/json"
	"reflect"
	"time"
)

type NullTime struct {
	Time  time.Time
	Valid bool // Valid is true if Time is not NULL
}

func Now() NullTime {
	return NullTime{Time: time.Now(), Valid: true}
}

var nullTimeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999",
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"02/01/2006",
	"2/1/2006",
	"02/01/06",
	"2/1/06",
}

func (u *NullTime) FromString(s string) {
	for _, format := range nullTimeFormats {
		if t, err := time.Parse(format, s); err == nil {
			u.Time = t
			u.Valid = true
			return
		}
	}
	u.Valid = false
}

func (u *NullTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		u.Valid = false
		return nil
	}
	// Get rid of the quotes "" around the value.
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	u.FromString(s)
	return nil
}

func (u NullTime) MarshalJSON() ([]byte, error) {
	if u.Valid {
		if u.Time.String() == "0001-01-01 00:00:00 +0000 UTC" {
			return json.Marshal("")
		}
		return json.Marshal(u.Time)
	}
	return json.Marshal("")
}

// Scan implements the Scanner interface.
func (nt *NullTime) Scan(value interface{}) error {
	nt.Time, nt.Valid = value.(time.Time)
	if !nt.Valid && value != nil {
		if reflect.TypeOf(value).String() == "[]uint8" {
			t, err := time.Parse("2006-01-02", string(value.([]uint8)))
			if err == nil {
				nt.Time = t
				nt.Valid = true
			}
		}
	}
	return nil
}

// Value implements the driver Valuer interface.
func (nt NullTime) Value() (driver.Value, error) {
	if !nt.Valid {
		return nil, nil
	}
	return nt.Time, nil
}
