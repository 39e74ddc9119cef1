package importbundle

import (
	"strings"

	"github.com/GFattehallah/CMHE-Manager/app/cabinetbundle"
)

// Keyword groups for patient columns. Sheets come from many sources, French
// headers with and without accents, English exports, merged name columns.
var (
	lastNameKeywords        = []string{"nom", "nomfamille", "lastname", "surname"}
	firstNameKeywords       = []string{"prenom", "firstname", "givenname", "petitnom"}
	fullNameKeywords        = []string{"nomprenom", "nometprenom", "nomcomplet", "patient", "fullname", "identite", "nomprenoms"}
	birthDateKeywords       = []string{"naissance", "nele", "neele", "dob", "age", "datenaissance"}
	cinKeywords             = []string{"cin", "cnie", "carte", "identite", "passport", "id"}
	phoneKeywords           = []string{"telephone", "portable", "contact", "gsm", "tel", "mobile", "num"}
	emailKeywords           = []string{"email", "courriel", "mail", "adressemail"}
	insuranceKeywords       = []string{"mutuelle", "assurance", "organisme", "cnss", "cnops"}
	insuranceNumberKeywords = []string{"immatriculation", "nomutuelle", "police", "affiliation", "numimmat"}
	addressKeywords         = []string{"adresse", "lieu", "domicile", "residence", "ville", "habitation"}
	historyKeywords         = []string{"antecedents", "historique", "maladies", "passif", "pathologies", "atcd"}
	allergyKeywords         = []string{"allergies", "sensibilite", "reaction", "intolerance"}
)

// Placeholders used when a sheet carries no usable name. The rows still show
// up in the preview so the user can fix them by hand before committing.
const (
	placeholderLastName  = "NOM À REMPLIR"
	placeholderFirstName = "Prénom"
	defaultBirthDate     = "1990-01-01"
)

// PatientDraft is one staged patient row, dates kept as ISO strings until
// commit.
type PatientDraft struct {
	LastName          string                   `json:"last_name"`
	FirstName         string                   `json:"first_name"`
	BirthDate         string                   `json:"birth_date"`
	BirthDateDetected bool                     `json:"birth_date_detected"`
	Cin               string                   `json:"cin"`
	Phone             string                   `json:"phone"`
	Email             string                   `json:"email"`
	InsuranceType     string                   `json:"insurance_type"`
	InsuranceNumber   string                   `json:"insurance_number"`
	Address           string                   `json:"address"`
	MedicalHistory    cabinetbundle.StringList `json:"medical_history"`
	Allergies         cabinetbundle.StringList `json:"allergies"`
}

// MapPatientRow applies the column heuristics to one data row. Separate name
// columns win, a merged "Nom & Prénom" column is the fallback, and rows that
// carry no name at all get the placeholders.
func MapPatientRow(headers []string, row Row) PatientDraft {
	lastName := strings.ToUpper(ExtractString(headers, row, lastNameKeywords))
	firstName := ExtractString(headers, row, firstNameKeywords)

	if lastName == "" || firstName == "" || lastName == firstName {
		fullName := ExtractString(headers, row, fullNameKeywords)
		if len(fullName) > 2 {
			parts := strings.Fields(fullName)
			if len(parts) >= 2 {
				lastName = strings.ToUpper(parts[0])
				firstName = strings.Join(parts[1:], " ")
			} else {
				lastName = strings.ToUpper(fullName)
				firstName = "-"
			}
		}
	}

	if len(lastName) < 2 {
		lastName = placeholderLastName
	}
	if firstName == "" {
		firstName = placeholderFirstName
	}

	birthCell, _ := ExtractCell(headers, row, birthDateKeywords)
	birthDate, birthDetected := CoerceDate(birthCell, defaultBirthDate)

	insuranceRaw := strings.ToUpper(ExtractString(headers, row, insuranceKeywords))
	insuranceType := cabinetbundle.InsuranceNone
	switch {
	case strings.Contains(insuranceRaw, "CNSS"):
		insuranceType = cabinetbundle.InsuranceCnss
	case strings.Contains(insuranceRaw, "CNOPS"):
		insuranceType = cabinetbundle.InsuranceCnops
	case strings.Contains(insuranceRaw, "PRIVE"),
		strings.Contains(insuranceRaw, "AXA"),
		strings.Contains(insuranceRaw, "SAHAM"),
		strings.Contains(insuranceRaw, "RMA"):
		insuranceType = cabinetbundle.InsurancePrivate
	}

	return PatientDraft{
		LastName:          lastName,
		FirstName:         firstName,
		BirthDate:         birthDate,
		BirthDateDetected: birthDetected,
		Cin:               strings.ToUpper(ExtractString(headers, row, cinKeywords)),
		Phone:             ExtractString(headers, row, phoneKeywords),
		Email:             strings.ToLower(ExtractString(headers, row, emailKeywords)),
		InsuranceType:     insuranceType,
		InsuranceNumber:   ExtractString(headers, row, insuranceNumberKeywords),
		Address:           ExtractString(headers, row, addressKeywords),
		MedicalHistory:    cabinetbundle.StringList(CoerceList(ExtractString(headers, row, historyKeywords))),
		Allergies:         cabinetbundle.StringList(CoerceList(ExtractString(headers, row, allergyKeywords))),
	}
}

// IsDuplicatePatient marks a draft as already known. A matching CIN is a
// certain duplicate. Without a CIN the full name must match AND the phone,
// same-name rows without phones are imported, homonyms are common.
func IsDuplicatePatient(draft PatientDraft, existing cabinetbundle.Patients) bool {
	for _, patient := range existing {
		if draft.Cin != "" && patient.Cin == draft.Cin {
			return true
		}
		if patient.LastName == draft.LastName && patient.FirstName == draft.FirstName &&
			draft.Phone != "" && patient.Phone == draft.Phone {
			return true
		}
	}
	return false
}
