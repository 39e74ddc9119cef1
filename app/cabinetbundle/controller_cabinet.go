package cabinetbundle

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
	web3socket "github.com/GFattehallah/CMHE-Manager/app/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CabinetController struct
type CabinetController struct {
	core.Controller
	store storage.RecordStore
}

// NewCabinetController instance
func NewCabinetController(store storage.RecordStore, users *map[string]core.User) *CabinetController {
	c := &CabinetController{
		Controller: core.Controller{Users: users},
		store:      store,
	}
	return c
}

// Entities registers the cabinet collections with the record store.
func Entities() map[string]storage.Entity {
	return map[string]storage.Entity{
		storage.EntityPatients: {
			Name:     storage.EntityPatients,
			New:      func() storage.Record { return &Patient{} },
			NewSlice: func() interface{} { return &Patients{} },
		},
		storage.EntityAppointments: {
			Name:     storage.EntityAppointments,
			New:      func() storage.Record { return &Appointment{} },
			NewSlice: func() interface{} { return &Appointments{} },
		},
		storage.EntityConsultations: {
			Name:     storage.EntityConsultations,
			New:      func() storage.Record { return &Consultation{} },
			NewSlice: func() interface{} { return &Consultations{} },
		},
		storage.EntityInvoices: {
			Name:     storage.EntityInvoices,
			New:      func() storage.Record { return &Invoice{} },
			NewSlice: func() interface{} { return &Invoices{} },
		},
		storage.EntityExpenses: {
			Name:     storage.EntityExpenses,
			New:      func() storage.Record { return &Expense{} },
			NewSlice: func() interface{} { return &Expenses{} },
		},
	}
}

// Models lists the gorm models for auto migration.
func Models() []interface{} {
	return []interface{}{&Patient{}, &Appointment{}, &Consultation{}, &Invoice{}, &Expense{}}
}

func NewRecordID(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

var searchNormalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeSearch lowercases and strips accents so "Aïcha" matches "aicha".
func normalizeSearch(s string) string {
	if out, _, err := transform.String(searchNormalizer, s); err == nil {
		s = out
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func (c *CabinetController) loadPatients() (Patients, error) {
	records, err := c.store.List(storage.EntityPatients)
	if err != nil {
		return nil, err
	}
	patients := make(Patients, 0, len(records))
	for _, record := range records {
		if patient, ok := record.(*Patient); ok {
			patients = append(patients, *patient)
		}
	}
	return patients, nil
}

func (c *CabinetController) loadAppointments() (Appointments, error) {
	records, err := c.store.List(storage.EntityAppointments)
	if err != nil {
		return nil, err
	}
	appointments := make(Appointments, 0, len(records))
	for _, record := range records {
		if appointment, ok := record.(*Appointment); ok {
			appointments = append(appointments, *appointment)
		}
	}
	return appointments, nil
}

func (c *CabinetController) loadConsultations() (Consultations, error) {
	records, err := c.store.List(storage.EntityConsultations)
	if err != nil {
		return nil, err
	}
	consultations := make(Consultations, 0, len(records))
	for _, record := range records {
		if consultation, ok := record.(*Consultation); ok {
			consultations = append(consultations, *consultation)
		}
	}
	return consultations, nil
}

func (c *CabinetController) loadInvoices() (Invoices, error) {
	records, err := c.store.List(storage.EntityInvoices)
	if err != nil {
		return nil, err
	}
	invoices := make(Invoices, 0, len(records))
	for _, record := range records {
		if invoice, ok := record.(*Invoice); ok {
			invoices = append(invoices, *invoice)
		}
	}
	return invoices, nil
}

func (c *CabinetController) loadExpenses() (Expenses, error) {
	records, err := c.store.List(storage.EntityExpenses)
	if err != nil {
		return nil, err
	}
	expenses := make(Expenses, 0, len(records))
	for _, record := range records {
		if expense, ok := record.(*Expense); ok {
			expenses = append(expenses, *expense)
		}
	}
	return expenses, nil
}

func (c *CabinetController) getIDs(r *http.Request, w http.ResponseWriter) ([]string, bool) {
	payload := struct {
		IDs []string `json:"ids"`
	}{}
	if err := c.GetContent(&payload, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return nil, false
	}
	if len(payload.IDs) == 0 {
		c.HandleErrorWithStatus(errors.New("no ids given"), w, http.StatusBadRequest)
		return nil, false
	}
	return payload.IDs, true
}

// GetPatientsHandler swagger:route GET /patients patients GetPatients
//
// retrieves all patients, optionally filtered by ?search=
//
// Responses:
//
//	default: HandleErrorData
//	    200: data: []Patient
//	    401: HandleErrorData "unauthorized"
func (c *CabinetController) GetPatientsHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	patients, err := c.loadPatients()
	if c.HandleError(err, w) {
		return
	}

	if len(r.URL.Query()) > 0 {
		values := r.URL.Query()
		if val, ok := values["search"]; ok && len(val) > 0 && val[0] != "" {
			search := normalizeSearch(val[0])
			filtered := make(Patients, 0, len(patients))
			for _, patient := range patients {
				haystack := normalizeSearch(patient.FullName() + " " + patient.Cin + " " + patient.Phone)
				if strings.Contains(haystack, search) {
					filtered = append(filtered, patient)
				}
			}
			patients = filtered
		}
	}

	sort.Slice(patients, func(i, j int) bool {
		if patients[i].LastName == patients[j].LastName {
			return patients[i].FirstName < patients[j].FirstName
		}
		return patients[i].LastName < patients[j].LastName
	})

	paging := c.GetPaging(r.URL.Query())
	paging.TotalCount = len(patients)
	if paging.PerPage > 0 {
		paging.TotalPage = (paging.TotalCount + paging.PerPage - 1) / paging.PerPage
	}
	if paging.Offset >= 0 && paging.Limit > 0 {
		start := paging.Offset
		if start > len(patients) {
			start = len(patients)
		}
		end := start + paging.Limit
		if end > len(patients) {
			end = len(patients)
		}
		patients = patients[start:end]
	}

	c.SendJSONPaging(w, r, paging, &patients, http.StatusOK)
}

func (c *CabinetController) GetPatientHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	patients, err := c.loadPatients()
	if c.HandleError(err, w) {
		return
	}
	for _, patient := range patients {
		if patient.ID == vars["patientId"] {
			c.SendJSON(w, &patient, http.StatusOK)
			return
		}
	}
	c.HandleErrorWithStatus(errors.New("Patient not found"), w, http.StatusNotFound)
}

func (c *CabinetController) SavePatientHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	var patient Patient
	if err := c.GetContent(&patient, r); err != nil {
		log.Println(err)
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	if !patient.Validate() {
		log.Println(patient.Errors)
		c.SendErrors(w, patient.Errors, http.StatusBadRequest)
		return
	}

	isNew := patient.ID == ""
	if isNew {
		patient.ID = NewRecordID("P")
	}

	if err := c.store.Save(storage.EntityPatients, &patient); c.HandleError(err, w) {
		return
	}

	action := web3socket.Websocket_Update
	if isNew {
		action = web3socket.Websocket_Add
	}
	go web3socket.SendBroadCastWebsocketDataInfoMessage("Saved patient", action, web3socket.Websocket_Patients, patient.ID, nil)

	c.SendJSON(w, &patient, http.StatusOK)
}

func (c *CabinetController) DeletePatientHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	patientId := vars["patientId"]

	if err := c.store.Delete(storage.EntityPatients, patientId); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted patient", web3socket.Websocket_Delete, web3socket.Websocket_Patients, patientId, nil)

	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *CabinetController) DeletePatientsHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	ids, ok := c.getIDs(r, w)
	if !ok {
		return
	}

	if err := c.store.DeleteBulk(storage.EntityPatients, ids); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted patients", web3socket.Websocket_Delete, web3socket.Websocket_Patients, "", ids)

	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *CabinetController) GetAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	appointments, err := c.loadAppointments()
	if c.HandleError(err, w) {
		return
	}

	if len(r.URL.Query()) > 0 {
		values := r.URL.Query()
		if val, ok := values["patient_id"]; ok && len(val) > 0 && val[0] != "" {
			filtered := make(Appointments, 0, len(appointments))
			for _, appointment := range appointments {
				if appointment.PatientID == val[0] {
					filtered = append(filtered, appointment)
				}
			}
			appointments = filtered
		}
	}

	sort.Slice(appointments, func(i, j int) bool {
		if appointments[i].Date.Time.Equal(appointments[j].Date.Time) {
			return appointments[i].Time < appointments[j].Time
		}
		return appointments[i].Date.Time.Before(appointments[j].Date.Time)
	})

	c.SendJSON(w, &appointments, http.StatusOK)
}

func (c *CabinetController) SaveAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	var appointment Appointment
	if err := c.GetContent(&appointment, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	if !appointment.Validate() {
		c.SendErrors(w, appointment.Errors, http.StatusBadRequest)
		return
	}

	isNew := appointment.ID == ""
	if isNew {
		appointment.ID = NewRecordID("APT")
	}

	if err := c.store.Save(storage.EntityAppointments, &appointment); c.HandleError(err, w) {
		return
	}

	action := web3socket.Websocket_Update
	if isNew {
		action = web3socket.Websocket_Add
	}
	go web3socket.SendBroadCastWebsocketDataInfoMessage("Saved appointment", action, web3socket.Websocket_Appointments, appointment.ID, nil)

	c.SendJSON(w, &appointment, http.StatusOK)
}

func (c *CabinetController) DeleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	appointmentId := vars["appointmentId"]

	if err := c.store.Delete(storage.EntityAppointments, appointmentId); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted appointment", web3socket.Websocket_Delete, web3socket.Websocket_Appointments, appointmentId, nil)

	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *CabinetController) GetConsultationsHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	consultations, err := c.loadConsultations()
	if c.HandleError(err, w) {
		return
	}

	if len(r.URL.Query()) > 0 {
		values := r.URL.Query()
		if val, ok := values["patient_id"]; ok && len(val) > 0 && val[0] != "" {
			filtered := make(Consultations, 0, len(consultations))
			for _, consultation := range consultations {
				if consultation.PatientID == val[0] {
					filtered = append(filtered, consultation)
				}
			}
			consultations = filtered
		}
	}

	sort.Slice(consultations, func(i, j int) bool {
		return consultations[i].Date.Time.After(consultations[j].Date.Time)
	})

	c.SendJSON(w, &consultations, http.StatusOK)
}

func (c *CabinetController) SaveConsultationHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	var consultation Consultation
	if err := c.GetContent(&consultation, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	if !consultation.Validate() {
		c.SendErrors(w, consultation.Errors, http.StatusBadRequest)
		return
	}

	isNew := consultation.ID == ""
	if isNew {
		consultation.ID = NewRecordID("CONS")
	}

	if err := c.store.Save(storage.EntityConsultations, &consultation); c.HandleError(err, w) {
		return
	}

	action := web3socket.Websocket_Update
	if isNew {
		action = web3socket.Websocket_Add
	}
	go web3socket.SendBroadCastWebsocketDataInfoMessage("Saved consultation", action, web3socket.Websocket_Consultations, consultation.ID, nil)

	c.SendJSON(w, &consultation, http.StatusOK)
}

func (c *CabinetController) DeleteConsultationHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	consultationId := vars["consultationId"]

	if err := c.store.Delete(storage.EntityConsultations, consultationId); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted consultation", web3socket.Websocket_Delete, web3socket.Websocket_Consultations, consultationId, nil)

	c.SendJSON(w, "OK", http.StatusOK)
}
