package importbundle

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/GFattehallah/CMHE-Manager/app/cabinetbundle"
	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
	web3socket "github.com/GFattehallah/CMHE-Manager/app/websocket"
	"github.com/gorilla/mux"
)

// ImportController struct
type ImportController struct {
	core.Controller
	store   storage.RecordStore
	staging *StagingStore
}

// NewImportController instance
func NewImportController(store storage.RecordStore, users *map[string]core.User) *ImportController {
	c := &ImportController{
		Controller: core.Controller{Users: users},
		store:      store,
		staging:    NewStagingStore(),
	}
	return c
}

func (c *ImportController) sessionToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	tmp := strings.Split(auth, " ")
	if len(tmp) != 2 {
		return ""
	}
	return tmp[1]
}

func (c *ImportController) saveImportFile(r *http.Request) (string, error) {
	tmpPath := c.GetTmpUploadPath()

	err := os.MkdirAll(tmpPath, 0777)
	if err != nil {
		log.Println(err)
	}
	err = r.ParseMultipartForm(32 << 20)
	if err != nil {
		log.Println(err)
	}
	filePath := ""
	for _, fheaders := range r.MultipartForm.File {
		for _, hdr := range fheaders {
			// open uploaded
			var infile multipart.File
			if infile, err = hdr.Open(); nil != err {
				log.Println(err)
				return "", err
			}
			// open destination
			var outfile *os.File
			pos := strings.LastIndex(hdr.Filename, "/")
			filename := hdr.Filename[pos+1:]
			filePath = fmt.Sprintf("%s%s", tmpPath, filename)
			if outfile, err = os.Create(filePath); nil != err {
				log.Println(err)
				return "", err
			}
			// 32K buffer copy
			var written int64
			if written, err = io.Copy(outfile, infile); nil != err {
				log.Println(err)
				return "", err
			}
			log.Println("uploaded file:" + hdr.Filename + ";length:" + strconv.Itoa(int(written)))
		}
	}

	return filePath, nil
}

func (c *ImportController) loadPatients() (cabinetbundle.Patients, error) {
	records, err := c.store.List(storage.EntityPatients)
	if err != nil {
		return nil, err
	}
	patients := make(cabinetbundle.Patients, 0, len(records))
	for _, record := range records {
		if patient, ok := record.(*cabinetbundle.Patient); ok {
			patients = append(patients, *patient)
		}
	}
	return patients, nil
}

// PreviewPatientsHandler swagger:route POST /import/patients/preview import PreviewPatients
//
// uploads a patient sheet and stages the mapped rows for review
//
// Responses:
//
//	default: HandleErrorData
//	    200: data: StagedBatch
//	    401: HandleErrorData "unauthorized"
func (c *ImportController) PreviewPatientsHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	filePath, err := c.saveImportFile(r)
	if c.HandleError(err, w) {
		return
	}
	if filePath == "" {
		c.HandleErrorWithStatus(errors.New("no file uploaded"), w, http.StatusBadRequest)
		return
	}

	grid, err := ReadGrid(filePath)
	if c.HandleErrorWithStatus(err, w, http.StatusBadRequest) {
		return
	}

	table := NewTable(grid)
	if len(table.Rows) == 0 {
		c.HandleErrorWithStatus(errors.New("no readable rows found in the file"), w, http.StatusBadRequest)
		return
	}

	batch := &StagedBatch{
		Kind:      KindPatients,
		FileName:  filePath[strings.LastIndex(filePath, "/")+1:],
		CreatedAt: core.Now(),
	}
	for _, row := range table.Rows {
		batch.Patients = append(batch.Patients, MapPatientRow(table.Headers, row))
	}

	c.staging.Put(c.sessionToken(r), KindPatients, batch)

	c.SendJSON(w, batch, http.StatusOK)
}

// PreviewFinanceHandler stages an expense or revenue sheet. The optional
// default_date form field fills rows whose date could not be detected.
func (c *ImportController) PreviewFinanceHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	kind := vars["kind"]

	filePath, err := c.saveImportFile(r)
	if c.HandleError(err, w) {
		return
	}
	if filePath == "" {
		c.HandleErrorWithStatus(errors.New("no file uploaded"), w, http.StatusBadRequest)
		return
	}

	defaultDate := r.FormValue("default_date")
	if defaultDate == "" {
		defaultDate = time.Now().Format("2006-01-02")
	}

	grid, err := ReadGrid(filePath)
	if c.HandleErrorWithStatus(err, w, http.StatusBadRequest) {
		return
	}

	table := NewTable(grid)
	if len(table.Rows) == 0 {
		c.HandleErrorWithStatus(errors.New("no readable rows found in the file"), w, http.StatusBadRequest)
		return
	}

	batch := &StagedBatch{
		Kind:      kind,
		FileName:  filePath[strings.LastIndex(filePath, "/")+1:],
		CreatedAt: core.Now(),
	}

	if kind == KindExpense {
		batch.Expenses = MapExpenseRows(table, defaultDate)
	} else {
		patients, err := c.loadPatients()
		if c.HandleError(err, w) {
			return
		}
		batch.Revenues = MapRevenueRows(table, defaultDate, patients)
	}

	c.staging.Put(c.sessionToken(r), kind, batch)

	c.SendJSON(w, batch, http.StatusOK)
}

func (c *ImportController) GetPreviewHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	batch := c.staging.Get(c.sessionToken(r), vars["kind"])
	if batch == nil {
		c.HandleErrorWithStatus(errors.New("no staged import"), w, http.StatusNotFound)
		return
	}
	c.SendJSON(w, batch, http.StatusOK)
}

func (c *ImportController) RemovePreviewRowHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	batch := c.staging.Get(c.sessionToken(r), vars["kind"])
	if batch == nil {
		c.HandleErrorWithStatus(errors.New("no staged import"), w, http.StatusNotFound)
		return
	}

	index, err := strconv.Atoi(vars["index"])
	if c.HandleErrorWithStatus(err, w, http.StatusBadRequest) {
		return
	}
	if err := batch.RemoveAt(index); c.HandleErrorWithStatus(err, w, http.StatusBadRequest) {
		return
	}

	c.SendJSON(w, batch, http.StatusOK)
}

func (c *ImportController) CancelPreviewHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	c.staging.Drop(c.sessionToken(r), vars["kind"])

	c.SendJSON(w, "OK", http.StatusOK)
}

// CommitHandler writes the staged batch, best effort per row, and reports
// how many rows went through.
func (c *ImportController) CommitHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	kind := vars["kind"]
	token := c.sessionToken(r)

	batch := c.staging.Get(token, kind)
	if batch == nil {
		c.HandleErrorWithStatus(errors.New("no staged import"), w, http.StatusNotFound)
		return
	}

	result := CommitBatch(c.store, batch)
	c.staging.Drop(token, kind)

	foreignType := web3socket.Websocket_Patients
	switch kind {
	case KindExpense:
		foreignType = web3socket.Websocket_Expenses
	case KindRevenue:
		foreignType = web3socket.Websocket_Invoices
	}
	if result.Imported > 0 {
		go web3socket.SendBroadCastWebsocketDataInfoMessage("Imported records", web3socket.Websocket_Add, foreignType, "", &result)
	}

	c.SendJSON(w, &result, http.StatusOK)
}
