package cabinetbundle

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
	web3socket "github.com/GFattehallah/CMHE-Manager/app/websocket"
	"github.com/gorilla/mux"
)

func (c *CabinetController) GetInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	invoices, err := c.loadInvoices()
	if c.HandleError(err, w) {
		return
	}

	if len(r.URL.Query()) > 0 {
		values := r.URL.Query()
		if val, ok := values["patient_id"]; ok && len(val) > 0 && val[0] != "" {
			filtered := make(Invoices, 0, len(invoices))
			for _, invoice := range invoices {
				if invoice.PatientID == val[0] {
					filtered = append(filtered, invoice)
				}
			}
			invoices = filtered
		}
		if val, ok := values["year"]; ok && len(val) > 0 && val[0] != "" {
			year, _ := strconv.Atoi(val[0])
			filtered := make(Invoices, 0, len(invoices))
			for _, invoice := range invoices {
				if invoice.Date.Valid && invoice.Date.Time.Year() == year {
					filtered = append(filtered, invoice)
				}
			}
			invoices = filtered
		}
	}

	sort.Slice(invoices, func(i, j int) bool {
		return invoices[i].Date.Time.After(invoices[j].Date.Time)
	})

	c.SendJSON(w, &invoices, http.StatusOK)
}

func (c *CabinetController) SaveInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	var invoice Invoice
	if err := c.GetContent(&invoice, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	if !invoice.Validate() {
		c.SendErrors(w, invoice.Errors, http.StatusBadRequest)
		return
	}

	isNew := invoice.ID == ""
	if isNew {
		invoice.ID = NewRecordID("INV")
	}

	if err := c.store.Save(storage.EntityInvoices, &invoice); c.HandleError(err, w) {
		return
	}

	action := web3socket.Websocket_Update
	if isNew {
		action = web3socket.Websocket_Add
	}
	go web3socket.SendBroadCastWebsocketDataInfoMessage("Saved invoice", action, web3socket.Websocket_Invoices, invoice.ID, nil)

	c.SendJSON(w, &invoice, http.StatusOK)
}

func (c *CabinetController) DeleteInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ok, user := c.GetUser(w, r)
	if !ok {
		return
	}
	if user.Role == core.RoleSecretary {
		c.HandleErrorWithStatus(errors.New("You are not allowed to delete invoices"), w, http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	invoiceId := vars["invoiceId"]

	if err := c.store.Delete(storage.EntityInvoices, invoiceId); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted invoice", web3socket.Websocket_Delete, web3socket.Websocket_Invoices, invoiceId, nil)

	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *CabinetController) DeleteInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	ids, ok := c.getIDs(r, w)
	if !ok {
		return
	}

	if err := c.store.DeleteBulk(storage.EntityInvoices, ids); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted invoices", web3socket.Websocket_Delete, web3socket.Websocket_Invoices, "", ids)

	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *CabinetController) GetExpensesHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	expenses, err := c.loadExpenses()
	if c.HandleError(err, w) {
		return
	}

	if len(r.URL.Query()) > 0 {
		values := r.URL.Query()
		if val, ok := values["year"]; ok && len(val) > 0 && val[0] != "" {
			year, _ := strconv.Atoi(val[0])
			filtered := make(Expenses, 0, len(expenses))
			for _, expense := range expenses {
				if expense.Date.Valid && expense.Date.Time.Year() == year {
					filtered = append(filtered, expense)
				}
			}
			expenses = filtered
		}
		if val, ok := values["category"]; ok && len(val) > 0 && val[0] != "" {
			filtered := make(Expenses, 0, len(expenses))
			for _, expense := range expenses {
				if expense.Category == val[0] {
					filtered = append(filtered, expense)
				}
			}
			expenses = filtered
		}
	}

	sort.Slice(expenses, func(i, j int) bool {
		return expenses[i].Date.Time.After(expenses[j].Date.Time)
	})

	c.SendJSON(w, &expenses, http.StatusOK)
}

func (c *CabinetController) SaveExpenseHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	var expense Expense
	if err := c.GetContent(&expense, r); err != nil {
		c.HandleErrorWithStatus(err, w, http.StatusBadRequest)
		return
	}

	if !expense.Validate() {
		c.SendErrors(w, expense.Errors, http.StatusBadRequest)
		return
	}

	isNew := expense.ID == ""
	if isNew {
		expense.ID = NewRecordID("EXP")
	}

	if err := c.store.Save(storage.EntityExpenses, &expense); c.HandleError(err, w) {
		return
	}

	action := web3socket.Websocket_Update
	if isNew {
		action = web3socket.Websocket_Add
	}
	go web3socket.SendBroadCastWebsocketDataInfoMessage("Saved expense", action, web3socket.Websocket_Expenses, expense.ID, nil)

	c.SendJSON(w, &expense, http.StatusOK)
}

func (c *CabinetController) DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	expenseId := vars["expenseId"]

	if err := c.store.Delete(storage.EntityExpenses, expenseId); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted expense", web3socket.Websocket_Delete, web3socket.Websocket_Expenses, expenseId, nil)

	c.SendJSON(w, "OK", http.StatusOK)
}

func (c *CabinetController) DeleteExpensesHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	ids, ok := c.getIDs(r, w)
	if !ok {
		return
	}

	if err := c.store.DeleteBulk(storage.EntityExpenses, ids); c.HandleError(err, w) {
		return
	}

	go web3socket.SendBroadCastWebsocketDataInfoMessage("Deleted expenses", web3socket.Websocket_Delete, web3socket.Websocket_Expenses, "", ids)

	c.SendJSON(w, "OK", http.StatusOK)
}

// FinanceSummary aggregates one year of revenues and expenses per month.
// swagger:model
type FinanceSummary struct {
	Year          int                 `json:"year"`
	TotalRevenue  float64             `json:"total_revenue"`
	TotalExpenses float64             `json:"total_expenses"`
	Net           float64             `json:"net"`
	Months        []FinanceMonthTotal `json:"months"`
}

// swagger:model
type FinanceMonthTotal struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

func (c *CabinetController) GetFinanceSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ok, _ := c.GetUser(w, r)
	if !ok {
		return
	}

	year := time.Now().Year()
	if val, ok := r.URL.Query()["year"]; ok && len(val) > 0 && val[0] != "" {
		if parsed, err := strconv.Atoi(val[0]); err == nil {
			year = parsed
		}
	}

	invoices, err := c.loadInvoices()
	if c.HandleError(err, w) {
		return
	}
	expenses, err := c.loadExpenses()
	if c.HandleError(err, w) {
		return
	}

	summary := FinanceSummary{Year: year, Months: make([]FinanceMonthTotal, 12)}
	for month := 0; month < 12; month++ {
		summary.Months[month].Month = fmt.Sprintf("%d-%02d", year, month+1)
	}

	for _, invoice := range invoices {
		if !invoice.Date.Valid || invoice.Date.Time.Year() != year || invoice.Status != InvoicePaid {
			continue
		}
		summary.TotalRevenue += float64(invoice.Amount)
		summary.Months[int(invoice.Date.Time.Month())-1].Revenue += float64(invoice.Amount)
	}
	for _, expense := range expenses {
		if !expense.Date.Valid || expense.Date.Time.Year() != year {
			continue
		}
		summary.TotalExpenses += float64(expense.Amount)
		summary.Months[int(expense.Date.Time.Month())-1].Expenses += float64(expense.Amount)
	}
	summary.Net = summary.TotalRevenue - summary.TotalExpenses

	c.SendJSON(w, &summary, http.StatusOK)
}
