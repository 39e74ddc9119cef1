package cabinetbundle

import (
	"net/http"

	"github.com/GFattehallah/CMHE-Manager/app/core"
	"github.com/GFattehallah/CMHE-Manager/app/storage"
)

// CabinetBundle handles patients, agenda and the finance ledger
type CabinetBundle struct {
	routes []core.Route
}

// NewCabinetBundle instance
func NewCabinetBundle(store storage.RecordStore, users *map[string]core.User) core.Bundle {
	hc := NewCabinetController(store, users)

	r := []core.Route{
		core.Route{Method: http.MethodGet, Path: "/patients", Handler: hc.GetPatientsHandler},
		core.Route{Method: http.MethodGet, Path: "/patients/{patientId}", Handler: hc.GetPatientHandler},
		core.Route{Method: http.MethodPost, Path: "/patients", Handler: hc.SavePatientHandler},
		core.Route{Method: http.MethodDelete, Path: "/patients/{patientId}", Handler: hc.DeletePatientHandler},
		core.Route{Method: http.MethodPost, Path: "/patients/delete", Handler: hc.DeletePatientsHandler},

		core.Route{Method: http.MethodGet, Path: "/appointments", Handler: hc.GetAppointmentsHandler},
		core.Route{Method: http.MethodPost, Path: "/appointments", Handler: hc.SaveAppointmentHandler},
		core.Route{Method: http.MethodDelete, Path: "/appointments/{appointmentId}", Handler: hc.DeleteAppointmentHandler},

		core.Route{Method: http.MethodGet, Path: "/consultations", Handler: hc.GetConsultationsHandler},
		core.Route{Method: http.MethodPost, Path: "/consultations", Handler: hc.SaveConsultationHandler},
		core.Route{Method: http.MethodDelete, Path: "/consultations/{consultationId}", Handler: hc.DeleteConsultationHandler},
		core.Route{Method: http.MethodGet, Path: "/consultations/{consultationId}/prescription", Handler: hc.GetPrescriptionPDFHandler},

		core.Route{Method: http.MethodGet, Path: "/invoices", Handler: hc.GetInvoicesHandler},
		core.Route{Method: http.MethodPost, Path: "/invoices", Handler: hc.SaveInvoiceHandler},
		core.Route{Method: http.MethodDelete, Path: "/invoices/{invoiceId}", Handler: hc.DeleteInvoiceHandler},
		core.Route{Method: http.MethodPost, Path: "/invoices/delete", Handler: hc.DeleteInvoicesHandler},
		core.Route{Method: http.MethodGet, Path: "/invoices/{invoiceId}/pdf", Handler: hc.GetInvoicePDFHandler},

		core.Route{Method: http.MethodGet, Path: "/expenses", Handler: hc.GetExpensesHandler},
		core.Route{Method: http.MethodPost, Path: "/expenses", Handler: hc.SaveExpenseHandler},
		core.Route{Method: http.MethodDelete, Path: "/expenses/{expenseId}", Handler: hc.DeleteExpenseHandler},
		core.Route{Method: http.MethodPost, Path: "/expenses/delete", Handler: hc.DeleteExpensesHandler},

		core.Route{Method: http.MethodGet, Path: "/finance/summary", Handler: hc.GetFinanceSummaryHandler},
		core.Route{Method: http.MethodGet, Path: "/finance/export", Handler: hc.ExportFinanceHandler},
	}

	return &CabinetBundle{routes: r}
}

// GetRoutes returns all bundle routes
func (b *CabinetBundle) GetRoutes() []core.Route {
	return b.routes
}
