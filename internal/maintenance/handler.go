package maintenance

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(base *transport.BaseHandler, svc *Service) *Handler {
	return &Handler{BaseHandler: base, Service: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := internal.IdentityFromContext(r.Context())

	filter := ListFilter{}
	if status := r.URL.Query().Get("status"); status != "" {
		if parsed, err := ParseStatus(status); err == nil {
			filter.Status = parsed
		}
	}

	requests, err := h.Service.ListFor(identity, filter)
	if err != nil {
		h.HandleError(w, r, err, "/")
		return
	}

	h.Render(w, r, "maintenance_list", map[string]any{
		"Requests":  requests,
		"Filter":    filter,
		"CanManage": identity.HasCapability(internal.CapManageMaintenance),
	})
}

func (h *Handler) ShowReportForm(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "maintenance_form", nil)
}

func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/maintenance", "Invalid form submission")
		return
	}

	equipmentID, _ := strconv.ParseInt(r.PostFormValue("equipment_id"), 10, 64)
	dto := ReportMaintenanceDTO{
		EquipmentID: equipmentID,
		Description: r.PostFormValue("description"),
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if _, err := h.Service.Report(identity, dto); err != nil {
		appErr, ok := internal.IsAppError(err)
		if ok && appErr.Type == internal.ErrorTypeValidation {
			data := map[string]any{"Form": dto}
			if details, ok := appErr.Details.(internal.ValidationErrors); ok {
				data["Errors"] = details.Messages()
			}
			h.RenderStatus(w, r, appErr.StatusCode, "maintenance_form", data)
			return
		}
		h.HandleError(w, r, err, "/maintenance")
		return
	}

	h.RedirectWithFlash(w, r, "/maintenance", "Maintenance reported")
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/maintenance", "Maintenance request not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/maintenance", "Invalid form submission")
		return
	}
	technicianID, _ := strconv.ParseInt(r.PostFormValue("technician_id"), 10, 64)

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := h.Service.Assign(identity, id, AssignMaintenanceDTO{TechnicianID: technicianID}); err != nil {
		h.HandleError(w, r, err, "/maintenance")
		return
	}

	h.RedirectWithFlash(w, r, "/maintenance", "Maintenance request assigned")
}

func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Complete, "Maintenance request completed")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Cancel, "Maintenance request cancelled")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Delete, "Maintenance request deleted")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(*internal.Identity, int64) error, success string) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/maintenance", "Maintenance request not found")
		return
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := op(identity, id); err != nil {
		h.HandleError(w, r, err, "/maintenance")
		return
	}

	h.RedirectWithFlash(w, r, "/maintenance", success)
}
