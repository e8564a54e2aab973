package borrowing

import (
	"net/http"
	"strconv"
	"time"

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

	h.Render(w, r, "borrowing_list", map[string]any{
		"Requests":   requests,
		"Filter":     filter,
		"CanApprove": identity.HasCapability(internal.CapApproveBorrowing),
	})
}

func (h *Handler) ShowRequestForm(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, "borrowing_form", nil)
}

func (h *Handler) Request(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/borrowings", "Invalid form submission")
		return
	}

	equipmentID, _ := strconv.ParseInt(r.PostFormValue("equipment_id"), 10, 64)
	dto := RequestBorrowingDTO{
		EquipmentID: equipmentID,
		Purpose:     r.PostFormValue("purpose"),
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if _, err := h.Service.Request(identity, dto); err != nil {
		appErr, ok := internal.IsAppError(err)
		if ok && appErr.Type == internal.ErrorTypeValidation {
			data := map[string]any{"Form": dto}
			if details, ok := appErr.Details.(internal.ValidationErrors); ok {
				data["Errors"] = details.Messages()
			}
			h.RenderStatus(w, r, appErr.StatusCode, "borrowing_form", data)
			return
		}
		h.HandleError(w, r, err, "/borrowings")
		return
	}

	h.RedirectWithFlash(w, r, "/borrowings", "Borrowing request submitted")
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/borrowings", "Borrowing request not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/borrowings", "Invalid form submission")
		return
	}

	dueDate, _ := time.Parse("2006-01-02", r.PostFormValue("due_date"))

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := h.Service.Approve(identity, id, ApproveBorrowingDTO{DueDate: dueDate}); err != nil {
		h.HandleError(w, r, err, "/borrowings")
		return
	}

	h.RedirectWithFlash(w, r, "/borrowings", "Borrowing request approved")
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/borrowings", "Borrowing request not found")
		return
	}

	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/borrowings", "Invalid form submission")
		return
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := h.Service.Reject(identity, id, RejectBorrowingDTO{Reason: r.PostFormValue("reason")}); err != nil {
		h.HandleError(w, r, err, "/borrowings")
		return
	}

	h.RedirectWithFlash(w, r, "/borrowings", "Borrowing request rejected")
}

func (h *Handler) Return(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Return, "Equipment returned")
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.Service.Cancel, "Borrowing request cancelled")
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, op func(*internal.Identity, int64) error, success string) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/borrowings", "Borrowing request not found")
		return
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := op(identity, id); err != nil {
		h.HandleError(w, r, err, "/borrowings")
		return
	}

	h.RedirectWithFlash(w, r, "/borrowings", success)
}
