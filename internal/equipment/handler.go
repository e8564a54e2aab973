package equipment

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
	filter := ListFilter{
		Name:     r.URL.Query().Get("name"),
		Category: r.URL.Query().Get("category"),
	}
	if status := r.URL.Query().Get("status"); status != "" {
		if parsed, err := ParseStatus(status); err == nil {
			filter.Status = parsed
		}
	}

	items, err := h.Service.List(filter)
	if err != nil {
		h.HandleError(w, r, err, "/")
		return
	}

	h.Render(w, r, "equipment_list", map[string]any{
		"Items":  items,
		"Filter": filter,
	})
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	if idParam := chi.URLParam(r, "id"); idParam != "" {
		id, err := transport.PathID(idParam)
		if err != nil {
			h.RedirectWithFlash(w, r, "/equipment", "Equipment not found")
			return
		}
		item, err := h.Service.Get(id)
		if err != nil {
			h.HandleError(w, r, err, "/equipment")
			return
		}
		data["Item"] = item
	}
	h.Render(w, r, "equipment_form", data)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	dto, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if _, err := h.Service.Create(identity, dto); err != nil {
		if h.rerenderOnValidation(w, r, err, dto, nil) {
			return
		}
		h.HandleError(w, r, err, "/equipment")
		return
	}

	h.RedirectWithFlash(w, r, "/equipment", "Equipment created")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/equipment", "Equipment not found")
		return
	}

	dto, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	item, serr := h.Service.Update(identity, id, dto)
	if serr != nil {
		if h.rerenderOnValidation(w, r, serr, dto, &id) {
			return
		}
		h.HandleError(w, r, serr, "/equipment")
		return
	}

	_ = item
	h.RedirectWithFlash(w, r, "/equipment", "Equipment updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/equipment", "Equipment not found")
		return
	}

	identity, _ := internal.IdentityFromContext(r.Context())
	if err := h.Service.Delete(identity, id); err != nil {
		h.HandleError(w, r, err, "/equipment")
		return
	}

	h.RedirectWithFlash(w, r, "/equipment", "Equipment deleted")
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (UpsertEquipmentDTO, bool) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/equipment", "Invalid form submission")
		return UpsertEquipmentDTO{}, false
	}

	dto := UpsertEquipmentDTO{
		Name:         r.PostFormValue("name"),
		Category:     r.PostFormValue("category"),
		SerialNumber: r.PostFormValue("serial_number"),
		Condition:    r.PostFormValue("condition"),
		Status:       r.PostFormValue("status"),
		Description:  r.PostFormValue("description"),
	}
	if roomValue := r.PostFormValue("room_id"); roomValue != "" {
		if roomID, err := strconv.ParseInt(roomValue, 10, 64); err == nil {
			dto.RoomID = &roomID
		}
	}
	return dto, true
}

// rerenderOnValidation redisplays the form with the submitted values so
// nothing the user typed is lost.
func (h *Handler) rerenderOnValidation(w http.ResponseWriter, r *http.Request, err error, dto UpsertEquipmentDTO, id *int64) bool {
	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.Type != internal.ErrorTypeValidation {
		return false
	}

	data := map[string]any{
		"Form": dto,
	}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		data["Errors"] = details.Messages()
	} else {
		data["Errors"] = []string{appErr.UserMessage()}
	}
	if id != nil {
		data["EditID"] = *id
	}
	h.RenderStatus(w, r, appErr.StatusCode, "equipment_form", data)
	return true
}
