package room

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
	filter := ListFilter{Building: r.URL.Query().Get("building")}
	if status := r.URL.Query().Get("status"); status != "" {
		if parsed, err := ParseStatus(status); err == nil {
			filter.Status = parsed
		}
	}

	rooms, err := h.Service.List(filter)
	if err != nil {
		h.HandleError(w, r, err, "/")
		return
	}

	h.Render(w, r, "room_list", map[string]any{
		"Rooms":  rooms,
		"Filter": filter,
	})
}

func (h *Handler) ShowForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	if idParam := chi.URLParam(r, "id"); idParam != "" {
		id, err := transport.PathID(idParam)
		if err != nil {
			h.RedirectWithFlash(w, r, "/rooms", "Room not found")
			return
		}
		rm, err := h.Service.Get(id)
		if err != nil {
			h.HandleError(w, r, err, "/rooms")
			return
		}
		data["Room"] = rm
	}
	h.Render(w, r, "room_form", data)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	dto, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	if _, err := h.Service.Create(dto); err != nil {
		if h.rerenderOnValidation(w, r, err, dto, nil) {
			return
		}
		h.HandleError(w, r, err, "/rooms")
		return
	}

	h.RedirectWithFlash(w, r, "/rooms", "Room created")
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/rooms", "Room not found")
		return
	}

	dto, ok := h.parseForm(w, r)
	if !ok {
		return
	}

	if _, err := h.Service.Update(id, dto); err != nil {
		if h.rerenderOnValidation(w, r, err, dto, &id) {
			return
		}
		h.HandleError(w, r, err, "/rooms")
		return
	}

	h.RedirectWithFlash(w, r, "/rooms", "Room updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(chi.URLParam(r, "id"))
	if err != nil {
		h.RedirectWithFlash(w, r, "/rooms", "Room not found")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.HandleError(w, r, err, "/rooms")
		return
	}

	h.RedirectWithFlash(w, r, "/rooms", "Room deleted")
}

func (h *Handler) parseForm(w http.ResponseWriter, r *http.Request) (UpsertRoomDTO, bool) {
	if err := r.ParseForm(); err != nil {
		h.RedirectWithFlash(w, r, "/rooms", "Invalid form submission")
		return UpsertRoomDTO{}, false
	}

	capacity, _ := strconv.Atoi(r.PostFormValue("capacity"))
	return UpsertRoomDTO{
		Name:     r.PostFormValue("name"),
		Building: r.PostFormValue("building"),
		Capacity: capacity,
		Status:   r.PostFormValue("status"),
	}, true
}

func (h *Handler) rerenderOnValidation(w http.ResponseWriter, r *http.Request, err error, dto UpsertRoomDTO, id *int64) bool {
	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.Type != internal.ErrorTypeValidation {
		return false
	}

	data := map[string]any{"Form": dto}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		data["Errors"] = details.Messages()
	} else {
		data["Errors"] = []string{appErr.UserMessage()}
	}
	if id != nil {
		data["EditID"] = *id
	}
	h.RenderStatus(w, r, appErr.StatusCode, "room_form", data)
	return true
}
