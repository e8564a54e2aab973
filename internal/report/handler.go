package report

import (
	"net/http"
	"time"

	"github.com/maulanaar/labtrack/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(base *transport.BaseHandler, service *Service) *Handler {
	return &Handler{BaseHandler: base, Service: service}
}

// Show renders the aggregate report page. An optional from/to query pair
// narrows the maintenance and borrowing figures by submission date.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	dateRange, from, to := parseDateRange(r)

	summary, err := h.Service.Summary(dateRange)
	if err != nil {
		h.HandleError(w, r, err, "/")
		return
	}

	h.Render(w, r, "reports", map[string]any{
		"Title":   "Reports",
		"Summary": summary,
		"From":    from,
		"To":      to,
	})
}

func parseDateRange(r *http.Request) (DateRange, string, string) {
	var dateRange DateRange
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			dateRange.From = t
		} else {
			from = ""
		}
	}
	if to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			// include the whole end day
			dateRange.To = t.Add(24*time.Hour - time.Nanosecond)
		} else {
			to = ""
		}
	}
	return dateRange, from, to
}
