package http

import (
	"net/http"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/calendar"
	"github.com/kantorkita/presensi-backend-go/internal/handler/http/response"
)

type CalendarHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
}

type CalendarHandlerImpl struct {
	resolver calendar.Resolver
}

func NewCalendarHandler(resolver calendar.Resolver) CalendarHandler {
	return &CalendarHandlerImpl{resolver: resolver}
}

// Resolve implements CalendarHandler. Query by date for a single day
// or by start_date/end_date for a range.
func (h *CalendarHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if raw := query.Get("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			response.HandleError(w, calendar.ErrInvalidDate)
			return
		}

		resolution, err := h.resolver.Resolve(r.Context(), date)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, resolution)
		return
	}

	rawStart := query.Get("start_date")
	rawEnd := query.Get("end_date")
	if rawStart == "" || rawEnd == "" {
		response.BadRequest(w, "date or start_date/end_date is required", nil)
		return
	}

	start, err := time.Parse(dateLayout, rawStart)
	if err != nil {
		response.HandleError(w, calendar.ErrInvalidDate)
		return
	}
	end, err := time.Parse(dateLayout, rawEnd)
	if err != nil {
		response.HandleError(w, calendar.ErrInvalidDate)
		return
	}

	resolutions, err := h.resolver.ResolveRange(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resolutions)
}
