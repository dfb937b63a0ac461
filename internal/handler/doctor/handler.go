package doctor

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking-api/internal/middleware"
	"github.com/jwalitptl/clinic-booking-api/internal/service/booking"
	"github.com/jwalitptl/clinic-booking-api/internal/service/doctor"
	apperrors "github.com/jwalitptl/clinic-booking-api/pkg/errors"
	"github.com/jwalitptl/clinic-booking-api/pkg/httputil"
)

type Handler struct {
	doctorSvc  *doctor.Service
	bookingSvc *booking.Service
}

func NewHandler(doctorSvc *doctor.Service, bookingSvc *booking.Service) *Handler {
	return &Handler{doctorSvc: doctorSvc, bookingSvc: bookingSvc}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.doctorSvc.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, doctors)
}

func (h *Handler) GetFreeSlots(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("date must be formatted YYYY-MM-DD", err))
		return
	}

	slots, err := h.bookingSvc.FreeSlots(c.Request.Context(), doctorID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, slots)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.GET("", middleware.Cache(middleware.DefaultCacheConfig()), h.ListDoctors)
		doctors.GET("/:id/slots", h.GetFreeSlots)
	}
}
