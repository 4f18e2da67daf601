package compute_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers"
	computeAvailability "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/compute_availability"
)

const (
	msgInvalidShopID          = "некорректный ID салона"
	msgInvalidServiceID       = "некорректный ID услуги"
	msgInvalidSpecialistID    = "некорректный ID специалиста"
	msgMissingServiceID       = "ID услуги обязателен"
	msgMissingDate            = "дата обязательна"
	msgInvalidDate            = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgShopNotFound           = "салон не найден"
	msgServiceNotFound        = "услуга не найдена"
	msgSpecialistNotFound     = "специалист не найден"
	msgSpecialistNotQualified = "специалист не оказывает эту услугу"
	msgNoOperatingHours       = "у салона не настроены часы работы"
	msgDataUnavailable        = "сервис временно недоступен, повторите попытку"
)

type Handler struct {
	useCase ComputeAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase ComputeAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/availability
// Query params: serviceId (required), date (required, YYYY-MM-DD),
// specialistId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shopID, err := strconv.ParseInt(vars["shopId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/availability - Invalid shop ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShopID)
		return
	}

	serviceIDStr := r.URL.Query().Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /shops/{id}/availability - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /shops/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	var specialistID *int64
	if s := r.URL.Query().Get("specialistId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /shops/{id}/availability - Invalid specialist ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSpecialistID)
			return
		}
		specialistID = &id
	}

	useCaseReq, err := ToUseCaseRequest(shopID, serviceID, dateStr, specialistID)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, computeAvailability.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/availability - Shop not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, computeAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /shops/{id}/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, computeAvailability.ErrSpecialistNotFound):
			h.logger.Warn("GET /shops/{id}/availability - Specialist not found: shop_id=%d", shopID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, computeAvailability.ErrSpecialistNotQualified):
			h.logger.Warn("GET /shops/{id}/availability - Specialist not qualified: shop_id=%d, service_id=%d", shopID, serviceID)
			handlers.RespondBadRequest(w, msgSpecialistNotQualified)

		case errors.Is(err, computeAvailability.ErrNoOperatingHours):
			// ошибка конфигурации, а не "закрыто в этот день"
			h.logger.Warn("GET /shops/{id}/availability - No operating hours configured: shop_id=%d", shopID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNoOperatingHours)

		case errors.Is(err, computeAvailability.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, computeAvailability.ErrDataUnavailable):
			h.logger.Error("GET /shops/{id}/availability - Data unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgDataUnavailable)

		default:
			h.logger.Error("GET /shops/{id}/availability - Failed: shop_id=%d, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/availability - %d slots: shop_id=%d, service_id=%d, date=%s",
		len(result.Candidates), shopID, serviceID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
