package schedule_appointment

import (
	"errors"
	"net/http"

	"github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers"
	scheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgInvalidRequest         = "некорректные параметры запроса"
	msgUnknownStrategy        = "неизвестная стратегия подбора слота"
	msgShopNotFound           = "салон не найден"
	msgServiceNotFound        = "услуга не найдена"
	msgSpecialistNotFound     = "специалист не найден"
	msgSpecialistNotQualified = "специалист не оказывает эту услугу"
	msgNoOperatingHours       = "у салона не настроены часы работы"
)

type Handler struct {
	useCase ScheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ScheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ScheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты,
	// стратегии и предпочитаемого окна)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		if errors.Is(err, scheduleAppointment.ErrUnknownStrategy) {
			handlers.RespondBadRequest(w, msgUnknownStrategy)
		} else {
			handlers.RespondBadRequest(w, msgInvalidRequest)
		}
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, scheduleAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: customer_id=%d, shop_id=%d, error=%v",
				req.CustomerID, req.ShopID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, scheduleAppointment.ErrUnknownStrategy):
			h.logger.Warn("POST /appointments - Unknown strategy: %s", req.Strategy)
			handlers.RespondBadRequest(w, msgUnknownStrategy)

		case errors.Is(err, scheduleAppointment.ErrShopNotFound):
			h.logger.Warn("POST /appointments - Shop not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, scheduleAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, scheduleAppointment.ErrSpecialistNotFound):
			h.logger.Warn("POST /appointments - Specialist not found: shop_id=%d", req.ShopID)
			handlers.RespondNotFound(w, msgSpecialistNotFound)

		case errors.Is(err, scheduleAppointment.ErrSpecialistNotQualified):
			h.logger.Warn("POST /appointments - Specialist not qualified: shop_id=%d", req.ShopID)
			handlers.RespondBadRequest(w, msgSpecialistNotQualified)

		case errors.Is(err, scheduleAppointment.ErrNoOperatingHours):
			h.logger.Warn("POST /appointments - No operating hours configured: shop_id=%d", req.ShopID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgNoOperatingHours)

		default:
			h.logger.Error("POST /appointments - Failed: customer_id=%d, shop_id=%d, error=%v",
				req.CustomerID, req.ShopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	// Отклонение - значение, а не ошибка: статус HTTP зависит от причины
	if result.State == scheduleAppointment.StateRejected {
		h.logger.Info("POST /appointments - Rejected: request_id=%s, reason=%s, customer_id=%d, shop_id=%d",
			result.RequestID, result.Reason, req.CustomerID, req.ShopID)
		handlers.RespondJSON(w, statusForRejection(result.Reason), response)
		return
	}

	h.logger.Info("POST /appointments - Committed: request_id=%s, appointments=%d, sequenced=%t, customer_id=%d, shop_id=%d",
		result.RequestID, len(result.Appointments), result.Sequenced, req.CustomerID, req.ShopID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// statusForRejection подбирает HTTP статус под причину отклонения:
// гонка за слот - конфликт, сбой данных - временная недоступность,
// отсутствие слотов - штатный ответ
func statusForRejection(reason scheduleAppointment.RejectionReason) int {
	switch reason {
	case scheduleAppointment.ReasonAllCandidatesConflicted:
		return http.StatusConflict
	case scheduleAppointment.ReasonTemporaryFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}
