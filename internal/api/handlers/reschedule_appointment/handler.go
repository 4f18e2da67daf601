package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/QueueM/QueueMe-SchedulingService/internal/api/handlers"
	rescheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/reschedule_appointment"
	scheduleAppointment "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/schedule_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID бронирования"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidRequest       = "некорректные параметры запроса"
	msgUnknownStrategy      = "неизвестная стратегия подбора слота"
	msgAppointmentNotFound  = "бронирование не найдено"
	msgNotReschedulable     = "бронирование нельзя перенести"
)

type Handler struct {
	useCase RescheduleAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(appointmentID)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Failed to parse request: %v", err)
		if errors.Is(err, scheduleAppointment.ErrUnknownStrategy) {
			handlers.RespondBadRequest(w, msgUnknownStrategy)
		} else {
			handlers.RespondBadRequest(w, msgInvalidRequest)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, rescheduleAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid input: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, rescheduleAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, rescheduleAppointment.ErrNotReschedulable):
			h.logger.Warn("POST /appointments/{id}/reschedule - Not reschedulable: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotReschedulable)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	if result.State == scheduleAppointment.StateRejected {
		h.logger.Info("POST /appointments/{id}/reschedule - Rejected: request_id=%s, reason=%s, appointment_id=%d",
			result.RequestID, result.Reason, appointmentID)
		handlers.RespondJSON(w, statusForRejection(result.Reason), response)
		return
	}

	h.logger.Info("POST /appointments/{id}/reschedule - Committed: request_id=%s, appointment_id=%d, new_id=%d",
		result.RequestID, appointmentID, result.Appointment.ID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}

// statusForRejection подбирает HTTP статус под причину отклонения
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
