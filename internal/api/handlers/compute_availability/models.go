package compute_availability

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
	computeAvailability "github.com/QueueM/QueueMe-SchedulingService/internal/usecase/compute_availability"
)

// SlotResponse один доступный слот у конкретного специалиста.
// Один и тот же интервал у разных специалистов - отдельные слоты.
type SlotResponse struct {
	SpecialistID int64  `json:"specialistId"`
	StartTime    string `json:"startTime"` // "10:00"
	EndTime      string `json:"endTime"`   // "10:30"
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	ShopID     int64          `json:"shopId"`
	ServiceID  int64          `json:"serviceId"`
	Date       string         `json:"date"`
	ShopClosed bool           `json:"shopClosed"`
	Slots      []SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(shopID, serviceID int64, dateStr string, specialistID *int64) (*computeAvailability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	selector := domain.AnySpecialist()
	if specialistID != nil {
		selector = domain.PinnedSpecialist(*specialistID)
	}

	return &computeAvailability.Request{
		ShopID:     shopID,
		ServiceID:  serviceID,
		Date:       date,
		Specialist: selector,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
// Буферы услуг клиенту не видны: наружу уходят только сами слоты
func FromUseCaseResponse(resp *computeAvailability.Response) *AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		slots = append(slots, SlotResponse{
			SpecialistID: c.SpecialistID,
			StartTime:    c.Slot.Start.Format(domain.TimeFormat),
			EndTime:      c.Slot.End.Format(domain.TimeFormat),
		})
	}

	return &AvailabilityResponse{
		ShopID:     resp.ShopID,
		ServiceID:  resp.ServiceID,
		Date:       resp.Date.Format(domain.DateFormat),
		ShopClosed: resp.ShopClosed,
		Slots:      slots,
	}
}
