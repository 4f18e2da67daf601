package compute_availability

import (
	"time"

	"github.com/QueueM/QueueMe-SchedulingService/internal/domain"
)

// Request запрос на расчет доступности
type Request struct {
	ShopID    int64
	ServiceID int64
	Date      time.Time

	// Specialist явный выбор: любой подходящий или конкретный специалист
	Specialist domain.SpecialistSelector
}

// Response результат расчета доступности
// Candidates упорядочены по времени начала, затем по ID специалиста; один и
// тот же слот у разных специалистов представлен отдельными кандидатами.
// ShopClosed отличает "закрыто по календарю" (валидный пустой результат)
// от ошибки конфигурации часов работы (ErrNoOperatingHours).
type Response struct {
	ShopID     int64
	ServiceID  int64
	Date       time.Time
	ShopClosed bool

	Spec       *domain.ServiceSpec
	Candidates []domain.Candidate
	Profiles   map[int64]*domain.SpecialistProfile
}
