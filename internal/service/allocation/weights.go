package allocation

import (
	"fmt"
	"math"
)

// Weights веса факторов взвешенной оценки специалистов
// Политика подбора настраивается конфигурацией, а не константами в алгоритме
type Weights struct {
	Workload           float64 // менее загруженные специалисты предпочтительнее
	Skills             float64 // глубина навыков среди квалифицированных
	CustomerPreference float64 // история взаимодействий с клиентом
	WaitTime           float64 // более ранние слоты предпочтительнее
	Performance        float64 // рейтинг специалиста
}

// DefaultWeights веса по умолчанию: 30/25/20/15/10
func DefaultWeights() Weights {
	return Weights{
		Workload:           0.30,
		Skills:             0.25,
		CustomerPreference: 0.20,
		WaitTime:           0.15,
		Performance:        0.10,
	}
}

// Sum возвращает сумму весов
func (w Weights) Sum() float64 {
	return w.Workload + w.Skills + w.CustomerPreference + w.WaitTime + w.Performance
}

// Validate проверяет, что веса неотрицательны и в сумме дают 1.0
// Нарушение - ошибка конфигурации, отсекаемая на старте сервиса,
// а не в момент обработки запроса
func (w Weights) Validate() error {
	if w.Workload < 0 || w.Skills < 0 || w.CustomerPreference < 0 || w.WaitTime < 0 || w.Performance < 0 {
		return fmt.Errorf("%w: weights must be non-negative: %+v", ErrInvalidWeights, w)
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1.0, got %.6f", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// WithWorkloadOverride возвращает веса с переопределенным весом загрузки;
// остальные веса масштабируются пропорционально, чтобы сумма осталась 1.0
// Используется стратегией BalancedWorkload на время одного запроса
func (w Weights) WithWorkloadOverride(workload float64) (Weights, error) {
	if workload < 0 || workload >= 1 {
		return Weights{}, fmt.Errorf("%w: workload override %.3f must be in [0, 1)", ErrInvalidWeights, workload)
	}

	rest := w.Sum() - w.Workload
	if rest <= 0 {
		return Weights{}, fmt.Errorf("%w: cannot renormalize, non-workload weights sum to %.6f", ErrInvalidWeights, rest)
	}

	scale := (1.0 - workload) / rest
	out := Weights{
		Workload:           workload,
		Skills:             w.Skills * scale,
		CustomerPreference: w.CustomerPreference * scale,
		WaitTime:           w.WaitTime * scale,
		Performance:        w.Performance * scale,
	}

	if err := out.Validate(); err != nil {
		return Weights{}, err
	}
	return out, nil
}

// weightSumTolerance допуск на накопленную погрешность float при проверке суммы
const weightSumTolerance = 1e-6
