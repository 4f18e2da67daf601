package schedule_appointment

import "fmt"

// Strategy стратегия подбора слота и специалиста. Закрытый набор:
// каждая стратегия сводится к явному переопределению весов или фильтру
// кандидатов, без диспетчеризации по произвольным строкам.
type Strategy string

const (
	// StrategyEarliestAvailable самый ранний доступный слот
	StrategyEarliestAvailable Strategy = "earliest_available"

	// StrategyBalancedWorkload усиленный вес загрузки специалистов
	StrategyBalancedWorkload Strategy = "balanced_workload"

	// StrategyMinimizeWait самый ранний слот в предпочитаемом окне клиента
	StrategyMinimizeWait Strategy = "minimize_wait"

	// StrategyResourceEfficient минимизация простоев в расписании специалиста
	StrategyResourceEfficient Strategy = "resource_efficient"
)

// ParseStrategy разбирает стратегию из строки запроса.
// Пустая строка означает стратегию по умолчанию.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyEarliestAvailable:
		return StrategyEarliestAvailable, nil
	case StrategyBalancedWorkload:
		return StrategyBalancedWorkload, nil
	case StrategyMinimizeWait:
		return StrategyMinimizeWait, nil
	case StrategyResourceEfficient:
		return StrategyResourceEfficient, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}
