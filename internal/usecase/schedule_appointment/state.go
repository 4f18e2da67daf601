package schedule_appointment

// State состояние запроса на запись в машине состояний
// Requested -> SlotsComputed -> SpecialistSelected -> ConflictChecked -> Committed
// с выходом в Rejected(reason) из любого состояния
type State string

const (
	StateRequested          State = "requested"
	StateSlotsComputed      State = "slots_computed"
	StateSpecialistSelected State = "specialist_selected"
	StateConflictChecked    State = "conflict_checked"
	StateCommitted          State = "committed"
	StateRejected           State = "rejected"
)

// RejectionReason причина отклонения запроса
type RejectionReason string

const (
	ReasonNone RejectionReason = ""

	// ReasonNoAvailability нет ни одного доступного слота
	ReasonNoAvailability RejectionReason = "no_availability"

	// ReasonSpecialistUnavailable выбранный специалист недоступен на дату
	ReasonSpecialistUnavailable RejectionReason = "specialist_unavailable"

	// ReasonAllCandidatesConflicted все кандидаты конфликтуют после
	// ограниченного числа повторов
	ReasonAllCandidatesConflicted RejectionReason = "all_candidates_conflicted"

	// ReasonTemporaryFailure источник данных временно недоступен,
	// запрос можно безопасно повторить
	ReasonTemporaryFailure RejectionReason = "temporary_failure"
)
