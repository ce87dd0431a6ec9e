package constants

// RequestKind - вид заявки: ремонт или выкуп устройства.
type RequestKind string

const (
	KindRepair  RequestKind = "repair"
	KindBuyback RequestKind = "buyback"
)

func (k RequestKind) Valid() bool {
	return k == KindRepair || k == KindBuyback
}

// Статусы ремонтной заявки.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	// Заявка на выкуп создается сразу в терминальном статусе.
	StatusQuoteGenerated = "quote_generated"
)

// allowedTransitions - машина состояний ремонтной заявки.
// Откат назад запрещен, отмена возможна до завершения работ.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition сообщает, допустим ли переход статуса from -> to.
func CanTransition(from, to string) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// StatusMessages - человекочитаемые сообщения для записей истории статусов.
var StatusMessages = map[string]string{
	StatusPending:        "Заявка принята и ожидает подтверждения",
	StatusConfirmed:      "Заявка подтверждена мастером",
	StatusInProgress:     "Устройство в работе",
	StatusCompleted:      "Работы завершены, устройство готово к выдаче",
	StatusCancelled:      "Заявка отменена",
	StatusQuoteGenerated: "Предложение о выкупе сформировано",
}
