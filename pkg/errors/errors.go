package errors

import "fmt"

var (
	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Заявки
	ErrTrackingCodeNotFound  = fmt.Errorf("заявка с таким трек-кодом не найдена")
	ErrInvalidRequestKind    = fmt.Errorf("недопустимый тип заявки")
	ErrInvalidStatusChange   = fmt.Errorf("недопустимый переход статуса заявки")
	ErrNothingStored         = fmt.Errorf("заявку не удалось сохранить ни в одном хранилище")
	ErrUnknownConditionGrade = fmt.Errorf("неизвестная оценка состояния устройства")
)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}
