package errors

import (
	"errors"
	"fmt"
)

// StoreErrorKind классифицирует ошибки удаленного хранилища.
// Раньше контроль потока зависел от сравнения текста ошибок ("Could not find
// the table...") — теперь у каждой категории свой типизированный вид.
type StoreErrorKind int

const (
	// StoreUnknown - неопознанная ошибка хранилища.
	StoreUnknown StoreErrorKind = iota
	// StoreSchemaMissing - таблица/схема отсутствует в БД (pgcode 42P01).
	StoreSchemaMissing
	// StoreRecordNotFound - запись с таким ключом не существует.
	StoreRecordNotFound
	// StoreTransient - сеть/таймаут, повторная попытка могла бы пройти.
	StoreTransient
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreSchemaMissing:
		return "schema_missing"
	case StoreRecordNotFound:
		return "record_not_found"
	case StoreTransient:
		return "transient"
	default:
		return "unknown"
	}
}

type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("ошибка хранилища (%s, операция %s): %v", e.Kind, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(kind StoreErrorKind, op string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// StoreErrorOfKind проверяет, является ли err ошибкой хранилища данной категории.
func StoreErrorOfKind(err error, kind StoreErrorKind) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind == kind
	}
	return false
}

// IsStoreUnavailable - любая ошибка хранилища, при которой заявку нужно
// уводить в локальный резервный кеш (все, кроме "запись не найдена").
func IsStoreUnavailable(err error) bool {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind != StoreRecordNotFound
	}
	return false
}
