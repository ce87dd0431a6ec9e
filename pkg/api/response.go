package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "repair-service/pkg/errors"
)

type Response[T any] struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Body    T      `json:"body,omitempty"`
}

type ListBody[T any] struct {
	List       []T    `json:"list"`
	TotalCount uint64 `json:"total_count"`
}

// SuccessOne — для возврата одного объекта
func SuccessOne[T any](c echo.Context, code int, message string, data T) error {
	return c.JSON(code, Response[T]{
		Status:  true,
		Message: message,
		Body:    data,
	})
}

func SuccessList[T any](c echo.Context, message string, list []T, total uint64) error {
	if list == nil {
		list = make([]T, 0)
	}
	return c.JSON(http.StatusOK, Response[ListBody[T]]{
		Status:  true,
		Message: message,
		Body:    ListBody[T]{List: list, TotalCount: total},
	})
}

func ErrorResponse(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	msg := err.Error()

	// Для HttpError берем только пользовательское сообщение, без технических деталей
	var httpErr *apperrors.HttpError
	var inputErr *apperrors.InvalidInputError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		msg = httpErr.Message
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if s, ok := echoErr.Message.(string); ok {
			msg = s
		}
	case errors.As(err, &inputErr):
		code = http.StatusBadRequest
		msg = inputErr.Message
	case errors.Is(err, apperrors.ErrTrackingCodeNotFound), errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidStatusChange), errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
	}

	return c.JSON(code, Response[any]{
		Status:  false,
		Message: msg,
	})
}
