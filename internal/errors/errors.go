// Package errors provides custom error types for the BuildFlow bot.
// All service-layer errors should use AppError so handlers can show a
// consistent user-facing message without leaking internal details.
package errors

// AppError represents a structured application error with an error code,
// a user-facing message (the text shown in chat), and an optional
// internal error carrying the real cause for logs.
type AppError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Internal error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  sentinel.Message,
		Internal: internal,
	}
}

// WithMessage creates a new AppError with a custom user-facing message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:     sentinel.Code,
		Message:  message,
		Internal: sentinel.Internal,
	}
}

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "❌ Некорректный ввод"}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "❌ Не найдено"}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "❌ Произошла ошибка. Попробуйте позже."}
)

// User errors.
var (
	ErrUserNotFound = &AppError{Code: "USER_NOT_FOUND", Message: "❌ Пользователь не найден"}
	ErrRoleRequired = &AppError{Code: "ROLE_REQUIRED", Message: "❌ Только прорабы могут создавать проекты"}
)

// Project errors.
var (
	ErrProjectNotFound = &AppError{Code: "PROJECT_NOT_FOUND", Message: "❌ Проект не найден"}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "❌ Операция не найдена"}
	ErrInvalidAmount       = &AppError{Code: "INVALID_AMOUNT", Message: "❌ Введите корректную сумму (больше 0)"}
	ErrInvalidCategory     = &AppError{Code: "INVALID_CATEGORY", Message: "❌ Неизвестная категория"}
)

// Progress photo errors.
var (
	ErrInvalidStage = &AppError{Code: "INVALID_STAGE", Message: "❌ Неизвестный этап"}
)

// Change order errors.
var (
	ErrChangeOrderNotFound = &AppError{Code: "CHANGE_ORDER_NOT_FOUND", Message: "❌ Согласование не найдено"}
	ErrChangeOrderResolved = &AppError{Code: "CHANGE_ORDER_RESOLVED", Message: "❌ Согласование уже рассмотрено"}
)

// Task errors.
var (
	ErrTaskNotFound = &AppError{Code: "TASK_NOT_FOUND", Message: "❌ Задача не найдена"}
)

// Optional-dependency errors. These never escape past the handler; they
// select the "feature unavailable" reply.
var (
	ErrVoiceUnavailable  = &AppError{Code: "VOICE_UNAVAILABLE", Message: "❌ Голосовой ввод недоступен. Обратитесь к администратору."}
	ErrExportUnavailable = &AppError{Code: "EXPORT_UNAVAILABLE", Message: "❌ Экспорт временно недоступен"}
	ErrLowConfidence     = &AppError{Code: "LOW_CONFIDENCE", Message: "❓ Я не совсем понял расход. Повторите, пожалуйста."}
)
