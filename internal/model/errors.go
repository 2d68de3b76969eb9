package model

import "errors"

// ErrorKind классифицирует ошибку для вызывающей стороны
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"  // ошибка входных данных, повтор без изменений бесполезен
	KindConflict    ErrorKind = "conflict"    // нужно перечитать доступность и повторить с другими данными
	KindNotFound    ErrorKind = "not_found"   // устаревший идентификатор
	KindConsistency ErrorKind = "consistency" // проиграна гонка, можно повторить один раз
	KindInternal    ErrorKind = "internal"
)

// Error типизированная ошибка бизнес-операции
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Ошибки бронирования
var (
	ErrInvalidDuration = &Error{Kind: KindValidation, Code: "invalid_duration", Message: "appointment must be exactly 30 minutes"}
	ErrInvalidSlotTime = &Error{Kind: KindValidation, Code: "invalid_slot_time", Message: "appointment must start on a 30 minute boundary"}
	ErrInvalidRequest  = &Error{Kind: KindValidation, Code: "invalid_request", Message: "invalid request"}

	ErrAlreadyBooked    = &Error{Kind: KindConflict, Code: "already_booked", Message: "you already booked this slot"}
	ErrDuplicateSlot    = &Error{Kind: KindConflict, Code: "duplicate_slot", Message: "slot already exists"}
	ErrDuplicateBooking = &Error{Kind: KindConflict, Code: "duplicate_booking", Message: "appointment already exists for this student, course and time"}
	ErrSlotUnavailable  = &Error{Kind: KindConflict, Code: "slot_unavailable", Message: "slot already booked by another student"}

	ErrNotFound = &Error{Kind: KindNotFound, Code: "not_found", Message: "appointment not found"}

	ErrDeleteFailed = &Error{Kind: KindConsistency, Code: "delete_failed", Message: "appointment could not be deleted"}
	ErrUpdateFailed = &Error{Kind: KindConsistency, Code: "update_failed", Message: "appointment not updated"}
)

// Ошибки вспомогательных модулей
var (
	ErrSlotNotFound         = &Error{Kind: KindNotFound, Code: "slot_not_found", Message: "slot not found"}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Code: "user_not_found", Message: "user not found"}
	ErrClassNotFound        = &Error{Kind: KindNotFound, Code: "class_not_found", Message: "class not found"}
	ErrNotificationNotFound = &Error{Kind: KindNotFound, Code: "notification_not_found", Message: "notification not found"}
	ErrProfessorNotFound    = &Error{Kind: KindNotFound, Code: "professor_not_found", Message: "professor email not found"}

	ErrEmailTaken      = &Error{Kind: KindConflict, Code: "email_taken", Message: "email already registered"}
	ErrDuplicateClass  = &Error{Kind: KindConflict, Code: "duplicate_class", Message: "course id already exists"}
	ErrAlreadyEnrolled = &Error{Kind: KindConflict, Code: "already_enrolled", Message: "student already enrolled in this class"}

	ErrInvalidCredentials = &Error{Kind: KindValidation, Code: "invalid_credentials", Message: "invalid credentials"}
)

// Invalid создаёт ValidationError с собственным сообщением
func Invalid(msg string) error {
	return &Error{Kind: KindValidation, Code: ErrInvalidRequest.Code, Message: msg}
}

// KindOf возвращает класс ошибки; всё неизвестное считается внутренней ошибкой
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf возвращает машинный код ошибки
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal"
}
