package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

// Общие ошибки сервисов
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotPermitted    = errors.New("actor is not permitted to change this booking")
	ErrBookingConflict = errors.New("teacher already has a lesson at this time")
)

// ValidationError ошибки отдельных полей запроса
type ValidationError struct {
	FieldErrors map[string]string
}

func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}

	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v.FieldErrors[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors сообщает, есть ли ошибки полей
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// InvalidTransitionError переход отсутствует в графе статусов
type InvalidTransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition %s -> %s", e.From, e.To)
}

// TransportError сбой обращения к хранилищу
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport проверяет, что ошибка вызвана сбоем хранилища
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var (
		validation *ValidationError
		transition *InvalidTransitionError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &validation):
		return "❌ بيانات الحجز غير مكتملة أو غير صحيحة"
	case errors.As(err, &transition):
		return "❌ لا يمكن تغيير حالة هذا الدرس"
	case errors.Is(err, ErrBookingNotFound):
		return "❌ الحجز غير موجود، حدّث القائمة"
	case errors.Is(err, ErrUserNotFound):
		return "❌ المستخدم غير موجود. استخدم /start"
	case errors.Is(err, ErrNotPermitted):
		return "❌ ليست لديك صلاحية لهذا الإجراء"
	case errors.Is(err, ErrBookingConflict):
		return "❌ المعلم مشغول في هذا الوقت"
	case IsTransport(err):
		return "❌ تعذر الاتصال بالخادم، حاول مرة أخرى"
	default:
		return "❌ حدث خطأ"
	}
}
