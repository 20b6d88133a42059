package formatting

import "github.com/Freeeeeet/quran_academy/internal/model"

// BookingStatusDisplay представляет отображение статуса бронирования
type BookingStatusDisplay struct {
	Emoji string
	Text  string
}

var bookingStatusDisplays = map[model.BookingStatus]BookingStatusDisplay{
	model.BookingStatusPending:   {"⏳", "قيد الانتظار"},
	model.BookingStatusConfirmed: {"✅", "مؤكد"},
	model.BookingStatusCompleted: {"✔️", "مكتمل"},
	model.BookingStatusCancelled: {"❌", "ملغى"},
}

// GetBookingStatusDisplay возвращает emoji и текст для статуса бронирования
func GetBookingStatusDisplay(status model.BookingStatus) BookingStatusDisplay {
	if display, ok := bookingStatusDisplays[status]; ok {
		return display
	}

	return BookingStatusDisplay{"❓", "غير معروف"}
}

// FormatStatusLabel строка статуса для показа пользователю
func FormatStatusLabel(status model.BookingStatus) string {
	d := GetBookingStatusDisplay(status)
	return d.Emoji + " " + d.Text
}
