package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/quran_academy/internal/controller/keyboard"
	"github.com/Freeeeeet/quran_academy/internal/formatting"
	"github.com/Freeeeeet/quran_academy/internal/model"
	"github.com/Freeeeeet/quran_academy/internal/navigation"
)

var actionLabels = map[model.BookingStatus]string{
	model.BookingStatusConfirmed: "✅ تأكيد",
	model.BookingStatusCompleted: "✔️ إكمال",
	model.BookingStatusCancelled: "❌ إلغاء",
}

// RenderMenu текст и клавиатура вкладок, доступных роли
func RenderMenu(state navigation.State) (string, *models.InlineKeyboardMarkup) {
	active, _ := navigation.Lookup(state.ActiveView)

	var buttons []models.InlineKeyboardButton
	for _, item := range navigation.VisibleItems(state.Role) {
		label := item.Label
		if item.ID == state.ActiveView {
			label = "• " + label
		}
		buttons = append(buttons, keyboard.Button(label, navPrefix+item.ID))
	}

	text := fmt.Sprintf("📋 %s", active.Label)
	return text, keyboard.NewBuilder().Grid(2, buttons...).Build()
}

// BookingActions статусы, в которые участник может перевести урок
func BookingActions(b *model.Booking, viewer model.Actor) []model.BookingStatus {
	if viewer.Role != model.RoleInstructor || viewer.ID != b.TeacherID {
		return nil
	}

	var actions []model.BookingStatus
	for _, next := range model.BookingStatuses() {
		if model.CanTransition(b.Status, next) {
			actions = append(actions, next)
		}
	}
	return actions
}

// RenderBookings список уроков участника с кнопками действий
func RenderBookings(bookings []*model.Booking, viewer model.Actor, loc *time.Location) (string, *models.InlineKeyboardMarkup) {
	if len(bookings) == 0 {
		return "📅 لا توجد دروس محجوزة", nil
	}

	var sb strings.Builder
	sb.WriteString("📅 جدول الدروس\n")

	kb := keyboard.NewBuilder()
	for i, b := range bookings {
		fmt.Fprintf(&sb, "\n%d. 🗓 %s · ⏱ %s\n   %s",
			i+1,
			formatting.FormatLessonTime(b.ScheduledTime, loc),
			formatting.FormatDuration(b.DurationMinutes),
			formatting.FormatStatusLabel(b.Status),
		)
		if b.Notes != "" {
			fmt.Fprintf(&sb, "\n   📝 %s", b.Notes)
		}

		var row []models.InlineKeyboardButton
		for _, next := range BookingActions(b, viewer) {
			row = append(row, keyboard.Button(
				fmt.Sprintf("%d. %s", i+1, actionLabels[next]),
				BookingCallbackData(next, b.ID),
			))
		}
		kb.Row(row...)
	}

	markup := kb.Build()
	if len(markup.InlineKeyboard) == 0 {
		return sb.String(), nil
	}
	return sb.String(), markup
}

// RenderTeachers список учителей для выбора при бронировании
func RenderTeachers(teachers []*model.User) string {
	if len(teachers) == 0 {
		return "👨‍🏫 لا يوجد معلمون حالياً"
	}

	var sb strings.Builder
	sb.WriteString("👨‍🏫 المعلمون\n")
	for _, t := range teachers {
		fmt.Fprintf(&sb, "\n#%d %s", t.ID, t.DisplayName())
	}
	sb.WriteString("\n\nللحجز: /book <رقم المعلم> <YYYY-MM-DD> <HH:MM> [الدقائق] [ملاحظات]")
	return sb.String()
}

// RenderStudents список студентов
func RenderStudents(students []*model.User) string {
	if len(students) == 0 {
		return "👥 لا يوجد طلاب بعد"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 الطلاب: %d\n", len(students))
	for _, s := range students {
		fmt.Fprintf(&sb, "\n#%d %s", s.ID, s.DisplayName())
	}
	return sb.String()
}
