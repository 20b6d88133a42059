package formatting

import (
	"fmt"
	"time"
)

// FormatLessonTime дата и время урока в часовом поясе loc
func FormatLessonTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

// FormatDuration длительность урока в минутах
func FormatDuration(minutes int) string {
	if minutes%60 == 0 {
		return fmt.Sprintf("%d س", minutes/60)
	}
	if minutes > 60 {
		return fmt.Sprintf("%d س %d د", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d د", minutes)
}
