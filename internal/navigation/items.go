package navigation

import (
	"fmt"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

// Item пункт навигации; ID одновременно ключ экрана
type Item struct {
	ID    string
	Label string
	Roles []model.Role
}

// VisibleTo проверяет, доступен ли пункт роли
func (i Item) VisibleTo(role model.Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

const (
	ViewDashboard           = "dashboard"
	ViewDiscover            = "discover"
	ViewClassroom           = "classroom"
	ViewLeaderboard         = "leaderboard"
	ViewCurriculum          = "curriculum"
	ViewSchedule            = "schedule"
	ViewAchievements        = "achievements"
	ViewAITutor             = "ai-tutor"
	ViewChat                = "chat"
	ViewLessonBooking       = "lesson-booking"
	ViewPayments            = "payments"
	ViewInstructorDashboard = "instructor-dashboard"
	ViewEarnings            = "earnings"
	ViewMyStudents          = "my-students"
	ViewAdminDashboard      = "admin-dashboard"
	ViewManageUsers         = "manage-users"
	ViewPlatformSettings    = "platform-settings"
	ViewContentManager      = "content-manager"
)

var (
	studentOnly    = []model.Role{model.RoleStudent}
	instructorOnly = []model.Role{model.RoleInstructor}
	adminOnly      = []model.Role{model.RoleAdmin}
	shared         = []model.Role{model.RoleStudent, model.RoleInstructor}
)

// items порядок значим: он задаёт порядок вкладок слева направо.
// Таблица не меняется во время работы.
var items = []Item{
	// Студент
	{ID: ViewDashboard, Label: "الرئيسية", Roles: studentOnly},
	{ID: ViewDiscover, Label: "استكشف المعلمين", Roles: studentOnly},
	{ID: ViewClassroom, Label: "الفصل الدراسي", Roles: shared},
	{ID: ViewLeaderboard, Label: "لوحة الصدارة", Roles: studentOnly},
	{ID: ViewCurriculum, Label: "منهجي الدراسي", Roles: studentOnly},
	{ID: ViewSchedule, Label: "جدول الحصص", Roles: shared},
	{ID: ViewAchievements, Label: "الإنجازات", Roles: studentOnly},
	{ID: ViewAITutor, Label: "المساعد الذكي", Roles: studentOnly},
	{ID: ViewChat, Label: "المحادثات", Roles: shared},
	{ID: ViewLessonBooking, Label: "حجز الدروس", Roles: shared},
	{ID: ViewPayments, Label: "الدفع", Roles: studentOnly},

	// Учитель
	{ID: ViewInstructorDashboard, Label: "لوحة التحكم", Roles: instructorOnly},
	{ID: ViewEarnings, Label: "الأرباح", Roles: instructorOnly},
	{ID: ViewMyStudents, Label: "طلابِي", Roles: instructorOnly},

	// Администратор
	{ID: ViewAdminDashboard, Label: "نظرة عامة", Roles: adminOnly},
	{ID: ViewManageUsers, Label: "إدارة المستخدمين", Roles: adminOnly},
	{ID: ViewPlatformSettings, Label: "إعدادات المنصة", Roles: adminOnly},
	{ID: ViewContentManager, Label: "إدارة المحتوى", Roles: adminOnly},
}

// defaultViews экран по умолчанию для каждой роли
var defaultViews = map[model.Role]string{
	model.RoleStudent:    ViewDashboard,
	model.RoleInstructor: ViewInstructorDashboard,
	model.RoleAdmin:      ViewAdminDashboard,
}

// Items возвращает копию полной таблицы навигации
func Items() []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

// Lookup ищет пункт по ID
func Lookup(id string) (Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// ValidateTable проверяет инварианты таблицы: уникальные ID, хотя бы одна роль
// у каждого пункта, экран по умолчанию виден своей роли.
func ValidateTable(table []Item) error {
	seen := make(map[string]struct{}, len(table))
	for _, item := range table {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("duplicate navigation id %q", item.ID)
		}
		seen[item.ID] = struct{}{}

		if len(item.Roles) == 0 {
			return fmt.Errorf("navigation item %q has no roles", item.ID)
		}
	}

	for role, view := range defaultViews {
		if !visibleIn(table, role, view) {
			return fmt.Errorf("default view %q is not visible to %s", view, role)
		}
	}

	return nil
}

func visibleIn(table []Item, role model.Role, view string) bool {
	for _, item := range table {
		if item.ID == view && item.VisibleTo(role) {
			return true
		}
	}
	return false
}
