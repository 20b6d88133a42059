package navigation

import "github.com/Freeeeeet/quran_academy/internal/model"

// State роль участника и текущий экран.
// ActiveView всегда равен ID пункта, видимого роли Role.
type State struct {
	Role       model.Role
	ActiveView string
}

// Action действие над State
type Action interface {
	apply(State) State
}

// ChangeRole меняет роль и одновременно сбрасывает экран на экран роли по умолчанию
type ChangeRole struct {
	Role model.Role
}

// SelectView выбирает экран, если он виден текущей роли
type SelectView struct {
	ViewID string
}

func (a ChangeRole) apply(s State) State {
	view, ok := defaultViews[a.Role]
	if !ok {
		return s
	}
	return State{Role: a.Role, ActiveView: view}
}

func (a SelectView) apply(s State) State {
	if !IsVisible(s.Role, a.ViewID) {
		return s
	}
	s.ActiveView = a.ViewID
	return s
}

// Reduce применяет действие к состоянию
func Reduce(s State, action Action) State {
	if action == nil {
		return s
	}
	return action.apply(s)
}

// InitialState состояние для только что вошедшего участника
func InitialState(role model.Role) State {
	return Reduce(State{}, ChangeRole{Role: role})
}

// VisibleItems возвращает пункты, доступные роли, в порядке таблицы
func VisibleItems(role model.Role) []Item {
	var visible []Item
	for _, item := range items {
		if item.VisibleTo(role) {
			visible = append(visible, item)
		}
	}
	return visible
}

// IsVisible проверяет, что экран есть среди VisibleItems(role)
func IsVisible(role model.Role, viewID string) bool {
	for _, item := range items {
		if item.ID == viewID {
			return item.VisibleTo(role)
		}
	}
	return false
}

// DefaultView экран по умолчанию для роли; пустая строка для неизвестной роли
func DefaultView(role model.Role) string {
	return defaultViews[role]
}
