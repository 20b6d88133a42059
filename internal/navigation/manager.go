package navigation

import (
	"sync"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

// Manager хранит состояние навигации каждого участника
type Manager struct {
	mu     sync.RWMutex
	states map[int64]State // participantID -> State
}

// NewManager создаёт новый менеджер навигации
func NewManager() *Manager {
	return &Manager{
		states: make(map[int64]State),
	}
}

// State возвращает состояние участника; неизвестный участник видит экран студента
func (m *Manager) State(participantID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if s, exists := m.states[participantID]; exists {
		return s
	}
	return InitialState(model.RoleStudent)
}

// ChangeRole атомарно меняет роль и экран участника
func (m *Manager) ChangeRole(participantID int64, role model.Role) State {
	return m.dispatch(participantID, ChangeRole{Role: role})
}

// OnRoleChange получает смену роли от сервиса пользователей
func (m *Manager) OnRoleChange(participantID int64, role model.Role) {
	m.ChangeRole(participantID, role)
}

// SelectView переключает экран; возвращает false, если экран недоступен роли
func (m *Manager) SelectView(participantID int64, viewID string) bool {
	s := m.dispatch(participantID, SelectView{ViewID: viewID})
	return s.ActiveView == viewID
}

// Forget удаляет состояние участника
func (m *Manager) Forget(participantID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, participantID)
}

func (m *Manager) dispatch(participantID int64, action Action) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, exists := m.states[participantID]
	if !exists {
		current = InitialState(model.RoleStudent)
	}

	next := Reduce(current, action)
	m.states[participantID] = next
	return next
}
