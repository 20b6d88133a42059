package navigation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/quran_academy/internal/model"
)

func TestManagerDefaultsToStudent(t *testing.T) {
	m := NewManager()
	s := m.State(42)

	assert.Equal(t, model.RoleStudent, s.Role)
	assert.Equal(t, ViewDashboard, s.ActiveView)
}

func TestManagerRoleChangeAndSelect(t *testing.T) {
	m := NewManager()

	assert.True(t, m.SelectView(1, ViewLeaderboard))
	assert.Equal(t, ViewLeaderboard, m.State(1).ActiveView)

	s := m.ChangeRole(1, model.RoleInstructor)
	assert.Equal(t, ViewInstructorDashboard, s.ActiveView)
	assert.Equal(t, s, m.State(1))

	assert.False(t, m.SelectView(1, ViewLeaderboard))
	assert.Equal(t, ViewInstructorDashboard, m.State(1).ActiveView)

	assert.True(t, m.SelectView(1, ViewMyStudents))

	m.Forget(1)
	assert.Equal(t, ViewDashboard, m.State(1).ActiveView)
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			role := model.Roles()[i%3]
			m.OnRoleChange(7, role)
			m.SelectView(7, ViewChat)
			s := m.State(7)
			assert.True(t, IsVisible(s.Role, s.ActiveView))
		}(i)
	}
	wg.Wait()
}
