package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/quran_academy/internal/model"
	"github.com/Freeeeeet/quran_academy/internal/navigation"
)

const adminTelegramID int64 = 5000

func newTestUserService() (*UserService, *memUserStore, *roleRecorder) {
	store := newMemUserStore()
	roles := &roleRecorder{}
	return NewUserService(store, roles, []int64{adminTelegramID}, zap.NewNop()), store, roles
}

func TestRegisterUserDefaultsToStudent(t *testing.T) {
	svc, _, roles := newTestUserService()
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, 100, "ahmad", "Ahmad", "", "ar")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, user.Role)
	assert.Equal(t, model.RoleStudent, roles.changes[user.ID])

	again, err := svc.RegisterUser(ctx, 100, "ahmad_new", "Ahmad", "Ali", "ar")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "ahmad_new", again.Username)
	assert.Equal(t, 1, roles.calls)
}

func TestRegisterUserAgainKeepsSelectedView(t *testing.T) {
	nav := navigation.NewManager()
	svc := NewUserService(newMemUserStore(), nav, nil, zap.NewNop())
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, 100, "ahmad", "Ahmad", "", "ar")
	require.NoError(t, err)
	require.True(t, nav.SelectView(user.ID, navigation.ViewSchedule))

	_, err = svc.RegisterUser(ctx, 100, "ahmad", "Ahmad", "", "ar")
	require.NoError(t, err)

	state := nav.State(user.ID)
	assert.Equal(t, model.RoleStudent, state.Role)
	assert.Equal(t, navigation.ViewSchedule, state.ActiveView)
}

func TestRegisterUserAdminFromConfig(t *testing.T) {
	svc, _, _ := newTestUserService()

	user, err := svc.RegisterUser(context.Background(), adminTelegramID, "root", "Admin", "", "ar")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestChangeRole(t *testing.T) {
	svc, store, roles := newTestUserService()
	ctx := context.Background()

	admin, err := svc.RegisterUser(ctx, adminTelegramID, "root", "Admin", "", "ar")
	require.NoError(t, err)
	user, err := svc.RegisterUser(ctx, 100, "yusuf", "Yusuf", "", "ar")
	require.NoError(t, err)

	adminActor := model.Actor{ID: admin.ID, Role: admin.Role}

	updated, err := svc.ChangeRole(ctx, adminActor, user.ID, model.RoleInstructor)
	require.NoError(t, err)
	assert.Equal(t, model.RoleInstructor, updated.Role)
	assert.Equal(t, model.RoleInstructor, roles.changes[user.ID])

	stored, err := store.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleInstructor, stored.Role)

	teachers, err := svc.ListTeachers(ctx)
	require.NoError(t, err)
	require.Len(t, teachers, 1)
	assert.Equal(t, user.ID, teachers[0].ID)
}

func TestChangeRoleRequiresAdmin(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()

	user, err := svc.RegisterUser(ctx, 100, "yusuf", "Yusuf", "", "ar")
	require.NoError(t, err)

	_, err = svc.ChangeRole(ctx, model.Actor{ID: user.ID, Role: model.RoleStudent}, user.ID, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrNotPermitted)
}

func TestChangeRoleValidation(t *testing.T) {
	svc, _, _ := newTestUserService()
	ctx := context.Background()
	admin := model.Actor{ID: 1, Role: model.RoleAdmin}

	_, err := svc.ChangeRole(ctx, admin, 1, model.Role("guest"))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.ChangeRole(ctx, admin, 404, model.RoleInstructor)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceTransportErrors(t *testing.T) {
	svc, store, _ := newTestUserService()
	store.err = errStoreDown

	_, err := svc.RegisterUser(context.Background(), 1, "", "", "", "")
	assert.True(t, IsTransport(err))

	_, err = svc.ListTeachers(context.Background())
	assert.True(t, IsTransport(err))
}
