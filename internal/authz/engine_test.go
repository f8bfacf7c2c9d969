package authz_test

import (
	"context"
	"testing"

	"agility/internal/authz"
	"agility/internal/model"
	"agility/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRoleSource struct {
	mock.Mock
}

func (m *MockRoleSource) RoleOf(ctx context.Context, userID string, projectID uuid.UUID) (model.Role, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).(model.Role), args.Error(1)
}

type MockSprintSource struct {
	mock.Mock
}

func (m *MockSprintSource) GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error) {
	args := m.Called(ctx, id)
	sprint := args.Get(0)
	if sprint == nil {
		return nil, args.Error(1)
	}
	return sprint.(*model.Sprint), args.Error(1)
}

type MockTaskSource struct {
	mock.Mock
}

func (m *MockTaskSource) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func setupEngine() (*authz.Engine, *MockRoleSource, *MockSprintSource, *MockTaskSource) {
	roles := new(MockRoleSource)
	sprints := new(MockSprintSource)
	tasks := new(MockTaskSource)
	return authz.NewEngine(roles, sprints, tasks), roles, sprints, tasks
}

func TestAuthorize_NotSignedIn(t *testing.T) {
	engine, roles, _, _ := setupEngine()

	decision, err := engine.Authorize(context.Background(), "", authz.ActionView, authz.ProjectRef(uuid.New()))

	assert.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, authz.ReasonNotSignedIn, decision.Reason)
	roles.AssertNotCalled(t, "RoleOf", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorize_NoMembership(t *testing.T) {
	engine, roles, _, _ := setupEngine()
	projectID := uuid.New()

	roles.On("RoleOf", mock.Anything, "user-a", projectID).Return(model.Role(""), nil)

	decision, err := engine.Authorize(context.Background(), "user-a", authz.ActionManage, authz.ProjectRef(projectID))

	assert.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, authz.ReasonNoMembership, decision.Reason)
	roles.AssertExpectations(t)
}

func TestAuthorize_DeveloperCannotManageProject(t *testing.T) {
	engine, roles, _, _ := setupEngine()
	projectID := uuid.New()

	roles.On("RoleOf", mock.Anything, "user-b", projectID).Return(model.RoleDeveloper, nil)

	decision, err := engine.Authorize(context.Background(), "user-b", authz.ActionManage, authz.ProjectRef(projectID))

	assert.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, authz.ReasonInsufficientRole, decision.Reason)
}

func TestAuthorize_DeveloperMayEditTasks(t *testing.T) {
	engine, roles, sprints, tasks := setupEngine()
	projectID := uuid.New()
	sprintID := uuid.New()
	taskID := uuid.New()

	tasks.On("GetByID", mock.Anything, taskID).Return(&model.Task{ID: taskID, SprintID: sprintID}, nil)
	sprints.On("GetByID", mock.Anything, sprintID).Return(&model.Sprint{ID: sprintID, ProjectID: projectID}, nil)
	roles.On("RoleOf", mock.Anything, "user-c", projectID).Return(model.RoleDeveloper, nil)

	decision, err := engine.Authorize(context.Background(), "user-c", authz.ActionEditTasks, authz.TaskRef(taskID))

	assert.NoError(t, err)
	assert.True(t, decision.Granted)
	assert.Equal(t, projectID, decision.ProjectID)
	assert.Equal(t, model.RoleDeveloper, decision.Role)
	tasks.AssertExpectations(t)
	sprints.AssertExpectations(t)
}

func TestAuthorize_ManagerAndLeadAreEquallyPrivileged(t *testing.T) {
	for _, role := range []model.Role{model.RoleManager, model.RoleProjectLead} {
		engine, roles, _, _ := setupEngine()
		projectID := uuid.New()

		roles.On("RoleOf", mock.Anything, "user-d", projectID).Return(role, nil)

		decision, err := engine.Authorize(context.Background(), "user-d", authz.ActionManage, authz.ProjectRef(projectID))

		assert.NoError(t, err)
		assert.True(t, decision.Granted, "role %s should be allowed to manage", role)
	}
}

func TestAuthorize_AnyRoleMayView(t *testing.T) {
	engine, roles, sprints, _ := setupEngine()
	projectID := uuid.New()
	sprintID := uuid.New()

	sprints.On("GetByID", mock.Anything, sprintID).Return(&model.Sprint{ID: sprintID, ProjectID: projectID}, nil)
	roles.On("RoleOf", mock.Anything, "user-e", projectID).Return(model.RoleDeveloper, nil)

	decision, err := engine.Authorize(context.Background(), "user-e", authz.ActionView, authz.SprintRef(sprintID))

	assert.NoError(t, err)
	assert.True(t, decision.Granted)
}

func TestAuthorize_MissingSprintSurfacesAsError(t *testing.T) {
	engine, roles, sprints, _ := setupEngine()
	sprintID := uuid.New()

	sprints.On("GetByID", mock.Anything, sprintID).Return(nil, repository.ErrSprintNotFound)

	_, err := engine.Authorize(context.Background(), "user-f", authz.ActionView, authz.SprintRef(sprintID))

	assert.ErrorIs(t, err, repository.ErrSprintNotFound)
	roles.AssertNotCalled(t, "RoleOf", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthorize_TaskResolutionWalksTwoHops(t *testing.T) {
	engine, roles, sprints, tasks := setupEngine()
	projectID := uuid.New()
	sprintID := uuid.New()
	taskID := uuid.New()

	tasks.On("GetByID", mock.Anything, taskID).Return(&model.Task{ID: taskID, SprintID: sprintID}, nil)
	sprints.On("GetByID", mock.Anything, sprintID).Return(&model.Sprint{ID: sprintID, ProjectID: projectID}, nil)
	roles.On("RoleOf", mock.Anything, "user-g", projectID).Return(model.Role(""), nil)

	decision, err := engine.Authorize(context.Background(), "user-g", authz.ActionView, authz.TaskRef(taskID))

	assert.NoError(t, err)
	assert.False(t, decision.Granted)
	assert.Equal(t, authz.ReasonNoMembership, decision.Reason)
	// Даже при отказе projectID должен быть определён по цепочке task -> sprint
	assert.Equal(t, projectID, decision.ProjectID)
}
