package repository_test

import (
	"context"
	"testing"
	"time"

	"agility/internal/model"
	"agility/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func membershipRows(m model.Membership) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "created_at"}).
		AddRow(m.ID.String(), m.ProjectID.String(), m.UserID, string(m.Role), time.Now())
}

func TestMembershipRepository_RoleOf_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)
	projectID := uuid.New()

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE project_id = .* AND user_id = .* LIMIT .*`).
		WillReturnRows(membershipRows(model.Membership{
			ID:        uuid.New(),
			ProjectID: projectID,
			UserID:    "user-1",
			Role:      model.RoleManager,
		}))

	// Act
	role, err := membershipRepo.RoleOf(context.Background(), "user-1", projectID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.RoleManager, role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_RoleOf_NoMembershipIsNotAnError(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE project_id = .* AND user_id = .* LIMIT .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	role, err := membershipRepo.RoleOf(context.Background(), "user-2", uuid.New())

	// Assert: отсутствие членства — обычный результат, не ошибка
	assert.NoError(t, err)
	assert.Equal(t, model.Role(""), role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Add_Creates(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE project_id = .* AND user_id = .* LIMIT .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "memberships"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectCommit()

	// Act
	err := membershipRepo.Add(context.Background(), projectID, "user-3", model.RoleDeveloper)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_Add_Conflict(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE project_id = .* AND user_id = .* LIMIT .*`).
		WillReturnRows(membershipRows(model.Membership{
			ID:        uuid.New(),
			ProjectID: projectID,
			UserID:    "user-3",
			Role:      model.RoleDeveloper,
		}))
	mock.ExpectRollback()

	// Act
	err := membershipRepo.Add(context.Background(), projectID, "user-3", model.RoleManager)

	// Assert: существующая пара даёт конфликт, а не апсерт
	assert.ErrorIs(t, err, repository.ErrMembershipExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_SetRole_MissingMembership(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "memberships" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := membershipRepo.SetRole(context.Background(), "ghost", uuid.New(), model.RoleManager)

	// Assert
	assert.ErrorIs(t, err, repository.ErrMembershipNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_AllRolesOf_Empty(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE user_id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "project_id", "user_id", "role", "created_at"}))

	// Act
	memberships, err := membershipRepo.AllRolesOf(context.Background(), "user-4")

	// Assert
	assert.NoError(t, err)
	assert.Empty(t, memberships)
	assert.NoError(t, mock.ExpectationsWereMet())
}
