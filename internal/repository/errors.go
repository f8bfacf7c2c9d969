package repository

import "errors"

// Common repository errors
var (
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = errors.New("project not found")

	// ErrSprintNotFound is returned when a sprint is not found
	ErrSprintNotFound = errors.New("sprint not found")

	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrMembershipNotFound is returned when a team membership is not found
	ErrMembershipNotFound = errors.New("membership not found")

	// ErrMembershipExists is returned when adding a membership that already exists
	ErrMembershipExists = errors.New("membership already exists")
)
