package authz

import (
	"context"
	"fmt"

	"agility/internal/model"

	"github.com/google/uuid"
)

// Action is the privilege class a request needs. There are only three: every
// check in the system collapses the role set into "has a membership" and
// "has a membership above developer".
type Action int

const (
	// ActionView covers reads: get project/sprint/task, list team, list
	// memberships. Any membership grants it.
	ActionView Action = iota

	// ActionManage covers project-level writes: create/update/delete
	// project and sprint, team changes. Requires a role above developer.
	ActionManage

	// ActionEditTasks covers task, note and block writes. Any membership
	// grants it; every team member may manage tasks.
	ActionEditTasks
)

// Reason explains a denial.
type Reason string

const (
	ReasonNotSignedIn      Reason = "not_signed_in"
	ReasonNoMembership     Reason = "no_membership"
	ReasonInsufficientRole Reason = "insufficient_role"
)

// Decision is the outcome of an authorization check. When denied, Reason is
// set; when granted, ProjectID and Role report the membership that granted.
type Decision struct {
	Granted   bool
	Reason    Reason
	ProjectID uuid.UUID
	Role      model.Role
}

func granted(projectID uuid.UUID, role model.Role) Decision {
	return Decision{Granted: true, ProjectID: projectID, Role: role}
}

func denied(reason Reason, projectID uuid.UUID) Decision {
	return Decision{Reason: reason, ProjectID: projectID}
}

type refKind int

const (
	refProject refKind = iota
	refSprint
	refTask
)

// ResourceRef identifies the target of a check. Build one with ProjectRef,
// SprintRef or TaskRef.
type ResourceRef struct {
	kind refKind
	id   uuid.UUID
}

func ProjectRef(id uuid.UUID) ResourceRef { return ResourceRef{kind: refProject, id: id} }
func SprintRef(id uuid.UUID) ResourceRef  { return ResourceRef{kind: refSprint, id: id} }
func TaskRef(id uuid.UUID) ResourceRef    { return ResourceRef{kind: refTask, id: id} }

type RoleSource interface {
	RoleOf(ctx context.Context, userID string, projectID uuid.UUID) (model.Role, error)
}

type SprintSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sprint, error)
}

type TaskSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
}

// Engine decides whether a principal may perform an action on a resource.
// It is stateless; every call independently resolves the resource's owning
// project and the principal's role there.
type Engine struct {
	roles   RoleSource
	sprints SprintSource
	tasks   TaskSource
}

func NewEngine(roles RoleSource, sprints SprintSource, tasks TaskSource) *Engine {
	return &Engine{roles: roles, sprints: sprints, tasks: tasks}
}

// Authorize resolves ref to its owning project and checks the principal's
// role against the action. A denied decision means the caller must not touch
// the repository; lookup failures (missing sprint/task, store errors)
// surface as errors, not denials.
func (e *Engine) Authorize(ctx context.Context, userID string, action Action, ref ResourceRef) (Decision, error) {
	if userID == "" {
		return denied(ReasonNotSignedIn, uuid.Nil), nil
	}

	projectID, err := e.owningProject(ctx, ref)
	if err != nil {
		return Decision{}, err
	}

	role, err := e.roles.RoleOf(ctx, userID, projectID)
	if err != nil {
		return Decision{}, err
	}
	if role == "" {
		return denied(ReasonNoMembership, projectID), nil
	}

	if action == ActionManage && !role.CanManage() {
		return denied(ReasonInsufficientRole, projectID), nil
	}
	return granted(projectID, role), nil
}

// owningProject walks the ownership chain up to the project: direct for
// projects, one hop for sprints, two hops for tasks.
func (e *Engine) owningProject(ctx context.Context, ref ResourceRef) (uuid.UUID, error) {
	switch ref.kind {
	case refProject:
		return ref.id, nil
	case refSprint:
		sprint, err := e.sprints.GetByID(ctx, ref.id)
		if err != nil {
			return uuid.Nil, err
		}
		return sprint.ProjectID, nil
	case refTask:
		task, err := e.tasks.GetByID(ctx, ref.id)
		if err != nil {
			return uuid.Nil, err
		}
		sprint, err := e.sprints.GetByID(ctx, task.SprintID)
		if err != nil {
			return uuid.Nil, err
		}
		return sprint.ProjectID, nil
	default:
		return uuid.Nil, fmt.Errorf("unknown resource kind %d", ref.kind)
	}
}
