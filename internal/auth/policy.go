// Package auth resolves who is calling and decides, once at the HTTP
// boundary, whether they may perform an action.
package auth

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// Role is a console role
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleSearcher    Role = "searcher"
)

// ParseRole returns the role named s
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleCoordinator, RoleSearcher:
		return r, true
	}
	return "", false
}

// Action is an operation gated by role
type Action string

const (
	ActionViewEvent            Action = "view_event"
	ActionReportPosition       Action = "report_position"
	ActionManageEvents         Action = "manage_events"
	ActionManageMissingPersons Action = "manage_missing_persons"
	ActionManageParticipants   Action = "manage_participants"
	ActionManageUsers          Action = "manage_users"
	ActionManageHelp           Action = "manage_help"
)

// Identity is the authenticated caller
type Identity struct {
	UserID string
	Role   Role
}

// Authorizer decides whether an identity may perform an action
type Authorizer interface {
	Authorize(ctx context.Context, id Identity, action Action) error
}

// RolePolicy grants actions to roles
type RolePolicy map[Action][]Role

// DefaultPolicy lets everyone view and report, coordinators run searches,
// and only admins manage users and help content.
func DefaultPolicy() RolePolicy {
	all := []Role{RoleAdmin, RoleCoordinator, RoleSearcher}
	staff := []Role{RoleAdmin, RoleCoordinator}
	return RolePolicy{
		ActionViewEvent:            all,
		ActionReportPosition:       all,
		ActionManageEvents:         staff,
		ActionManageMissingPersons: staff,
		ActionManageParticipants:   staff,
		ActionManageUsers:          {RoleAdmin},
		ActionManageHelp:           {RoleAdmin},
	}
}

// Authorize implements Authorizer
func (p RolePolicy) Authorize(_ context.Context, id Identity, action Action) error {
	if id.UserID == "" {
		return ErrUnauthenticated
	}
	for _, r := range p[action] {
		if r == id.Role {
			return nil
		}
	}
	return fmt.Errorf("%w: role %q may not %s", ErrForbidden, id.Role, action)
}
