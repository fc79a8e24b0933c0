package api

import (
	"context"

	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

type keyType string

const actorKey keyType = "actor"

// Actor is the resolved identity of the caller. Token verification happens
// upstream; the identity middleware fills this from the injected headers
// and the matching profile rows.
type Actor struct {
	User    models.User
	Student *models.Student
	Teacher *models.Teacher
}

func (a Actor) IsAdmin() bool { return a.User.Role == models.RoleAdmin }

func ctxWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

func actorFromCtx(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(actorKey).(Actor)
	if !ok {
		return Actor{}, errs.NewUnauthorizedError("no identity on request")
	}
	return actor, nil
}

// studentFromCtx returns the caller's student profile or a forbidden error.
func studentFromCtx(ctx context.Context) (*models.Student, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Student == nil {
		return nil, errs.NewForbiddenError("this operation requires a student account")
	}
	return actor.Student, nil
}

// teacherFromCtx returns the caller's teacher profile or a forbidden error.
// Admins without a teacher profile pass with a nil profile.
func teacherFromCtx(ctx context.Context) (*models.Teacher, bool, error) {
	actor, err := actorFromCtx(ctx)
	if err != nil {
		return nil, false, err
	}
	if actor.Teacher == nil && !actor.IsAdmin() {
		return nil, false, errs.NewForbiddenError("this operation requires a teacher account")
	}
	return actor.Teacher, actor.IsAdmin(), nil
}
