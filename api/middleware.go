package api

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pfe-hub/capstone-backend/database"
	"github.com/pfe-hub/capstone-backend/errs"
	"github.com/pfe-hub/capstone-backend/models"
)

// identityMiddleware resolves the caller into an Actor. Authentication is
// handled upstream (gateway verifies the token and injects X-User-Id); this
// middleware loads the account and its student/teacher profile.
type identityMiddleware struct {
	responder   Responder
	userRepo    *database.UserRepo
	studentRepo *database.StudentRepo
	teacherRepo *database.TeacherRepo
}

func newIdentityMiddleware(db database.Database) identityMiddleware {
	logger := log.With().Str("handlerName", "identityMiddleware").Logger()
	return identityMiddleware{
		responder:   NewResponder(logger),
		userRepo:    db.UserRepo(),
		studentRepo: db.StudentRepo(),
		teacherRepo: db.TeacherRepo(),
	}
}

func (m identityMiddleware) resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get("X-User-Id")
		if userIDStr == "" {
			m.responder.WriteError(w, errs.NewUnauthorizedError("missing X-User-Id header"))
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			m.responder.WriteError(w, errs.NewUnauthorizedError("malformed X-User-Id header"))
			return
		}

		user, err := m.userRepo.FindByID(userID)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}
		if user == nil {
			m.responder.WriteError(w, errs.NewUnauthorizedError("unknown user"))
			return
		}

		actor := Actor{User: *user}
		switch user.Role {
		case models.RoleStudent:
			student, err := m.studentRepo.FindByUserID(userID)
			if err != nil {
				m.responder.WriteError(w, err)
				return
			}
			actor.Student = student
		case models.RoleTeacher:
			teacher, err := m.teacherRepo.FindByUserID(userID)
			if err != nil {
				m.responder.WriteError(w, err)
				return
			}
			actor.Teacher = teacher
		}

		next.ServeHTTP(w, r.WithContext(ctxWithActor(r.Context(), actor)))
	})
}

// requireRole guards a route group to the given roles.
func requireRole(responder Responder, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromCtx(r.Context())
			if err != nil {
				responder.WriteError(w, err)
				return
			}
			for _, role := range roles {
				if actor.User.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			responder.WriteError(w, errs.NewForbiddenError("insufficient role"))
		})
	}
}

// windowGate blocks students whose speciality has no active window for the
// activity. Teachers and admins pass through.
type windowGate struct {
	responder  Responder
	windowRepo *database.WindowRepo
}

func newWindowGate(db database.Database) windowGate {
	logger := log.With().Str("handlerName", "windowGate").Logger()
	return windowGate{
		responder:  NewResponder(logger),
		windowRepo: db.WindowRepo(),
	}
}

func (g windowGate) teamComposition(next http.Handler) http.Handler {
	return g.gate(next, "team composition", g.windowRepo.IsCompositionOpen)
}

func (g windowGate) projectSelection(next http.Handler) http.Handler {
	return g.gate(next, "project selection", g.windowRepo.IsSelectionOpen)
}

func (g windowGate) gate(next http.Handler, activity string, isOpen func(uuid.UUID, time.Time) (bool, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := actorFromCtx(r.Context())
		if err != nil {
			g.responder.WriteError(w, err)
			return
		}
		if actor.Student == nil {
			next.ServeHTTP(w, r)
			return
		}
		open, err := isOpen(actor.Student.SpecialityID, time.Now())
		if err != nil {
			g.responder.WriteError(w, err)
			return
		}
		if !open {
			g.responder.WriteError(w, errs.NewWindowClosedError(activity))
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

// recoverAndLog recovers panics, logs request outcomes and keeps 500s
// visible in the logs.
func recoverAndLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}

			event := log.Info()
			if srw.status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		}()

		next.ServeHTTP(srw, r)
	})
}
