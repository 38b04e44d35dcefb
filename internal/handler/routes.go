package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"planetapp/internal/service"
)

const welcomePage = `Welcome to Planet App, here's some light reading:
<br>
<a href='https://en.wikipedia.org/wiki/Sun-synchronous_orbit'>
    en.wikipedia.org/wiki/Sun-synchronous_orbit
</a>
`

// NewRouter wires the user and group endpoints onto a chi router with
// request-id, logging, and panic-recovery middleware.
func NewRouter(users *service.UserService, groups *service.GroupService, log *zap.Logger) http.Handler {
	validate := newValidator()
	userHandler := NewUserHandler(users, validate, log)
	groupHandler := NewGroupHandler(groups, validate, log)

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(welcomePage))
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Create)
		r.Get("/{userid}", userHandler.Get)
		r.Put("/{userid}", userHandler.Update)
		r.Delete("/{userid}", userHandler.Delete)
	})

	r.Route("/groups", func(r chi.Router) {
		r.Post("/", groupHandler.Create)
		r.Get("/{name}", groupHandler.Members)
		r.Put("/{name}", groupHandler.SetMembers)
		r.Delete("/{name}", groupHandler.Delete)
	})

	return r
}
