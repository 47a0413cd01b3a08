package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifemirror/lifemirror/internal/dashboard"
	"github.com/lifemirror/lifemirror/internal/identity"
	"github.com/lifemirror/lifemirror/internal/service"
)

// Deps are the collaborators the API is built from. Events, if non-nil, is
// mounted at GET /events behind the same authentication.
type Deps struct {
	Services  *service.Services
	Dashboard *dashboard.Aggregator
	Verifier  identity.Verifier
	Events    http.Handler
}

// NewRouter creates a chi router with every resource, dashboard and event
// route. All routes require a credential accepted by d.Verifier.
func NewRouter(d Deps) chi.Router {
	svc := d.Services
	dh := NewDashboardHandler(d.Dashboard)
	mh := &MoodHandler{svc: svc.Moods}

	r := chi.NewRouter()
	r.Use(AuthMiddleware(d.Verifier))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", handleList("tasks", svc.Tasks.List))
		r.Post("/", handleCreate("task", svc.Tasks.Create))
		r.Get("/{id}", handleGet("task", svc.Tasks.Get))
		r.Put("/{id}", handleUpdate("task", svc.Tasks.Update, false))
		r.Delete("/{id}", handleDelete("task", svc.Tasks.Delete))
	})

	r.Route("/bills", func(r chi.Router) {
		r.Get("/", handleList("bills", svc.Bills.List))
		r.Post("/", handleCreate("bill", svc.Bills.Create))
		r.Get("/{id}", handleGet("bill", svc.Bills.Get))
		r.Put("/{id}", handleUpdate("bill", svc.Bills.Update, false))
		r.Delete("/{id}", handleDelete("bill", svc.Bills.Delete))
	})

	r.Route("/assets", func(r chi.Router) {
		r.Get("/", handleList("assets", svc.Assets.List))
		r.Post("/", handleCreate("asset", svc.Assets.Create))
		r.Get("/{id}", handleGet("asset", svc.Assets.Get))
		r.Put("/{id}", handleUpdate("asset", svc.Assets.Update, false))
		r.Delete("/{id}", handleDelete("asset", svc.Assets.Delete))
	})

	// Fitness logs are append-only: no update route.
	r.Route("/fitness-logs", func(r chi.Router) {
		r.Get("/", handleList("fitness logs", svc.Fitness.List))
		r.Post("/", handleCreate("fitness log", svc.Fitness.Create))
		r.Get("/{id}", handleGet("fitness log", svc.Fitness.Get))
		r.Delete("/{id}", handleDelete("fitness log", svc.Fitness.Delete))
	})

	r.Route("/mood-logs", func(r chi.Router) {
		r.Get("/", handleList("mood logs", svc.Moods.List))
		r.Post("/", mh.Upsert)
		r.Get("/{id}", handleGet("mood log", svc.Moods.Get))
		r.Put("/{id}", handleUpdate("mood log", svc.Moods.Update, false))
		r.Delete("/{id}", handleDelete("mood log", svc.Moods.Delete))
	})

	r.Route("/habits", func(r chi.Router) {
		r.Get("/", handleList("habits", svc.Habits.List))
		r.Post("/", handleCreate("habit", svc.Habits.Create))
		r.Get("/{id}", handleGet("habit", svc.Habits.Get))
		r.Put("/{id}", handleUpdate("habit", svc.Habits.Update, false))
		r.Delete("/{id}", handleDelete("habit", svc.Habits.Delete))
		r.Post("/{id}/check", handleUpdate("habit check", svc.Habits.Check, true))
	})

	r.Route("/savings", func(r chi.Router) {
		r.Get("/", handleList("savings goals", svc.Savings.List))
		r.Post("/", handleCreate("savings goal", svc.Savings.Create))
		r.Get("/{id}", handleGet("savings goal", svc.Savings.Get))
		r.Put("/{id}", handleUpdate("savings goal", svc.Savings.Update, false))
		r.Delete("/{id}", handleDelete("savings goal", svc.Savings.Delete))
		r.Put("/{id}/add", handleUpdate("savings funds", svc.Savings.AddFunds, false))
	})

	r.Get("/dashboard/all", dh.All)
	r.Get("/dashboard/score", dh.Score)

	if d.Events != nil {
		r.Get("/events", d.Events.ServeHTTP)
	}

	return r
}
