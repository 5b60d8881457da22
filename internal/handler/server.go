// Package handler implements the HTTP handlers for the bed tags API.
// All handlers are methods on Server; Routes wires them onto a chi router.
// Methods are split into resource files (health.go, bedtag.go, bed.go) but
// all share the same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openbeds/bedtags/internal/domain"
)

// BedTagServicer defines the business operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type BedTagServicer interface {
	Check(ctx context.Context, tag domain.BedTag) (*domain.Errors, error)
	Create(ctx context.Context, tag domain.BedTag) (domain.BedTag, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.BedTag, error)
	List(ctx context.Context, f domain.BedTagFilter, p domain.PaginationParams) (domain.Page[domain.BedTag], error)
	Update(ctx context.Context, tag domain.BedTag) (domain.BedTag, error)
	Void(ctx context.Context, id uuid.UUID, reason string) (domain.BedTag, error)
	Unvoid(ctx context.Context, id uuid.UUID) (domain.BedTag, error)
	Purge(ctx context.Context, id uuid.UUID) error
	AssignToBed(ctx context.Context, bedID, tagID uuid.UUID) (domain.BedTag, error)
	UnassignFromBed(ctx context.Context, bedID, tagID uuid.UUID) error
	ListByBed(ctx context.Context, bedID uuid.UUID) ([]domain.BedTag, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	tags    BedTagServicer
	openAPI []byte
	log     *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithOpenAPI serves doc at GET /openapi.yaml.
func WithOpenAPI(doc []byte) Option {
	return func(s *Server) { s.openAPI = doc }
}

// WithLogger sets the logger used for unexpected (500) errors.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// NewServer constructs the Server with all its dependencies.
func NewServer(tags BedTagServicer, opts ...Option) *Server {
	s := &Server{tags: tags, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil)
}

// Routes returns the API router. Callers add cross-cutting middleware.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	if s.openAPI != nil {
		r.Get("/openapi.yaml", s.GetOpenAPI)
	}

	r.Route("/bed-tags", func(r chi.Router) {
		r.Get("/", s.ListBedTags)
		r.Post("/", s.CreateBedTag)
		r.Post("/validate", s.ValidateBedTag)
		r.Route("/{tagId}", func(r chi.Router) {
			r.Get("/", s.GetBedTag)
			r.Put("/", s.UpdateBedTag)
			r.Delete("/", s.PurgeBedTag)
			r.Post("/void", s.VoidBedTag)
			r.Post("/unvoid", s.UnvoidBedTag)
		})
	})

	r.Route("/beds/{bedId}/tags", func(r chi.Router) {
		r.Get("/", s.ListBedTagsForBed)
		r.Post("/", s.AssignTagToBed)
		r.Delete("/{tagId}", s.UnassignTagFromBed)
	})

	return r
}

// Handler is Routes as a plain http.Handler.
func (s *Server) Handler() http.Handler {
	return s.Routes()
}
