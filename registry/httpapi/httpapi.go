// Package httpapi serves the registry over HTTP under /api/v1.
//
// Every entity gets the same routes:
//
//	POST   /{entity}              create
//	GET    /{entity}              search (q, sort, current_page, size)
//	GET    /{entity}/:id          find by id
//	PATCH  /{entity}/:id          partial update
//	DELETE /{entity}/:id          remove
//	POST   /{entity}/bulk-delete  remove all or none of the given ids
//
// Owner-scoped entities also get GET /{entity}/me, and take the owner of new rows
// from the authenticated principal.
package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rise-and-shine/popreg/http/server/forward"
	"github.com/rise-and-shine/popreg/pagination"
	"github.com/rise-and-shine/popreg/registry"
	"github.com/rise-and-shine/popreg/repogen"
)

const basePath = "/api/v1"

// Service is the registry service of one entity type.
type Service[E, C, U any] interface {
	Create(ctx context.Context, in C) (*E, error)
	FindByID(ctx context.Context, id uuid.UUID) (*E, error)
	FindByOwner(ctx context.Context, accountID string) (*E, error)
	Search(ctx context.Context, q repogen.SearchQuery) (pagination.Response[E], error)
	Update(ctx context.Context, id uuid.UUID, in U) (*E, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RemoveBulk(ctx context.Context, ids []uuid.UUID) (int, error)
}

// Register mounts the routes of every registry entity.
func Register(r fiber.Router, reg *registry.Registry) {
	api := r.Group(basePath)

	Mount[registry.Occupation, registry.CreateOccupation, registry.UpdateOccupation](
		api, "occupations", reg.Occupations)
	Mount[registry.Nationality, registry.CreateNationality, registry.UpdateNationality](
		api, "nationalities", reg.Nationalities)
	Mount[registry.RelocationType, registry.CreateRelocationType, registry.UpdateRelocationType](
		api, "relocation-types", reg.RelocationTypes)
	Mount[registry.RegistrationType, registry.CreateRegistrationType, registry.UpdateRegistrationType](
		api, "registration-types", reg.RegistrationTypes)
	Mount[registry.Resident, registry.CreateResident, registry.UpdateResident](
		api, "residents", reg.Residents)
	Mount[registry.Registration, registry.CreateRegistration, registry.UpdateRegistration](
		api, "registrations", reg.Registrations)
}

// Mount registers the routes of one entity under path. The entity is owner-scoped
// when *C has a SetOwner method.
func Mount[E, C, U any](r fiber.Router, path string, svc Service[E, C, U]) {
	h := handlers[E, C, U]{entity: path, svc: svc}
	g := r.Group("/" + path)

	g.Post("/", forward.ToUserAction(h.create(), fiber.StatusCreated))
	g.Get("/", forward.ToUserAction(h.search(), fiber.StatusOK))
	g.Post("/bulk-delete", forward.ToUserAction(h.removeBulk(), fiber.StatusOK))
	if isOwned[C]() {
		g.Get("/me", forward.ToUserAction(h.findMine(), fiber.StatusOK))
	}
	g.Get("/:id", forward.ToUserAction(h.findByID(), fiber.StatusOK))
	g.Patch("/:id", forward.ToUserAction(h.update(), fiber.StatusOK))
	g.Delete("/:id", forward.ToUserAction(h.remove(), fiber.StatusOK))
}
