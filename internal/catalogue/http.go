// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalogue

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/avisbase/internal/platform/request"
	"github.com/taibuivan/avisbase/internal/platform/respond"
	"github.com/taibuivan/avisbase/pkg/pagination"
)

// TitleSearcher answers title name searches.
type TitleSearcher interface {
	Search(ctx context.Context, query string) ([]Title, error)
}

// Handler exposes the catalogue hierarchy over HTTP.
type Handler struct {
	service  *Service
	searcher TitleSearcher
}

func NewHandler(service *Service, searcher TitleSearcher) *Handler {
	return &Handler{service: service, searcher: searcher}
}

// Routes returns the catalogue routes, meant to be mounted at the API root.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Route("/titles", func(titles chi.Router) {
		titles.Get("/", handler.listTitles)
		titles.Post("/", handler.createTitle)
		titles.Get("/search", handler.searchTitles)
		titles.Get("/{id}", handler.getTitle)
	})

	router.Route("/items", func(items chi.Router) {
		items.Post("/", handler.createItem)
		items.Post("/missing", handler.createMissingItem)
		items.Get("/{id}", handler.getItem)
	})

	router.Route("/manifestations", func(manifestations chi.Router) {
		manifestations.Get("/{id}", handler.getManifestation)
		manifestations.Patch("/{id}", handler.updateManifestation)
		manifestations.Delete("/{id}", handler.deleteManifestation)
	})

	// Authority terms
	router.Post("/publishers", handler.createTerm(handler.service.CreatePublisher))
	router.Post("/places", handler.createTerm(handler.service.CreatePlace))
	router.Post("/languages", handler.createTerm(handler.service.CreateLanguage))

	return router
}

// # Titles

func (handler *Handler) createTitle(writer http.ResponseWriter, request *http.Request) {
	var input CreateTitleInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.service.CreateTitle(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

func (handler *Handler) listTitles(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	titles, err := handler.service.ListTitles(request.Context(), params.Offset(), params.Limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, titles, pagination.NewMeta(params, len(titles)))
}

func (handler *Handler) getTitle(writer http.ResponseWriter, request *http.Request) {
	title, err := handler.service.GetTitle(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) searchTitles(writer http.ResponseWriter, request *http.Request) {
	titles, err := handler.searcher.Search(request.Context(), requestutil.Query(request, "q"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, titles)
}

// # Items

func (handler *Handler) createItem(writer http.ResponseWriter, request *http.Request) {
	var input CreateItemInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.CreateItem(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, item)
}

func (handler *Handler) createMissingItem(writer http.ResponseWriter, request *http.Request) {
	var input CreateMissingItemInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	item, err := handler.service.CreateMissingItem(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, item)
}

func (handler *Handler) getItem(writer http.ResponseWriter, request *http.Request) {
	item, err := handler.service.GetItem(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, item)
}

// # Manifestations

func (handler *Handler) getManifestation(writer http.ResponseWriter, request *http.Request) {
	manifestation, err := handler.service.GetManifestation(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, manifestation)
}

func (handler *Handler) updateManifestation(writer http.ResponseWriter, request *http.Request) {
	var input UpdateManifestationInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	manifestation, err := handler.service.UpdateManifestation(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, manifestation)
}

func (handler *Handler) deleteManifestation(writer http.ResponseWriter, request *http.Request) {
	cascade, err := requestutil.Bool(request, "cascade", false)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.DeleteManifestation(request.Context(), requestutil.ID(request, "id"), cascade)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

// # Terms

type termInput struct {
	Name string `json:"name"`
}

func (handler *Handler) createTerm(create func(context.Context, string) (*Term, error)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		var input termInput
		if err := requestutil.DecodeJSON(request, &input); err != nil {
			respond.Error(writer, request, err)
			return
		}

		term, err := create(request.Context(), input.Name)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.Created(writer, term)
	}
}
