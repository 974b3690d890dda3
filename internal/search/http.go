// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/avisbase/internal/platform/respond"
)

// Rebuilder starts a rebuild without waiting for it.
type Rebuilder interface {
	Trigger(ctx context.Context)
}

// Handler exposes index administration.
type Handler struct {
	index     *Index
	rebuilder Rebuilder
}

func NewHandler(index *Index, rebuilder Rebuilder) *Handler {
	return &Handler{index: index, rebuilder: rebuilder}
}

// Status is the observable state of the index.
type Status struct {
	State      string `json:"state"`
	Documents  int    `json:"documents"`
	Rebuilding bool   `json:"rebuilding"`
}

// Routes returns the admin routes, meant to be mounted at /admin/index.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.status)
	router.Post("/rebuild", handler.rebuild)
	return router
}

func (handler *Handler) status(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.snapshotStatus())
}

func (handler *Handler) rebuild(writer http.ResponseWriter, request *http.Request) {
	handler.rebuilder.Trigger(request.Context())
	respond.Accepted(writer, handler.snapshotStatus())
}

func (handler *Handler) snapshotStatus() Status {
	return Status{
		State:      handler.index.State().String(),
		Documents:  handler.index.Len(),
		Rebuilding: handler.index.Rebuilding(),
	}
}
