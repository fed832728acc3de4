package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetupRoutes registers the API routes.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/convert", h.Convert)
		r.Post("/merge", h.Merge)
		r.Post("/split", h.Split)
		r.Post("/clean", h.Clean)
		r.Post("/extract", h.Extract)
		r.Post("/metadata", h.Metadata)

		r.Route("/sheets", func(r chi.Router) {
			r.Post("/extract", h.ExtractSheets)
			r.Post("/combine", h.CombineSheets)
			r.Post("/split", h.SplitToSheets)
			r.Post("/rename", h.RenameSheets)
			r.Post("/reorder", h.ReorderSheets)
			r.Post("/copy", h.CopySheets)
		})

		r.Route("/bulk", func(r chi.Router) {
			r.Post("/rename", h.BulkRename)
			r.Post("/compress", h.BulkCompress)
		})

		r.Route("/batch", func(r chi.Router) {
			r.Post("/convert", h.BatchConvert)
			r.Post("/clean", h.BatchClean)
		})
	})

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}
