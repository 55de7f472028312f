package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/foundry/internal/service"
)

// CatalogHandler serves the component, snippet, and category endpoints.
// The same read handlers back both the public routes and their
// bearer-gated admin mirrors; only the router wiring differs.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

type componentRequest struct {
	Title    string `json:"title"`
	UseCase  string `json:"use_case"`
	Category string `json:"category"`
}

type snippetRequest struct {
	Filename string `json:"filename"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

// HandleListCategories returns the fixed category set.
//
// HTTP: GET /api/categories
func (h *CatalogHandler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListComponents returns components in insertion order.
//
// HTTP: GET /api/components?skip=0&limit=20
//
// Pagination uses skip/limit query params. Unparseable values fall back to
// the defaults rather than erroring — a bad ?limit= is not worth a 400.
func (h *CatalogHandler) HandleListComponents(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	components, err := h.catalog.ListComponents(r.Context(), limit, skip)
	if err != nil {
		h.logger.Error("failed to list components", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toComponentResponses(components))
}

// HandleGetComponent returns one component with its snippets.
//
// HTTP: GET /api/components/{id}
func (h *CatalogHandler) HandleGetComponent(w http.ResponseWriter, r *http.Request) {
	component, err := h.catalog.GetComponent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toComponentResponse(component))
}

// HandleComponentsByCategory returns all components under one category.
//
// HTTP: GET /api/categories/{name}/components
//
// The {name} segment is the category key, matched case-insensitively.
func (h *CatalogHandler) HandleComponentsByCategory(w http.ResponseWriter, r *http.Request) {
	components, err := h.catalog.ComponentsByCategory(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toComponentResponses(components))
}

// HandleCreateComponent creates a component.
//
// HTTP: POST /api/admin/components
// REQUEST BODY: {"title": "...", "use_case": "...", "category": "frontend"}
func (h *CatalogHandler) HandleCreateComponent(w http.ResponseWriter, r *http.Request) {
	var req componentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid component JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid JSON body",
		})
		return
	}

	component, err := h.catalog.CreateComponent(r.Context(), service.ComponentInput{
		Title:    req.Title,
		UseCase:  req.UseCase,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toComponentResponse(component))
}

// HandleUpdateComponent applies a partial update to a component. Absent or
// empty fields stay as they are.
//
// HTTP: PUT /api/admin/components/{id}
func (h *CatalogHandler) HandleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	var req componentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid component JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid JSON body",
		})
		return
	}

	component, err := h.catalog.UpdateComponent(r.Context(), chi.URLParam(r, "id"), service.ComponentInput{
		Title:    req.Title,
		UseCase:  req.UseCase,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toComponentResponse(component))
}

// HandleDeleteComponent deletes a component and, via the schema cascade,
// all of its snippets.
//
// HTTP: DELETE /api/admin/components/{id}
func (h *CatalogHandler) HandleDeleteComponent(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteComponent(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateSnippet attaches a snippet to a component.
//
// HTTP: POST /api/admin/components/{id}/snippets
// REQUEST BODY: {"filename": "main.go", "language": "go", "code": "..."}
func (h *CatalogHandler) HandleCreateSnippet(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid JSON body",
		})
		return
	}

	snippet, err := h.catalog.CreateSnippet(r.Context(), chi.URLParam(r, "id"), service.SnippetInput{
		Filename: req.Filename,
		Language: req.Language,
		Code:     req.Code,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSnippetResponse(*snippet))
}

// HandleUpdateSnippet applies a partial update to a snippet.
//
// HTTP: PUT /api/admin/snippets/{id}
func (h *CatalogHandler) HandleUpdateSnippet(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid JSON body",
		})
		return
	}

	snippet, err := h.catalog.UpdateSnippet(r.Context(), chi.URLParam(r, "id"), service.SnippetInput{
		Filename: req.Filename,
		Language: req.Language,
		Code:     req.Code,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSnippetResponse(*snippet))
}

// HandleDeleteSnippet deletes one snippet.
//
// HTTP: DELETE /api/admin/snippets/{id}
func (h *CatalogHandler) HandleDeleteSnippet(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteSnippet(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleHealth reports liveness.
//
// HTTP: GET /api/health
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
