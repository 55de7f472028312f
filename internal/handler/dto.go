package handler

// WIRE TYPES:
// Handlers never serialize model structs directly. The model carries
// storage concerns (foreign keys, hashed password) that must not leak, and
// the wire format renders categories by display name while storage keeps
// the lowercase key. These projection types pin the API contract in one
// place.

import (
	"time"

	"github.com/sakif/foundry/internal/model"
)

// CategoryResponse renders a category with both the stable key (what
// clients send) and the display name (what they show).
type CategoryResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

func toCategoryResponse(c model.Category) CategoryResponse {
	return CategoryResponse{
		ID:   c.ID,
		Key:  string(c.Key),
		Name: c.Key.Label(),
	}
}

// SnippetResponse is the wire shape of a code snippet. No updatedAt: the
// storage schema does not record modification time for snippets.
type SnippetResponse struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Language    string    `json:"language"`
	Code        string    `json:"code"`
	ComponentID string    `json:"componentId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toSnippetResponse(s model.CodeSnippet) SnippetResponse {
	return SnippetResponse{
		ID:          s.ID,
		Filename:    s.Filename,
		Language:    s.Language,
		Code:        s.Code,
		ComponentID: s.ComponentID,
		CreatedAt:   s.CreatedAt,
	}
}

// ComponentResponse is the wire shape of a component. The category appears
// as key + display name; Snippets is present only on the detail endpoint.
type ComponentResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	UseCase   string            `json:"useCase"`
	Category  string            `json:"category"`
	Name      string            `json:"categoryName"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Snippets  []SnippetResponse `json:"snippets,omitempty"`
}

func toComponentResponse(c *model.Component) ComponentResponse {
	resp := ComponentResponse{
		ID:        c.ID,
		Title:     c.Title,
		UseCase:   c.UseCase,
		Category:  string(c.Category),
		Name:      c.Category.Label(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Snippets != nil {
		resp.Snippets = make([]SnippetResponse, 0, len(c.Snippets))
		for _, s := range c.Snippets {
			resp.Snippets = append(resp.Snippets, toSnippetResponse(s))
		}
	}
	return resp
}

func toComponentResponses(components []model.Component) []ComponentResponse {
	result := make([]ComponentResponse, 0, len(components))
	for i := range components {
		result = append(result, toComponentResponse(&components[i]))
	}
	return result
}

// AdminResponse is the admin profile as returned by signup, login, and the
// current-admin endpoint. The password hash never appears on the wire.
type AdminResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAdminResponse(a *model.Admin) AdminResponse {
	return AdminResponse{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}
}
