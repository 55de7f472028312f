package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/foundry/internal/apperror"
	"github.com/sakif/foundry/internal/model"
	"github.com/sakif/foundry/internal/repository"
)

// =========================================================================
// CATEGORY TESTS
// =========================================================================

func TestCategorySeed_AllFourPresentAfterNew(t *testing.T) {
	db := newTestDB(t)

	categories, err := db.Categories.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 4 {
		t.Fatalf("List() returned %d categories, want 4", len(categories))
	}

	seen := map[model.CategoryKey]bool{}
	for _, c := range categories {
		seen[c.Key] = true
		if c.ID == "" {
			t.Errorf("category %q has empty ID", c.Key)
		}
	}
	for _, key := range model.CategoryKeys {
		if !seen[key] {
			t.Errorf("seed missing category %q", key)
		}
	}
}

func TestCategorySeed_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// Re-running the seed must not duplicate rows.
	if err := db.seedCategories(context.Background()); err != nil {
		t.Fatalf("seedCategories() error = %v", err)
	}

	categories, _ := db.Categories.List(context.Background())
	if len(categories) != 4 {
		t.Errorf("after re-seed: %d categories, want 4", len(categories))
	}
}

func TestCategoryFindByKey(t *testing.T) {
	db := newTestDB(t)

	c, err := db.Categories.FindByKey(context.Background(), model.CategoryDevOps)
	if err != nil {
		t.Fatalf("FindByKey() error = %v", err)
	}
	if c.Key != model.CategoryDevOps {
		t.Errorf("FindByKey() key = %q, want %q", c.Key, model.CategoryDevOps)
	}

	_, err = db.Categories.FindByKey(context.Background(), model.CategoryKey("kernel"))
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("FindByKey(unknown) error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// COMPONENT TESTS
// =========================================================================

func createTestComponent(t *testing.T, db *DB, title string, key model.CategoryKey) *model.Component {
	t.Helper()
	category, err := db.Categories.FindByKey(context.Background(), key)
	if err != nil {
		t.Fatalf("FindByKey(%s): %v", key, err)
	}
	component := &model.Component{
		Title:      title,
		UseCase:    "a use case long enough to pass validation",
		CategoryID: category.ID,
	}
	if err := db.Components.Create(context.Background(), component); err != nil {
		t.Fatalf("failed to create test component: %v", err)
	}
	return component
}

func TestComponentCreateAndGet(t *testing.T) {
	db := newTestDB(t)

	created := createTestComponent(t, db, "Login form", model.CategoryFrontend)
	if created.ID == "" || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("Create() did not populate ID and timestamps")
	}

	got, err := db.Components.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Login form" {
		t.Errorf("GetByID() title = %q", got.Title)
	}
	// The JOIN must surface the owning category's key.
	if got.Category != model.CategoryFrontend {
		t.Errorf("GetByID() category = %q, want %q", got.Category, model.CategoryFrontend)
	}
}

func TestComponentGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Components.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestComponentList_InsertionOrderAndPagination(t *testing.T) {
	db := newTestDB(t)

	first := createTestComponent(t, db, "first", model.CategoryBackend)
	second := createTestComponent(t, db, "second", model.CategoryBackend)
	third := createTestComponent(t, db, "third", model.CategoryFrontend)

	all, err := db.Components.List(context.Background(), repository.ListOptions{Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d components, want 3", len(all))
	}
	if all[0].ID != first.ID || all[1].ID != second.ID || all[2].ID != third.ID {
		t.Error("List() is not in insertion order")
	}

	page, err := db.Components.List(context.Background(), repository.ListOptions{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 1 || page[0].ID != second.ID {
		t.Errorf("List(limit=1, offset=1) = %v, want just the second component", page)
	}
}

func TestComponentListByCategory(t *testing.T) {
	db := newTestDB(t)

	backend := createTestComponent(t, db, "API client", model.CategoryBackend)
	createTestComponent(t, db, "Login form", model.CategoryFrontend)

	category, _ := db.Categories.FindByKey(context.Background(), model.CategoryBackend)
	components, err := db.Components.ListByCategory(context.Background(), category.ID)
	if err != nil {
		t.Fatalf("ListByCategory() error = %v", err)
	}
	if len(components) != 1 || components[0].ID != backend.ID {
		t.Errorf("ListByCategory() = %v, want exactly the backend component", components)
	}
}

func TestComponentUpdate(t *testing.T) {
	db := newTestDB(t)

	component := createTestComponent(t, db, "old title", model.CategoryBackend)
	createdAt := component.CreatedAt

	component.Title = "new title"
	if err := db.Components.Update(context.Background(), component); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := db.Components.GetByID(context.Background(), component.ID)
	if got.Title != "new title" {
		t.Errorf("Update() title = %q", got.Title)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Error("Update() must not change CreatedAt")
	}
	if got.UpdatedAt.Before(createdAt) {
		t.Error("Update() should refresh UpdatedAt forward")
	}
	// The in-memory struct got the fresh timestamp from Update directly.
	if !component.UpdatedAt.After(createdAt) {
		t.Error("Update() should advance UpdatedAt on the passed struct")
	}
}

func TestComponentUpdate_NotFound(t *testing.T) {
	db := newTestDB(t)

	ghost := &model.Component{ID: "no-such-id", Title: "x", UseCase: "y"}
	err := db.Components.Update(context.Background(), ghost)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestComponentDelete_CascadesToSnippets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	component := createTestComponent(t, db, "doomed", model.CategoryDatabase)
	snippet := createTestSnippet(t, db, component.ID, "schema.sql")

	if err := db.Components.Delete(ctx, component.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := db.Components.GetByID(ctx, component.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("component still present after delete: %v", err)
	}
	// Cascade: the owned snippet must be gone too.
	if _, err := db.Snippets.GetByID(ctx, snippet.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("snippet survived its component's deletion: %v", err)
	}
}

func TestComponentDelete_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Components.Delete(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// SNIPPET TESTS
// =========================================================================

func createTestSnippet(t *testing.T, db *DB, componentID, filename string) *model.CodeSnippet {
	t.Helper()
	snippet := &model.CodeSnippet{
		Filename:    filename,
		Language:    "go",
		Code:        "package main",
		ComponentID: componentID,
	}
	if err := db.Snippets.Create(context.Background(), snippet); err != nil {
		t.Fatalf("failed to create test snippet: %v", err)
	}
	return snippet
}

func TestSnippetCreate(t *testing.T) {
	db := newTestDB(t)

	component := createTestComponent(t, db, "with snippet", model.CategoryBackend)
	snippet := createTestSnippet(t, db, component.ID, "main.go")

	if snippet.ID == "" || snippet.CreatedAt.IsZero() {
		t.Error("Create() did not populate ID and CreatedAt")
	}
}

func TestSnippetCreate_MissingParent(t *testing.T) {
	db := newTestDB(t)

	snippet := &model.CodeSnippet{
		Filename:    "main.go",
		Language:    "go",
		Code:        "package main",
		ComponentID: "no-such-component",
	}
	err := db.Snippets.Create(context.Background(), snippet)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Create() error = %v, want ErrNotFound for a missing parent", err)
	}
}

func TestSnippetListByComponent_InsertionOrder(t *testing.T) {
	db := newTestDB(t)

	component := createTestComponent(t, db, "multi", model.CategoryBackend)
	first := createTestSnippet(t, db, component.ID, "a.go")
	second := createTestSnippet(t, db, component.ID, "b.go")

	snippets, err := db.Snippets.ListByComponent(context.Background(), component.ID)
	if err != nil {
		t.Fatalf("ListByComponent() error = %v", err)
	}
	if len(snippets) != 2 || snippets[0].ID != first.ID || snippets[1].ID != second.ID {
		t.Errorf("ListByComponent() = %v, want [a.go b.go] in insertion order", snippets)
	}
}

func TestSnippetUpdate_MutatesInPlaceWithoutTimestamp(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	component := createTestComponent(t, db, "edit target", model.CategoryBackend)
	snippet := createTestSnippet(t, db, component.ID, "old.go")
	createdAt := snippet.CreatedAt

	snippet.Filename = "new.go"
	snippet.Code = "package edited"
	if err := db.Snippets.Update(ctx, snippet); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := db.Snippets.GetByID(ctx, snippet.ID)
	if got.Filename != "new.go" || got.Code != "package edited" {
		t.Errorf("Update() fields not applied: %+v", got)
	}
	// Snippets carry no modification timestamp — CreatedAt is all there is
	// and it must not move.
	if !got.CreatedAt.Equal(createdAt) {
		t.Error("Update() must not touch CreatedAt")
	}
}

func TestSnippetUpdateAndDelete_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ghost := &model.CodeSnippet{ID: "no-such-id", Filename: "x", Language: "go", Code: "y"}
	if err := db.Snippets.Update(ctx, ghost); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
	if err := db.Snippets.Delete(ctx, "no-such-id"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}
