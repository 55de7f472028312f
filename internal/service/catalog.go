package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/foundry/internal/apperror"
	"github.com/sakif/foundry/internal/model"
	"github.com/sakif/foundry/internal/repository"
)

// Component and snippet field bounds, matched to the database columns.
const (
	MinTitleLength    = 3
	MaxTitleLength    = 255
	MinUseCaseLength  = 10
	MaxFilenameLength = 255
	MaxLanguageLength = 50

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// CatalogService implements the component and snippet operations: public
// reads and token-gated writes. Authorization itself lives in middleware;
// by the time a call reaches this layer the caller is already trusted.
type CatalogService struct {
	categories repository.CategoryRepository
	components repository.ComponentRepository
	snippets   repository.SnippetRepository
	logger     *slog.Logger
}

// NewCatalogService creates a CatalogService with all required dependencies.
func NewCatalogService(
	categories repository.CategoryRepository,
	components repository.ComponentRepository,
	snippets repository.SnippetRepository,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		components: components,
		snippets:   snippets,
		logger:     logger,
	}
}

// ComponentInput carries the writable component fields. On update, empty
// strings mean "leave unchanged" — a deliberate patch semantic, since none
// of these fields may legitimately be empty anyway.
type ComponentInput struct {
	Title    string
	UseCase  string
	Category string
}

// SnippetInput carries the writable snippet fields, with the same
// empty-means-unchanged semantic on update.
type SnippetInput struct {
	Filename string
	Language string
	Code     string
}

// ListCategories returns all categories in insertion order.
func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// CreateComponent validates the input, resolves the category, and persists
// a new component.
func (s *CatalogService) CreateComponent(ctx context.Context, in ComponentInput) (*model.Component, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.UseCase = strings.TrimSpace(in.UseCase)

	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateUseCase(in.UseCase); err != nil {
		return nil, err
	}

	key, ok := model.ParseCategoryKey(in.Category)
	if !ok {
		return nil, apperror.InvalidCategory(in.Category)
	}

	category, err := s.categories.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: resolving category %q: %w", key, err)
	}

	component := &model.Component{
		Title:      in.Title,
		UseCase:    in.UseCase,
		CategoryID: category.ID,
		Category:   category.Key,
	}

	if err := s.components.Create(ctx, component); err != nil {
		s.logger.Error("failed to create component",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("component created",
		slog.String("id", component.ID),
		slog.String("category", string(category.Key)),
	)

	return component, nil
}

// ListComponents returns components in insertion order, paginated. A zero
// or negative limit falls back to the default; anything above the cap is
// clamped rather than rejected.
func (s *CatalogService) ListComponents(ctx context.Context, limit, offset int) ([]model.Component, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.components.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
}

// GetComponent returns one component with its snippets attached.
func (s *CatalogService) GetComponent(ctx context.Context, id string) (*model.Component, error) {
	component, err := s.components.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	snippets, err := s.snippets.ListByComponent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: loading snippets for component %s: %w", id, err)
	}

	component.Snippets = snippets

	return component, nil
}

// ComponentsByCategory returns all components under the named category.
// The name is matched case-insensitively; an unknown name maps to an
// invalid-category error rather than an empty list, so a typo in the path
// is distinguishable from a genuinely empty category.
func (s *CatalogService) ComponentsByCategory(ctx context.Context, name string) ([]model.Component, error) {
	key, ok := model.ParseCategoryKey(name)
	if !ok {
		return nil, apperror.InvalidCategory(name)
	}

	category, err := s.categories.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("service/catalog: resolving category %q: %w", key, err)
	}

	return s.components.ListByCategory(ctx, category.ID)
}

// UpdateComponent applies a partial update: only non-empty input fields
// change the stored component. An unparseable category in the input is
// ignored entirely, leaving the existing category in place.
func (s *CatalogService) UpdateComponent(ctx context.Context, id string, in ComponentInput) (*model.Component, error) {
	component, err := s.components.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		component.Title = title
	}

	if useCase := strings.TrimSpace(in.UseCase); useCase != "" {
		if err := validateUseCase(useCase); err != nil {
			return nil, err
		}
		component.UseCase = useCase
	}

	if key, ok := model.ParseCategoryKey(in.Category); ok {
		category, err := s.categories.FindByKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("service/catalog: resolving category %q: %w", key, err)
		}
		component.CategoryID = category.ID
		component.Category = category.Key
	}

	if err := s.components.Update(ctx, component); err != nil {
		return nil, err
	}

	s.logger.Info("component updated", slog.String("id", id))

	return component, nil
}

// DeleteComponent removes a component. Its snippets go with it via the
// database cascade.
func (s *CatalogService) DeleteComponent(ctx context.Context, id string) error {
	if err := s.components.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("component deleted", slog.String("id", id))
	return nil
}

// CreateSnippet validates the input and attaches a new snippet to the
// given component.
func (s *CatalogService) CreateSnippet(ctx context.Context, componentID string, in SnippetInput) (*model.CodeSnippet, error) {
	in.Filename = strings.TrimSpace(in.Filename)
	in.Language = strings.TrimSpace(in.Language)

	if err := validateSnippet(in); err != nil {
		return nil, err
	}

	snippet := &model.CodeSnippet{
		Filename:    in.Filename,
		Language:    in.Language,
		Code:        in.Code,
		ComponentID: componentID,
	}

	if err := s.snippets.Create(ctx, snippet); err != nil {
		return nil, err
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("component_id", componentID),
	)

	return snippet, nil
}

// UpdateSnippet applies a partial update with the same empty-means-unchanged
// semantic as UpdateComponent.
func (s *CatalogService) UpdateSnippet(ctx context.Context, id string, in SnippetInput) (*model.CodeSnippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if filename := strings.TrimSpace(in.Filename); filename != "" {
		if len(filename) > MaxFilenameLength {
			return nil, apperror.ValidationFailed("filename",
				fmt.Sprintf("filename must be 1-%d characters", MaxFilenameLength))
		}
		snippet.Filename = filename
	}

	if language := strings.TrimSpace(in.Language); language != "" {
		if len(language) > MaxLanguageLength {
			return nil, apperror.ValidationFailed("language",
				fmt.Sprintf("language must be 1-%d characters", MaxLanguageLength))
		}
		snippet.Language = language
	}

	if in.Code != "" {
		snippet.Code = in.Code
	}

	if err := s.snippets.Update(ctx, snippet); err != nil {
		return nil, err
	}

	s.logger.Info("snippet updated", slog.String("id", id))

	return snippet, nil
}

// DeleteSnippet removes a snippet.
func (s *CatalogService) DeleteSnippet(ctx context.Context, id string) error {
	if err := s.snippets.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

func validateTitle(title string) error {
	if len(title) < MinTitleLength || len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d-%d characters", MinTitleLength, MaxTitleLength))
	}
	return nil
}

func validateUseCase(useCase string) error {
	if len(useCase) < MinUseCaseLength {
		return apperror.ValidationFailed("use_case",
			fmt.Sprintf("use_case must be at least %d characters", MinUseCaseLength))
	}
	return nil
}

func validateSnippet(in SnippetInput) error {
	if in.Filename == "" || len(in.Filename) > MaxFilenameLength {
		return apperror.ValidationFailed("filename",
			fmt.Sprintf("filename must be 1-%d characters", MaxFilenameLength))
	}
	if in.Language == "" || len(in.Language) > MaxLanguageLength {
		return apperror.ValidationFailed("language",
			fmt.Sprintf("language must be 1-%d characters", MaxLanguageLength))
	}
	if strings.TrimSpace(in.Code) == "" {
		return apperror.ValidationFailed("code", "code must not be empty")
	}
	return nil
}
