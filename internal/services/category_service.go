package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"fintrack/internal/docstore"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/models"
)

// starterCategories are seeded for every new user. They are ordinary user
// categories and can be edited or removed.
var starterCategories = []CreateCategoryInput{
	{Name: "Alimentação", Type: models.CategoryTypeExpense, Color: "#FF5733", Icon: "restaurant", Description: "Gastos com alimentação, restaurantes, delivery"},
	{Name: "Moradia", Type: models.CategoryTypeExpense, Color: "#33A8FF", Icon: "home", Description: "Aluguel, condomínio, IPTU, manutenção"},
	{Name: "Transporte", Type: models.CategoryTypeExpense, Color: "#33FF57", Icon: "directions_car", Description: "Combustível, transporte público, manutenção de veículos"},
	{Name: "Saúde", Type: models.CategoryTypeExpense, Color: "#C133FF", Icon: "medical_services", Description: "Plano de saúde, medicamentos, consultas"},
	{Name: "Educação", Type: models.CategoryTypeExpense, Color: "#FFBD33", Icon: "school", Description: "Mensalidades, cursos, livros"},
	{Name: "Lazer", Type: models.CategoryTypeExpense, Color: "#33FFF6", Icon: "sports_esports", Description: "Entretenimento, viagens, hobbies"},
	{Name: "Vestuário", Type: models.CategoryTypeExpense, Color: "#FF33A8", Icon: "checkroom", Description: "Roupas, calçados, acessórios"},
	{Name: "Salário", Type: models.CategoryTypeIncome, Color: "#3358FF", Icon: "payments", Description: "Salário mensal, bônus, comissões"},
	{Name: "Freelance", Type: models.CategoryTypeIncome, Color: "#33FF85", Icon: "work", Description: "Trabalhos autônomos e serviços prestados"},
	{Name: "Investimentos", Type: models.CategoryTypeIncome, Color: "#FFBD33", Icon: "trending_up", Description: "Rendimentos de aplicações financeiras"},
	{Name: "Presentes", Type: models.CategoryTypeIncome, Color: "#FF5733", Icon: "card_giftcard", Description: "Presentes em dinheiro"},
}

// categoryService handles category-related business logic.
type categoryService struct {
	store docstore.Store
	log   *zap.SugaredLogger
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store docstore.Store) CategoryServicer {
	return &categoryService{store: store, log: logger.Named("categories")}
}

func validCategoryType(t models.CategoryType) bool {
	return t == models.CategoryTypeIncome || t == models.CategoryTypeExpense
}

// CreateCategory creates a new category for a user. Name and type must be
// unique among the user's categories.
func (s *categoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if in.UserID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "user id is required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if !validCategoryType(in.Type) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category type must be income or expense")
	}

	existing, err := loadAll[models.Category](ctx, s.store, s.log, models.CollectionCategories,
		docstore.Eq("user_id", in.UserID),
		docstore.Eq("name", name),
		docstore.Eq("type", in.Type),
	)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	now := time.Now().UTC()
	category := &models.Category{
		UserID:      in.UserID,
		Name:        name,
		Type:        in.Type,
		Color:       in.Color,
		Icon:        in.Icon,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	doc, err := docstore.Encode(category)
	if err != nil {
		return nil, storeError(s.log, "encode category", err, nil)
	}
	id, err := s.store.Add(ctx, models.CollectionCategories, doc)
	if err != nil {
		return nil, storeError(s.log, "add category", err, nil)
	}
	category.ID = id
	return category, nil
}

// GetCategory retrieves a category by id.
func (s *categoryService) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	return load[models.Category](ctx, s.store, s.log, models.CollectionCategories, categoryID, apperrors.ErrCategoryNotFound)
}

// UpdateCategory applies a partial update. System defaults are read-only.
func (s *categoryService) UpdateCategory(ctx context.Context, categoryID string, update models.CategoryUpdate) (*models.Category, error) {
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.IsDefault {
		return nil, apperrors.ErrDefaultCategoryLocked
	}

	fields := docstore.Document{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
		}
		if name != category.Name {
			clash, err := loadAll[models.Category](ctx, s.store, s.log, models.CollectionCategories,
				docstore.Eq("user_id", category.UserID),
				docstore.Eq("name", name),
				docstore.Eq("type", category.Type),
			)
			if err != nil {
				return nil, err
			}
			if len(clash) > 0 {
				return nil, apperrors.ErrDuplicateCategory
			}
		}
		fields["name"] = name
	}
	if update.Color != nil {
		fields["color"] = *update.Color
	}
	if update.Icon != nil {
		fields["icon"] = *update.Icon
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	fields["updated_at"] = time.Now().UTC()

	if err := s.store.Update(ctx, models.CollectionCategories, categoryID, fields); err != nil {
		return nil, storeError(s.log, "update category", err, apperrors.ErrCategoryNotFound)
	}
	return s.GetCategory(ctx, categoryID)
}

// DeleteCategory removes a user category. System defaults are read-only.
func (s *categoryService) DeleteCategory(ctx context.Context, categoryID string) error {
	category, err := s.GetCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return apperrors.ErrDefaultCategoryLocked
	}
	if err := s.store.Delete(ctx, models.CollectionCategories, categoryID); err != nil {
		return storeError(s.log, "delete category", err, apperrors.ErrCategoryNotFound)
	}
	return nil
}

// ListCategories returns the user's categories, plus the system defaults when
// includeDefault is set, sorted by name.
func (s *categoryService) ListCategories(ctx context.Context, userID string, categoryType *models.CategoryType, includeDefault bool) ([]models.Category, error) {
	all, err := loadAll[models.Category](ctx, s.store, s.log, models.CollectionCategories, docstore.Eq("user_id", userID))
	if err != nil {
		return nil, err
	}
	if includeDefault {
		defaults, err := loadAll[models.Category](ctx, s.store, s.log, models.CollectionCategories, docstore.Eq("is_default", true))
		if err != nil {
			return nil, err
		}
		all = append(all, defaults...)
	}

	seen := make(map[string]bool, len(all))
	out := make([]models.Category, 0, len(all))
	for _, c := range all {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		if categoryType != nil && c.Type != *categoryType {
			continue
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// CreateDefaultCategories seeds the starter categories for a new user and
// returns the ids created. Categories the user already has are skipped.
func (s *categoryService) CreateDefaultCategories(ctx context.Context, userID string) ([]string, error) {
	ids := make([]string, 0, len(starterCategories))
	for _, in := range starterCategories {
		in.UserID = userID
		category, err := s.CreateCategory(ctx, in)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicateCategory) {
				continue
			}
			return ids, err
		}
		ids = append(ids, category.ID)
	}
	return ids, nil
}
