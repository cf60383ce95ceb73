package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
	"gorm.io/gorm"
)

type BuffetTypeInput struct {
	Name         string          `json:"name" binding:"required"`
	PricePerHead decimal.Decimal `json:"price_per_head"`
	Tier         int             `json:"tier"`
}

type MenuItemInput struct {
	NameTH       string          `json:"name_th" binding:"required"`
	NameEN       string          `json:"name_en" binding:"required"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category" binding:"required"`
	BuffetTypeID uint            `json:"buffet_type_id" binding:"required"`
	Available    *bool           `json:"available"`
}

// SessionView is what a customer sees after scanning the table QR code.
type SessionView struct {
	Order      *models.Order     `json:"order"`
	Categories []string          `json:"categories"`
	Menu       []models.MenuItem `json:"menu"`
}

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) ListBuffetTypes(ctx context.Context) ([]models.BuffetType, error) {
	var types []models.BuffetType
	if err := s.db.WithContext(ctx).Order("tier ASC, id ASC").Find(&types).Error; err != nil {
		return nil, storageError("list buffet types", err)
	}
	return types, nil
}

func (s *MenuService) CreateBuffetType(ctx context.Context, in BuffetTypeInput) (*models.BuffetType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, newError(KindInvalidInput, "name is required")
	}
	if in.PricePerHead.IsNegative() {
		return nil, newError(KindInvalidInput, "price per head cannot be negative")
	}
	if in.Tier == 0 {
		in.Tier = 1
	}
	if in.Tier < 1 {
		return nil, newError(KindInvalidInput, "tier must be at least 1")
	}

	bt := models.BuffetType{Name: name, PricePerHead: in.PricePerHead, Tier: in.Tier}
	if err := s.db.WithContext(ctx).Create(&bt).Error; err != nil {
		return nil, storageError("create buffet type", err)
	}
	utils.InfoLogger.Printf("Buffet type %q created (tier %d)", bt.Name, bt.Tier)
	return &bt, nil
}

func (s *MenuService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if strings.TrimSpace(in.NameTH) == "" || strings.TrimSpace(in.NameEN) == "" {
		return nil, newError(KindInvalidInput, "both names are required")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, newError(KindInvalidInput, "category is required")
	}
	if in.Price.IsNegative() {
		return nil, newError(KindInvalidInput, "price cannot be negative")
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}

	item := models.MenuItem{
		NameTH:       strings.TrimSpace(in.NameTH),
		NameEN:       strings.TrimSpace(in.NameEN),
		Price:        in.Price,
		Category:     strings.TrimSpace(in.Category),
		BuffetTypeID: in.BuffetTypeID,
		Available:    available,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.BuffetType{}, in.BuffetTypeID, "buffet type"); err != nil {
			return err
		}
		return tx.Create(&item).Error
	})
	if err != nil {
		return nil, storageError("create menu item", err)
	}
	return &item, nil
}

// ScopedMenu lists the available items a buffet grants: those owned by any
// buffet type of the same or a lower tier.
func (s *MenuService) ScopedMenu(ctx context.Context, buffetTypeID uint, category string) ([]models.MenuItem, error) {
	var buffet models.BuffetType
	err := s.db.WithContext(ctx).First(&buffet, buffetTypeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindNotFound, "buffet type %d not found", buffetTypeID)
	}
	if err != nil {
		return nil, storageError("get buffet type", err)
	}
	return s.scopedMenu(ctx, buffet.Tier, category)
}

func (s *MenuService) scopedMenu(ctx context.Context, tier int, category string) ([]models.MenuItem, error) {
	db := s.db.WithContext(ctx)
	tiers := db.Model(&models.BuffetType{}).Select("id").Where("tier <= ?", tier)

	query := db.Preload("BuffetType").
		Where("buffet_type_id IN (?)", tiers).
		Where("available = ?", true)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.MenuItem
	if err := query.Order("created_at ASC, id ASC").Find(&items).Error; err != nil {
		return nil, storageError("list menu", err)
	}
	return items, nil
}

// Session builds the customer view for a loaded order.
func (s *MenuService) Session(ctx context.Context, order *models.Order) (*SessionView, error) {
	menu, err := s.scopedMenu(ctx, order.BuffetType.Tier, "")
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range menu {
		if !seen[m.Category] {
			seen[m.Category] = true
			categories = append(categories, m.Category)
		}
	}

	return &SessionView{Order: order, Categories: categories, Menu: menu}, nil
}
