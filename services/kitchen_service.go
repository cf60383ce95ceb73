package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
	"gorm.io/gorm"
)

type CartItem struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

type ItemFilter struct {
	Status  string
	OrderID uint
}

// itemTransitions maps a target status to the statuses it may be reached from.
var itemTransitions = map[string][]string{
	models.ItemStatusCooking:   {models.ItemStatusPending},
	models.ItemStatusServed:    {models.ItemStatusPending, models.ItemStatusCooking},
	models.ItemStatusCancelled: {models.ItemStatusPending, models.ItemStatusCooking},
}

const itemRankOrder = "CASE status WHEN 'PENDING' THEN 0 WHEN 'COOKING' THEN 1 WHEN 'SERVED' THEN 2 ELSE 3 END"

// KitchenService tracks the line items of an order through the kitchen.
type KitchenService struct {
	db *gorm.DB
}

func NewKitchenService(db *gorm.DB) *KitchenService {
	return &KitchenService{db: db}
}

// SubmitCart adds one PENDING line item per cart entry. The whole cart is
// rejected if any entry is invalid.
func (s *KitchenService) SubmitCart(ctx context.Context, orderID uint, cart []CartItem) ([]models.OrderItem, error) {
	return s.submitCart(ctx, cart, func(tx *gorm.DB) (*models.Order, error) {
		return lockOrder(tx, orderID)
	})
}

// SubmitCartByToken is SubmitCart for customers, who only know the
// tracking token.
func (s *KitchenService) SubmitCartByToken(ctx context.Context, token string, cart []CartItem) ([]models.OrderItem, error) {
	return s.submitCart(ctx, cart, func(tx *gorm.DB) (*models.Order, error) {
		var ref models.Order
		err := tx.Select("id").Where("tracking_token = ?", token).First(&ref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(KindOrderNotFound, "order %q not found", token)
		}
		if err != nil {
			return nil, err
		}
		return lockOrder(tx, ref.ID)
	})
}

func (s *KitchenService) submitCart(ctx context.Context, cart []CartItem, load func(tx *gorm.DB) (*models.Order, error)) ([]models.OrderItem, error) {
	if len(cart) == 0 {
		return nil, newError(KindInvalidCart, "cart is empty")
	}
	ids := make([]uint, 0, len(cart))
	for i, entry := range cart {
		if entry.Quantity < 1 {
			return nil, newError(KindInvalidCart, "cart entry %d: quantity must be at least 1", i+1)
		}
		ids = append(ids, entry.MenuItemID)
	}

	var items []models.OrderItem
	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = load(tx)
		if err != nil {
			return err
		}
		if !order.IsLive() {
			return notLiveError(order)
		}

		var buffet models.BuffetType
		if err := tx.First(&buffet, order.BuffetTypeID).Error; err != nil {
			return err
		}

		var menu []models.MenuItem
		if err := tx.Preload("BuffetType").Where("id IN ?", ids).Find(&menu).Error; err != nil {
			return err
		}
		byID := make(map[uint]models.MenuItem, len(menu))
		for _, m := range menu {
			byID[m.ID] = m
		}

		items = make([]models.OrderItem, 0, len(cart))
		for _, entry := range cart {
			m, ok := byID[entry.MenuItemID]
			switch {
			case !ok:
				return newError(KindInvalidCart, "menu item %d does not exist", entry.MenuItemID)
			case !m.Available:
				return newError(KindInvalidCart, "menu item %d is not available", m.ID)
			case m.BuffetType.Tier > buffet.Tier:
				return newError(KindInvalidCart, "menu item %d is not part of the %s buffet", m.ID, buffet.Name)
			}
			items = append(items, models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: m.ID,
				MenuItem:   m,
				Quantity:   entry.Quantity,
				Status:     models.ItemStatusPending,
			})
		}

		// MenuItem is already persisted; only the line items are inserted.
		if err := tx.Omit("MenuItem", "Order").Create(&items).Error; err != nil {
			return err
		}

		if order.Status == models.OrderStatusPending {
			err := tx.Model(&models.Order{}).
				Where("id = ? AND status = ?", order.ID, models.OrderStatusPending).
				Update("status", models.OrderStatusInProgress).Error
			if err != nil {
				return err
			}
		}

		return recordEvent(tx, models.EventCartSubmitted,
			fmt.Sprintf("Order #%d sent %d items to the kitchen", order.ID, len(items)),
			uintPtr(order.ID), nil, uintPtr(order.TableID))
	})
	if err != nil {
		return nil, storageError("submit cart", err)
	}

	utils.InfoLogger.Printf("Order #%d: %d items submitted", order.ID, len(items))
	return items, nil
}

// UpdateItemStatus moves a line item along PENDING -> COOKING -> SERVED, or
// cancels it before it is served. SERVED and CANCELLED are final.
func (s *KitchenService) UpdateItemStatus(ctx context.Context, itemID uint, newStatus string) (*models.OrderItem, error) {
	from, ok := itemTransitions[newStatus]
	if !ok {
		return nil, newError(KindInvalidMenuStatus, "line items cannot be set to %q", newStatus)
	}

	var item models.OrderItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Order").First(&item, itemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFound, "order item %d not found", itemID)
		}
		if err != nil {
			return err
		}

		res := tx.Model(&models.OrderItem{}).
			Where("id = ? AND status IN ?", itemID, from).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return newError(KindInvalidMenuStatus, "order item %d cannot go from %s to %s",
				itemID, item.Status, newStatus)
		}

		return recordEvent(tx, models.EventItemStatus,
			fmt.Sprintf("Item #%d of order #%d is now %s", itemID, item.OrderID, newStatus),
			uintPtr(item.OrderID), uintPtr(itemID), uintPtr(item.Order.TableID))
	})
	if err != nil {
		return nil, storageError("update item status", err)
	}

	utils.InfoLogger.Printf("Order item #%d: %s -> %s", itemID, item.Status, newStatus)

	var updated models.OrderItem
	if err := s.db.WithContext(ctx).Preload("MenuItem").First(&updated, itemID).Error; err != nil {
		return nil, storageError("get order item", err)
	}
	return &updated, nil
}

// ListItems returns kitchen tickets, open ones first, oldest first within a
// status.
func (s *KitchenService) ListItems(ctx context.Context, filter ItemFilter) ([]models.KitchenTicket, error) {
	query := s.db.WithContext(ctx).
		Preload("MenuItem").
		Preload("Order.Table")

	if filter.Status != "" {
		if _, ok := models.ItemStatusRank[filter.Status]; !ok {
			return nil, newError(KindInvalidInput, "unknown item status %q", filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}

	var items []models.OrderItem
	err := query.
		Order(itemRankOrder).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, storageError("list order items", err)
	}

	tickets := make([]models.KitchenTicket, 0, len(items))
	for _, item := range items {
		tickets = append(tickets, models.KitchenTicket{
			OrderItem:   item,
			TableID:     item.Order.TableID,
			TableNumber: item.Order.Table.TableNumber,
		})
	}
	return tickets, nil
}
