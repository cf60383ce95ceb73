package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
	"gorm.io/gorm"
)

var liveOrderStatuses = []string{models.OrderStatusPending, models.OrderStatusInProgress}

type CreateOrderInput struct {
	TableID      uint `json:"table_id" binding:"required"`
	EmployeeID   uint `json:"employee_id"`
	BuffetTypeID uint `json:"buffet_type_id" binding:"required"`
	Headcount    int  `json:"headcount"`
}

type OrderFilter struct {
	// Deleted selects archived (true) or active (false) orders; nil means both.
	Deleted *bool
	Status  string
}

// OrderService owns the order lifecycle and keeps each table's status in
// lockstep with the orders placed on it.
type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder reserves the table and opens a PENDING order on it.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.Headcount < 1 {
		return nil, newError(KindInvalidInput, "headcount must be at least 1")
	}
	if in.TableID == 0 || in.EmployeeID == 0 || in.BuffetTypeID == 0 {
		return nil, newError(KindInvalidInput, "table, employee and buffet type are required")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &models.Employee{}, in.EmployeeID, "employee"); err != nil {
			return err
		}
		if err := mustExist(tx, &models.BuffetType{}, in.BuffetTypeID, "buffet type"); err != nil {
			return err
		}
		if err := reserveTable(tx, in.TableID); err != nil {
			return err
		}

		order = models.Order{
			TableID:       in.TableID,
			EmployeeID:    in.EmployeeID,
			BuffetTypeID:  in.BuffetTypeID,
			Status:        models.OrderStatusPending,
			Headcount:     in.Headcount,
			TrackingToken: uuid.NewString(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return recordEvent(tx, models.EventOrderCreated,
			fmt.Sprintf("Order #%d opened for %d guests", order.ID, order.Headcount),
			uintPtr(order.ID), nil, uintPtr(order.TableID))
	})
	if err != nil {
		return nil, storageError("create order", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"table_id": order.TableID,
	}).Info("Order created")

	return s.GetOrder(ctx, order.ID)
}

// UpdateOrderStatus closes a live order as COMPLETED or CANCELLED and frees
// its table.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, newStatus string) (*models.Order, error) {
	if !models.IsTerminalOrderStatus(newStatus) {
		return nil, newError(KindInvalidStatus, "status %q is not allowed; use %s or %s",
			newStatus, models.OrderStatusCompleted, models.OrderStatusCancelled)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !order.IsLive() {
			return notLiveError(order)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND is_deleted = ? AND status IN ?", orderID, false, liveOrderStatuses).
			Update("status", newStatus)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return newError(KindInvalidState, "order %d changed concurrently", orderID)
		}
		if err := releaseTable(tx, order.TableID); err != nil {
			return err
		}

		return recordEvent(tx, models.EventOrderStatus,
			fmt.Sprintf("Order #%d is now %s", orderID, newStatus),
			uintPtr(orderID), nil, uintPtr(order.TableID))
	})
	if err != nil {
		return nil, storageError("update order status", err)
	}

	utils.InfoLogger.Printf("Order #%d status changed to %s", orderID, newStatus)
	return s.GetOrder(ctx, orderID)
}

// SoftDeleteOrder archives a live order. The status it had is kept so
// RestoreOrder can bring it back.
func (s *OrderService) SoftDeleteOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !order.IsLive() {
			return notLiveError(order)
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND is_deleted = ? AND status IN ?", orderID, false, liveOrderStatuses).
			Updates(map[string]interface{}{
				"status":            models.OrderStatusCancelled,
				"is_deleted":        true,
				"pre_delete_status": order.Status,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return newError(KindInvalidState, "order %d changed concurrently", orderID)
		}
		if err := releaseTable(tx, order.TableID); err != nil {
			return err
		}

		return recordEvent(tx, models.EventOrderArchived,
			fmt.Sprintf("Order #%d archived", orderID),
			uintPtr(orderID), nil, uintPtr(order.TableID))
	})
	if err != nil {
		return nil, storageError("soft delete order", err)
	}

	utils.InfoLogger.Printf("Order #%d archived", orderID)
	return s.GetOrder(ctx, orderID)
}

// RestoreOrder un-archives an order, re-reserving its table. The table must
// be AVAILABLE; otherwise nothing changes.
func (s *OrderService) RestoreOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	var restored string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := lockOrder(tx, orderID)
		if err != nil {
			return err
		}
		if !order.IsDeleted {
			return newError(KindInvalidState, "order %d is not archived", orderID)
		}
		if err := reserveTable(tx, order.TableID); err != nil {
			return err
		}

		restored = order.PreDeleteStatus
		if restored == "" || models.IsTerminalOrderStatus(restored) {
			restored = models.OrderStatusPending
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND is_deleted = ?", orderID, true).
			Updates(map[string]interface{}{
				"status":            restored,
				"is_deleted":        false,
				"pre_delete_status": "",
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return newError(KindInvalidState, "order %d changed concurrently", orderID)
		}

		return recordEvent(tx, models.EventOrderRestored,
			fmt.Sprintf("Order #%d restored as %s", orderID, restored),
			uintPtr(orderID), nil, uintPtr(order.TableID))
	})
	if err != nil {
		return nil, storageError("restore order", err)
	}

	utils.InfoLogger.Printf("Order #%d restored as %s", orderID, restored)
	return s.GetOrder(ctx, orderID)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.findOrder(ctx, "id = ?", orderID)
}

func (s *OrderService) GetOrderByToken(ctx context.Context, token string) (*models.Order, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, newError(KindOrderNotFound, "order %q not found", token)
	}
	return s.findOrder(ctx, "tracking_token = ?", token)
}

// FindOrder resolves a numeric id or a tracking token.
func (s *OrderService) FindOrder(ctx context.Context, ref string) (*models.Order, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		return s.GetOrder(ctx, uint(id))
	}
	return s.GetOrderByToken(ctx, ref)
}

func (s *OrderService) findOrder(ctx context.Context, query string, arg interface{}) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Employee").
		Preload("BuffetType").
		Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload("OrderItems.MenuItem").
		Where(query, arg).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(KindOrderNotFound, "order %v not found", arg)
	}
	if err != nil {
		return nil, storageError("get order", err)
	}
	return &order, nil
}

// ListOrders returns orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	query := s.db.WithContext(ctx).
		Preload("Table").
		Preload("Employee").
		Preload("BuffetType")

	if filter.Deleted != nil {
		query = query.Where("is_deleted = ?", *filter.Deleted)
	}
	if filter.Status != "" {
		if !isOrderStatus(filter.Status) {
			return nil, newError(KindInvalidStatus, "unknown order status %q", filter.Status)
		}
		query = query.Where("status = ?", filter.Status)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, storageError("list orders", err)
	}
	return orders, nil
}

func notLiveError(order *models.Order) error {
	if order.IsDeleted {
		return newError(KindInvalidState, "order %d is archived", order.ID)
	}
	return newError(KindInvalidState, "order %d is already %s", order.ID, order.Status)
}

func isOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusInProgress,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	return false
}

// mustExist returns NOT_FOUND when no row of model has the given id.
func mustExist(tx *gorm.DB, model interface{}, id uint, name string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return newError(KindNotFound, "%s %d not found", name, id)
	}
	return nil
}
