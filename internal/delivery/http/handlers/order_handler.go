package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/227007/E-commerce-backend/internal/delivery/http/middleware"
	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
	"github.com/227007/E-commerce-backend/internal/infrastructure/logger"
	"github.com/227007/E-commerce-backend/internal/usecase"
)

const idempotencyHeader = "Idempotency-Key"

// IdempotencyStore recognises retried create requests across instances.
type IdempotencyStore interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
	idempotency  IdempotencyStore
	logger       *logger.Logger
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase, idempotency IdempotencyStore, log *logger.Logger) *OrderHandler {
	if log == nil {
		log = logger.NewLogger()
	}
	return &OrderHandler{
		orderUseCase: orderUseCase,
		idempotency:  idempotency,
		logger:       log,
	}
}

// CreateOrder runs the order builder for the authenticated buyer. A
// multi-company cart produces several orders; the response lists them all,
// plus any company groups whose persistence failed.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	if key != "" && h.idempotency != nil {
		claimed, err := h.idempotency.Claim(c.Request.Context(), key)
		if err != nil {
			h.logger.Warn("Idempotency store unavailable, accepting request", "error", err)
		} else if !claimed {
			c.JSON(http.StatusConflict, gin.H{"error": "duplicate request"})
			return
		}
	}

	items := make([]usecase.OrderItemRequest, len(req.OrderItems))
	for i, item := range req.OrderItems {
		items[i] = usecase.OrderItemRequest{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			CompanyID: item.CompanyID,
		}
	}

	result, err := h.orderUseCase.CreateOrders(c.Request.Context(), usecase.CreateOrdersInput{
		BuyerID: actor.UserID,
		Items:   items,
		ShippingAddress: entities.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: entities.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		h.releaseKey(c, key)
		h.respondError(c, err)
		return
	}

	if len(result.Orders) == 0 {
		// every company group failed; allow the client to retry
		h.releaseKey(c, key)
		h.respondError(c, result.Failed[0].Err)
		return
	}

	resp := CreateOrdersResponse{Orders: make([]OrderResponse, 0, len(result.Orders))}
	for _, order := range result.Orders {
		resp.Orders = append(resp.Orders, fromOrder(order))
	}
	for _, failed := range result.Failed {
		resp.FailedGroups = append(resp.FailedGroups, FailedGroupResponse{
			CompanyID: failed.CompanyID,
			Error:     failed.Err.Error(),
		})
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orderUseCase.GetOrder(c.Request.Context(), c.Param("id"), middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderUseCase.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

func (h *OrderHandler) PayOrder(c *gin.Context) {
	var req PayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderUseCase.MarkOrderPaid(c.Request.Context(), c.Param("id"), entities.PaymentResult{
		ID:           req.ID,
		Status:       req.Status,
		UpdateTime:   req.UpdateTime,
		EmailAddress: req.Payer.EmailAddress,
	}, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

func (h *OrderHandler) AddOrderNote(c *gin.Context) {
	var req AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderUseCase.AddOrderNote(c.Request.Context(), c.Param("id"), req.Note, middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrder(order))
}

func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	orders, err := h.orderUseCase.ListMyOrders(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromOrders(orders))
}

func (h *OrderHandler) GetCompanyOrders(c *gin.Context) {
	page, limit := pagination(c)

	orders, total, err := h.orderUseCase.ListCompanyOrders(c.Request.Context(), middleware.ActorFrom(c), c.Query("status"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PagedOrdersResponse{
		Orders:      fromOrders(orders),
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
		TotalOrders: total,
	})
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	page, limit := pagination(c)

	orders, total, err := h.orderUseCase.ListOrders(c.Request.Context(), c.Query("company"), c.Query("status"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, PagedOrdersResponse{
		Orders:      fromOrders(orders),
		TotalPages:  totalPages(total, limit),
		CurrentPage: page,
		TotalOrders: total,
	})
}

func (h *OrderHandler) releaseKey(c *gin.Context, key string) {
	if key == "" || h.idempotency == nil {
		return
	}
	if err := h.idempotency.Release(c.Request.Context(), key); err != nil {
		h.logger.Warn("Failed to release idempotency key", "error", err)
	}
}

func (h *OrderHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrEmptyOrderRequest),
		errors.Is(err, usecase.ErrInvalidItem),
		errors.Is(err, usecase.ErrInvalidPaymentMethod),
		errors.Is(err, usecase.ErrInvalidBuyerID),
		errors.Is(err, usecase.ErrInvalidOrderID),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrEmptyNote),
		errors.Is(err, usecase.ErrCompanyMismatch),
		errors.Is(err, repositories.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repositories.ErrProductNotFound),
		errors.Is(err, repositories.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func pagination(c *gin.Context) (page, limit int64) {
	page, _ = strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ = strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func totalPages(total, limit int64) int64 {
	if limit < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}
