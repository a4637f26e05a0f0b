package http

import (
	"errors"
	"net/http"

	orderDomain "paya-bnpl-backend/internal/domain/order"
	orderUC "paya-bnpl-backend/internal/usecase/order"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct{ uc *orderUC.Usecase }

func NewOrderHandler(uc *orderUC.Usecase) *OrderHandler { return &OrderHandler{uc: uc} }

type orderItemReq struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name" validate:"required"`
	UnitPrice   int64  `json:"unit_price"   validate:"required,gt=0"`
	Quantity    int    `json:"quantity"     validate:"required,gte=1"`
	MerchantID  string `json:"merchant_id"  validate:"required,hex32"`
}

type createOrderReq struct {
	CustomerID string                       `json:"customer_id" validate:"required,hex32"`
	Customer   orderDomain.CustomerSnapshot `json:"customer"`
	Shipping   orderDomain.ShippingAddress  `json:"shipping_address"`
	Items      []orderItemReq               `json:"items" validate:"required,min=1,dive"`
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req createOrderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := orderUC.CreateOrderInput{
		CustomerID: req.CustomerID,
		Customer:   req.Customer,
		Shipping:   req.Shipping,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, orderUC.ItemInput(it))
	}

	o, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing order_id path param"})
	}
	o, err := h.uc.Get(c.Request().Context(), orderID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	customerID := c.Param("customer_id")
	if !reHex32.MatchString(customerID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "customer_id must be 32-char lowercase hex"})
	}
	orders, err := h.uc.ListByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"orders": orders})
}

type transitionReq struct {
	Status  string `json:"status"   validate:"required"`
	ActorID string `json:"actor_id" validate:"omitempty,hex32"`
	Note    string `json:"note"`
}

func (h *OrderHandler) TransitionOrder(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing order_id path param"})
	}
	var req transitionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	o, err := h.uc.Transition(c.Request().Context(), orderUC.TransitionInput{
		OrderID: orderID,
		Target:  req.Status,
		ActorID: req.ActorID,
		Note:    req.Note,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

type overrideReq struct {
	Status  string `json:"status"   validate:"required"`
	ActorID string `json:"actor_id" validate:"required,hex32"`
	Reason  string `json:"reason"   validate:"required"`
}

func (h *OrderHandler) OverrideOrderStatus(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing order_id path param"})
	}
	var req overrideReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	o, err := h.uc.Override(c.Request().Context(), orderUC.OverrideInput{
		OrderID: orderID,
		Target:  req.Status,
		ActorID: req.ActorID,
		Reason:  req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

type paymentReq struct {
	InstallmentNumber int    `json:"installment_number" validate:"required,gte=1"`
	ActorID           string `json:"actor_id"           validate:"omitempty,hex32"`
}

func (h *OrderHandler) RecordPayment(c echo.Context) error {
	orderID := c.Param("order_id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing order_id path param"})
	}
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	o, err := h.uc.RecordInstallmentPayment(c.Request().Context(), orderUC.PaymentInput{
		OrderID: orderID,
		Number:  req.InstallmentNumber,
		ActorID: req.ActorID,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}

// writeDomainError maps domain errors onto HTTP codes. Conflicts (invalid
// edge, stale version, set-once collisions) are 409; transient dependency
// failures are 503 so clients know to retry.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, orderDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, orderDomain.ErrInvalidTransition),
		errors.Is(err, orderDomain.ErrConcurrentModification),
		errors.Is(err, orderDomain.ErrResultExists),
		errors.Is(err, orderDomain.ErrTermsExist),
		errors.Is(err, orderDomain.ErrInstallmentPaid),
		errors.Is(err, orderDomain.ErrInstallmentOutOfOrder):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, orderDomain.ErrDependencyUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: err.Error()})
	case errors.Is(err, orderDomain.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
