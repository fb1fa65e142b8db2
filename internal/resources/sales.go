package resources

import (
	"math"
	"strings"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/query"
	"github.com/google/uuid"
)

const (
	SaleTaxRate  = 0.10
	SaleShipping = 15.00
)

var SaleStatuses = []string{"pending", "processing", "shipped", "delivered", "cancelled"}

type SaleItemInput struct {
	ProductID   string   `json:"productId" validate:"required"`
	ProductName string   `json:"productName" validate:"required"`
	Quantity    float64  `json:"quantity" validate:"min=1"`
	UnitPrice   *float64 `json:"unitPrice" validate:"required,min=0"`
}

type ShippingAddressInput struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"required"`
	Country string `json:"country" validate:"required"`
}

type CreateSale struct {
	UserID          string                `json:"userId" validate:"required"`
	CustomerName    string                `json:"customerName" validate:"required"`
	CustomerEmail   string                `json:"customerEmail" validate:"required"`
	Items           []SaleItemInput       `json:"items" validate:"required,min=1,dive"`
	PaymentMethod   string                `json:"paymentMethod"`
	ShippingAddress *ShippingAddressInput `json:"shippingAddress" validate:"required"`
	Currency        string                `json:"currency"`
}

type UpdateSale struct {
	Status        *string `json:"status" validate:"omitempty,oneof=pending processing shipped delivered cancelled"`
	PaymentMethod *string `json:"paymentMethod"`
	CustomerName  *string `json:"customerName"`
	CustomerEmail *string `json:"customerEmail"`
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func createSale(body []byte) (models.Record, error) {
	var dto CreateSale
	if err := decodeBody(body, &dto); err != nil {
		return nil, err
	}
	if err := apierr.Validate(dto); err != nil {
		return nil, err
	}

	items := make([]any, 0, len(dto.Items))
	subtotal := 0.0
	for _, it := range dto.Items {
		lineTotal := roundCents(it.Quantity * *it.UnitPrice)
		subtotal += lineTotal
		items = append(items, map[string]any{
			"productId":   it.ProductID,
			"productName": it.ProductName,
			"quantity":    it.Quantity,
			"unitPrice":   *it.UnitPrice,
			"total":       lineTotal,
		})
	}
	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * SaleTaxRate)

	paymentMethod := dto.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "credit_card"
	}
	currency := dto.Currency
	if currency == "" {
		currency = "USD"
	}

	addr := dto.ShippingAddress
	return models.Record{
		"orderId":       "ORD-" + strings.ToUpper(uuid.NewString()[:8]),
		"userId":        dto.UserID,
		"customerName":  dto.CustomerName,
		"customerEmail": dto.CustomerEmail,
		"status":        "pending",
		"items":         items,
		"subtotal":      subtotal,
		"tax":           tax,
		"shipping":      SaleShipping,
		"total":         roundCents(subtotal + tax + SaleShipping),
		"currency":      currency,
		"paymentMethod": paymentMethod,
		"shippingAddress": map[string]any{
			"street":  addr.Street,
			"city":    addr.City,
			"state":   addr.State,
			"zipCode": addr.ZipCode,
			"country": addr.Country,
		},
	}, nil
}

func updateSale(body []byte) (models.Record, error) {
	return patchFrom(body, &UpdateSale{})
}

var Sales = Entity{
	Name:    "Sale",
	Profile: query.Sales,
	Create:  createSale,
	Update:  updateSale,
}
