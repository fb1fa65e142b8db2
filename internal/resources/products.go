package resources

import (
	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/query"
)

type CreateProduct struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Price       *float64 `json:"price" validate:"required,min=0"`
	Currency    string   `json:"currency"`
	Stock       *float64 `json:"stock" validate:"required,min=0"`
	SKU         string   `json:"sku"`
	Brand       string   `json:"brand" validate:"required"`
	ImageURL    string   `json:"imageUrl"`
	Tags        []string `json:"tags"`
	Active      *bool    `json:"active"`
}

type UpdateProduct struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price" validate:"omitempty,min=0"`
	Currency    *string   `json:"currency"`
	Stock       *float64  `json:"stock" validate:"omitempty,min=0"`
	SKU         *string   `json:"sku"`
	Brand       *string   `json:"brand"`
	ImageURL    *string   `json:"imageUrl"`
	Tags        *[]string `json:"tags"`
	Active      *bool     `json:"active"`
}

func createProduct(body []byte) (models.Record, error) {
	var dto CreateProduct
	if err := decodeBody(body, &dto); err != nil {
		return nil, err
	}
	if err := apierr.Validate(dto); err != nil {
		return nil, err
	}

	currency := dto.Currency
	if currency == "" {
		currency = "USD"
	}
	active := true
	if dto.Active != nil {
		active = *dto.Active
	}
	tags := make([]any, 0, len(dto.Tags))
	for _, t := range dto.Tags {
		tags = append(tags, t)
	}

	r := models.Record{
		"name":        dto.Name,
		"description": dto.Description,
		"category":    dto.Category,
		"price":       *dto.Price,
		"currency":    currency,
		"stock":       *dto.Stock,
		"brand":       dto.Brand,
		"rating":      float64(0),
		"reviews":     float64(0),
		"tags":        tags,
		"active":      active,
	}
	if dto.SKU != "" {
		r["sku"] = dto.SKU
	}
	if dto.ImageURL != "" {
		r["imageUrl"] = dto.ImageURL
	}
	return r, nil
}

func updateProduct(body []byte) (models.Record, error) {
	return patchFrom(body, &UpdateProduct{})
}

var Products = Entity{
	Name:    "Product",
	Profile: query.Products,
	Create:  createProduct,
	Update:  updateProduct,
}
