package models

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/backoffice-qa/backoffice-e2e/internal/utils"
)

// ProductFormTab is a tab of the Create/Edit Product form, addressed by
// its URL fragment.
type ProductFormTab string

const (
	ProductTabGeneral     ProductFormTab = "general"
	ProductTabInformation ProductFormTab = "information"
	ProductTabAttributes  ProductFormTab = "attributes"
	ProductTabPrices      ProductFormTab = "prices"
	ProductTabOptions     ProductFormTab = "options"
	ProductTabStock       ProductFormTab = "stock"
)

// DefaultProductQuantity is the stock quantity of generated products.
const DefaultProductQuantity = 50

// ProductEntity is an entry of Admin / Catalog.
type ProductEntity struct {
	ID        string          `json:"id,omitempty" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price"`
	SKU       string          `json:"sku" db:"sku"`
	ShortDesc string          `json:"short_description,omitempty"`
	FullDesc  string          `json:"description,omitempty"`
	Quantity  int             `json:"quantity"`
	// Images are paths of local files uploaded with the product.
	Images []string `json:"images,omitempty"`
}

func (p *ProductEntity) EntityID() string       { return p.ID }
func (p *ProductEntity) SetEntityID(id string)  { p.ID = id }
func (p *ProductEntity) EntityType() EntityType { return EntityTypeProduct }

// PriceText renders the price the way the form and table show it.
func (p *ProductEntity) PriceText() string {
	return p.Price.StringFixed(2)
}

func (p *ProductEntity) Payload() Payload {
	fields := url.Values{}
	fields.Set("status", "1")
	fields.Add("categories[]", "0")
	fields.Set("name[en]", p.Name)
	fields.Set("sku", p.SKU)
	fields.Set("prices[USD]", p.PriceText())
	fields.Set("short_description[en]", p.ShortDesc)
	fields.Set("description[en]", p.FullDesc)
	fields.Set("quantity", strconv.Itoa(p.Quantity))

	payload := Payload{Fields: fields}
	for _, img := range p.Images {
		payload.Files = append(payload.Files, FormFile{Param: "new_images[]", Path: img})
	}
	return payload
}

// LookupParams returns id, name, sku and price as shown in the Catalog
// table (price without the currency sign).
func (p *ProductEntity) LookupParams() map[string]string {
	return map[string]string{
		"id":    p.ID,
		"name":  p.Name,
		"sku":   p.SKU,
		"price": p.PriceText(),
	}
}

func (p *ProductEntity) String() string {
	return fmt.Sprintf("ProductEntity(id=%s, name=%q, price=%s, sku=%s, short_desc=%q, full_desc=%q, quantity=%d, images=%v)",
		p.ID, p.Name, p.PriceText(), p.SKU, p.ShortDesc, utils.Truncate(p.FullDesc, 20), p.Quantity, p.Images)
}
