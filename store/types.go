// Package store holds the sample types the fixturegen command resolves rule
// files against, and that the package examples use.
package store

import (
	"reflect"
	"time"
)

// Product is an individual item available for sale.
// Prices are int64 cents.
type Product struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Inventory   int       `json:"inventory_count"`
	Category    *Category `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category nests arbitrarily deep; node trees stop at their max depth.
type Category struct {
	Name   string    `json:"name"`
	Parent *Category `json:"parent,omitempty"`
}

// Address is a shipping or billing address.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Customer places orders.
type Customer struct {
	ID       int64    `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	Address  *Address `json:"address"`
	IsActive bool     `json:"is_active"`
	tier     string
}

// SetTier assigns the loyalty tier; it has no exported field.
func (c *Customer) SetTier(tier string) { c.tier = tier }

// Tier returns the loyalty tier.
func (c *Customer) Tier() string { return c.tier }

// Order is a transaction made by a customer.
type Order struct {
	ID              int64             `json:"id"`
	Customer        Customer          `json:"customer"`
	Status          OrderStatus       `json:"status"`
	TotalCents      int64             `json:"total_cents"`
	Items           []OrderItem       `json:"items"`
	Payment         Payment           `json:"payment"`
	ShippingAddress Address           `json:"shipping_address"`
	BillingAddress  *Address          `json:"billing_address"`
	Tags            map[string]string `json:"tags"`
	OrderedAt       time.Time         `json:"ordered_at"`
}

// OrderItem is a product line within an order. It snapshots the price at
// the time of purchase.
type OrderItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice int64   `json:"unit_price"`
}

// OrderStatus is a custom type for type-safe status handling.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Payment is settled by one of the concrete payment types.
type Payment interface {
	AmountCents() int64
}

// Card is a card payment.
type Card struct {
	Number string `json:"number"`
	Amount int64  `json:"amount"`
}

func (c Card) AmountCents() int64 { return c.Amount }

// Transfer is a bank transfer.
type Transfer struct {
	IBAN      string    `json:"iban"`
	Amount    int64     `json:"amount"`
	Reference string    `json:"reference"`
	BookedAt  time.Time `json:"booked_at"`
}

func (t Transfer) AmountCents() int64 { return t.Amount }

// Types lists the sample types by the name rule files use for them.
func Types() map[string]reflect.Type {
	return map[string]reflect.Type{
		"Product":   reflect.TypeFor[Product](),
		"Category":  reflect.TypeFor[Category](),
		"Address":   reflect.TypeFor[Address](),
		"Customer":  reflect.TypeFor[Customer](),
		"Order":     reflect.TypeFor[Order](),
		"OrderItem": reflect.TypeFor[OrderItem](),
		"Payment":   reflect.TypeFor[Payment](),
		"Card":      reflect.TypeFor[Card](),
		"Transfer":  reflect.TypeFor[Transfer](),
	}
}
