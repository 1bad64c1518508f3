package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTerms política de pago de un proveedor.
type PaymentTerms string

const (
	PaymentTermsCash   PaymentTerms = "CASH"                // pago inmediato, no genera saldo
	PaymentTermsCredit PaymentTerms = "CREDIT"              // todo el monto al saldo
	PaymentTermsHybrid PaymentTerms = "HYBRID_SALES_LINKED" // parte en efectivo, resto al saldo
)

// IsValid indica si la política es una de las reconocidas.
func (t PaymentTerms) IsValid() bool {
	switch t {
	case PaymentTermsCash, PaymentTermsCredit, PaymentTermsHybrid:
		return true
	}
	return false
}

// EntityType tipo de contraparte de una transacción financiera.
type EntityType string

const (
	EntityTypeVendor EntityType = "VENDOR"
	EntityTypeClient EntityType = "CLIENT"
)

// IsValid indica si el tipo es uno de los reconocidos.
func (t EntityType) IsValid() bool {
	return t == EntityTypeVendor || t == EntityTypeClient
}

// Vendor proveedor. CurrentBalance es lo que la empresa le debe.
type Vendor struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	ContactPerson     string           `json:"contact_person,omitempty"`
	Phone             string           `json:"phone,omitempty"`
	Address           string           `json:"address,omitempty"`
	TaxID             string           `json:"tax_id,omitempty"`
	PaymentTerms      PaymentTerms     `json:"payment_terms"`
	CashPercentage    decimal.Decimal  `json:"cash_percentage"`     // HYBRID: % pagado en efectivo
	CommissionPerUnit decimal.Decimal  `json:"commission_per_unit"` // HYBRID: pago ligado a unidades vendidas
	CreditLimit       *decimal.Decimal `json:"credit_limit,omitempty"`
	CurrentBalance    decimal.Decimal  `json:"current_balance"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Client cliente. CurrentBalance es lo que el cliente le debe a la empresa.
type Client struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	ContactPerson        string          `json:"contact_person,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	GPSLocation          string          `json:"gps_location,omitempty"`
	Category             string          `json:"category,omitempty"` // Retail, Wholesale...
	CollectionPeriodDays int             `json:"collection_period_days"`
	CreditLimit          decimal.Decimal `json:"credit_limit"`
	CurrentBalance       decimal.Decimal `json:"current_balance"`
	IsActive             bool            `json:"is_active"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
