package dto

import "github.com/shopspring/decimal"

// VendorRequest entrada para crear o actualizar un proveedor.
type VendorRequest struct {
	Name              string           `json:"name" validate:"required,min=1,max=200"`
	ContactPerson     string           `json:"contact_person" validate:"max=200"`
	Phone             string           `json:"phone" validate:"max=50"`
	Address           string           `json:"address"`
	TaxID             string           `json:"tax_id" validate:"max=50"`
	PaymentTerms      string           `json:"payment_terms" validate:"required,oneof=CASH CREDIT HYBRID_SALES_LINKED"`
	CashPercentage    decimal.Decimal  `json:"cash_percentage"`
	CommissionPerUnit decimal.Decimal  `json:"commission_per_unit"`
	CreditLimit       *decimal.Decimal `json:"credit_limit"`
}

// ClientRequest entrada para crear o actualizar un cliente.
type ClientRequest struct {
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	ContactPerson        string          `json:"contact_person" validate:"max=200"`
	Phone                string          `json:"phone" validate:"max=50"`
	GPSLocation          string          `json:"gps_location"`
	Category             string          `json:"category" validate:"max=50"`
	CollectionPeriodDays int             `json:"collection_period_days" validate:"gte=0,lte=365"`
	CreditLimit          decimal.Decimal `json:"credit_limit"`
	IsActive             *bool           `json:"is_active"`
}
