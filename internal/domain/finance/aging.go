package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Etiquetas de los tramos de antigüedad.
const (
	Bucket0To30  = "0-30"
	Bucket31To60 = "31-60"
	Bucket61Plus = "61+"
)

const day = 24 * time.Hour

// DueDateFrom fecha de vencimiento de una factura de cliente: fecha de la transacción + días de cobro (precisión de día).
func DueDateFrom(transactionDate time.Time, collectionPeriodDays int) time.Time {
	return truncateDay(transactionDate).AddDate(0, 0, collectionPeriodDays)
}

// DaysOverdue floor((hoy - vencimiento) / 1 día). Puede ser cero o negativo si no está vencida.
func DaysOverdue(today, dueDate time.Time) int {
	diff := today.UTC().Sub(dueDate.UTC())
	days := int(diff / day)
	if diff < 0 && diff%day != 0 {
		days-- // floor para valores negativos
	}
	return days
}

// BucketFor tramo de antigüedad para un número de días vencidos (> 0).
func BucketFor(daysOverdue int) string {
	switch {
	case daysOverdue <= 30:
		return Bucket0To30
	case daysOverdue <= 60:
		return Bucket31To60
	default:
		return Bucket61Plus
	}
}

// AgingBuckets montos vencidos por tramo. Los tres tramos particionan el total vencido.
type AgingBuckets struct {
	Days0To30  decimal.Decimal `json:"0-30"`
	Days31To60 decimal.Decimal `json:"31-60"`
	Days61Plus decimal.Decimal `json:"61+"`
}

// Add suma un monto en el tramo correspondiente.
func (b *AgingBuckets) Add(daysOverdue int, amount decimal.Decimal) {
	switch BucketFor(daysOverdue) {
	case Bucket0To30:
		b.Days0To30 = b.Days0To30.Add(amount)
	case Bucket31To60:
		b.Days31To60 = b.Days31To60.Add(amount)
	default:
		b.Days61Plus = b.Days61Plus.Add(amount)
	}
}

// Total suma de los tres tramos.
func (b AgingBuckets) Total() decimal.Decimal {
	return b.Days0To30.Add(b.Days31To60).Add(b.Days61Plus)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
