package finance

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/finance"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// AgingAnalyzer deriva alertas de cobranza y tramos de antigüedad a partir del historial de clientes.
// Nada de lo que calcula se persiste.
type AgingAnalyzer struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewAgingAnalyzer construye el analizador.
func NewAgingAnalyzer(txRunner TxRunner) *AgingAnalyzer {
	return &AgingAnalyzer{txRunner: txRunner, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock reemplaza el reloj (tests).
func (a *AgingAnalyzer) WithClock(now func() time.Time) *AgingAnalyzer {
	a.now = now
	return a
}

// overdueInvoice factura de cliente vencida con su saldo pendiente.
type overdueInvoice struct {
	invoice     *entity.FinancialTransaction
	outstanding decimal.Decimal
	daysOverdue int
}

// overdueInvoices facturas de cliente sin PaidDate con vencimiento pasado (daysOverdue > 0).
// clientID vacío considera todos los clientes.
func overdueInvoices(tx repository.Tx, clientID string, today time.Time) ([]overdueInvoice, error) {
	history, err := tx.Transactions().List(repository.TransactionFilter{
		EntityType: entity.EntityTypeClient,
		EntityID:   clientID,
	})
	if err != nil {
		return nil, err
	}
	settlements := make(map[string][]*entity.FinancialTransaction)
	for _, t := range history {
		if t.Type.IsSettlement() && t.ReferenceDocID != "" {
			settlements[t.ReferenceDocID] = append(settlements[t.ReferenceDocID], t)
		}
	}
	var out []overdueInvoice
	for _, t := range history {
		if !t.IsInvoice() || t.IsPaid() || t.DueDate == nil {
			continue
		}
		days := finance.DaysOverdue(today, *t.DueDate)
		if days <= 0 {
			continue
		}
		outstanding := finance.Outstanding(t, settlements[t.ID])
		if outstanding.IsZero() {
			continue
		}
		out = append(out, overdueInvoice{invoice: t, outstanding: outstanding, daysOverdue: days})
	}
	return out, nil
}

// Alerts alertas de cobranza ordenadas por días vencidos descendente
// (empates: vencimiento más antiguo primero, luego ID).
func (a *AgingAnalyzer) Alerts(ctx context.Context) ([]entity.CollectionAlert, error) {
	var alerts []entity.CollectionAlert
	err := a.txRunner.Run(ctx, func(tx repository.Tx) error {
		overdue, err := overdueInvoices(tx, "", a.now())
		if err != nil {
			return err
		}
		balances := make(map[string]decimal.Decimal)
		alerts = make([]entity.CollectionAlert, 0, len(overdue))
		for _, o := range overdue {
			bal, ok := balances[o.invoice.EntityID]
			if !ok {
				if c, err := tx.Clients().GetByID(o.invoice.EntityID); err == nil {
					bal = c.CurrentBalance
				}
				balances[o.invoice.EntityID] = bal
			}
			alerts = append(alerts, entity.CollectionAlert{
				ID:             o.invoice.ID,
				ClientID:       o.invoice.EntityID,
				ClientName:     o.invoice.EntityName,
				InvoiceID:      o.invoice.ID,
				ReferenceDocID: o.invoice.ReferenceDocID,
				InvoiceDate:    o.invoice.TransactionDate,
				DueDate:        *o.invoice.DueDate,
				Amount:         o.outstanding,
				DaysOverdue:    o.daysOverdue,
				CurrentBalance: bal,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].DaysOverdue != alerts[j].DaysOverdue {
			return alerts[i].DaysOverdue > alerts[j].DaysOverdue
		}
		if !alerts[i].DueDate.Equal(alerts[j].DueDate) {
			return alerts[i].DueDate.Before(alerts[j].DueDate)
		}
		return alerts[i].ID < alerts[j].ID
	})
	return alerts, nil
}

// AgingReport suma el saldo vencido por tramo. Los tramos particionan el total vencido.
func (a *AgingAnalyzer) AgingReport(ctx context.Context) (finance.AgingBuckets, error) {
	buckets := finance.AgingBuckets{Days0To30: decimal.Zero, Days31To60: decimal.Zero, Days61Plus: decimal.Zero}
	alerts, err := a.Alerts(ctx)
	if err != nil {
		return buckets, err
	}
	for _, al := range alerts {
		buckets.Add(al.DaysOverdue, al.Amount)
	}
	return buckets, nil
}

// HasOverdue indica si el cliente tiene al menos una factura vencida.
func (a *AgingAnalyzer) HasOverdue(ctx context.Context, clientID string) (bool, error) {
	var has bool
	err := a.txRunner.Run(ctx, func(tx repository.Tx) error {
		overdue, err := overdueInvoices(tx, clientID, a.now())
		has = len(overdue) > 0
		return err
	})
	return has, err
}

// Summary resumen financiero del tablero.
type Summary struct {
	TotalPayables    decimal.Decimal
	TotalReceivables decimal.Decimal
	NetPosition      decimal.Decimal
	OverdueCount     int
	OverdueAmount    decimal.Decimal
}

// Summary cuentas por pagar, por cobrar, posición neta y cartera vencida.
func (a *AgingAnalyzer) Summary(ctx context.Context) (*Summary, error) {
	out := &Summary{TotalPayables: decimal.Zero, TotalReceivables: decimal.Zero, OverdueAmount: decimal.Zero}
	err := a.txRunner.Run(ctx, func(tx repository.Tx) error {
		vendors, err := tx.Vendors().List(0, 0)
		if err != nil {
			return err
		}
		for _, v := range vendors {
			out.TotalPayables = out.TotalPayables.Add(v.CurrentBalance)
		}
		clients, err := tx.Clients().List(0, 0)
		if err != nil {
			return err
		}
		for _, c := range clients {
			out.TotalReceivables = out.TotalReceivables.Add(c.CurrentBalance)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	alerts, err := a.Alerts(ctx)
	if err != nil {
		return nil, err
	}
	for _, al := range alerts {
		out.OverdueAmount = out.OverdueAmount.Add(al.Amount)
	}
	out.OverdueCount = len(alerts)
	out.NetPosition = out.TotalReceivables.Sub(out.TotalPayables)
	return out, nil
}
