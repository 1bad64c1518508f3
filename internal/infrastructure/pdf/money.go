package pdf

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// moneyFormatter imprime montos con separadores locales (es-CO: 1.234.567,89).
type moneyFormatter struct {
	p *message.Printer
}

func newMoneyFormatter() *moneyFormatter {
	return &moneyFormatter{p: message.NewPrinter(language.MustParse("es-CO"))}
}

// format monto con dos decimales y prefijo $.
func (f *moneyFormatter) format(d decimal.Decimal) string {
	v, _ := d.Round(2).Float64()
	return f.p.Sprintf("$%v", number.Decimal(v, number.Scale(2)))
}
