package inventory

import "github.com/shopspring/decimal"

// CostPrecision decimales de los montos derivados del costo (redondeo bancario).
// El costo promedio almacenado no se redondea; se redondea al presentarlo o al valorizar.
const CostPrecision int32 = 2

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si la cantidad total es cero o negativa el costo es 0. El resultado conserva la precisión completa.
func CostCalculator(stockActual int64, costoActual decimal.Decimal, cantEntrada int64, costoEntrada decimal.Decimal) decimal.Decimal {
	num := decimal.NewFromInt(stockActual).Mul(costoActual).
		Add(decimal.NewFromInt(cantEntrada).Mul(costoEntrada))
	return AverageFromValue(num, stockActual+cantEntrada)
}

// AverageFromValue costo promedio a partir del valor total de inventario. 0 si no hay existencias.
func AverageFromValue(value decimal.Decimal, qty int64) decimal.Decimal {
	if qty <= 0 {
		return decimal.Zero
	}
	return value.Div(decimal.NewFromInt(qty))
}

// ShareOfValue parte del valor de inventario que corresponde a qty de onHand unidades.
// Retirar todas las existencias devuelve el valor completo.
func ShareOfValue(value decimal.Decimal, onHand, qty int64) decimal.Decimal {
	if qty <= 0 || onHand <= 0 {
		return decimal.Zero
	}
	if qty >= onHand {
		return value
	}
	return value.Mul(decimal.NewFromInt(qty)).Div(decimal.NewFromInt(onHand))
}

// RoundMoney aplica la política de redondeo uniforme (2 decimales, redondeo bancario).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(CostPrecision)
}

// ExtendedCost cantidad * costo unitario, redondeado.
func ExtendedCost(qty int64, unitCost decimal.Decimal) decimal.Decimal {
	return RoundMoney(decimal.NewFromInt(qty).Mul(unitCost))
}
