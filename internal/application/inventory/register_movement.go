package inventory

import (
	"context"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement(ctx, MovementInputDTO).
// actor es el usuario autenticado que queda registrado en el movimiento.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, actor string, in dto.RegisterMovementRequest) (*dto.MovementResultResponse, error) {
	input := MovementInputDTO{
		Actor:              actor,
		Type:               entity.MovementType(in.Type),
		ProductID:          in.ProductID,
		Quantity:           in.Quantity,
		UnitCost:           in.UnitCost,
		UnitPrice:          in.UnitPrice,
		WarehouseID:        in.WarehouseID,
		FromWarehouseID:    in.FromWarehouseID,
		ToWarehouseID:      in.ToWarehouseID,
		ReferenceDocID:     in.ReferenceDocID,
		VendorID:           in.VendorID,
		ClientID:           in.ClientID,
		DepartmentID:       in.DepartmentID,
		CountedQuantity:    in.CountedQuantity,
		EnforceCreditLimit: in.EnforceCreditLimit,
	}
	res, err := uc.RegisterMovement(ctx, input)
	if err != nil {
		return nil, err
	}
	return ToMovementResultResponse(res), nil
}

// ToMovementResultResponse convierte el resultado del caso de uso al DTO de salida.
func ToMovementResultResponse(res *MovementResult) *dto.MovementResultResponse {
	return &dto.MovementResultResponse{
		Movement:            res.Movement,
		Positions:           res.Positions,
		Transaction:         res.Transaction,
		NewBalance:          res.NewBalance,
		CashPayment:         res.CashPayment,
		BudgetExceeded:      res.BudgetExceeded,
		DepartmentSpend:     res.DepartmentSpend,
		CreditLimitExceeded: res.CreditLimitExceeded,
	}
}
