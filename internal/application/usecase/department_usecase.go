package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/nexus-ledger/internal/application/dto"
	"github.com/jhoicas/nexus-ledger/internal/domain"
	"github.com/jhoicas/nexus-ledger/internal/domain/entity"
	"github.com/jhoicas/nexus-ledger/internal/domain/repository"
)

// DepartmentUseCase administra los centros de costo que consumen inventario interno.
type DepartmentUseCase struct {
	txRunner TxRunner
}

// NewDepartmentUseCase construye el caso de uso.
func NewDepartmentUseCase(txRunner TxRunner) *DepartmentUseCase {
	return &DepartmentUseCase{txRunner: txRunner}
}

// Create crea un departamento. BudgetCap <= 0 significa sin tope mensual.
func (uc *DepartmentUseCase) Create(ctx context.Context, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.CostCenterCode) == "" {
		return nil, domain.ErrInvalidInput
	}
	department := &entity.Department{
		ID:             uuid.New().String(),
		Name:           in.Name,
		CostCenterCode: in.CostCenterCode,
		BudgetCap:      in.BudgetCap,
		CreatedAt:      time.Now().UTC(),
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Departments().Create(department)
	})
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(department), nil
}

// GetByID obtiene un departamento por ID.
func (uc *DepartmentUseCase) GetByID(ctx context.Context, id string) (*dto.DepartmentResponse, error) {
	var department *entity.Department
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		department, err = tx.Departments().GetByID(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(department), nil
}

// Update actualiza nombre, código o tope de presupuesto.
func (uc *DepartmentUseCase) Update(ctx context.Context, id string, in dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	var department *entity.Department
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		department, err = tx.Departments().GetByID(id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			department.Name = *in.Name
		}
		if in.CostCenterCode != nil {
			department.CostCenterCode = *in.CostCenterCode
		}
		if in.BudgetCap != nil {
			department.BudgetCap = *in.BudgetCap
		}
		return tx.Departments().Update(department)
	})
	if err != nil {
		return nil, err
	}
	return toDepartmentResponse(department), nil
}

// List lista los departamentos.
func (uc *DepartmentUseCase) List(ctx context.Context, limit, offset int) ([]dto.DepartmentResponse, error) {
	var list []*entity.Department
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		list, err = tx.Departments().List(limit, offset)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toDepartmentResponse(d))
	}
	return out, nil
}

func toDepartmentResponse(d *entity.Department) *dto.DepartmentResponse {
	if d == nil {
		return nil
	}
	return &dto.DepartmentResponse{
		ID:             d.ID,
		Name:           d.Name,
		CostCenterCode: d.CostCenterCode,
		BudgetCap:      d.BudgetCap,
		CreatedAt:      d.CreatedAt,
	}
}
