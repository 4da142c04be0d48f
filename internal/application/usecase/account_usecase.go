package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Contabilidad-api/internal/application/dto"
	"github.com/jhoicas/Contabilidad-api/internal/domain"
	"github.com/jhoicas/Contabilidad-api/internal/domain/entity"
	"github.com/jhoicas/Contabilidad-api/internal/domain/repository"
)

// AccountUseCase casos de uso del plan de cuentas.
type AccountUseCase struct {
	repo repository.AccountRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(repo repository.AccountRepository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// Create crea una cuenta. El código es único.
func (uc *AccountUseCase) Create(ctx context.Context, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || !entity.ValidAccountType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	acc := &entity.Account{
		Code:      code,
		Name:      strings.TrimSpace(in.Name),
		Type:      in.Type,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, acc); err != nil {
		return nil, err
	}
	return toAccountResponse(acc), nil
}

// GetByID obtiene una cuenta; ErrNotFound si no existe.
func (uc *AccountUseCase) GetByID(ctx context.Context, id int64) (*dto.AccountResponse, error) {
	acc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return toAccountResponse(acc), nil
}

// List lista cuentas paginadas.
func (uc *AccountUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.AccountListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAccountResponse(a))
	}
	return &dto.AccountListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      a.Type,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toAccountRef(a *entity.Account) *dto.AccountRef {
	if a == nil {
		return nil
	}
	return &dto.AccountRef{ID: a.ID, Code: a.Code, Name: a.Name}
}
