package usecase

import (
	"context"
	"errors"

	"github.com/kayacancode/voice-network/pkg/domain/interfaces"
	"github.com/kayacancode/voice-network/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// MemoryUseCase looks up and removes individual memories outside the
// capture and recall loop
type MemoryUseCase struct {
	repo interfaces.Repository
}

func NewMemoryUseCase(repo interfaces.Repository) *MemoryUseCase {
	return &MemoryUseCase{
		repo: repo,
	}
}

func (uc *MemoryUseCase) GetMemory(ctx context.Context, id model.MemoryID) (*model.Memory, error) {
	if id == "" {
		return nil, goerr.Wrap(ErrMemoryNotFound, "memory ID is empty")
	}

	memory, err := uc.repo.Memory().Get(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, goerr.Wrap(ErrMemoryNotFound, "memory not found", goerr.V(model.MemoryIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V(model.MemoryIDKey, id))
	}

	return memory, nil
}

func (uc *MemoryUseCase) DeleteMemory(ctx context.Context, id model.MemoryID) error {
	if id == "" {
		return goerr.Wrap(ErrMemoryNotFound, "memory ID is empty")
	}

	if err := uc.repo.Memory().Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return goerr.Wrap(ErrMemoryNotFound, "memory not found", goerr.V(model.MemoryIDKey, id))
		}
		return goerr.Wrap(err, "failed to delete memory", goerr.V(model.MemoryIDKey, id))
	}

	return nil
}
