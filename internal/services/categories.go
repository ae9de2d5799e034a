package services

import (
	"context"
	"errors"

	"finanzas/internal/apperror"
	"finanzas/internal/core"
	"finanzas/internal/records"
)

// CategoryService edits the category registry through the settings store.
// Every mutation loads the registry, applies the change and writes it back.
type CategoryService struct {
	settings records.SettingsStore
}

func NewCategoryService(settings records.SettingsStore) *CategoryService {
	return &CategoryService{settings: settings}
}

func (s *CategoryService) Registry(ctx context.Context) (*core.Registry, error) {
	registry, err := s.settings.LoadRegistry(ctx)
	if err != nil {
		return nil, apperror.Storage("load categories", err)
	}
	return registry, nil
}

func (s *CategoryService) Add(ctx context.Context, label, icon string) (string, error) {
	registry, err := s.Registry(ctx)
	if err != nil {
		return "", err
	}
	key, err := registry.Add(label, icon)
	if err != nil {
		return "", categoryError(err)
	}
	if err := s.settings.SaveRegistry(ctx, registry); err != nil {
		return "", apperror.Storage("save categories", err)
	}
	return key, nil
}

func (s *CategoryService) Update(ctx context.Context, key, label, icon string) error {
	registry, err := s.Registry(ctx)
	if err != nil {
		return err
	}
	if err := registry.Update(key, label, icon); err != nil {
		return categoryError(err)
	}
	if err := s.settings.SaveRegistry(ctx, registry); err != nil {
		return apperror.Storage("save categories", err)
	}
	return nil
}

// Remove deletes the category mapping. Transactions referencing the key stay
// untouched; they show the raw key as their label from then on.
func (s *CategoryService) Remove(ctx context.Context, key string) error {
	registry, err := s.Registry(ctx)
	if err != nil {
		return err
	}
	if err := registry.Remove(key); err != nil {
		return categoryError(err)
	}
	if err := s.settings.SaveRegistry(ctx, registry); err != nil {
		return apperror.Storage("save categories", err)
	}
	return nil
}

func categoryError(err error) error {
	if errors.Is(err, core.ErrCategoryNotFound) {
		return apperror.NotFound(err.Error())
	}
	return apperror.Validation(err.Error())
}
