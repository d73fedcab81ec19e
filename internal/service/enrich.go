package service

import (
	"context"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// enricher resolves user and item projections through the cache, falling back
// to the store and repopulating the cache on a miss.
type enricher struct {
	repo  domain.Repository
	cache domain.ProjectionCache
}

func (e *enricher) userSimple(ctx context.Context, id int64) (models.UserSimple, error) {
	if e.cache != nil {
		if cached, err := e.cache.GetUser(ctx, id); err == nil && cached != nil {
			return *cached, nil
		}
	}

	user, err := e.repo.GetUserByID(ctx, id)
	if err != nil {
		return models.UserSimple{}, err
	}

	simple := user.Simple()
	if e.cache != nil {
		_ = e.cache.SetUser(ctx, &simple)
	}
	return simple, nil
}

func (e *enricher) itemSimple(ctx context.Context, id int64) (models.ItemSimple, error) {
	if e.cache != nil {
		if cached, err := e.cache.GetItem(ctx, id); err == nil && cached != nil {
			return *cached, nil
		}
	}

	item, err := e.repo.GetItemByID(ctx, id)
	if err != nil {
		return models.ItemSimple{}, err
	}

	simple := item.Simple()
	if e.cache != nil {
		_ = e.cache.SetItem(ctx, &simple)
	}
	return simple, nil
}
