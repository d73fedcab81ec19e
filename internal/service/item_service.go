package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

type ItemService struct {
	enricher
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(repo domain.Repository, cache domain.ProjectionCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{
		enricher: enricher{repo: repo, cache: cache},
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *ItemService) CreateItem(ctx context.Context, item *models.Item) (*models.ItemResponse, error) {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)

	if err := validateItemFields(item.Name, item.Description); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetUserByID(ctx, item.OwnerID); err != nil {
		return nil, err
	}
	if item.RequestID != 0 {
		if _, err := s.repo.GetItemRequestByID(ctx, item.RequestID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.cacheProjection(ctx, item)
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", item.OwnerID).Msg("Item created")
	return s.buildResponse(ctx, item, false)
}

func (s *ItemService) UpdateItem(ctx context.Context, itemID, ownerID int64, patch models.ItemPatch) (*models.ItemResponse, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: user %d does not own item %d", domain.ErrAccessDenied, ownerID, itemID)
	}

	if patch.Name != nil {
		item.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}

	if err := validateItemFields(item.Name, item.Description); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.cacheProjection(ctx, item)
	s.logger.Info().Int64("item_id", item.ID).Msg("Item updated")
	return s.buildResponse(ctx, item, true)
}

// GetItemByID returns the item view. Last and next bookings are attached
// only when the caller owns the item.
func (s *ItemService) GetItemByID(ctx context.Context, itemID, userID int64) (*models.ItemResponse, error) {
	item, err := s.repo.GetItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, item, item.OwnerID == userID)
}

func (s *ItemService) GetItemsByOwner(ctx context.Context, ownerID int64) ([]*models.ItemResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ItemResponse, 0, len(items))
	for _, item := range items {
		response, err := s.buildResponse(ctx, item, true)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// SearchItems finds available items matching the text. A blank query yields
// an empty result, not an error.
func (s *ItemService) SearchItems(ctx context.Context, text string, userID int64) ([]*models.ItemResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*models.ItemResponse{}, nil
	}

	items, err := s.repo.SearchAvailableItems(ctx, text)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.ItemResponse, 0, len(items))
	for _, item := range items {
		response, err := s.buildResponse(ctx, item, item.OwnerID == userID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// AddComment records feedback on an item. Only a user whose approved booking
// of the item already ended may comment.
func (s *ItemService) AddComment(ctx context.Context, itemID, authorID int64, text string) (*models.CommentResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text must not be blank", domain.ErrInvalidInput)
	}

	author, err := s.repo.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetItemByID(ctx, itemID); err != nil {
		return nil, err
	}

	used, err := s.repo.HasFinishedBooking(ctx, authorID, itemID, time.Now())
	if err != nil {
		return nil, err
	}
	if !used {
		return nil, domain.ErrCommentNotAllowed
	}

	comment := &models.Comment{ItemID: itemID, AuthorID: authorID, Text: text}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventCommentAdded, comment)
	}
	s.logger.Info().Int64("item_id", itemID).Int64("author_id", authorID).Msg("Comment added")

	return &models.CommentResponse{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: author.Name,
		CreatedAt:  comment.CreatedAt,
	}, nil
}

func (s *ItemService) buildResponse(ctx context.Context, item *models.Item, forOwner bool) (*models.ItemResponse, error) {
	owner, err := s.userSimple(ctx, item.OwnerID)
	if err != nil {
		return nil, err
	}

	response := &models.ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		Owner:       owner,
		RequestID:   item.RequestID,
		Comments:    []models.CommentResponse{},
	}

	comments, err := s.repo.GetCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		response.Comments = append(response.Comments, *c)
	}

	if forOwner {
		now := time.Now()
		last, err := s.repo.GetLastBooking(ctx, item.ID, now)
		if err != nil {
			return nil, err
		}
		if last != nil {
			response.LastBooking = &models.BookingSimple{StartDate: last.StartDate, EndDate: last.EndDate}
		}

		next, err := s.repo.GetNextBooking(ctx, item.ID, now)
		if err != nil {
			return nil, err
		}
		if next != nil {
			response.NextBooking = &models.BookingSimple{StartDate: next.StartDate, EndDate: next.EndDate}
		}
	}

	return response, nil
}

func (s *ItemService) cacheProjection(ctx context.Context, item *models.Item) {
	if s.cache == nil {
		return
	}
	simple := item.Simple()
	if err := s.cache.SetItem(ctx, &simple); err != nil {
		s.logger.Warn().Err(err).Int64("item_id", item.ID).Msg("Failed to cache item projection")
	}
}

func validateItemFields(name, description string) error {
	if name == "" {
		return fmt.Errorf("%w: item name must not be blank", domain.ErrInvalidInput)
	}
	if description == "" {
		return fmt.Errorf("%w: item description must not be blank", domain.ErrInvalidInput)
	}
	return nil
}
