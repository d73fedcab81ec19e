package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

type RequestService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewRequestService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *RequestService {
	return &RequestService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequestResponse, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, fmt.Errorf("%w: request description must not be blank", domain.ErrInvalidInput)
	}

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{Description: description, RequestorID: userID}
	if err := s.repo.CreateItemRequest(ctx, request); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventRequestCreated, request)
	}
	s.logger.Info().Int64("request_id", request.ID).Int64("user_id", userID).Msg("Item request created")

	return &models.ItemRequestResponse{
		ID:          request.ID,
		Description: request.Description,
		CreatedAt:   request.CreatedAt,
		Items:       []models.ItemInRequest{},
	}, nil
}

// GetUserRequests lists the caller's own requests, newest first, with the
// items offered in answer.
func (s *RequestService) GetUserRequests(ctx context.Context, userID int64) ([]*models.ItemRequestResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetItemRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, requests)
}

// GetAllRequests lists requests created by other users.
func (s *RequestService) GetAllRequests(ctx context.Context, userID int64) ([]*models.ItemRequestResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.GetItemRequestsFromOthers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildResponses(ctx, requests)
}

func (s *RequestService) GetRequestByID(ctx context.Context, requestID, userID int64) (*models.ItemRequestResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	request, err := s.repo.GetItemRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.buildResponse(ctx, request)
}

func (s *RequestService) buildResponse(ctx context.Context, request *models.ItemRequest) (*models.ItemRequestResponse, error) {
	items, err := s.repo.GetItemsByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	response := &models.ItemRequestResponse{
		ID:          request.ID,
		Description: request.Description,
		CreatedAt:   request.CreatedAt,
		Items:       make([]models.ItemInRequest, 0, len(items)),
	}
	for _, item := range items {
		response.Items = append(response.Items, models.ItemInRequest{
			ID:      item.ID,
			Name:    item.Name,
			OwnerID: item.OwnerID,
		})
	}
	return response, nil
}

func (s *RequestService) buildResponses(ctx context.Context, requests []*models.ItemRequest) ([]*models.ItemRequestResponse, error) {
	responses := make([]*models.ItemRequestResponse, 0, len(requests))
	for _, request := range requests {
		response, err := s.buildResponse(ctx, request)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, nil
}
