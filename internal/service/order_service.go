package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"filmoteca/internal/apperr"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

// OrderInput is a movie request as submitted by a user.
type OrderInput struct {
	MovieName       string
	MovieYear       *int
	Quality         model.Quality
	AudioPreference model.AudioPreference
	Notes           string
}

// OrderService handles the movie-request lifecycle. Requests start pending;
// administrators either move them freely with UpdateStatus or walk them
// forward with QuickAdvance.
type OrderService interface {
	Create(ctx context.Context, userID uuid.UUID, input OrderInput) (*model.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderWithUser, error)
	List(ctx context.Context, filter repository.OrderFilter) ([]model.OrderWithUser, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, notes *string) error
	QuickAdvance(ctx context.Context, id uuid.UUID) (model.OrderStatus, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
	}
}

// Create validates the enumerations and inserts a pending order.
func (s *orderService) Create(ctx context.Context, userID uuid.UUID, input OrderInput) (*model.Order, error) {
	if input.MovieName == "" {
		return nil, fmt.Errorf("%w: movie name is required", apperr.ErrValidation)
	}
	if !model.ValidQuality(input.Quality) {
		return nil, fmt.Errorf("%w: unknown quality %q", apperr.ErrValidation, input.Quality)
	}
	if !model.ValidAudioPreference(input.AudioPreference) {
		return nil, fmt.Errorf("%w: unknown audio preference %q", apperr.ErrValidation, input.AudioPreference)
	}

	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	order := &model.Order{
		UserID:          userID,
		MovieName:       input.MovieName,
		MovieYear:       input.MovieYear,
		Quality:         input.Quality,
		AudioPreference: input.AudioPreference,
		Status:          model.OrderStatusPending,
		Notes:           input.Notes,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderWithUser, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	joined := s.joinUsers(ctx, []model.Order{*order})
	return &joined[0], nil
}

// List returns orders newest first, each joined with the minimal owner
// projection. The projection is nil when the owner no longer exists.
func (s *orderService) List(ctx context.Context, filter repository.OrderFilter) ([]model.OrderWithUser, error) {
	if filter.Status != "" && !model.ValidOrderStatus(filter.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, filter.Status)
	}
	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.joinUsers(ctx, orders), nil
}

func (s *orderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus sets any status from any status. Free transitions are the
// admin override; the guarded path lives in QuickAdvance.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus, notes *string) error {
	if !model.ValidOrderStatus(status) {
		return fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, status)
	}
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return err
	}

	order.Status = status
	if notes != nil {
		order.Notes = *notes
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}

// QuickAdvance moves an order one step along pending -> processing ->
// completed. Terminal orders are left untouched.
func (s *orderService) QuickAdvance(ctx context.Context, id uuid.UUID) (model.OrderStatus, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return "", err
	}
	if order.Status.Terminal() {
		return order.Status, nil
	}

	order.Status = order.Status.Next()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return "", fmt.Errorf("advance order: %w", err)
	}
	return order.Status, nil
}

func (s *orderService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findOrder(ctx, id); err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (s *orderService) findOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

// joinUsers attaches owner projections, resolving each distinct owner once.
func (s *orderService) joinUsers(ctx context.Context, orders []model.Order) []model.OrderWithUser {
	refs := make(map[uuid.UUID]*model.UserRef, len(orders))
	out := make([]model.OrderWithUser, 0, len(orders))
	for i := range orders {
		userID := orders[i].UserID
		ref, seen := refs[userID]
		if !seen {
			if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
				ref = &model.UserRef{ID: user.ID, Name: user.Name, Email: user.Email}
			}
			refs[userID] = ref
		}
		out = append(out, model.OrderWithUser{Order: orders[i], UserRef: ref})
	}
	return out
}
