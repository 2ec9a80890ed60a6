package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"filmoteca/internal/apperr"
	"filmoteca/internal/model"
	"filmoteca/internal/repository"
)

func TestOrderService_Create(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		input         OrderInput
		setupMock     func(*MockOrderRepository, *MockUserRepository)
		expectedError error
	}{
		{
			name: "successful create starts pending",
			input: OrderInput{
				MovieName:       "El Laberinto del Fauno",
				Quality:         model.Quality1080p,
				AudioPreference: model.AudioLatino,
			},
			setupMock: func(orders *MockOrderRepository, users *MockUserRepository) {
				users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				orders.On("Create", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
					return o.Status == model.OrderStatusPending && o.UserID == userID
				})).Return(nil)
			},
		},
		{
			name: "unknown quality",
			input: OrderInput{
				MovieName:       "Dune",
				Quality:         "8k",
				AudioPreference: model.AudioOriginal,
			},
			setupMock:     func(orders *MockOrderRepository, users *MockUserRepository) {},
			expectedError: apperr.ErrValidation,
		},
		{
			name: "unknown audio preference",
			input: OrderInput{
				MovieName:       "Dune",
				Quality:         model.Quality720p,
				AudioPreference: "dubbed",
			},
			setupMock:     func(orders *MockOrderRepository, users *MockUserRepository) {},
			expectedError: apperr.ErrValidation,
		},
		{
			name: "empty movie name",
			input: OrderInput{
				Quality:         model.Quality720p,
				AudioPreference: model.AudioOriginal,
			},
			setupMock:     func(orders *MockOrderRepository, users *MockUserRepository) {},
			expectedError: apperr.ErrValidation,
		},
		{
			name: "missing user",
			input: OrderInput{
				MovieName:       "Dune",
				Quality:         model.Quality4K,
				AudioPreference: model.AudioCastellano,
			},
			setupMock: func(orders *MockOrderRepository, users *MockUserRepository) {
				users.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperr.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderRepository)
			users := new(MockUserRepository)
			tt.setupMock(orders, users)

			svc := NewOrderService(orders, users)
			order, err := svc.Create(context.Background(), userID, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, order)
				assert.Equal(t, model.OrderStatusPending, order.Status)
			}

			orders.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	orderID := uuid.New()

	t.Run("order not found", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)
		orders.On("FindByID", mock.Anything, orderID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewOrderService(orders, users)
		err := svc.UpdateStatus(context.Background(), orderID, model.OrderStatusCompleted, nil)
		assert.ErrorIs(t, err, apperr.ErrOrderNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)

		svc := NewOrderService(orders, users)
		err := svc.UpdateStatus(context.Background(), orderID, "archived", nil)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("any transition is allowed, including backwards", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)
		orders.On("FindByID", mock.Anything, orderID).Return(&model.Order{
			ID: orderID, Status: model.OrderStatusCompleted,
		}, nil)
		orders.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.OrderStatusPending
		})).Return(nil)

		svc := NewOrderService(orders, users)
		err := svc.UpdateStatus(context.Background(), orderID, model.OrderStatusPending, nil)
		assert.NoError(t, err)
		orders.AssertExpectations(t)
	})

	t.Run("notes are patched when provided", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)
		orders.On("FindByID", mock.Anything, orderID).Return(&model.Order{
			ID: orderID, Status: model.OrderStatusPending, Notes: "old",
		}, nil)
		orders.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
			return o.Status == model.OrderStatusProcessing && o.Notes == "ripping"
		})).Return(nil)

		svc := NewOrderService(orders, users)
		notes := "ripping"
		err := svc.UpdateStatus(context.Background(), orderID, model.OrderStatusProcessing, &notes)
		assert.NoError(t, err)
		orders.AssertExpectations(t)
	})
}

func TestOrderService_QuickAdvance(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name         string
		current      model.OrderStatus
		expected     model.OrderStatus
		expectUpdate bool
	}{
		{"pending advances to processing", model.OrderStatusPending, model.OrderStatusProcessing, true},
		{"processing advances to completed", model.OrderStatusProcessing, model.OrderStatusCompleted, true},
		{"completed stays put", model.OrderStatusCompleted, model.OrderStatusCompleted, false},
		{"cancelled stays put", model.OrderStatusCancelled, model.OrderStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderRepository)
			users := new(MockUserRepository)
			orders.On("FindByID", mock.Anything, orderID).Return(&model.Order{
				ID: orderID, Status: tt.current,
			}, nil)
			if tt.expectUpdate {
				orders.On("Update", mock.Anything, mock.MatchedBy(func(o *model.Order) bool {
					return o.Status == tt.expected
				})).Return(nil)
			}

			svc := NewOrderService(orders, users)
			status, err := svc.QuickAdvance(context.Background(), orderID)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, status)
			orders.AssertExpectations(t)
		})
	}
}

func TestOrderService_List_JoinsUserProjection(t *testing.T) {
	userID := uuid.New()
	ghostID := uuid.New()

	orders := new(MockOrderRepository)
	users := new(MockUserRepository)
	orders.On("List", mock.Anything, repository.OrderFilter{}).Return([]model.Order{
		{ID: uuid.New(), UserID: userID, MovieName: "Amores Perros"},
		{ID: uuid.New(), UserID: userID, MovieName: "Roma"},
		{ID: uuid.New(), UserID: ghostID, MovieName: "Orphaned"},
	}, nil)
	users.On("FindByID", mock.Anything, userID).Return(&model.User{
		ID: userID, Name: "Ana", Email: "ana@x.com",
	}, nil).Once()
	users.On("FindByID", mock.Anything, ghostID).Return(nil, gorm.ErrRecordNotFound).Once()

	svc := NewOrderService(orders, users)
	result, err := svc.List(context.Background(), repository.OrderFilter{})

	assert.NoError(t, err)
	assert.Len(t, result, 3)
	assert.NotNil(t, result[0].UserRef)
	assert.Equal(t, "Ana", result[0].UserRef.Name)
	assert.NotNil(t, result[1].UserRef)
	assert.Nil(t, result[2].UserRef)
	users.AssertExpectations(t)
}

func TestOrderService_List_RejectsUnknownStatusFilter(t *testing.T) {
	orders := new(MockOrderRepository)
	users := new(MockUserRepository)

	svc := NewOrderService(orders, users)
	_, err := svc.List(context.Background(), repository.OrderFilter{Status: "archived"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestOrderService_Remove(t *testing.T) {
	orderID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)
		orders.On("FindByID", mock.Anything, orderID).Return(nil, gorm.ErrRecordNotFound)

		svc := NewOrderService(orders, users)
		assert.ErrorIs(t, svc.Remove(context.Background(), orderID), apperr.ErrOrderNotFound)
	})

	t.Run("hard delete", func(t *testing.T) {
		orders := new(MockOrderRepository)
		users := new(MockUserRepository)
		orders.On("FindByID", mock.Anything, orderID).Return(&model.Order{ID: orderID}, nil)
		orders.On("Delete", mock.Anything, orderID).Return(nil)

		svc := NewOrderService(orders, users)
		assert.NoError(t, svc.Remove(context.Background(), orderID))
		orders.AssertExpectations(t)
	})
}
