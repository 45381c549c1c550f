package itineraries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/compasslk/compass/internal/app/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, params models.CreateItineraryParams) (uuid.UUID, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id, userID uuid.UUID) (*models.Itinerary, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Itinerary), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Itinerary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Itinerary), args.Error(1)
}

func (m *MockRepository) AddItem(ctx context.Context, itineraryID, userID uuid.UUID, params models.AddItineraryItemParams) (uuid.UUID, error) {
	args := m.Called(ctx, itineraryID, userID, params)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) RemoveItem(ctx context.Context, itineraryID, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, itineraryID, userID, itemID)
	return args.Error(0)
}

func (m *MockRepository) ReorderItems(ctx context.Context, itineraryID, userID uuid.UUID, dayNumber int, itemIDs []uuid.UUID) error {
	args := m.Called(ctx, itineraryID, userID, dayNumber, itemIDs)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func TestCreateItineraryValidation(t *testing.T) {
	tests := []struct {
		name   string
		params models.CreateItineraryParams
	}{
		{"blank title", models.CreateItineraryParams{UserID: uuid.New(), Title: "  ", DayCount: 3}},
		{"zero days", models.CreateItineraryParams{UserID: uuid.New(), Title: "Trip", DayCount: 0}},
		{"too many days", models.CreateItineraryParams{UserID: uuid.New(), Title: "Trip", DayCount: maxDayCount + 1}},
		{"missing user", models.CreateItineraryParams{Title: "Trip", DayCount: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := NewService(mockRepo, zap.NewNop())

			_, err := svc.Create(context.Background(), tt.params)
			assert.ErrorIs(t, err, models.ErrValidation)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateItineraryTrimsTitle(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, zap.NewNop())

	want := uuid.New()
	var saved models.CreateItineraryParams
	mockRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(models.CreateItineraryParams)
	}).Return(want, nil).Once()

	got, err := svc.Create(context.Background(), models.CreateItineraryParams{
		UserID:   uuid.New(),
		Title:    "  South Coast Loop  ",
		DayCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "South Coast Loop", saved.Title)
}

func TestAddItemRequiresContent(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, zap.NewNop())

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), models.AddItineraryItemParams{
		DayNumber: 1,
	})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.AddItem(context.Background(), uuid.New(), uuid.New(), models.AddItineraryItemParams{
		DayNumber: 1,
		Note:      strPtr("   "),
	})
	assert.ErrorIs(t, err, models.ErrValidation)
	mockRepo.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItemNoteOnlyAllowed(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, zap.NewNop())

	itineraryID, userID := uuid.New(), uuid.New()
	params := models.AddItineraryItemParams{DayNumber: 2, Note: strPtr("lunch stop")}
	want := uuid.New()
	mockRepo.On("AddItem", mock.Anything, itineraryID, userID, params).Return(want, nil).Once()

	got, err := svc.AddItem(context.Background(), itineraryID, userID, params)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAddItemRejectsBadDay(t *testing.T) {
	svc := NewService(new(MockRepository), zap.NewNop())

	destID := uuid.New()
	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), models.AddItineraryItemParams{
		DayNumber:     0,
		DestinationID: &destID,
	})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestReorderItemsValidation(t *testing.T) {
	dup := uuid.New()
	tests := []struct {
		name      string
		dayNumber int
		itemIDs   []uuid.UUID
	}{
		{"bad day", 0, []uuid.UUID{uuid.New()}},
		{"empty ordering", 1, nil},
		{"nil id", 1, []uuid.UUID{uuid.New(), uuid.Nil}},
		{"duplicate id", 1, []uuid.UUID{dup, uuid.New(), dup}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := NewService(mockRepo, zap.NewNop())

			err := svc.ReorderItems(context.Background(), uuid.New(), uuid.New(), tt.dayNumber, tt.itemIDs)
			assert.ErrorIs(t, err, models.ErrValidation)
			mockRepo.AssertNotCalled(t, "ReorderItems",
				mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestReorderItemsPassthrough(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, zap.NewNop())

	itineraryID, userID := uuid.New(), uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	mockRepo.On("ReorderItems", mock.Anything, itineraryID, userID, 2, order).Return(nil).Once()

	err := svc.ReorderItems(context.Background(), itineraryID, userID, 2, order)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestGetForeignItineraryIsNotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, zap.NewNop())

	id, userID := uuid.New(), uuid.New()
	mockRepo.On("Get", mock.Anything, id, userID).Return(nil, models.ErrNotFound).Once()

	_, err := svc.Get(context.Background(), id, userID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
