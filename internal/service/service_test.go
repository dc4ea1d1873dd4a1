package service

import (
	"context"
	"errors"
	"testing"

	"github.com/hardwayp3nny/ioweb/internal/repository"
	"github.com/hardwayp3nny/ioweb/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Read(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRepository) Write(ctx context.Context, doc []byte) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

const snapshotDoc = `{"ioPrice":1,"usdCnyRate":1,"processorData":[` +
	`{"datetime":"2024-06-01T13:00:00","processors":[{"name":"a","reward":"2"},{"name":"b","reward":1}]},` +
	`{"datetime":"2024-06-01T14:00:00","processors":[{"name":"a","reward":"1"}]}]}`

func newTestService(t *testing.T, validate bool) *SnapshotService {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	return NewSnapshotService(memory.NewStore(), validate, logger)
}

func TestSnapshotService_RoundTrip(t *testing.T) {
	service := newTestService(t, true)
	ctx := context.Background()

	require.NoError(t, service.SaveSnapshot(ctx, []byte(snapshotDoc)))

	got, err := service.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, snapshotDoc, string(got))
}

func TestSnapshotService_RoundTripAnyShapeWithoutValidation(t *testing.T) {
	service := newTestService(t, false)
	ctx := context.Background()

	doc := `{"anything": [1, 2.50, {"deep": null}], "unicode": "回本"}`
	require.NoError(t, service.SaveSnapshot(ctx, []byte(doc)))

	got, err := service.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(got))
}

func TestSnapshotService_Idempotent(t *testing.T) {
	service := newTestService(t, true)
	ctx := context.Background()

	require.NoError(t, service.SaveSnapshot(ctx, []byte(snapshotDoc)))
	first, err := service.GetSnapshot(ctx)
	require.NoError(t, err)

	require.NoError(t, service.SaveSnapshot(ctx, []byte(snapshotDoc)))
	second, err := service.GetSnapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSnapshotService_LastWriteWins(t *testing.T) {
	service := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, service.SaveSnapshot(ctx, []byte(`{"v":1}`)))
	require.NoError(t, service.SaveSnapshot(ctx, []byte(`{"v":2}`)))

	got, err := service.GetSnapshot(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))
}

func TestSnapshotService_GetBeforeWrite(t *testing.T) {
	service := newTestService(t, true)

	_, err := service.GetSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, ErrSnapshotNotFound, KindOf(err))
}

func TestSnapshotService_SaveErrors(t *testing.T) {
	tests := []struct {
		name     string
		validate bool
		body     string
		kind     error
	}{
		{"malformed", true, "not json{", ErrMalformedInput},
		{"malformed without validation", false, "not json{", ErrMalformedInput},
		{"empty body", true, "", ErrMalformedInput},
		{"schema violation", true, `{"foo":"bar"}`, ErrInvalidSnapshot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			logger, _ := zap.NewDevelopment()
			service := NewSnapshotService(mockRepo, tt.validate, logger)

			err := service.SaveSnapshot(context.Background(), []byte(tt.body))
			assert.ErrorIs(t, err, tt.kind)
			mockRepo.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
		})
	}
}

func TestSnapshotService_StoreUnavailable(t *testing.T) {
	mockRepo := new(MockRepository)
	logger, _ := zap.NewDevelopment()
	service := NewSnapshotService(mockRepo, true, logger)

	storeErr := errors.New("connection refused")
	mockRepo.On("Write", mock.Anything, mock.Anything).Return(storeErr)
	mockRepo.On("Read", mock.Anything).Return(nil, storeErr)

	err := service.SaveSnapshot(context.Background(), []byte(snapshotDoc))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, storeErr)

	_, err = service.GetSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	mockRepo.AssertExpectations(t)
}

func TestSnapshotService_WritesCompactDocument(t *testing.T) {
	mockRepo := new(MockRepository)
	logger, _ := zap.NewDevelopment()
	service := NewSnapshotService(mockRepo, false, logger)

	mockRepo.On("Write", mock.Anything, []byte(`{"a":[1,2]}`)).Return(nil)

	require.NoError(t, service.SaveSnapshot(context.Background(), []byte("{ \"a\" : [1, 2] }\n")))
	mockRepo.AssertExpectations(t)
}

func TestSnapshotService_CorruptStoredDocument(t *testing.T) {
	mockRepo := new(MockRepository)
	logger, _ := zap.NewDevelopment()
	service := NewSnapshotService(mockRepo, true, logger)

	mockRepo.On("Read", mock.Anything).Return([]byte("{broken"), nil)

	_, err := service.GetSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestSnapshotService_DerivedViews(t *testing.T) {
	service := newTestService(t, true)
	ctx := context.Background()
	require.NoError(t, service.SaveSnapshot(ctx, []byte(snapshotDoc)))

	set, err := service.Series(ctx)
	require.NoError(t, err)
	require.Len(t, set.Series, 2)
	assert.Nil(t, set.Series[1].Values[1])

	rows, err := service.LatestRewards(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0].Name)

	roi, err := service.Roi(ctx, "a", 24)
	require.NoError(t, err)
	assert.Equal(t, 1.0, roi.DaysToRoi)
}

func TestSnapshotService_RoiErrors(t *testing.T) {
	service := newTestService(t, true)
	ctx := context.Background()

	_, err := service.Roi(ctx, "a", 24)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	require.NoError(t, service.SaveSnapshot(ctx, []byte(snapshotDoc)))

	_, err = service.Roi(ctx, "", 24)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Roi(ctx, "b", 24)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Roi(ctx, "a", -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSnapshotService_DerivedViewsRejectForeignDocument(t *testing.T) {
	service := newTestService(t, false)
	ctx := context.Background()
	require.NoError(t, service.SaveSnapshot(ctx, []byte(`{"foo":1}`)))

	_, err := service.Series(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.False(t, errors.Is(err, ErrInvalidSnapshot))

	_, err = service.LoadSnapshot(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
