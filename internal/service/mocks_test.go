package service

import (
	"context"
	"time"

	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories for testing

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID, filter repository.AccessFilter) (*model.Appointment, error) {
	args := m.Called(ctx, id, filter)
	if a := args.Get(0); a != nil {
		return a.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filter repository.AccessFilter, q repository.AppointmentListQuery, page, limit int) ([]model.Appointment, int64, error) {
	args := m.Called(ctx, filter, q, page, limit)
	return args.Get(0).([]model.Appointment), args.Get(1).(int64), args.Error(2)
}

func (m *MockAppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) FindActiveSlot(ctx context.Context, center, date, slot string, excludeID *uuid.UUID) (*model.Appointment, error) {
	args := m.Called(ctx, center, date, slot, excludeID)
	if a := args.Get(0); a != nil {
		return a.(*model.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAppointmentRepository) ListActiveByDate(ctx context.Context, center, date string) ([]model.Appointment, error) {
	args := m.Called(ctx, center, date)
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListByDate(ctx context.Context, filter repository.AccessFilter, date string) ([]model.Appointment, error) {
	args := m.Called(ctx, filter, date)
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListPendingDelivery(ctx context.Context, filter repository.AccessFilter, before string) ([]model.Appointment, error) {
	args := m.Called(ctx, filter, before)
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) DeliveryOutcomeStats(ctx context.Context, filter repository.AccessFilter, since string) ([]model.CenterDeliveryStats, error) {
	args := m.Called(ctx, filter, since)
	return args.Get(0).([]model.CenterDeliveryStats), args.Error(1)
}

func (m *MockAppointmentRepository) PendingDeliveryCounts(ctx context.Context, filter repository.AccessFilter, before string) (map[string]int64, error) {
	args := m.Called(ctx, filter, before)
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockAppointmentRepository) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type MockBlockedWindowRepository struct {
	mock.Mock
}

func (m *MockBlockedWindowRepository) Create(ctx context.Context, w *model.BlockedWindow) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockBlockedWindowRepository) GetByID(ctx context.Context, id uuid.UUID, filter repository.AccessFilter) (*model.BlockedWindow, error) {
	args := m.Called(ctx, id, filter)
	if w := args.Get(0); w != nil {
		return w.(*model.BlockedWindow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBlockedWindowRepository) List(ctx context.Context, filter repository.AccessFilter, date string) ([]model.BlockedWindow, error) {
	args := m.Called(ctx, filter, date)
	return args.Get(0).([]model.BlockedWindow), args.Error(1)
}

func (m *MockBlockedWindowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBlockedWindowRepository) FindOverlapping(ctx context.Context, center, date, start, end string) (*model.BlockedWindow, error) {
	args := m.Called(ctx, center, date, start, end)
	if w := args.Get(0); w != nil {
		return w.(*model.BlockedWindow), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakeTxManager runs the callback without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) RunSerializable(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
