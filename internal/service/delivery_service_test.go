package service

import (
	"context"
	"testing"
	"time"

	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRate(t *testing.T) {
	// 4 outcomes {arrived, arrived, no_show, arrived_late} -> 75%
	require.Equal(t, 75, AttendanceRate(2, 1, 4))
	require.Equal(t, 0, AttendanceRate(0, 0, 0))
	require.Equal(t, 100, AttendanceRate(3, 0, 3))
	require.Equal(t, 0, AttendanceRate(0, 0, 5))
	require.Equal(t, 33, AttendanceRate(1, 0, 3))
	require.Equal(t, 67, AttendanceRate(1, 1, 3))
}

func TestConfirmDelivery(t *testing.T) {
	repo := new(MockAppointmentRepository)
	fixed := time.Date(2025, 8, 8, 9, 0, 0, 0, time.UTC)
	svc := &deliveryService{repo: repo, now: func() time.Time { return fixed }}

	id := uuid.New()
	actor := Actor{Username: "maria", Role: model.RoleInstitution, Center: "Bahia"}
	appointment := &model.Appointment{
		ID:                 id,
		CentroDistribuicao: "Bahia",
		Status:             model.StatusConfirmed,
	}

	repo.On("GetByID", mock.Anything, id, actor.Filter()).Return(appointment, nil)
	repo.On("Update", mock.Anything, appointment).Return(nil)

	updated, err := svc.Confirm(context.Background(), actor, id.String(), ConfirmDeliveryRequest{
		StatusEntrega:   "arrived_late",
		HorarioChegada:  "08:15",
		ChegouNoHorario: false,
	})

	require.NoError(t, err)
	require.Equal(t, model.DeliveryArrivedLate, updated.StatusEntrega)
	require.Equal(t, "08:15", updated.HorarioChegada)
	require.Equal(t, "maria", updated.EntregaConfirmadaPor)
	require.NotNil(t, updated.EntregaConfirmadaEm)
	require.Equal(t, fixed, *updated.EntregaConfirmadaEm)
	repo.AssertExpectations(t)
}

func TestConfirmDeliveryInvalidOutcome(t *testing.T) {
	svc := &deliveryService{repo: new(MockAppointmentRepository), now: time.Now}
	actor := Actor{Role: model.RoleAdmin}

	_, err := svc.Confirm(context.Background(), actor, uuid.NewString(), ConfirmDeliveryRequest{StatusEntrega: "late"})
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestConfirmDeliveryRequiresConfirmedAppointment(t *testing.T) {
	repo := new(MockAppointmentRepository)
	svc := &deliveryService{repo: repo, now: time.Now}

	id := uuid.New()
	actor := Actor{Role: model.RoleAdmin}
	repo.On("GetByID", mock.Anything, id, actor.Filter()).
		Return(&model.Appointment{ID: id, Status: model.StatusPendingConfirmation}, nil)

	_, err := svc.Confirm(context.Background(), actor, id.String(), ConfirmDeliveryRequest{StatusEntrega: "arrived"})
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirmDeliveryOverwrites(t *testing.T) {
	repo := new(MockAppointmentRepository)
	svc := &deliveryService{repo: repo, now: time.Now}

	id := uuid.New()
	actor := Actor{Username: "maria", Role: model.RoleInstitution, Center: "Bahia"}
	previous := time.Date(2025, 8, 7, 10, 0, 0, 0, time.UTC)
	appointment := &model.Appointment{
		ID:                   id,
		CentroDistribuicao:   "Bahia",
		Status:               model.StatusConfirmed,
		StatusEntrega:        model.DeliveryNoShow,
		EntregaConfirmadaEm:  &previous,
		EntregaConfirmadaPor: "joao",
	}

	repo.On("GetByID", mock.Anything, id, actor.Filter()).Return(appointment, nil)
	repo.On("Update", mock.Anything, appointment).Return(nil)

	updated, err := svc.Confirm(context.Background(), actor, id.String(), ConfirmDeliveryRequest{StatusEntrega: "arrived"})

	require.NoError(t, err)
	require.Equal(t, model.DeliveryArrived, updated.StatusEntrega)
	require.Equal(t, "maria", updated.EntregaConfirmadaPor)
}

func TestDeliveryStatistics(t *testing.T) {
	repo := new(MockAppointmentRepository)
	fixed := time.Date(2025, 8, 7, 12, 0, 0, 0, time.UTC)
	svc := &deliveryService{repo: repo, now: func() time.Time { return fixed }}

	actor := Actor{Role: model.RoleAdmin}
	filter := actor.Filter()

	repo.On("DeliveryOutcomeStats", mock.Anything, filter, "2025-07-08").Return([]model.CenterDeliveryStats{
		{CentroDistribuicao: "Bahia", Arrived: 2, ArrivedLate: 1, NoShow: 1, Decided: 4},
	}, nil)
	repo.On("PendingDeliveryCounts", mock.Anything, filter, "2025-08-07").Return(map[string]int64{
		"Bahia":      2,
		"Pernambuco": 1,
	}, nil)

	stats, err := svc.Statistics(context.Background(), actor)

	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, "Bahia", stats[0].CentroDistribuicao)
	require.Equal(t, 75, stats[0].AttendanceRate)
	require.Equal(t, int64(2), stats[0].Pending)
	// A center with pending deliveries but no recorded outcomes still shows up
	require.Equal(t, "Pernambuco", stats[1].CentroDistribuicao)
	require.Equal(t, 0, stats[1].AttendanceRate)
	require.Equal(t, int64(1), stats[1].Pending)
}

func TestTodayAndPendingUseScope(t *testing.T) {
	repo := new(MockAppointmentRepository)
	fixed := time.Date(2025, 8, 7, 12, 0, 0, 0, time.UTC)
	svc := &deliveryService{repo: repo, now: func() time.Time { return fixed }}

	actor := Actor{Role: model.RoleInstitution, Center: "Bahia"}
	filter := actor.Filter()
	require.False(t, filter.AllCenters)

	repo.On("ListByDate", mock.Anything, filter, "2025-08-07").Return([]model.Appointment{}, nil)
	repo.On("ListPendingDelivery", mock.Anything, filter, "2025-08-07").Return([]model.Appointment{}, nil)

	_, err := svc.Today(context.Background(), actor)
	require.NoError(t, err)
	_, err = svc.Pending(context.Background(), actor)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
