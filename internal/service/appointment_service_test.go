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

func newTestAppointmentService(repo *MockAppointmentRepository, windowRepo *MockBlockedWindowRepository) *appointmentService {
	return &appointmentService{
		repo:          repo,
		windowRepo:    windowRepo,
		txManager:     fakeTxManager{},
		retentionDays: 90,
		now:           time.Now,
	}
}

func validCreateRequest() CreateAppointmentRequest {
	return CreateAppointmentRequest{
		Empresa:            "Transportes Norte",
		Email:              "contato@transportesnorte.com.br",
		Telefone:           "84999990000",
		NotaFiscal:         "NF-1001",
		CentroDistribuicao: "Bahia",
		Data:               "2025-08-07",
		Horario:            "08:00",
	}
}

func TestCreateAppointment(t *testing.T) {
	repo := new(MockAppointmentRepository)
	windowRepo := new(MockBlockedWindowRepository)
	svc := newTestAppointmentService(repo, windowRepo)

	repo.On("FindActiveSlot", mock.Anything, "Bahia", "2025-08-07", "08:00", (*uuid.UUID)(nil)).Return(nil, nil)
	windowRepo.On("FindOverlapping", mock.Anything, "Bahia", "2025-08-07", "08:00", "09:00").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Appointment")).Return(nil)

	appointment, err := svc.Create(context.Background(), validCreateRequest())

	require.NoError(t, err)
	require.NotNil(t, appointment)
	require.Equal(t, model.StatusPendingConfirmation, appointment.Status)
	require.Equal(t, "Transportes Norte", appointment.Empresa)
	repo.AssertExpectations(t)
	windowRepo.AssertExpectations(t)
}

func TestCreateAppointmentSlotTaken(t *testing.T) {
	repo := new(MockAppointmentRepository)
	windowRepo := new(MockBlockedWindowRepository)
	svc := newTestAppointmentService(repo, windowRepo)

	occupant := &model.Appointment{
		Empresa:    "Logistica Sul",
		NotaFiscal: "NF-0042",
		Status:     model.StatusPendingConfirmation,
	}
	repo.On("FindActiveSlot", mock.Anything, "Bahia", "2025-08-07", "08:00", (*uuid.UUID)(nil)).Return(occupant, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())

	require.Error(t, err)
	appErr := apperror.From(err)
	require.Equal(t, apperror.CodeSlotConflict, appErr.Code)
	details, ok := appErr.Details.(SlotConflictDetails)
	require.True(t, ok)
	require.Equal(t, "Logistica Sul", details.Empresa)
	require.Equal(t, "NF-0042", details.NotaFiscal)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateAppointmentInsideBlockedWindow(t *testing.T) {
	repo := new(MockAppointmentRepository)
	windowRepo := new(MockBlockedWindowRepository)
	svc := newTestAppointmentService(repo, windowRepo)

	repo.On("FindActiveSlot", mock.Anything, "Bahia", "2025-08-07", "08:00", (*uuid.UUID)(nil)).Return(nil, nil)
	windowRepo.On("FindOverlapping", mock.Anything, "Bahia", "2025-08-07", "08:00", "09:00").
		Return(&model.BlockedWindow{HoraInicio: "07:30", HoraFim: "09:30", Motivo: "inventário"}, nil)

	_, err := svc.Create(context.Background(), validCreateRequest())

	require.Error(t, err)
	require.Equal(t, apperror.CodeSlotConflict, apperror.From(err).Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateAppointmentUnknownCenter(t *testing.T) {
	svc := newTestAppointmentService(new(MockAppointmentRepository), new(MockBlockedWindowRepository))

	req := validCreateRequest()
	req.CentroDistribuicao = "Minas Gerais"
	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestCreateAppointmentBadDateAndSlot(t *testing.T) {
	svc := newTestAppointmentService(new(MockAppointmentRepository), new(MockBlockedWindowRepository))

	req := validCreateRequest()
	req.Data = "07/08/2025"
	_, err := svc.Create(context.Background(), req)
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)

	req = validCreateRequest()
	req.Horario = "12:00"
	_, err = svc.Create(context.Background(), req)
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestUpdateStatusConfirms(t *testing.T) {
	repo := new(MockAppointmentRepository)
	svc := newTestAppointmentService(repo, new(MockBlockedWindowRepository))

	id := uuid.New()
	appointment := &model.Appointment{
		ID:                 id,
		CentroDistribuicao: "Bahia",
		Status:             model.StatusPendingConfirmation,
	}
	actor := Actor{ID: uuid.NewString(), Username: "maria", Role: model.RoleInstitution, Center: "Bahia"}

	repo.On("GetByID", mock.Anything, id, actor.Filter()).Return(appointment, nil)
	repo.On("Update", mock.Anything, appointment).Return(nil)

	updated, err := svc.UpdateStatus(context.Background(), actor, id.String(), UpdateStatusRequest{Status: "confirmed", Observacoes: "ok"})

	require.NoError(t, err)
	require.Equal(t, model.StatusConfirmed, updated.Status)
	require.Equal(t, "maria", updated.ConfirmadoPor)
	require.Equal(t, "ok", updated.Observacoes)
	repo.AssertExpectations(t)
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	svc := newTestAppointmentService(new(MockAppointmentRepository), new(MockBlockedWindowRepository))
	actor := Actor{Role: model.RoleAdmin}

	_, err := svc.UpdateStatus(context.Background(), actor, uuid.NewString(), UpdateStatusRequest{Status: "cancelled"})
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)

	_, err = svc.UpdateStatus(context.Background(), actor, uuid.NewString(), UpdateStatusRequest{Status: "pending_confirmation"})
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestUpdateStatusAlreadyConfirmed(t *testing.T) {
	repo := new(MockAppointmentRepository)
	svc := newTestAppointmentService(repo, new(MockBlockedWindowRepository))

	id := uuid.New()
	actor := Actor{Username: "admin", Role: model.RoleAdmin}
	repo.On("GetByID", mock.Anything, id, actor.Filter()).
		Return(&model.Appointment{ID: id, Status: model.StatusConfirmed}, nil)

	_, err := svc.UpdateStatus(context.Background(), actor, id.String(), UpdateStatusRequest{Status: "confirmed"})
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateStatusBadIDIsNotFound(t *testing.T) {
	svc := newTestAppointmentService(new(MockAppointmentRepository), new(MockBlockedWindowRepository))
	actor := Actor{Role: model.RoleAdmin}

	_, err := svc.UpdateStatus(context.Background(), actor, "not-a-uuid", UpdateStatusRequest{Status: "confirmed"})
	require.Equal(t, apperror.CodeNotFound, apperror.From(err).Code)
}

func TestSuggestRescheduleConflict(t *testing.T) {
	repo := new(MockAppointmentRepository)
	windowRepo := new(MockBlockedWindowRepository)
	svc := newTestAppointmentService(repo, windowRepo)

	id := uuid.New()
	actor := Actor{Username: "maria", Role: model.RoleInstitution, Center: "Bahia"}
	appointment := &model.Appointment{
		ID:                 id,
		CentroDistribuicao: "Bahia",
		Data:               "2025-08-07",
		Horario:            "08:00",
		Status:             model.StatusPendingConfirmation,
	}
	other := &model.Appointment{Empresa: "Cargas BA", NotaFiscal: "NF-9"}

	repo.On("GetByID", mock.Anything, id, actor.Filter()).Return(appointment, nil)
	repo.On("FindActiveSlot", mock.Anything, "Bahia", "2025-08-08", "09:00", &id).Return(other, nil)

	_, err := svc.SuggestReschedule(context.Background(), actor, id.String(), SuggestRescheduleRequest{Data: "2025-08-08", Horario: "09:00"})

	require.Equal(t, apperror.CodeSlotConflict, apperror.From(err).Code)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSuggestRescheduleToOwnSlot(t *testing.T) {
	repo := new(MockAppointmentRepository)
	windowRepo := new(MockBlockedWindowRepository)
	svc := newTestAppointmentService(repo, windowRepo)

	id := uuid.New()
	actor := Actor{Username: "maria", Role: model.RoleInstitution, Center: "Bahia"}
	appointment := &model.Appointment{
		ID:                 id,
		CentroDistribuicao: "Bahia",
		Data:               "2025-08-07",
		Horario:            "08:00",
		Status:             model.StatusPendingConfirmation,
	}

	repo.On("GetByID", mock.Anything, id, actor.Filter()).Return(appointment, nil)
	// Self-exclusion: the appointment's own slot reads as free
	repo.On("FindActiveSlot", mock.Anything, "Bahia", "2025-08-07", "08:00", &id).Return(nil, nil)
	windowRepo.On("FindOverlapping", mock.Anything, "Bahia", "2025-08-07", "08:00", "09:00").Return(nil, nil)
	repo.On("Update", mock.Anything, appointment).Return(nil)

	updated, err := svc.SuggestReschedule(context.Background(), actor, id.String(), SuggestRescheduleRequest{Data: "2025-08-07", Horario: "08:00"})

	require.NoError(t, err)
	require.Equal(t, model.StatusRescheduleSuggested, updated.Status)
	repo.AssertExpectations(t)
}

func TestSuggestRescheduleConfirmedIsRejected(t *testing.T) {
	repo := new(MockAppointmentRepository)
	svc := newTestAppointmentService(repo, new(MockBlockedWindowRepository))

	id := uuid.New()
	actor := Actor{Role: model.RoleAdmin}
	repo.On("GetByID", mock.Anything, id, actor.Filter()).
		Return(&model.Appointment{ID: id, CentroDistribuicao: "Bahia", Status: model.StatusConfirmed}, nil)

	_, err := svc.SuggestReschedule(context.Background(), actor, id.String(), SuggestRescheduleRequest{Data: "2025-08-08", Horario: "09:00"})
	require.Equal(t, apperror.CodeValidation, apperror.From(err).Code)
}

func TestPurgeOld(t *testing.T) {
	repo := new(MockAppointmentRepository)
	svc := newTestAppointmentService(repo, new(MockBlockedWindowRepository))
	fixed := time.Date(2025, 8, 7, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	repo.On("PurgeOlderThan", mock.Anything, fixed.AddDate(0, 0, -90)).Return(int64(3), nil)

	deleted, err := svc.PurgeOld(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted)
	repo.AssertExpectations(t)
}
