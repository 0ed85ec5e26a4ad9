package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WandevPB/brisagenda-backend/internal/metrics"
	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/repository"
	ws "github.com/WandevPB/brisagenda-backend/internal/websocket"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Actor identifies the authenticated caller on mutating operations.
type Actor struct {
	ID       string
	Username string
	Role     string
	Center   string
}

// Filter returns the row filter for the actor's role and center.
func (a Actor) Filter() repository.AccessFilter {
	return repository.FilterFor(a.Role, a.Center)
}

// DTOs for request validation
type CreateAppointmentRequest struct {
	Empresa            string          `json:"empresa" binding:"required"`
	Email              string          `json:"email" binding:"required,email"`
	Telefone           string          `json:"telefone" binding:"required"`
	NotaFiscal         string          `json:"nota_fiscal" binding:"required"`
	NumeroPedido       string          `json:"numero_pedido"`
	Volume             string          `json:"volume"`
	ValorNotaFiscal    decimal.Decimal `json:"valor_nota_fiscal"`
	DocumentoURL       string          `json:"documento_url"`
	CentroDistribuicao string          `json:"centro_distribuicao" binding:"required"`
	Data               string          `json:"data" binding:"required"`
	Horario            string          `json:"horario" binding:"required"`
}

type UpdateStatusRequest struct {
	Status      string `json:"status" binding:"required"`
	Observacoes string `json:"observacoes"`
}

type SuggestRescheduleRequest struct {
	Data        string `json:"data" binding:"required"`
	Horario     string `json:"horario" binding:"required"`
	Observacoes string `json:"observacoes"`
}

// SlotConflictDetails is attached to a 409 so the client can show who
// occupies the slot.
type SlotConflictDetails struct {
	Empresa    string `json:"empresa,omitempty"`
	NotaFiscal string `json:"nota_fiscal,omitempty"`
	Motivo     string `json:"motivo,omitempty"`
	HoraInicio string `json:"hora_inicio,omitempty"`
	HoraFim    string `json:"hora_fim,omitempty"`
}

// AppointmentService defines the interface for business logic related to appointments
type AppointmentService interface {
	Create(ctx context.Context, req CreateAppointmentRequest) (*model.Appointment, error)
	List(ctx context.Context, actor Actor, q repository.AppointmentListQuery, page, limit int) ([]model.Appointment, int64, error)
	GetByID(ctx context.Context, actor Actor, id string) (*model.Appointment, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateStatusRequest) (*model.Appointment, error)
	SuggestReschedule(ctx context.Context, actor Actor, id string, req SuggestRescheduleRequest) (*model.Appointment, error)
	PurgeOld(ctx context.Context) (int64, error)
}

type appointmentService struct {
	repo          repository.AppointmentRepository
	windowRepo    repository.BlockedWindowRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
	retentionDays int
	now           func() time.Time
}

// NewAppointmentService returns a new instance of AppointmentService
func NewAppointmentService(
	repo repository.AppointmentRepository,
	windowRepo repository.BlockedWindowRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
	retentionDays int,
) AppointmentService {
	return &appointmentService{
		repo:          repo,
		windowRepo:    windowRepo,
		txManager:     txManager,
		hub:           hub,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

func validateSchedule(center, date, slot string) error {
	if !model.IsValidCenter(center) {
		return apperror.Validation("unrecognized distribution center: " + center)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return apperror.Validation("invalid date, expected YYYY-MM-DD")
	}
	if !model.IsValidSlot(slot) {
		return apperror.Validation("invalid time slot: " + slot)
	}
	return nil
}

// checkSlotFree is the conflict checker: exact-equality match against
// active appointments plus interval overlap against blocked windows. Must
// run inside the same transaction as the write that follows it.
func (s *appointmentService) checkSlotFree(ctx context.Context, center, date, slot string, excludeID *uuid.UUID) error {
	occupant, err := s.repo.FindActiveSlot(ctx, center, date, slot, excludeID)
	if err != nil {
		return apperror.Internal("failed to check slot availability", err)
	}
	if occupant != nil {
		return apperror.SlotConflict(
			fmt.Sprintf("slot %s on %s at %s is already booked", slot, date, center),
			SlotConflictDetails{Empresa: occupant.Empresa, NotaFiscal: occupant.NotaFiscal},
		)
	}

	window, err := s.windowRepo.FindOverlapping(ctx, center, date, slot, model.SlotEnd(slot))
	if err != nil {
		return apperror.Internal("failed to check blocked windows", err)
	}
	if window != nil {
		return apperror.SlotConflict(
			fmt.Sprintf("slot %s on %s at %s falls inside a blocked window", slot, date, center),
			SlotConflictDetails{Motivo: window.Motivo, HoraInicio: window.HoraInicio, HoraFim: window.HoraFim},
		)
	}
	return nil
}

func (s *appointmentService) Create(ctx context.Context, req CreateAppointmentRequest) (*model.Appointment, error) {
	if err := validateSchedule(req.CentroDistribuicao, req.Data, req.Horario); err != nil {
		return nil, err
	}

	appointment := &model.Appointment{
		Empresa:            req.Empresa,
		Email:              req.Email,
		Telefone:           req.Telefone,
		NotaFiscal:         req.NotaFiscal,
		NumeroPedido:       req.NumeroPedido,
		Volume:             req.Volume,
		ValorNotaFiscal:    req.ValorNotaFiscal,
		DocumentoURL:       req.DocumentoURL,
		CentroDistribuicao: req.CentroDistribuicao,
		Data:               req.Data,
		Horario:            req.Horario,
		Status:             model.StatusPendingConfirmation,
	}

	// Conflict check and insert share one serializable transaction so two
	// concurrent requests for the same slot cannot both pass the check.
	err := s.txManager.RunSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkSlotFree(txCtx, req.CentroDistribuicao, req.Data, req.Horario, nil); err != nil {
			return err
		}
		if err := s.repo.Create(txCtx, appointment); err != nil {
			return apperror.Internal("failed to create appointment", err)
		}
		return nil
	})
	if err != nil {
		if apperror.From(err).Code == apperror.CodeSlotConflict {
			metrics.SlotConflictsTotal.Inc()
		}
		return nil, err
	}

	metrics.AppointmentsCreatedTotal.Inc()
	log.Info().
		Str("id", appointment.ID.String()).
		Str("centro", appointment.CentroDistribuicao).
		Str("data", appointment.Data).
		Str("horario", appointment.Horario).
		Msg("appointment created")
	s.hub.Publish(ws.EventAppointmentCreated, appointment)

	return appointment, nil
}

func (s *appointmentService) List(ctx context.Context, actor Actor, q repository.AppointmentListQuery, page, limit int) ([]model.Appointment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	appointments, total, err := s.repo.List(ctx, actor.Filter(), q, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list appointments", err)
	}
	return appointments, total, nil
}

// getScopedAppointment fetches by id through the actor's row filter; rows
// outside the caller's center are indistinguishable from absent rows.
func getScopedAppointment(ctx context.Context, repo repository.AppointmentRepository, actor Actor, id string) (*model.Appointment, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.NotFound("appointment not found")
	}
	appointment, err := repo.GetByID(ctx, parsed, actor.Filter())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("appointment not found")
		}
		return nil, apperror.Internal("failed to fetch appointment", err)
	}
	return appointment, nil
}

func (s *appointmentService) GetByID(ctx context.Context, actor Actor, id string) (*model.Appointment, error) {
	return getScopedAppointment(ctx, s.repo, actor, id)
}

// UpdateStatus applies the lifecycle state machine. The only target
// reachable through this operation is confirmed; a reschedule suggestion
// goes through SuggestReschedule so the new slot can be conflict-checked.
func (s *appointmentService) UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateStatusRequest) (*model.Appointment, error) {
	target := model.AppointmentStatus(req.Status)
	if !target.IsValid() {
		return nil, apperror.Validation("invalid status value: " + req.Status)
	}
	if target != model.StatusConfirmed {
		return nil, apperror.Validation("status can only be set to confirmed; use the reschedule operation to suggest a new slot")
	}

	appointment, err := getScopedAppointment(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.StatusConfirmed {
		return nil, apperror.Validation("appointment is already confirmed")
	}

	appointment.Status = model.StatusConfirmed
	appointment.ConfirmadoPor = actor.Username
	if req.Observacoes != "" {
		appointment.Observacoes = req.Observacoes
	}

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, apperror.Internal("failed to update appointment status", err)
	}

	log.Info().
		Str("id", appointment.ID.String()).
		Str("status", appointment.Status.String()).
		Str("by", actor.Username).
		Msg("appointment status updated")
	s.hub.Publish(ws.EventStatusChanged, appointment)

	return appointment, nil
}

// SuggestReschedule moves a not-yet-confirmed appointment to a new slot,
// conflict-checking the target slot while excluding the appointment itself
// so rescheduling to its own slot succeeds.
func (s *appointmentService) SuggestReschedule(ctx context.Context, actor Actor, id string, req SuggestRescheduleRequest) (*model.Appointment, error) {
	appointment, err := getScopedAppointment(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status == model.StatusConfirmed {
		return nil, apperror.Validation("confirmed appointments cannot be rescheduled")
	}
	if err := validateSchedule(appointment.CentroDistribuicao, req.Data, req.Horario); err != nil {
		return nil, err
	}

	err = s.txManager.RunSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkSlotFree(txCtx, appointment.CentroDistribuicao, req.Data, req.Horario, &appointment.ID); err != nil {
			return err
		}

		appointment.Data = req.Data
		appointment.Horario = req.Horario
		appointment.Status = model.StatusRescheduleSuggested
		appointment.ConfirmadoPor = actor.Username
		if req.Observacoes != "" {
			appointment.Observacoes = req.Observacoes
		}

		if err := s.repo.Update(txCtx, appointment); err != nil {
			return apperror.Internal("failed to reschedule appointment", err)
		}
		return nil
	})
	if err != nil {
		if apperror.From(err).Code == apperror.CodeSlotConflict {
			metrics.SlotConflictsTotal.Inc()
		}
		return nil, err
	}

	log.Info().
		Str("id", appointment.ID.String()).
		Str("data", appointment.Data).
		Str("horario", appointment.Horario).
		Str("by", actor.Username).
		Msg("reschedule suggested")
	s.hub.Publish(ws.EventRescheduleSuggested, appointment)

	return appointment, nil
}

// PurgeOld deletes appointments older than the retention threshold. Runs
// daily from the scheduler and on demand via the admin endpoint.
func (s *appointmentService) PurgeOld(ctx context.Context) (int64, error) {
	before := s.now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.repo.PurgeOlderThan(ctx, before)
	if err != nil {
		return 0, apperror.Internal("failed to purge old appointments", err)
	}
	if deleted > 0 {
		metrics.AppointmentsPurgedTotal.Add(float64(deleted))
		log.Info().Int64("deleted", deleted).Int("retention_days", s.retentionDays).Msg("retention cleanup")
	}
	return deleted, nil
}
