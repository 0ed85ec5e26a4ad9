package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/repository"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CreateBlockedWindowRequest struct {
	CentroDistribuicao string `json:"centro_distribuicao" binding:"required"`
	Data               string `json:"data" binding:"required"`
	HoraInicio         string `json:"hora_inicio" binding:"required"`
	HoraFim            string `json:"hora_fim" binding:"required"`
	Motivo             string `json:"motivo"`
}

// BlockedWindowService manages staff-defined blocked time ranges.
type BlockedWindowService interface {
	Create(ctx context.Context, actor Actor, req CreateBlockedWindowRequest) (*model.BlockedWindow, error)
	List(ctx context.Context, actor Actor, date string) ([]model.BlockedWindow, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type blockedWindowService struct {
	repo            repository.BlockedWindowRepository
	appointmentRepo repository.AppointmentRepository
	txManager       repository.TransactionManager
}

// NewBlockedWindowService returns a new instance of BlockedWindowService
func NewBlockedWindowService(
	repo repository.BlockedWindowRepository,
	appointmentRepo repository.AppointmentRepository,
	txManager repository.TransactionManager,
) BlockedWindowService {
	return &blockedWindowService{repo: repo, appointmentRepo: appointmentRepo, txManager: txManager}
}

func validateClock(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}

// Create validates the window and rejects it when it overlaps another
// window or an active appointment's hour slot on the same center and date.
func (s *blockedWindowService) Create(ctx context.Context, actor Actor, req CreateBlockedWindowRequest) (*model.BlockedWindow, error) {
	if !model.IsValidCenter(req.CentroDistribuicao) {
		return nil, apperror.Validation("unrecognized distribution center: " + req.CentroDistribuicao)
	}
	if !actor.Filter().Allows(req.CentroDistribuicao) {
		return nil, apperror.Forbidden("cannot block windows at another distribution center")
	}
	if _, err := time.Parse(dateLayout, req.Data); err != nil {
		return nil, apperror.Validation("invalid date, expected YYYY-MM-DD")
	}
	if !validateClock(req.HoraInicio) || !validateClock(req.HoraFim) {
		return nil, apperror.Validation("invalid time, expected HH:MM")
	}
	if req.HoraInicio >= req.HoraFim {
		return nil, apperror.Validation("hora_inicio must be before hora_fim")
	}

	window := &model.BlockedWindow{
		CentroDistribuicao: req.CentroDistribuicao,
		Data:               req.Data,
		HoraInicio:         req.HoraInicio,
		HoraFim:            req.HoraFim,
		Motivo:             req.Motivo,
		CriadoPor:          actor.Username,
	}

	err := s.txManager.RunSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindOverlapping(txCtx, req.CentroDistribuicao, req.Data, req.HoraInicio, req.HoraFim)
		if err != nil {
			return apperror.Internal("failed to check blocked windows", err)
		}
		if existing != nil {
			return apperror.SlotConflict(
				fmt.Sprintf("window overlaps an existing block from %s to %s", existing.HoraInicio, existing.HoraFim),
				SlotConflictDetails{Motivo: existing.Motivo, HoraInicio: existing.HoraInicio, HoraFim: existing.HoraFim},
			)
		}

		appointments, err := s.appointmentRepo.ListActiveByDate(txCtx, req.CentroDistribuicao, req.Data)
		if err != nil {
			return apperror.Internal("failed to check appointments", err)
		}
		for _, a := range appointments {
			if model.IntervalsOverlap(a.Horario, model.SlotEnd(a.Horario), req.HoraInicio, req.HoraFim) {
				return apperror.SlotConflict(
					fmt.Sprintf("window overlaps an active appointment at %s", a.Horario),
					SlotConflictDetails{Empresa: a.Empresa, NotaFiscal: a.NotaFiscal},
				)
			}
		}

		if err := s.repo.Create(txCtx, window); err != nil {
			return apperror.Internal("failed to create blocked window", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("centro", window.CentroDistribuicao).
		Str("data", window.Data).
		Str("janela", window.HoraInicio+"-"+window.HoraFim).
		Str("by", actor.Username).
		Msg("blocked window created")

	return window, nil
}

func (s *blockedWindowService) List(ctx context.Context, actor Actor, date string) ([]model.BlockedWindow, error) {
	windows, err := s.repo.List(ctx, actor.Filter(), date)
	if err != nil {
		return nil, apperror.Internal("failed to list blocked windows", err)
	}
	return windows, nil
}

func (s *blockedWindowService) Delete(ctx context.Context, actor Actor, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return apperror.NotFound("blocked window not found")
	}
	if _, err := s.repo.GetByID(ctx, parsed, actor.Filter()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("blocked window not found")
		}
		return apperror.Internal("failed to fetch blocked window", err)
	}
	if err := s.repo.Delete(ctx, parsed); err != nil {
		return apperror.Internal("failed to delete blocked window", err)
	}
	return nil
}
