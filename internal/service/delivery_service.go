package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/WandevPB/brisagenda-backend/internal/metrics"
	"github.com/WandevPB/brisagenda-backend/internal/model"
	"github.com/WandevPB/brisagenda-backend/internal/repository"
	ws "github.com/WandevPB/brisagenda-backend/internal/websocket"
	"github.com/WandevPB/brisagenda-backend/pkg/apperror"

	"github.com/rs/zerolog/log"
)

// statsWindowDays is the trailing window for the attendance-rate statistic.
const statsWindowDays = 30

type ConfirmDeliveryRequest struct {
	StatusEntrega        string `json:"status_entrega" binding:"required"`
	HorarioChegada       string `json:"horario_chegada"`
	ChegouNoHorario      bool   `json:"chegou_no_horario"`
	TransportadoraAvisou bool   `json:"transportadora_avisou"`
	Observacoes          string `json:"observacoes"`
}

// DeliveryService records delivery outcomes and serves the staff views
// built on them.
type DeliveryService interface {
	Confirm(ctx context.Context, actor Actor, id string, req ConfirmDeliveryRequest) (*model.Appointment, error)
	Today(ctx context.Context, actor Actor) ([]model.Appointment, error)
	Pending(ctx context.Context, actor Actor) ([]model.Appointment, error)
	Statistics(ctx context.Context, actor Actor) ([]model.CenterDeliveryStats, error)
}

type deliveryService struct {
	repo repository.AppointmentRepository
	hub  *ws.Hub
	now  func() time.Time
}

// NewDeliveryService returns a new instance of DeliveryService
func NewDeliveryService(repo repository.AppointmentRepository, hub *ws.Hub) DeliveryService {
	return &deliveryService{repo: repo, hub: hub, now: time.Now}
}

// Confirm records the delivery outcome. Subsequent calls overwrite the
// previous outcome; no history is kept.
func (s *deliveryService) Confirm(ctx context.Context, actor Actor, id string, req ConfirmDeliveryRequest) (*model.Appointment, error) {
	outcome := model.DeliveryStatus(req.StatusEntrega)
	if !outcome.IsValid() {
		return nil, apperror.Validation("invalid delivery outcome: " + req.StatusEntrega)
	}

	appointment, err := getScopedAppointment(ctx, s.repo, actor, id)
	if err != nil {
		return nil, err
	}
	if appointment.Status != model.StatusConfirmed && appointment.Status != model.StatusRescheduleSuggested {
		return nil, apperror.Validation("delivery outcome can only be recorded for confirmed appointments")
	}

	confirmedAt := s.now()
	appointment.StatusEntrega = outcome
	appointment.EntregaConfirmadaPor = actor.Username
	appointment.EntregaConfirmadaEm = &confirmedAt
	appointment.ObservacoesEntrega = req.Observacoes
	appointment.HorarioChegada = req.HorarioChegada
	appointment.ChegouNoHorario = req.ChegouNoHorario
	appointment.TransportadoraAvisou = req.TransportadoraAvisou

	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, apperror.Internal("failed to record delivery outcome", err)
	}

	metrics.DeliveriesConfirmedTotal.WithLabelValues(outcome.String()).Inc()
	log.Info().
		Str("id", appointment.ID.String()).
		Str("outcome", outcome.String()).
		Str("by", actor.Username).
		Msg("delivery outcome recorded")
	s.hub.Publish(ws.EventDeliveryConfirmed, appointment)

	return appointment, nil
}

func (s *deliveryService) Today(ctx context.Context, actor Actor) ([]model.Appointment, error) {
	today := s.now().Format(dateLayout)
	appointments, err := s.repo.ListByDate(ctx, actor.Filter(), today)
	if err != nil {
		return nil, apperror.Internal("failed to list today's appointments", err)
	}
	return appointments, nil
}

func (s *deliveryService) Pending(ctx context.Context, actor Actor) ([]model.Appointment, error) {
	today := s.now().Format(dateLayout)
	appointments, err := s.repo.ListPendingDelivery(ctx, actor.Filter(), today)
	if err != nil {
		return nil, apperror.Internal("failed to list pending deliveries", err)
	}
	return appointments, nil
}

// Statistics computes the attendance rate per center over the trailing
// window: (arrived + arrived_late) / decided, rounded to the nearest
// percent, 0 when no outcome has been recorded.
func (s *deliveryService) Statistics(ctx context.Context, actor Actor) ([]model.CenterDeliveryStats, error) {
	filter := actor.Filter()
	since := s.now().AddDate(0, 0, -statsWindowDays).Format(dateLayout)
	today := s.now().Format(dateLayout)

	rows, err := s.repo.DeliveryOutcomeStats(ctx, filter, since)
	if err != nil {
		return nil, apperror.Internal("failed to compute delivery statistics", err)
	}
	pending, err := s.repo.PendingDeliveryCounts(ctx, filter, today)
	if err != nil {
		return nil, apperror.Internal("failed to count pending deliveries", err)
	}

	byCenter := make(map[string]*model.CenterDeliveryStats, len(rows))
	for i := range rows {
		row := rows[i]
		row.AttendanceRate = AttendanceRate(row.Arrived, row.ArrivedLate, row.Decided)
		byCenter[row.CentroDistribuicao] = &row
	}
	for center, count := range pending {
		stat, ok := byCenter[center]
		if !ok {
			stat = &model.CenterDeliveryStats{CentroDistribuicao: center}
			byCenter[center] = stat
		}
		stat.Pending = count
	}

	stats := make([]model.CenterDeliveryStats, 0, len(byCenter))
	for _, stat := range byCenter {
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].CentroDistribuicao < stats[j].CentroDistribuicao
	})
	return stats, nil
}

// AttendanceRate rounds (arrived+late)/decided to the nearest percent.
func AttendanceRate(arrived, late, decided int64) int {
	if decided == 0 {
		return 0
	}
	return int(math.Round(float64(arrived+late) / float64(decided) * 100))
}
