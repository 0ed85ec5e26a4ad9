package repository

import (
	"context"
	"time"

	"github.com/WandevPB/brisagenda-backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentListQuery carries the optional list filters.
type AppointmentListQuery struct {
	Data   string
	Status string
}

// AppointmentRepository defines the interface for data access of Appointment entities
type AppointmentRepository interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID, filter AccessFilter) (*model.Appointment, error)
	List(ctx context.Context, filter AccessFilter, q AppointmentListQuery, page, limit int) ([]model.Appointment, int64, error)
	Update(ctx context.Context, a *model.Appointment) error

	// FindActiveSlot returns the active appointment occupying the exact
	// (center, date, slot) triple, excluding excludeID when non-nil, or
	// nil when the slot is free.
	FindActiveSlot(ctx context.Context, center, date, slot string, excludeID *uuid.UUID) (*model.Appointment, error)
	// ListActiveByDate returns every active appointment at a center on a
	// date; the blocked-window overlap check walks these.
	ListActiveByDate(ctx context.Context, center, date string) ([]model.Appointment, error)

	ListByDate(ctx context.Context, filter AccessFilter, date string) ([]model.Appointment, error)
	ListPendingDelivery(ctx context.Context, filter AccessFilter, before string) ([]model.Appointment, error)
	DeliveryOutcomeStats(ctx context.Context, filter AccessFilter, since string) ([]model.CenterDeliveryStats, error)
	PendingDeliveryCounts(ctx context.Context, filter AccessFilter, before string) (map[string]int64, error)

	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository returns a new instance of AppointmentRepository
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	return GetDB(ctx, r.db).Create(a).Error
}

func (r *appointmentRepository) GetByID(ctx context.Context, id uuid.UUID, filter AccessFilter) (*model.Appointment, error) {
	var a model.Appointment
	if err := GetDB(ctx, r.db).Scopes(filter.Scope()).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter AccessFilter, q AppointmentListQuery, page, limit int) ([]model.Appointment, int64, error) {
	var appointments []model.Appointment
	var total int64

	query := GetDB(ctx, r.db).Model(&model.Appointment{}).Scopes(filter.Scope())
	if q.Data != "" {
		query = query.Where("data = ?", q.Data)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Order("data, horario").Offset(offset).Limit(limit).Find(&appointments).Error; err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

func (r *appointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	return GetDB(ctx, r.db).Save(a).Error
}

func (r *appointmentRepository) FindActiveSlot(ctx context.Context, center, date, slot string, excludeID *uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	query := GetDB(ctx, r.db).
		Where("centro_distribuicao = ? AND data = ? AND horario = ?", center, date, slot).
		Where("status IN ?", model.ActiveStatuses())
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *appointmentRepository) ListActiveByDate(ctx context.Context, center, date string) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := GetDB(ctx, r.db).
		Where("centro_distribuicao = ? AND data = ?", center, date).
		Where("status IN ?", model.ActiveStatuses()).
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) ListByDate(ctx context.Context, filter AccessFilter, date string) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := GetDB(ctx, r.db).Scopes(filter.Scope()).
		Where("data = ?", date).
		Where("status IN ?", model.ActiveStatuses()).
		Order("horario").
		Find(&appointments).Error
	return appointments, err
}

// ListPendingDelivery returns confirmed or reschedule_suggested rows whose
// date has passed and which have no delivery outcome yet.
func (r *appointmentRepository) ListPendingDelivery(ctx context.Context, filter AccessFilter, before string) ([]model.Appointment, error) {
	var appointments []model.Appointment
	err := GetDB(ctx, r.db).Scopes(filter.Scope()).
		Where("data < ?", before).
		Where("status IN ?", []model.AppointmentStatus{model.StatusConfirmed, model.StatusRescheduleSuggested}).
		Where("status_entrega = ''").
		Order("data, horario").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) DeliveryOutcomeStats(ctx context.Context, filter AccessFilter, since string) ([]model.CenterDeliveryStats, error) {
	var stats []model.CenterDeliveryStats
	err := GetDB(ctx, r.db).Model(&model.Appointment{}).Scopes(filter.Scope()).
		Select(`centro_distribuicao,
			SUM(CASE WHEN status_entrega = ? THEN 1 ELSE 0 END) AS arrived,
			SUM(CASE WHEN status_entrega = ? THEN 1 ELSE 0 END) AS arrived_late,
			SUM(CASE WHEN status_entrega = ? THEN 1 ELSE 0 END) AS no_show,
			COUNT(*) AS decided`,
			model.DeliveryArrived, model.DeliveryArrivedLate, model.DeliveryNoShow).
		Where("data >= ?", since).
		Where("status_entrega <> ''").
		Group("centro_distribuicao").
		Scan(&stats).Error
	return stats, err
}

func (r *appointmentRepository) PendingDeliveryCounts(ctx context.Context, filter AccessFilter, before string) (map[string]int64, error) {
	var rows []struct {
		CentroDistribuicao string
		Total              int64
	}
	err := GetDB(ctx, r.db).Model(&model.Appointment{}).Scopes(filter.Scope()).
		Select("centro_distribuicao, COUNT(*) AS total").
		Where("data < ?", before).
		Where("status IN ?", []model.AppointmentStatus{model.StatusConfirmed, model.StatusRescheduleSuggested}).
		Where("status_entrega = ''").
		Group("centro_distribuicao").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CentroDistribuicao] = row.Total
	}
	return counts, nil
}

func (r *appointmentRepository) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := GetDB(ctx, r.db).
		Where("created_at < ?", before).
		Delete(&model.Appointment{})
	return result.RowsAffected, result.Error
}
