package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus is the lifecycle status of a delivery appointment.
type AppointmentStatus string

const (
	StatusPendingConfirmation AppointmentStatus = "pending_confirmation"
	StatusConfirmed           AppointmentStatus = "confirmed"
	StatusRescheduleSuggested AppointmentStatus = "reschedule_suggested"
)

func (s AppointmentStatus) String() string {
	return string(s)
}

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPendingConfirmation, StatusConfirmed, StatusRescheduleSuggested:
		return true
	default:
		return false
	}
}

// IsActive reports whether an appointment in this status still occupies
// its slot for conflict-detection purposes.
func (s AppointmentStatus) IsActive() bool {
	return s.IsValid()
}

// ActiveStatuses returns the statuses that block a slot.
func ActiveStatuses() []AppointmentStatus {
	return []AppointmentStatus{StatusPendingConfirmation, StatusConfirmed, StatusRescheduleSuggested}
}

// DeliveryStatus is the secondary status track recording whether the
// delivery actually happened on the scheduled date.
type DeliveryStatus string

const (
	DeliveryUnset       DeliveryStatus = ""
	DeliveryArrived     DeliveryStatus = "arrived"
	DeliveryNoShow      DeliveryStatus = "no_show"
	DeliveryArrivedLate DeliveryStatus = "arrived_late"
)

func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid accepts only the settable outcomes, not the unset zero value.
func (d DeliveryStatus) IsValid() bool {
	switch d {
	case DeliveryArrived, DeliveryNoShow, DeliveryArrivedLate:
		return true
	default:
		return false
	}
}

// IsAttended reports whether the outcome counts toward the attendance rate.
func (d DeliveryStatus) IsAttended() bool {
	return d == DeliveryArrived || d == DeliveryArrivedLate
}

// DistributionCenters is the fixed set of facilities that receive deliveries.
var DistributionCenters = []string{
	"Bahia",
	"Pernambuco",
	"Ceará",
	"Paraíba",
	"Rio Grande do Norte",
	"Alagoas",
	"Sergipe",
}

// IsValidCenter reports whether name is one of the fixed distribution centers.
func IsValidCenter(name string) bool {
	for _, c := range DistributionCenters {
		if c == name {
			return true
		}
	}
	return false
}

// TimeSlots is the fixed set of hour-long delivery windows per day,
// identified by their start time.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00",
	"13:00", "14:00", "15:00", "16:00",
}

// IsValidSlot reports whether slot is one of the fixed hourly windows.
func IsValidSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// SlotEnd returns the exclusive end of the hour-long window starting at slot.
func SlotEnd(slot string) string {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return slot
	}
	return t.Add(time.Hour).Format("15:04")
}

// IntervalsOverlap reports whether [aStart,aEnd) and [bStart,bEnd) overlap.
// Times are zero-padded HH:MM strings, so lexicographic order is
// chronological order.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// Appointment represents one delivery request at a distribution center.
// Dates are YYYY-MM-DD and slots HH:MM, both validated at the boundary.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Empresa         string          `gorm:"type:varchar(255);not null" json:"empresa"`
	Email           string          `gorm:"type:varchar(255);not null" json:"email"`
	Telefone        string          `gorm:"type:varchar(20);not null" json:"telefone"`
	NotaFiscal      string          `gorm:"type:varchar(100);not null" json:"nota_fiscal"`
	NumeroPedido    string          `gorm:"type:varchar(100)" json:"numero_pedido"`
	Volume          string          `gorm:"type:varchar(255)" json:"volume"`
	ValorNotaFiscal decimal.Decimal `gorm:"type:numeric(14,2)" json:"valor_nota_fiscal"`
	DocumentoURL    string          `gorm:"type:text" json:"documento_url,omitempty"`

	CentroDistribuicao string `gorm:"type:varchar(100);not null;index:idx_agendamentos_slot" json:"centro_distribuicao"`
	Data               string `gorm:"type:varchar(10);not null;index:idx_agendamentos_slot" json:"data"`
	Horario            string `gorm:"type:varchar(5);not null;index:idx_agendamentos_slot" json:"horario"`

	Status        AppointmentStatus `gorm:"type:varchar(30);not null;default:'pending_confirmation';index" json:"status"`
	ConfirmadoPor string            `gorm:"type:varchar(255)" json:"confirmado_por,omitempty"`
	Observacoes   string            `gorm:"type:text" json:"observacoes,omitempty"`

	StatusEntrega        DeliveryStatus `gorm:"type:varchar(20);default:''" json:"status_entrega,omitempty"`
	EntregaConfirmadaPor string         `gorm:"type:varchar(255)" json:"entrega_confirmada_por,omitempty"`
	EntregaConfirmadaEm  *time.Time     `json:"entrega_confirmada_em,omitempty"`
	ObservacoesEntrega   string         `gorm:"type:text" json:"observacoes_entrega,omitempty"`
	HorarioChegada       string         `gorm:"type:varchar(5)" json:"horario_chegada,omitempty"`
	ChegouNoHorario      bool           `json:"chegou_no_horario"`
	TransportadoraAvisou bool           `json:"transportadora_avisou"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table name used by the frontend and reports.
func (Appointment) TableName() string {
	return "agendamentos"
}

// CenterDeliveryStats aggregates delivery outcomes for one distribution
// center over a trailing window.
type CenterDeliveryStats struct {
	CentroDistribuicao string `json:"centro_distribuicao"`
	Arrived            int64  `json:"arrived"`
	ArrivedLate        int64  `json:"arrived_late"`
	NoShow             int64  `json:"no_show"`
	Decided            int64  `json:"decided"`
	Pending            int64  `json:"pending"`
	AttendanceRate     int    `json:"attendance_rate"`
}
