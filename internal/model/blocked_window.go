package model

import (
	"time"

	"github.com/google/uuid"
)

// BlockedWindow is a staff-defined time range during which no delivery
// may be scheduled at a distribution center. Unlike appointment slots,
// windows have arbitrary start/end times and conflict by true interval
// overlap.
type BlockedWindow struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CentroDistribuicao string    `gorm:"type:varchar(100);not null;index:idx_bloqueios_dia" json:"centro_distribuicao"`
	Data               string    `gorm:"type:varchar(10);not null;index:idx_bloqueios_dia" json:"data"`
	HoraInicio         string    `gorm:"type:varchar(5);not null" json:"hora_inicio"`
	HoraFim            string    `gorm:"type:varchar(5);not null" json:"hora_fim"`
	Motivo             string    `gorm:"type:text" json:"motivo,omitempty"`
	CriadoPor          string    `gorm:"type:varchar(255)" json:"criado_por,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (BlockedWindow) TableName() string {
	return "bloqueios_horarios"
}

// Overlaps reports whether the window intersects [start,end).
func (w BlockedWindow) Overlaps(start, end string) bool {
	return IntervalsOverlap(w.HoraInicio, w.HoraFim, start, end)
}
