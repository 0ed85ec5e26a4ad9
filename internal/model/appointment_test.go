package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppointmentStatusIsValid(t *testing.T) {
	require.True(t, StatusPendingConfirmation.IsValid())
	require.True(t, StatusConfirmed.IsValid())
	require.True(t, StatusRescheduleSuggested.IsValid())
	require.False(t, AppointmentStatus("cancelled").IsValid())
	require.False(t, AppointmentStatus("").IsValid())
}

func TestDeliveryStatusIsValid(t *testing.T) {
	require.True(t, DeliveryArrived.IsValid())
	require.True(t, DeliveryNoShow.IsValid())
	require.True(t, DeliveryArrivedLate.IsValid())
	// The unset zero value is not a settable outcome
	require.False(t, DeliveryUnset.IsValid())
	require.False(t, DeliveryStatus("late").IsValid())
}

func TestDeliveryStatusIsAttended(t *testing.T) {
	require.True(t, DeliveryArrived.IsAttended())
	require.True(t, DeliveryArrivedLate.IsAttended())
	require.False(t, DeliveryNoShow.IsAttended())
	require.False(t, DeliveryUnset.IsAttended())
}

func TestIsValidCenter(t *testing.T) {
	require.True(t, IsValidCenter("Bahia"))
	require.True(t, IsValidCenter("Pernambuco"))
	require.False(t, IsValidCenter("bahia"))
	require.False(t, IsValidCenter("São Paulo"))
	require.False(t, IsValidCenter(""))
}

func TestIsValidSlot(t *testing.T) {
	require.True(t, IsValidSlot("08:00"))
	require.True(t, IsValidSlot("16:00"))
	require.False(t, IsValidSlot("12:00")) // lunch break, not a slot
	require.False(t, IsValidSlot("8:00"))
	require.False(t, IsValidSlot(""))
}

func TestSlotEnd(t *testing.T) {
	require.Equal(t, "09:00", SlotEnd("08:00"))
	require.Equal(t, "17:00", SlotEnd("16:00"))
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"identical", "08:00", "09:00", "08:00", "09:00", true},
		{"partial overlap", "08:00", "10:00", "09:00", "11:00", true},
		{"contained", "08:00", "12:00", "09:00", "10:00", true},
		{"adjacent", "08:00", "09:00", "09:00", "10:00", false},
		{"disjoint", "08:00", "09:00", "10:00", "11:00", false},
		{"one minute overlap", "08:00", "09:01", "09:00", "10:00", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IntervalsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric
			require.Equal(t, tt.want, IntervalsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}
