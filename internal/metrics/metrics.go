package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AppointmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brisagenda_appointments_created_total",
		Help: "Total number of appointments successfully created.",
	})

	SlotConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brisagenda_slot_conflicts_total",
		Help: "Total number of create/reschedule requests rejected because the slot was occupied.",
	})

	DeliveriesConfirmedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brisagenda_deliveries_confirmed_total",
		Help: "Total number of delivery outcomes recorded, by outcome.",
	},
		[]string{"outcome"},
	)

	AppointmentsPurgedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brisagenda_appointments_purged_total",
		Help: "Total number of appointment rows removed by retention cleanup.",
	})

	LoginFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brisagenda_login_failures_total",
		Help: "Total number of failed login attempts.",
	})
)
