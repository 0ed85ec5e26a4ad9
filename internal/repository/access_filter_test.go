package repository

import (
	"testing"

	"github.com/WandevPB/brisagenda-backend/internal/model"

	"github.com/stretchr/testify/require"
)

func TestFilterFor(t *testing.T) {
	admin := FilterFor(model.RoleAdmin, model.CenterAll)
	require.True(t, admin.AllCenters)
	require.True(t, admin.Allows("Bahia"))
	require.True(t, admin.Allows("Pernambuco"))

	consultivo := FilterFor(model.RoleConsultivo, model.CenterAll)
	require.True(t, consultivo.AllCenters)

	institution := FilterFor(model.RoleInstitution, "Bahia")
	require.False(t, institution.AllCenters)
	require.True(t, institution.Allows("Bahia"))
	require.False(t, institution.Allows("Pernambuco"))
}
