package services

import (
	"context"
	"testing"

	"qraksha/internal/adapters/cache"
	"qraksha/internal/adapters/persistence/models"
	"qraksha/internal/config"
	"qraksha/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryService_ListEmployees(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := validRegistration("alice")
	a.Name, a.Department, a.BloodType = "Alice", "Ops", "A+"
	a.MedicalConditions = []string{"Asthma"}
	b := validRegistration("bob")
	b.Name, b.Department, b.BloodType = "Bob", "Eng", "O+"
	c := validRegistration("carol")
	c.Name, c.Department, c.BloodType = "Carol", "Eng", "A+"
	for _, in := range []*RegisterInput{c, a, b} {
		f.register(t, in)
	}

	names := func(list []*models.EmployeeResponse) []string {
		out := make([]string, len(list))
		for i, e := range list {
			out[i] = e.Name
		}
		return out
	}

	tests := []struct {
		name   string
		filter domain.EmployeeFilter
		want   []string
	}{
		{"all ordered by name", domain.EmployeeFilter{}, []string{"Alice", "Bob", "Carol"}},
		{"department", domain.EmployeeFilter{Department: "Eng"}, []string{"Bob", "Carol"}},
		{"blood type", domain.EmployeeFilter{BloodType: "A+"}, []string{"Alice", "Carol"}},
		{"condition query", domain.EmployeeFilter{Query: "asth"}, []string{"Alice"}},
		{"name query and department", domain.EmployeeFilter{Query: "CAR", Department: "Eng"}, []string{"Carol"}},
		{"nothing", domain.EmployeeFilter{Department: "HR"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := f.directory.ListEmployees(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(list))
		})
	}
}

func TestDirectoryService_GetEmployee(t *testing.T) {
	f := newFixture(t)
	e := f.register(t, validRegistration("jdoe"))

	got, err := f.directory.GetEmployee(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ID, got.ID)
	require.Len(t, got.EmergencyContacts, 1)

	_, err = f.directory.GetEmployee(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestDirectoryService_DeleteOrphansAlerts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.register(t, validRegistration("jdoe"))
	alert, err := f.alerts.TriggerSOS(ctx, e.ID, nil)
	require.NoError(t, err)
	_, err = f.employee.GetPublicProfile(ctx, e.ID)
	require.NoError(t, err)

	require.NoError(t, f.directory.DeleteEmployee(ctx, e.ID))

	_, err = f.directory.GetEmployee(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	_, err = f.cache.Get(ctx, cache.EmployeeKey(e.ID))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	var contacts int64
	require.NoError(t, f.db.Model(&models.EmergencyContact{}).Where("employee_id = ?", e.ID).Count(&contacts).Error)
	assert.Zero(t, contacts)

	alerts, err := f.alerts.ListAlerts(ctx, "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, alert.ID, alerts[0].ID)
	assert.True(t, alerts[0].EmployeeMissing)
	assert.Empty(t, alerts[0].EmployeeName)

	assert.ErrorIs(t, f.directory.DeleteEmployee(ctx, e.ID), domain.ErrEmployeeNotFound)
}

func TestDirectoryService_DeleteCascade(t *testing.T) {
	f := newFixture(t)
	f.cfg.Alerts.DeletePolicy = config.AlertPolicyCascade
	ctx := context.Background()

	gone := f.register(t, validRegistration("jdoe"))
	kept := f.register(t, validRegistration("other"))
	_, err := f.alerts.TriggerSOS(ctx, gone.ID, nil)
	require.NoError(t, err)
	_, err = f.alerts.TriggerSOS(ctx, kept.ID, nil)
	require.NoError(t, err)

	require.NoError(t, f.directory.DeleteEmployee(ctx, gone.ID))

	alerts, err := f.alerts.ListAlerts(ctx, "")
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, kept.ID, alerts[0].EmployeeID)
	assert.False(t, alerts[0].EmployeeMissing)
}
