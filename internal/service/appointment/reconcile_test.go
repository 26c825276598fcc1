package appointment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booking-api/internal/model"
)

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Heart Checkup", "heart checkup"},
		{"  General--Check_Up!  ", "general check up"},
		{"X-Ray (Chest)", "x ray chest"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeLabel(tt.in))
	}
}

func TestReconcileAssignsAndIsIdempotent(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Cardiology")
	service := f.addService(department, "Heart Checkup", true)
	staff := f.addStaff("nurse", func(u *model.User) {
		u.DepartmentID = &department.ID
	})

	first := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &service.ID
	})
	second := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &service.ID
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Assigned)
	require.Len(t, report.Results, 2)
	for _, result := range report.Results {
		assert.Equal(t, OutcomeAssigned, result.Outcome)
		require.NotNil(t, result.StaffID)
		assert.Equal(t, staff.ID, *result.StaffID)
	}

	require.NotNil(t, f.appointments.stored(first.ID).StaffID)
	require.NotNil(t, f.appointments.stored(second.ID).StaffID)

	// A second sweep finds nothing left to do.
	report, err = f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Assigned)
	assert.Empty(t, report.Results)
}

func TestReconcileResolvesServiceByName(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Cardiology")
	f.addService(department, "Heart Checkup", true)
	staff := f.addStaff("nurse", func(u *model.User) {
		u.DepartmentID = &department.ID
	})

	stale := uuid.New()
	appointment := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &stale
		a.ServiceName = "heart CHECKUP"
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Assigned)

	stored := f.appointments.stored(appointment.ID)
	require.NotNil(t, stored.StaffID)
	assert.Equal(t, staff.ID, *stored.StaffID)
}

func TestReconcileResolvesServiceByNormalizedLabel(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Radiology")
	f.addService(department, "X-Ray (Chest)", true)
	staff := f.addStaff("tech", func(u *model.User) {
		u.DepartmentID = &department.ID
	})

	appointment := f.addAppointment(func(a *model.Appointment) {
		a.ServiceName = "x ray   chest"
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Assigned)

	stored := f.appointments.stored(appointment.ID)
	require.NotNil(t, stored.StaffID)
	assert.Equal(t, staff.ID, *stored.StaffID)
}

func TestReconcileSkipsInactiveService(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Cardiology")
	service := f.addService(department, "Heart Checkup", false)
	f.addStaff("nurse", func(u *model.User) {
		u.DepartmentID = &department.ID
	})

	appointment := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &service.ID
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Assigned)
	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeSkipped, report.Results[0].Outcome)
	assert.Equal(t, "no active service resolvable", report.Results[0].Reason)
	assert.Nil(t, f.appointments.stored(appointment.ID).StaffID)
}

func TestReconcileSkipsWhenNoStaffEligible(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Cardiology")
	service := f.addService(department, "Heart Checkup", true)

	f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &service.ID
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Assigned)
	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeSkipped, report.Results[0].Outcome)
	assert.Equal(t, "no eligible staff", report.Results[0].Reason)
}

func TestReconcileSkipsUnresolvableService(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Cardiology")
	f.addService(department, "Heart Checkup", true)
	f.addStaff("nurse", func(u *model.User) {
		u.DepartmentID = &department.ID
	})

	f.addAppointment(func(a *model.Appointment) {
		a.ServiceName = "no such service"
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Assigned)
	require.Len(t, report.Results, 1)
	assert.Equal(t, OutcomeSkipped, report.Results[0].Outcome)
}

func TestReconcileBackfillsLocation(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Cardiology")
	service := f.addService(department, "Heart Checkup", true)
	f.addStaff("nurse", func(u *model.User) {
		u.DepartmentID = &department.ID
		u.Department = "Cardiology Wing"
	})

	placeholder := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &service.ID
		a.Location = "Unassigned"
	})
	blank := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &service.ID
		a.Location = "   "
	})
	explicit := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &service.ID
		a.Location = "Room 4"
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Assigned)

	assert.Equal(t, "Cardiology Wing", f.appointments.stored(placeholder.ID).Location)
	assert.Equal(t, "Cardiology Wing", f.appointments.stored(blank.ID).Location)
	assert.Equal(t, "Room 4", f.appointments.stored(explicit.ID).Location)
}

func TestReconcileOneFailureDoesNotAbortSweep(t *testing.T) {
	f := newFixture()
	department := f.addDepartment("Cardiology")
	healthy := f.addService(department, "Heart Checkup", true)
	broken := f.addService(department, "Bad Service", false)
	f.addStaff("nurse", func(u *model.User) {
		u.DepartmentID = &department.ID
	})

	skipped := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &broken.ID
	})
	assigned := f.addAppointment(func(a *model.Appointment) {
		a.ServiceID = &healthy.ID
	})

	report, err := f.svc.ReconcileUnassigned(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Assigned)
	require.Len(t, report.Results, 2)

	outcomes := make(map[uuid.UUID]ReconcileOutcome, 2)
	for _, result := range report.Results {
		outcomes[result.AppointmentID] = result.Outcome
	}
	assert.Equal(t, OutcomeSkipped, outcomes[skipped.ID])
	assert.Equal(t, OutcomeAssigned, outcomes[assigned.ID])
	require.NotNil(t, f.appointments.stored(assigned.ID).StaffID)
	assert.Nil(t, f.appointments.stored(skipped.ID).StaffID)
}
