package appointment

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

type memUsers struct {
	byID map[uuid.UUID]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[uuid.UUID]*model.User)}
}

func (m *memUsers) add(user *model.User) *model.User {
	m.byID[user.ID] = user
	return user
}

func (m *memUsers) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return user, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, user := range m.byID {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user")
}

func (m *memUsers) activeStaff(filter func(*model.User) bool) []*model.User {
	var staff []*model.User
	for _, user := range m.byID {
		if user.Role != model.RoleStaff || !user.Active {
			continue
		}
		if filter == nil || filter(user) {
			staff = append(staff, user)
		}
	}
	sort.Slice(staff, func(i, j int) bool {
		return staff[i].ID.String() < staff[j].ID.String()
	})
	return staff
}

func (m *memUsers) ListActiveStaffByDepartmentID(_ context.Context, departmentID uuid.UUID) ([]*model.User, error) {
	return m.activeStaff(func(u *model.User) bool {
		return u.DepartmentID != nil && *u.DepartmentID == departmentID
	}), nil
}

func (m *memUsers) ListActiveStaffByDepartmentName(_ context.Context, name string) ([]*model.User, error) {
	return m.activeStaff(func(u *model.User) bool {
		return strings.EqualFold(strings.TrimSpace(u.Department), strings.TrimSpace(name))
	}), nil
}

func (m *memUsers) ListActiveStaff(_ context.Context) ([]*model.User, error) {
	return m.activeStaff(nil), nil
}

type memDepartments struct {
	byID map[uuid.UUID]*model.Department
}

func newMemDepartments() *memDepartments {
	return &memDepartments{byID: make(map[uuid.UUID]*model.Department)}
}

func (m *memDepartments) add(department *model.Department) *model.Department {
	m.byID[department.ID] = department
	return department
}

func (m *memDepartments) Get(_ context.Context, id uuid.UUID) (*model.Department, error) {
	department, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("department")
	}
	return department, nil
}

type memServices struct {
	byID map[uuid.UUID]*model.Service
}

func newMemServices() *memServices {
	return &memServices{byID: make(map[uuid.UUID]*model.Service)}
}

func (m *memServices) add(service *model.Service) *model.Service {
	m.byID[service.ID] = service
	return service
}

func (m *memServices) Get(_ context.Context, id uuid.UUID) (*model.Service, error) {
	service, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("service")
	}
	return service, nil
}

func (m *memServices) sortedActive() []*model.Service {
	var services []*model.Service
	for _, service := range m.byID {
		if service.Active {
			services = append(services, service)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
	return services
}

func (m *memServices) FindActiveByName(_ context.Context, name string) (*model.Service, error) {
	for _, service := range m.sortedActive() {
		if strings.EqualFold(service.Name, name) {
			return service, nil
		}
	}
	return nil, apperrors.NotFound("service")
}

func (m *memServices) ListActive(_ context.Context) ([]*model.Service, error) {
	return m.sortedActive(), nil
}

func (m *memServices) ListByDepartment(_ context.Context, departmentID uuid.UUID) ([]*model.Service, error) {
	var services []*model.Service
	for _, service := range m.byID {
		if service.DepartmentID == departmentID {
			services = append(services, service)
		}
	}
	sort.Slice(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
	return services, nil
}

// memAppointments stores appointments and lets tests seed baseline workloads
// without materializing rows.
type memAppointments struct {
	byID     map[uuid.UUID]*model.Appointment
	workload map[uuid.UUID]int64
}

func newMemAppointments() *memAppointments {
	return &memAppointments{
		byID:     make(map[uuid.UUID]*model.Appointment),
		workload: make(map[uuid.UUID]int64),
	}
}

func (m *memAppointments) add(appointment *model.Appointment) *model.Appointment {
	copied := *appointment
	m.byID[appointment.ID] = &copied
	return appointment
}

func (m *memAppointments) stored(id uuid.UUID) *model.Appointment {
	return m.byID[id]
}

func (m *memAppointments) Create(_ context.Context, appointment *model.Appointment) error {
	copied := *appointment
	m.byID[appointment.ID] = &copied
	return nil
}

func (m *memAppointments) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	appointment, ok := m.byID[id]
	if !ok {
		return nil, apperrors.NotFound("appointment")
	}
	copied := *appointment
	return &copied, nil
}

func (m *memAppointments) Update(_ context.Context, appointment *model.Appointment) error {
	if _, ok := m.byID[appointment.ID]; !ok {
		return apperrors.NotFound("appointment")
	}
	copied := *appointment
	m.byID[appointment.ID] = &copied
	return nil
}

func (m *memAppointments) sorted(filter func(*model.Appointment) bool) []*model.Appointment {
	var appointments []*model.Appointment
	for _, appointment := range m.byID {
		if filter == nil || filter(appointment) {
			copied := *appointment
			appointments = append(appointments, &copied)
		}
	}
	sort.Slice(appointments, func(i, j int) bool {
		return appointments[i].ID.String() < appointments[j].ID.String()
	})
	return appointments
}

func (m *memAppointments) List(_ context.Context) ([]*model.Appointment, error) {
	return m.sorted(nil), nil
}

func (m *memAppointments) ListByClient(_ context.Context, clientID uuid.UUID) ([]*model.Appointment, error) {
	return m.sorted(func(a *model.Appointment) bool {
		return a.ClientID == clientID
	}), nil
}

func (m *memAppointments) ListByServices(_ context.Context, serviceIDs []uuid.UUID) ([]*model.Appointment, error) {
	wanted := make(map[uuid.UUID]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		wanted[id] = true
	}
	return m.sorted(func(a *model.Appointment) bool {
		return a.ServiceID != nil && wanted[*a.ServiceID]
	}), nil
}

func (m *memAppointments) ListUnassigned(_ context.Context) ([]*model.Appointment, error) {
	return m.sorted(func(a *model.Appointment) bool {
		return a.StaffID == nil
	}), nil
}

func (m *memAppointments) CountByStaff(_ context.Context, staffID uuid.UUID) (int64, error) {
	count := m.workload[staffID]
	for _, appointment := range m.byID {
		if appointment.StaffID != nil && *appointment.StaffID == staffID {
			count++
		}
	}
	return count, nil
}

func (m *memAppointments) AssignStaffBatch(_ context.Context, appointments []*model.Appointment) error {
	for _, appointment := range appointments {
		stored, ok := m.byID[appointment.ID]
		if !ok || stored.StaffID != nil {
			continue
		}
		stored.StaffID = appointment.StaffID
		stored.Location = appointment.Location
	}
	return nil
}

type notifyCall struct {
	userID  uuid.UUID
	kind    model.NotificationType
	title   string
	message string
}

type fakeNotifier struct {
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, userID uuid.UUID, kind model.NotificationType, title, message string) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, notifyCall{userID: userID, kind: kind, title: title, message: message})
	return nil
}

type emailCall struct {
	appointmentID uuid.UUID
	status        model.AppointmentStatus
}

type fakeEmail struct {
	calls []emailCall
	err   error
}

func (f *fakeEmail) SendStatusEmail(_ context.Context, appointment *model.Appointment, _ *model.User, status model.AppointmentStatus) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, emailCall{appointmentID: appointment.ID, status: status})
	return nil
}

var fixedNow = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	users        *memUsers
	departments  *memDepartments
	services     *memServices
	appointments *memAppointments
	notifier     *fakeNotifier
	email        *fakeEmail
	svc          *Service
}

func newFixture() *fixture {
	f := &fixture{
		users:        newMemUsers(),
		departments:  newMemDepartments(),
		services:     newMemServices(),
		appointments: newMemAppointments(),
		notifier:     &fakeNotifier{},
		email:        &fakeEmail{},
	}
	f.svc = NewService(
		f.appointments,
		f.users,
		f.departments,
		f.services,
		f.notifier,
		f.email,
		metrics.New("test", prometheus.NewRegistry()),
		logger.NewLogger(&logger.Config{
			Level:      logger.ErrorLevel,
			TimeFormat: time.RFC3339,
			Output:     io.Discard,
		}),
		DefaultHours(),
		"Main Office",
	)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) addDepartment(name string) *model.Department {
	return f.departments.add(&model.Department{
		ID:     uuid.New(),
		Name:   name,
		Active: true,
	})
}

func (f *fixture) addService(department *model.Department, name string, active bool) *model.Service {
	return f.services.add(&model.Service{
		ID:           uuid.New(),
		DepartmentID: department.ID,
		Name:         name,
		Active:       active,
	})
}

func (f *fixture) addStaff(name string, mutate func(*model.User)) *model.User {
	created := fixedNow.Add(-24 * time.Hour)
	staff := &model.User{
		ID:        uuid.New(),
		Email:     name + "@example.com",
		FullName:  name,
		Role:      model.RoleStaff,
		Active:    true,
		CreatedAt: &created,
	}
	if mutate != nil {
		mutate(staff)
	}
	return f.users.add(staff)
}

func (f *fixture) addClient(name string) *model.User {
	created := fixedNow.Add(-48 * time.Hour)
	return f.users.add(&model.User{
		ID:        uuid.New(),
		Email:     name + "@example.com",
		FullName:  name,
		Role:      model.RoleClient,
		Active:    true,
		CreatedAt: &created,
	})
}

func (f *fixture) addAppointment(mutate func(*model.Appointment)) *model.Appointment {
	appointment := &model.Appointment{
		ID:        uuid.New(),
		ClientID:  uuid.New(),
		Date:      mustDate("2026-02-16"), // a Monday
		Time:      model.NewTimeOfDay(10, 0),
		Location:  "Main Office",
		Status:    model.AppointmentStatusPending,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	if mutate != nil {
		mutate(appointment)
	}
	return f.appointments.add(appointment)
}

func mustDate(value string) time.Time {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return date
}

func strptr(v string) *string {
	return &v
}
