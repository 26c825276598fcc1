package appointment

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/jwalitptl/booking-api/internal/model"
	apperrors "github.com/jwalitptl/booking-api/pkg/errors"
)

// eligibleStaff returns the active staff qualified for a service: the union
// of a department-id match, a case-insensitive department-name match and an
// indirect match through a directly assigned service in the same department.
// The three paths tolerate inconsistently populated legacy staff records.
func (s *Service) eligibleStaff(ctx context.Context, service *model.Service) ([]*model.User, error) {
	var pool []*model.User

	byDepartmentID, err := s.users.ListActiveStaffByDepartmentID(ctx, service.DepartmentID)
	if err != nil {
		return nil, err
	}
	pool = append(pool, byDepartmentID...)

	department, err := s.departments.Get(ctx, service.DepartmentID)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if department != nil {
		byDepartmentName, err := s.users.ListActiveStaffByDepartmentName(ctx, department.Name)
		if err != nil {
			return nil, err
		}
		pool = append(pool, byDepartmentName...)
	}

	// Legacy fallback: staff with no department fields but a service id in
	// the same department.
	allStaff, err := s.users.ListActiveStaff(ctx)
	if err != nil {
		return nil, err
	}
	for _, staff := range allStaff {
		if staff.ServiceID == nil {
			continue
		}
		staffService, err := s.services.Get(ctx, *staff.ServiceID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if staffService.DepartmentID == service.DepartmentID {
			pool = append(pool, staff)
		}
	}

	seen := make(map[uuid.UUID]bool, len(pool))
	unique := pool[:0]
	for _, staff := range pool {
		if seen[staff.ID] {
			continue
		}
		seen[staff.ID] = true
		unique = append(unique, staff)
	}
	return unique, nil
}

// belongsTo reports whether a staff member is qualified for a service using
// the same three-way matching as eligibleStaff.
func (s *Service) belongsTo(ctx context.Context, staff *model.User, service *model.Service) (bool, error) {
	if staff.DepartmentID != nil && *staff.DepartmentID == service.DepartmentID {
		return true, nil
	}
	if strings.TrimSpace(staff.Department) != "" {
		department, err := s.departments.Get(ctx, service.DepartmentID)
		if err != nil && !apperrors.IsNotFound(err) {
			return false, err
		}
		if department != nil && strings.EqualFold(strings.TrimSpace(staff.Department), department.Name) {
			return true, nil
		}
	}
	if staff.ServiceID != nil {
		staffService, err := s.services.Get(ctx, *staff.ServiceID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		return staffService.DepartmentID == service.DepartmentID, nil
	}
	return false, nil
}

// chooseStaff picks the least-loaded eligible staff member for a service.
// Ties break on account creation time (older wins, unknown sorts last), then
// on staff id, so repeated runs over the same data pick the same member.
// Returns nil with no error when nobody is eligible.
func (s *Service) chooseStaff(ctx context.Context, service *model.Service) (*model.User, error) {
	pool, err := s.eligibleStaff(ctx, service)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		staff    *model.User
		workload int64
	}
	var candidates []candidate
	for _, staff := range pool {
		belongs, err := s.belongsTo(ctx, staff, service)
		if err != nil {
			return nil, err
		}
		if !belongs {
			continue
		}
		workload, err := s.appointments.CountByStaff(ctx, staff.ID)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{staff: staff, workload: workload})
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.workload != b.workload {
			return a.workload < b.workload
		}
		switch {
		case a.staff.CreatedAt == nil && b.staff.CreatedAt != nil:
			return false
		case a.staff.CreatedAt != nil && b.staff.CreatedAt == nil:
			return true
		case a.staff.CreatedAt != nil && b.staff.CreatedAt != nil:
			if !a.staff.CreatedAt.Equal(*b.staff.CreatedAt) {
				return a.staff.CreatedAt.Before(*b.staff.CreatedAt)
			}
		}
		return bytes.Compare(a.staff.ID[:], b.staff.ID[:]) < 0
	})
	return candidates[0].staff, nil
}
