// Package cached provides read-through caches over the department and
// service directories. The reconciliation sweep resolves the same handful of
// services and departments for every unassigned appointment, so short-lived
// caching keeps it from hammering the catalog tables.
package cached

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/booking-api/internal/model"
	"github.com/jwalitptl/booking-api/internal/repository"
)

const (
	defaultExpiration = 5 * time.Minute
	cleanupInterval   = 10 * time.Minute
)

type departmentRepository struct {
	inner repository.DepartmentRepository
	cache *cache.Cache
}

func NewDepartmentRepository(inner repository.DepartmentRepository) repository.DepartmentRepository {
	return &departmentRepository{
		inner: inner,
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (r *departmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Department, error) {
	key := "department:" + id.String()
	if cached, found := r.cache.Get(key); found {
		return cached.(*model.Department), nil
	}

	department, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, department, cache.DefaultExpiration)
	return department, nil
}

type serviceRepository struct {
	inner repository.ServiceRepository
	cache *cache.Cache
}

func NewServiceRepository(inner repository.ServiceRepository) repository.ServiceRepository {
	return &serviceRepository{
		inner: inner,
		cache: cache.New(defaultExpiration, cleanupInterval),
	}
}

func (r *serviceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Service, error) {
	key := "service:" + id.String()
	if cached, found := r.cache.Get(key); found {
		return cached.(*model.Service), nil
	}

	service, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, service, cache.DefaultExpiration)
	return service, nil
}

func (r *serviceRepository) FindActiveByName(ctx context.Context, name string) (*model.Service, error) {
	key := "service:name:" + strings.ToLower(strings.TrimSpace(name))
	if cached, found := r.cache.Get(key); found {
		return cached.(*model.Service), nil
	}

	service, err := r.inner.FindActiveByName(ctx, name)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, service, cache.DefaultExpiration)
	return service, nil
}

func (r *serviceRepository) ListActive(ctx context.Context) ([]*model.Service, error) {
	const key = "services:active"
	if cached, found := r.cache.Get(key); found {
		return cached.([]*model.Service), nil
	}

	services, err := r.inner.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.Set(key, services, cache.DefaultExpiration)
	return services, nil
}

func (r *serviceRepository) ListByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.Service, error) {
	return r.inner.ListByDepartment(ctx, departmentID)
}
