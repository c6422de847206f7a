package store

import (
	"context"
	"sync"

	"santactl/internal/api"
)

// Admin caches the admin-only views: dashboard stats and the system-wide
// event and user lists.
type Admin struct {
	admin api.AdminService

	mu        sync.Mutex
	dashboard *api.AdminDashboardResponse
	allEvents *api.AdminEventsResponse
	allUsers  *api.AdminUsersResponse
}

// NewAdmin creates the admin store.
func NewAdmin(admin api.AdminService) *Admin {
	return &Admin{admin: admin}
}

// FetchDashboard loads and caches the dashboard stats.
func (s *Admin) FetchDashboard(ctx context.Context) (*api.AdminDashboardResponse, error) {
	res, err := s.admin.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.dashboard = res
	s.mu.Unlock()
	return res, nil
}

// FetchAllEvents loads and caches every event in the system.
func (s *Admin) FetchAllEvents(ctx context.Context) (*api.AdminEventsResponse, error) {
	res, err := s.admin.AllEvents(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.allEvents = res
	s.mu.Unlock()
	return res, nil
}

// FetchAllUsers loads and caches every user in the system.
func (s *Admin) FetchAllUsers(ctx context.Context) (*api.AdminUsersResponse, error) {
	res, err := s.admin.AllUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.allUsers = res
	s.mu.Unlock()
	return res, nil
}

// Dashboard returns the cached dashboard stats, or nil before the first
// fetch.
func (s *Admin) Dashboard() *api.AdminDashboardResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dashboard
}

// AllEvents returns the cached system-wide event list, or nil.
func (s *Admin) AllEvents() *api.AdminEventsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allEvents
}

// AllUsers returns the cached system-wide user list, or nil.
func (s *Admin) AllUsers() *api.AdminUsersResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allUsers
}
