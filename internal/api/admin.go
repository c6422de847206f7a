package api

import (
	"context"

	"santactl/internal/model"
	"santactl/internal/transport"
)

// AdminDashboardResponse summarizes system-wide activity for admins.
type AdminDashboardResponse struct {
	Message string `json:"message"`
	Stats   struct {
		TotalUsers        int `json:"totalUsers"`
		TotalEvents       int `json:"totalEvents"`
		TotalParticipants int `json:"totalParticipants"`
		RecentEvents      int `json:"recentEvents"`
		ActiveEvents      int `json:"activeEvents"`
	} `json:"stats"`
	Timestamp string `json:"timestamp"`
}

// AdminEventsResponse lists every event in the system.
type AdminEventsResponse struct {
	Message string        `json:"message"`
	Events  []model.Event `json:"events"`
	Total   int           `json:"total"`
}

// AdminUsersResponse lists every user in the system.
type AdminUsersResponse struct {
	Message string       `json:"message"`
	Users   []model.User `json:"users"`
	Total   int          `json:"total"`
}

// AdminService binds the admin-only endpoints.
type AdminService interface {
	Dashboard(ctx context.Context) (*AdminDashboardResponse, error)
	AllEvents(ctx context.Context) (*AdminEventsResponse, error)
	AllUsers(ctx context.Context) (*AdminUsersResponse, error)
}

type adminService struct {
	client *transport.Client
}

// NewAdminService creates the admin facade.
func NewAdminService(client *transport.Client) AdminService {
	return &adminService{client: client}
}

func (s *adminService) Dashboard(ctx context.Context) (*AdminDashboardResponse, error) {
	var res AdminDashboardResponse
	if err := s.client.Get(ctx, "/admin/dashboard", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *adminService) AllEvents(ctx context.Context) (*AdminEventsResponse, error) {
	var res AdminEventsResponse
	if err := s.client.Get(ctx, "/admin/events", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *adminService) AllUsers(ctx context.Context) (*AdminUsersResponse, error) {
	var res AdminUsersResponse
	if err := s.client.Get(ctx, "/admin/users", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
