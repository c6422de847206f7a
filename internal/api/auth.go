package api

import (
	"context"

	"santactl/internal/transport"
)

// AuthService binds the authentication endpoints.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyOTPResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Invite(ctx context.Context, req InviteRequest) (*InviteResponse, error)
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error)
	VerifyToken(ctx context.Context) (*VerifyTokenResponse, error)
}

type authService struct {
	client *transport.Client
}

// NewAuthService creates the auth facade.
func NewAuthService(client *transport.Client) AuthService {
	return &authService{client: client}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var res RegisterResponse
	if err := s.client.Post(ctx, "/auth/register", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*VerifyOTPResponse, error) {
	var res VerifyOTPResponse
	if err := s.client.Post(ctx, "/auth/verify-otp", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var res LoginResponse
	if err := s.client.Post(ctx, "/auth/login", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) Invite(ctx context.Context, req InviteRequest) (*InviteResponse, error) {
	var res InviteResponse
	if err := s.client.Post(ctx, "/auth/invite", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) Verify(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	var res VerifyResponse
	if err := s.client.Post(ctx, "/auth/verify", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *authService) VerifyToken(ctx context.Context) (*VerifyTokenResponse, error) {
	var res VerifyTokenResponse
	if err := s.client.Get(ctx, "/auth/verify-token", &res); err != nil {
		return nil, err
	}
	return &res, nil
}
