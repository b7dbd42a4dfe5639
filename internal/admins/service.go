package admins

import (
	"context"
	"fmt"
)

// Service encapsulates admin-account business logic.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or refreshes an admin account from verified
// identity-provider claims. New accounts start as viewers until someone with
// a higher role promotes them. Returns nil when the claims carry no subject.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*Admin, error) {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if sub == "" {
		return nil, nil
	}
	a := &Admin{
		Sub:   sub,
		Email: email,
		Name:  name,
		Role:  RoleViewer,
	}
	return s.repo.UpsertBySub(ctx, a)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*Admin, error) {
	return s.repo.GetBySub(ctx, sub)
}

func (s *Service) List(ctx context.Context) ([]*Admin, error) {
	return s.repo.List(ctx)
}

// SetRole changes an account's role. Only known role strings are accepted.
func (s *Service) SetRole(ctx context.Context, sub, role string) error {
	if _, ok := roleRank[role]; !ok {
		return fmt.Errorf("unknown role %q", role)
	}
	return s.repo.SetRole(ctx, sub, role)
}

func (s *Service) Delete(ctx context.Context, sub string) error {
	return s.repo.DeleteBySub(ctx, sub)
}
