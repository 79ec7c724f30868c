package customers

import "context"

// Service handles customer business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateCustomer stores a new customer, defaulting type and status.
func (s *Service) CreateCustomer(ctx context.Context, c Customer) (Customer, error) {
	if c.Type == "" {
		c.Type = "INDIVIDUAL"
	}
	if c.Status == "" {
		c.Status = "ACTIVE"
	}
	return s.repo.CreateCustomer(ctx, c)
}

// GetCustomer returns a customer by id.
func (s *Service) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// ListCustomers returns all customers.
func (s *Service) ListCustomers(ctx context.Context) ([]Customer, error) {
	return s.repo.ListCustomers(ctx)
}

// DeleteCustomer removes a customer.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomer(ctx, id)
}
