package dto

import (
	"fmt"
	"strings"

	"pybank/internal/domain/customer"
)

type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (r *CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.TrimSpace(r.Email) == "" {
		return fmt.Errorf("email cannot be empty")
	}
	if strings.TrimSpace(r.Phone) == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	return nil
}

// UpdateCustomerRequest carries only the fields to change; nil fields are
// left untouched.
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

func (r *UpdateCustomerRequest) Validate() error {
	if r.Name == nil && r.Email == nil && r.Phone == nil {
		return fmt.Errorf("at least one field must be provided")
	}
	return nil
}

type CustomerResponse struct {
	CustomerID string `json:"customerId"`
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	CreateDate string `json:"createDate"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		CustomerID: cust.CustomerID,
		UserID:     cust.UserID,
		Name:       cust.Name,
		Email:      cust.Email,
		Phone:      cust.Phone,
		CreateDate: cust.CreateAt.String(),
	}
}

func NewCustomerListResponse(customers []*customer.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for _, cust := range customers {
		out = append(out, NewCustomerResponse(cust))
	}
	return out
}
