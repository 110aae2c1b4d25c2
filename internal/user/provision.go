package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Hectotor/Inventory-web-sub000/internal/obs"
)

// ErrProvisioningFailed is returned when the identity provider rejects an
// account creation request.
var ErrProvisioningFailed = errors.New("account provisioning failed")

// Provisioner creates login credentials at the external identity provider
// after a user row exists locally.
type Provisioner struct {
	client *resty.Client
}

// NewProvisioner builds a client for the provisioning endpoint. An empty
// baseURL disables provisioning (Provision becomes a no-op).
func NewProvisioner(baseURL, apiKey string) *Provisioner {
	if baseURL == "" {
		return &Provisioner{}
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Authorization", "Bearer "+apiKey).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Provisioner{client: client}
}

type provisionRequest struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

type provisionResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// Provision asks the identity provider to create credentials for the user.
func (p *Provisioner) Provision(ctx context.Context, u User) (string, error) {
	if p == nil || p.client == nil {
		return "", nil
	}

	var out provisionResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(provisionRequest{
			UserID:    u.ID,
			CompanyID: u.CompanyID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      u.Role,
		}).
		SetResult(&out).
		Post("/accounts")
	if err != nil {
		countProvision("error")
		return "", fmt.Errorf("provision account: %w", err)
	}
	if resp.IsError() {
		countProvision("rejected")
		return "", fmt.Errorf("%w: status %d", ErrProvisioningFailed, resp.StatusCode())
	}
	countProvision("ok")
	return out.Message, nil
}

func countProvision(result string) {
	if obs.ProvisioningRequestsTotal != nil {
		obs.ProvisioningRequestsTotal.WithLabelValues(result).Inc()
	}
}
