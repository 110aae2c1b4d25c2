// Package auth consumes access tokens minted by the external identity
// provider. The service never issues or refreshes credentials itself; it
// only verifies signatures and lifts the embedded claims into the request
// identity.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// ErrInvalidToken indicates the token failed signature or claim validation.
var ErrInvalidToken = errors.New("auth: invalid token")

// Verifier validates HS256 access tokens and extracts the caller identity.
type Verifier struct {
	Secret    []byte
	Issuer    string
	ClockSkew time.Duration
	Now       func() time.Time
}

func (v Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Parse verifies the raw token and returns the identity claims it carries.
// Tokens without a subject or company claim are rejected: an account that
// belongs to no company cannot be scoped to any data.
func (v Verifier) Parse(raw string) (common.Identity, error) {
	if len(v.Secret) == 0 {
		return common.Identity{}, errors.New("auth: verifier secret not configured")
	}
	options := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, v.Secret),
		jwt.WithValidate(true),
		jwt.WithClock(jwt.ClockFunc(v.now)),
	}
	if v.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(v.ClockSkew))
	}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	tok, err := jwt.Parse([]byte(raw), options...)
	if err != nil {
		return common.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id := common.Identity{
		UserID:    tok.Subject(),
		CompanyID: stringClaim(tok, "company_id"),
		AgencyID:  stringClaim(tok, "agency_id"),
		Role:      stringClaim(tok, "role"),
	}
	if id.UserID == "" {
		return common.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	if id.CompanyID == "" {
		return common.Identity{}, fmt.Errorf("%w: missing company claim", ErrInvalidToken)
	}
	if id.Role == "" {
		id.Role = common.RoleCustomer
	}
	return id, nil
}

func stringClaim(tok jwt.Token, name string) string {
	v, ok := tok.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
