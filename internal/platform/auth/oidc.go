package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

// OIDCAuthenticator verifies bearer ID tokens issued by the configured
// provider.
type OIDCAuthenticator struct {
	verifier   *oidc.IDTokenVerifier
	rolesClaim string
	emailClaim string
}

// NewOIDCAuthenticator discovers the provider, which needs network access
// to the issuer.
func NewOIDCAuthenticator(ctx context.Context, cfg Config) (*OIDCAuthenticator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode != ModeOIDC {
		return nil, fmt.Errorf("auth mode must be oidc (got %q)", cfg.Mode)
	}
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuerURL)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}
	return NewOIDCAuthenticatorWithVerifier(provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID}), cfg), nil
}

func NewOIDCAuthenticatorWithVerifier(verifier *oidc.IDTokenVerifier, cfg Config) *OIDCAuthenticator {
	return &OIDCAuthenticator{
		verifier:   verifier,
		rolesClaim: cfg.RolesClaim,
		emailClaim: cfg.EmailClaim,
	}
}

func (a *OIDCAuthenticator) Authenticate(ctx context.Context, r *http.Request) (Identity, error) {
	rawToken := tokenFromHeader(r)
	if rawToken == "" {
		return Identity{}, ErrUnauthenticated
	}

	idToken, err := a.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Identity{}, err
	}

	var claims map[string]any
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, err
	}

	subject := strings.TrimSpace(idToken.Subject)
	if subject == "" {
		return Identity{}, errors.New("token has no subject")
	}
	return Identity{
		Subject: subject,
		Email:   extractStringClaim(claims, a.emailClaim),
		Roles:   extractRolesClaim(claims, a.rolesClaim),
	}, nil
}

func tokenFromHeader(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func extractStringClaim(claims map[string]any, key string) string {
	v, _ := claims[key].(string)
	return strings.TrimSpace(v)
}

// extractRolesClaim accepts either a JSON array of strings or a single
// comma or space separated string.
func extractRolesClaim(claims map[string]any, key string) []string {
	switch v := claims[key].(type) {
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return normalizeRoles(values)
	case string:
		return normalizeRoles(strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }))
	default:
		return nil
	}
}
