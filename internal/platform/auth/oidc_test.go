package auth

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-jose/go-jose/v4"
	"github.com/google/go-cmp/cmp"
)

const testIssuer = "https://issuer.example.test"

func newTestOIDC(t *testing.T) (*OIDCAuthenticator, func(claims map[string]any) string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey() err=%v", err)
	}
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: key}, (&jose.SignerOptions{}).WithType("JWT"))
	if err != nil {
		t.Fatalf("NewSigner() err=%v", err)
	}
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	verifier := oidc.NewVerifier(testIssuer, keySet, &oidc.Config{ClientID: "views"})
	cfg := Config{Mode: ModeOIDC, RolesClaim: "groups", EmailClaim: "email"}

	sign := func(claims map[string]any) string {
		payload, err := json.Marshal(claims)
		if err != nil {
			t.Fatalf("Marshal() err=%v", err)
		}
		jws, err := signer.Sign(payload)
		if err != nil {
			t.Fatalf("Sign() err=%v", err)
		}
		token, err := jws.CompactSerialize()
		if err != nil {
			t.Fatalf("CompactSerialize() err=%v", err)
		}
		return token
	}
	return NewOIDCAuthenticatorWithVerifier(verifier, cfg), sign
}

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "http://example.test/datasets", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestOIDCAuthenticator_ValidToken(t *testing.T) {
	a, sign := newTestOIDC(t)
	now := time.Now()
	token := sign(map[string]any{
		"iss":    testIssuer,
		"aud":    "views",
		"sub":    "user-1",
		"iat":    now.Unix(),
		"exp":    now.Add(time.Hour).Unix(),
		"email":  " user@example.test ",
		"groups": []string{"Viewer", "editor", "viewer"},
	})

	identity, err := a.Authenticate(context.Background(), bearerRequest(token))
	if err != nil {
		t.Fatalf("Authenticate() err=%v", err)
	}
	want := Identity{Subject: "user-1", Email: "user@example.test", Roles: []string{"viewer", "editor"}}
	if diff := cmp.Diff(want, identity); diff != "" {
		t.Fatalf("Authenticate() mismatch (-want +got):\n%s", diff)
	}
}

func TestOIDCAuthenticator_Rejects(t *testing.T) {
	a, sign := newTestOIDC(t)
	now := time.Now()

	if _, err := a.Authenticate(context.Background(), bearerRequest("")); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("missing token err=%v, want ErrUnauthenticated", err)
	}

	expired := sign(map[string]any{
		"iss": testIssuer,
		"aud": "views",
		"sub": "user-1",
		"exp": now.Add(-time.Hour).Unix(),
	})
	if _, err := a.Authenticate(context.Background(), bearerRequest(expired)); err == nil || errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expired token err=%v, want verification error", err)
	}

	wrongAudience := sign(map[string]any{
		"iss": testIssuer,
		"aud": "other",
		"sub": "user-1",
		"exp": now.Add(time.Hour).Unix(),
	})
	if _, err := a.Authenticate(context.Background(), bearerRequest(wrongAudience)); err == nil {
		t.Fatalf("wrong audience expected error")
	}
}

func TestExtractRolesClaim(t *testing.T) {
	cases := []struct {
		name   string
		claims map[string]any
		want   []string
	}{
		{name: "array", claims: map[string]any{"roles": []any{"Admin", 3, "viewer"}}, want: []string{"admin", "viewer"}},
		{name: "string", claims: map[string]any{"roles": "editor, viewer admin"}, want: []string{"editor", "viewer", "admin"}},
		{name: "missing", claims: map[string]any{}, want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, extractRolesClaim(tc.claims, "roles")); diff != "" {
				t.Fatalf("extractRolesClaim() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
