package adapters

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/folioengine/folio/internal/limits"
)

func defaultSet(t *testing.T) Set {
	t.Helper()
	authority := limits.NewAuthority(limits.ModeHosted, limits.Limits{MaxImageMB: 10})
	return Set{
		Publish: NewStoragePublish(nil, nil),
		Limits:  NewAuthorityLimiter(authority),
		Auth:    NewLocalAuth("test-secret"),
		Email:   NewLogEmail(nil),
	}
}

func TestResolveNoOverridesKeepsDefaults(t *testing.T) {
	defaults := defaultSet(t)

	resolved := Resolve(defaults, Overrides{})

	if resolved.Publish != defaults.Publish {
		t.Fatal("publish capability should be the default instance")
	}
	if resolved.Limits != defaults.Limits {
		t.Fatal("limits capability should be the default instance")
	}
	if resolved.Auth != defaults.Auth {
		t.Fatal("auth capability should be the default instance")
	}
	if resolved.Email != defaults.Email {
		t.Fatal("email capability should be the default instance")
	}
}

func TestResolvePartialAuthOverride(t *testing.T) {
	defaults := defaultSet(t)

	resolved := Resolve(defaults, Overrides{
		Auth: AuthOverrides{
			IssueToken: func(subject string, ttl time.Duration) (string, error) {
				return "platform-token:" + subject, nil
			},
		},
	})

	token, err := resolved.Auth.IssueToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if token != "platform-token:admin" {
		t.Fatalf("token = %q, want override value", token)
	}

	// The untouched operation still runs the default bcrypt check.
	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	if err := resolved.Auth.VerifyPassword(string(hashed), "hunter2"); err != nil {
		t.Fatalf("VerifyPassword should keep the default: %v", err)
	}
	if err := resolved.Auth.VerifyPassword(string(hashed), "wrong"); err == nil {
		t.Fatal("VerifyPassword should reject a wrong password")
	}
}

func TestResolveOverridingOneCapabilityLeavesOthersAlone(t *testing.T) {
	defaults := defaultSet(t)

	sent := 0
	resolved := Resolve(defaults, Overrides{
		Email: EmailOverrides{
			Send: func(ctx context.Context, msg Message) error {
				sent++
				return nil
			},
		},
	})

	if err := resolved.Email.Send(context.Background(), Message{To: "a@b.c"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if sent != 1 {
		t.Fatal("expected the override to receive the send")
	}
	if resolved.Auth != defaults.Auth || resolved.Limits != defaults.Limits || resolved.Publish != defaults.Publish {
		t.Fatal("overriding email must not perturb other capabilities")
	}
}

func TestResolveLimitsOverride(t *testing.T) {
	defaults := defaultSet(t)

	resolved := Resolve(defaults, Overrides{
		Limits: LimitsOverrides{
			Effective: func(user limits.Limits) limits.Limits {
				user.MaxImageMB = 1
				return user
			},
		},
	})

	eff := resolved.Limits.Effective(limits.Limits{MaxImageMB: 99})
	if eff.MaxImageMB != 1 {
		t.Fatalf("effective image ceiling = %d, want override value", eff.MaxImageMB)
	}
	// Mode keeps its default.
	if resolved.Limits.Mode() != limits.ModeHosted {
		t.Fatalf("mode = %q, want default hosted", resolved.Limits.Mode())
	}
}

func TestLocalAuthTokenRoundTrip(t *testing.T) {
	auth := NewLocalAuth("test-secret")

	token, err := auth.IssueToken("admin", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	subject, err := auth.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if subject != "admin" {
		t.Fatalf("subject = %q", subject)
	}

	if _, err := NewLocalAuth("other-secret").VerifyToken(token); err == nil {
		t.Fatal("token signed with another secret must not verify")
	}
	if _, err := auth.VerifyToken("not-a-token"); err == nil {
		t.Fatal("garbage must not verify")
	}
}

func TestLogEmailAlwaysSucceeds(t *testing.T) {
	email := NewLogEmail(nil)
	if err := email.Send(context.Background(), Message{To: "a@b.c", Subject: "hi"}); err != nil {
		t.Fatalf("logging email adapter should never fail: %v", err)
	}
}
