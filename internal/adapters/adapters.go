// Package adapters resolves pluggable capabilities (publish, limits, auth,
// email) by merging deployment overrides over built-in defaults.
package adapters

import (
	"context"
	"time"

	"github.com/folioengine/folio/internal/limits"
)

// Publish persists rendered output to its public destination.
type Publish interface {
	Publish(ctx context.Context, slug string, html []byte) error
}

// Limiter exposes the effective upload limits for the deployment.
type Limiter interface {
	Effective(user limits.Limits) limits.Limits
	Mode() limits.Mode
}

// Auth verifies credentials and mints access tokens.
type Auth interface {
	VerifyPassword(hashed, password string) error
	IssueToken(subject string, ttl time.Duration) (string, error)
	VerifyToken(token string) (subject string, err error)
}

// Message is an outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Email delivers messages. The default implementation logs instead of
// transmitting so a deployment with no mail configuration stays runnable.
type Email interface {
	Send(ctx context.Context, msg Message) error
}

// Set is the resolved capability set a deployment runs with.
type Set struct {
	Publish Publish
	Limits  Limiter
	Auth    Auth
	Email   Email
}

// Overrides carries per-operation replacements, one optional function per
// capability operation. Unknown capabilities cannot be smuggled in; the
// field list is the contract.
type Overrides struct {
	Publish PublishOverrides
	Limits  LimitsOverrides
	Auth    AuthOverrides
	Email   EmailOverrides
}

// PublishOverrides replaces individual publish operations.
type PublishOverrides struct {
	Publish func(ctx context.Context, slug string, html []byte) error
}

// LimitsOverrides replaces individual limits operations.
type LimitsOverrides struct {
	Effective func(user limits.Limits) limits.Limits
	Mode      func() limits.Mode
}

// AuthOverrides replaces individual auth operations.
type AuthOverrides struct {
	VerifyPassword func(hashed, password string) error
	IssueToken     func(subject string, ttl time.Duration) (string, error)
	VerifyToken    func(token string) (string, error)
}

// EmailOverrides replaces individual email operations.
type EmailOverrides struct {
	Send func(ctx context.Context, msg Message) error
}

// Resolve merges overrides over defaults, one capability at a time. An
// override for one capability never perturbs another; an operation left nil
// keeps its default.
func Resolve(defaults Set, o Overrides) Set {
	return Set{
		Publish: mergePublish(defaults.Publish, o.Publish),
		Limits:  mergeLimits(defaults.Limits, o.Limits),
		Auth:    mergeAuth(defaults.Auth, o.Auth),
		Email:   mergeEmail(defaults.Email, o.Email),
	}
}

func mergePublish(def Publish, o PublishOverrides) Publish {
	if o.Publish == nil {
		return def
	}
	return &mergedPublish{def: def, publish: o.Publish}
}

type mergedPublish struct {
	def     Publish
	publish func(ctx context.Context, slug string, html []byte) error
}

func (m *mergedPublish) Publish(ctx context.Context, slug string, html []byte) error {
	return m.publish(ctx, slug, html)
}

func mergeLimits(def Limiter, o LimitsOverrides) Limiter {
	if o.Effective == nil && o.Mode == nil {
		return def
	}
	return &mergedLimits{def: def, effective: o.Effective, mode: o.Mode}
}

type mergedLimits struct {
	def       Limiter
	effective func(user limits.Limits) limits.Limits
	mode      func() limits.Mode
}

func (m *mergedLimits) Effective(user limits.Limits) limits.Limits {
	if m.effective != nil {
		return m.effective(user)
	}
	return m.def.Effective(user)
}

func (m *mergedLimits) Mode() limits.Mode {
	if m.mode != nil {
		return m.mode()
	}
	return m.def.Mode()
}

func mergeAuth(def Auth, o AuthOverrides) Auth {
	if o.VerifyPassword == nil && o.IssueToken == nil && o.VerifyToken == nil {
		return def
	}
	return &mergedAuth{def: def, verifyPassword: o.VerifyPassword, issueToken: o.IssueToken, verifyToken: o.VerifyToken}
}

type mergedAuth struct {
	def            Auth
	verifyPassword func(hashed, password string) error
	issueToken     func(subject string, ttl time.Duration) (string, error)
	verifyToken    func(token string) (string, error)
}

func (m *mergedAuth) VerifyPassword(hashed, password string) error {
	if m.verifyPassword != nil {
		return m.verifyPassword(hashed, password)
	}
	return m.def.VerifyPassword(hashed, password)
}

func (m *mergedAuth) IssueToken(subject string, ttl time.Duration) (string, error) {
	if m.issueToken != nil {
		return m.issueToken(subject, ttl)
	}
	return m.def.IssueToken(subject, ttl)
}

func (m *mergedAuth) VerifyToken(token string) (string, error) {
	if m.verifyToken != nil {
		return m.verifyToken(token)
	}
	return m.def.VerifyToken(token)
}

func mergeEmail(def Email, o EmailOverrides) Email {
	if o.Send == nil {
		return def
	}
	return &mergedEmail{def: def, send: o.Send}
}

type mergedEmail struct {
	def  Email
	send func(ctx context.Context, msg Message) error
}

func (m *mergedEmail) Send(ctx context.Context, msg Message) error {
	return m.send(ctx, msg)
}
