package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/logger"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/secret"
)

var magicLinkHTML = htmltemplate.Must(htmltemplate.New("magic_link").Parse(`
<div style="font-family: Georgia, serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #2c3e50; text-align: center;">{{.TenantName}}</h2>
  <h3 style="color: #34495e; text-align: center;">{{.Greeting}}</h3>
  <p style="font-size: 16px; line-height: 1.6; color: #555;">{{.Message}}</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="{{.Link}}" style="background-color: #3498db; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-size: 18px; display: inline-block;">{{.Action}}</a>
  </div>
  <p style="font-size: 14px; color: #777; text-align: center;">This link expires in {{.Minutes}} minutes for your security.</p>
  <p style="font-size: 14px; color: #777; text-align: center;">If you didn't request this, you can safely ignore this email.</p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
  <p style="font-size: 12px; color: #999; text-align: center;">Having trouble? Simply reply to this email and we'll help you sign in.</p>
</div>
`))

var magicLinkText = texttemplate.Must(texttemplate.New("magic_link").Parse(`{{.TenantName}}

{{.Greeting}}

{{.Message}}

{{.Action}}: {{.Link}}

This link expires in {{.Minutes}} minutes for your security.
If you didn't request this, you can safely ignore this email.
`))

var smsPinText = texttemplate.Must(texttemplate.New("sms_pin").Parse(
	"Your {{.TenantName}} sign-in code is: {{.PIN}}\n\nThis code expires in {{.Minutes}} minutes."))

// CredentialsConfig holds credential lifetimes and delivery settings.
type CredentialsConfig struct {
	MagicLinkTTL time.Duration
	SMSPinTTL    time.Duration
	PINLength    int
	MaxAttempts  int
	PhoneRegion  string
	BaseURL      string
}

// IssueParams describes a credential request.
type IssueParams struct {
	Kind     model.CredentialKind
	Subject  string
	TenantID uuid.UUID
	Purpose  model.Purpose
	Device   model.DeviceContext
	Metadata map[string]any
}

// VerifyParams describes a verification attempt. Subject and TenantID are
// required for SMS PINs and optional for magic links.
type VerifyParams struct {
	Kind     model.CredentialKind
	Secret   string
	Subject  string
	TenantID uuid.UUID
	Device   model.DeviceContext
}

// VerifiedIdentity is the outcome of a successful verification.
// User is nil when the contact has no account and none could be created.
type VerifiedIdentity struct {
	Credential model.OneTimeCredential
	User       *model.User
	IsNewUser  bool
}

// Credentials issues and verifies single-use magic links and SMS PINs.
type Credentials struct {
	store     model.CredentialStore
	users     model.UserStore
	tenants   model.TenantStore
	limiter   *RateLimiter
	messenger model.Messenger
	audit     *Audit
	hasher    *secret.Hasher
	generator secret.Generator
	validate  *validator.Validate
	logger    *logger.Logger
	cfg       CredentialsConfig
	now       func() time.Time
}

func NewCredentials(
	store model.CredentialStore,
	users model.UserStore,
	tenants model.TenantStore,
	limiter *RateLimiter,
	messenger model.Messenger,
	audit *Audit,
	hasher *secret.Hasher,
	generator secret.Generator,
	logger *logger.Logger,
	cfg CredentialsConfig,
) *Credentials {
	return &Credentials{
		store:     store,
		users:     users,
		tenants:   tenants,
		limiter:   limiter,
		messenger: messenger,
		audit:     audit,
		hasher:    hasher,
		generator: generator,
		validate:  validator.New(),
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// NormalizeEmail validates and lower-cases an email address.
func NormalizeEmail(v *validator.Validate, raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := v.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%w: invalid email", model.ErrValidation)
	}
	return email, nil
}

// NormalizePhone parses raw with the default region and formats it as E.164.
// Numbers are checked for a possible length only, so reserved test ranges pass.
func NormalizePhone(raw, region string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(raw), region)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return "", fmt.Errorf("%w: invalid phone number", model.ErrValidation)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

func (c *Credentials) normalize(kind model.CredentialKind, subject string) (string, model.ContactKind, error) {
	switch kind {
	case model.CredentialMagicLink:
		email, err := NormalizeEmail(c.validate, subject)
		return email, model.ContactEmail, err
	case model.CredentialSMSPin:
		phone, err := NormalizePhone(subject, c.cfg.PhoneRegion)
		return phone, model.ContactPhone, err
	default:
		return "", "", fmt.Errorf("%w: unknown credential kind %q", model.ErrValidation, kind)
	}
}

// Issue stores a new credential and delivers its secret to the subject.
func (c *Credentials) Issue(ctx context.Context, p IssueParams) error {
	subject, contact, err := c.normalize(p.Kind, p.Subject)
	if err != nil {
		return err
	}
	masked := maskContact(contact, subject)

	purpose := p.Purpose
	if purpose == "" || p.Kind == model.CredentialSMSPin {
		purpose = model.PurposeLogin
	}
	if !purpose.Valid() {
		return fmt.Errorf("%w: unknown purpose %q", model.ErrValidation, purpose)
	}

	tenant, err := c.tenants.GetByID(ctx, p.TenantID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("%w: unknown tenant", model.ErrValidation)
		}
		return storageErr("failed to get tenant", err)
	}

	allowed, err := c.limiter.Check(ctx, subject, string(contact), string(p.Kind))
	if err != nil {
		return err
	}
	if !allowed {
		return model.ErrRateLimited
	}

	var (
		plain string
		ttl   time.Duration
	)
	switch p.Kind {
	case model.CredentialMagicLink:
		plain, err = c.generator.Token()
		ttl = c.cfg.MagicLinkTTL
	case model.CredentialSMSPin:
		plain, err = c.generator.PIN(c.cfg.PINLength)
		ttl = c.cfg.SMSPinTTL
	}
	if err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}

	now := c.now()
	credential := model.OneTimeCredential{
		ID:          uuid.New(),
		Kind:        p.Kind,
		Subject:     subject,
		TenantID:    tenant.ID,
		SecretHash:  c.hasher.Hash(plain),
		Purpose:     purpose,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
		OriginIP:    p.Device.IP,
		OriginAgent: p.Device.UserAgent,
		Metadata:    p.Metadata,
	}
	if err := c.store.Create(ctx, credential); err != nil {
		c.logger.Error("Credential service: failed to store credential",
			"kind", p.Kind,
			"subject", masked,
			"error", err.Error())
		return storageErr("failed to store credential", err)
	}

	if err := c.deliver(ctx, tenant, credential, plain, ttl); err != nil {
		c.logger.Error("Credential service: failed to deliver credential",
			"kind", p.Kind,
			"subject", masked,
			"error", err.Error())
		return fmt.Errorf("%w: %w", model.ErrDeliveryFailed, err)
	}

	eventType, details := model.EventMagicLinkSent, map[string]any{"email": masked, "purpose": string(purpose)}
	if p.Kind == model.CredentialSMSPin {
		eventType, details = model.EventSMSPinSent, map[string]any{"phone": lastDigits(subject)}
	}
	c.audit.Record(ctx, event(eventType, uuid.Nil, tenant.ID, p.Device, details))

	c.logger.Info("Credential service: credential issued",
		"kind", p.Kind,
		"subject", masked,
		"tenant_id", tenant.ID)

	return nil
}

type magicLinkContent struct {
	TenantName string
	Greeting   string
	Message    string
	Action     string
	Link       string
	Minutes    int
}

func (c *Credentials) deliver(ctx context.Context, tenant model.Tenant, credential model.OneTimeCredential, plain string, ttl time.Duration) error {
	minutes := int(ttl.Minutes())

	if credential.Kind == model.CredentialSMSPin {
		var body bytes.Buffer
		err := smsPinText.Execute(&body, struct {
			TenantName string
			PIN        string
			Minutes    int
		}{tenant.Name, plain, minutes})
		if err != nil {
			return fmt.Errorf("failed to render sms: %w", err)
		}
		return c.messenger.SendSMS(ctx, model.SMSMessage{To: credential.Subject, Body: body.String()})
	}

	content := magicLinkContent{
		TenantName: tenant.Name,
		Greeting:   "Welcome back!",
		Message:    "We're glad you're here.",
		Action:     "Sign in to your account",
		Link:       strings.TrimRight(c.cfg.BaseURL, "/") + "/auth/verify?token=" + url.QueryEscape(plain),
		Minutes:    minutes,
	}
	subject := "Sign in to " + tenant.Name
	if credential.Purpose == model.PurposeSignup {
		content.Greeting = "Welcome to our church family!"
		content.Action = "Complete your registration"
		subject = "Welcome to " + tenant.Name + "!"
	}
	if tenant.WelcomeMessage != nil && *tenant.WelcomeMessage != "" {
		content.Message = *tenant.WelcomeMessage
	}

	var html, text bytes.Buffer
	if err := magicLinkHTML.Execute(&html, content); err != nil {
		return fmt.Errorf("failed to render email html: %w", err)
	}
	if err := magicLinkText.Execute(&text, content); err != nil {
		return fmt.Errorf("failed to render email text: %w", err)
	}

	return c.messenger.SendEmail(ctx, model.EmailMessage{
		To:      credential.Subject,
		Subject: subject,
		HTML:    html.String(),
		Text:    text.String(),
	})
}

// Verify consumes a credential exactly once and resolves its user.
// Expired, used, invalidated, unknown and wrong secrets all yield ErrCredentialInvalid.
func (c *Credentials) Verify(ctx context.Context, p VerifyParams) (VerifiedIdentity, error) {
	subject := ""
	if p.Subject != "" || p.Kind == model.CredentialSMSPin {
		var err error
		subject, _, err = c.normalize(p.Kind, p.Subject)
		if err != nil {
			return VerifiedIdentity{}, err
		}
	}
	if p.Kind == model.CredentialSMSPin && p.TenantID == uuid.Nil {
		return VerifiedIdentity{}, fmt.Errorf("%w: tenant is required", model.ErrValidation)
	}
	if strings.TrimSpace(p.Secret) == "" {
		return VerifiedIdentity{}, model.ErrCredentialInvalid
	}

	now := c.now()
	credential, err := c.store.Consume(ctx, model.ConsumeCredentialParams{
		Kind:        p.Kind,
		SecretHash:  c.hasher.Hash(strings.TrimSpace(p.Secret)),
		TenantID:    p.TenantID,
		Subject:     subject,
		UsedIP:      p.Device.IP,
		UsedAgent:   p.Device.UserAgent,
		Now:         now,
		MaxAttempts: c.cfg.MaxAttempts,
	})
	if errors.Is(err, model.ErrNotFound) {
		c.recordFailure(ctx, p, subject, now)
		return VerifiedIdentity{}, model.ErrCredentialInvalid
	}
	if err != nil {
		c.logger.Error("Credential service: failed to consume credential",
			"kind", p.Kind,
			"error", err.Error())
		return VerifiedIdentity{}, storageErr("failed to consume credential", err)
	}

	identity := VerifiedIdentity{Credential: credential}
	contact := model.ContactEmail
	if credential.Kind == model.CredentialSMSPin {
		contact = model.ContactPhone
	}

	user, err := c.users.GetByContact(ctx, credential.TenantID, contact, credential.Subject)
	switch {
	case err == nil:
		identity.User = &user
		return identity, nil
	case !errors.Is(err, model.ErrNotFound):
		return VerifiedIdentity{}, storageErr("failed to resolve user", err)
	}

	if credential.Kind == model.CredentialMagicLink && credential.Purpose != model.PurposeSignup {
		c.logger.Info("Credential service: no account for verified contact",
			"subject", maskContact(contact, credential.Subject),
			"tenant_id", credential.TenantID)
		return identity, nil
	}

	created, isNew, err := c.createUser(ctx, credential, contact, p.Device)
	if err != nil {
		return VerifiedIdentity{}, err
	}
	identity.User = &created
	identity.IsNewUser = isNew

	return identity, nil
}

func (c *Credentials) recordFailure(ctx context.Context, p VerifyParams, subject string, now time.Time) {
	details := map[string]any{"method": string(p.Kind), "reason": "invalid_credential"}
	if subject != "" && p.TenantID != uuid.Nil {
		attempts, err := c.store.RecordFailedAttempt(ctx, p.Kind, p.TenantID, subject, now, c.cfg.MaxAttempts)
		if err != nil {
			c.logger.Error("Credential service: failed to record failed attempt",
				"kind", p.Kind,
				"error", err.Error())
		}
		details["attempts"] = attempts
	}
	c.audit.Record(ctx, event(model.EventLoginFailed, uuid.Nil, p.TenantID, p.Device, details))
}

func (c *Credentials) createUser(ctx context.Context, credential model.OneTimeCredential, contact model.ContactKind, dc model.DeviceContext) (model.User, bool, error) {
	subject := credential.Subject
	user := model.User{
		ID:                  uuid.New(),
		TenantID:            credential.TenantID,
		Role:                model.RoleMember,
		PreferredAuthMethod: model.LoginMagicLink,
		CreatedAt:           c.now(),
	}
	if contact == model.ContactEmail {
		user.Email = &subject
	} else {
		user.Phone = &subject
		user.PreferredAuthMethod = model.LoginSMSPin
	}
	if name, ok := credential.Metadata["first_name"].(string); ok && name != "" {
		user.FirstName = &name
	}

	saved, created, err := c.users.CreateOrGet(ctx, user)
	if err != nil {
		c.logger.Error("Credential service: failed to create user",
			"tenant_id", credential.TenantID,
			"error", err.Error())
		return model.User{}, false, storageErr("failed to create user", err)
	}

	if created {
		c.audit.Record(ctx, event(model.EventUserCreated, saved.ID, saved.TenantID, dc, map[string]any{
			"method": string(credential.Kind),
		}))
		c.logger.Info("Credential service: user created",
			"user_id", saved.ID,
			"tenant_id", saved.TenantID)
	}

	return saved, created, nil
}

func maskContact(kind model.ContactKind, value string) string {
	if kind == model.ContactPhone {
		return logger.MaskPhone(value)
	}
	return logger.MaskEmail(value)
}

func lastDigits(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return phone[len(phone)-4:]
}
