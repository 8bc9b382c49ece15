package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/messaging"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/mocks"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/secret"
	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/testutil"
)

type credentialFixture struct {
	svc       *Credentials
	store     *mocks.CredentialStore
	users     *mocks.UserStore
	tenants   *mocks.TenantStore
	hits      *mocks.RateLimitStore
	messenger *messaging.Recorder
	audit     *auditRecorder
	hasher    *secret.Hasher
	tenant    model.Tenant
}

func newCredentialFixture(t *testing.T, gen secret.Generator) *credentialFixture {
	t.Helper()
	f := &credentialFixture{
		store:     mocks.NewCredentialStore(t),
		users:     mocks.NewUserStore(t),
		tenants:   mocks.NewTenantStore(t),
		hits:      mocks.NewRateLimitStore(t),
		messenger: messaging.NewRecorder(),
		hasher:    testHasher(t),
		tenant:    model.Tenant{ID: uuid.New(), Name: "Grace Chapel", Status: "active"},
	}
	audit, rec := newTestAudit(t)
	f.audit = rec

	lg := testutil.MakeNoopLogger()
	limiter := NewRateLimiter(f.hits, f.hasher, RateLimitConfig{
		CredentialMax:    5,
		CredentialWindow: 15 * time.Minute,
		APIPerMinute:     60,
		APIPerHour:       1000,
	}.Rules(), lg)
	limiter.now = fixedClock

	f.svc = NewCredentials(f.store, f.users, f.tenants, limiter, f.messenger, audit, f.hasher, gen, lg, CredentialsConfig{
		MagicLinkTTL: 15 * time.Minute,
		SMSPinTTL:    5 * time.Minute,
		PINLength:    6,
		MaxAttempts:  5,
		PhoneRegion:  "US",
		BaseURL:      "https://app.example.org/",
	})
	f.svc.now = fixedClock
	return f
}

func (f *credentialFixture) allowIssue() {
	f.tenants.On("GetByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
	f.hits.On("Hit", mock.Anything, mock.Anything, mock.Anything, 5, 15*time.Minute, testNow).Return(true, nil)
}

func TestNormalizeEmail(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})

	email, err := NormalizeEmail(f.svc.validate, "  Mary@Example.ORG ")
	require.NoError(t, err)
	assert.Equal(t, "mary@example.org", email)

	for _, bad := range []string{"", "mary", "mary@", "@example.org", "a b@example.org"} {
		_, err := NormalizeEmail(f.svc.validate, bad)
		assert.ErrorIs(t, err, model.ErrValidation, bad)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "+15551234567", want: "+15551234567", ok: true},
		{raw: "(555) 123-4567", want: "+15551234567", ok: true},
		{raw: "555.123.4567", want: "+15551234567", ok: true},
		{raw: "+44 20 7946 0958", want: "+442079460958", ok: true},
		{raw: "12", ok: false},
		{raw: "not a phone", ok: false},
		{raw: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, "US")
			if !tt.ok {
				assert.ErrorIs(t, err, model.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCredentials_Issue_MagicLink(t *testing.T) {
	gen := &secret.Fixed{Tokens: []string{"link-secret"}}
	f := newCredentialFixture(t, gen)
	f.allowIssue()

	var stored model.OneTimeCredential
	f.store.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(model.OneTimeCredential)
	}).Return(nil)

	err := f.svc.Issue(context.Background(), IssueParams{
		Kind:     model.CredentialMagicLink,
		Subject:  "User@Example.org",
		TenantID: f.tenant.ID,
		Device:   model.DeviceContext{IP: "10.0.0.1", UserAgent: "Safari"},
	})
	require.NoError(t, err)

	assert.Equal(t, "user@example.org", stored.Subject)
	assert.Equal(t, model.PurposeLogin, stored.Purpose)
	assert.Equal(t, f.hasher.Hash("link-secret"), stored.SecretHash)
	assert.NotContains(t, string(stored.SecretHash), "link-secret")
	assert.Equal(t, testNow.Add(15*time.Minute), stored.ExpiresAt)
	assert.Equal(t, "10.0.0.1", stored.OriginIP)

	msg, ok := f.messenger.LastEmail()
	require.True(t, ok)
	assert.Equal(t, "user@example.org", msg.To)
	assert.Equal(t, "Sign in to Grace Chapel", msg.Subject)
	assert.Contains(t, msg.Text, "https://app.example.org/auth/verify?token=link-secret")
	assert.Contains(t, msg.HTML, "https://app.example.org/auth/verify?token=link-secret")
	assert.Contains(t, msg.Text, "15 minutes")

	e, ok := f.audit.last(model.EventMagicLinkSent)
	require.True(t, ok)
	assert.Equal(t, "u***@example.org", e.Details["email"])
}

func TestCredentials_Issue_SignupUsesWelcomeMessage(t *testing.T) {
	f := newCredentialFixture(t, &secret.Fixed{Tokens: []string{"tok"}})
	welcome := "We can't wait to meet you."
	f.tenant.WelcomeMessage = &welcome
	f.allowIssue()
	f.store.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := f.svc.Issue(context.Background(), IssueParams{
		Kind:     model.CredentialMagicLink,
		Subject:  "new@example.org",
		TenantID: f.tenant.ID,
		Purpose:  model.PurposeSignup,
	})
	require.NoError(t, err)

	msg, _ := f.messenger.LastEmail()
	assert.Equal(t, "Welcome to Grace Chapel!", msg.Subject)
	assert.Contains(t, msg.Text, "Complete your registration")
	assert.Contains(t, msg.Text, welcome)
}

func TestCredentials_Issue_SMSPin(t *testing.T) {
	f := newCredentialFixture(t, &secret.Fixed{Pin: "123456"})
	f.allowIssue()

	var stored model.OneTimeCredential
	f.store.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(model.OneTimeCredential)
	}).Return(nil)

	err := f.svc.Issue(context.Background(), IssueParams{
		Kind:     model.CredentialSMSPin,
		Subject:  "+15551234567",
		TenantID: f.tenant.ID,
		Purpose:  model.PurposeSignup,
	})
	require.NoError(t, err)

	assert.Equal(t, "+15551234567", stored.Subject)
	assert.Equal(t, model.PurposeLogin, stored.Purpose)
	assert.Equal(t, f.hasher.Hash("123456"), stored.SecretHash)
	assert.Equal(t, testNow.Add(5*time.Minute), stored.ExpiresAt)

	sms, ok := f.messenger.LastSMS()
	require.True(t, ok)
	assert.Equal(t, "+15551234567", sms.To)
	assert.Contains(t, sms.Body, "Your Grace Chapel sign-in code is: 123456")

	e, ok := f.audit.last(model.EventSMSPinSent)
	require.True(t, ok)
	assert.Equal(t, "4567", e.Details["phone"])
}

func TestCredentials_Issue_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid email", func(t *testing.T) {
		f := newCredentialFixture(t, secret.Random{})
		err := f.svc.Issue(ctx, IssueParams{Kind: model.CredentialMagicLink, Subject: "nope", TenantID: f.tenant.ID})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("unknown purpose", func(t *testing.T) {
		f := newCredentialFixture(t, secret.Random{})
		err := f.svc.Issue(ctx, IssueParams{Kind: model.CredentialMagicLink, Subject: "a@example.org", TenantID: f.tenant.ID, Purpose: "party"})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		f := newCredentialFixture(t, secret.Random{})
		f.tenants.On("GetByID", mock.Anything, f.tenant.ID).Return(model.Tenant{}, model.ErrNotFound)
		err := f.svc.Issue(ctx, IssueParams{Kind: model.CredentialMagicLink, Subject: "a@example.org", TenantID: f.tenant.ID})
		assert.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("rate limited", func(t *testing.T) {
		f := newCredentialFixture(t, secret.Random{})
		f.tenants.On("GetByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
		f.hits.On("Hit", mock.Anything, mock.Anything, ActionMagicLink, 5, 15*time.Minute, testNow).Return(false, nil)

		err := f.svc.Issue(ctx, IssueParams{Kind: model.CredentialMagicLink, Subject: "a@example.org", TenantID: f.tenant.ID})
		assert.ErrorIs(t, err, model.ErrRateLimited)
		assert.Empty(t, f.messenger.Emails())
	})

	t.Run("rate limiter storage failure", func(t *testing.T) {
		f := newCredentialFixture(t, secret.Random{})
		f.tenants.On("GetByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
		f.hits.On("Hit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("db down"))

		err := f.svc.Issue(ctx, IssueParams{Kind: model.CredentialMagicLink, Subject: "a@example.org", TenantID: f.tenant.ID})
		assert.ErrorIs(t, err, model.ErrStorageFailure)
	})

	t.Run("delivery failure keeps credential", func(t *testing.T) {
		f := newCredentialFixture(t, secret.Random{})
		f.allowIssue()
		f.store.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
		f.messenger.Err = errors.New("smtp down")

		err := f.svc.Issue(ctx, IssueParams{Kind: model.CredentialMagicLink, Subject: "a@example.org", TenantID: f.tenant.ID})
		assert.ErrorIs(t, err, model.ErrDeliveryFailed)
		_, sent := f.audit.last(model.EventMagicLinkSent)
		assert.False(t, sent)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newCredentialFixture(t, secret.Random{})
		f.allowIssue()
		f.store.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		err := f.svc.Issue(ctx, IssueParams{Kind: model.CredentialSMSPin, Subject: "+15551234567", TenantID: f.tenant.ID})
		assert.ErrorIs(t, err, model.ErrStorageFailure)
		assert.Empty(t, f.messenger.SMS())
	})
}

func TestCredentials_Verify_ExistingUser(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})
	email := "user@example.org"
	user := model.User{ID: uuid.New(), TenantID: f.tenant.ID, Email: &email, Active: true}
	credential := model.OneTimeCredential{ID: uuid.New(), Kind: model.CredentialMagicLink, Subject: email, TenantID: f.tenant.ID, Purpose: model.PurposeLogin}

	f.store.On("Consume", mock.Anything, mock.MatchedBy(func(p model.ConsumeCredentialParams) bool {
		return p.Kind == model.CredentialMagicLink &&
			string(p.SecretHash) == string(f.hasher.Hash("tok")) &&
			p.TenantID == uuid.Nil && p.Subject == "" &&
			p.Now.Equal(testNow) && p.MaxAttempts == 5 && p.UsedIP == "10.0.0.9"
	})).Return(credential, nil)
	f.users.On("GetByContact", mock.Anything, f.tenant.ID, model.ContactEmail, email).Return(user, nil)

	identity, err := f.svc.Verify(context.Background(), VerifyParams{
		Kind:   model.CredentialMagicLink,
		Secret: " tok ",
		Device: model.DeviceContext{IP: "10.0.0.9"},
	})
	require.NoError(t, err)
	require.NotNil(t, identity.User)
	assert.Equal(t, user.ID, identity.User.ID)
	assert.False(t, identity.IsNewUser)
}

func TestCredentials_Verify_Invalid(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})
	f.store.On("Consume", mock.Anything, mock.Anything).Return(model.OneTimeCredential{}, model.ErrNotFound)

	_, err := f.svc.Verify(context.Background(), VerifyParams{Kind: model.CredentialMagicLink, Secret: "used-or-expired"})
	assert.ErrorIs(t, err, model.ErrCredentialInvalid)

	e, ok := f.audit.last(model.EventLoginFailed)
	require.True(t, ok)
	assert.Equal(t, "invalid_credential", e.Details["reason"])
	f.store.AssertNotCalled(t, "RecordFailedAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCredentials_Verify_WrongPINCountsAttempt(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})
	f.store.On("Consume", mock.Anything, mock.MatchedBy(func(p model.ConsumeCredentialParams) bool {
		return p.TenantID == f.tenant.ID && p.Subject == "+15551234567"
	})).Return(model.OneTimeCredential{}, model.ErrNotFound)
	f.store.On("RecordFailedAttempt", mock.Anything, model.CredentialSMSPin, f.tenant.ID, "+15551234567", testNow, 5).Return(1, nil)

	_, err := f.svc.Verify(context.Background(), VerifyParams{
		Kind:     model.CredentialSMSPin,
		Secret:   "000000",
		Subject:  "(555) 123-4567",
		TenantID: f.tenant.ID,
	})
	assert.ErrorIs(t, err, model.ErrCredentialInvalid)

	e, ok := f.audit.last(model.EventLoginFailed)
	require.True(t, ok)
	assert.Equal(t, 1, e.Details["attempts"])
}

func TestCredentials_Verify_PINRequiresTenant(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})
	_, err := f.svc.Verify(context.Background(), VerifyParams{Kind: model.CredentialSMSPin, Secret: "123456", Subject: "+15551234567"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCredentials_Verify_EmptySecret(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})
	_, err := f.svc.Verify(context.Background(), VerifyParams{Kind: model.CredentialMagicLink, Secret: "   "})
	assert.ErrorIs(t, err, model.ErrCredentialInvalid)
}

func TestCredentials_Verify_CreatesUser(t *testing.T) {
	tests := []struct {
		name      string
		kind      model.CredentialKind
		subject   string
		purpose   model.Purpose
		contact   model.ContactKind
		wantPhone bool
	}{
		{name: "sms pin", kind: model.CredentialSMSPin, subject: "+15551234567", purpose: model.PurposeLogin, contact: model.ContactPhone, wantPhone: true},
		{name: "signup link", kind: model.CredentialMagicLink, subject: "new@example.org", purpose: model.PurposeSignup, contact: model.ContactEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCredentialFixture(t, secret.Random{})
			credential := model.OneTimeCredential{
				ID: uuid.New(), Kind: tt.kind, Subject: tt.subject, TenantID: f.tenant.ID, Purpose: tt.purpose,
				Metadata: map[string]any{"first_name": "Ruth"},
			}
			f.store.On("Consume", mock.Anything, mock.Anything).Return(credential, nil)
			f.users.On("GetByContact", mock.Anything, f.tenant.ID, tt.contact, tt.subject).Return(model.User{}, model.ErrNotFound)
			f.users.On("CreateOrGet", mock.Anything, mock.MatchedBy(func(u model.User) bool {
				if u.TenantID != f.tenant.ID || u.Role != model.RoleMember || u.FirstName == nil || *u.FirstName != "Ruth" {
					return false
				}
				if tt.wantPhone {
					return u.Phone != nil && *u.Phone == tt.subject && u.Email == nil
				}
				return u.Email != nil && *u.Email == tt.subject && u.Phone == nil
			})).Return(func(_ context.Context, u model.User) (model.User, bool, error) {
				u.Active = true
				return u, true, nil
			})

			identity, err := f.svc.Verify(context.Background(), VerifyParams{
				Kind:     tt.kind,
				Secret:   "s",
				Subject:  tt.subject,
				TenantID: f.tenant.ID,
			})
			require.NoError(t, err)
			require.NotNil(t, identity.User)
			assert.True(t, identity.IsNewUser)
			assert.Contains(t, f.audit.types(), model.EventUserCreated)
		})
	}
}

func TestCredentials_Verify_LoginLinkWithoutAccount(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})
	credential := model.OneTimeCredential{ID: uuid.New(), Kind: model.CredentialMagicLink, Subject: "ghost@example.org", TenantID: f.tenant.ID, Purpose: model.PurposeLogin}
	f.store.On("Consume", mock.Anything, mock.Anything).Return(credential, nil)
	f.users.On("GetByContact", mock.Anything, f.tenant.ID, model.ContactEmail, "ghost@example.org").Return(model.User{}, model.ErrNotFound)

	identity, err := f.svc.Verify(context.Background(), VerifyParams{Kind: model.CredentialMagicLink, Secret: "s"})
	require.NoError(t, err)
	assert.Nil(t, identity.User)
	f.users.AssertNotCalled(t, "CreateOrGet", mock.Anything, mock.Anything)
}

func TestCredentials_Verify_StorageFailure(t *testing.T) {
	f := newCredentialFixture(t, secret.Random{})
	f.store.On("Consume", mock.Anything, mock.Anything).Return(model.OneTimeCredential{}, errors.New("conn reset"))

	_, err := f.svc.Verify(context.Background(), VerifyParams{Kind: model.CredentialMagicLink, Secret: "s"})
	assert.ErrorIs(t, err, model.ErrStorageFailure)
	assert.NotErrorIs(t, err, model.ErrCredentialInvalid)
}

func TestMaskContact(t *testing.T) {
	assert.Equal(t, "m***@example.org", maskContact(model.ContactEmail, "mary@example.org"))
	assert.Equal(t, "***4567", maskContact(model.ContactPhone, "+15551234567"))
	assert.Equal(t, "4567", lastDigits("+15551234567"))
	assert.True(t, strings.HasSuffix(lastDigits("12"), "12"))
}
