//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/model"
	repo "github.com/farmingfruit/fruit-tree-fresh-with-subagents/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "fruittree_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/fruittree_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

type fixture struct {
	conn   *repo.Connection
	tenant model.Tenant
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	conn, err := repo.NewConnection(ctx, dsn, true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	tenant := model.Tenant{ID: uuid.New(), Name: "Grace Chapel"}
	require.NoError(t, repo.NewTenantRepository(conn).Create(ctx, tenant))

	return fixture{conn: conn, tenant: tenant}
}

func (f fixture) user(t *testing.T, email string) model.User {
	t.Helper()
	u, created, err := repo.NewUserRepository(f.conn).CreateOrGet(context.Background(), model.User{
		ID:                  uuid.New(),
		TenantID:            f.tenant.ID,
		Email:               &email,
		Role:                model.RoleMember,
		PreferredAuthMethod: model.LoginMagicLink,
		CreatedAt:           time.Now(),
	})
	require.NoError(t, err)
	require.True(t, created)
	return u
}

func TestUserRepository_CreateOrGet(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	users := repo.NewUserRepository(f.conn)

	personID := uuid.New()
	_, err := f.conn.Exec(ctx, `INSERT INTO people (id, tenant_id, email, first_name) VALUES ($1, $2, $3, 'Mary')`,
		personID, f.tenant.ID, "Mary@Example.org")
	require.NoError(t, err)

	u := f.user(t, "mary@example.org")
	require.NotNil(t, u.PersonID)
	require.Equal(t, personID, *u.PersonID)

	email := "mary@example.org"
	again, created, err := users.CreateOrGet(ctx, model.User{
		ID: uuid.New(), TenantID: f.tenant.ID, Email: &email, Role: model.RoleMember,
		PreferredAuthMethod: model.LoginMagicLink, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, u.ID, again.ID)

	access, err := repo.NewTenantAccessRepository(f.conn).Get(ctx, u.ID, f.tenant.ID)
	require.NoError(t, err)
	require.True(t, access.IsPrimary)
	require.Equal(t, model.RoleMember, access.Role)

	byContact, err := users.GetByContact(ctx, f.tenant.ID, model.ContactEmail, email)
	require.NoError(t, err)
	require.Equal(t, u.ID, byContact.ID)

	_, err = users.GetByContact(ctx, uuid.New(), model.ContactEmail, email)
	require.ErrorIs(t, err, model.ErrNotFound)

	until := time.Now().Add(time.Hour)
	require.NoError(t, users.SetLockedUntil(ctx, f.tenant.ID, u.ID, &until))
	locked, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, locked.Locked(time.Now()))
}

func TestCredentialRepository_ConsumeExactlyOnce(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	creds := repo.NewCredentialRepository(f.conn)

	now := time.Now()
	hash := []byte("hash-" + uuid.NewString())
	require.NoError(t, creds.Create(ctx, model.OneTimeCredential{
		ID: uuid.New(), Kind: model.CredentialMagicLink, Subject: "a@example.org", TenantID: f.tenant.ID,
		SecretHash: hash, Purpose: model.PurposeLogin, CreatedAt: now, ExpiresAt: now.Add(15 * time.Minute),
	}))

	var (
		wg      sync.WaitGroup
		success atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := creds.Consume(ctx, model.ConsumeCredentialParams{
				Kind: model.CredentialMagicLink, SecretHash: hash, Now: time.Now(), MaxAttempts: 5,
			})
			if err == nil {
				success.Add(1)
			} else {
				assert.ErrorIs(t, err, model.ErrNotFound)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), success.Load())
}

func TestCredentialRepository_ExpiredAndAttempts(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	creds := repo.NewCredentialRepository(f.conn)
	now := time.Now()

	expired := []byte("expired-" + uuid.NewString())
	require.NoError(t, creds.Create(ctx, model.OneTimeCredential{
		ID: uuid.New(), Kind: model.CredentialSMSPin, Subject: "+15555550100", TenantID: f.tenant.ID,
		SecretHash: expired, CreatedAt: now.Add(-10 * time.Minute), ExpiresAt: now.Add(-5 * time.Minute),
	}))
	_, err := creds.Consume(ctx, model.ConsumeCredentialParams{
		Kind: model.CredentialSMSPin, SecretHash: expired, TenantID: f.tenant.ID, Subject: "+15555550100",
		Now: now, MaxAttempts: 5,
	})
	require.ErrorIs(t, err, model.ErrNotFound)

	pin := []byte("pin-" + uuid.NewString())
	require.NoError(t, creds.Create(ctx, model.OneTimeCredential{
		ID: uuid.New(), Kind: model.CredentialSMSPin, Subject: "+15555550101", TenantID: f.tenant.ID,
		SecretHash: pin, CreatedAt: now, ExpiresAt: now.Add(5 * time.Minute),
	}))
	for i := 1; i <= 3; i++ {
		n, err := creds.RecordFailedAttempt(ctx, model.CredentialSMSPin, f.tenant.ID, "+15555550101", time.Now(), 3)
		require.NoError(t, err)
		require.Equal(t, i, n)
	}
	n, err := creds.RecordFailedAttempt(ctx, model.CredentialSMSPin, f.tenant.ID, "+15555550101", time.Now(), 3)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = creds.Consume(ctx, model.ConsumeCredentialParams{
		Kind: model.CredentialSMSPin, SecretHash: pin, TenantID: f.tenant.ID, Subject: "+15555550101",
		Now: time.Now(), MaxAttempts: 3,
	})
	require.ErrorIs(t, err, model.ErrNotFound)

	deleted, err := creds.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, deleted, int64(1))
}

func TestRateLimitRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	limits := repo.NewRateLimitRepository(f.conn)
	bucket := []byte(uuid.NewString())

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := limits.Hit(ctx, bucket, "magic_link", 5, 15*time.Minute, time.Now())
			assert.NoError(t, err)
			if ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(5), allowed.Load())

	ok, err := limits.Hit(ctx, bucket, "magic_link", 5, 15*time.Minute, time.Now().Add(16*time.Minute))
	require.NoError(t, err)
	require.True(t, ok)

	pruned, err := limits.Prune(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	require.GreaterOrEqual(t, pruned, int64(5))
}

func TestSessionRepository_Switch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	sessions := repo.NewSessionRepository(f.conn)
	u := f.user(t, "switch@example.org")

	other := model.Tenant{ID: uuid.New(), Name: "Hope Fellowship"}
	require.NoError(t, repo.NewTenantRepository(f.conn).Create(ctx, other))

	now := time.Now()
	old := model.Session{
		ID: uuid.New(), UserID: u.ID, TenantID: f.tenant.ID, TokenHash: []byte("old-" + uuid.NewString()),
		CreatedAt: now, ExpiresAt: now.Add(time.Hour), LoginMethod: model.LoginMagicLink,
	}
	require.NoError(t, sessions.Create(ctx, old))

	next := model.Session{
		ID: uuid.New(), UserID: u.ID, TenantID: other.ID, TokenHash: []byte("new-" + uuid.NewString()),
		CreatedAt: now, ExpiresAt: now.Add(time.Hour), LoginMethod: model.LoginTenantSwitch,
	}
	params := model.SwitchParams{
		UserID: u.ID, FromTenantID: f.tenant.ID, ToTenantID: other.ID,
		OldTokenHash: old.TokenHash, NewSession: next, Now: now,
	}

	err := sessions.Switch(ctx, params)
	require.ErrorIs(t, err, model.ErrAccessDenied)
	_, err = sessions.GetUsable(ctx, old.TokenHash, uuid.Nil, now)
	require.NoError(t, err)

	_, err = repo.NewTenantAccessRepository(f.conn).Upsert(ctx, model.TenantAccess{
		UserID: u.ID, TenantID: other.ID, Role: model.RoleStaff, UpdatedAt: now,
	})
	require.NoError(t, err)

	require.NoError(t, sessions.Switch(ctx, params))

	_, err = sessions.GetUsable(ctx, old.TokenHash, uuid.Nil, now)
	require.ErrorIs(t, err, model.ErrNotFound)

	id, err := sessions.GetUsable(ctx, next.TokenHash, other.ID, now)
	require.NoError(t, err)
	require.NotNil(t, id.TenantRole)
	require.Equal(t, model.RoleStaff, *id.TenantRole)

	_, err = sessions.GetUsable(ctx, next.TokenHash, f.tenant.ID, now)
	require.ErrorIs(t, err, model.ErrNotFound)

	ended, changed, err := sessions.Deactivate(ctx, next.TokenHash, model.EndLoggedOut, now)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, model.EndLoggedOut, ended.EndReason)

	_, changed, err = sessions.Deactivate(ctx, next.TokenHash, model.EndLoggedOut, now)
	require.NoError(t, err)
	require.False(t, changed)
}

func TestSessionRepository_ExpireStale(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	sessions := repo.NewSessionRepository(f.conn)
	u := f.user(t, "stale@example.org")

	now := time.Now()
	s := model.Session{
		ID: uuid.New(), UserID: u.ID, TenantID: f.tenant.ID, TokenHash: []byte("stale-" + uuid.NewString()),
		CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour), LoginMethod: model.LoginSMSPin,
	}
	require.NoError(t, sessions.Create(ctx, s))

	n, err := sessions.ExpireStale(ctx, now)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, int64(1))

	active, err := sessions.ListActive(ctx, f.tenant.ID, u.ID, now)
	require.NoError(t, err)
	require.Empty(t, active)
}

func TestFamilyRepository_ConcurrentCodes(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	families := repo.NewFamilyRepository(f.conn)
	u := f.user(t, "family@example.org")

	code := "GRACE-" + fmt.Sprintf("%04d", time.Now().UnixNano()%10000)
	var (
		wg        sync.WaitGroup
		created   atomic.Int32
		conflicts atomic.Int32
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := families.Create(ctx, model.FamilyAccount{
				ID: uuid.New(), TenantID: f.tenant.ID, PrimaryUserID: u.ID, Name: "Smith", Code: code, CreatedAt: time.Now(),
			}, model.FamilyMember{
				UserID: u.ID, Relationship: model.RelationshipParent, CanManageFamily: true, CreatedAt: time.Now(),
			})
			switch {
			case err == nil:
				created.Add(1)
			default:
				assert.ErrorIs(t, err, model.ErrConflict)
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), created.Load())
	require.Equal(t, int32(9), conflicts.Load())

	account, err := families.GetByCode(ctx, code)
	require.NoError(t, err)
	member, err := families.GetMember(ctx, account.ID, u.ID)
	require.NoError(t, err)
	require.True(t, member.CanManageFamily)

	err = families.AddMember(ctx, model.FamilyMember{
		FamilyAccountID: account.ID, UserID: u.ID, Relationship: model.RelationshipOther, CreatedAt: time.Now(),
	})
	require.ErrorIs(t, err, model.ErrConflict)
}

func TestPrivacyRepository_DirectoryIdempotent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	privacy := repo.NewPrivacyRepository(f.conn)

	settings := model.DefaultDirectoryPrivacy(uuid.New(), f.tenant.ID)
	settings.CustomRules = map[string]any{"hide_from_visitors": true}

	first := time.Now().Truncate(time.Microsecond)
	changed, err := privacy.UpsertDirectory(ctx, settings, first)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = privacy.UpsertDirectory(ctx, settings, first.Add(time.Hour))
	require.NoError(t, err)
	require.False(t, changed)

	stored, err := privacy.GetDirectory(ctx, settings.PersonID, f.tenant.ID)
	require.NoError(t, err)
	require.True(t, first.Equal(stored.UpdatedAt))
	require.Equal(t, settings.VisibleToRoles, stored.VisibleToRoles)

	settings.ShowPhone = true
	changed, err = privacy.UpsertDirectory(ctx, settings, first.Add(2*time.Hour))
	require.NoError(t, err)
	require.True(t, changed)

	u := f.user(t, "consent@example.org")
	consent := model.PrivacyConsent{
		UserID: u.ID, TenantID: f.tenant.ID, ConsentType: model.ConsentPhotoUsage, Consented: true, RecordedAt: time.Now(),
	}
	require.NoError(t, privacy.UpsertConsent(ctx, consent))
	consent.Consented = false
	require.NoError(t, privacy.UpsertConsent(ctx, consent))
}

func TestTenantRepository_GetBySubdomain(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	tenants := repo.NewTenantRepository(f.conn)

	sub := "grace-" + uuid.NewString()[:8]
	active := model.Tenant{ID: uuid.New(), Name: "Grace Downtown", Subdomain: sub}
	require.NoError(t, tenants.Create(ctx, active))
	require.ErrorIs(t, tenants.Create(ctx, model.Tenant{ID: uuid.New(), Name: "Copy", Subdomain: sub}), model.ErrConflict)

	got, err := tenants.GetBySubdomain(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)
	assert.Equal(t, "Grace Downtown", got.Name)
	assert.Equal(t, sub, got.Subdomain)
	assert.True(t, got.Active())

	byID, err := tenants.GetByID(ctx, f.tenant.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.Subdomain)

	closed := model.Tenant{ID: uuid.New(), Name: "Closed Chapel", Subdomain: "closed-" + uuid.NewString()[:8], Status: "suspended"}
	require.NoError(t, tenants.Create(ctx, closed))
	_, err = tenants.GetBySubdomain(ctx, closed.Subdomain)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = tenants.GetBySubdomain(ctx, "missing-"+uuid.NewString()[:8])
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeviceRepository_TrustAndFind(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	devices := repo.NewDeviceRepository(f.conn)
	u := f.user(t, "device@example.org")

	dc := model.DeviceContext{Fingerprint: "fp-" + uuid.NewString(), UserAgent: "UA/1", IP: "10.0.0.1"}
	now := time.Now()

	d, err := devices.Observe(ctx, u.ID, dc, true, now)
	require.NoError(t, err)
	require.Equal(t, 1, d.SuccessCount)
	require.Zero(t, d.IPChanges)

	dc.IP = "10.0.0.2"
	d, err = devices.Observe(ctx, u.ID, dc, true, now)
	require.NoError(t, err)
	require.Equal(t, 2, d.SuccessCount)
	require.Equal(t, 1, d.IPChanges)
	require.Zero(t, d.AgentChanges)

	trusted, err := devices.Trust(ctx, u.ID, dc, 0.8, now.Add(90*24*time.Hour), now)
	require.NoError(t, err)
	require.True(t, trusted.IsTrusted)
	require.GreaterOrEqual(t, trusted.TrustScore, 0.8)

	found, err := devices.FindTrusted(ctx, f.tenant.ID, dc.Fingerprint, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, u.ID, found[0].Device.UserID)

	found, err = devices.FindTrusted(ctx, uuid.New(), dc.Fingerprint, now)
	require.NoError(t, err)
	require.Empty(t, found)

	seen := now.Add(time.Hour)
	require.NoError(t, devices.Touch(ctx, trusted.ID, 0.91, "10.0.0.3", seen))
	found, err = devices.FindTrusted(ctx, f.tenant.ID, dc.Fingerprint, now)
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.InDelta(t, 0.91, found[0].Device.TrustScore, 1e-9)
	require.Equal(t, "10.0.0.3", found[0].Device.LastIP)
	require.WithinDuration(t, seen, found[0].Device.LastSeenAt, time.Millisecond)

	require.NoError(t, devices.Touch(ctx, trusted.ID, 0.92, "", seen))
	found, err = devices.FindTrusted(ctx, f.tenant.ID, dc.Fingerprint, now)
	require.NoError(t, err)
	require.Equal(t, "10.0.0.3", found[0].Device.LastIP)

	require.ErrorIs(t, devices.Touch(ctx, uuid.New(), 0.5, "10.0.0.3", seen), model.ErrNotFound)
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	audit := repo.NewAuditRepository(f.conn)

	old := model.AuditEvent{
		ID: uuid.New(), TenantID: &f.tenant.ID, EventType: model.EventLogout, CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	recent := model.AuditEvent{
		ID: uuid.New(), TenantID: &f.tenant.ID, EventType: model.EventLoginSuccess,
		Details: map[string]any{"method": "magic_link"}, CreatedAt: time.Now(),
	}
	require.NoError(t, audit.Insert(ctx, old))
	require.NoError(t, audit.Insert(ctx, recent))

	events, err := audit.List(ctx, f.tenant.ID, model.AuditFilter{EventType: model.EventLoginSuccess, Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "magic_link", events[0].Details["method"])

	before, err := audit.ListBefore(ctx, time.Now().Add(-24*time.Hour), 100)
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(before))
	for _, e := range before {
		ids = append(ids, e.ID)
	}
	require.Contains(t, ids, old.ID)

	n, err := audit.DeleteByIDs(ctx, []uuid.UUID{old.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}
