package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/inkwell/internal/apperr"
	authdomain "github.com/smallbiznis/inkwell/internal/auth/domain"
	authrepository "github.com/smallbiznis/inkwell/internal/auth/repository"
	"github.com/smallbiznis/inkwell/internal/auth/scope"
	"github.com/smallbiznis/inkwell/internal/clock"
	"github.com/smallbiznis/inkwell/internal/migration"
	organizationdomain "github.com/smallbiznis/inkwell/internal/organization/domain"
	"github.com/smallbiznis/inkwell/internal/orgcontext"
	"github.com/smallbiznis/inkwell/internal/seed"
	"github.com/smallbiznis/inkwell/internal/staff/domain"
	"github.com/smallbiznis/inkwell/internal/staff/repository"
	"github.com/smallbiznis/inkwell/pkg/db"
)

type fixture struct {
	conn  *gorm.DB
	node  *snowflake.Node
	svc   domain.Service
	users authdomain.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := migration.Apply(conn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := seed.EnsureRoles(conn); err != nil {
		t.Fatalf("failed to seed roles: %v", err)
	}
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	users := authrepository.New(conn)
	return &fixture{
		conn:  conn,
		node:  node,
		users: users,
		svc: NewService(Params{
			DB:    conn,
			Log:   zap.NewNop(),
			GenID: node,
			Clock: clock.NewFakeClock(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)),
			Repo:  repository.NewRepository(conn),
			Users: users,
		}),
	}
}

func (f *fixture) user(t *testing.T, email string) snowflake.ID {
	t.Helper()
	u := &authdomain.User{ID: f.node.Generate(), Email: email, PasswordHash: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

// org creates an organization owned by a fresh super_admin and returns the owner's membership.
func (f *fixture) org(t *testing.T, name string) orgcontext.Membership {
	t.Helper()
	owner := f.user(t, name+"-owner@example.com")
	org := &organizationdomain.Organization{ID: f.node.Generate(), Name: name, Slug: name, CreatedByID: owner}
	require.NoError(t, f.conn.Create(org).Error)

	staff := &domain.Staff{ID: f.node.Generate(), OrganizationID: org.ID, UserID: owner, RoleID: scope.RoleSuperAdmin}
	require.NoError(t, f.conn.Omit("Role", "User").Create(staff).Error)

	return orgcontext.Membership{
		OrganizationID: org.ID,
		StaffID:        staff.ID,
		UserID:         owner,
		Role:           scope.RoleSuperAdmin,
	}
}

func (f *fixture) add(t *testing.T, actor orgcontext.Membership, userID snowflake.ID, role scope.Role) *domain.Staff {
	t.Helper()
	staff, err := f.svc.Add(context.Background(), actor, domain.AddStaffRequest{
		UserID:         userID,
		RoleID:         role,
		OrganizationID: actor.OrganizationID,
	})
	require.NoError(t, err)
	return staff
}

func asMember(s *domain.Staff) orgcontext.Membership {
	return orgcontext.Membership{
		OrganizationID: s.OrganizationID,
		StaffID:        s.ID,
		UserID:         s.UserID,
		Role:           s.RoleID,
	}
}

func TestAddStaff(t *testing.T) {
	f := newFixture(t)
	owner := f.org(t, "acme")
	bob := f.user(t, "bob@example.com")

	staff := f.add(t, owner, bob, scope.RoleEditor)
	assert.Equal(t, scope.RoleEditor, staff.RoleID)
	require.NotNil(t, staff.Role)
	assert.Equal(t, "Editor", staff.Role.Name)
	require.NotNil(t, staff.User)
	assert.Equal(t, "bob@example.com", staff.User.Email)

	_, err := f.svc.Add(context.Background(), owner, domain.AddStaffRequest{
		UserID: bob, RoleID: scope.RoleReviewer, OrganizationID: owner.OrganizationID,
	})
	assert.ErrorIs(t, err, apperr.ErrExists)

	resolved, err := f.svc.Resolve(context.Background(), bob, owner.OrganizationID)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, resolved.ID)
}

func TestAddStaffRejections(t *testing.T) {
	f := newFixture(t)
	owner := f.org(t, "acme")
	other := f.org(t, "globex")
	carol := f.user(t, "carol@example.com")
	admin := f.add(t, owner, f.user(t, "admin@example.com"), scope.RoleAdmin)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor orgcontext.Membership
		req   domain.AddStaffRequest
		want  error
	}{
		{"missing fields", owner, domain.AddStaffRequest{}, apperr.ErrValidation},
		{"unknown role", owner, domain.AddStaffRequest{UserID: carol, RoleID: "owner", OrganizationID: owner.OrganizationID}, apperr.ErrNotFound},
		{"admin grants admin", asMember(admin), domain.AddStaffRequest{UserID: carol, RoleID: scope.RoleAdmin, OrganizationID: owner.OrganizationID}, apperr.ErrNotAllowedAccess},
		{"unknown user", owner, domain.AddStaffRequest{UserID: 99, RoleID: scope.RoleEditor, OrganizationID: owner.OrganizationID}, apperr.ErrNotFound},
		{"unknown organization", owner, domain.AddStaffRequest{UserID: carol, RoleID: scope.RoleEditor, OrganizationID: 99}, apperr.ErrNotFound},
		{"other organization", owner, domain.AddStaffRequest{UserID: carol, RoleID: scope.RoleEditor, OrganizationID: other.OrganizationID}, apperr.ErrNotAllowedAccess},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Add(ctx, tc.actor, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	staff := f.add(t, asMember(admin), carol, scope.RoleReviewer)
	assert.Equal(t, scope.RoleReviewer, staff.RoleID)
}

func TestRemoveAndReAdd(t *testing.T) {
	f := newFixture(t)
	owner := f.org(t, "acme")
	dave := f.user(t, "dave@example.com")
	ctx := context.Background()

	staff := f.add(t, owner, dave, scope.RoleEditor)
	require.NoError(t, f.svc.Remove(ctx, owner, staff.ID))

	_, err := f.svc.Resolve(ctx, dave, owner.OrganizationID)
	assert.ErrorIs(t, err, apperr.ErrNotAllowedAccess)
	assert.ErrorIs(t, f.svc.Remove(ctx, owner, staff.ID), apperr.ErrNotFound)

	restored := f.add(t, owner, dave, scope.RoleReviewer)
	assert.Equal(t, staff.ID, restored.ID)
	assert.Equal(t, scope.RoleReviewer, restored.RoleID)
}

func TestUpdateRole(t *testing.T) {
	f := newFixture(t)
	owner := f.org(t, "acme")
	ctx := context.Background()
	editor := f.add(t, owner, f.user(t, "ed@example.com"), scope.RoleEditor)
	admin := f.add(t, owner, f.user(t, "ad@example.com"), scope.RoleAdmin)

	updated, err := f.svc.UpdateRole(ctx, owner, editor.ID, domain.UpdateRoleRequest{RoleID: scope.RoleReviewer})
	require.NoError(t, err)
	assert.Equal(t, scope.RoleReviewer, updated.RoleID)

	_, err = f.svc.UpdateRole(ctx, asMember(admin), editor.ID, domain.UpdateRoleRequest{RoleID: scope.RoleAdmin})
	assert.ErrorIs(t, err, apperr.ErrNotAllowedAccess)

	_, err = f.svc.UpdateRole(ctx, asMember(admin), admin.ID, domain.UpdateRoleRequest{RoleID: scope.RoleEditor})
	assert.ErrorIs(t, err, apperr.ErrNotAllowedAccess)

	_, err = f.svc.UpdateRole(ctx, asMember(admin), owner.StaffID, domain.UpdateRoleRequest{RoleID: scope.RoleEditor})
	assert.ErrorIs(t, err, apperr.ErrNotAllowedAccess)

	_, err = f.svc.UpdateRole(ctx, owner, editor.ID, domain.UpdateRoleRequest{})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	assert.ErrorIs(t, f.svc.Remove(ctx, asMember(admin), admin.ID), apperr.ErrNotAllowedAccess)
}

func TestResolveAndList(t *testing.T) {
	f := newFixture(t)
	owner := f.org(t, "acme")
	stranger := f.user(t, "stranger@example.com")
	ctx := context.Background()

	_, err := f.svc.Resolve(ctx, owner.UserID, snowflake.ID(12345))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.Resolve(ctx, stranger, owner.OrganizationID)
	assert.ErrorIs(t, err, apperr.ErrNotAllowedAccess)

	f.add(t, owner, f.user(t, "a@example.com"), scope.RoleUser)
	items, err := f.svc.List(ctx, owner.OrganizationID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	empty, err := f.svc.List(ctx, snowflake.ID(12345))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
