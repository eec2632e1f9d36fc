package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/policy"
	"github.com/arklim/cinema-booking/internal/core/port"
)

func newUserService(t *testing.T) (*UserService, *stubUserRepo, *capturePublisher) {
	t.Helper()
	repo := newStubUserRepo()
	events := &capturePublisher{}
	return NewUserService(repo, events, zaptest.NewLogger(t)), repo, events
}

func asPrincipal(u domain.User) domain.Principal {
	return domain.Principal{UserID: u.ID, Role: u.Role, Active: u.Active}
}

func TestRegisterClientAnonymous(t *testing.T) {
	svc, _, events := newUserService(t)

	user, err := svc.Register(context.Background(), domain.Anonymous(), policy.ClientUser, "client_alice", "pa55word")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("expected client role, got %s", user.Role)
	}
	if !user.Active {
		t.Fatalf("new accounts should start active")
	}
	if user.Version == "" {
		t.Fatalf("new accounts must carry a version tag")
	}
	if len(events.registered) != 1 {
		t.Fatalf("expected one registered event, got %d", len(events.registered))
	}
}

func TestRegisterLoginValidation(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	cases := []string{
		"short7c",                  // 7 chars
		"a" + strings.Repeat("b", 20), // 21 chars
		"1starts_with_digit",
		"has space io",
	}
	for _, login := range cases {
		if _, err := svc.Register(ctx, domain.Anonymous(), policy.ClientUser, login, "pa55word"); !errors.Is(err, ErrValidation) {
			t.Errorf("login %q: expected ErrValidation, got %v", login, err)
		}
	}

	// exactly 8 and exactly 20 are accepted
	for _, login := range []string{"abcdefgh", "a" + strings.Repeat("b", 19)} {
		if _, err := svc.Register(ctx, domain.Anonymous(), policy.ClientUser, login, "pa55word"); err != nil {
			t.Errorf("login %q should be accepted, got %v", login, err)
		}
	}
}

func TestRegisterDuplicateLogin(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, domain.Anonymous(), policy.ClientUser, "client_alice", "pa55word"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := svc.Register(ctx, domain.Anonymous(), policy.ClientUser, "client_alice", "pa55word"); !errors.Is(err, ErrLoginTaken) {
		t.Fatalf("expected ErrLoginTaken, got %v", err)
	}
}

func TestRegisterKindGating(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, domain.Anonymous(), policy.StaffUser, "staff_bob_1", "pa55word"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous staff creation should be forbidden, got %v", err)
	}

	staff := seedUser(t, repo, "staff_bob_1", "pa55word", domain.RoleStaff, true)

	if _, err := svc.Register(ctx, asPrincipal(staff), policy.ClientUser, "client_carol", "pa55word"); err != nil {
		t.Fatalf("staff should create clients, got %v", err)
	}
	if _, err := svc.Register(ctx, asPrincipal(staff), policy.StaffUser, "staff_dora_1", "pa55word"); err != nil {
		t.Fatalf("staff should create staff, got %v", err)
	}
	if _, err := svc.Register(ctx, asPrincipal(staff), policy.AdminUser, "admin_eve_1", "pa55word"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff creating admins should be forbidden, got %v", err)
	}

	admin := seedUser(t, repo, "admin_root_1", "pa55word", domain.RoleAdmin, true)
	if _, err := svc.Register(ctx, asPrincipal(admin), policy.AdminUser, "admin_eve_1", "pa55word"); err != nil {
		t.Fatalf("admin should create admins, got %v", err)
	}
}

func TestGetHidesKindMismatch(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	staffUser := seedUser(t, repo, "staff_bob_1", "pa55word", domain.RoleStaff, true)
	admin := seedUser(t, repo, "admin_root_1", "pa55word", domain.RoleAdmin, true)

	// staff account addressed through the client collection reads as absent
	if _, err := svc.Get(ctx, asPrincipal(admin), policy.ClientUser, staffUser.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("kind mismatch should read as not found, got %v", err)
	}
	if _, err := svc.Get(ctx, asPrincipal(admin), policy.StaffUser, staffUser.ID); err != nil {
		t.Fatalf("correct kind should resolve, got %v", err)
	}
}

func TestGetMissingUserErrorShape(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	client := seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)
	staff := seedUser(t, repo, "staff_bob_1", "pa55word", domain.RoleStaff, true)

	// staff may read clients, so a missing client reads as not found
	if _, err := svc.Get(ctx, asPrincipal(staff), policy.ClientUser, "missing-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("reader with permission should see not found, got %v", err)
	}

	// clients may not read other clients, so the same probe is forbidden
	if _, err := svc.Get(ctx, asPrincipal(client), policy.ClientUser, "missing-id"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("reader without permission should see forbidden, got %v", err)
	}
}

func TestUpdateProfileVersionFlow(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)
	p := asPrincipal(user)

	// no version supplied
	if _, err := svc.UpdateProfile(ctx, p, policy.ClientUser, user.ID, ProfileUpdate{Password: "newpass99"}, nil); !errors.Is(err, ErrVersionRequired) {
		t.Fatalf("expected ErrVersionRequired, got %v", err)
	}

	// stale version supplied
	stale := "not-the-version"
	if _, err := svc.UpdateProfile(ctx, p, policy.ClientUser, user.ID, ProfileUpdate{Password: "newpass99"}, &stale); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}

	// matching version succeeds and rotates the tag
	updated, err := svc.UpdateProfile(ctx, p, policy.ClientUser, user.ID, ProfileUpdate{Password: "newpass99"}, &user.Version)
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Version == user.Version {
		t.Fatalf("version tag must rotate on update")
	}
	if updated.Login != user.Login || updated.ID != user.ID {
		t.Fatalf("id and login must be immutable")
	}

	// the previous tag no longer matches
	if _, err := svc.UpdateProfile(ctx, p, policy.ClientUser, user.ID, ProfileUpdate{Password: "thirdpass"}, &user.Version); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("stale tag after rotation should mismatch, got %v", err)
	}
}

func TestUpdateProfileOwnershipGating(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	alice := seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)
	mallory := seedUser(t, repo, "client_mallory", "pa55word", domain.RoleClient, true)

	if _, err := svc.UpdateProfile(ctx, asPrincipal(mallory), policy.ClientUser, alice.ID, ProfileUpdate{Password: "hacked99"}, &alice.Version); !errors.Is(err, ErrForbidden) {
		t.Fatalf("client updating another client should be forbidden, got %v", err)
	}

	staff := seedUser(t, repo, "staff_bob_1", "pa55word", domain.RoleStaff, true)
	other := seedUser(t, repo, "staff_carl_1", "pa55word", domain.RoleStaff, true)

	if _, err := svc.UpdateProfile(ctx, asPrincipal(staff), policy.StaffUser, other.ID, ProfileUpdate{Password: "changed99"}, &other.Version); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff updating another staff profile should be forbidden, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, asPrincipal(staff), policy.StaffUser, staff.ID, ProfileUpdate{Password: "changed99"}, &staff.Version); err != nil {
		t.Fatalf("staff updating own profile should succeed, got %v", err)
	}
}

func TestAdminUpdateOtherAdminDenied(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	admin := seedUser(t, repo, "admin_root_1", "pa55word", domain.RoleAdmin, true)
	peer := seedUser(t, repo, "admin_peer_1", "pa55word", domain.RoleAdmin, true)

	if _, err := svc.UpdateProfile(ctx, asPrincipal(admin), policy.AdminUser, peer.ID, ProfileUpdate{Password: "changed99"}, &peer.Version); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin editing another admin's fields should be forbidden, got %v", err)
	}

	// lifecycle on a peer admin stays allowed
	if _, err := svc.SetActive(ctx, asPrincipal(admin), policy.AdminUser, peer.ID, false); err != nil {
		t.Fatalf("admin deactivating a peer admin should succeed, got %v", err)
	}
}

func TestSetActiveLifecycle(t *testing.T) {
	svc, repo, events := newUserService(t)
	ctx := context.Background()

	staff := seedUser(t, repo, "staff_bob_1", "pa55word", domain.RoleStaff, true)
	client := seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)

	updated, err := svc.SetActive(ctx, asPrincipal(staff), policy.ClientUser, client.ID, false)
	if err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if updated.Active {
		t.Fatalf("expected account to be deactivated")
	}
	if updated.Version == client.Version {
		t.Fatalf("lifecycle change must rotate the version tag")
	}
	if len(events.lifecycle) != 1 || events.lifecycle[0].Active {
		t.Fatalf("expected one deactivation event, got %+v", events.lifecycle)
	}

	reactivated, err := svc.SetActive(ctx, asPrincipal(staff), policy.ClientUser, client.ID, true)
	if err != nil {
		t.Fatalf("reactivation returned error: %v", err)
	}
	if !reactivated.Active {
		t.Fatalf("expected account to be active again")
	}

	// clients cannot manage lifecycle at all
	if _, err := svc.SetActive(ctx, asPrincipal(client), policy.ClientUser, client.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("client lifecycle change should be forbidden, got %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	admin := seedUser(t, repo, "admin_root_1", "pa55word", domain.RoleAdmin, true)
	client := seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)
	staff := seedUser(t, repo, "staff_bob_1", "pa55word", domain.RoleStaff, true)

	if err := svc.Delete(ctx, asPrincipal(staff), policy.ClientUser, client.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff deleting users should be forbidden, got %v", err)
	}

	if err := svc.Delete(ctx, asPrincipal(admin), policy.ClientUser, client.ID); err != nil {
		t.Fatalf("admin delete returned error: %v", err)
	}

	// second delete of the same id reads as not found
	if err := svc.Delete(ctx, asPrincipal(admin), policy.ClientUser, client.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}

func TestListFiltersByKind(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)
	seedUser(t, repo, "client_basil", "pa55word", domain.RoleClient, false)
	staff := seedUser(t, repo, "staff_bob_1", "pa55word", domain.RoleStaff, true)

	clients, err := svc.List(ctx, asPrincipal(staff), policy.ClientUser, port.UserFilter{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(clients))
	}
	for _, u := range clients {
		if u.Role != domain.RoleClient {
			t.Fatalf("list leaked non-client user %+v", u)
		}
	}

	active := true
	activeOnly, err := svc.List(ctx, asPrincipal(staff), policy.ClientUser, port.UserFilter{Active: &active})
	if err != nil {
		t.Fatalf("List with filter returned error: %v", err)
	}
	if len(activeOnly) != 1 {
		t.Fatalf("expected 1 active client, got %d", len(activeOnly))
	}

	if _, err := svc.List(ctx, asPrincipal(staff), policy.StaffUser, port.UserFilter{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("staff listing staff should be forbidden, got %v", err)
	}
}

func TestGetSelf(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)

	got, err := svc.GetSelf(ctx, asPrincipal(user))
	if err != nil {
		t.Fatalf("GetSelf returned error: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("expected own account, got %+v", got)
	}

	if _, err := svc.GetSelf(ctx, domain.Anonymous()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("anonymous self-read should be forbidden, got %v", err)
	}
}

func TestUpdateProfileRejectsIdentityChange(t *testing.T) {
	svc, repo, _ := newUserService(t)
	ctx := context.Background()

	user := seedUser(t, repo, "client_alice", "pa55word", domain.RoleClient, true)
	self := asPrincipal(user)

	if _, err := svc.UpdateProfile(ctx, self, policy.ClientUser, user.ID,
		ProfileUpdate{ID: "someone-else", Password: "newpass99"}, &user.Version); !errors.Is(err, ErrValidation) {
		t.Fatalf("changed id: expected ErrValidation, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, self, policy.ClientUser, user.ID,
		ProfileUpdate{Login: "client_mallory", Password: "newpass99"}, &user.Version); !errors.Is(err, ErrValidation) {
		t.Fatalf("changed login: expected ErrValidation, got %v", err)
	}

	// the rejection does not depend on the version precondition
	if _, err := svc.UpdateProfile(ctx, self, policy.ClientUser, user.ID,
		ProfileUpdate{Login: "client_mallory", Password: "newpass99"}, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("changed login without precondition: expected ErrValidation, got %v", err)
	}

	// echoing the stored identity verbatim is a well-formed update
	updated, err := svc.UpdateProfile(ctx, self, policy.ClientUser, user.ID,
		ProfileUpdate{ID: user.ID, Login: user.Login, Password: "newpass99"}, &user.Version)
	if err != nil {
		t.Fatalf("echoed identity: %v", err)
	}
	if updated.ID != user.ID || updated.Login != user.Login {
		t.Fatalf("identity drifted: %+v", updated)
	}
}
