package site

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	id "siteflow/pkg/domain"
	dErrors "siteflow/pkg/domain-errors"
)

func testProvisioner() (*Provisioner, *InMemory) {
	store := NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProvisioner(store, logger), store
}

func TestCreateSite(t *testing.T) {
	p, _ := testProvisioner()
	owner := id.IdentityID(uuid.New())

	site, err := p.CreateSite(context.Background(), "myblog.example.test", "/", "My Blog", owner)
	if err != nil {
		t.Fatalf("unexpected error creating site: %v", err)
	}
	if site.OwnerID != owner {
		t.Fatalf("expected requester to own the site")
	}
	if site.OwnerRole != RoleAdministrator {
		t.Fatalf("expected owner to be administrator, got %s", site.OwnerRole)
	}
	if site.Address() != "myblog.example.test" {
		t.Fatalf("unexpected address %s", site.Address())
	}
}

func TestCreateSiteCollision(t *testing.T) {
	p, _ := testProvisioner()
	owner := id.IdentityID(uuid.New())

	if _, err := p.CreateSite(context.Background(), "taken.example.test", "/", "First", owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := p.CreateSite(context.Background(), "Taken.example.test", "/", "Second", id.IdentityID(uuid.New()))
	if !dErrors.HasCode(err, dErrors.CodeConflict) {
		t.Fatalf("expected conflict for duplicate address, got %v", err)
	}
}

func TestDomainExists(t *testing.T) {
	p, _ := testProvisioner()
	owner := id.IdentityID(uuid.New())

	exists, err := p.DomainExists(context.Background(), "fresh.example.test", "/")
	if err != nil || exists {
		t.Fatalf("expected address to be free, exists=%v err=%v", exists, err)
	}

	if _, err := p.CreateSite(context.Background(), "fresh.example.test", "/", "", owner); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	exists, err = p.DomainExists(context.Background(), "fresh.example.test", "/")
	if err != nil || !exists {
		t.Fatalf("expected address to be taken, exists=%v err=%v", exists, err)
	}
}

func TestSubdirectoryAddress(t *testing.T) {
	p, _ := testProvisioner()
	owner := id.IdentityID(uuid.New())

	site, err := p.CreateSite(context.Background(), "example.test", "/myblog/", "My Blog", owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if site.Address() != "example.test/myblog/" {
		t.Fatalf("unexpected address %s", site.Address())
	}

	// Same domain, different path is a distinct address.
	if _, err := p.CreateSite(context.Background(), "example.test", "/other/", "", owner); err != nil {
		t.Fatalf("expected distinct path to be free: %v", err)
	}
}

func TestAssignOwner(t *testing.T) {
	p, store := testProvisioner()
	owner := id.IdentityID(uuid.New())

	site, err := p.CreateSite(context.Background(), "blog.example.test", "/", "", owner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newOwner := id.IdentityID(uuid.New())
	if err := p.AssignOwner(context.Background(), site.ID, newOwner, RoleEditor); err != nil {
		t.Fatalf("unexpected error assigning owner: %v", err)
	}

	got, err := store.FindByID(context.Background(), site.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OwnerID != newOwner || got.OwnerRole != RoleEditor {
		t.Fatalf("owner reassignment not persisted")
	}

	err = p.AssignOwner(context.Background(), id.SiteID(uuid.New()), newOwner, "")
	if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown site, got %v", err)
	}
}
