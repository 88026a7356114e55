package resources

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
)

func strPtr(s string) *string { return &s }

func newResource(name, section string) *types.Resource {
	return &types.Resource{
		Type:      "alevel",
		Subject:   "Computer Science",
		Section:   section,
		Name:      name,
		SizeHint:  3,
		IsActive:  true,
		CreatedBy: "admin",
	}
}

func TestResourceRepoCRUD(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	repo := NewResourceRepo(db, testutil.Logger(t))

	r := newResource("June 2023 Paper 12", "yearly")
	r.Session, r.Year, r.PaperCode = "june", "2023", "12"
	r.Identity = strPtr("june_2023_12")
	created, err := repo.Create(dbc, r)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil || created.SubjectKey != "computer science" {
		t.Fatalf("Create: id=%v subject_key=%q", created.ID, created.SubjectKey)
	}

	got, err := repo.GetByID(dbc, created.ID)
	if err != nil || got.Name != r.Name {
		t.Fatalf("GetByID: err=%v got=%+v", err, got)
	}
	if _, err := repo.GetByID(dbc, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("GetByID missing: got=%v want=%v", err, pkgerrors.ErrNotFound)
	}

	got.Name = "renamed"
	got.Order = 4
	updated, err := repo.Update(dbc, got)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "renamed" || updated.Order != 4 || updated.CreatedBy != "admin" {
		t.Fatalf("Update: unexpected %+v", updated)
	}
	missing := newResource("x", "books")
	missing.ID = uuid.New()
	if _, err := repo.Update(dbc, missing); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("Update missing: got=%v want=%v", err, pkgerrors.ErrNotFound)
	}

	dup := newResource("dup", "yearly")
	dup.Identity = strPtr("june_2023_12")
	exists, err := repo.IdentityExists(dbc, dup)
	if err != nil || !exists {
		t.Fatalf("IdentityExists: err=%v exists=%v", err, exists)
	}
	err = tx.Transaction(func(inner *gorm.DB) error {
		_, err := repo.Create(testutil.DBC(inner), dup)
		return err
	})
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("Create duplicate: got=%v want=%v", err, pkgerrors.ErrConflict)
	}
	exists, err = repo.IdentityExists(dbc, updated)
	if err != nil || exists {
		t.Fatalf("IdentityExists self: err=%v exists=%v", err, exists)
	}

	if err := repo.SoftDelete(dbc, created.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	active, err := repo.FindActive(dbc, ActiveQuery{Type: "alevel", Subject: "computer science", Section: "yearly"})
	if err != nil || len(active) != 0 {
		t.Fatalf("FindActive after soft delete: err=%v len=%d", err, len(active))
	}
	if got, err := repo.GetByID(dbc, created.ID); err != nil || got.IsActive {
		t.Fatalf("soft deleted record: err=%v active=%v", err, got.IsActive)
	}

	if err := repo.HardDelete(dbc, created.ID); err != nil {
		t.Fatalf("HardDelete: %v", err)
	}
	if err := repo.HardDelete(dbc, created.ID); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("HardDelete twice: got=%v want=%v", err, pkgerrors.ErrNotFound)
	}
}

func TestResourceRepoFindActive(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	repo := NewResourceRepo(db, testutil.Logger(t))

	testutil.SeedResource(t, tx, newResource("first", "yearly"))
	second := newResource("second", "yearly")
	second.Subject = " COMPUTER SCIENCE"
	testutil.SeedResource(t, tx, second)
	inactive := newResource("inactive", "yearly")
	inactive.IsActive = false
	testutil.SeedResource(t, tx, inactive)
	testutil.SeedResource(t, tx, newResource("book", "books"))
	sat := &types.Resource{Type: "sat", Subject: "SAT", Section: "english", DataKey: "english", Name: "vocab", IsActive: true}
	testutil.SeedResource(t, tx, sat)

	got, err := repo.FindActive(dbc, ActiveQuery{Type: "alevel", Subject: "Computer Science", Section: "yearly"})
	if err != nil {
		t.Fatalf("FindActive: %v", err)
	}
	if len(got) != 2 || got[0].Name != "first" || got[1].Name != "second" {
		t.Fatalf("FindActive: unexpected %+v", got)
	}

	got, err = repo.FindActive(dbc, ActiveQuery{Type: "sat", Section: "books", DataKey: "english"})
	if err != nil || len(got) != 1 || got[0].Name != "vocab" {
		t.Fatalf("FindActive sat: err=%v got=%+v", err, got)
	}
}

func TestResourceRepoList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)
	repo := NewResourceRepo(db, testutil.Logger(t))

	for _, name := range []string{"a", "b", "c"} {
		testutil.SeedResource(t, tx, newResource(name, "books"))
	}
	off := newResource("d", "books")
	off.IsActive = false
	testutil.SeedResource(t, tx, off)

	page, total, err := repo.List(dbc, ListQuery{Type: "alevel", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 4 || len(page) != 2 || page[0].Name != "d" || page[1].Name != "c" {
		t.Fatalf("List page 1: total=%d got=%+v", total, page)
	}
	page, _, err = repo.List(dbc, ListQuery{Type: "alevel", Page: 2, Limit: 2})
	if err != nil || len(page) != 2 || page[0].Name != "b" {
		t.Fatalf("List page 2: err=%v got=%+v", err, page)
	}
	_, total, err = repo.List(dbc, ListQuery{Type: "alevel", ActiveOnly: true})
	if err != nil || total != 3 {
		t.Fatalf("List active: err=%v total=%d", err, total)
	}
}
