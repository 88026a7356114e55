package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/nexuslearn-backend/internal/pkg/errors"
	"github.com/yungbote/nexuslearn-backend/internal/platform/apierr"
)

func yearlyInput(session, year, code string) ResourceInput {
	return ResourceInput{
		Type:      sp("alevel"),
		Subject:   sp("Computer Science"),
		Section:   sp("yearly"),
		Name:      sp(session + " " + year + " " + code),
		QP:        sp("https://example.org/qp.pdf"),
		MS:        sp("https://example.org/ms.pdf"),
		Session:   sp(session),
		Year:      sp(year),
		PaperCode: sp(code),
	}
}

func TestResourceCreateDerivesIdentity(t *testing.T) {
	env := newTestEnv(t)
	inv := &countingInvalidator{}
	svc := NewResourceService(env.db, testutil.Logger(t), env.resources, inv)
	admin := env.seedUser(t, "admin", types.RoleAdmin)

	r, err := svc.Create(asUser(admin), yearlyInput("June", "2023", "12"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ID == uuid.Nil || r.IdentityValue() != "june_2023_12" {
		t.Fatalf("Create: id=%v identity=%q", r.ID, r.IdentityValue())
	}
	if r.PrimaryURL != "https://example.org/qp.pdf" || r.SecondaryURL != "https://example.org/ms.pdf" {
		t.Fatalf("Create: links %q %q", r.PrimaryURL, r.SecondaryURL)
	}
	if !r.IsActive || r.CreatedBy != "admin" || r.SizeHint != 3 {
		t.Fatalf("Create: defaults active=%v created_by=%q size=%d", r.IsActive, r.CreatedBy, r.SizeHint)
	}
	if inv.Count() != 1 {
		t.Fatalf("invalidations got=%d want=1", inv.Count())
	}

	_, err = svc.Create(asUser(admin), yearlyInput("june", "2023", "12"))
	if !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("duplicate: got=%v want=%v", err, pkgerrors.ErrConflict)
	}
}

func TestResourceCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewResourceService(env.db, testutil.Logger(t), env.resources, nil)
	admin := env.seedUser(t, "admin", types.RoleAdmin)

	_, err := svc.Create(asUser(admin), ResourceInput{Type: sp("gcse"), Section: sp("yearly"), Year: sp("twenty")})
	var ve *apierr.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range []string{"type", "subject", "name", "session", "year", "paperCode"} {
		if _, ok := ve.Fields[f]; !ok {
			t.Fatalf("missing field error %q in %v", f, ve.Fields)
		}
	}
	if ve.Fields["year"] != "must be numeric" {
		t.Fatalf("year message got=%q", ve.Fields["year"])
	}
}

func TestResourceWritesRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewResourceService(env.db, testutil.Logger(t), env.resources, nil)
	user := env.seedUser(t, "student", types.RoleUser)

	if _, err := svc.Create(asUser(user), yearlyInput("june", "2023", "12")); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Fatalf("Create as user: got=%v want=%v", err, pkgerrors.ErrForbidden)
	}
	if err := svc.Delete(anonymous(), uuid.New(), false); !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("Delete anonymous: got=%v want=%v", err, pkgerrors.ErrUnauthorized)
	}
}

func TestResourceUpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	inv := &countingInvalidator{}
	svc := NewResourceService(env.db, testutil.Logger(t), env.resources, inv)
	admin := env.seedUser(t, "admin", types.RoleAdmin)
	ctx := asUser(admin)

	a, err := svc.Create(ctx, yearlyInput("june", "2023", "12"))
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	b, err := svc.Create(ctx, yearlyInput("june", "2023", "13"))
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}

	updated, err := svc.Update(ctx, a.ID, ResourceInput{Order: ip(5), Name: sp("Renamed"), PaperCode: sp("11")})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed" || updated.Order != 5 || updated.IdentityValue() != "june_2023_11" {
		t.Fatalf("Update: unexpected %+v", updated)
	}

	if _, err := svc.Update(ctx, b.ID, ResourceInput{PaperCode: sp("11")}); !errors.Is(err, pkgerrors.ErrConflict) {
		t.Fatalf("Update into duplicate: got=%v want=%v", err, pkgerrors.ErrConflict)
	}
	if _, err := svc.Update(ctx, uuid.New(), ResourceInput{Name: sp("x")}); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("Update missing: got=%v want=%v", err, pkgerrors.ErrNotFound)
	}

	if err := svc.Delete(ctx, a.ID, false); err != nil {
		t.Fatalf("soft Delete: %v", err)
	}
	page, err := svc.List(ctx, ResourceListInput{Type: "alevel"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 2 || page.Page != 1 || page.Limit != 50 {
		t.Fatalf("List: total=%d page=%d limit=%d", page.Total, page.Page, page.Limit)
	}
	active, err := svc.List(ctx, ResourceListInput{Type: "alevel", ActiveOnly: true})
	if err != nil || active.Total != 1 {
		t.Fatalf("List active: err=%v total=%d", err, active.Total)
	}

	if err := svc.Delete(ctx, b.ID, true); err != nil {
		t.Fatalf("hard Delete: %v", err)
	}
	if err := svc.Delete(ctx, b.ID, true); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("Delete twice: got=%v want=%v", err, pkgerrors.ErrNotFound)
	}
}

func TestApplyResourceInputLinkPrecedence(t *testing.T) {
	book := &types.Resource{}
	applyResourceInput(book, ResourceInput{Section: sp("books"), Link1: sp("l1"), QP: sp("qp")})
	if book.PrimaryURL != "l1" {
		t.Fatalf("books primary got=%q want=l1", book.PrimaryURL)
	}
	paper := &types.Resource{}
	applyResourceInput(paper, ResourceInput{Section: sp("yearly"), Link1: sp("l1"), QP: sp("qp"), Link2: sp("l2")})
	if paper.PrimaryURL != "qp" || paper.SecondaryURL != "l2" {
		t.Fatalf("yearly got primary=%q secondary=%q", paper.PrimaryURL, paper.SecondaryURL)
	}
	inactive := &types.Resource{IsActive: true}
	applyResourceInput(inactive, ResourceInput{IsActive: bp(false)})
	if inactive.IsActive {
		t.Fatalf("IsActive should be cleared")
	}
}

type failingDeleteRepo struct {
	repos.ResourceRepo
}

func (r failingDeleteRepo) HardDelete(dbc dbctx.Context, id uuid.UUID) error {
	if err := r.ResourceRepo.HardDelete(dbc, id); err != nil {
		return err
	}
	return errors.New("delete hook failed")
}

func TestResourceDeleteRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	inv := &countingInvalidator{}
	svc := NewResourceService(env.db, testutil.Logger(t), failingDeleteRepo{env.resources}, inv)
	admin := env.seedUser(t, "admin", types.RoleAdmin)
	ctx := asUser(admin)

	r, err := svc.Create(ctx, yearlyInput("june", "2023", "12"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created := inv.Count()

	if err := svc.Delete(ctx, r.ID, true); err == nil {
		t.Fatalf("Delete: expected error")
	}
	if _, err := env.resources.GetByID(dbctx.Context{Ctx: context.Background()}, r.ID); err != nil {
		t.Fatalf("record should survive rolled back delete: %v", err)
	}
	if inv.Count() != created {
		t.Fatalf("invalidations got=%d want=%d", inv.Count(), created)
	}
}
