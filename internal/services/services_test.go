package services

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/catalog"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos"
	"github.com/yungbote/nexuslearn-backend/internal/data/repos/testutil"
	types "github.com/yungbote/nexuslearn-backend/internal/domain"
	"github.com/yungbote/nexuslearn-backend/internal/platform/ctxutil"
)

type testEnv struct {
	db        *gorm.DB
	users     repos.UserRepo
	resources repos.ResourceRepo
	scores    repos.ScoreRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.Fresh(t)
	log := testutil.Logger(t)
	return &testEnv{
		db:        db,
		users:     repos.NewUserRepo(db, log),
		resources: repos.NewResourceRepo(db, log),
		scores:    repos.NewScoreRepo(db, log),
	}
}

func (e *testEnv) seedUser(t *testing.T, username, role string) *types.User {
	t.Helper()
	u := testutil.SeedUser(t, e.db, username)
	if role != types.RoleUser {
		if err := e.db.Model(u).Update("role", role).Error; err != nil {
			t.Fatalf("set role: %v", err)
		}
		u.Role = role
	}
	return u
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	})
}

func anonymous() context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: uuid.Nil})
}

type countingInvalidator struct {
	mu    sync.Mutex
	types []catalog.QualificationType
}

func (c *countingInvalidator) Invalidate(_ context.Context, t catalog.QualificationType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = append(c.types, t)
	return nil
}

func (c *countingInvalidator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.types)
}

func sp(s string) *string   { return &s }
func ip(i int) *int         { return &i }
func fp(f float64) *float64 { return &f }
func bp(b bool) *bool       { return &b }
