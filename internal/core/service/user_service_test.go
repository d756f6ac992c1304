package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
	"github.com/relaycrm/crm-api/internal/infrastructure/security"
)

func TestUserService_CreateManagerThenLogin(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed(&domain.User{Name: "Root", Email: "root@x.com", Role: domain.RoleAdmin, IsActive: true})

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	tokens, err := security.NewJWTService("scenario-secret", time.Hour)
	if err != nil {
		t.Fatalf("tokens: %v", err)
	}
	users := NewUserService(repo, hasher, zerolog.Nop())
	auth := NewAuthService(repo, hasher, tokens, zerolog.Nop())

	created, err := users.CreateUser(context.Background(), admin, ports.CreateUserInput{
		Name:  "Al",
		Email: "al@x.com",
		Role:  domain.RoleManager,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.TemporaryPassword == "" {
		t.Fatalf("expected temporary password")
	}
	if created.User.PasswordHash != "" {
		t.Fatalf("created user must not carry the hash")
	}
	if !created.User.IsActive || created.User.Role != domain.RoleManager {
		t.Fatalf("unexpected created user %+v", created.User)
	}
	if stored := repo.byID[created.User.ID].PasswordHash; stored == created.TemporaryPassword || stored == "" {
		t.Fatalf("temporary password must be stored hashed")
	}

	res, err := auth.Login(context.Background(), "al@x.com", created.TemporaryPassword)
	if err != nil {
		t.Fatalf("login with temporary password: %v", err)
	}
	claims, err := tokens.Verify(res.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Role != domain.RoleManager || claims.UserID != created.User.ID {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestUserService_CreateUser_Rules(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed(&domain.User{Email: "root@x.com", Role: domain.RoleAdmin, IsActive: true})
	manager := repo.seed(&domain.User{Email: "m@x.com", Role: domain.RoleManager, IsActive: true})
	svc := NewUserService(repo, &stubHasher{}, zerolog.Nop())

	if _, err := svc.CreateUser(context.Background(), manager, ports.CreateUserInput{Name: "Boss", Email: "boss@x.com", Role: domain.RoleAdmin}); !errors.Is(err, domain.ErrAdminRoleRequired) {
		t.Fatalf("manager granting admin: expected ErrAdminRoleRequired, got %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), admin, ports.CreateUserInput{Name: "Dup", Email: "M@x.com", Role: domain.RoleUser}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate: expected ErrEmailTaken, got %v", err)
	}

	var verr *domain.ValidationError
	if _, err := svc.CreateUser(context.Background(), admin, ports.CreateUserInput{Name: "X", Email: "x@x.com", Role: "owner"}); !errors.As(err, &verr) {
		t.Fatalf("bad role: expected validation error, got %v", err)
	}

	if _, err := svc.CreateUser(context.Background(), admin, ports.CreateUserInput{Name: "  ", Email: "blank@x.com"}); !errors.As(err, &verr) || verr.Fields[0].Field != "name" {
		t.Fatalf("blank name: expected name validation error, got %v", err)
	}
	if _, err := repo.FindByEmail(context.Background(), "blank@x.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("blank name must not be stored")
	}

	created, err := svc.CreateUser(context.Background(), admin, ports.CreateUserInput{Name: "Def", Email: "def@x.com"})
	if err != nil {
		t.Fatalf("default role: %v", err)
	}
	if created.User.Role != domain.RoleUser {
		t.Fatalf("expected default role user, got %s", created.User.Role)
	}
}

func TestTemporaryPassword(t *testing.T) {
	a, b := temporaryPassword(), temporaryPassword()
	if len(a) != 32 {
		t.Fatalf("expected 32 chars, got %d", len(a))
	}
	if a == b {
		t.Fatalf("temporary passwords must differ")
	}
}

func TestUserService_ToggleStatus(t *testing.T) {
	repo := newStubUserRepo()
	admin := repo.seed(&domain.User{Email: "root@x.com", Role: domain.RoleAdmin, IsActive: true})
	user := repo.seed(&domain.User{Email: "u@x.com", Role: domain.RoleUser, IsActive: true})
	svc := NewUserService(repo, &stubHasher{}, zerolog.Nop())

	updated, err := svc.ToggleStatus(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if updated.IsActive {
		t.Fatalf("expected deactivated user")
	}
	updated, _ = svc.ToggleStatus(context.Background(), user.ID)
	if !updated.IsActive {
		t.Fatalf("expected reactivated user")
	}
	if repo.toggles != 2 {
		t.Fatalf("each toggle must be a single store write, got %d", repo.toggles)
	}

	if _, err := svc.ToggleStatus(context.Background(), admin.ID); !errors.Is(err, domain.ErrCannotDeactivateAdmin) {
		t.Fatalf("expected ErrCannotDeactivateAdmin, got %v", err)
	}
	if !repo.byID[admin.ID].IsActive {
		t.Fatalf("admin must stay active")
	}

	if _, err := svc.ToggleStatus(context.Background(), "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.ToggleStatus(context.Background(), "bad-id"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, &stubHasher{}, zerolog.Nop())
	ctx := context.Background()

	admin, created, err := svc.EnsureAdmin(ctx, " Root ", "Root@Crm.Local", "changeme")
	if err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if !created || admin.Role != domain.RoleAdmin || !admin.IsActive {
		t.Fatalf("unexpected admin %+v created=%v", admin, created)
	}
	if admin.Name != "Root" || admin.Email != "root@crm.local" {
		t.Fatalf("expected normalized name and email, got %q %q", admin.Name, admin.Email)
	}
	if repo.byID[admin.ID].PasswordHash != "hashed:changeme" {
		t.Fatalf("password must be stored hashed")
	}

	again, created, err := svc.EnsureAdmin(ctx, "Other", "root@crm.local", "different")
	if err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	if created || again.ID != admin.ID {
		t.Fatalf("second call must return the existing account")
	}
	if repo.byID[admin.ID].PasswordHash != "hashed:changeme" {
		t.Fatalf("existing password must not change")
	}

	repo.findErr = errors.New("mongo down")
	if _, _, err := svc.EnsureAdmin(ctx, "X", "x@crm.local", "secret1"); err == nil {
		t.Fatalf("expected store error")
	}
}
