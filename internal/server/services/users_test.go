package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/lostfound/internal/common"
	"github.com/dmitrijs2005/lostfound/internal/server/auth"
	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

func TestRegister_HashesPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	rm := newInMemoryManager()
	s := NewUserService(db, rm, testConfig())

	user, err := s.Register(context.Background(), &RegisterInput{
		FullName: "Alice Smith",
		UserName: "alice",
		Email:    "alice@example.com",
		Password: "s3cret!",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.PasswordHash == "s3cret!" || user.PasswordHash == "" {
		t.Error("password was not hashed")
	}
	if user.UserType != models.UserTypeLocal {
		t.Errorf("user type = %q, want localUser", user.UserType)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewUserService(db, newInMemoryManager(), testConfig())

	input := &RegisterInput{UserName: "alice", Email: "alice@example.com", Password: "pw"}
	if _, err := s.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	input.UserName = "alice2"
	if _, err := s.Register(context.Background(), input); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("err = %v, want ErrorAlreadyExists", err)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewUserService(db, newInMemoryManager(), testConfig())

	if _, err := s.Register(context.Background(), &RegisterInput{UserName: "x"}); !errors.Is(err, common.ErrorInvalidPayload) {
		t.Fatalf("err = %v, want ErrorInvalidPayload", err)
	}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	cfg := testConfig()
	s := NewUserService(db, newInMemoryManager(), cfg)

	registered, err := s.Register(context.Background(), &RegisterInput{
		UserName: "alice", Email: "alice@example.com", Password: "s3cret!",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	pair, user, err := s.Login(context.Background(), "alice@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("user id = %d, want %d", user.ID, registered.ID)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}

	userID, err := auth.GetUserIDFromSessionToken(pair.AccessToken, []byte(cfg.SessionSecret))
	if err != nil {
		t.Fatalf("access token does not verify: %v", err)
	}
	if userID != registered.ID {
		t.Errorf("token user id = %d, want %d", userID, registered.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewUserService(db, newInMemoryManager(), testConfig())

	if _, err := s.Register(context.Background(), &RegisterInput{
		UserName: "alice", Email: "alice@example.com", Password: "s3cret!",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, _, err := s.Login(context.Background(), "alice@example.com", "wrong"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("err = %v, want ErrorUnauthorized", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewUserService(db, newInMemoryManager(), testConfig())

	if _, _, err := s.Login(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("err = %v, want ErrorUnauthorized", err)
	}
}

func TestRefreshToken_Rotates(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	s := NewUserService(db, newInMemoryManager(), testConfig())

	if _, err := s.Register(context.Background(), &RegisterInput{
		UserName: "alice", Email: "alice@example.com", Password: "pw",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	pair, _, err := s.Login(context.Background(), "alice@example.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	fresh, err := s.RefreshToken(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if fresh.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// the old token is gone
	if _, err := s.RefreshToken(context.Background(), pair.RefreshToken); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("reuse err = %v, want ErrorUnauthorized", err)
	}
}

func TestRefreshToken_Unknown(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewUserService(db, newInMemoryManager(), testConfig())

	if _, err := s.RefreshToken(context.Background(), "nope"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("err = %v, want ErrorUnauthorized", err)
	}
}

func TestDeleteUser_SoftDeletesAndAudits(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	rm := newInMemoryManager()
	s := NewUserService(db, rm, testConfig())

	user, err := s.Register(context.Background(), &RegisterInput{
		UserName: "alice", Email: "alice@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := s.Delete(context.Background(), user.ID, actor()); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(context.Background(), user.ID); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err after delete = %v, want ErrorNotFound", err)
	}

	entries := rm.AuditRepo.UserEntries()
	if len(entries) != 1 || entries[0].TargetUserID != user.ID {
		t.Fatalf("user audit = %+v, want single delete entry for user %d", entries, user.ID)
	}
}
