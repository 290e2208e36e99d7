package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/lostfound/internal/server/models"
)

func TestAdminFeed_ReturnsRecentEvents(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	rm := newInMemoryManager()
	claims := NewClaimService(db, rm, testConfig())
	s := NewNotificationService(db, rm, testConfig())

	report := seedReport(t, rm)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	claim, err := claims.Create(context.Background(), validClaimInput(report.ID, 1))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := claims.Accept(context.Background(), claim.ID, actor()); err != nil {
		t.Fatalf("Accept error: %v", err)
	}

	feed, err := s.AdminFeed(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("AdminFeed error: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("feed = %d entries, want 2", len(feed))
	}
	if feed[0].Action != models.AuditActionAccept {
		t.Errorf("newest action = %q, want accept", feed[0].Action)
	}
}

func TestClaimantFeed_OnlyOwnClaims(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	rm := newInMemoryManager()
	claims := NewClaimService(db, rm, testConfig())
	s := NewNotificationService(db, rm, testConfig())

	alice, bob := int64(1), int64(2)
	reportA := seedReport(t, rm)
	reportB := seedReport(t, rm)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	if _, err := claims.Create(context.Background(), validClaimInput(reportA.ID, alice)); err != nil {
		t.Fatalf("alice claim: %v", err)
	}
	if _, err := claims.Create(context.Background(), validClaimInput(reportB.ID, bob)); err != nil {
		t.Fatalf("bob claim: %v", err)
	}

	feed, err := s.ClaimantFeed(context.Background(), alice, time.Time{})
	if err != nil {
		t.Fatalf("ClaimantFeed error: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed = %d entries, want 1", len(feed))
	}
	if feed[0].Action != models.AuditActionCreateClaim {
		t.Errorf("action = %q, want create_claim", feed[0].Action)
	}
}

func TestClaimantFeed_NoClaims(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	s := NewNotificationService(db, newInMemoryManager(), testConfig())

	feed, err := s.ClaimantFeed(context.Background(), 42, time.Time{})
	if err != nil {
		t.Fatalf("ClaimantFeed error: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed = %d entries, want 0", len(feed))
	}
}

func TestClaimantFeed_SinceFiltersOldEvents(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	rm := newInMemoryManager()
	claims := NewClaimService(db, rm, testConfig())
	s := NewNotificationService(db, rm, testConfig())

	alice := int64(1)
	report := seedReport(t, rm)

	mock.ExpectBegin()
	mock.ExpectCommit()

	if _, err := claims.Create(context.Background(), validClaimInput(report.ID, alice)); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	feed, err := s.ClaimantFeed(context.Background(), alice, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("ClaimantFeed error: %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("feed = %d entries, want 0 after the cutoff", len(feed))
	}
}
