package repository

import (
	"errors"
	"testing"

	"github.com/campushq/edge-auth/internal/domain"
)

func TestUserRepositoryFindByEmailNormalizes(t *testing.T) {
	db := newRepositoryDBForTest(t)
	if err := db.Create(&domain.User{Email: "student@example.com", Name: "Student"}).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	repo := NewUserRepository(db)

	got, err := repo.FindByEmail("  Student@Example.COM ")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if got.Email != "student@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}

	byID, err := repo.FindByID(got.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Email != got.Email {
		t.Fatalf("mismatched lookups: %+v vs %+v", byID, got)
	}
}

func TestUserRepositoryNotFound(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewUserRepository(db)

	if _, err := repo.FindByEmail("nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByID(99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
