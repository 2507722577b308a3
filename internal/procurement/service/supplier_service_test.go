package service

import (
	"context"
	"testing"

	"github.com/wirehaus/wirehaus/internal/procurement/repository"
	"github.com/wirehaus/wirehaus/internal/procurement/testutil"
)

func TestDeriveShortCode(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"Lutron", "LUTR"},
		{"Snap One", "SO"},
		{"Crestron Electronics, Inc.", "CE"}, // suffix stripped before deriving
		{"Alpha Beta Gamma Delta Epsilon", "ABGD"},
		{"", "SUP"},
		{"4K Displays", "4D"},
	}
	for _, tt := range tests {
		if got := DeriveShortCode(tt.name); got != tt.want {
			t.Errorf("DeriveShortCode(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// TestCreateFromNameReusesExisting verifies name variants of one vendor
// converge on a single supplier record
func TestCreateFromNameReusesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSupplierRepository(db)
	svc := NewSupplierService(repo, nil)
	ctx := context.Background()

	first, err := svc.CreateFromName(ctx, "Crestron Electronics, Inc.", "user-1")
	if err != nil {
		t.Fatalf("CreateFromName: %v", err)
	}
	if first.NormalizedName != "crestron electronics" {
		t.Fatalf("normalized name = %q", first.NormalizedName)
	}
	if first.ShortCode != "CE" {
		t.Fatalf("short code = %q, want CE", first.ShortCode)
	}
	if !first.IsActive {
		t.Error("auto-created supplier must be active")
	}

	second, err := svc.CreateFromName(ctx, "crestron  electronics INC", "user-2")
	if err != nil {
		t.Fatalf("CreateFromName variant: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("name variant created a second record: %s vs %s", second.ID, first.ID)
	}
}

// TestCreateFromNameShortCodeCollision verifies colliding derived codes
// get a numeric suffix instead of failing
func TestCreateFromNameShortCodeCollision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSupplierRepository(db)
	svc := NewSupplierService(repo, nil)
	ctx := context.Background()

	a, err := svc.CreateFromName(ctx, "Crestron Electronics", "user-1")
	if err != nil {
		t.Fatalf("CreateFromName: %v", err)
	}
	b, err := svc.CreateFromName(ctx, "Custom Electric", "user-1")
	if err != nil {
		t.Fatalf("CreateFromName: %v", err)
	}

	if a.ShortCode != "CE" {
		t.Errorf("first code = %q, want CE", a.ShortCode)
	}
	if b.ShortCode != "CE2" {
		t.Errorf("colliding code = %q, want CE2", b.ShortCode)
	}
}

func TestCreateFromNameEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db), nil)

	if _, err := svc.CreateFromName(context.Background(), "   ", "user-1"); err == nil {
		t.Fatal("expected error for empty name")
	}
}
