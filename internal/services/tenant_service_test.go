package services

import (
	"context"
	"testing"

	"moneyboard/internal/testutil"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme", "acme"},
		{"spaces", "Acme Household  Budget", "acme-household-budget"},
		{"punctuation", "  O'Brien & Sons! ", "o-brien-sons"},
		{"digits", "Flat 42B", "flat-42b"},
		{"unicode", "Café Zürich", "café-zürich"},
		{"only_symbols", "---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCreateTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db)

		tenant, err := svc.CreateTenant(ctx, " Smith Family ")
		testutil.AssertNoError(t, err)
		if tenant.ID == "" || tenant.Name != "Smith Family" || tenant.Slug != "smith-family" {
			t.Errorf("unexpected tenant: %+v", tenant)
		}

		got, err := svc.GetTenantByID(ctx, tenant.ID)
		testutil.AssertNoError(t, err)
		if got.Slug != tenant.Slug {
			t.Errorf("expected slug %s, got %s", tenant.Slug, got.Slug)
		}
	})

	t.Run("duplicate_slug", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db)

		_, err := svc.CreateTenant(ctx, "Smith Family")
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTenant(ctx, "smith  family!")
		testutil.AssertAppError(t, err, "DUPLICATE_TENANT")
	})

	t.Run("no_letters", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db)

		_, err := svc.CreateTenant(ctx, "!!!")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTenantService(db)

		_, err := svc.GetTenantByID(ctx, "missing")
		testutil.AssertAppError(t, err, "TENANT_NOT_FOUND")
	})
}
