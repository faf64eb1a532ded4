package repository

import "testing"

func TestMonthExprByDialectSQLite(t *testing.T) {
	got := monthExprByDialect("sqlite", "created_at")
	want := "strftime('%Y-%m', created_at)"
	if got != want {
		t.Fatalf("sqlite month expr mismatch, want %s got %s", want, got)
	}
}

func TestMonthExprByDialectPostgres(t *testing.T) {
	got := monthExprByDialect("postgres", "created_at")
	want := "to_char(created_at, 'YYYY-MM')"
	if got != want {
		t.Fatalf("postgres month expr mismatch, want %s got %s", want, got)
	}
}

func TestMonthExprByDialectUnknownFallsBackToSQLite(t *testing.T) {
	got := monthExprByDialect("", "paid_at")
	want := "strftime('%Y-%m', paid_at)"
	if got != want {
		t.Fatalf("fallback month expr mismatch, want %s got %s", want, got)
	}
}

func TestLikeOperatorByDialect(t *testing.T) {
	if got := likeOperatorByDialect("postgres"); got != "ILIKE" {
		t.Fatalf("postgres like operator want ILIKE got %s", got)
	}
	if got := likeOperatorByDialect("sqlite"); got != "LIKE" {
		t.Fatalf("sqlite like operator want LIKE got %s", got)
	}
	if got := likeOperatorByDialect(" "); got != "LIKE" {
		t.Fatalf("blank dialect like operator want LIKE got %s", got)
	}
}
