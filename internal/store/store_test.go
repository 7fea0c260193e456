package store

import (
	"path/filepath"
	"testing"

	"github.com/sunnyfarm/tablet/internal/protocol"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	if err := s.BeginSession("sell"); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}
	if err := s.SetLastTab("quest"); err != nil {
		t.Fatalf("SetLastTab: %v", err)
	}
	if _, ok := s.LastTab(); ok {
		t.Fatal("nil store should have no last tab")
	}
	if err := s.LogReceipt(protocol.Receipt{}); err != nil {
		t.Fatalf("LogReceipt: %v", err)
	}
	if n, total := s.SessionReceipts(); n != 0 || total != 0 {
		t.Fatalf("n=%d total=%v", n, total)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestLastTabRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.LastTab(); ok {
		t.Fatal("fresh journal should have no last tab")
	}
	if err := s.BeginSession("collect"); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}
	if err := s.SetLastTab("sell"); err != nil {
		t.Fatalf("SetLastTab: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// A new run sees the previous session's tab.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	tab, ok := s2.LastTab()
	if !ok || tab != "sell" {
		t.Fatalf("tab=%q ok=%v, want sell", tab, ok)
	}
}

func TestSetLastTabWithoutSessionIsNoOp(t *testing.T) {
	s := openTestStore(t)
	if err := s.SetLastTab("sell"); err != nil {
		t.Fatalf("SetLastTab: %v", err)
	}
	if _, ok := s.LastTab(); ok {
		t.Fatal("no session row should exist")
	}
}

func TestLogReceiptCountsPerSession(t *testing.T) {
	s := openTestStore(t)
	if err := s.BeginSession("sell"); err != nil {
		t.Fatalf("BeginSession: %v", err)
	}

	r := protocol.Receipt{
		Items: []protocol.ReceiptLine{
			{Label: "Wheat", Quantity: 5, LineTotal: 50},
		},
		TotalPayout:  50,
		BonusPct:     10,
		PaidToWallet: true,
	}
	if err := s.LogReceipt(r); err != nil {
		t.Fatalf("LogReceipt: %v", err)
	}
	if err := s.LogReceipt(protocol.Receipt{TotalPayout: 25}); err != nil {
		t.Fatalf("LogReceipt: %v", err)
	}

	n, total := s.SessionReceipts()
	if n != 2 {
		t.Fatalf("n=%d, want 2", n)
	}
	if total != 75 {
		t.Fatalf("total=%v, want 75", total)
	}
}

func TestLogReceiptWithoutSessionIsNoOp(t *testing.T) {
	s := openTestStore(t)
	if err := s.LogReceipt(protocol.Receipt{TotalPayout: 10}); err != nil {
		t.Fatalf("LogReceipt: %v", err)
	}
	if n, _ := s.SessionReceipts(); n != 0 {
		t.Fatalf("n=%d, want 0", n)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen should not refail migrations: %v", err)
	}
	s2.Close()
}
