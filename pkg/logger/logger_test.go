package logger

import "testing"

func TestNamed(t *testing.T) {
	Init("trading-gateway", "prod", "info")

	l := Named("ledger")
	if l == nil {
		t.Fatal("expected a logger")
	}
	if got := l.Name(); got != "ledger" {
		t.Errorf("expected component name 'ledger', got %q", got)
	}
	if l == L() {
		t.Error("expected a child logger distinct from the root")
	}
}
