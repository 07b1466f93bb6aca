package status

import (
	"errors"
	"fmt"
	"testing"
)

func TestStatusString(t *testing.T) {
	tests := []struct {
		name string
		s    Status
		want string
	}{
		{"ok", Ok(), "OK"},
		{"kind only", New(FAIL, ""), "FAIL"},
		{"kind and message", New(InvalidModel, "missing graph"), "INVALID_MODEL:missing graph"},
		{"formatted", Newf(NotImplemented, "group=%d unsupported", 4), "NOT_IMPLEMENTED:group=4 unsupported"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatusIsOK(t *testing.T) {
	if !Ok().IsOK() {
		t.Error("Ok() should be IsOK")
	}
	if New(FAIL, "x").IsOK() {
		t.Error("FAIL should not be IsOK")
	}
}

func TestStatusAsErrorWrap(t *testing.T) {
	base := New(InvalidParam, "bad shape")
	wrapped := fmt.Errorf("loading tensor: %w", base)

	got, ok := As(wrapped)
	if !ok {
		t.Fatal("expected to find a Status in the wrap chain")
	}
	if got.Kind() != InvalidParam {
		t.Errorf("Kind() = %v, want %v", got.Kind(), InvalidParam)
	}

	if _, ok := As(errors.New("plain error")); ok {
		t.Error("plain error should not yield a Status")
	}
	if _, ok := As(nil); ok {
		t.Error("nil error should not yield a Status")
	}
}
