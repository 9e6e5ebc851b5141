package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrBadRequest,
		ErrNoResource,
		ErrInvalidTarget,
		ErrKindMismatch,
		ErrTooFar,
		ErrNoPath,
		ErrBlocked,
		ErrInventoryFull,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestDecodeCommand(t *testing.T) {
	c, err := DecodeCommand([]byte(`{"type":"MOVE","units":["U1"],"pos":[48,16]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Type != CmdMove || len(c.Units) != 1 || c.Pos == nil || c.Pos[0] != 48 {
		t.Fatalf("unexpected command: %+v", c)
	}
}
