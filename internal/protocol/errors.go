package protocol

const (
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrKindMismatch  = "E_KIND_MISMATCH"
	ErrTooFar        = "E_TOO_FAR"
	ErrNoPath        = "E_NO_PATH"
	ErrBlocked       = "E_BLOCKED"
	ErrInventoryFull = "E_INVENTORY_FULL"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:    {},
	ErrNoResource:    {},
	ErrInvalidTarget: {},
	ErrKindMismatch:  {},
	ErrTooFar:        {},
	ErrNoPath:        {},
	ErrBlocked:       {},
	ErrInventoryFull: {},
	ErrInternal:      {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
