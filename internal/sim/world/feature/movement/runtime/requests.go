package runtime

import (
	"tilerts.ai/internal/sim/grid"
	modelpkg "tilerts.ai/internal/sim/world/kernel/model"
)

// HandleMoveCommand supersedes whatever the unit was doing with a plain move.
// An in-flight step still completes; planning resumes from the reached cell.
func HandleMoveCommand(u *modelpkg.Unit, dest grid.Coords) {
	u.ClearWork()
	u.Move.Set(dest)
}

// HandleStopCommand drops every movement and work record except the
// in-flight step.
func HandleStopCommand(u *modelpkg.Unit) {
	u.ClearWork()
	u.Move.Clear()
}
