package protocol

import "encoding/json"

const Version = "1.0"

// Command types. Positions are world-space coordinates already resolved by the
// input layer; the core maps them onto grid cells.
const (
	CmdSelect = "SELECT"
	CmdMove   = "MOVE"
	CmdGather = "GATHER"
	CmdBuild  = "BUILD"
	CmdStop   = "STOP"
)

// Event types emitted to units.
const (
	EvMoveDone     = "MOVE_DONE"
	EvMoveFail     = "MOVE_FAIL"
	EvMoveReplan   = "MOVE_REPLAN"
	EvGatherStart  = "GATHER_START"
	EvHarvest      = "HARVEST"
	EvGatherDone   = "GATHER_DONE"
	EvGatherFail   = "GATHER_FAIL"
	EvNodeDepleted = "NODE_DEPLETED"
	EvSkillUp      = "SKILL_UP"
	EvBuildStart   = "BUILD_START"
	EvBuildDone    = "BUILD_DONE"
	EvBuildFail    = "BUILD_FAIL"
	EvCommandFail  = "COMMAND_FAIL"
)

// Command is one player instruction, applied at the next tick boundary.
// When Units is empty the command targets the current selection.
type Command struct {
	Type     string      `json:"type"`
	Units    []string    `json:"units,omitempty"`
	Additive bool        `json:"additive,omitempty"`
	Pos      *[2]float64 `json:"pos,omitempty"`
	NodeID   string      `json:"node_id,omitempty"`
	Building string      `json:"building,omitempty"`
}

type Event map[string]interface{}

func DecodeCommand(b []byte) (Command, error) {
	var c Command
	err := json.Unmarshal(b, &c)
	return c, err
}
