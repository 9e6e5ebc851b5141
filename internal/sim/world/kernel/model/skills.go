package model

// Activity is a skill category. Gathering and construction each train one.
type Activity string

const (
	Mining       Activity = "MINING"
	Woodcutting  Activity = "WOODCUTTING"
	Harvesting   Activity = "HARVESTING"
	Construction Activity = "CONSTRUCTION"
)

func Activities() []Activity {
	return []Activity{Mining, Woodcutting, Harvesting, Construction}
}

// Skill pairs an effectiveness level with its experience accumulator.
type Skill struct {
	Level float64 `json:"level"`
	XP    float64 `json:"xp"`
}

type Skills map[Activity]*Skill

// NewSkills starts every activity at level 1.0.
func NewSkills() Skills {
	s := make(Skills, 4)
	for _, a := range Activities() {
		s[a] = &Skill{Level: 1}
	}
	return s
}

// Get returns the skill for a, creating it at level 1.0 when missing.
func (s Skills) Get(a Activity) *Skill {
	sk := s[a]
	if sk == nil {
		sk = &Skill{Level: 1}
		s[a] = sk
	}
	return sk
}
