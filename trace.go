package tune

import (
	"encoding/json"
)

// Trace captures provenance for one search: every scored attempt and which
// effect set was committed.
type Trace struct {
	GoalID   string    `json:"goal_id"`
	Mode     string    `json:"mode"`
	Attempts []Attempt `json:"attempts"`
}

// Attempt details one scored run within a search. Index 0 is the baseline.
type Attempt struct {
	Index    int     `json:"index"`
	EffectID string  `json:"effect_id"`
	Score    float64 `json:"score"`
	Chosen   bool    `json:"chosen"`
}

// Chosen returns the committed attempt, if the trace records one.
func (t Trace) Chosen() (Attempt, bool) {
	for _, attempt := range t.Attempts {
		if attempt.Chosen {
			return attempt, true
		}
	}
	return Attempt{}, false
}

func (t *Trace) markChosen(effectID string) {
	for i := range t.Attempts {
		if t.Attempts[i].EffectID == effectID {
			t.Attempts[i].Chosen = true
			return
		}
	}
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated
// via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
