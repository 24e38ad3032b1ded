package stream

import "encoding/json"

// Envelope wraps every broadcast message with a type discriminator.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// IntervalPayload is one interval's dispatch result: how much power
// flowed through each battery and POD, and the running cost so far.
type IntervalPayload struct {
	InitialDatetime string             `json:"initial_datetime"`
	BatteryPowerKW  map[string]float64 `json:"battery_power_kw"`
	PodPowerKW      map[string]float64 `json:"pod_power_kw"`
	RunningCost     float64            `json:"running_cost"`
}

// RunCompletePayload closes out a run with its final cost. It does not
// carry the coefficients used.
type RunCompletePayload struct {
	FinalCost float64 `json:"final_cost"`
}

const (
	// TypeInterval announces one simulated interval's dispatch result.
	TypeInterval = "dispatch:interval"
	// TypeRunComplete announces the end of a simulation run.
	TypeRunComplete = "dispatch:complete"
)

// NewEnvelope marshals payload and wraps it with msgType.
func NewEnvelope(msgType string, payload any) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		var err error
		raw, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(Envelope{Type: msgType, Payload: raw})
}
