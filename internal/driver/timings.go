package driver

import (
	"encoding/json"
	"fmt"

	"treant/internal/diag"
	"treant/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Module  string               `json:"module,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic stores the report as an OBS6001 info diagnostic.
// It bypasses the bag limit so timings survive a bag full of errors.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "module"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, payload.Module, "", msg).WithNote("", string(data))
	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(bag.Len() + 1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
