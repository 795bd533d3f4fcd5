// Copyright (c) 2025 Ibridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package deploy

import (
	"fmt"

	"github.com/pterm/pterm"
)

// stageLabels are the progress lines shown while a stage runs.
var stageLabels = map[Stage]string{
	StageValidating:     "Validating target",
	StageProtectedCheck: "Checking library protection",
	StageEncoding:       "Encoding source",
	StageTransferring:   "Transferring source",
	StageCompiling:      "Compiling",
}

// Renderer renders deployment events to the console.
type Renderer struct {
	headerShown bool
}

// NewRenderer creates a renderer instance.
func NewRenderer() *Renderer { return &Renderer{} }

// Render processes a single event.
func (r *Renderer) Render(ev Event) {
	if !r.headerShown {
		pterm.DefaultSection.Println("Deployment")
		r.headerShown = true
	}
	switch ev.Stage {
	case StageDone:
		pterm.Success.Printfln("Deployed %s", ev.Target)
		renderDiagnostics(ev.Diagnostics)
	case StageFailed:
		if ev.Message != "" {
			pterm.Error.Println(ev.Message)
		} else {
			pterm.Error.Printfln("Deployment of %s failed", ev.Target)
		}
		renderDiagnostics(ev.Diagnostics)
	case StageCompiling:
		pterm.Info.Println(stageLabels[ev.Stage])
		if ev.Command != "" {
			pterm.Debug.Println(ev.Command)
		}
	default:
		if label, ok := stageLabels[ev.Stage]; ok {
			pterm.Info.Println(label)
		}
	}
}

func renderDiagnostics(diags []Diagnostic) {
	if len(diags) == 0 {
		return
	}
	items := make([]pterm.BulletListItem, 0, len(diags))
	for _, d := range diags {
		text := d.Message
		if d.MsgID != "" {
			text = fmt.Sprintf("%s (sev %d): %s", d.MsgID, d.Severity, d.Message)
		}
		items = append(items, pterm.BulletListItem{Level: 0, Text: text})
	}
	_ = pterm.DefaultBulletList.WithItems(items).Render()
}
