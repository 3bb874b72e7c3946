// Copyright 2014 The go-probeum Authors
// This file is part of the go-probeum library.
//
// The go-probeum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-probeum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-probeum library. If not, see <http://www.gnu.org/licenses/>.

// Package tracer implements the simulator's line-oriented event log: a
// small structured sink rather than a general logging framework, threaded
// explicitly through component constructors instead of referenced as an
// ambient singleton.
package tracer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/go-stack/stack"
	"github.com/google/uuid"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// Type classifies a trace line's event category.
type Type string

const (
	TypeTick    Type = "TICK"
	TypeEvent   Type = "EVENT"
	TypeCompute Type = "COMPUTE"
	TypeProp    Type = "PROP"
	TypeState   Type = "STATE"
	TypeInstr   Type = "INSTR"
	TypeQueue   Type = "QUEUE"
	TypeReg     Type = "REG"
	TypeMac     Type = "MAC"
)

// Severity is an informal annotation; only WARN carries a captured call
// site, matching the convention that hazards are the one thing worth
// pointing back at the code that raised them.
type Severity string

const (
	SevInfo Severity = "INFO"
	SevWarn Severity = "WARN"
)

var severityColor = map[Severity]*color.Color{
	SevInfo: color.New(color.FgWhite),
	SevWarn: color.New(color.FgYellow, color.Bold),
}

var typeColor = map[Type]*color.Color{
	TypeTick:    color.New(color.FgBlue),
	TypeEvent:   color.New(color.FgCyan),
	TypeCompute: color.New(color.FgGreen),
	TypeProp:    color.New(color.FgCyan),
	TypeState:   color.New(color.FgWhite),
	TypeInstr:   color.New(color.FgGreen, color.Bold),
	TypeQueue:   color.New(color.FgYellow),
	TypeReg:     color.New(color.FgBlue),
	TypeMac:     color.New(color.FgWhite),
}

// Tracer writes trace lines of the form
// "[timestamp] [type] [component] [event] details (priority=p)?"
// to an underlying writer. A zero value is not usable; construct with New.
type Tracer struct {
	out       io.Writer
	colorized bool
	runID     string
	filter    string // component-name substring; empty means unfiltered
	enabled   bool
	verbose   bool
}

// New wraps w for trace output. If w is os.Stdout (or another file with a
// terminal), ANSI color is auto-detected via go-isatty; colorable wraps it
// so color sequences also work on Windows consoles.
func New(w io.Writer, enabled, verbose bool) *Tracer {
	t := &Tracer{
		out:     w,
		runID:   uuid.New().String(),
		enabled: enabled,
		verbose: verbose,
	}
	if f, ok := w.(*os.File); ok {
		t.colorized = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		if t.colorized {
			t.out = colorable.NewColorable(f)
		}
	}
	return t
}

// RunID returns the identifier stamped into this tracer's lifetime, used
// to disambiguate concurrent runs writing to a shared trace directory.
func (t *Tracer) RunID() string { return t.runID }

// SetFilter restricts output to lines whose component name contains sub.
// An empty string clears the filter.
func (t *Tracer) SetFilter(sub string) { t.filter = sub }

// Emit writes one trace line at INFO severity if tracing is enabled and
// component passes the current filter.
func (t *Tracer) Emit(timestamp uint64, typ Type, component, event, details string) {
	t.emit(timestamp, typ, SevInfo, component, event, details, -1)
}

// EmitPriority is Emit with an explicit scheduler priority appended.
func (t *Tracer) EmitPriority(timestamp uint64, typ Type, component, event, details string, priority int) {
	t.emit(timestamp, typ, SevInfo, component, event, details, priority)
}

// Warn emits a WARN-severity line (hazards, queue-full, stall
// conditions) and appends the caller's frame, skipping this function
// itself.
func (t *Tracer) Warn(timestamp uint64, typ Type, component, event, details string) {
	site := ""
	if frames := stack.Trace().TrimRuntime(); len(frames) > 1 {
		site = fmt.Sprintf(" at %s", frames[1])
	}
	t.emit(timestamp, typ, SevWarn, component, event, details+site, -1)
}

func (t *Tracer) emit(timestamp uint64, typ Type, sev Severity, component, event, details string, priority int) {
	if !t.enabled {
		return
	}
	if t.filter != "" && !strings.Contains(component, t.filter) {
		return
	}
	if sev == SevInfo && typ == TypeState && !t.verbose {
		return
	}

	typStr, sevStr := string(typ), string(sev)
	if t.colorized {
		if c, ok := typeColor[typ]; ok {
			typStr = c.Sprint(typ)
		}
		if c, ok := severityColor[sev]; ok {
			sevStr = c.Sprint(sev)
		}
	}

	line := fmt.Sprintf("[%d] [%s] [%s] [%s] %s", timestamp, typStr, component, event, details)
	if sev == SevWarn {
		line = fmt.Sprintf("[%d] [%s/%s] [%s] [%s] %s", timestamp, typStr, sevStr, component, event, details)
	}
	if priority >= 0 {
		line = fmt.Sprintf("%s (priority=%d)", line, priority)
	}
	fmt.Fprintln(t.out, line)
}
