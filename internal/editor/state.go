package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-markvis/internal/fileutil"
)

// Sentinel errors for editor operations.
var (
	ErrBusy          = errors.New("an enhancement is already in progress")
	ErrInvalidMode   = errors.New("invalid view mode")
	ErrUnknownAction = errors.New("unknown action")
	ErrNotBusy       = errors.New("no enhancement in progress")
)

// Mode selects which panes are visible.
type Mode string

// View modes.
const (
	ModeWrite   Mode = "WRITE"
	ModePreview Mode = "PREVIEW"
	ModeSplit   Mode = "SPLIT"
)

// Modes returns every view mode.
func Modes() []Mode {
	return []Mode{ModeWrite, ModePreview, ModeSplit}
}

// ParseMode parses a mode name, ignoring case and surrounding spaces.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case ModeWrite, ModePreview, ModeSplit:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (must be write, preview or split)", ErrInvalidMode, s)
}

func (m Mode) String() string { return string(m) }

// ShowsEditor reports whether the source pane is visible.
func (m Mode) ShowsEditor() bool { return m != ModePreview }

// ShowsPreview reports whether the preview pane is visible.
func (m Mode) ShowsPreview() bool { return m != ModeWrite }

// NarrowWidth is the viewport width below which the split view collapses.
const NarrowWidth = 768

// Notices shown to the user.
const (
	NoticeMissingCredential = "Please configure your API key in the environment variables."
	NoticeEnhanceFailed     = "Failed to improve content. See the logs for details."
)

// DefaultContent is the document shown on first load.
const DefaultContent = "# Welcome to MarkVis\n" +
	"\n" +
	"This is a **powerful** markdown editor with real-time preview.\n" +
	"\n" +
	"## Features\n" +
	"- 🚀 Real-time visualization\n" +
	"- ✨ AI-powered enhancement\n" +
	"- 📄 Export to PDF & Word\n" +
	"- 🎨 Clean, modern UI\n" +
	"\n" +
	"## Code Example\n" +
	"```javascript\n" +
	"console.log(\"Hello, World!\");\n" +
	"const add = (a, b) => a + b;\n" +
	"```\n" +
	"\n" +
	"## Table Example\n" +
	"| Feature | Status |\n" +
	"|:--------|:-------|\n" +
	"| PDF     | ✅ Ready |\n" +
	"| Word    | ✅ Ready |\n" +
	"| AI      | ✅ Ready |\n" +
	"\n" +
	"> \"Simplicity is the ultimate sophistication.\" - Leonardo da Vinci\n"

// State is a snapshot of the editor shell. It is a value type: every
// transition returns a new State.
type State struct {
	Source       string `json:"source"`
	Mode         Mode   `json:"mode"`
	DocumentName string `json:"documentName"`
	Busy         bool   `json:"busy"`
	Notice       string `json:"notice,omitempty"`
}

// DefaultState returns the state of a freshly opened editor.
func DefaultState() State {
	return State{
		Source:       DefaultContent,
		Mode:         ModeSplit,
		DocumentName: fileutil.DefaultName,
	}
}

// SetSource replaces the document source.
func SetSource(s State, source string) State {
	s.Source = source
	s.Notice = ""
	return s
}

// Clear empties the document source.
func Clear(s State) State {
	return SetSource(s, "")
}

// SetMode switches the view mode. The source is never touched.
func SetMode(s State, m Mode) (State, error) {
	m, err := ParseMode(string(m))
	if err != nil {
		return s, err
	}
	s.Mode = m
	return s, nil
}

// Rename sets the document name. The name is kept as typed; it is only
// sanitized when an export filename is built from it.
func Rename(s State, name string) State {
	s.DocumentName = name
	return s
}

// Resize applies the responsive rule: a viewport narrower than
// NarrowWidth cannot show two panes, so SPLIT becomes WRITE.
func Resize(s State, width int) State {
	if width > 0 && width < NarrowWidth && s.Mode == ModeSplit {
		s.Mode = ModeWrite
	}
	return s
}

// BeginEnhance marks an enhancement as in flight.
func BeginEnhance(s State) (State, error) {
	if s.Busy {
		return s, ErrBusy
	}
	s.Busy = true
	s.Notice = ""
	return s, nil
}

// FinishEnhance records the outcome of an enhancement. The source is
// replaced only when err is nil; busy is always cleared.
func FinishEnhance(s State, improved string, err error, missingCredential bool) State {
	s.Busy = false
	switch {
	case missingCredential:
		s.Notice = NoticeMissingCredential
	case err != nil:
		s.Notice = NoticeEnhanceFailed
	default:
		s.Source = improved
		s.Notice = ""
	}
	return s
}

// ExportName returns the sanitized base name used for export filenames.
func (s State) ExportName() string {
	return fileutil.SanitizeName(s.DocumentName)
}
