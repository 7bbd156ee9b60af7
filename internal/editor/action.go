package editor

import "fmt"

// ActionType names a user action.
type ActionType string

// Action types.
const (
	ActionSetSource ActionType = "set_source"
	ActionClear     ActionType = "clear"
	ActionSetMode   ActionType = "set_mode"
	ActionRename    ActionType = "rename"
	ActionResize    ActionType = "resize"
)

// Action is one user command. Only the fields its Type reads are used.
type Action struct {
	Type  ActionType `json:"type"`
	Text  string     `json:"text,omitempty"`
	Mode  string     `json:"mode,omitempty"`
	Width int        `json:"width,omitempty"`
}

// Reduce applies a to s and returns the next state. Enhancement is not an
// action: it suspends, so it goes through Session.Enhance.
func Reduce(s State, a Action) (State, error) {
	switch a.Type {
	case ActionSetSource:
		return SetSource(s, a.Text), nil
	case ActionClear:
		return Clear(s), nil
	case ActionSetMode:
		return SetMode(s, Mode(a.Mode))
	case ActionRename:
		return Rename(s, a.Text), nil
	case ActionResize:
		return Resize(s, a.Width), nil
	}
	return s, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
}
