package models

import (
	"fmt"
	"strings"
)

// Role tags who produced a Turn.
type Role int

const (
	RoleUser Role = iota
	RoleModel
)

// String returns the wire tag used by the Gemini API ("user" or "model")
func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleModel:
		return "model"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Label returns the display name shown next to a message bubble
func (r Role) Label() string {
	if r == RoleModel {
		return "Model"
	}
	return "User"
}

// ParseRole converts a wire tag back to a Role.
// "assistant" is accepted as an alias for model.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, nil
	case "model", "assistant":
		return RoleModel, nil
	default:
		return 0, fmt.Errorf("unknown role %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	if r != RoleUser && r != RoleModel {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Turn is one message in a conversation
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn builds a Turn tagged RoleUser
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// ModelTurn builds a Turn tagged RoleModel
func ModelTurn(content string) Turn {
	return Turn{Role: RoleModel, Content: content}
}
