package models

import (
	"strings"
	"time"
)

type CommandKind string

const (
	CommandBankAdd    CommandKind = "BANK_ADD"
	CommandBankRemove CommandKind = "BANK_REMOVE"
	CommandHandRemove CommandKind = "HAND_REMOVE"
)

var commandKinds = map[CommandKind]struct{}{
	CommandBankAdd:    {},
	CommandBankRemove: {},
	CommandHandRemove: {},
}

// ParseCommandKind normalizes s and reports whether it names a known kind.
func ParseCommandKind(s string) (CommandKind, bool) {
	k := CommandKind(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := commandKinds[k]
	return k, ok
}

type CommandState string

const (
	CommandPending CommandState = "PENDING"
	CommandDone    CommandState = "DONE"
)

// AdminCommand is an operator instruction queued for the game server.
// Rows are never deleted; DONE rows form the audit trail.
type AdminCommand struct {
	ID         int64        `json:"id"`
	TargetID   int64        `json:"roblox_user_id"`
	Kind       CommandKind  `json:"action"`
	Amount     int64        `json:"amount"`
	QueuedAt   time.Time    `json:"queued_at"`
	State      CommandState `json:"state"`
	Success    *bool        `json:"success,omitempty"`
	ResultText *string      `json:"result_text,omitempty"`
	DoneAt     *time.Time   `json:"done_at,omitempty"`
}

// CommandReport is the outcome the game server sends back after executing a command.
// Target fields are echoed by the game server and used only for notifications.
type CommandReport struct {
	ID             int64
	Success        bool
	ResultText     string
	TargetID       int64
	TargetUsername string
	Kind           string
	Amount         int64
}
