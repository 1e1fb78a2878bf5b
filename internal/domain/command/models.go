package command

import (
	"errors"

	"paysplit/internal/domain/paysplit"
)

// Action is one of the host actions the dispatcher understands.
type Action string

const (
	ActionGenerate Action = "GEN_PAYSPLIT"
	ActionParse    Action = "PARSE_PAYSPLIT"
)

var ErrUnknownAction = errors.New("unknown action")

func (a Action) Valid() bool {
	return a == ActionGenerate || a == ActionParse
}

// Request carries an action and, optionally, the frame document to read
// instead of the configured source.
type Request struct {
	Action   Action `json:"action"`
	Document string `json:"document,omitempty"`
}

// Response is filled according to the action: Parse sets PaySplit, Generate
// sets the saved file.
type Response struct {
	Action   Action             `json:"action"`
	PaySplit *paysplit.PaySplit `json:"paysplit,omitempty"`
	FileName string             `json:"fileName,omitempty"`
	FilePath string             `json:"filePath,omitempty"`
}
