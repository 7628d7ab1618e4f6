package keyboard

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ActionModel    = "model"
	ActionCategory = "cat"

	callbackSeparator = ":"
)

var ErrUnknownAction = errors.New("unknown callback action")

// CallbackData is a decoded inline button payload. Value may itself contain
// the separator; only the first one splits.
type CallbackData struct {
	Action string
	Value  string
}

func ParseCallback(data string) (*CallbackData, error) {
	action, value, ok := strings.Cut(data, callbackSeparator)
	if !ok || action == "" {
		return nil, fmt.Errorf("invalid callback format: %q", data)
	}

	switch action {
	case ActionModel, ActionCategory:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	return &CallbackData{Action: action, Value: value}, nil
}

func EncodeCallback(action, value string) string {
	return action + callbackSeparator + value
}
