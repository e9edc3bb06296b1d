package tools

import (
	"context"
	"errors"
	"fmt"
)

// Action is an operation requested on a toolchain
type Action int

const (
	ActionCheck Action = iota
	ActionUpdate
	ActionInstall
)

func (a Action) String() string {
	switch a {
	case ActionCheck:
		return "check"
	case ActionUpdate:
		return "update"
	case ActionInstall:
		return "install"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Request is one dispatched command
type Request struct {
	Toolchain string
	Action    Action
	// UseNVM routes Node.js installs and updates through nvm
	UseNVM bool
}

// ErrUnknownToolchain is returned for a toolchain name that is not registered
var ErrUnknownToolchain = errors.New("unknown toolchain")

// Dispatch routes a request to the toolchain's operation. Node.js goes
// through nvm when requested or when nvm is installed.
func (m *Manager) Dispatch(ctx context.Context, req Request) error {
	t, exists := m.toolchains[req.Toolchain]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownToolchain, req.Toolchain)
	}
	m.logger.Debug("dispatching", "tool", req.Toolchain, "action", req.Action.String(), "nvm", req.UseNVM)

	if req.Action != ActionCheck {
		// refuse unsupported platforms before probing for nvm
		if _, err := t.strategy(req.Action.String()); err != nil {
			return err
		}
	}

	var nvm *NVM
	if req.Toolchain == ToolNode && req.Action != ActionCheck {
		n := NewNVM(t)
		if req.UseNVM || n.Available(ctx) {
			nvm = n
		}
	}

	switch req.Action {
	case ActionCheck:
		return t.Report(ctx)
	case ActionUpdate:
		if nvm != nil {
			_, err := nvm.Update(ctx)
			return err
		}
		_, err := t.Update(ctx)
		return err
	case ActionInstall:
		if nvm != nil {
			_, err := nvm.InstallLatest(ctx)
			return err
		}
		_, err := t.InstallLatest(ctx)
		return err
	default:
		return fmt.Errorf("unsupported action: %s", req.Action)
	}
}

// ErrorMessage renders an operation failure for the user. The nvm message
// is shown verbatim.
func ErrorMessage(err error) string {
	if errors.Is(err, ErrNVMNotInstalled) {
		return ErrNVMNotInstalled.Error()
	}
	return err.Error()
}
