// Package greeting is a program whose only entry point logs who called it.
package greeting

import (
	"github.com/govm-net/counter/core"
	"github.com/govm-net/counter/types"
)

type Program struct {
	address core.Address
}

func New(address core.Address) *Program {
	return &Program{address: address}
}

// Initialize logs the program and the caller. It never touches state.
func (p *Program) Initialize(state types.StateContext) {
	state.Log(p.address, "greetings",
		"program", p.address.String(),
		"sender", state.Sender().String())
}
