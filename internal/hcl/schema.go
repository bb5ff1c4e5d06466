package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is decoded from every file. Unknown top-level attributes and
// blocks are decode errors.
type fileRoot struct {
	Name     *string          `hcl:"name,optional"`
	Nodes    []*nodeBlock     `hcl:"node,block"`
	Links    []*linkBlock     `hcl:"link,block"`
	Slots    []*slotBlock     `hcl:"group_input_slot,block"`
	Settings []*settingsBlock `hcl:"settings,block"`
}

// nodeBlock declares a node. Input and output blocks are only accepted on
// group boundary nodes, whose sockets are the tree's interface.
type nodeBlock struct {
	ID       string         `hcl:"id,label"`
	Type     string         `hcl:"type"`
	Inputs   hcl.Expression `hcl:"inputs,optional"`
	Disabled []string       `hcl:"disabled,optional"`
	In       []*socketBlock `hcl:"input,block"`
	Out      []*socketBlock `hcl:"output,block"`
}

type socketBlock struct {
	Identifier string         `hcl:"identifier,label"`
	Name       *string        `hcl:"name,optional"`
	Type       hcl.Expression `hcl:"type"`
	Default    hcl.Expression `hcl:"default,optional"`
}

// linkBlock connects "node.socket" to "node.socket".
type linkBlock struct {
	From string `hcl:"from"`
	To   string `hcl:"to"`
}

// slotBlock declares a group-level input slot feeding the target sockets.
type slotBlock struct {
	Identifier string         `hcl:"identifier,label"`
	Type       hcl.Expression `hcl:"type"`
	Default    hcl.Expression `hcl:"default,optional"`
	Targets    []string       `hcl:"targets,optional"`
}

type settingsBlock struct {
	Body hcl.Body `hcl:",remain"`
}
