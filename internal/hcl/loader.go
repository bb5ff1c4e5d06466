package hcl

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/fsutil"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/settings"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrNoFiles is returned when the given paths contain no HCL files.
	ErrNoFiles = errors.New("no HCL files found")
	// ErrUnknownType is returned for an unrecognized socket type keyword.
	ErrUnknownType = errors.New("unknown socket type")
	// ErrLiteralType is returned when a literal is given for a socket type
	// that cannot be written in HCL.
	ErrLiteralType = errors.New("socket type has no literal form")
	// ErrSocketReference is returned for a malformed "node.socket" reference.
	ErrSocketReference = errors.New("invalid socket reference")
	// ErrSocketBlocks is returned when a registered node type declares its
	// own sockets in HCL.
	ErrSocketBlocks = errors.New("input and output blocks are only allowed on group nodes")
)

// Document is the result of loading a set of HCL files.
type Document struct {
	Tree     *nodetree.Tree
	Settings *settings.Settings
}

// Loader builds node trees from HCL using the node types of a registry.
type Loader struct {
	registry *registry.Registry
}

// NewLoader creates a loader resolving node types against reg.
func NewLoader(reg *registry.Registry) *Loader {
	return &Loader{registry: reg}
}

// Load parses every .hcl file under paths and assembles one tree and its
// settings.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %v", ErrNoFiles, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	var roots []*fileRoot
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		roots = append(roots, &root)
	}

	name := treeName(roots, files[0])
	b := nodetree.NewBuilder(name)

	// Nodes first: links may point into any file.
	for _, root := range roots {
		for _, nb := range root.Nodes {
			if err := l.addNode(ctx, b, nb); err != nil {
				return nil, err
			}
		}
	}
	for _, root := range roots {
		for _, sb := range root.Slots {
			if err := addSlot(ctx, b, sb); err != nil {
				return nil, err
			}
		}
		for _, lb := range root.Links {
			if err := addLink(b, lb); err != nil {
				return nil, err
			}
		}
	}
	tree := b.Build()

	s, err := loadSettings(ctx, tree, roots)
	if err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "tree", name, "nodes", len(tree.Nodes()), "settings", s.Len())
	return &Document{Tree: tree, Settings: s}, nil
}

// treeName is the first declared name, or the first file's base name.
func treeName(roots []*fileRoot, first string) string {
	for _, root := range roots {
		if root.Name != nil && *root.Name != "" {
			return *root.Name
		}
	}
	return strings.TrimSuffix(filepath.Base(first), filepath.Ext(first))
}

func (l *Loader) addNode(ctx context.Context, b *nodetree.Builder, nb *nodeBlock) error {
	var (
		n   *nodetree.Node
		err error
	)
	if nb.Type == nodetree.GroupInputType || nb.Type == nodetree.GroupOutputType {
		n, err = addGroupNode(ctx, b, nb)
	} else {
		n, err = l.addRegisteredNode(ctx, b, nb)
	}
	if err != nil {
		return err
	}

	for _, identifier := range nb.Disabled {
		if s, ok := n.Input(identifier); ok {
			s.SetAvailable(false)
			continue
		}
		if s, ok := n.Output(identifier); ok {
			s.SetAvailable(false)
			continue
		}
		return fmt.Errorf("node %s: %w: cannot disable %q", nb.ID, nodetree.ErrUnknownSocket, identifier)
	}
	return nil
}

func (l *Loader) addRegisteredNode(ctx context.Context, b *nodetree.Builder, nb *nodeBlock) (*nodetree.Node, error) {
	if len(nb.In) > 0 || len(nb.Out) > 0 {
		return nil, fmt.Errorf("node %s: %w", nb.ID, ErrSocketBlocks)
	}
	nt, ok := l.registry.Lookup(nb.Type)
	if !ok {
		return nil, fmt.Errorf("node %s: %w: %s", nb.ID, registry.ErrUnknownNodeType, nb.Type)
	}
	overrides, err := inputOverrides(ctx, nb, nt)
	if err != nil {
		return nil, err
	}
	return l.registry.AddNode(b, nb.ID, nb.Type, overrides)
}

// inputOverrides decodes the `inputs` object against the declared sockets.
func inputOverrides(ctx context.Context, nb *nodeBlock, nt *registry.NodeType) (map[string]any, error) {
	if nb.Inputs == nil {
		return nil, nil
	}
	val, diags := nb.Inputs.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("node %s inputs: %w", nb.ID, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("node %s: inputs must be an object, got %s", nb.ID, val.Type().FriendlyName())
	}

	overrides := make(map[string]any)
	for identifier, v := range val.AsValueMap() {
		spec, ok := findSpec(nt.Inputs, identifier)
		if !ok {
			return nil, fmt.Errorf("node %s: %w: %s has no input %q", nb.ID, nodetree.ErrUnknownSocket, nb.Type, identifier)
		}
		decoded, err := decodeLiteral(ctx, v, spec.Type)
		if err != nil {
			return nil, fmt.Errorf("node %s input %s: %w", nb.ID, identifier, err)
		}
		overrides[identifier] = decoded
	}
	return overrides, nil
}

func findSpec(specs []nodetree.SocketSpec, identifier string) (nodetree.SocketSpec, bool) {
	for _, s := range specs {
		if s.Identifier == identifier {
			return s, true
		}
	}
	return nodetree.SocketSpec{}, false
}

// addGroupNode adds a group boundary node whose sockets are declared in
// the file.
func addGroupNode(ctx context.Context, b *nodetree.Builder, nb *nodeBlock) (*nodetree.Node, error) {
	if nb.Inputs != nil {
		if val, _ := nb.Inputs.Value(nil); !val.IsNull() {
			return nil, fmt.Errorf("node %s: group nodes take no input literals", nb.ID)
		}
	}
	inputs, err := socketSpecs(ctx, nb.ID, nb.In)
	if err != nil {
		return nil, err
	}
	outputs, err := socketSpecs(ctx, nb.ID, nb.Out)
	if err != nil {
		return nil, err
	}
	return b.AddNode(nb.ID, nb.Type, inputs, outputs)
}

func socketSpecs(ctx context.Context, nodeID string, blocks []*socketBlock) ([]nodetree.SocketSpec, error) {
	specs := make([]nodetree.SocketSpec, 0, len(blocks))
	for _, sb := range blocks {
		t, err := typeExprToSocketType(ctx, sb.Type)
		if err != nil {
			return nil, fmt.Errorf("node %s socket %s: %w", nodeID, sb.Identifier, err)
		}
		def, err := literalExpr(ctx, sb.Default, t)
		if err != nil {
			return nil, fmt.Errorf("node %s socket %s default: %w", nodeID, sb.Identifier, err)
		}
		spec := nodetree.SocketSpec{Identifier: sb.Identifier, Type: t, Default: def}
		if sb.Name != nil {
			spec.Name = *sb.Name
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func addSlot(ctx context.Context, b *nodetree.Builder, sb *slotBlock) error {
	t, err := typeExprToSocketType(ctx, sb.Type)
	if err != nil {
		return fmt.Errorf("group input slot %s: %w", sb.Identifier, err)
	}
	def, err := literalExpr(ctx, sb.Default, t)
	if err != nil {
		return fmt.Errorf("group input slot %s default: %w", sb.Identifier, err)
	}
	if _, err := b.AddGroupInput(sb.Identifier, t, def); err != nil {
		return err
	}
	for _, target := range sb.Targets {
		node, socket, err := splitReference(target)
		if err != nil {
			return fmt.Errorf("group input slot %s: %w", sb.Identifier, err)
		}
		if err := b.LinkGroupInput(sb.Identifier, node, socket); err != nil {
			return fmt.Errorf("group input slot %s: %w", sb.Identifier, err)
		}
	}
	return nil
}

func addLink(b *nodetree.Builder, lb *linkBlock) error {
	fromNode, fromSocket, err := splitReference(lb.From)
	if err != nil {
		return fmt.Errorf("link from: %w", err)
	}
	toNode, toSocket, err := splitReference(lb.To)
	if err != nil {
		return fmt.Errorf("link to: %w", err)
	}
	if err := b.Link(fromNode, fromSocket, toNode, toSocket); err != nil {
		return fmt.Errorf("link %s -> %s: %w", lb.From, lb.To, err)
	}
	return nil
}

// splitReference splits "node.socket" at the first dot.
func splitReference(ref string) (string, string, error) {
	node, socket, ok := strings.Cut(ref, ".")
	if !ok || node == "" || socket == "" {
		return "", "", fmt.Errorf("%w: %q, expected \"node.socket\"", ErrSocketReference, ref)
	}
	return node, socket, nil
}

// loadSettings reads all settings blocks. Values for a group input socket
// are stored with that socket's kind when they convert; anything else keeps
// the kind its literal implies.
func loadSettings(ctx context.Context, tree *nodetree.Tree, roots []*fileRoot) (*settings.Settings, error) {
	logger := ctxlog.FromContext(ctx)
	kinds := groupInputKinds(tree)
	s := settings.New()

	for _, root := range roots {
		for _, block := range root.Settings {
			attrs, diags := block.Body.JustAttributes()
			if diags.HasErrors() {
				return nil, fmt.Errorf("settings: %w", diags)
			}
			for identifier, attr := range attrs {
				val, diags := attr.Expr.Value(nil)
				if diags.HasErrors() {
					return nil, fmt.Errorf("setting %s: %w", identifier, diags)
				}
				prop, err := settingProperty(kinds, identifier, val)
				if err != nil {
					return nil, fmt.Errorf("setting %s: %w", identifier, err)
				}
				logger.Debug("Loaded setting.", "identifier", identifier, "kind", prop.Kind)
				s.Set(identifier, prop)
			}
		}
	}
	return s, nil
}

func settingProperty(kinds map[string]settings.Kind, identifier string, val cty.Value) (settings.Property, error) {
	if kind, ok := kinds[identifier]; ok {
		if prop, err := settings.Coerce(kind, val); err == nil {
			return prop, nil
		}
	}
	return settings.Infer(val)
}

func groupInputKinds(tree *nodetree.Tree) map[string]settings.Kind {
	kinds := make(map[string]settings.Kind)
	nodes := tree.NodesByType(nodetree.GroupInputType)
	if len(nodes) == 0 {
		return kinds
	}
	for _, socket := range nodes[0].Outputs() {
		if kind, ok := settings.KindFor(socket.Type()); ok {
			kinds[socket.Identifier()] = kind
		}
	}
	return kinds
}
