package modifier

import (
	"context"

	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/settings"
)

// UpdateInterface brings the settings in line with the tree's group input
// sockets. Properties are created from socket defaults when missing and
// replaced when stored with a kind the socket does not accept. Other
// properties are kept. Trees without a group input node leave the settings
// alone.
func (m *Modifier) UpdateInterface(ctx context.Context) {
	UpdateInterface(ctx, m.tree, m.settings)
}

// UpdateInterface is Modifier.UpdateInterface for a bare tree and settings.
func UpdateInterface(ctx context.Context, tree *nodetree.Tree, s *settings.Settings) {
	logger := ctxlog.FromContext(ctx)
	inputNodes := tree.NodesByType(nodetree.GroupInputType)
	if len(inputNodes) == 0 {
		return
	}

	for _, socket := range inputNodes[0].Outputs() {
		kind, ok := settings.KindFor(socket.Type())
		if !ok {
			continue
		}

		existing, ok := s.Get(socket.Identifier())
		if ok && existing.Accepts(kind) {
			continue
		}
		prop, err := settings.NewProperty(kind, socket.DefaultValue())
		if err != nil {
			logger.Warn("Cannot create property from socket default.", "identifier", socket.Identifier(), "error", err)
			continue
		}
		if ok {
			logger.Debug("Replacing property of wrong kind.", "identifier", socket.Identifier(), "was", existing.Kind, "now", kind)
		} else {
			logger.Debug("Creating property.", "identifier", socket.Identifier(), "kind", kind)
		}
		s.Set(socket.Identifier(), prop)
	}
}
