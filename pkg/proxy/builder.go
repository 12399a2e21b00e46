package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/morezero/capabilities-bridge/pkg/commands"
	"github.com/morezero/capabilities-bridge/pkg/surface"
)

const builderLogPrefix = "proxy:builder"

// Build registers one command per identifier in m and returns the public
// trees mirroring it.
func Build(reg *commands.Registry, m *surface.Mapping) Trees {
	electron := BuildNamespaced(reg, surface.Local, "electron", m.Local)
	remote := BuildNamespaced(reg, surface.Remote, "remote", m.Remote)
	electron.Set(remote)

	t := Trees{
		Electron:        electron,
		BrowserWindow:   BuildFlat(reg, surface.Window, "browserWindow", m.Window),
		WebContents:     BuildFlat(reg, surface.Content, "webContents", m.Content),
		RendererProcess: BuildFlat(reg, surface.Process, "rendererProcess", m.Process),
		MainProcess:     remote.Child("process"),
	}
	slog.Info(fmt.Sprintf("%s - built proxy trees with %d commands", builderLogPrefix, reg.Len()))
	return t
}

// BuildNamespaced builds a two-level tree (namespace -> member) for a
// namespaced category.
func BuildNamespaced(reg *commands.Registry, c surface.Category, name string, tree map[string]map[string]string) *Node {
	root := NewBranch(name)
	for ns, members := range tree {
		branch := NewBranch(ns)
		for member, id := range members {
			reg.Add(id, commands.CallHandler(c.Procedure(), ns, member))
			branch.Set(NewLeaf(member, id, leafFor(reg, id)))
		}
		root.Set(branch)
	}
	return root
}

// BuildFlat builds a one-level tree for a flat category.
func BuildFlat(reg *commands.Registry, c surface.Category, name string, members map[string]string) *Node {
	root := NewBranch(name)
	for member, id := range members {
		reg.Add(id, commands.CallHandler(c.Procedure(), "", member))
		root.Set(NewLeaf(member, id, leafFor(reg, id)))
	}
	return root
}

// leafFor routes a leaf call through the registry so the effective handler
// is whichever was registered last for id.
func leafFor(reg *commands.Registry, id string) LeafFunc {
	return func(ctx context.Context, args ...any) (json.RawMessage, error) {
		return reg.Call(ctx, id, args...)
	}
}
