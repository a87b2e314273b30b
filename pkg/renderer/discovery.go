package renderer

import (
	"os"
	"path/filepath"
	"plugin"
)

// RenderersSymbol is the symbol a discovered plugin must export:
//
//	func Renderers() map[string]renderer.Renderer
//
// mapping type names to renderer capabilities.
const RenderersSymbol = "Renderers"

// pluginDirEnv overrides the default plugin namespace directory.
const pluginDirEnv = "PAPERFIG_PLUGIN_DIR"

// DiscoverFunc enumerates renderers advertised under the plugin namespace.
// The resolver calls it at most once per instance and memoizes the result.
type DiscoverFunc func() map[string]Renderer

// PluginDir returns the fixed plugin namespace directory:
// $PAPERFIG_PLUGIN_DIR if set, otherwise ~/.config/paperfig/plugins.
func PluginDir() string {
	if dir := os.Getenv(pluginDirEnv); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "paperfig", "plugins")
}

// DiscoverPlugins scans dir for .so files exporting [RenderersSymbol] and
// collects their renderers. Plugins that fail to load or export the wrong
// shape are skipped; a missing directory yields an empty set.
func DiscoverPlugins(dir string) map[string]Renderer {
	found := make(map[string]Renderer)
	if dir == "" {
		return found
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.so"))
	if err != nil {
		return found
	}

	for _, path := range matches {
		p, err := plugin.Open(path)
		if err != nil {
			continue
		}
		sym, err := p.Lookup(RenderersSymbol)
		if err != nil {
			continue
		}
		fn, ok := sym.(func() map[string]Renderer)
		if !ok {
			continue
		}
		for name, r := range fn() {
			if r != nil {
				found[name] = r
			}
		}
	}
	return found
}
