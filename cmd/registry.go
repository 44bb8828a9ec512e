package cmd

import (
	"sort"

	"github.com/spf13/cobra"

	"inventory.GO/core/registry"
)

func registered() []*cobra.Command {
	if v, ok := registry.GlobalRegistry.GetGlobal(registry.KeyRegistryCmd); ok && v != nil {
		return v.([]*cobra.Command)
	}
	return nil
}

// Register adds a CLI command. Call from init() in custom packages.
// Panics once the registry is locked by Apply.
func Register(c *cobra.Command) {
	if registry.GlobalRegistry.IsLocked(registry.KeyRegistryCmd) {
		panic("cmd/registry: locked (register only during init before Apply)")
	}
	registry.GlobalRegistry.SetGlobal(registry.KeyRegistryCmd, append(registered(), c))
}

// Apply attaches every registered command to the root command in a stable
// order and locks the registry.
func Apply() {
	list := registered()
	sort.Slice(list, func(i, j int) bool { return list[i].Use < list[j].Use })
	for _, c := range list {
		rootCmd.AddCommand(c)
	}
	registry.GlobalRegistry.Lock(registry.KeyRegistryCmd)
}
