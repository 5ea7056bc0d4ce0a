package commands

import (
	"strings"

	"github.com/goliatone/go-specdoc/internal/logging"
	"github.com/goliatone/go-specdoc/pkg/interfaces"
)

const commandModuleRoot = "specdoc.commands"

// CommandLogger returns a module-scoped logger for command handlers, carrying
// consistent structured fields so executions from different command modules
// line up in aggregated output.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
