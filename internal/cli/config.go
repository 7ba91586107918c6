package cli

import (
	"github.com/heartmarshall/auditlog-backend/internal/config"
)

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.LoadPath(opts.ConfigPath)
	}
	return config.Load()
}
