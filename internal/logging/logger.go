// README: zap logger construction shared by all binaries.
package logging

import (
	"go.uber.org/zap"
)

// New builds the service logger. Production env gets JSON output, anything
// else the human-readable development config.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
