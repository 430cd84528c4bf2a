//go:build !gl

package display

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/normanking/cortexface/internal/config"
)

// Binaries built without the gl tag carry no window toolkit.
func newWindow(config.WindowConfig, zerolog.Logger) (Sink, error) {
	return nil, errors.New("built without gl support, rebuild with -tags gl")
}
