//go:build !linux

package headless

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/richinsley/goglass/graphics"
)

// New is only available on Linux.
func New(width, height int, logger *zap.Logger) (graphics.Context, error) {
	return nil, fmt.Errorf("egl headless rendering is not supported on this platform")
}
