// Package media содержит адаптеры обработки медиафайлов поверх ffmpeg.
package media

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner выполняет внешнюю команду обработки медиа.
// Интерфейс выделен, чтобы тесты могли подменять запуск ffmpeg.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// execRunner запускает команду через os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", name, err, string(output))
	}
	return nil
}
