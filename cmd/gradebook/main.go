// Package main - точка входа CLI журнала оценок.
//
// Журнал живёт только в памяти процесса: студенты, курсы и оценки
// загружаются из TOML-сценария, результаты печатаются в stdout,
// структурированные логи пишутся в stderr.
//
// Слои:
// - Domain: сущности student/course и политики GPA
// - Application: GradeBook - единственная точка входа в модель
// - Interface: cobra-команды, сценарии и форматирование вывода
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/clivetmushipe088/grade-book-app/internal/interface/cli"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	// Отмена по Ctrl+C останавливает сценарий между шагами
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx)
	stop()

	os.Exit(code)
}
