package usecase

import (
	"net/http"

	"github.com/3-lines-studio/gacha/internal/adapters/cli"
	"github.com/3-lines-studio/gacha/internal/adapters/fs"
)

type CLIOutput interface {
	cli.Colors
	PrintHeader(msg string)
	PrintStep(emoji, msg string, args ...any)
	PrintSuccess(msg string, args ...any)
	PrintWarning(msg string, args ...any)
	PrintError(msg string, args ...any)
	PrintFile(path string)
	PrintDone(msg string)
}

type FileSystem = fs.FileSystem

// StateProvider returns the session slice seeded into each page's store.
type StateProvider func(r *http.Request) map[string]any
