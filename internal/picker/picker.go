// Package picker opens the native file dialog for layer files.
package picker

import (
	"errors"

	"github.com/sqweek/dialog"
)

// ErrCancelled is returned when the user closes the dialog without a choice.
var ErrCancelled = errors.New("file selection cancelled")

// OpenLayers asks the user for a layer file. It blocks until the dialog
// closes, so callers run it off the main thread.
func OpenLayers() (string, error) {
	path, err := dialog.File().
		Filter("Layer files", "json").
		Filter("All Files", "*").
		Title("Open Layers").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrCancelled
	}
	return path, err
}
