package services

import (
	"github.com/afeibuhuifei/project-flow/interfaces"
	"github.com/afeibuhuifei/project-flow/logging"
)

// removeFiles deletes stored uploads after their rows are gone. Failures are
// logged and otherwise ignored.
func removeFiles(store interfaces.FileStore, paths []string) {
	for _, p := range paths {
		if err := store.Remove(p); err != nil {
			logging.Logger.Warnf("Event ID: FILE_CLEANUP_FAILED, Description: Could not remove %s: %v", p, err)
		}
	}
}
