package cli

import (
	"log/slog"
	"os"

	"github.com/ardnew/toolconf/pkg"
)

// defaultDirMode is the permission mode of created runtime directories.
var defaultDirMode os.FileMode = 0o700

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return pkg.ErrWriteConfig.
				With(slog.String("dir", dir)).
				Wrap(err)
		}
	}

	return nil
}
