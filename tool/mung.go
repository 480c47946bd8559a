package tool

import (
	"os"

	"github.com/ardnew/mung"
)

// prefixPath prepends dirs to the PATH-like list path.
func prefixPath(path string, dirs ...string) string {
	return mung.Make(
		mung.WithSubjectItems(path),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()
}
