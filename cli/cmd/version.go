package cmd

import (
	"context"
	"fmt"

	"github.com/ardnew/toolconf/pkg"
)

// Version prints the version of toolconf.
type Version struct{}

// Run executes the version command.
func (Version) Run(ctx context.Context) error {
	_, err := fmt.Fprintln(stdout(ctx), pkg.Name, pkg.VersionString())

	return err
}
