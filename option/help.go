package option

import (
	"strings"

	"github.com/ardnew/toolconf/pkg"
)

const deprecatedHelp = "Deprecated. Option is kept for backwards compatibility and is ignored"

// EnableHelp returns the help entry of an --enable option. Options enabled
// by default are listed under their --disable spelling.
func EnableHelp(spec EnableSpec) pkg.HelpEntry {
	def := spec.Default
	if def == "" {
		def = True
	}

	if v, ok := tristate(def); ok {
		def = v
	}

	name := normalize(spec.Name)

	flag := KindEnable.Flag(name)
	if def == True {
		flag = "--disable-" + strings.ReplaceAll(name, "_", "-")
	}

	return pkg.HelpEntry{Name: flag, Text: helpText(spec.Desc, def)}
}

// WithHelp returns the help entry of a --with option.
func WithHelp(spec WithSpec) pkg.HelpEntry {
	return pkg.HelpEntry{
		Name: KindWith.Flag(normalize(spec.Name)),
		Text: helpText(spec.Desc, spec.Default),
	}
}

// DeprecatedHelp returns the help entry of a deprecated option.
func DeprecatedHelp(kind Kind, name string) pkg.HelpEntry {
	return pkg.HelpEntry{Name: kind.Flag(normalize(name)), Text: deprecatedHelp}
}

// AliasHelp returns the help entry of an --enable option that is an alias
// of canonical.
func AliasHelp(alias, canonical string) pkg.HelpEntry {
	return pkg.HelpEntry{
		Name: KindEnable.Flag(normalize(alias)),
		Text: "Alias for " + KindEnable.Flag(normalize(canonical)),
	}
}

func helpText(desc, def string) string {
	if def == "" {
		return desc
	}

	return strings.TrimSpace(desc + " [" + def + "]")
}
