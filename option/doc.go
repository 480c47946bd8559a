// Package option parses and evaluates configure-style command lines.
//
// A command line holds three kinds of arguments:
//
//	--with-NAME[=VALUE]    --without-NAME      (VALUE defaults to "yes"; without gives "no")
//	--enable-NAME[=VALUE]  --disable-NAME      (VALUE defaults to "yes"; disable gives "no")
//	VAR=VALUE                                  (a tool or build variable)
//
// Dashes in option names are normalized to underscores, so
// --enable-native-coverage and --enable-native_coverage name the same
// option.
//
// Options are declared as they are evaluated, through [CommandLine.ArgEnable],
// [CommandLine.ArgWith] and the deprecation and aliasing helpers. Every
// declaration registers a help entry. Options given by the user but never
// declared are reported by [CommandLine.Unused].
package option
