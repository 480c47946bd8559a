package option

import (
	"context"
	"log/slog"
)

// DeprecatedWith declares --with-name as accepted but ignored. It warns,
// adding msg if it is not empty, only when the user supplied the option,
// and reports whether they did.
func (cl *CommandLine) DeprecatedWith(ctx context.Context, name, msg string) bool {
	return cl.deprecated(ctx, KindWith, name, msg)
}

// DeprecatedEnable is the --enable-name form of [CommandLine.DeprecatedWith].
func (cl *CommandLine) DeprecatedEnable(ctx context.Context, name, msg string) bool {
	return cl.deprecated(ctx, KindEnable, name, msg)
}

func (cl *CommandLine) deprecated(ctx context.Context, kind Kind, name, msg string) bool {
	entry := DeprecatedHelp(kind, name)
	cl.help.Add(entry.Name, entry.Text)

	flag := entry.Name

	value, ok := cl.lookup(kind, name)
	if !ok {
		return false
	}

	attrs := []slog.Attr{slog.String("value", value)}
	if msg != "" {
		attrs = append(attrs, slog.String("note", msg))
	}

	cl.log.WarnContext(ctx, "option "+flag+" is deprecated and will be ignored", attrs...)

	return true
}

// AliasedEnable declares --enable-alias as another spelling of
// --enable-canonical. A value given under the alias is copied to the
// canonical option, so it must be declared before canonical is evaluated.
// It reports whether the alias was given.
func (cl *CommandLine) AliasedEnable(ctx context.Context, alias, canonical string) bool {
	entry := AliasHelp(alias, canonical)
	cl.help.Add(entry.Name, entry.Text)

	g, ok := cl.opts[KindEnable][normalize(alias)]
	if !ok {
		return false
	}

	g.used = true
	cl.set(KindEnable, normalize(canonical), g.value, g.flag)

	cl.log.DebugContext(ctx, "aliased option",
		slog.String("alias", KindEnable.Flag(normalize(alias))),
		slog.String("option", KindEnable.Flag(normalize(canonical))),
		slog.String("value", g.value),
	)

	return true
}
