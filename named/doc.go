// Package named implements a named-argument calling convention.
//
// A function is declared once with the names of the arguments it accepts.
// A leading "*" marks an argument as required:
//
//	fn, err := named.Define("LOOKUP_PROGS", []string{"*VAR", "*PROGS", "PATHS"},
//		func(ctx context.Context, s *named.Scope) error {
//			return lookup(ctx, s.Arg("VAR"), s.Words("PROGS"), s.Words("PATHS"))
//		})
//
// Invocations supply arguments by label in any order:
//
//	err = fn.Call(ctx, named.Arg{Name: "VAR", Value: "CC"}, named.Arg{Name: "PROGS", Value: "gcc cc"})
//
// Binding validates the invocation before the body runs. Unknown labels,
// labels given twice and missing required labels are all errors. Every
// declared argument the caller omitted is bound to the empty string, so a
// body can read any declared name without checking for it first.
//
// Bindings live in a [Scope] created for each call and passed explicitly to
// the body. The context given to the body carries the scope, so calls made
// from inside a body see it as their parent. A nested call with the same
// argument names never observes or clobbers the bindings of the outer call.
//
// # Invocation Syntax
//
// [ParseScript] and [ParseCall] read invocations written as text:
//
//	REQUIRE_PROGS(VAR: CC, PROGS: [gcc cc clang])
//
// A value begins on the same line as its label and extends to the next
// top-level comma or the closing parenthesis, possibly over several lines.
// Square brackets quote: commas and parentheses inside them are literal,
// and one pair of brackets enclosing the whole value is removed. Outside of
// a call, "#" starts a comment that runs to the end of the line.
package named
