// Package tool resolves the external programs a build depends on.
//
// Each tool is identified by a variable name such as CC or JAVA. A
// [Resolver] turns the variable into a validated command line, checking in
// order:
//
//  1. a value given on the command line (VAR=value), which is validated as
//     a path or searched for by name;
//  2. a value inherited from the environment, which is ignored with a
//     warning unless the variable is trusted (BASH by default);
//  3. an auto-search strategy supplied by the caller, such as [Progs].
//
// Resolution happens at most once per tool. The resulting [Record] is
// frozen for the rest of the run. A tool marked required that resolves to
// nothing fails the run with [pkg.ErrRequiredToolMissing].
//
// All process execution goes through a [Runner], so tests can fake tool
// probing without spawning processes.
package tool
