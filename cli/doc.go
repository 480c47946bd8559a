// Package cli contains the command line interface for toolconf.
//
// # Usage
//
//	toolconf [flags] <command> [args]
//
// Commands:
//
//	configure MANIFEST [-- ARGS...]  resolve the tools a manifest declares
//	call SCRIPT [-- ARGS...]         run invocations without a manifest
//	vars [MANIFEST]                  list declared variables and options
//	words OP LIST [SET]              filter word lists
//	init [PATH]                      write a starter manifest
//	version                          print version
//
// ARGS are configure-style options and assignments, for example:
//
//	toolconf configure toolconf.yaml -- --enable-debug --with-libc=musl CC=clang
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, for example ~/.config/toolconf/config.yaml:
//
//	log:
//	  level: debug
//	  pretty: false
//
// "toolconf init --config" writes that file from the current flag values.
//
// # Logging Options
//
//   - --log-level: trace, debug, info, notice, warn or error
//   - --log-format: text or json
//   - --log-time-layout: timestamp layout (none, rfc3339, kitchen, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize text output
//
// # Profiling Options
//
// Available only when built with the pprof build tag:
//
//   - --pprof-mode: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
//     thread or trace
//   - --pprof-dir: output directory (default ~/.cache/toolconf/pprof)
package cli
