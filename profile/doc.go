// Package profile starts an optional runtime profiler around a toolconf run.
//
// Profiling is compiled in only with the pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Config.Start] returns a profiler
// whose Stop does nothing. With the tag, the modes supported by
// [github.com/pkg/profile] are available, and the CLI exposes them through
// the --pprof-mode and --pprof-dir flags:
//
//	toolconf --pprof-mode=cpu configure toolconf.yaml
//	go tool pprof -http=: ~/.cache/toolconf/pprof/cpu.pprof
//
// Probes run as child processes, so CPU profiles mostly show manifest
// decoding, invocation parsing and expression evaluation.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
