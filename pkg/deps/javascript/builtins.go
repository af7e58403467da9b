package javascript

import "strings"

const nodeProtocol = "node:"

// builtins lists the Node.js core modules.
var builtins = map[string]struct{}{}

func init() {
	for _, m := range []string{
		"assert", "assert/strict", "async_hooks", "buffer", "child_process",
		"cluster", "console", "constants", "crypto", "dgram",
		"diagnostics_channel", "dns", "dns/promises", "domain", "events", "fs",
		"fs/promises", "http", "http2", "https", "inspector", "module", "net",
		"os", "path", "path/posix", "path/win32", "perf_hooks", "process",
		"punycode", "querystring", "readline", "readline/promises", "repl",
		"stream", "stream/consumers", "stream/promises", "stream/web",
		"string_decoder", "sys", "timers", "timers/promises", "tls",
		"trace_events", "tty", "url", "util", "util/types", "v8", "vm",
		"wasi", "worker_threads", "zlib",
	} {
		builtins[m] = struct{}{}
	}
}

// IsBuiltin reports whether spec names a Node.js core module, with or without
// the "node:" prefix.
func IsBuiltin(spec string) bool {
	if rest, ok := strings.CutPrefix(spec, nodeProtocol); ok {
		spec = rest
		if _, ok := builtins[spec]; ok {
			return true
		}
		// node:test and node:sqlite only exist with the prefix
		return spec == "test" || spec == "sqlite" || spec == "sea"
	}
	_, ok := builtins[spec]
	return ok
}
