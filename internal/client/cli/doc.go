// Package cli provides the interactive TodoKeeper terminal client.
//
// App wires configuration, the HTTP API client and the client services,
// then runs a REPL with a "todo>" prompt. A background watcher pings the
// server and switches between online and offline mode.
//
// Commands:
//   - register, login, logout, profile
//   - list, add, show <id>, done <id>, undone <id>, edit <id>, delete <id>
//   - help, exit | quit
//
// A 401 from the server drops the local session and the REPL falls back
// to the logged-out command set.
package cli
