// Package cli provides the interactive Genio shell.
//
// It wires configuration, the auth collaborator, the storage gateway, the
// in-memory venture store and the file lifecycle controller, then runs a
// REPL over stdin. Typical flow: login, create a venture, upload files into
// it and watch their status settle.
//
// Key features:
//   - Login / Logout (demo mode needs no credentials)
//   - Create, edit and delete ventures
//   - Upload files, delete one file or clear all files of a venture
//   - Open a venture and follow its file status changes live
//   - Watch a local directory and upload whatever lands in it
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
