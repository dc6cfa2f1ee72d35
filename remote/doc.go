// Package remote runs a level library in a child process and talks to it over gRPC.
//
// Process management is hashicorp/go-plugin. The parent side is Opener, a
// loader.Opener: it starts the host binary (cmd/levelhost) with the library path and
// lets go-plugin do the handshake, the connection and the health ping. The plugin it
// dispenses is a *Library, which answers Lookup with stub functions that forward each
// contract call to the child, so the loader and the worker drive a remote level
// exactly like an in-process one. Closing the Library kills the child.
//
// A stub that cannot reach the child panics with a *CallError. The loader's LoadSafe
// and the worker's recover turn that into a load error or a runtime fault, the same
// way they handle a panicking level.
//
// The child side is Server, which serves one opened library, and Serve, which hands
// it to go-plugin for cmd/levelhost.
//
// Messages use the protobuf wire format through the codec this package registers
// under the name "levelwire".
package remote
