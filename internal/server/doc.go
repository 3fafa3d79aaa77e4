// Package server implements a TCP server for the NFSv3 and MOUNT programs
// over ONC RPC with record marking. It dispatches decoded procedures to a
// vfs.FileSystem, so the protocol layer stays independent of the backing
// store.
package server
