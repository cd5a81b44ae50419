/*
Package ninep implements the client side of the 9P2000 file protocol:
wire encoding in the wire subpackage, and in this package the session
state machine (dial, version handshake, authentication probe, attach)
and a small read-only filesystem façade (ListDirectory, Stat, Read) for
binding a 9P file tree into a host filesystem.

This package does not implement a 9P server, the 9P2000.u or 9P2000.L
dialects, or the write/create/remove/wstat operations — a Session only
drives the read path a filesystem binding needs to mount a remote tree
read-only. The wire package's codec can encode and decode the other
message kinds regardless, since servers and other clients still send
them on the connections this package's Session shares a wire format
with.
*/
package ninep
