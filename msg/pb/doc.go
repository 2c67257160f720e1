// Package pb holds hand-written protobuf wire structs for the message
// segments and system-message lists the decoders read. Each type has
// Unmarshal and Marshal built on google.golang.org/protobuf/encoding/protowire;
// unknown fields are skipped on decode.
//
// [Elem] is the segment union. A segment whose kind is not modeled is kept
// whole in [RawElem] and written back byte for byte.
package pb
