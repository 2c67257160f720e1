// Package msg converts between wire message segments ([pb.Elem]) and a
// small semantic element model ([Element]).
//
// Decoding with [FromWire] is total: segments the package does not
// understand come back as [Opaque] and encode back to their original bytes.
// Encoding with [ToWire] may expand one element into several segments (an
// [At] is followed by a single-space text) and fails with
// [ErrNotImplemented] for [Reply] and guild mentions rather than dropping
// content.
package msg
