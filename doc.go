// Package whoa serializes arbitrary object graphs to a compact, positional
// binary stream and reconstructs value-equal instances from it.
//
// No schema, version or type tags travel with the data. The layout of each
// struct type is inferred once per (type, Options) pair by reflection and
// cached; writer and reader agree on it purely by convention:
//
//   - exported fields in declaration order, or by explicit whoa:"order=N" tags;
//   - whoa:"-" removes a field on both sides;
//   - pointers, slices and maps carry a one-byte presence flag so nil and
//     empty survive a round trip;
//   - named integer types are enums, written at their underlying width;
//   - map entries are sorted by encoded key, so equal values encode to equal
//     bytes;
//   - types with no usable layout (chan, func, interfaces, opaque structs)
//     fail under Strict and are skipped under NonSerialized, unless a handler
//     is registered for them.
//
// Typical usage:
//
//	var buf bytes.Buffer
//	if err := whoa.Serialize(&buf, rec, whoa.Strict); err != nil { ... }
//	back, err := whoa.Deserialize[Record](&buf, whoa.Strict)
//
// Reading a stream with a different type or different Options than it was
// written with is not detected; the result is garbage or a truncation error.
// Every error returned is an Issues value carrying the member path, a stable
// code and the typed cause.
package whoa
