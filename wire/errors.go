package wire

import "fmt"

// TruncatedStreamError reports that decoding needed more bytes than the source
// could supply.
type TruncatedStreamError struct {
	Need   int   // bytes requested by the failing read
	Got    int   // bytes actually available
	Offset int64 // offset of the failing read, relative to the start of the call
}

func (e *TruncatedStreamError) Error() string {
	return fmt.Sprintf("wire: truncated stream at offset %d: need %d bytes, got %d", e.Offset, e.Need, e.Got)
}

// MalformedPresenceFlagError reports a presence byte other than 0 or 1.
type MalformedPresenceFlagError struct {
	Flag   byte
	Offset int64
}

func (e *MalformedPresenceFlagError) Error() string {
	return fmt.Sprintf("wire: malformed presence flag 0x%02x at offset %d", e.Flag, e.Offset)
}

// MalformedLengthError reports a decoded length or count outside its valid range.
type MalformedLengthError struct {
	Length uint64
	Max    uint64 // upper bound that was violated; for fixed arrays the expected length
	Offset int64
}

func (e *MalformedLengthError) Error() string {
	return fmt.Sprintf("wire: malformed length %d at offset %d (limit %d)", e.Length, e.Offset, e.Max)
}

// MalformedValueError reports a fixed-shape value whose bytes are not a valid
// encoding, such as a boolean byte other than 0 or 1.
type MalformedValueError struct {
	Kind   string
	Offset int64
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("wire: malformed %s at offset %d", e.Kind, e.Offset)
}
