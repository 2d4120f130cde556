package wire

import (
	"math"
	"math/big"
	"time"
)

// Presence flag values.
const (
	Absent  byte = 0
	Present byte = 1
)

const (
	ticksPerSecond = int64(time.Second / 100)
	// seconds from 0001-01-01 to 1970-01-01
	epochToUnix int64 = 62135596800
)

// Instants representable as ticks.
var (
	minTickTime = TimeFromTicks(math.MinInt64)
	maxTickTime = TimeFromTicks(math.MaxInt64)
)

// TimeTicks returns t as 100ns ticks since 0001-01-01T00:00:00Z. ok is false
// when t lies outside the int64 tick range (roughly ±29,000 years).
func TimeTicks(t time.Time) (ticks int64, ok bool) {
	if t.Before(minTickTime) || t.After(maxTickTime) {
		return 0, false
	}
	// intermediate products may wrap near the bounds; the sum does not
	return (t.Unix()+epochToUnix)*ticksPerSecond + int64(t.Nanosecond())/100, true
}

// TimeFromTicks is the inverse of TimeTicks. The result is in UTC.
func TimeFromTicks(ticks int64) time.Time {
	sec, rem := ticks/ticksPerSecond, ticks%ticksPerSecond
	if rem < 0 {
		sec--
		rem += ticksPerSecond
	}
	return time.Unix(sec-epochToUnix, rem*100).UTC()
}

// AppendBigInt appends the minimal little-endian two's complement form of v.
// Zero encodes as a single 0x00 byte.
func AppendBigInt(dst []byte, v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return append(dst, 0)
	case 1:
		mag := v.Bytes()
		for i := len(mag) - 1; i >= 0; i-- {
			dst = append(dst, mag[i])
		}
		if mag[0]&0x80 != 0 {
			dst = append(dst, 0x00)
		}
		return dst
	}
	// For negative v the bytes are the complement of -v-1.
	mag := new(big.Int).Not(v).Bytes()
	for i := len(mag) - 1; i >= 0; i-- {
		dst = append(dst, ^mag[i])
	}
	if len(mag) == 0 || mag[0]&0x80 != 0 {
		dst = append(dst, 0xff)
	}
	return dst
}

// ParseBigInt decodes little-endian two's complement bytes. An empty slice is
// zero.
func ParseBigInt(b []byte) *big.Int {
	n := len(b)
	if n == 0 {
		return new(big.Int)
	}
	be := make([]byte, n)
	for i, c := range b {
		be[n-1-i] = c
	}
	if be[0]&0x80 == 0 {
		return new(big.Int).SetBytes(be)
	}
	for i := range be {
		be[i] = ^be[i]
	}
	m := new(big.Int).SetBytes(be)
	return m.Not(m)
}
