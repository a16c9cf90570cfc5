package stats

import (
	"strconv"
)

// the Write* functions append one graphite plaintext line:
// <prefix><name><suffix><tags> <value> <ts>\n

func writeKey(buf, prefix, name, suffix, tags []byte) []byte {
	buf = append(buf, prefix...)
	buf = append(buf, name...)
	buf = append(buf, suffix...)
	buf = append(buf, tags...)
	return append(buf, ' ')
}

func writeTs(buf []byte, ts int64) []byte {
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, ts, 10)
	return append(buf, '\n')
}

func WriteFloat64(buf, prefix, name, suffix, tags []byte, val float64, ts int64) []byte {
	buf = writeKey(buf, prefix, name, suffix, tags)
	buf = strconv.AppendFloat(buf, val, 'f', -1, 64)
	return writeTs(buf, ts)
}

func WriteUint32(buf, prefix, name, suffix, tags []byte, val uint32, ts int64) []byte {
	buf = writeKey(buf, prefix, name, suffix, tags)
	buf = strconv.AppendUint(buf, uint64(val), 10)
	return writeTs(buf, ts)
}

func WriteInt32(buf, prefix, name, suffix, tags []byte, val int32, ts int64) []byte {
	buf = writeKey(buf, prefix, name, suffix, tags)
	buf = strconv.AppendInt(buf, int64(val), 10)
	return writeTs(buf, ts)
}

func WriteInt64(buf, prefix, name, suffix, tags []byte, val int64, ts int64) []byte {
	buf = writeKey(buf, prefix, name, suffix, tags)
	buf = strconv.AppendInt(buf, val, 10)
	return writeTs(buf, ts)
}
