package common

// WipeByteArray overwrites the contents of buf with zeros. It is used to
// clear password buffers as soon as they are no longer needed. Safe to call
// with nil.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
