package binary

import "fmt"

// BufferOverflowError reports a decode that would read past the end of the
// buffer. It means the data is truncated, corrupt or from a different
// format; decoding never silently truncates.
type BufferOverflowError struct {
	Offset int // cursor position of the failed read
	Need   int // bytes the read required
	Have   int // bytes remaining
}

func (e *BufferOverflowError) Error() string {
	return fmt.Sprintf("buffer overflow at offset %d: need %d bytes, have %d", e.Offset, e.Need, e.Have)
}
