package cbor

// strings.go materializes the content of a byte/text string item the
// Cursor is positioned on (spec §4.E). StringLength can report a chunked
// string's total size without allocating; CopyString writes into the
// caller's own destination buffer; DuplicateString allocates the copy it
// returns.

// StringLength reports the total content length of the byte/text string
// item last positioned on by Preparse. For a definite-length string this
// is O(1); for an indefinite (chunked) string it scans the chunk headers
// without materializing their content, then commits by advancing the
// Source past the whole item (header scan and commit happen together,
// since the Source has no way to "unread"). Callers that also want the
// content should use CopyString or DuplicateString instead, which
// materialize in the same single pass rather than composing with this.
func (c *Cursor) StringLength() (uint64, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.typ != BytesType && c.typ != TextType {
		return 0, c.fail(ErrIllegalType)
	}
	if !c.indefinite {
		return c.arg, nil
	}
	want := c.chunkType()
	var total uint64
	var off int
	for {
		b, err := c.src.ReadBytes(off + 1)
		if err != nil {
			return 0, c.fail(ErrUnexpectedEOF)
		}
		initial := b[off]
		if getMajorType(initial) == majorTypeSimple && getAddInfo(initial) == simpleBreak {
			off++
			break
		}
		if typeOf(initial) != want {
			return 0, c.fail(ErrIllegalType)
		}
		ai := getAddInfo(initial)
		hdrLen, arg, err := c.peekArg(off, ai)
		if err != nil {
			return 0, err
		}
		if getAddInfo(initial) == addInfoIndefinite {
			return 0, c.fail(ErrIllegalType)
		}
		total += arg
		off += hdrLen + int(arg)
	}
	if err := c.src.AdvanceBytes(off); err != nil {
		return 0, c.fail(ErrUnexpectedEOF)
	}
	return total, nil
}

// peekArg decodes the additional-information argument for the header
// starting at byte offset off from the current Source position, without
// advancing it, returning the header length in bytes and the decoded
// value.
func (c *Cursor) peekArg(off int, ai uint8) (hdrLen int, arg uint64, err error) {
	switch {
	case ai < addInfoUint8:
		return 1, uint64(ai), nil
	case ai == addInfoUint8:
		b, e := c.src.ReadBytes(off + 2)
		if e != nil {
			return 0, 0, c.fail(ErrUnexpectedEOF)
		}
		return 2, uint64(b[off+1]), nil
	case ai == addInfoUint16:
		b, e := c.src.ReadBytes(off + 3)
		if e != nil {
			return 0, 0, c.fail(ErrUnexpectedEOF)
		}
		return 3, uint64(b[off+1])<<8 | uint64(b[off+2]), nil
	case ai == addInfoUint32:
		b, e := c.src.ReadBytes(off + 5)
		if e != nil {
			return 0, 0, c.fail(ErrUnexpectedEOF)
		}
		v := uint64(b[off+1])<<24 | uint64(b[off+2])<<16 | uint64(b[off+3])<<8 | uint64(b[off+4])
		return 5, v, nil
	case ai == addInfoUint64:
		b, e := c.src.ReadBytes(off + 9)
		if e != nil {
			return 0, 0, c.fail(ErrUnexpectedEOF)
		}
		var v uint64
		for i := 1; i <= 8; i++ {
			v = v<<8 | uint64(b[off+i])
		}
		return 9, v, nil
	default:
		return 1, 0, nil
	}
}

// CopyString copies the content of the current byte/text string item
// into dst, NUL-padding any remainder of dst beyond the string's length.
// It returns the string's total length. If dst is shorter than that
// length, as much as fits is copied and the error return carries the
// additional capacity CopyString would have needed (see
// ExtraBytesNeeded), matching the encoder's overrun-reporting contract.
func (c *Cursor) CopyString(dst []byte) (uint64, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.typ != BytesType && c.typ != TextType {
		return 0, c.fail(ErrIllegalType)
	}
	var total uint64
	copyChunk := func(n uint64) error {
		rem := uint64(len(dst)) - total
		if total > uint64(len(dst)) {
			rem = 0
		}
		take := n
		if take > rem {
			take = rem
		}
		if take > 0 {
			if _, err := c.src.TransferString(dst[total:total+take], int(take)); err != nil {
				return c.fail(ErrUnexpectedEOF)
			}
			if n > take {
				if err := c.src.AdvanceBytes(int(n - take)); err != nil {
					return c.fail(ErrUnexpectedEOF)
				}
			}
		} else if err := c.src.AdvanceBytes(int(n)); err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		total += n
		return nil
	}

	if !c.indefinite {
		if err := copyChunk(c.arg); err != nil {
			return 0, err
		}
	} else {
		want := c.chunkType()
		for {
			if err := c.Preparse(); err != nil {
				return 0, err
			}
			if c.isBreak {
				break
			}
			if c.typ != want || c.indefinite {
				return 0, c.fail(ErrIllegalType)
			}
			if err := copyChunk(c.arg); err != nil {
				return 0, err
			}
		}
	}

	if total < uint64(len(dst)) {
		for i := total; i < uint64(len(dst)); i++ {
			dst[i] = 0
		}
	}
	if total > uint64(len(dst)) {
		return total, errExtraBytesNeeded(int(total - uint64(len(dst))))
	}
	return total, nil
}

// DuplicateString allocates and returns a copy of the current byte/text
// string item's content.
func (c *Cursor) DuplicateString() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.typ != BytesType && c.typ != TextType {
		return nil, c.fail(ErrIllegalType)
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)

	appendChunk := func(n uint64) error {
		d := bb.Extend(int(n))
		if _, err := c.src.TransferString(d, int(n)); err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		return nil
	}

	if !c.indefinite {
		if err := appendChunk(c.arg); err != nil {
			return nil, err
		}
	} else {
		want := c.chunkType()
		for {
			if err := c.Preparse(); err != nil {
				return nil, err
			}
			if c.isBreak {
				break
			}
			if c.typ != want || c.indefinite {
				return nil, c.fail(ErrIllegalType)
			}
			if err := appendChunk(c.arg); err != nil {
				return nil, err
			}
		}
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}
