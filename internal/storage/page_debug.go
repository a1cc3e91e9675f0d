package storage

import (
	"encoding/hex"
	"fmt"
	"io"
)

// DumpHex writes a hex dump of the first n bytes of the page to w. n <= 0 or
// n > PageSize dumps the whole page.
func (p *Page) DumpHex(w io.Writer, n int) error {
	if n <= 0 || n > PageSize {
		n = PageSize
	}
	d := hex.Dumper(w)
	if _, err := d.Write(p.buf[:n]); err != nil {
		return err
	}
	return d.Close()
}

// DebugString is a short summary of the page used in log lines.
func (p *Page) DebugString() string {
	used := PageSize
	for used > 0 && p.buf[used-1] == 0 {
		used--
	}
	return fmt.Sprintf("Page{used=%d header=% x}", used, p.buf[:16])
}
