package debug

import (
	"fmt"
	"io"
	"strings"
)

// WriteMemory writes data as a memory editor would show it: 16 bytes per
// row, each row prefixed with the address of its first byte and followed
// by the printable characters.
func WriteMemory(w io.Writer, start uint16, data []byte) {
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		row := data[off:end]

		fmt.Fprintf(w, "%04X: ", start+uint16(off))
		for i := 0; i < 16; i++ {
			if i < len(row) {
				fmt.Fprintf(w, "%02X ", row[i])
			} else {
				fmt.Fprint(w, "   ")
			}
			if i == 7 {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprintf(w, "|%s|\n", printable(row))
	}
}

func printable(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c < 0x20 || c > 0x7E {
			c = '.'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
