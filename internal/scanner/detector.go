package scanner

import (
	"bytes"
	"io"
	"os"
)

// RPMMagic starts the lead of every RPM
var RPMMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}

// HasRPMMagic reports whether header starts like an RPM lead
func HasRPMMagic(header []byte) bool {
	return bytes.HasPrefix(header, RPMMagic)
}

// DetectRPM checks the magic bytes of the file at path. The extension is not
// trusted: a ".rpm" file without the lead is not an RPM.
func DetectRPM(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, len(RPMMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, err
	}
	return HasRPMMagic(header), nil
}
