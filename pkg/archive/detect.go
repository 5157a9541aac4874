package archive

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// ----------------------------
// Detection Functions
// ----------------------------

// IsZipFile checks if a file is a ZIP archive by reading its signature.
func IsZipFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	var signature [4]byte
	if _, err = io.ReadFull(file, signature[:]); err != nil {
		return false
	}
	// ZIP file signature: 0x50 0x4B 0x03 0x04
	return signature == [4]byte{0x50, 0x4B, 0x03, 0x04}
}

// Is7zFile checks if a file is a 7-Zip archive by comparing its header signature.
func Is7zFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	var header [6]byte
	if _, err = io.ReadFull(file, header[:]); err != nil {
		return false
	}
	expected := []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	return bytes.Equal(header[:], expected)
}

// IsGzipFile checks if a file starts with the gzip magic bytes.
func IsGzipFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	var magic [2]byte
	if _, err = io.ReadFull(file, magic[:]); err != nil {
		return false
	}
	return magic == [2]byte{0x1F, 0x8B}
}

// IsTarFile attempts to detect an uncompressed tar archive by checking for
// the "ustar" magic. (Tar files don't always have a unique signature; this
// checks for POSIX tar.)
func IsTarFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	// POSIX tar header has magic "ustar" at offset 257.
	if _, err := file.Seek(257, io.SeekStart); err != nil {
		return false
	}
	buf := make([]byte, 6)
	n, err := file.Read(buf)
	if err != nil || n < 6 {
		return false
	}
	return strings.HasPrefix(string(buf), "ustar")
}
