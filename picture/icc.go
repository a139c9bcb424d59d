package picture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/vimeo/go-iccjpeg/iccjpeg"
)

const (
	iccMarkerTag     = "ICC_PROFILE\x00"
	iccHeaderLen     = 14    // tag + seq + count
	maxChunkDataSize = 65519 // 65535 - 2 (length) - 14 (header)
	maxChunks        = 255

	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
	markerAPP2 = 0xE2
)

// ErrNotJPEG is returned when data does not start with a JPEG SOI marker
var ErrNotJPEG = errors.New("not a JPEG file")

// segment is one marker segment from the JPEG header
type segment struct {
	marker     byte
	standalone bool // RSTn/TEM carry no length field
	payload    []byte
}

func (s segment) isICC() bool {
	return s.marker == markerAPP2 && len(s.payload) >= iccHeaderLen &&
		string(s.payload[:len(iccMarkerTag)]) == iccMarkerTag
}

// readHeaderSegments returns the marker segments between SOI and the first
// SOS (or EOI), plus the offset of that SOS/EOI marker in data.
func readHeaderSegments(data []byte) ([]segment, int, error) {
	if len(data) < 2 || data[0] != 0xFF || data[1] != markerSOI {
		return nil, 0, ErrNotJPEG
	}

	var segments []segment
	pos := 2
	for {
		if pos >= len(data) {
			return nil, 0, errors.New("unexpected end of JPEG header")
		}
		if data[pos] != 0xFF {
			return nil, 0, fmt.Errorf("expected marker at offset %d, found 0x%02X", pos, data[pos])
		}

		start := pos
		for pos < len(data) && data[pos] == 0xFF {
			pos++
		}
		if pos >= len(data) {
			return nil, 0, errors.New("unexpected end of JPEG header")
		}

		marker := data[pos]
		pos++

		switch {
		case marker == markerSOS || marker == markerEOI:
			return segments, start, nil
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			segments = append(segments, segment{marker: marker, standalone: true})
			continue
		}

		if pos+2 > len(data) {
			return nil, 0, fmt.Errorf("truncated length for marker 0x%02X", marker)
		}
		length := int(data[pos])<<8 | int(data[pos+1])
		if length < 2 || pos+length > len(data) {
			return nil, 0, fmt.Errorf("invalid length %d for marker 0x%02X at offset %d", length, marker, start)
		}

		segments = append(segments, segment{marker: marker, payload: data[pos+2 : pos+length]})
		pos += length
	}
}

func writeSegment(buf *bytes.Buffer, s segment) {
	buf.WriteByte(0xFF)
	buf.WriteByte(s.marker)
	if s.standalone {
		return
	}
	length := len(s.payload) + 2
	buf.WriteByte(byte(length >> 8))
	buf.WriteByte(byte(length))
	buf.Write(s.payload)
}

// ChunkICC splits an ICC profile into APP2 marker payloads
func ChunkICC(profile []byte) ([][]byte, error) {
	if len(profile) == 0 {
		return nil, errors.New("empty ICC profile")
	}

	numChunks := (len(profile) + maxChunkDataSize - 1) / maxChunkDataSize
	if numChunks > maxChunks {
		return nil, fmt.Errorf("ICC profile too large: needs %d chunks (max %d)", numChunks, maxChunks)
	}

	chunks := make([][]byte, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		start := i * maxChunkDataSize
		end := min(start+maxChunkDataSize, len(profile))

		chunk := make([]byte, 0, iccHeaderLen+end-start)
		chunk = append(chunk, iccMarkerTag...)
		chunk = append(chunk, byte(i+1), byte(numChunks))
		chunk = append(chunk, profile[start:end]...)
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// ReadICCProfile returns the ICC profile embedded in JPEG data, or nil if
// the image carries none
func ReadICCProfile(data []byte) ([]byte, error) {
	segments, _, err := readHeaderSegments(data)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(segments, segment.isICC) {
		return nil, nil
	}

	profile, err := iccjpeg.GetICCBuf(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading ICC profile: %w", err)
	}
	return profile, nil
}

// ReadICCProfileFile reads the ICC profile of the JPEG file at path
func ReadICCProfileFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ReadICCProfile(data)
}

// EmbedICCProfile returns a copy of jpegData carrying profile. The APP2
// chunks are placed after any leading APP0/APP1 segments, and ICC chunks
// already present are dropped. Pixel data is copied unchanged.
func EmbedICCProfile(jpegData, profile []byte) ([]byte, error) {
	segments, scanStart, err := readHeaderSegments(jpegData)
	if err != nil {
		return nil, err
	}

	chunks, err := ChunkICC(profile)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(jpegData) + len(profile) + len(chunks)*(iccHeaderLen+4))
	buf.Write([]byte{0xFF, markerSOI})

	i := 0
	for ; i < len(segments) && (segments[i].marker == markerAPP0 || segments[i].marker == markerAPP1); i++ {
		writeSegment(&buf, segments[i])
	}
	for _, c := range chunks {
		writeSegment(&buf, segment{marker: markerAPP2, payload: c})
	}
	for ; i < len(segments); i++ {
		if segments[i].isICC() {
			continue
		}
		writeSegment(&buf, segments[i])
	}

	buf.Write(jpegData[scanStart:])
	return buf.Bytes(), nil
}
