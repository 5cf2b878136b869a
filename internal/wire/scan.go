// Package wire provides a minimal forward-only scanner for extracting the
// top-level type discriminator from a JSON event payload.
//
// The scanner deliberately avoids a full structural parse: classification
// must stay cheap and must keep working when the payload body around the
// discriminator is unknown or malformed.
package wire

import "encoding/json"

// ScanType returns the value of the top-level "type" string field of the
// JSON object in payload. It returns "" when the payload is not an object,
// the field is absent, or the field value is not a string.
func ScanType(payload string) string {
	s := scanner{in: payload}
	s.skipSpace()
	if !s.consume('{') {
		return ""
	}
	for {
		s.skipSpace()
		if s.consume('}') {
			return ""
		}
		key, ok := s.readString()
		if !ok {
			return ""
		}
		s.skipSpace()
		if !s.consume(':') {
			return ""
		}
		s.skipSpace()
		if key == "type" {
			val, ok := s.readString()
			if !ok {
				// Discriminator present but not a string.
				return ""
			}
			return val
		}
		if !s.skipValue() {
			return ""
		}
		s.skipSpace()
		if s.consume(',') {
			continue
		}
		return ""
	}
}

type scanner struct {
	in  string
	pos int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.in)
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.in[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// consume advances past c when it is the next byte.
func (s *scanner) consume(c byte) bool {
	if s.eof() || s.in[s.pos] != c {
		return false
	}
	s.pos++
	return true
}

// readString reads a JSON string literal and returns its decoded value.
func (s *scanner) readString() (string, bool) {
	raw, ok := s.readRawString()
	if !ok {
		return "", false
	}
	// Fast path: no escapes, the quoted content is the value.
	body := raw[1 : len(raw)-1]
	escaped := false
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			escaped = true
			break
		}
	}
	if !escaped {
		return body, true
	}
	var out string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", false
	}
	return out, true
}

// readRawString scans a string literal including the surrounding quotes,
// honoring backslash escapes.
func (s *scanner) readRawString() (string, bool) {
	start := s.pos
	if !s.consume('"') {
		return "", false
	}
	for !s.eof() {
		switch s.in[s.pos] {
		case '\\':
			s.pos++
			if s.eof() {
				return "", false
			}
			s.pos++
		case '"':
			s.pos++
			return s.in[start:s.pos], true
		default:
			s.pos++
		}
	}
	return "", false
}

// skipValue advances past one JSON value of any kind.
func (s *scanner) skipValue() bool {
	if s.eof() {
		return false
	}
	switch s.in[s.pos] {
	case '"':
		_, ok := s.readRawString()
		return ok
	case '{', '[':
		return s.skipComposite()
	default:
		return s.skipScalar()
	}
}

// skipComposite walks a nested object or array by bracket depth, skipping
// over string literals so brackets inside them do not count.
func (s *scanner) skipComposite() bool {
	depth := 0
	for !s.eof() {
		switch s.in[s.pos] {
		case '{', '[':
			depth++
			s.pos++
		case '}', ']':
			depth--
			s.pos++
			if depth == 0 {
				return true
			}
		case '"':
			if _, ok := s.readRawString(); !ok {
				return false
			}
		default:
			s.pos++
		}
	}
	return false
}

// skipScalar consumes a number, boolean or null up to the next delimiter.
func (s *scanner) skipScalar() bool {
	start := s.pos
	for !s.eof() {
		switch s.in[s.pos] {
		case ',', '}', ']', ' ', '\t', '\n', '\r':
			return s.pos > start
		default:
			s.pos++
		}
	}
	return s.pos > start
}
