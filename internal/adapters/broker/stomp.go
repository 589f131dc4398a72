package broker

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// The broker speaks STOMP 1.2 over websocket text frames, one STOMP frame
// per websocket message. The subset below covers the client side of that
// contract: CONNECT/SUBSCRIBE/SEND out, CONNECTED/MESSAGE/ERROR in.
const (
	cmdConnect   = "CONNECT"
	cmdConnected = "CONNECTED"
	cmdSubscribe = "SUBSCRIBE"
	cmdSend      = "SEND"
	cmdMessage   = "MESSAGE"
	cmdError     = "ERROR"
)

type frame struct {
	Command string
	Headers map[string]string
	Body    []byte
}

// marshal renders command, headers, blank line, body, NUL terminator.
// Headers are sorted for deterministic output.
func (f frame) marshal() []byte {
	var buf bytes.Buffer
	buf.WriteString(f.Command)
	buf.WriteByte('\n')

	keys := make([]string, 0, len(f.Headers))
	for k := range f.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteByte(':')
		buf.WriteString(f.Headers[k])
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(f.Body)
	buf.WriteByte(0)
	return buf.Bytes()
}

// parseFrame decodes one STOMP frame. A bare newline is a heart-beat and
// comes back as an empty command for the caller to skip.
func parseFrame(data []byte) (frame, error) {
	data = bytes.TrimSuffix(data, []byte{0})
	trimmed := bytes.TrimLeft(data, "\r\n")
	if len(trimmed) == 0 {
		return frame{}, nil
	}

	headerEnd := bytes.Index(trimmed, []byte("\n\n"))
	if headerEnd < 0 {
		return frame{}, fmt.Errorf("malformed stomp frame: missing header terminator")
	}
	lines := strings.Split(string(trimmed[:headerEnd]), "\n")
	f := frame{
		Command: strings.TrimRight(lines[0], "\r"),
		Headers: make(map[string]string, len(lines)-1),
	}
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		idx := strings.Index(line, ":")
		if idx < 0 {
			return frame{}, fmt.Errorf("malformed stomp header: %q", line)
		}
		key := line[:idx]
		if _, seen := f.Headers[key]; !seen {
			f.Headers[key] = line[idx+1:]
		}
	}
	f.Body = trimmed[headerEnd+2:]
	return f, nil
}
