package resources

import (
	"bytes"
	"fmt"
	"io/fs"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// Handle is a named asset. Contents are read from the backing filesystem on
// first use and cached until the handle is invalidated.
type Handle struct {
	Name string
	Kind Kind
	Path string

	fsys    fs.FS
	data    []byte
	clip    *beep.Buffer
	format  beep.Format
	version int
}

// NewHandle returns a handle with fixed contents and no backing file.
func NewHandle(name string, kind Kind, data []byte) *Handle {
	return &Handle{Name: name, Kind: kind, data: data}
}

// Builtin reports whether h names a primitive the engine generates itself.
func (h *Handle) Builtin() bool {
	return h != nil && h.fsys == nil && h.Path == ""
}

// Version increases each time the handle is invalidated.
func (h *Handle) Version() int {
	if h == nil {
		return 0
	}
	return h.version
}

// Bytes returns the raw file contents.
func (h *Handle) Bytes() ([]byte, error) {
	if h == nil {
		return nil, fmt.Errorf("resources: nil handle")
	}
	if h.data != nil || h.fsys == nil {
		return h.data, nil
	}
	data, err := fs.ReadFile(h.fsys, h.Path)
	if err != nil {
		return nil, fmt.Errorf("resources: read %s: %w", h.Path, err)
	}
	h.data = data
	return data, nil
}

// Clip decodes an audio handle into memory once and returns the buffer.
func (h *Handle) Clip() (*beep.Buffer, beep.Format, error) {
	if h == nil || h.Kind != KindAudio {
		return nil, beep.Format{}, fmt.Errorf("resources: not an audio handle")
	}
	if h.clip != nil {
		return h.clip, h.format, nil
	}
	data, err := h.Bytes()
	if err != nil {
		return nil, beep.Format{}, err
	}
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("resources: decode %s: %w", h.Name, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	h.clip = buf
	h.format = format
	return buf, format, nil
}

func (h *Handle) invalidate() {
	if h.fsys == nil {
		return
	}
	h.data = nil
	h.clip = nil
	h.version++
}
