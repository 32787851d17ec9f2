package resources

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
)

// Primitive mesh names always resolvable from a Dir.
var Primitives = []string{"sphere", "cube", "plane"}

var kindByExt = map[string]Kind{
	".obj":      KindMesh,
	".mesh":     KindMesh,
	".mat":      KindMaterial,
	".material": KindMaterial,
	".vert":     KindShader,
	".frag":     KindShader,
	".glsl":     KindShader,
	".shader":   KindShader,
	".png":      KindTexture,
	".jpg":      KindTexture,
	".jpeg":     KindTexture,
	".wav":      KindAudio,
}

// KindOf classifies a file path by extension.
func KindOf(p string) Kind {
	return kindByExt[strings.ToLower(path.Ext(p))]
}

// Dir indexes every recognised file under an fs.FS by base name without
// extension. It is the only place assets are enumerated.
type Dir struct {
	fsys    fs.FS
	log     *zap.Logger
	handles map[Kind]map[string]*Handle
}

// NewDir indexes fsys.
func NewDir(fsys fs.FS, log *zap.Logger) (*Dir, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dir{fsys: fsys, log: log}
	if err := d.Reindex(); err != nil {
		return nil, err
	}
	return d, nil
}

// Reindex walks the filesystem again. Handles for files that still exist
// are kept and invalidated so their contents reload on next use.
func (d *Dir) Reindex() error {
	old := d.handles
	d.handles = make(map[Kind]map[string]*Handle)
	for _, name := range Primitives {
		d.put(NewHandle(name, KindMesh, nil))
	}
	if d.fsys == nil {
		return nil
	}

	err := fs.WalkDir(d.fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		kind := KindOf(p)
		if kind == KindUnknown {
			return nil
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if h, ok := old[kind][name]; ok && h.Path == p {
			h.invalidate()
			d.put(h)
			return nil
		}
		if _, dup := d.handles[kind][name]; dup {
			d.log.Warn("duplicate asset name", zap.String("name", name), zap.String("path", p))
			return nil
		}
		d.put(&Handle{Name: name, Kind: kind, Path: p, fsys: d.fsys})
		return nil
	})
	if err != nil {
		return fmt.Errorf("resources: index: %w", err)
	}
	d.log.Debug("assets indexed", zap.Int("count", d.Len()))
	return nil
}

// Invalidate drops cached contents for the asset at p, if indexed.
func (d *Dir) Invalidate(p string) bool {
	kind := KindOf(p)
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	h, ok := d.handles[kind][name]
	if !ok {
		return false
	}
	h.invalidate()
	return true
}

// Len returns the number of indexed handles, primitives included.
func (d *Dir) Len() int {
	n := 0
	for _, m := range d.handles {
		n += len(m)
	}
	return n
}

// Names returns the indexed names of kind.
func (d *Dir) Names(kind Kind) []string {
	out := make([]string, 0, len(d.handles[kind]))
	for name := range d.handles[kind] {
		out = append(out, name)
	}
	return out
}

func (d *Dir) put(h *Handle) {
	m, ok := d.handles[h.Kind]
	if !ok {
		m = make(map[string]*Handle)
		d.handles[h.Kind] = m
	}
	m[h.Name] = h
}

func (d *Dir) get(kind Kind, name string) (*Handle, bool) {
	if d == nil {
		return nil, false
	}
	h, ok := d.handles[kind][name]
	return h, ok
}

func (d *Dir) TryGetMesh(name string) (*Handle, bool)     { return d.get(KindMesh, name) }
func (d *Dir) TryGetMaterial(name string) (*Handle, bool) { return d.get(KindMaterial, name) }
func (d *Dir) TryGetShader(name string) (*Handle, bool)   { return d.get(KindShader, name) }
func (d *Dir) TryGetTexture(name string) (*Handle, bool)  { return d.get(KindTexture, name) }
func (d *Dir) TryGetAudio(name string) (*Handle, bool)    { return d.get(KindAudio, name) }
