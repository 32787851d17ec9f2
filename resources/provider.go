package resources

// Kind classifies an asset by how the engine consumes it.
type Kind int

const (
	KindUnknown Kind = iota
	KindMesh
	KindMaterial
	KindShader
	KindTexture
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindMaterial:
		return "material"
	case KindShader:
		return "shader"
	case KindTexture:
		return "texture"
	case KindAudio:
		return "audio"
	default:
		return "unknown"
	}
}

// Provider resolves asset names to handles. A miss is not an error.
type Provider interface {
	TryGetMesh(name string) (*Handle, bool)
	TryGetMaterial(name string) (*Handle, bool)
	TryGetShader(name string) (*Handle, bool)
	TryGetTexture(name string) (*Handle, bool)
	TryGetAudio(name string) (*Handle, bool)
}

// Empty resolves nothing.
type Empty struct{}

func (Empty) TryGetMesh(string) (*Handle, bool)     { return nil, false }
func (Empty) TryGetMaterial(string) (*Handle, bool) { return nil, false }
func (Empty) TryGetShader(string) (*Handle, bool)   { return nil, false }
func (Empty) TryGetTexture(string) (*Handle, bool)  { return nil, false }
func (Empty) TryGetAudio(string) (*Handle, bool)    { return nil, false }
