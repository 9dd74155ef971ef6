package nested

// ChannelKind is the data category a socket carries.
type ChannelKind int

const (
	// KindStrings is the generic numbers/strings channel.
	KindStrings ChannelKind = iota
	// KindVertices carries 3D points.
	KindVertices
	// KindMatrices carries 4x4 transforms.
	KindMatrices
	// KindObjects carries host object handles.
	KindObjects
	// KindSurfaces carries host surface handles.
	KindSurfaces
)

// Letter is the one-letter tag written next to channel data in JSON dumps.
// Kinds without a letter of their own are written as strings channels.
func (k ChannelKind) Letter() string {
	switch k {
	case KindVertices:
		return "v"
	case KindMatrices:
		return "m"
	}
	return "s"
}

func (k ChannelKind) String() string {
	switch k {
	case KindStrings:
		return "strings"
	case KindVertices:
		return "vertices"
	case KindMatrices:
		return "matrices"
	case KindObjects:
		return "objects"
	case KindSurfaces:
		return "surfaces"
	}
	return "unknown"
}

// ParseKind is the inverse of String. Unknown names map to KindStrings.
func ParseKind(name string) ChannelKind {
	switch name {
	case "vertices", "v":
		return KindVertices
	case "matrices", "m":
		return KindMatrices
	case "objects":
		return KindObjects
	case "surfaces":
		return KindSurfaces
	}
	return KindStrings
}
