package manifest

import (
	"path/filepath"
	"strings"
)

// AssetType is the category tag assigned to an asset. It is derived
// from the source file at add time and editable afterward.
type AssetType string

const (
	TypeTexture   AssetType = "texture"
	TypePrefab    AssetType = "prefab"
	TypeScript    AssetType = "script"
	TypeMaterial  AssetType = "material"
	TypeAudio     AssetType = "audio"
	TypeModel     AssetType = "model"
	TypeAnimation AssetType = "animation"
	TypeShader    AssetType = "shader"
	TypeOther     AssetType = "other"
)

// Types lists every known asset type, in display order.
func Types() []AssetType {
	return []AssetType{
		TypeTexture, TypePrefab, TypeScript, TypeMaterial, TypeAudio,
		TypeModel, TypeAnimation, TypeShader, TypeOther,
	}
}

// ParseType returns the matching asset type, or TypeOther for
// anything unrecognized. Matching is case-insensitive.
func ParseType(s string) AssetType {
	for _, t := range Types() {
		if strings.EqualFold(string(t), s) {
			return t
		}
	}
	return TypeOther
}

var extTypes = map[string]AssetType{
	".png": TypeTexture, ".jpg": TypeTexture, ".jpeg": TypeTexture,
	".gif": TypeTexture, ".tga": TypeTexture, ".bmp": TypeTexture,
	".webp": TypeTexture, ".psd": TypeTexture,

	".wav": TypeAudio, ".mp3": TypeAudio, ".ogg": TypeAudio,
	".flac": TypeAudio, ".aiff": TypeAudio,

	".fbx": TypeModel, ".obj": TypeModel, ".gltf": TypeModel,
	".glb": TypeModel, ".blend": TypeModel, ".dae": TypeModel,

	".cs": TypeScript, ".lua": TypeScript, ".js": TypeScript,
	".py": TypeScript, ".gd": TypeScript,

	".mat":    TypeMaterial,
	".prefab": TypePrefab,
	".anim":   TypeAnimation,
	".shader": TypeShader, ".hlsl": TypeShader, ".glsl": TypeShader,
	".compute": TypeShader,
}

// TypeFromFilename derives the asset type from a source file name.
func TypeFromFilename(name string) AssetType {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extTypes[ext]; ok {
		return t
	}
	return TypeOther
}

// IsImage reports whether the type renders as an image, meaning an
// asset of this type can serve as its own thumbnail.
func (t AssetType) IsImage() bool {
	return t == TypeTexture
}
