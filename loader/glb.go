package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/richinsley/goglass/mesh"
)

// Binary glTF layout. Reference:
// https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbChunkBIN  = 0x004E4942 // "BIN\0"

	glbHeaderSize      = 12
	glbChunkHeaderSize = 8

	componentUnsignedByte  = 5121
	componentUnsignedShort = 5123
	componentUnsignedInt   = 5125
	componentFloat         = 5126

	modeTriangles = 4

	dracoExtension = "KHR_draco_mesh_compression"
)

var (
	ErrInvalidMagic     = errors.New("invalid GLB magic number")
	ErrInvalidVersion   = errors.New("unsupported GLB version")
	ErrMissingJSON      = errors.New("GLB file missing JSON chunk")
	ErrNoMesh           = errors.New("glTF document contains no mesh primitives")
	ErrChunkTooLarge    = errors.New("GLB chunk exceeds the declared file length")
	ErrAccessorBounds   = errors.New("accessor out of bounds")
	ErrDracoUnsupported = errors.New("draco compressed meshes are not supported; export the model without compression")
)

type glbHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

type glbChunkHeader struct {
	Length uint32
	Type   uint32
}

type gltfDocument struct {
	Asset struct {
		Version string `json:"version"`
	} `json:"asset"`
	ExtensionsRequired []string         `json:"extensionsRequired"`
	Meshes             []gltfMesh       `json:"meshes"`
	Accessors          []gltfAccessor   `json:"accessors"`
	BufferViews        []gltfBufferView `json:"bufferViews"`
	Buffers            []gltfBuffer     `json:"buffers"`
}

type gltfMesh struct {
	Name       string          `json:"name"`
	Primitives []gltfPrimitive `json:"primitives"`
}

type gltfPrimitive struct {
	Attributes map[string]int             `json:"attributes"`
	Indices    *int                       `json:"indices"`
	Mode       *int                       `json:"mode"`
	Extensions map[string]json.RawMessage `json:"extensions"`
}

type gltfAccessor struct {
	BufferView    *int   `json:"bufferView"`
	ByteOffset    int    `json:"byteOffset"`
	ComponentType int    `json:"componentType"`
	Count         int    `json:"count"`
	Type          string `json:"type"`
}

type gltfBufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
	ByteStride int `json:"byteStride"`
}

type gltfBuffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri"`
}

// LoadGLB reads the first mesh primitive of a binary glTF file.
func LoadGLB(path string) (*mesh.Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer f.Close()

	g, err := ParseGLB(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ParseGLB decodes a GLB stream and returns the geometry of its first mesh
// primitive. Buffers must live in the embedded BIN chunk.
func ParseGLB(r io.Reader) (*mesh.Geometry, error) {
	var header glbHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != glbMagic {
		return nil, ErrInvalidMagic
	}
	if header.Version != glbVersion {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVersion, header.Version)
	}

	if header.Length < glbHeaderSize {
		return nil, fmt.Errorf("GLB length %d is shorter than its header", header.Length)
	}
	remaining := int64(header.Length) - glbHeaderSize

	var jsonData, binData []byte
	for remaining > 0 {
		var ch glbChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &ch); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}
		remaining -= glbChunkHeaderSize
		if int64(ch.Length) > remaining {
			return nil, fmt.Errorf("%w: chunk of %d bytes, %d left", ErrChunkTooLarge, ch.Length, max(remaining, 0))
		}
		remaining -= int64(ch.Length)
		data := make([]byte, ch.Length)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		switch ch.Type {
		case glbChunkJSON:
			jsonData = data
		case glbChunkBIN:
			binData = data
		}
	}
	if jsonData == nil {
		return nil, ErrMissingJSON
	}

	var doc gltfDocument
	if err := json.Unmarshal(bytes.TrimRight(jsonData, " \x00"), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, fmt.Errorf("unsupported glTF version %q", doc.Asset.Version)
	}
	if slices.Contains(doc.ExtensionsRequired, dracoExtension) {
		return nil, ErrDracoUnsupported
	}
	for i, b := range doc.Buffers {
		if b.URI != "" {
			return nil, fmt.Errorf("buffer %d references external uri %q", i, b.URI)
		}
	}

	p := &glbReader{doc: &doc, bin: binData}
	return p.firstPrimitive()
}

type glbReader struct {
	doc *gltfDocument
	bin []byte
}

func (p *glbReader) firstPrimitive() (*mesh.Geometry, error) {
	if len(p.doc.Meshes) == 0 || len(p.doc.Meshes[0].Primitives) == 0 {
		return nil, ErrNoMesh
	}
	prim := p.doc.Meshes[0].Primitives[0]
	if _, ok := prim.Extensions[dracoExtension]; ok {
		return nil, ErrDracoUnsupported
	}
	if prim.Mode != nil && *prim.Mode != modeTriangles {
		return nil, fmt.Errorf("unsupported primitive mode %d", *prim.Mode)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, errors.New("primitive has no POSITION attribute")
	}
	positions, err := p.readFloats(posIdx, "VEC3", 3)
	if err != nil {
		return nil, fmt.Errorf("POSITION: %w", err)
	}
	n := len(positions) / 3

	g := &mesh.Geometry{Positions: positions}

	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		if g.UVs, err = p.readFloats(idx, "VEC2", 2); err != nil {
			return nil, fmt.Errorf("TEXCOORD_0: %w", err)
		}
	} else {
		g.UVs = make([]float32, n*2)
	}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		if g.Normals, err = p.readFloats(idx, "VEC3", 3); err != nil {
			return nil, fmt.Errorf("NORMAL: %w", err)
		}
	}

	if prim.Indices != nil {
		if g.Indices, err = p.readIndices(*prim.Indices); err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		g.Indices = make([]uint32, n)
		for i := range g.Indices {
			g.Indices[i] = uint32(i)
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// view returns the accessor, the bytes its buffer view exposes starting at
// the accessor offset, and the element stride.
func (p *glbReader) view(index, elemSize int) (*gltfAccessor, []byte, int, error) {
	if index < 0 || index >= len(p.doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor %d out of range", index)
	}
	acc := &p.doc.Accessors[index]
	if acc.BufferView == nil {
		return nil, nil, 0, fmt.Errorf("accessor %d has no buffer view", index)
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(p.doc.BufferViews) {
		return nil, nil, 0, fmt.Errorf("buffer view %d out of range", *acc.BufferView)
	}
	bv := p.doc.BufferViews[*acc.BufferView]
	if bv.Buffer != 0 {
		return nil, nil, 0, fmt.Errorf("buffer %d is not the embedded BIN chunk", bv.Buffer)
	}
	if bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteOffset > len(p.bin) || bv.ByteLength > len(p.bin)-bv.ByteOffset {
		return nil, nil, 0, fmt.Errorf("buffer view %d exceeds BIN chunk", *acc.BufferView)
	}
	stride := elemSize
	if bv.ByteStride > 0 {
		stride = bv.ByteStride
	}
	if bv.ByteStride < 0 {
		return nil, nil, 0, fmt.Errorf("buffer view %d has negative stride", *acc.BufferView)
	}
	data := p.bin[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	if acc.ByteOffset < 0 || acc.ByteOffset > len(data) {
		return nil, nil, 0, fmt.Errorf("accessor %d offset out of range", index)
	}
	data = data[acc.ByteOffset:]
	if acc.Count < 0 {
		return nil, nil, 0, fmt.Errorf("%w: accessor %d has count %d", ErrAccessorBounds, index, acc.Count)
	}
	// (Count-1)*stride+elemSize <= len(data), without overflowing.
	if acc.Count > 0 && (len(data) < elemSize || acc.Count > (len(data)-elemSize)/stride+1) {
		return nil, nil, 0, fmt.Errorf("%w: accessor %d reads past its buffer view", ErrAccessorBounds, index)
	}
	return acc, data, stride, nil
}

func (p *glbReader) readFloats(index int, wantType string, comps int) ([]float32, error) {
	if index < 0 || index >= len(p.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	if a := p.doc.Accessors[index]; a.Type != wantType || a.ComponentType != componentFloat {
		return nil, fmt.Errorf("accessor %d is %s/%d, want %s float", index, a.Type, a.ComponentType, wantType)
	}
	acc, data, stride, err := p.view(index, comps*4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, acc.Count*comps)
	for i := 0; i < acc.Count; i++ {
		base := i * stride
		for c := 0; c < comps; c++ {
			bits := binary.LittleEndian.Uint32(data[base+c*4:])
			out = append(out, math.Float32frombits(bits))
		}
	}
	return out, nil
}

func (p *glbReader) readIndices(index int) ([]uint32, error) {
	if index < 0 || index >= len(p.doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	var size int
	switch p.doc.Accessors[index].ComponentType {
	case componentUnsignedByte:
		size = 1
	case componentUnsignedShort:
		size = 2
	case componentUnsignedInt:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index component type %d", p.doc.Accessors[index].ComponentType)
	}
	acc, data, stride, err := p.view(index, size)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, acc.Count)
	for i := range out {
		off := i * stride
		switch size {
		case 1:
			out[i] = uint32(data[off])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[i] = binary.LittleEndian.Uint32(data[off:])
		}
	}
	return out, nil
}
