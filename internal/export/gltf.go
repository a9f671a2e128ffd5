package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/spritemesh/internal/build"
	"github.com/Faultbox/spritemesh/internal/collider"
	"github.com/Faultbox/spritemesh/internal/mesh"
	"github.com/Faultbox/spritemesh/internal/sprite"
)

// Document builds a glTF document with the render mesh as the root node and
// the collider as its child. Collider metadata is stored in node extras.
// Auto-generated materials embed the source texture as PNG.
func Document(name string, in build.Installed, opts Options) (*gltf.Document, error) {
	doc := gltf.NewDocument()

	material, err := writeMaterial(doc, in.Material)
	if err != nil {
		return nil, err
	}
	meshIndex := writeMesh(doc, name, in.Mesh, material)

	root := &gltf.Node{
		Name: name,
		Mesh: gltf.Index(meshIndex),
	}
	doc.Nodes = append(doc.Nodes, root)
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if in.Collider != nil {
		node := &gltf.Node{
			Name:   name + "_collider",
			Extras: colliderExtras(in.Collider, in.RigidBody),
		}
		if opts.Colliders {
			if idx, ok := writeCollider(doc, name, in.Collider); ok {
				node.Mesh = gltf.Index(idx)
			}
		}
		root.Children = append(root.Children, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, node)
	}

	return doc, nil
}

// WriteGLB encodes doc as binary glTF.
func WriteGLB(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}

func saveDocument(doc *gltf.Document, path string, binary bool) error {
	if binary {
		return gltf.SaveBinary(doc, path)
	}
	for _, b := range doc.Buffers {
		b.EmbeddedResource()
	}
	return gltf.Save(doc, path)
}

// writeMesh stores vertex attributes once and one primitive per island.
func writeMesh(doc *gltf.Document, name string, m *mesh.Mesh, material *uint32) uint32 {
	positions := make([][3]float32, len(m.Vertices))
	normals := make([][3]float32, len(m.Vertices))
	uvs := make([][2]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		// glTF puts the texture origin at the top left.
		uvs[i] = [2]float32{v.TexCoord[0], 1 - v.TexCoord[1]}
	}

	attributes := map[string]uint32{
		"POSITION":   modeler.WritePosition(doc, positions),
		"NORMAL":     modeler.WriteNormal(doc, normals),
		"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
	}

	groups := m.Groups
	if len(groups) == 0 {
		groups = []mesh.Group{{IndexCount: int32(len(m.Indices))}}
	}

	gm := &gltf.Mesh{Name: name}
	for _, g := range groups {
		indices := m.Indices[g.StartIndex : g.StartIndex+g.IndexCount]
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: attributes,
			Material:   material,
		})
	}

	doc.Meshes = append(doc.Meshes, gm)
	return uint32(len(doc.Meshes) - 1)
}

// writeMaterial adds the render material.
func writeMaterial(doc *gltf.Document, mat *build.Material) (*uint32, error) {
	if mat == nil {
		return nil, nil
	}

	gm := &gltf.Material{
		Name:      mat.Name,
		AlphaMode: gltf.AlphaMask,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicFactor: gltf.Float(0),
		},
	}
	if mat.Auto && mat.Texture != "" {
		texture, err := writeTexture(doc, mat)
		if err != nil {
			return nil, fmt.Errorf("embedding texture %s: %w", mat.Texture, err)
		}
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: texture}
	}

	doc.Materials = append(doc.Materials, gm)
	return gltf.Index(uint32(len(doc.Materials) - 1)), nil
}

// writeTexture stores the source picture in the document's buffer, so the
// file does not depend on where the sprite lives.
func writeTexture(doc *gltf.Document, mat *build.Material) (uint32, error) {
	img, err := sprite.Decode(mat.Texture, mat.Frame)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return 0, err
	}
	imageIndex, err := modeler.WriteImage(doc, mat.Name+"_image", "image/png", &buf)
	if err != nil {
		return 0, err
	}
	doc.Textures = append(doc.Textures, &gltf.Texture{
		Name:   mat.Name,
		Source: gltf.Index(imageIndex),
	})
	return uint32(len(doc.Textures) - 1), nil
}

// writeCollider adds collider geometry: box wireframes as a line primitive,
// or the exact collision mesh as triangles.
func writeCollider(doc *gltf.Document, name string, c *collider.Spec) (uint32, bool) {
	gm := &gltf.Mesh{Name: name + "_collider"}

	switch {
	case len(c.Boxes) > 0:
		lines := c.Wireframes()
		points := make([][3]float32, len(lines)/3)
		for i := range points {
			points[i] = [3]float32{lines[3*i], lines[3*i+1], lines[3*i+2]}
		}
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: map[string]uint32{"POSITION": modeler.WritePosition(doc, points)},
			Mode:       gltf.PrimitiveLines,
		})
	case c.Mesh != nil:
		positions := make([][3]float32, len(c.Mesh.Vertices))
		for i, v := range c.Mesh.Vertices {
			positions[i] = v.Position
		}
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Indices:    gltf.Index(modeler.WriteIndices(doc, c.Mesh.Indices)),
			Attributes: map[string]uint32{"POSITION": modeler.WritePosition(doc, positions)},
		})
	default:
		return 0, false
	}

	doc.Meshes = append(doc.Meshes, gm)
	return uint32(len(doc.Meshes) - 1), true
}

func colliderExtras(c *collider.Spec, rigidBody bool) map[string]any {
	extras := map[string]any{
		"kind":       c.Kind.String(),
		"trigger":    c.Trigger,
		"rigid_body": rigidBody,
	}
	if c.PhysicMaterial != "" {
		extras["physic_material"] = c.PhysicMaterial
	}
	if len(c.Boxes) > 0 {
		boxes := make([]map[string]any, len(c.Boxes))
		for i, b := range c.Boxes {
			boxes[i] = map[string]any{"center": b.Center, "size": b.Size}
		}
		extras["boxes"] = boxes
	}
	return extras
}
