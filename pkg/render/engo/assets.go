// pkg/render/engo/assets.go
package engo

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/EngoEngine/engo/common"
)

// Glyph names a HUD button sprite
type Glyph int

const (
	GlyphPlus Glyph = iota
	GlyphMinus
	GlyphClose
)

// glyphSize is the edge of every button sprite in pixels
const glyphSize = 12

// AssetManager builds the sprites the HUD draws from pixel patterns
type AssetManager struct {
	glyphs map[Glyph]*image.NRGBA
}

// NewAssetManager creates a new asset manager
func NewAssetManager() *AssetManager {
	return &AssetManager{
		glyphs: make(map[Glyph]*image.NRGBA),
	}
}

// LoadAssets creates the button glyphs
func (am *AssetManager) LoadAssets() error {
	patterns := map[Glyph][][]int{
		GlyphPlus: {
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
			{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 1, 1, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		GlyphMinus: {
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
			{0, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
		GlyphClose: {
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
			{0, 1, 1, 0, 0, 0, 0, 0, 0, 1, 1, 0},
			{0, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 0},
			{0, 0, 1, 1, 1, 0, 0, 1, 1, 1, 0, 0},
			{0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0},
			{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0},
			{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 0},
			{0, 0, 0, 1, 1, 1, 1, 1, 1, 0, 0, 0},
			{0, 0, 1, 1, 1, 0, 0, 1, 1, 1, 0, 0},
			{0, 1, 1, 1, 0, 0, 0, 0, 1, 1, 1, 0},
			{0, 1, 1, 0, 0, 0, 0, 0, 0, 1, 1, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	for g, pattern := range patterns {
		img, err := am.createSprite(glyphSize, glyphSize, pattern)
		if err != nil {
			return fmt.Errorf("glyph %d: %w", g, err)
		}
		am.glyphs[g] = img
	}
	return nil
}

// createSprite creates a white sprite from a 2D pattern
func (am *AssetManager) createSprite(width, height int, pattern [][]int) (*image.NRGBA, error) {
	if len(pattern) != height {
		return nil, fmt.Errorf("pattern has %d rows, want %d", len(pattern), height)
	}
	img := am.createBaseImage(width, height)
	for y, row := range pattern {
		if len(row) != width {
			return nil, fmt.Errorf("pattern row %d has %d columns, want %d", y, len(row), width)
		}
		for x, pixel := range row {
			if pixel == 1 {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return img, nil
}

// createBaseImage creates a transparent image with the specified dimensions.
func (am *AssetManager) createBaseImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.NRGBA{0, 0, 0, 0}}, image.Point{}, draw.Src)
	return img
}

// Glyph returns the sprite for g, or nil before LoadAssets
func (am *AssetManager) Glyph(g Glyph) *image.NRGBA {
	return am.glyphs[g]
}

// convertToEngoTexture uploads an image as an engo drawable. It needs a
// live GL context.
func convertToEngoTexture(img *image.NRGBA) common.Drawable {
	texture := common.NewImageObject(img)
	return common.NewTextureSingle(texture)
}
