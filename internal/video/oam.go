package video

// spriteEntry is one of the up to 10 sprites selected for the current
// scanline, along with its original OAM index (needed for CGB priority).
type spriteEntry struct {
	y, x, tile, attr uint8
	oamIndex         int
}

func (s spriteEntry) height(tall bool) uint8 {
	if tall {
		return 16
	}
	return 8
}

const (
	attrPriority = 7 // 0 = sprite above bg colors 1-3, 1 = bg colors 1-3 above sprite
	attrYFlip    = 6
	attrXFlip    = 5
	attrDMGPal   = 4
	attrBank     = 3 // CGB VRAM bank
	attrCGBPal   = 0 // bits 0-2
)

// scanOAM selects up to 10 sprites visible on the line about to be drawn,
// iterating all 40 entries in OAM order and stopping once 10 are found.
// DMG orders the result by X ascending for priority; CGB preserves OAM
// order. The buffer is reversed before drawing so the highest-priority
// sprite is written last and wins ties.
func (p *PPU) scanOAM() {
	tall := p.lcdc&(1<<lcdcObjSize) != 0
	height := uint8(8)
	if tall {
		height = 16
	}

	p.sprites = p.sprites[:0]
	targetLine := int(p.lineY) + 16

	for i := 0; i < 40 && len(p.sprites) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		if targetLine < int(y) || targetLine >= int(y)+int(height) {
			continue
		}
		p.sprites = append(p.sprites, spriteEntry{
			y:        y,
			x:        p.oam[base+1],
			tile:     p.oam[base+2],
			attr:     p.oam[base+3],
			oamIndex: i,
		})
	}

	if !p.CGB || !p.opriSpriteOrder {
		// DMG priority (and CGB in DMG-compatibility OPRI mode): sort by X
		// ascending, OAM index as tiebreaker.
		for i := 1; i < len(p.sprites); i++ {
			for j := i; j > 0 && less(p.sprites[j], p.sprites[j-1]); j-- {
				p.sprites[j], p.sprites[j-1] = p.sprites[j-1], p.sprites[j]
			}
		}
	}

	reverseSprites(p.sprites)
}

func less(a, b spriteEntry) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	return a.oamIndex < b.oamIndex
}

func reverseSprites(s []spriteEntry) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
