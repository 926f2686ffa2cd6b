package video

// renderLine produces all 160 pixels of the current scanline at once, an
// approximation of the real per-dot pixel FIFO that is explicitly allowed
// by this core's design (accurate enough for whole-frame properties).
func (p *PPU) renderLine() {
	y := int(p.lineY)
	if y >= ScreenHeight {
		return
	}

	var bgColorIndex [ScreenWidth]uint8
	var bgPriority [ScreenWidth]bool

	bgWinEnable := p.lcdc&(1<<lcdcBgWinEnable) != 0

	windowEnabled := p.lcdc&(1<<lcdcWinEnable) != 0 && p.windowLatched
	windowUsedThisLine := false

	for x := 0; x < ScreenWidth; x++ {
		useWindow := windowEnabled && (p.CGB || bgWinEnable) && x+7 >= int(p.wx)

		var colorIdx uint8
		var cgbAttr uint8
		if useWindow {
			windowUsedThisLine = true
			wx := x + 7 - int(p.wx)
			colorIdx, cgbAttr = p.fetchTilePixel(wx, p.winLineCounter, p.lcdc&(1<<lcdcWinTileMap) != 0)
		} else {
			bx := (x + int(p.scx)) & 0xFF
			by := (y + int(p.scy)) & 0xFF
			colorIdx, cgbAttr = p.fetchTilePixel(bx, by, p.lcdc&(1<<lcdcBgTileMap) != 0)
		}

		if !bgWinEnable && !p.CGB {
			colorIdx = 0
		}

		bgColorIndex[x] = colorIdx
		bgPriority[x] = cgbAttr&(1<<attrPriority) != 0 && p.CGB && bgWinEnable

		var color uint16
		if p.CGB {
			color = p.cgbColor(p.bgColorRAM[:], cgbAttr&0x07, colorIdx)
		} else {
			color = dmgShadeToRGB15(paletteShade(p.bgp, colorIdx))
		}
		p.frame.Set(x, y, color)
	}

	if windowUsedThisLine {
		p.winLineCounter++
	}

	if p.lcdc&(1<<lcdcObjEnable) != 0 {
		p.renderSprites(y, bgColorIndex[:], bgPriority[:])
	}
}

// fetchTilePixel resolves the background/window pixel at tile-space
// coordinates (px, py), returning the 2-bit color index and, on CGB, the
// tile's attribute byte from VRAM bank 1.
func (p *PPU) fetchTilePixel(px, py int, highTileMap bool) (uint8, uint8) {
	tileCol := px / 8
	tileRow := py / 8
	mapBase := uint16(0x1800) // 0x9800 - 0x8000
	if highTileMap {
		mapBase = 0x1C00
	}
	mapOffset := mapBase + uint16(tileRow*32+tileCol)

	tileIndex := p.vramByte(0, mapOffset)

	var attr uint8
	var tileBank uint8
	if p.CGB {
		attr = p.vramByte(1, mapOffset)
		tileBank = attr >> attrBank & 1
	}

	row := py % 8
	if p.CGB && attr&(1<<attrYFlip) != 0 {
		row = 7 - row
	}
	col := px % 8
	if p.CGB && attr&(1<<attrXFlip) != 0 {
		col = 7 - col
	}

	addr := tileDataAddress(tileIndex, p.lcdc&(1<<lcdcBgTileData) != 0)
	lo := p.vramByte(tileBank, addr+uint16(row)*2)
	hi := p.vramByte(tileBank, addr+uint16(row)*2+1)

	bit := 7 - col
	colorIdx := (hi>>bit&1)<<1 | lo>>bit&1
	return colorIdx, attr
}

// tileDataAddress resolves a tile index to a VRAM offset per LCDC.BgTileData:
// the 0x8000 method indexes unsigned, the 0x8800 method indexes signed
// relative to 0x9000.
func tileDataAddress(tileIndex uint8, unsignedAddressing bool) uint16 {
	if unsignedAddressing {
		return uint16(tileIndex) * 16
	}
	return uint16(int32(0x1000) + int32(int8(tileIndex))*16)
}

func (p *PPU) renderSprites(y int, bgColorIndex []uint8, bgPriority []bool) {
	tall := p.lcdc&(1<<lcdcObjSize) != 0
	for _, s := range p.sprites {
		rowInSprite := y + 16 - int(s.y)
		if s.attr&(1<<attrYFlip) != 0 {
			height := 8
			if tall {
				height = 16
			}
			rowInSprite = height - 1 - rowInSprite
		}

		tile := s.tile
		if tall {
			tile &^= 1
			if rowInSprite >= 8 {
				tile |= 1
				rowInSprite -= 8
			}
		}

		bank := uint8(0)
		if p.CGB {
			bank = s.attr >> attrBank & 1
		}

		lo := p.vramByte(bank, uint16(tile)*16+uint16(rowInSprite)*2)
		hi := p.vramByte(bank, uint16(tile)*16+uint16(rowInSprite)*2+1)

		for col := 0; col < 8; col++ {
			screenX := int(s.x) - 8 + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}

			bit := col
			if s.attr&(1<<attrXFlip) == 0 {
				bit = 7 - col
			}
			colorIdx := (hi>>bit&1)<<1 | lo>>bit&1
			if colorIdx == 0 {
				continue // transparent
			}

			if p.CGB && bgPriority[screenX] {
				continue
			}
			if s.attr&(1<<attrPriority) != 0 && bgColorIndex[screenX] != 0 {
				continue
			}

			var color uint16
			if p.CGB {
				color = p.cgbColor(p.objColorRAM[:], s.attr&0x07, colorIdx)
			} else {
				pal := p.obp0
				if s.attr&(1<<attrDMGPal) != 0 {
					pal = p.obp1
				}
				color = dmgShadeToRGB15(paletteShade(pal, colorIdx))
			}
			p.frame.Set(screenX, y, color)
		}
	}
}

// paletteShade resolves a 2-bit color index through a DMG palette byte's
// four 2-bit sub-fields.
func paletteShade(palette uint8, colorIndex uint8) uint8 {
	return palette >> (colorIndex * 2) & 0x03
}

// cgbColor looks up a CGB color-RAM entry: 8 palettes of 4 colors, each
// color a little-endian 15-bit {R5,G5,B5} pair.
func (p *PPU) cgbColor(colorRAM []byte, palette uint8, colorIndex uint8) uint16 {
	offset := int(palette)*8 + int(colorIndex)*2
	lo := colorRAM[offset]
	hi := colorRAM[offset+1]
	return uint16(lo) | uint16(hi)<<8
}
