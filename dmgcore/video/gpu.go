package video

import (
	"github.com/example/dmgcore/addr"
	"github.com/example/dmgcore/bit"
	"github.com/example/dmgcore/memory"
)

// Mode is one of the four PPU states named in STAT bits 0-1.
type Mode uint8

const (
	ModeHBlank Mode = iota
	ModeVBlank
	ModeOAMSearch
	ModeTransfer
)

const (
	oamSearchDots = 80
	transferDots  = 172
	hblankDots    = 204
	dotsPerLine   = oamSearchDots + transferDots + hblankDots // 456
	visibleLines  = 144
	totalLines    = 154
)

const (
	statLYCIRQ     uint8 = 6
	statOAMIRQ     uint8 = 5
	statVBlankIRQ  uint8 = 4
	statHBlankIRQ  uint8 = 3
	statCoincident uint8 = 2
)

const (
	lcdcEnable         uint8 = 7
	lcdcWindowTileMap  uint8 = 6
	lcdcWindowEnable   uint8 = 5
	lcdcTileDataSelect uint8 = 4
	lcdcBGTileMap      uint8 = 3
	lcdcObjSize        uint8 = 2
	lcdcObjEnable      uint8 = 1
	lcdcBGEnable       uint8 = 0
)

// GPU implements the pixel pipeline: it owns no pixel state of its own
// beyond the framebuffer and scanline bookkeeping, reading and writing
// everything else (LCDC/STAT/SCX/SCY/LY/LYC/palettes, VRAM, OAM) through
// the bus, exactly as the CPU would.
type GPU struct {
	bus    *memory.Bus
	buffer *Framebuffer

	line   int
	lineDot int
	mode   Mode

	windowLine int // internal window line counter, independent of LY

	sprites spritePriorityBuffer

	FrameComplete bool
}

// New returns a GPU wired to bus with a cleared framebuffer, starting in OAM
// search on line 0 as real hardware does at power-on.
func New(bus *memory.Bus) *GPU {
	g := &GPU{bus: bus, buffer: NewFramebuffer()}
	g.setMode(ModeOAMSearch)
	return g
}

// Framebuffer returns the most recently completed frame's pixel buffer.
func (g *GPU) Framebuffer() *Framebuffer { return g.buffer }

func (g *GPU) lcdc() uint8 { return g.bus.Read(addr.LCDC) }

func (g *GPU) lcdcBit(flag uint8) bool { return bit.IsSet(flag, g.lcdc()) }

// Tick advances the pixel pipeline by the given number of T-cycles (dots).
func (g *GPU) Tick(cycles int) {
	if !g.lcdcBit(lcdcEnable) {
		return
	}
	for i := 0; i < cycles; i++ {
		g.tickOne()
	}
}

func (g *GPU) tickOne() {
	g.lineDot++

	switch {
	case g.line < visibleLines && g.lineDot == oamSearchDots:
		g.setMode(ModeTransfer)
	case g.line < visibleLines && g.lineDot == oamSearchDots+transferDots:
		// entering HBlank: the scanline's pixels are now fully resolved.
		g.setMode(ModeHBlank)
		g.drawScanline(g.line)
		g.requestStatIRQ(statHBlankIRQ)
	case g.lineDot >= dotsPerLine:
		g.lineDot = 0
		g.advanceLine()
	}
}

func (g *GPU) advanceLine() {
	g.line++
	if g.line == totalLines {
		g.line = 0
		g.windowLine = 0
		g.FrameComplete = true
	}
	g.setLY(g.line)

	switch {
	case g.line == visibleLines:
		g.setMode(ModeVBlank)
		g.bus.RequestInterrupt(addr.VBlank)
		g.requestStatIRQ(statVBlankIRQ)
	case g.line < visibleLines:
		g.setMode(ModeOAMSearch)
		g.requestStatIRQ(statOAMIRQ)
	}
}

func (g *GPU) requestStatIRQ(flag uint8) {
	stat := g.bus.Read(addr.STAT)
	if bit.IsSet(flag, stat) {
		g.bus.RequestInterrupt(addr.LCDStat)
	}
}

func (g *GPU) setMode(mode Mode) {
	g.mode = mode
	stat := g.bus.Read(addr.STAT)
	stat = (stat &^ 0x03) | uint8(mode)
	g.bus.Write(addr.STAT, stat)
}

// setLY writes the LY register and performs the LYC coincidence check,
// requesting the STAT interrupt on a match if it's enabled.
func (g *GPU) setLY(line int) {
	g.bus.Write(addr.LY, uint8(line))

	lyc := g.bus.Read(addr.LYC)
	stat := g.bus.Read(addr.STAT)
	if uint8(line) == lyc {
		stat = bit.Set(statCoincident, stat)
		if bit.IsSet(statLYCIRQ, stat) {
			g.bus.RequestInterrupt(addr.LCDStat)
		}
	} else {
		stat = bit.Reset(statCoincident, stat)
	}
	g.bus.Write(addr.STAT, stat)
}

// drawScanline renders one visible line into the framebuffer: background,
// then window, then sprites, each respecting the priority rules in spec §7.
func (g *GPU) drawScanline(line int) {
	var bgColorIndex [Width]uint8

	if g.lcdcBit(lcdcBGEnable) {
		g.drawBackground(line, &bgColorIndex)
	}
	if g.lcdcBit(lcdcWindowEnable) && g.lcdcBit(lcdcBGEnable) {
		g.drawWindow(line, &bgColorIndex)
	}
	if g.lcdcBit(lcdcObjEnable) {
		g.drawSprites(line, &bgColorIndex)
	}
}

func (g *GPU) unsignedTileAddressing() bool {
	return g.lcdcBit(lcdcTileDataSelect)
}

func (g *GPU) tileMapBase(selectBit uint8) uint16 {
	if g.lcdcBit(selectBit) {
		return addr.TileMap1 - addr.TileData0
	}
	return addr.TileMap0 - addr.TileData0
}

func (g *GPU) drawBackground(line int, colorIndex *[Width]uint8) {
	scy := g.bus.Read(addr.SCY)
	scx := g.bus.Read(addr.SCX)
	bgp := DecodePalette(g.bus.Read(addr.BGP))

	mapBase := g.tileMapBase(lcdcBGTileMap)
	unsigned := g.unsignedTileAddressing()

	y := (uint8(line) + scy)
	tileRow := int(y / 8)
	pixelRow := int(y % 8)

	for x := 0; x < Width; x++ {
		scrolledX := uint8(x) + scx
		tileCol := int(scrolledX / 8)
		pixelCol := int(scrolledX % 8)

		mapOffset := mapBase + uint16(tileRow)*32 + uint16(tileCol)
		tileIndex := g.bus.ReadVRAM(mapOffset)
		tileBase := tileDataAddress(tileIndex, unsigned)

		row := fetchTileRow(g.bus, tileBase, pixelRow, false)
		ci := row[pixelCol]
		colorIndex[x] = ci
		g.buffer.Set(x, line, bgp.Shade(ci))
	}
}

func (g *GPU) drawWindow(line int, colorIndex *[Width]uint8) {
	wy := g.bus.Read(addr.WY)
	wx := int(g.bus.Read(addr.WX)) - 7

	if line < int(wy) {
		return
	}
	if wx >= Width {
		return
	}

	bgp := DecodePalette(g.bus.Read(addr.BGP))
	mapBase := g.tileMapBase(lcdcWindowTileMap)
	unsigned := g.unsignedTileAddressing()

	tileRow := g.windowLine / 8
	pixelRow := g.windowLine % 8
	drewAnything := false

	for x := 0; x < Width; x++ {
		screenX := x - wx
		if screenX < 0 {
			continue
		}
		drewAnything = true

		tileCol := screenX / 8
		pixelCol := screenX % 8

		mapOffset := mapBase + uint16(tileRow)*32 + uint16(tileCol)
		tileIndex := g.bus.ReadVRAM(mapOffset)
		tileBase := tileDataAddress(tileIndex, unsigned)

		row := fetchTileRow(g.bus, tileBase, pixelRow, false)
		ci := row[pixelCol]
		colorIndex[x] = ci
		g.buffer.Set(x, line, bgp.Shade(ci))
	}

	if drewAnything {
		g.windowLine++
	}
}

type spriteAttrs struct {
	y, x   int
	tile   uint8
	flags  uint8
	index  int
}

func (g *GPU) readSprite(index int) spriteAttrs {
	base := addr.OAMStart + uint16(index*4)
	return spriteAttrs{
		y:     int(g.bus.Read(base)) - 16,
		x:     int(g.bus.Read(base+1)) - 8,
		tile:  g.bus.Read(base + 2),
		flags: g.bus.Read(base + 3),
		index: index,
	}
}

func (g *GPU) drawSprites(line int, bgColorIndex *[Width]uint8) {
	height := 8
	if g.lcdcBit(lcdcObjSize) {
		height = 16
	}

	g.sprites.clear()

	visible := make([]spriteAttrs, 0, 10)
	for i := 0; i < 40 && len(visible) < 10; i++ {
		s := g.readSprite(i)
		if line >= s.y && line < s.y+height {
			visible = append(visible, s)
		}
	}

	for _, s := range visible {
		for px := 0; px < 8; px++ {
			screenX := s.x + px
			g.sprites.tryClaimPixel(screenX, s.index, s.x)
		}
	}

	for _, s := range visible {
		yFlip := bit.IsSet(6, s.flags)
		xFlip := bit.IsSet(5, s.flags)
		priorityBehindBG := bit.IsSet(7, s.flags)
		palette := DecodePalette(g.obpRegister(s.flags))

		tileIndex := s.tile
		if height == 16 {
			tileIndex &^= 0x01
		}
		rowInSprite := line - s.y

		row := fetchSpriteRow(g.bus, tileIndex, rowInSprite, height, yFlip)

		for px := 0; px < 8; px++ {
			screenX := s.x + px
			if g.sprites.owner(screenX) != s.index {
				continue
			}
			col := px
			if xFlip {
				col = 7 - px
			}
			ci := row[col]
			if ci == 0 {
				continue // transparent
			}
			if priorityBehindBG && bgColorIndex[screenX] != 0 {
				continue
			}
			g.buffer.Set(screenX, line, palette.Shade(ci))
		}
	}
}

func (g *GPU) obpRegister(flags uint8) uint8 {
	if bit.IsSet(4, flags) {
		return g.bus.Read(addr.OBP1)
	}
	return g.bus.Read(addr.OBP0)
}

// fetchSpriteRow reads one row of an (possibly 8x16) sprite tile.
func fetchSpriteRow(vram vramReader, tileIndex uint8, rowInSprite, height int, yFlip bool) TileRow {
	if yFlip {
		rowInSprite = height - 1 - rowInSprite
	}
	tileBase := uint16(tileIndex) * 16
	row := rowInSprite % 8
	if rowInSprite >= 8 {
		tileBase += 16
	}
	return fetchTileRow(vram, tileBase, row, false)
}
