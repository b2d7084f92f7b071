package contour

import "image/color"

// SixelImage is a decoded Sixel stream as RGBA pixels.
type SixelImage struct {
	Width       uint32
	Height      uint32
	Data        []byte // RGBA pixel data
	Transparent bool   // Whether the background stayed transparent
}

// sixelDecoder walks a Sixel byte stream, painting six-pixel columns into a
// sparse pixel map until the full extent is known.
type sixelDecoder struct {
	palette     [256]color.RGBA
	colorIndex  int
	x, y        int
	maxX, maxY  int
	pixels      map[int]map[int]color.RGBA
	transparent bool
}

// ParseSixel decodes a Sixel stream into an RGBA image.
// params are the DCS header parameters (P1;P2;P3); data is everything after
// the final 'q'.
func ParseSixel(params [][]uint16, data []byte) *SixelImage {
	d := &sixelDecoder{
		pixels: make(map[int]map[int]color.RGBA),
	}
	d.initDefaultPalette()

	// P2 = 1 keeps the background transparent.
	if len(params) >= 2 && len(params[1]) > 0 && params[1][0] == 1 {
		d.transparent = true
	}

	d.decode(data)
	return d.toImage()
}

// initDefaultPalette sets up the default VGA 16-color palette, with a
// grayscale ramp filling the remaining slots.
func (d *sixelDecoder) initDefaultPalette() {
	vga := []color.RGBA{
		{0, 0, 0, 255},
		{0, 0, 205, 255},
		{205, 0, 0, 255},
		{205, 0, 205, 255},
		{0, 205, 0, 255},
		{0, 205, 205, 255},
		{205, 205, 0, 255},
		{205, 205, 205, 255},
		{0, 0, 0, 255},
		{0, 0, 255, 255},
		{255, 0, 0, 255},
		{255, 0, 255, 255},
		{0, 255, 0, 255},
		{0, 255, 255, 255},
		{255, 255, 0, 255},
		{255, 255, 255, 255},
	}
	copy(d.palette[:], vga)

	for i := 16; i < 256; i++ {
		gray := uint8((i - 16) * 255 / 239)
		d.palette[i] = color.RGBA{gray, gray, gray, 255}
	}
}

func (d *sixelDecoder) decode(data []byte) {
	i := 0
	for i < len(data) {
		b := data[i]
		i++

		switch {
		case b == '$':
			// Graphics carriage return.
			d.x = 0

		case b == '-':
			// Graphics newline: down one six-pixel band.
			d.x = 0
			d.y += 6

		case b == '!':
			// Repeat introducer: !<count><sixel>
			count, next := parseSixelNumber(data, i)
			i = next
			if i < len(data) {
				if s := data[i]; s >= '?' && s <= '~' {
					d.draw(s, count)
				}
				i++
			}

		case b == '#':
			i = d.colorCommand(data, i)

		case b >= '?' && b <= '~':
			d.draw(b, 1)

		case b == '"':
			// Raster attributes; parsed past and otherwise ignored.
			for i < len(data) && (data[i] == ';' || (data[i] >= '0' && data[i] <= '9')) {
				i++
			}
		}
	}
}

// colorCommand handles #<index> selection and #<index>;<type>;v1;v2;v3
// definitions (type 1 = HLS, type 2 = RGB percentages).
func (d *sixelDecoder) colorCommand(data []byte, i int) int {
	index, i := parseSixelNumber(data, i)

	if i < len(data) && data[i] == ';' {
		var vals [4]int
		n := 0
		for n < 4 && i < len(data) && data[i] == ';' {
			vals[n], i = parseSixelNumber(data, i+1)
			n++
		}
		if n == 4 && index >= 0 && index < 256 {
			if vals[0] == 1 {
				d.palette[index] = hlsToRGB(vals[1], vals[2], vals[3])
			} else {
				d.palette[index] = color.RGBA{
					R: uint8(clamp(vals[1], 0, 100) * 255 / 100),
					G: uint8(clamp(vals[2], 0, 100) * 255 / 100),
					B: uint8(clamp(vals[3], 0, 100) * 255 / 100),
					A: 255,
				}
			}
		}
	}

	if index >= 0 && index < 256 {
		d.colorIndex = index
	}
	return i
}

func parseSixelNumber(data []byte, i int) (int, int) {
	n := 0
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		if n < 1<<24 {
			n = n*10 + int(data[i]-'0')
		}
		i++
	}
	return n, i
}

// draw paints one sixel character count times: six vertical pixels encoded in
// the low bits, bit 0 on top.
func (d *sixelDecoder) draw(b byte, count int) {
	if count <= 0 {
		count = 1
	}

	bits := b - '?'
	c := d.palette[d.colorIndex]

	for r := 0; r < count; r++ {
		for bit := 0; bit < 6; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			py := d.y + bit
			if d.pixels[py] == nil {
				d.pixels[py] = make(map[int]color.RGBA)
			}
			d.pixels[py][d.x] = c

			if d.x > d.maxX {
				d.maxX = d.x
			}
			if py > d.maxY {
				d.maxY = py
			}
		}
		d.x++
	}
}

func (d *sixelDecoder) toImage() *SixelImage {
	if len(d.pixels) == 0 {
		return &SixelImage{}
	}

	width := uint32(d.maxX + 1)
	height := uint32(d.maxY + 1)
	data := make([]byte, width*height*4)

	if !d.transparent {
		bg := d.palette[0]
		for i := uint32(0); i < width*height; i++ {
			data[i*4+0] = bg.R
			data[i*4+1] = bg.G
			data[i*4+2] = bg.B
			data[i*4+3] = bg.A
		}
	}

	for y, row := range d.pixels {
		for x, c := range row {
			if x < 0 || x >= int(width) || y < 0 || y >= int(height) {
				continue
			}
			offset := (uint32(y)*width + uint32(x)) * 4
			data[offset+0] = c.R
			data[offset+1] = c.G
			data[offset+2] = c.B
			data[offset+3] = c.A
		}
	}

	return &SixelImage{
		Width:       width,
		Height:      height,
		Data:        data,
		Transparent: d.transparent,
	}
}

// hlsToRGB converts the Sixel HLS color space to RGB. Sixel hue is rotated:
// blue sits at 0 degrees, red at 120, green at 240.
func hlsToRGB(h, l, s int) color.RGBA {
	if s == 0 {
		v := uint8(clamp(l, 0, 100) * 255 / 100)
		return color.RGBA{v, v, v, 255}
	}

	hNorm := float64(h)/360.0 + 2.0/3.0
	if hNorm >= 1.0 {
		hNorm -= 1.0
	}
	lNorm := float64(clamp(l, 0, 100)) / 100.0
	sNorm := float64(clamp(s, 0, 100)) / 100.0

	var q float64
	if lNorm < 0.5 {
		q = lNorm * (1 + sNorm)
	} else {
		q = lNorm + sNorm - lNorm*sNorm
	}
	p := 2*lNorm - q

	return color.RGBA{
		R: uint8(hueToRGB(p, q, hNorm+1.0/3.0) * 255),
		G: uint8(hueToRGB(p, q, hNorm) * 255),
		B: uint8(hueToRGB(p, q, hNorm-1.0/3.0) * 255),
		A: 255,
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}

// SixelReceived decodes a Sixel stream, stores the image, and places it at
// the cursor.
func (t *Terminal) SixelReceived(params [][]uint16, data []byte) {
	if t.middleware != nil && t.middleware.SixelReceived != nil {
		t.middleware.SixelReceived(params, data, t.sixelReceivedInternal)
		return
	}
	t.sixelReceivedInternal(params, data)
}

func (t *Terminal) sixelReceivedInternal(params [][]uint16, data []byte) {
	if !t.sixelEnabled {
		return
	}

	img := ParseSixel(params, data)
	if img.Width == 0 || img.Height == 0 {
		return
	}

	imageID := t.images.Store(img.Width, img.Height, img.Data)

	cellWidth, cellHeight := t.getCellSizePixels()
	cols := int((img.Width + uint32(cellWidth) - 1) / uint32(cellWidth))
	rows := int((img.Height + uint32(cellHeight) - 1) / uint32(cellHeight))

	t.mu.Lock()
	curRow := t.cursor.Row
	curCol := t.cursor.Col
	t.mu.Unlock()

	placement := &ImagePlacement{
		ImageID: imageID,
		Row:     curRow,
		Col:     curCol,
		Cols:    cols,
		Rows:    rows,
		SrcW:    img.Width,
		SrcH:    img.Height,
	}

	placementID := t.images.Place(placement)
	t.assignImageToCells(imageID, placementID, placement, img.Width, img.Height, cellWidth, cellHeight)

	// Sixel output advances the cursor below the image.
	t.mu.Lock()
	t.cursor.Row += rows
	if t.cursor.Row >= t.rows {
		t.cursor.Row = t.rows - 1
	}
	t.mu.Unlock()
}

// assignImageToCells assigns image references to cells covered by a placement.
func (t *Terminal) assignImageToCells(imageID, placementID uint32, p *ImagePlacement, imgW, imgH uint32, cellW, cellH int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for row := 0; row < p.Rows; row++ {
		for col := 0; col < p.Cols; col++ {
			cellRow := p.Row + row
			cellCol := p.Col + col

			if cellRow < 0 || cellRow >= t.rows || cellCol < 0 || cellCol >= t.cols {
				continue
			}

			u0 := float32(col*cellW) / float32(imgW)
			v0 := float32(row*cellH) / float32(imgH)
			u1 := float32((col+1)*cellW) / float32(imgW)
			v1 := float32((row+1)*cellH) / float32(imgH)

			if u1 > 1.0 {
				u1 = 1.0
			}
			if v1 > 1.0 {
				v1 = 1.0
			}

			cell := t.activeBuffer.Cell(cellRow, cellCol)
			if cell != nil {
				cell.Image = &CellImage{
					PlacementID: placementID,
					ImageID:     imageID,
					U0:          u0,
					V0:          v0,
					U1:          u1,
					V1:          v1,
					ZIndex:      p.ZIndex,
				}
				t.activeBuffer.MarkDirty(cellRow, cellCol)
			}
		}
	}
}

// --- Terminal image accessors ---

// Image returns the image data for the given ID, or nil if not found.
func (t *Terminal) Image(id uint32) *ImageData {
	return t.images.Image(id)
}

// ImagePlacements returns all current image placements.
func (t *Terminal) ImagePlacements() []*ImagePlacement {
	return t.images.Placements()
}

// ImageCount returns the number of stored images.
func (t *Terminal) ImageCount() int {
	return t.images.ImageCount()
}

// ImagePlacementCount returns the number of active image placements.
func (t *Terminal) ImagePlacementCount() int {
	return t.images.PlacementCount()
}

// ImageUsedMemory returns the current image memory usage in bytes.
func (t *Terminal) ImageUsedMemory() int64 {
	return t.images.UsedMemory()
}

// SetImageMaxMemory sets the maximum memory budget for images.
func (t *Terminal) SetImageMaxMemory(bytes int64) {
	t.images.SetMaxMemory(bytes)
}

// ClearImages removes all images and placements.
func (t *Terminal) ClearImages() {
	t.images.Clear()
}
