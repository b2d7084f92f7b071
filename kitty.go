package contour

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
)

// KittyAction represents the action letter of a Kitty graphics command.
type KittyAction byte

const (
	KittyActionTransmit        KittyAction = 't' // Transmit image data
	KittyActionTransmitDisplay KittyAction = 'T' // Transmit and display
	KittyActionQuery           KittyAction = 'q' // Query terminal support
	KittyActionDisplay         KittyAction = 'p' // Display (put) image
	KittyActionDelete          KittyAction = 'd' // Delete image(s)
)

// KittyFormat represents the transmitted pixel format.
type KittyFormat uint32

const (
	KittyFormatRGB  KittyFormat = 24  // 24-bit RGB
	KittyFormatRGBA KittyFormat = 32  // 32-bit RGBA (default)
	KittyFormatPNG  KittyFormat = 100 // PNG encoded
)

// KittyDelete represents the delete selector letter.
type KittyDelete byte

const (
	KittyDeleteAll          KittyDelete = 'a' // All visible placements
	KittyDeleteAllWithData  KittyDelete = 'A' // All visible + image data
	KittyDeleteByID         KittyDelete = 'i' // By image ID
	KittyDeleteByIDWithData KittyDelete = 'I' // By image ID + image data
	KittyDeleteAtCursor     KittyDelete = 'c' // At cursor position
	KittyDeleteAtCursorData KittyDelete = 'C' // At cursor + data
	KittyDeleteByCol        KittyDelete = 'x' // By column
	KittyDeleteByColData    KittyDelete = 'X' // By column + data
	KittyDeleteByRow        KittyDelete = 'y' // By row
	KittyDeleteByRowData    KittyDelete = 'Y' // By row + data
	KittyDeleteByZIndex     KittyDelete = 'z' // By z-index
	KittyDeleteByZIndexData KittyDelete = 'Z' // By z-index + data
)

// KittyCommand is a parsed Kitty graphics command.
type KittyCommand struct {
	Action      KittyAction
	Format      KittyFormat
	Compression byte // 'z' for zlib

	ImageID     uint32 // i=
	PlacementID uint32 // p=

	Width  uint32 // s= (source width in pixels)
	Height uint32 // v= (source height in pixels)
	More   bool   // m= (more data chunks coming)

	SrcX, SrcY      uint32 // x=, y= (source region origin)
	SrcW, SrcH      uint32 // w=, h= (source region size)
	Cols, Rows      uint32 // c=, r= (target cell size)
	CellOffsetX     uint32 // X= (x offset within cell)
	CellOffsetY     uint32 // Y= (y offset within cell)
	ZIndex          int32  // z= (z-index for layering)
	DoNotMoveCursor bool   // C= (1 = don't move cursor)

	Delete KittyDelete // d=
	Quiet  uint32      // q= (0=normal, 1=suppress OK, 2=suppress all)

	// Payload data (base64 decoded)
	Payload []byte
}

// ParseKittyGraphics parses a Kitty graphics APC payload: key=value control
// pairs, a semicolon, and base64 payload data.
func ParseKittyGraphics(data []byte) (*KittyCommand, error) {
	cmd := &KittyCommand{
		Action: KittyActionTransmitDisplay,
		Format: KittyFormatRGBA,
	}

	if len(data) > 0 && data[0] == 'G' {
		data = data[1:]
	}

	control := data
	var payload []byte
	if sep := bytes.IndexByte(data, ';'); sep >= 0 {
		control = data[:sep]
		payload = data[sep+1:]
	}

	for _, pair := range bytes.Split(control, []byte{','}) {
		key, value, ok := bytes.Cut(pair, []byte{'='})
		if !ok || len(key) != 1 || len(value) == 0 {
			continue
		}

		switch key[0] {
		case 'a':
			cmd.Action = KittyAction(value[0])
		case 'f':
			cmd.Format = KittyFormat(parseKittyUint(value))
		case 'o':
			cmd.Compression = value[0]
		case 'i':
			cmd.ImageID = parseKittyUint(value)
		case 'p':
			cmd.PlacementID = parseKittyUint(value)
		case 's':
			cmd.Width = parseKittyUint(value)
		case 'v':
			cmd.Height = parseKittyUint(value)
		case 'm':
			cmd.More = value[0] == '1'
		case 'x':
			cmd.SrcX = parseKittyUint(value)
		case 'y':
			cmd.SrcY = parseKittyUint(value)
		case 'w':
			cmd.SrcW = parseKittyUint(value)
		case 'h':
			cmd.SrcH = parseKittyUint(value)
		case 'c':
			cmd.Cols = parseKittyUint(value)
		case 'r':
			cmd.Rows = parseKittyUint(value)
		case 'X':
			cmd.CellOffsetX = parseKittyUint(value)
		case 'Y':
			cmd.CellOffsetY = parseKittyUint(value)
		case 'z':
			if n, err := strconv.ParseInt(string(value), 10, 32); err == nil {
				cmd.ZIndex = int32(n)
			}
		case 'C':
			cmd.DoNotMoveCursor = value[0] == '1'
		case 'd':
			cmd.Delete = KittyDelete(value[0])
		case 'q':
			cmd.Quiet = parseKittyUint(value)
		}
	}

	if len(payload) > 0 {
		decoded, err := base64.StdEncoding.DecodeString(string(payload))
		if err != nil {
			return nil, fmt.Errorf("kitty payload: %w", err)
		}
		cmd.Payload = decoded
	}

	return cmd, nil
}

func parseKittyUint(value []byte) uint32 {
	n, err := strconv.ParseUint(string(value), 10, 32)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// maxKittyImageBytes caps decoded image size.
const maxKittyImageBytes = 128 * 1024 * 1024

// DecodeImageData converts the payload to raw RGBA pixels, applying zlib
// decompression and decoding PNG when indicated.
func (cmd *KittyCommand) DecodeImageData() ([]byte, uint32, uint32, error) {
	payload := cmd.Payload

	if cmd.Compression == 'z' {
		r, err := zlib.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, 0, 0, err
		}
		defer r.Close()
		decompressed, err := io.ReadAll(io.LimitReader(r, maxKittyImageBytes))
		if err != nil {
			return nil, 0, 0, err
		}
		payload = decompressed
	}

	switch cmd.Format {
	case KittyFormatPNG:
		img, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, 0, 0, err
		}
		return imageToRGBA(img)

	case KittyFormatRGB:
		if cmd.Width == 0 || cmd.Height == 0 {
			return nil, 0, 0, errors.New("kitty: rgb transfer requires s= and v=")
		}
		need := int(cmd.Width) * int(cmd.Height) * 3
		if len(payload) < need {
			return nil, 0, 0, errors.New("kitty: short rgb payload")
		}
		rgba := make([]byte, cmd.Width*cmd.Height*4)
		for i := 0; i < int(cmd.Width*cmd.Height); i++ {
			rgba[i*4+0] = payload[i*3+0]
			rgba[i*4+1] = payload[i*3+1]
			rgba[i*4+2] = payload[i*3+2]
			rgba[i*4+3] = 255
		}
		return rgba, cmd.Width, cmd.Height, nil

	default: // RGBA
		if cmd.Width == 0 || cmd.Height == 0 {
			return nil, 0, 0, errors.New("kitty: rgba transfer requires s= and v=")
		}
		need := int(cmd.Width) * int(cmd.Height) * 4
		if len(payload) < need {
			return nil, 0, 0, errors.New("kitty: short rgba payload")
		}
		return payload[:need], cmd.Width, cmd.Height, nil
	}
}

func imageToRGBA(img image.Image) ([]byte, uint32, uint32, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 || width*height*4 > maxKittyImageBytes {
		return nil, 0, 0, errors.New("kitty: image too large")
	}

	rgba := make([]byte, width*height*4)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			rgba[i+0] = uint8(r >> 8)
			rgba[i+1] = uint8(g >> 8)
			rgba[i+2] = uint8(b >> 8)
			rgba[i+3] = uint8(a >> 8)
			i += 4
		}
	}
	return rgba, uint32(width), uint32(height), nil
}

// FormatKittyResponse builds the APC response for a graphics command.
func FormatKittyResponse(imageID uint32, message string, isError bool) string {
	status := "OK"
	if isError {
		status = message
	}
	return fmt.Sprintf("\x1b_Gi=%d;%s\x1b\\", imageID, status)
}

// handleKittyGraphics processes a Kitty graphics protocol command.
func (t *Terminal) handleKittyGraphics(data []byte) {
	cmd, err := ParseKittyGraphics(data)
	if err != nil {
		return
	}

	switch cmd.Action {
	case KittyActionQuery:
		if cmd.Quiet < 2 {
			t.writeResponseString(FormatKittyResponse(cmd.ImageID, "", false))
		}

	case KittyActionTransmit:
		t.kittyTransmit(cmd)

	case KittyActionTransmitDisplay:
		t.kittyTransmit(cmd)
		if !cmd.More {
			t.kittyDisplay(cmd)
		}

	case KittyActionDisplay:
		t.kittyDisplay(cmd)

	case KittyActionDelete:
		t.kittyDelete(cmd)
	}
}

// kittyTransmit handles image data transmission, including chunked transfers.
func (t *Terminal) kittyTransmit(cmd *KittyCommand) {
	if cmd.More {
		t.images.mu.Lock()
		t.images.accumulator = append(t.images.accumulator, cmd.Payload...)
		t.images.accumulatorID = cmd.ImageID
		t.images.accumulatorMore = true
		t.images.mu.Unlock()
		return
	}

	var payload []byte
	t.images.mu.Lock()
	if t.images.accumulatorMore {
		payload = append(t.images.accumulator, cmd.Payload...)
		t.images.accumulator = nil
		t.images.accumulatorMore = false
	} else {
		payload = cmd.Payload
	}
	t.images.mu.Unlock()

	cmd.Payload = payload

	rgba, width, height, err := cmd.DecodeImageData()
	if err != nil || width == 0 || height == 0 {
		if cmd.Quiet < 2 {
			t.writeResponseString(FormatKittyResponse(cmd.ImageID, "ENODATA", true))
		}
		return
	}

	if cmd.ImageID > 0 {
		t.images.StoreWithID(cmd.ImageID, width, height, rgba)
	} else {
		cmd.ImageID = t.images.Store(width, height, rgba)
	}

	if cmd.Quiet < 1 {
		t.writeResponseString(FormatKittyResponse(cmd.ImageID, "", false))
	}
}

// kittyDisplay displays an already transmitted image at the cursor position.
func (t *Terminal) kittyDisplay(cmd *KittyCommand) {
	img := t.images.Image(cmd.ImageID)
	if img == nil {
		if cmd.Quiet < 2 {
			t.writeResponseString(FormatKittyResponse(cmd.ImageID, "ENOENT", true))
		}
		return
	}

	cellW, cellH := t.getCellSizePixels()

	srcW := cmd.SrcW
	srcH := cmd.SrcH
	if srcW == 0 {
		srcW = img.Width - cmd.SrcX
	}
	if srcH == 0 {
		srcH = img.Height - cmd.SrcY
	}

	cols := int(cmd.Cols)
	rows := int(cmd.Rows)
	if cols == 0 {
		cols = int((srcW + uint32(cellW) - 1) / uint32(cellW))
	}
	if rows == 0 {
		rows = int((srcH + uint32(cellH) - 1) / uint32(cellH))
	}

	t.mu.Lock()
	curRow := t.cursor.Row
	curCol := t.cursor.Col
	t.mu.Unlock()

	placement := &ImagePlacement{
		ImageID: cmd.ImageID,
		Row:     curRow,
		Col:     curCol,
		Cols:    cols,
		Rows:    rows,
		SrcX:    cmd.SrcX,
		SrcY:    cmd.SrcY,
		SrcW:    srcW,
		SrcH:    srcH,
		ZIndex:  cmd.ZIndex,
		OffsetX: cmd.CellOffsetX,
		OffsetY: cmd.CellOffsetY,
	}

	placementID := t.images.Place(placement)
	t.assignImageToCells(cmd.ImageID, placementID, placement, img.Width, img.Height, cellW, cellH)

	if !cmd.DoNotMoveCursor {
		t.mu.Lock()
		t.cursor.Col += cols
		if t.cursor.Col >= t.cols {
			t.cursor.Col = 0
			t.cursor.Row++
			if t.cursor.Row >= t.rows {
				t.cursor.Row = t.rows - 1
			}
		}
		t.mu.Unlock()
	}

	if cmd.Quiet < 1 {
		t.writeResponseString(FormatKittyResponse(cmd.ImageID, "", false))
	}
}

// kittyDelete handles image deletion commands. The data variants of the
// cursor, column, row and z-index selectors (C, X, Y, Z) remove placements
// only; the image data stays stored.
func (t *Terminal) kittyDelete(cmd *KittyCommand) {
	t.mu.Lock()
	curRow := t.cursor.Row
	curCol := t.cursor.Col
	t.mu.Unlock()

	switch cmd.Delete {
	case KittyDeleteAll:
		for _, p := range t.images.Placements() {
			t.images.RemovePlacement(p.ID)
		}

	case KittyDeleteAllWithData:
		t.images.Clear()

	case KittyDeleteByID, KittyDeleteByIDWithData:
		t.images.RemovePlacementsForImage(cmd.ImageID)
		if cmd.Delete == KittyDeleteByIDWithData {
			t.images.DeleteImage(cmd.ImageID)
		}

	case KittyDeleteAtCursor, KittyDeleteAtCursorData:
		t.images.DeletePlacementsByPosition(curRow, curCol)

	case KittyDeleteByCol, KittyDeleteByColData:
		t.images.DeletePlacementsInColumn(curCol)

	case KittyDeleteByRow, KittyDeleteByRowData:
		t.images.DeletePlacementsInRow(curRow)

	case KittyDeleteByZIndex, KittyDeleteByZIndexData:
		t.images.DeletePlacementsByZIndex(cmd.ZIndex)
	}
}
