package contour

import (
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/markusbkk/contour/ansi"
)

// ApplicationCommandReceived processes an APC sequence. Kitty graphics
// commands are consumed here; everything else goes to the APC provider.
func (t *Terminal) ApplicationCommandReceived(data []byte) {
	if t.middleware != nil && t.middleware.ApplicationCommandReceived != nil {
		t.middleware.ApplicationCommandReceived(data, t.applicationCommandReceivedInternal)
		return
	}
	t.applicationCommandReceivedInternal(data)
}

func (t *Terminal) applicationCommandReceivedInternal(data []byte) {
	if len(data) > 0 && data[0] == 'G' && t.kittyEnabled {
		t.handleKittyGraphics(data)
		return
	}

	if t.apcProvider != nil {
		t.apcProvider.Receive(data)
	}
}

// Backspace moves the cursor one column left, stopping at column 0.
func (t *Terminal) Backspace() {
	if t.middleware != nil && t.middleware.Backspace != nil {
		t.middleware.Backspace(t.backspaceInternal)
		return
	}
	t.backspaceInternal()
}

func (t *Terminal) backspaceInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.WrapPending = false
	if t.cursor.Col > 0 {
		t.cursor.Col--
	}
}

// Bell triggers the bell provider if configured.
func (t *Terminal) Bell() {
	if t.middleware != nil && t.middleware.Bell != nil {
		t.middleware.Bell(t.bellInternal)
		return
	}
	t.bellInternal()
}

func (t *Terminal) bellInternal() {
	if t.bellProvider != nil {
		t.bellProvider.Ring()
	}
}

// CarriageReturn moves the cursor to column 0 of the current row.
func (t *Terminal) CarriageReturn() {
	if t.middleware != nil && t.middleware.CarriageReturn != nil {
		t.middleware.CarriageReturn(t.carriageReturnInternal)
		return
	}
	t.carriageReturnInternal()
}

func (t *Terminal) carriageReturnInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Col = 0
	t.cursor.WrapPending = false
}

// CellSizePixels sends the cell size in pixels via a window report (CSI 16 t).
func (t *Terminal) CellSizePixels() {
	if t.middleware != nil && t.middleware.CellSizePixels != nil {
		t.middleware.CellSizePixels(t.cellSizePixelsInternal)
		return
	}
	t.cellSizePixelsInternal()
}

func (t *Terminal) cellSizePixelsInternal() {
	cellWidth, cellHeight := t.getCellSizePixels()
	t.writeResponseString(fmt.Sprintf("\x1b[6;%d;%dt", cellHeight, cellWidth))
}

// ClearLine clears portions of the current line based on mode (right of cursor, left of cursor, or entire line).
func (t *Terminal) ClearLine(mode ansi.LineClearMode) {
	if t.middleware != nil && t.middleware.ClearLine != nil {
		t.middleware.ClearLine(mode, t.clearLineInternal)
		return
	}
	t.clearLineInternal(mode)
}

func (t *Terminal) clearLineInternal(mode ansi.LineClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fill := t.template.fillCell()
	switch mode {
	case ansi.LineClearModeRight:
		t.activeBuffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cols, &fill)
	case ansi.LineClearModeLeft:
		t.activeBuffer.ClearRowRange(t.cursor.Row, 0, t.cursor.Col+1, &fill)
	case ansi.LineClearModeAll:
		t.activeBuffer.ClearRow(t.cursor.Row, &fill)
	}
	t.selectionDamageRows(t.cursor.Row, t.cursor.Row+1)
}

// ClearScreen clears screen regions based on mode (below cursor, above cursor, entire screen, or saved lines).
func (t *Terminal) ClearScreen(mode ansi.ClearMode) {
	if t.middleware != nil && t.middleware.ClearScreen != nil {
		t.middleware.ClearScreen(mode, t.clearScreenInternal)
		return
	}
	t.clearScreenInternal(mode)
}

func (t *Terminal) clearScreenInternal(mode ansi.ClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fill := t.template.fillCell()
	switch mode {
	case ansi.ClearModeBelow:
		t.activeBuffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cols, &fill)
		for row := t.cursor.Row + 1; row < t.rows; row++ {
			t.activeBuffer.ClearRow(row, &fill)
		}
		t.selectionDamageRows(t.cursor.Row, t.rows)
	case ansi.ClearModeAbove:
		for row := 0; row < t.cursor.Row; row++ {
			t.activeBuffer.ClearRow(row, &fill)
		}
		t.activeBuffer.ClearRowRange(t.cursor.Row, 0, t.cursor.Col+1, &fill)
		t.selectionDamageRows(0, t.cursor.Row+1)
	case ansi.ClearModeAll:
		t.activeBuffer.ClearAll(&fill)
		t.selectionDamageRows(0, t.rows)
	case ansi.ClearModeSaved:
		t.primaryBuffer.ClearScrollback()
		t.scrollOffset = 0
		t.selection.Active = false
	}
}

// ClearTabs removes tab stops at the current column or all columns based on mode.
func (t *Terminal) ClearTabs(mode ansi.TabulationClearMode) {
	if t.middleware != nil && t.middleware.ClearTabs != nil {
		t.middleware.ClearTabs(mode, t.clearTabsInternal)
		return
	}
	t.clearTabsInternal(mode)
}

func (t *Terminal) clearTabsInternal(mode ansi.TabulationClearMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch mode {
	case ansi.TabulationClearModeCurrent:
		t.activeBuffer.ClearTabStop(t.cursor.Col)
	case ansi.TabulationClearModeAll:
		t.activeBuffer.ClearAllTabStops()
	}
}

// ClipboardLoad reads from the clipboard provider and sends the response via OSC 52.
func (t *Terminal) ClipboardLoad(clipboard byte, terminator string) {
	if t.middleware != nil && t.middleware.ClipboardLoad != nil {
		t.middleware.ClipboardLoad(clipboard, terminator, t.clipboardLoadInternal)
		return
	}
	t.clipboardLoadInternal(clipboard, terminator)
}

func (t *Terminal) clipboardLoadInternal(clipboard byte, terminator string) {
	if t.clipboardProvider == nil {
		return
	}
	content := t.clipboardProvider.Read(clipboard)
	if content != "" {
		encoded := base64.StdEncoding.EncodeToString([]byte(content))
		t.writeResponseString("\x1b]52;" + string(clipboard) + ";" + encoded + terminator)
	}
}

// ClipboardStore writes data to the clipboard provider via OSC 52.
func (t *Terminal) ClipboardStore(clipboard byte, data []byte) {
	if t.middleware != nil && t.middleware.ClipboardStore != nil {
		t.middleware.ClipboardStore(clipboard, data, t.clipboardStoreInternal)
		return
	}
	t.clipboardStoreInternal(clipboard, data)
}

func (t *Terminal) clipboardStoreInternal(clipboard byte, data []byte) {
	if t.clipboardProvider != nil {
		t.clipboardProvider.Write(clipboard, data)
	}
}

// ConfigureCharset sets the character set for one of the four slots (G0-G3).
func (t *Terminal) ConfigureCharset(index ansi.CharsetIndex, charset ansi.Charset) {
	if t.middleware != nil && t.middleware.ConfigureCharset != nil {
		t.middleware.ConfigureCharset(index, charset, t.configureCharsetInternal)
		return
	}
	t.configureCharsetInternal(index, charset)
}

func (t *Terminal) configureCharsetInternal(index ansi.CharsetIndex, charset ansi.Charset) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := CharsetIndex(index)
	if idx >= 0 && idx <= CharsetIndexG3 {
		t.charsets[idx] = Charset(charset)
	}
}

// Decaln fills the entire screen with 'E' characters (DEC screen alignment test).
func (t *Terminal) Decaln() {
	if t.middleware != nil && t.middleware.Decaln != nil {
		t.middleware.Decaln(t.decalnInternal)
		return
	}
	t.decalnInternal()
}

func (t *Terminal) decalnInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.FillWithE()
	t.selection.Active = false
}

// DeleteChars removes n characters at the cursor, shifting remaining characters left.
func (t *Terminal) DeleteChars(n int) {
	if t.middleware != nil && t.middleware.DeleteChars != nil {
		t.middleware.DeleteChars(n, t.deleteCharsInternal)
		return
	}
	t.deleteCharsInternal(n)
}

func (t *Terminal) deleteCharsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fill := t.template.fillCell()
	t.activeBuffer.DeleteChars(t.cursor.Row, t.cursor.Col, n, &fill)
	t.selectionDamageRows(t.cursor.Row, t.cursor.Row+1)
}

// DeleteLines removes n lines at the cursor within the scroll region, shifting remaining lines up.
func (t *Terminal) DeleteLines(n int) {
	if t.middleware != nil && t.middleware.DeleteLines != nil {
		t.middleware.DeleteLines(n, t.deleteLinesInternal)
		return
	}
	t.deleteLinesInternal(n)
}

func (t *Terminal) deleteLinesInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor.Row >= t.scrollTop && t.cursor.Row < t.scrollBottom {
		fill := t.template.fillCell()
		t.activeBuffer.DeleteLines(t.cursor.Row, n, t.scrollBottom, &fill)
		t.selectionDamageRows(t.cursor.Row, t.scrollBottom)
	}
}

// DesktopNotification forwards a notification (OSC 9 / OSC 777) to the provider.
func (t *Terminal) DesktopNotification(title, body string) {
	if t.middleware != nil && t.middleware.DesktopNotification != nil {
		t.middleware.DesktopNotification(title, body, t.desktopNotificationInternal)
		return
	}
	t.desktopNotificationInternal(title, body)
}

func (t *Terminal) desktopNotificationInternal(title, body string) {
	if t.notificationProvider != nil {
		t.notificationProvider.Notify(title, body)
	}
}

// DeviceStatus sends a device status report (DSR) response: ready (n=5) or cursor position (n=6).
func (t *Terminal) DeviceStatus(n int) {
	if t.middleware != nil && t.middleware.DeviceStatus != nil {
		t.middleware.DeviceStatus(n, t.deviceStatusInternal)
		return
	}
	t.deviceStatusInternal(n)
}

func (t *Terminal) deviceStatusInternal(n int) {
	t.mu.RLock()
	row := t.cursor.Row
	col := t.cursor.Col
	if t.modes&ModeOrigin != 0 {
		row -= t.scrollTop
	}
	t.mu.RUnlock()

	var response string
	switch n {
	case 5:
		// Terminal is ready.
		response = "\x1b[0n"
	case 6:
		// Cursor position report (1-based).
		response = fmt.Sprintf("\x1b[%d;%dR", row+1, col+1)
	}

	if response != "" {
		t.writeResponseString(response)
	}
}

// EraseChars resets n characters at the cursor to the fill state without shifting.
func (t *Terminal) EraseChars(n int) {
	if t.middleware != nil && t.middleware.EraseChars != nil {
		t.middleware.EraseChars(n, t.eraseCharsInternal)
		return
	}
	t.eraseCharsInternal(n)
}

func (t *Terminal) eraseCharsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fill := t.template.fillCell()
	t.activeBuffer.ClearRowRange(t.cursor.Row, t.cursor.Col, t.cursor.Col+n, &fill)
	t.selectionDamageRows(t.cursor.Row, t.cursor.Row+1)
}

// Goto moves the cursor to (row, col), adjusting for origin mode if enabled.
func (t *Terminal) Goto(row, col int) {
	if t.middleware != nil && t.middleware.Goto != nil {
		t.middleware.Goto(row, col, t.gotoInternal)
		return
	}
	t.gotoInternal(row, col)
}

func (t *Terminal) gotoInternal(row, col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row = t.effectiveRow(row)
	maxRow := t.rows - 1
	if t.modes&ModeOrigin != 0 {
		maxRow = t.scrollBottom - 1
	}
	t.cursor.Row = clamp(row, 0, maxRow)
	t.cursor.Col = clamp(col, 0, t.cols-1)
	t.cursor.WrapPending = false
}

// GotoCol moves the cursor to the specified column, keeping the current row.
func (t *Terminal) GotoCol(col int) {
	if t.middleware != nil && t.middleware.GotoCol != nil {
		t.middleware.GotoCol(col, t.gotoColInternal)
		return
	}
	t.gotoColInternal(col)
}

func (t *Terminal) gotoColInternal(col int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Col = clamp(col, 0, t.cols-1)
	t.cursor.WrapPending = false
}

// GotoLine moves the cursor to the specified row, adjusting for origin mode if enabled.
func (t *Terminal) GotoLine(row int) {
	if t.middleware != nil && t.middleware.GotoLine != nil {
		t.middleware.GotoLine(row, t.gotoLineInternal)
		return
	}
	t.gotoLineInternal(row)
}

func (t *Terminal) gotoLineInternal(row int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row = t.effectiveRow(row)
	t.cursor.Row = clamp(row, 0, t.rows-1)
	t.cursor.WrapPending = false
}

// HorizontalTabSet enables a tab stop at the current column.
func (t *Terminal) HorizontalTabSet() {
	if t.middleware != nil && t.middleware.HorizontalTabSet != nil {
		t.middleware.HorizontalTabSet(t.horizontalTabSetInternal)
		return
	}
	t.horizontalTabSetInternal()
}

func (t *Terminal) horizontalTabSetInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.SetTabStop(t.cursor.Col)
}

// IdentifyTerminal sends a terminal identification response (default: VT220).
func (t *Terminal) IdentifyTerminal(b byte) {
	if t.middleware != nil && t.middleware.IdentifyTerminal != nil {
		t.middleware.IdentifyTerminal(b, t.identifyTerminalInternal)
		return
	}
	t.identifyTerminalInternal(b)
}

func (t *Terminal) identifyTerminalInternal(b byte) {
	switch b {
	case '>':
		// Secondary DA: VT220 class, firmware version 10.
		t.writeResponseString("\x1b[>1;10;0c")
	default:
		// Primary DA: VT220 with sixel support.
		t.writeResponseString("\x1b[?62;4c")
	}
}

// Input writes a character to the active screen at the cursor position.
// Handles deferred autowrap, wide characters, combining marks, insert mode,
// charset translation, and hyperlink tagging.
func (t *Terminal) Input(r rune) {
	if t.middleware != nil && t.middleware.Input != nil {
		t.middleware.Input(r, t.inputInternal)
		return
	}
	t.inputInternal(r)
}

func (t *Terminal) inputInternal(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.activeCharset >= 0 && t.activeCharset < 4 && t.charsets[t.activeCharset] == CharsetLineDrawing {
		r = translateLineDrawing(r)
	}

	width := runeWidth(r)

	// Combining marks attach to the previously written cell.
	if width == 0 {
		col := t.cursor.Col
		if !t.cursor.WrapPending {
			col--
		}
		if cell := t.activeBuffer.Cell(t.cursor.Row, col); cell != nil && col >= 0 {
			if cell.IsWideSpacer() {
				cell = t.activeBuffer.Cell(t.cursor.Row, col-1)
			}
			if cell != nil {
				cell.AppendCombining(r)
				t.activeBuffer.MarkDirty(t.cursor.Row, col)
			}
		}
		return
	}

	// Deferred autowrap: the previous write left the cursor past the right
	// edge; this write triggers the wrap.
	if t.cursor.WrapPending {
		t.cursor.WrapPending = false
		if t.modes&ModeLineWrap != 0 {
			t.activeBuffer.SetWrapped(t.cursor.Row, true)
			t.cursor.Col = 0
			t.cursor.Row++
			t.scrollIfNeeded()
		}
	}

	// A wide character that no longer fits on this line wraps early.
	if width == 2 && t.cursor.Col+width > t.cols {
		if t.modes&ModeLineWrap == 0 {
			return
		}
		t.activeBuffer.SetWrapped(t.cursor.Row, true)
		t.cursor.Col = 0
		t.cursor.Row++
		t.scrollIfNeeded()
	}

	fill := t.template.fillCell()

	if t.modes&ModeInsert != 0 {
		t.activeBuffer.InsertBlanks(t.cursor.Row, t.cursor.Col, width, &fill)
	}

	if t.cursor.Row < 0 || t.cursor.Row >= t.rows || t.cursor.Col < 0 || t.cursor.Col >= t.cols {
		return
	}

	t.selectionDamage(t.cursor.Row, t.cursor.Col)

	// Writes treat wide pairs atomically.
	t.activeBuffer.ClearWidePair(t.cursor.Row, t.cursor.Col, &fill)
	if width == 2 {
		t.activeBuffer.ClearWidePair(t.cursor.Row, t.cursor.Col+1, &fill)
	}

	cell := t.activeBuffer.Cell(t.cursor.Row, t.cursor.Col)
	if cell != nil {
		if cell.Hyperlink != 0 {
			t.links.Release(cell.Hyperlink)
		}
		cell.Char = r
		cell.Combining = nil
		cell.Fg = t.template.Fg
		cell.Bg = t.template.Bg
		cell.UnderlineColor = t.template.UnderlineColor
		cell.Flags = t.template.Flags
		cell.Image = nil
		cell.Hyperlink = t.currentHyperlink
		if t.currentHyperlink != 0 {
			t.links.Retain(t.currentHyperlink)
		}

		if width == 2 {
			cell.SetFlag(CellFlagWideChar)
		} else {
			cell.ClearFlag(CellFlagWideChar | CellFlagWideCharSpacer)
		}

		t.activeBuffer.MarkDirty(t.cursor.Row, t.cursor.Col)
	}

	if width == 2 && t.cursor.Col+1 < t.cols {
		spacer := t.activeBuffer.Cell(t.cursor.Row, t.cursor.Col+1)
		if spacer != nil {
			if spacer.Hyperlink != 0 {
				t.links.Release(spacer.Hyperlink)
			}
			spacer.Reset()
			spacer.Fg = t.template.Fg
			spacer.Bg = t.template.Bg
			spacer.SetFlag(CellFlagWideCharSpacer)
			t.activeBuffer.MarkDirty(t.cursor.Row, t.cursor.Col+1)
		}
	}

	// Advance; reaching the right edge arms the wrap-pending sentinel
	// instead of moving past it.
	next := t.cursor.Col + width
	if next >= t.cols {
		t.cursor.Col = t.cols - 1
		t.cursor.WrapPending = true
	} else {
		t.cursor.Col = next
	}
}

// translateLineDrawing translates characters for the DEC line drawing charset.
func translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

// InsertBlank inserts n blank cells at the cursor, shifting existing characters right.
func (t *Terminal) InsertBlank(n int) {
	if t.middleware != nil && t.middleware.InsertBlank != nil {
		t.middleware.InsertBlank(n, t.insertBlankInternal)
		return
	}
	t.insertBlankInternal(n)
}

func (t *Terminal) insertBlankInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fill := t.template.fillCell()
	t.activeBuffer.InsertBlanks(t.cursor.Row, t.cursor.Col, n, &fill)
	t.selectionDamageRows(t.cursor.Row, t.cursor.Row+1)
}

// InsertBlankLines inserts n blank lines at the cursor within the scroll region, shifting remaining lines down.
func (t *Terminal) InsertBlankLines(n int) {
	if t.middleware != nil && t.middleware.InsertBlankLines != nil {
		t.middleware.InsertBlankLines(n, t.insertBlankLinesInternal)
		return
	}
	t.insertBlankLinesInternal(n)
}

func (t *Terminal) insertBlankLinesInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cursor.Row >= t.scrollTop && t.cursor.Row < t.scrollBottom {
		fill := t.template.fillCell()
		t.activeBuffer.InsertLines(t.cursor.Row, n, t.scrollBottom, &fill)
		t.selectionDamageRows(t.cursor.Row, t.scrollBottom)
	}
}

// LineFeed moves the cursor down one row, scrolling at the bottom margin.
// If ModeLineFeedNewLine is set, also moves to column 0.
func (t *Terminal) LineFeed() {
	if t.middleware != nil && t.middleware.LineFeed != nil {
		t.middleware.LineFeed(t.lineFeedInternal)
		return
	}
	t.lineFeedInternal()
}

func (t *Terminal) lineFeedInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	// An explicit line feed ends any soft-wrap run at this line.
	t.activeBuffer.SetWrapped(t.cursor.Row, false)
	t.cursor.WrapPending = false

	if t.modes&ModeLineFeedNewLine != 0 {
		t.cursor.Col = 0
	}

	t.cursor.Row++
	t.scrollIfNeeded()
}

// MoveBackward moves the cursor left n columns, stopping at column 0.
func (t *Terminal) MoveBackward(n int) {
	if t.middleware != nil && t.middleware.MoveBackward != nil {
		t.middleware.MoveBackward(n, t.moveBackwardInternal)
		return
	}
	t.moveBackwardInternal(n)
}

func (t *Terminal) moveBackwardInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Col = clamp(t.cursor.Col-n, 0, t.cols-1)
	t.cursor.WrapPending = false
}

// MoveBackwardTabs moves the cursor left to the previous n tab stops.
func (t *Terminal) MoveBackwardTabs(n int) {
	if t.middleware != nil && t.middleware.MoveBackwardTabs != nil {
		t.middleware.MoveBackwardTabs(n, t.moveBackwardTabsInternal)
		return
	}
	t.moveBackwardTabsInternal(n)
}

func (t *Terminal) moveBackwardTabsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n; i++ {
		t.cursor.Col = t.activeBuffer.PrevTabStop(t.cursor.Col)
	}
	t.cursor.WrapPending = false
}

// MoveDown moves the cursor down n rows, stopping at the scroll bottom.
func (t *Terminal) MoveDown(n int) {
	if t.middleware != nil && t.middleware.MoveDown != nil {
		t.middleware.MoveDown(n, t.moveDownInternal)
		return
	}
	t.moveDownInternal(n)
}

func (t *Terminal) moveDownInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	bottom := t.rows - 1
	if t.cursor.Row < t.scrollBottom {
		bottom = t.scrollBottom - 1
	}
	t.cursor.Row = clamp(t.cursor.Row+n, 0, bottom)
	t.cursor.WrapPending = false
}

// MoveDownCr moves the cursor down n rows and to column 0.
func (t *Terminal) MoveDownCr(n int) {
	if t.middleware != nil && t.middleware.MoveDownCr != nil {
		t.middleware.MoveDownCr(n, t.moveDownCrInternal)
		return
	}
	t.moveDownCrInternal(n)
}

func (t *Terminal) moveDownCrInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Row = clamp(t.cursor.Row+n, 0, t.rows-1)
	t.cursor.Col = 0
	t.cursor.WrapPending = false
}

// MoveForward moves the cursor right n columns, stopping at the last column.
func (t *Terminal) MoveForward(n int) {
	if t.middleware != nil && t.middleware.MoveForward != nil {
		t.middleware.MoveForward(n, t.moveForwardInternal)
		return
	}
	t.moveForwardInternal(n)
}

func (t *Terminal) moveForwardInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Col = clamp(t.cursor.Col+n, 0, t.cols-1)
	t.cursor.WrapPending = false
}

// MoveForwardTabs moves the cursor right to the next n tab stops.
func (t *Terminal) MoveForwardTabs(n int) {
	if t.middleware != nil && t.middleware.MoveForwardTabs != nil {
		t.middleware.MoveForwardTabs(n, t.moveForwardTabsInternal)
		return
	}
	t.moveForwardTabsInternal(n)
}

func (t *Terminal) moveForwardTabsInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n; i++ {
		t.cursor.Col = t.activeBuffer.NextTabStop(t.cursor.Col)
	}
	t.cursor.WrapPending = false
}

// MoveUp moves the cursor up n rows, stopping at the scroll top.
func (t *Terminal) MoveUp(n int) {
	if t.middleware != nil && t.middleware.MoveUp != nil {
		t.middleware.MoveUp(n, t.moveUpInternal)
		return
	}
	t.moveUpInternal(n)
}

func (t *Terminal) moveUpInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	top := 0
	if t.cursor.Row >= t.scrollTop {
		top = t.scrollTop
	}
	t.cursor.Row = clamp(t.cursor.Row-n, top, t.rows-1)
	t.cursor.WrapPending = false
}

// MoveUpCr moves the cursor up n rows and to column 0.
func (t *Terminal) MoveUpCr(n int) {
	if t.middleware != nil && t.middleware.MoveUpCr != nil {
		t.middleware.MoveUpCr(n, t.moveUpCrInternal)
		return
	}
	t.moveUpCrInternal(n)
}

func (t *Terminal) moveUpCrInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Row = clamp(t.cursor.Row-n, 0, t.rows-1)
	t.cursor.Col = 0
	t.cursor.WrapPending = false
}

// PopKeyboardMode removes n keyboard mode entries from the stack.
func (t *Terminal) PopKeyboardMode(n int) {
	if t.middleware != nil && t.middleware.PopKeyboardMode != nil {
		t.middleware.PopKeyboardMode(n, t.popKeyboardModeInternal)
		return
	}
	t.popKeyboardModeInternal(n)
}

func (t *Terminal) popKeyboardModeInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n && len(t.keyboardModes) > 0; i++ {
		t.keyboardModes = t.keyboardModes[:len(t.keyboardModes)-1]
	}
}

// PopTitle restores the previous title from the stack.
func (t *Terminal) PopTitle() {
	if t.middleware != nil && t.middleware.PopTitle != nil {
		t.middleware.PopTitle(t.popTitleInternal)
		return
	}
	t.popTitleInternal()
}

func (t *Terminal) popTitleInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.titleStack) > 0 {
		t.title = t.titleStack[len(t.titleStack)-1]
		t.titleStack = t.titleStack[:len(t.titleStack)-1]
	}
	if t.titleProvider != nil {
		t.titleProvider.PopTitle()
	}
}

// PrivacyMessageReceived processes a PM sequence and delegates to the configured provider.
func (t *Terminal) PrivacyMessageReceived(data []byte) {
	if t.middleware != nil && t.middleware.PrivacyMessageReceived != nil {
		t.middleware.PrivacyMessageReceived(data, t.privacyMessageReceivedInternal)
		return
	}
	t.privacyMessageReceivedInternal(data)
}

func (t *Terminal) privacyMessageReceivedInternal(data []byte) {
	if t.pmProvider != nil {
		t.pmProvider.Receive(data)
	}
}

// PushKeyboardMode adds a keyboard mode to the stack.
func (t *Terminal) PushKeyboardMode(mode ansi.KeyboardMode) {
	if t.middleware != nil && t.middleware.PushKeyboardMode != nil {
		t.middleware.PushKeyboardMode(mode, t.pushKeyboardModeInternal)
		return
	}
	t.pushKeyboardModeInternal(mode)
}

func (t *Terminal) pushKeyboardModeInternal(mode ansi.KeyboardMode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.keyboardModes = append(t.keyboardModes, mode)
}

// PushTitle saves the current title to the stack.
func (t *Terminal) PushTitle() {
	if t.middleware != nil && t.middleware.PushTitle != nil {
		t.middleware.PushTitle(t.pushTitleInternal)
		return
	}
	t.pushTitleInternal()
}

func (t *Terminal) pushTitleInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.titleStack = append(t.titleStack, t.title)
	if t.titleProvider != nil {
		t.titleProvider.PushTitle()
	}
}

// ReportKeyboardMode sends the current keyboard mode via response.
func (t *Terminal) ReportKeyboardMode() {
	if t.middleware != nil && t.middleware.ReportKeyboardMode != nil {
		t.middleware.ReportKeyboardMode(t.reportKeyboardModeInternal)
		return
	}
	t.reportKeyboardModeInternal()
}

func (t *Terminal) reportKeyboardModeInternal() {
	t.mu.RLock()
	var mode ansi.KeyboardMode
	if len(t.keyboardModes) > 0 {
		mode = t.keyboardModes[len(t.keyboardModes)-1]
	}
	t.mu.RUnlock()

	t.writeResponseString(fmt.Sprintf("\x1b[?%du", mode))
}

// ReportMode answers DECRQM: CSI ? Pd ; Ps $ y (or without ? for ANSI modes).
func (t *Terminal) ReportMode(mode ansi.Mode) {
	if t.middleware != nil && t.middleware.ReportMode != nil {
		t.middleware.ReportMode(mode, t.reportModeInternal)
		return
	}
	t.reportModeInternal(mode)
}

func (t *Terminal) reportModeInternal(mode ansi.Mode) {
	value := t.ModeValueFor(mode)

	marker := ""
	if mode.Private {
		marker = "?"
	}
	t.writeResponseString(fmt.Sprintf("\x1b[%s%d;%d$y", marker, mode.Raw, value))
}

// ReportModifyOtherKeys sends the current modify-other-keys mode via response.
func (t *Terminal) ReportModifyOtherKeys() {
	if t.middleware != nil && t.middleware.ReportModifyOtherKeys != nil {
		t.middleware.ReportModifyOtherKeys(t.reportModifyOtherKeysInternal)
		return
	}
	t.reportModifyOtherKeysInternal()
}

func (t *Terminal) reportModifyOtherKeysInternal() {
	t.mu.RLock()
	modify := t.modifyOtherKeys
	t.mu.RUnlock()

	t.writeResponseString(fmt.Sprintf("\x1b[>4;%dm", modify))
}

// RequestStatusString answers DECRQSS for the settings we track; anything
// else gets the invalid-request reply.
func (t *Terminal) RequestStatusString(req string) {
	if t.middleware != nil && t.middleware.RequestStatusString != nil {
		t.middleware.RequestStatusString(req, t.requestStatusStringInternal)
		return
	}
	t.requestStatusStringInternal(req)
}

func (t *Terminal) requestStatusStringInternal(req string) {
	t.mu.RLock()
	top, bottom := t.scrollTop, t.scrollBottom
	style := t.cursor.Style
	t.mu.RUnlock()

	switch req {
	case "r": // DECSTBM
		t.writeResponseString(fmt.Sprintf("\x1bP1$r%d;%dr\x1b\\", top+1, bottom))
	case " q": // DECSCUSR
		t.writeResponseString(fmt.Sprintf("\x1bP1$r%d q\x1b\\", int(style)+1))
	case "m": // SGR; reports the reset state only
		t.writeResponseString("\x1bP1$r0m\x1b\\")
	default:
		t.writeResponseString("\x1bP0$r\x1b\\")
	}
}

// ResetColor removes a custom color from the palette at the given index.
func (t *Terminal) ResetColor(i int) {
	if t.middleware != nil && t.middleware.ResetColor != nil {
		t.middleware.ResetColor(i, t.resetColorInternal)
		return
	}
	t.resetColorInternal(i)
}

func (t *Terminal) resetColorInternal(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.colors, i)
}

// ResetState clears the screen, resets cursor to (0,0), and restores default modes and attributes.
func (t *Terminal) ResetState() {
	if t.middleware != nil && t.middleware.ResetState != nil {
		t.middleware.ResetState(t.resetStateInternal)
		return
	}
	t.resetStateInternal()
}

func (t *Terminal) resetStateInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeBuffer.ClearAll(nil)
	t.cursor.Row = 0
	t.cursor.Col = 0
	t.cursor.Visible = true
	t.cursor.Style = CursorStyleBlinkingBlock
	t.cursor.WrapPending = false

	t.template = NewCellTemplate()
	t.scrollTop = 0
	t.scrollBottom = t.rows
	t.modes = defaultModes
	t.scrollOffset = 0

	t.charsets = [4]Charset{CharsetASCII, CharsetASCII, CharsetASCII, CharsetASCII}
	t.activeCharset = 0

	t.colors = make(map[int]color.Color)
	t.keyboardModes = make([]ansi.KeyboardMode, 0)
	if t.currentHyperlink != 0 {
		t.links.Release(t.currentHyperlink)
		t.currentHyperlink = 0
	}
	t.selection.Active = false
}

// RestoreCursorPosition restores cursor position, attributes, and charset state from the saved cursor.
func (t *Terminal) RestoreCursorPosition() {
	if t.middleware != nil && t.middleware.RestoreCursorPosition != nil {
		t.middleware.RestoreCursorPosition(t.restoreCursorPositionInternal)
		return
	}
	t.restoreCursorPositionInternal()
}

func (t *Terminal) restoreCursorPositionInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restoreCursorPositionLocked()
}

// restoreCursorPositionLocked restores cursor without locking (caller must hold lock)
func (t *Terminal) restoreCursorPositionLocked() {
	if t.savedCursor == nil {
		return
	}
	t.cursor.Row = clamp(t.savedCursor.Row, 0, t.rows-1)
	t.cursor.Col = clamp(t.savedCursor.Col, 0, t.cols-1)
	t.cursor.WrapPending = t.savedCursor.WrapPending
	t.template = t.savedCursor.Attrs

	if t.savedCursor.OriginMode {
		t.modes |= ModeOrigin
	} else {
		t.modes &^= ModeOrigin
	}

	t.activeCharset = t.savedCursor.CharsetIndex
	t.charsets = t.savedCursor.Charsets
}

// ReverseIndex moves the cursor up one row. If at the top of the scroll region, scrolls down instead.
func (t *Terminal) ReverseIndex() {
	if t.middleware != nil && t.middleware.ReverseIndex != nil {
		t.middleware.ReverseIndex(t.reverseIndexInternal)
		return
	}
	t.reverseIndexInternal()
}

func (t *Terminal) reverseIndexInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.WrapPending = false
	if t.cursor.Row == t.scrollTop {
		fill := t.template.fillCell()
		t.activeBuffer.ScrollDown(t.scrollTop, t.scrollBottom, 1, &fill)
	} else if t.cursor.Row > 0 {
		t.cursor.Row--
	}
}

// SaveCursorPosition saves cursor position, attributes, charset state, and origin mode for later restoration.
func (t *Terminal) SaveCursorPosition() {
	if t.middleware != nil && t.middleware.SaveCursorPosition != nil {
		t.middleware.SaveCursorPosition(t.saveCursorPositionInternal)
		return
	}
	t.saveCursorPositionInternal()
}

func (t *Terminal) saveCursorPositionInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.saveCursorPositionLocked()
}

// saveCursorPositionLocked saves cursor without locking (caller must hold lock)
func (t *Terminal) saveCursorPositionLocked() {
	t.savedCursor = &SavedCursor{
		Row:          t.cursor.Row,
		Col:          t.cursor.Col,
		WrapPending:  t.cursor.WrapPending,
		Attrs:        t.template,
		OriginMode:   t.modes&ModeOrigin != 0,
		CharsetIndex: t.activeCharset,
		Charsets:     t.charsets,
	}
}

// ScrollDown shifts lines down within the scroll region, clearing top lines.
func (t *Terminal) ScrollDown(n int) {
	if t.middleware != nil && t.middleware.ScrollDown != nil {
		t.middleware.ScrollDown(n, t.scrollDownInternal)
		return
	}
	t.scrollDownInternal(n)
}

func (t *Terminal) scrollDownInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fill := t.template.fillCell()
	t.activeBuffer.ScrollDown(t.scrollTop, t.scrollBottom, n, &fill)
	t.selectionDamageRows(t.scrollTop, t.scrollBottom)
}

// ScrollUp shifts lines up within the scroll region, pushing top lines to scrollback if enabled.
func (t *Terminal) ScrollUp(n int) {
	if t.middleware != nil && t.middleware.ScrollUp != nil {
		t.middleware.ScrollUp(n, t.scrollUpInternal)
		return
	}
	t.scrollUpInternal(n)
}

func (t *Terminal) scrollUpInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fill := t.template.fillCell()
	t.scrollUpLocked(t.scrollTop, t.scrollBottom, n, &fill)
}

// SemanticPromptMark records a semantic prompt mark (OSC 133).
func (t *Terminal) SemanticPromptMark(mark ansi.SemanticPromptMark, exitCode int) {
	if t.middleware != nil && t.middleware.SemanticPromptMark != nil {
		t.middleware.SemanticPromptMark(mark, exitCode, t.semanticPromptMarkInternal)
		return
	}
	t.semanticPromptMarkInternal(mark, exitCode)
}

// SetActiveCharset selects which charset slot (0-3, G0-G3) is currently active for character rendering.
func (t *Terminal) SetActiveCharset(n int) {
	if t.middleware != nil && t.middleware.SetActiveCharset != nil {
		t.middleware.SetActiveCharset(n, t.setActiveCharsetInternal)
		return
	}
	t.setActiveCharsetInternal(n)
}

func (t *Terminal) setActiveCharsetInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n >= 0 && n < 4 {
		t.activeCharset = n
	}
}

// SetColor stores a custom color in the palette at the given index (used for indexed color resolution).
func (t *Terminal) SetColor(index int, c color.Color) {
	if t.middleware != nil && t.middleware.SetColor != nil {
		t.middleware.SetColor(index, c, t.setColorInternal)
		return
	}
	t.setColorInternal(index, c)
}

func (t *Terminal) setColorInternal(index int, c color.Color) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.colors[index] = c
}

// SetCursorStyle changes the cursor rendering style (block, underline, bar, blinking/steady).
func (t *Terminal) SetCursorStyle(style ansi.CursorStyle) {
	if t.middleware != nil && t.middleware.SetCursorStyle != nil {
		t.middleware.SetCursorStyle(style, t.setCursorStyleInternal)
		return
	}
	t.setCursorStyleInternal(style)
}

func (t *Terminal) setCursorStyleInternal(style ansi.CursorStyle) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cursor.Style = CursorStyle(style)
}

// SetDynamicColor responds to a dynamic color query (OSC 4/10/11/12) with the current color value.
func (t *Terminal) SetDynamicColor(prefix string, index int, terminator string) {
	if t.middleware != nil && t.middleware.SetDynamicColor != nil {
		t.middleware.SetDynamicColor(prefix, index, terminator, t.setDynamicColorInternal)
		return
	}
	t.setDynamicColorInternal(prefix, index, terminator)
}

func (t *Terminal) setDynamicColorInternal(prefix string, index int, terminator string) {
	t.mu.RLock()
	c, ok := t.colors[index]
	t.mu.RUnlock()

	var rgba color.RGBA
	switch {
	case ok:
		rgba = resolveDefaultColor(c, true)
	case index >= 0 && index < 256:
		rgba = DefaultPalette[index]
	case index >= 256:
		rgba = resolveNamedColor(index, true)
	default:
		return
	}

	t.writeResponseString(fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator))
}

// SetHyperlink sets the active hyperlink (OSC 8) for subsequently written characters.
// Pass nil to clear the hyperlink.
func (t *Terminal) SetHyperlink(hyperlink *ansi.Hyperlink) {
	if t.middleware != nil && t.middleware.SetHyperlink != nil {
		t.middleware.SetHyperlink(hyperlink, t.setHyperlinkInternal)
		return
	}
	t.setHyperlinkInternal(hyperlink)
}

func (t *Terminal) setHyperlinkInternal(hyperlink *ansi.Hyperlink) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.currentHyperlink != 0 {
		t.links.Release(t.currentHyperlink)
		t.currentHyperlink = 0
	}

	if hyperlink != nil {
		id := t.links.Intern(Hyperlink{ID: hyperlink.ID, URI: hyperlink.URI})
		// The open link holds one reference until closed or replaced.
		t.links.Retain(id)
		t.currentHyperlink = id
	}
}

// SetKeyboardMode modifies the top keyboard mode on the stack using the specified behavior (replace, union, or difference).
func (t *Terminal) SetKeyboardMode(mode ansi.KeyboardMode, behavior ansi.KeyboardModeBehavior) {
	if t.middleware != nil && t.middleware.SetKeyboardMode != nil {
		t.middleware.SetKeyboardMode(mode, behavior, t.setKeyboardModeInternal)
		return
	}
	t.setKeyboardModeInternal(mode, behavior)
}

func (t *Terminal) setKeyboardModeInternal(mode ansi.KeyboardMode, behavior ansi.KeyboardModeBehavior) {
	t.mu.Lock()
	defer t.mu.Unlock()

	currentMode := ansi.KeyboardModeNoMode
	if len(t.keyboardModes) > 0 {
		currentMode = t.keyboardModes[len(t.keyboardModes)-1]
	}

	var newMode ansi.KeyboardMode
	switch behavior {
	case ansi.KeyboardModeBehaviorReplace:
		newMode = mode
	case ansi.KeyboardModeBehaviorUnion:
		newMode = currentMode | mode
	case ansi.KeyboardModeBehaviorDifference:
		newMode = currentMode &^ mode
	}

	if len(t.keyboardModes) > 0 {
		t.keyboardModes[len(t.keyboardModes)-1] = newMode
	} else {
		t.keyboardModes = append(t.keyboardModes, newMode)
	}
}

// SetKeypadApplicationMode enables application keypad mode (numeric keypad sends escape sequences).
func (t *Terminal) SetKeypadApplicationMode() {
	if t.middleware != nil && t.middleware.SetKeypadApplicationMode != nil {
		t.middleware.SetKeypadApplicationMode(t.setKeypadApplicationModeInternal)
		return
	}
	t.setKeypadApplicationModeInternal()
}

func (t *Terminal) setKeypadApplicationModeInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modes |= ModeKeypadApplication
}

// SetMode enables a terminal mode. Some modes have side effects: origin mode
// homes the cursor and the alternate-screen modes switch buffers.
func (t *Terminal) SetMode(mode ansi.Mode) {
	if t.middleware != nil && t.middleware.SetMode != nil {
		t.middleware.SetMode(mode, t.setModeInternal)
		return
	}
	t.setModeInternal(mode)
}

func (t *Terminal) setModeInternal(mode ansi.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setModeLocked(mode, true)
}

// setModeLocked sets or unsets a terminal mode (caller must hold lock).
func (t *Terminal) setModeLocked(mode ansi.Mode, set bool) {
	m, ok := modeFromAnsi(mode.Mode)
	if !ok {
		return
	}

	switch m {
	case ModeOrigin:
		if set {
			t.cursor.Row = t.scrollTop
			t.cursor.Col = 0
			t.cursor.WrapPending = false
		}

	case ModeShowCursor:
		t.cursor.Visible = set

	case ModeAlternateScreen:
		if set {
			t.enterAlternateScreenLocked()
		} else {
			t.leaveAlternateScreenLocked()
			if mode.Raw == 1047 {
				// 1047 clears the alternate screen when leaving it.
				t.alternateBuffer.ClearAll(nil)
			}
		}

	case ModeSaveRestoreCursor:
		if set {
			t.saveCursorPositionLocked()
		} else {
			t.restoreCursorPositionLocked()
		}

	case ModeSwapScreenAndSetRestoreCursor:
		if set {
			t.saveCursorPositionLocked()
			t.enterAlternateScreenLocked()
			t.alternateBuffer.ClearAll(nil)
			t.cursor.Row = 0
			t.cursor.Col = 0
			t.cursor.WrapPending = false
		} else {
			t.leaveAlternateScreenLocked()
			t.restoreCursorPositionLocked()
		}
	}

	if set {
		t.modes |= m
	} else {
		t.modes &^= m
	}
}

func (t *Terminal) enterAlternateScreenLocked() {
	if t.activeBuffer == t.alternateBuffer {
		return
	}
	t.activeBuffer = t.alternateBuffer
	t.scrollOffset = 0
	t.selection.Active = false
	t.activeBuffer.MarkAllDirty()
}

func (t *Terminal) leaveAlternateScreenLocked() {
	if t.activeBuffer == t.primaryBuffer {
		return
	}
	t.activeBuffer = t.primaryBuffer
	t.selection.Active = false
	t.activeBuffer.MarkAllDirty()
}

// SetModifyOtherKeys sets how modifier keys are reported in keyboard input.
func (t *Terminal) SetModifyOtherKeys(modify ansi.ModifyOtherKeys) {
	if t.middleware != nil && t.middleware.SetModifyOtherKeys != nil {
		t.middleware.SetModifyOtherKeys(modify, t.setModifyOtherKeysInternal)
		return
	}
	t.setModifyOtherKeysInternal(modify)
}

func (t *Terminal) setModifyOtherKeysInternal(modify ansi.ModifyOtherKeys) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modifyOtherKeys = modify
}

// SetScrollingRegion sets the scroll boundaries (1-based, converted to 0-based internally).
// Moves cursor to home position (top-left of region if origin mode, else absolute top-left).
func (t *Terminal) SetScrollingRegion(top, bottom int) {
	if t.middleware != nil && t.middleware.SetScrollingRegion != nil {
		t.middleware.SetScrollingRegion(top, bottom, t.setScrollingRegionInternal)
		return
	}
	t.setScrollingRegionInternal(top, bottom)
}

func (t *Terminal) setScrollingRegionInternal(top, bottom int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Convert from 1-based to 0-based; bottom stays exclusive.
	top--

	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > t.rows {
		bottom = t.rows
	}
	if top >= bottom {
		return
	}

	t.scrollTop = top
	t.scrollBottom = bottom

	if t.modes&ModeOrigin != 0 {
		t.cursor.Row = t.scrollTop
	} else {
		t.cursor.Row = 0
	}
	t.cursor.Col = 0
	t.cursor.WrapPending = false
}

// SetTerminalCharAttribute applies SGR attributes to the cell template (colors, bold, underline, etc.).
func (t *Terminal) SetTerminalCharAttribute(attr ansi.TerminalCharAttribute) {
	if t.middleware != nil && t.middleware.SetTerminalCharAttribute != nil {
		t.middleware.SetTerminalCharAttribute(attr, t.setTerminalCharAttributeInternal)
		return
	}
	t.setTerminalCharAttributeInternal(attr)
}

func (t *Terminal) setTerminalCharAttributeInternal(attr ansi.TerminalCharAttribute) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch attr.Attr {
	case ansi.CharAttributeReset:
		t.template = NewCellTemplate()

	case ansi.CharAttributeBold:
		t.template.SetFlag(CellFlagBold)

	case ansi.CharAttributeDim:
		t.template.SetFlag(CellFlagDim)

	case ansi.CharAttributeItalic:
		t.template.SetFlag(CellFlagItalic)

	case ansi.CharAttributeUnderline:
		t.template.ClearFlag(underlineFlags)
		t.template.SetFlag(CellFlagUnderline)

	case ansi.CharAttributeDoubleUnderline:
		t.template.ClearFlag(underlineFlags)
		t.template.SetFlag(CellFlagDoubleUnderline)

	case ansi.CharAttributeCurlyUnderline:
		t.template.ClearFlag(underlineFlags)
		t.template.SetFlag(CellFlagCurlyUnderline)

	case ansi.CharAttributeDottedUnderline:
		t.template.ClearFlag(underlineFlags)
		t.template.SetFlag(CellFlagDottedUnderline)

	case ansi.CharAttributeDashedUnderline:
		t.template.ClearFlag(underlineFlags)
		t.template.SetFlag(CellFlagDashedUnderline)

	case ansi.CharAttributeBlinkSlow:
		t.template.SetFlag(CellFlagBlinkSlow)

	case ansi.CharAttributeBlinkFast:
		t.template.SetFlag(CellFlagBlinkFast)

	case ansi.CharAttributeReverse:
		t.template.SetFlag(CellFlagReverse)

	case ansi.CharAttributeHidden:
		t.template.SetFlag(CellFlagHidden)

	case ansi.CharAttributeStrike:
		t.template.SetFlag(CellFlagStrike)

	case ansi.CharAttributeOverline:
		t.template.SetFlag(CellFlagOverline)

	case ansi.CharAttributeCancelBold:
		t.template.ClearFlag(CellFlagBold)

	case ansi.CharAttributeCancelBoldDim:
		t.template.ClearFlag(CellFlagBold | CellFlagDim)

	case ansi.CharAttributeCancelItalic:
		t.template.ClearFlag(CellFlagItalic)

	case ansi.CharAttributeCancelUnderline:
		t.template.ClearFlag(underlineFlags)

	case ansi.CharAttributeCancelBlink:
		t.template.ClearFlag(CellFlagBlinkSlow | CellFlagBlinkFast)

	case ansi.CharAttributeCancelReverse:
		t.template.ClearFlag(CellFlagReverse)

	case ansi.CharAttributeCancelHidden:
		t.template.ClearFlag(CellFlagHidden)

	case ansi.CharAttributeCancelStrike:
		t.template.ClearFlag(CellFlagStrike)

	case ansi.CharAttributeCancelOverline:
		t.template.ClearFlag(CellFlagOverline)

	case ansi.CharAttributeForeground:
		t.template.Fg = resolveAttrColor(attr)

	case ansi.CharAttributeBackground:
		t.template.Bg = resolveAttrColor(attr)

	case ansi.CharAttributeUnderlineColor:
		if attr.RGBColor == nil && attr.IndexedColor == nil && attr.NamedColor == nil {
			t.template.UnderlineColor = nil
		} else {
			t.template.UnderlineColor = resolveAttrColor(attr)
		}
	}
}

// resolveAttrColor resolves the color payload of an SGR attribute.
// Returns the semantic default when no specific color is provided.
func resolveAttrColor(attr ansi.TerminalCharAttribute) color.Color {
	if attr.RGBColor != nil {
		return color.RGBA{
			R: attr.RGBColor.R,
			G: attr.RGBColor.G,
			B: attr.RGBColor.B,
			A: 255,
		}
	}

	if attr.IndexedColor != nil {
		return &IndexedColor{Index: int(attr.IndexedColor.Index)}
	}

	if attr.NamedColor != nil {
		return &NamedColor{Name: int(*attr.NamedColor)}
	}

	switch attr.Attr {
	case ansi.CharAttributeBackground:
		return &NamedColor{Name: NamedColorBackground}
	default:
		return &NamedColor{Name: NamedColorForeground}
	}
}

// SetTitle updates the window title and notifies the title provider.
func (t *Terminal) SetTitle(title string) {
	if t.middleware != nil && t.middleware.SetTitle != nil {
		t.middleware.SetTitle(title, t.setTitleInternal)
		return
	}
	t.setTitleInternal(title)
}

func (t *Terminal) setTitleInternal(title string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.title = title
	if t.titleProvider != nil {
		t.titleProvider.SetTitle(title)
	}
}

// SetUserVar stores an OSC 1337 user variable.
func (t *Terminal) SetUserVar(name, value string) {
	if t.middleware != nil && t.middleware.SetUserVar != nil {
		t.middleware.SetUserVar(name, value, t.setUserVarInternal)
		return
	}
	t.setUserVarInternal(name, value)
}

func (t *Terminal) setUserVarInternal(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.userVars[name] = value
}

// SetWorkingDirectory stores the current working directory (OSC 7).
func (t *Terminal) SetWorkingDirectory(uri string) {
	if t.middleware != nil && t.middleware.SetWorkingDirectory != nil {
		t.middleware.SetWorkingDirectory(uri, t.setWorkingDirectoryInternal)
		return
	}
	t.setWorkingDirectoryInternal(uri)
}

func (t *Terminal) setWorkingDirectoryInternal(uri string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.workingDir = uri
}

// StartOfStringReceived processes a SOS sequence and delegates to the configured provider.
func (t *Terminal) StartOfStringReceived(data []byte) {
	if t.middleware != nil && t.middleware.StartOfStringReceived != nil {
		t.middleware.StartOfStringReceived(data, t.startOfStringReceivedInternal)
		return
	}
	t.startOfStringReceivedInternal(data)
}

func (t *Terminal) startOfStringReceivedInternal(data []byte) {
	if t.sosProvider != nil {
		t.sosProvider.Receive(data)
	}
}

// Substitute replaces the character at the cursor with '?' (used for error indication).
func (t *Terminal) Substitute() {
	if t.middleware != nil && t.middleware.Substitute != nil {
		t.middleware.Substitute(t.substituteInternal)
		return
	}
	t.substituteInternal()
}

func (t *Terminal) substituteInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cell := t.activeBuffer.Cell(t.cursor.Row, t.cursor.Col)
	if cell != nil {
		cell.Char = '?'
		t.activeBuffer.MarkDirty(t.cursor.Row, t.cursor.Col)
	}
}

// Tab moves the cursor right to the next n tab stops.
func (t *Terminal) Tab(n int) {
	if t.middleware != nil && t.middleware.Tab != nil {
		t.middleware.Tab(n, t.tabInternal)
		return
	}
	t.tabInternal(n)
}

func (t *Terminal) tabInternal(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < n; i++ {
		t.cursor.Col = t.activeBuffer.NextTabStop(t.cursor.Col)
	}
	t.cursor.WrapPending = false
}

// TextAreaSizeChars sends the terminal dimensions in characters (CSI 18 t).
func (t *Terminal) TextAreaSizeChars() {
	if t.middleware != nil && t.middleware.TextAreaSizeChars != nil {
		t.middleware.TextAreaSizeChars(t.textAreaSizeCharsInternal)
		return
	}
	t.textAreaSizeCharsInternal()
}

func (t *Terminal) textAreaSizeCharsInternal() {
	t.mu.RLock()
	rows := t.rows
	cols := t.cols
	t.mu.RUnlock()

	t.writeResponseString(fmt.Sprintf("\x1b[8;%d;%dt", rows, cols))
}

// TextAreaSizePixels sends the terminal dimensions in pixels (CSI 14 t).
func (t *Terminal) TextAreaSizePixels() {
	if t.middleware != nil && t.middleware.TextAreaSizePixels != nil {
		t.middleware.TextAreaSizePixels(t.textAreaSizePixelsInternal)
		return
	}
	t.textAreaSizePixelsInternal()
}

func (t *Terminal) textAreaSizePixelsInternal() {
	t.mu.RLock()
	rows := t.rows
	cols := t.cols
	t.mu.RUnlock()

	cellWidth, cellHeight := t.getCellSizePixels()
	t.writeResponseString(fmt.Sprintf("\x1b[4;%d;%dt", rows*cellHeight, cols*cellWidth))
}

// UnsetKeypadApplicationMode disables application keypad mode (numeric keypad sends digits).
func (t *Terminal) UnsetKeypadApplicationMode() {
	if t.middleware != nil && t.middleware.UnsetKeypadApplicationMode != nil {
		t.middleware.UnsetKeypadApplicationMode(t.unsetKeypadApplicationModeInternal)
		return
	}
	t.unsetKeypadApplicationModeInternal()
}

func (t *Terminal) unsetKeypadApplicationModeInternal() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.modes &^= ModeKeypadApplication
}

// UnsetMode disables a terminal mode. Some modes have side effects: the
// alternate-screen modes restore the primary buffer.
func (t *Terminal) UnsetMode(mode ansi.Mode) {
	if t.middleware != nil && t.middleware.UnsetMode != nil {
		t.middleware.UnsetMode(mode, t.unsetModeInternal)
		return
	}
	t.unsetModeInternal(mode)
}

func (t *Terminal) unsetModeInternal(mode ansi.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setModeLocked(mode, false)
}

// getCellSizePixels returns the cell size in pixels.
// Uses the SizeProvider if available, otherwise defaults to 10x20.
func (t *Terminal) getCellSizePixels() (width, height int) {
	if t.sizeProvider != nil {
		w, h := t.sizeProvider.CellSizePixels()
		if w > 0 && h > 0 {
			return w, h
		}
	}
	return 10, 20
}
