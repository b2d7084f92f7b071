package contour

import (
	"image/color"
	"log/slog"
	"sync"

	"github.com/markusbkk/contour/ansi"
	"github.com/markusbkk/contour/input"
)

// Ensure Terminal implements ansi.Handler
var _ ansi.Handler = (*Terminal)(nil)

const (
	// DefaultRows is the default number of terminal rows.
	DefaultRows = 24
	// DefaultCols is the default number of terminal columns.
	DefaultCols = 80
)

// defaultWordDelimiters separate words for wordwise selection.
const defaultWordDelimiters = " \t()[]{}<>'\"|,;"

// Terminal is the terminal emulator core: it consumes a PTY byte stream and
// maintains the screen model. It keeps two screens: primary (with scrollback)
// and alternate (no scrollback, no reflow), switched through the DEC private
// modes 47/1047/1049. All methods are safe for concurrent use; the internal
// lock is the screen lock shared between the I/O path and renderer snapshots.
type Terminal struct {
	mu sync.RWMutex

	// Dimensions
	rows int
	cols int

	// Screens
	primaryBuffer   *Buffer
	alternateBuffer *Buffer
	activeBuffer    *Buffer

	// Cursor
	cursor      *Cursor
	savedCursor *SavedCursor

	// Current cell attributes
	template CellTemplate

	// Charsets
	charsets      [4]Charset
	activeCharset int

	// Scrolling region
	scrollTop    int
	scrollBottom int

	// Modes
	modes TerminalMode

	// Cursor blink phase, driven by BlinkTick.
	blinkOff bool

	// Title
	title      string
	titleStack []string

	// Colors
	colors map[int]color.Color

	// Hyperlinks
	links            *HyperlinkTable
	currentHyperlink HyperlinkID

	// Keyboard mode
	keyboardModes   []ansi.KeyboardMode
	modifyOtherKeys ansi.ModifyOtherKeys

	// Internal sequence decoder
	decoder *ansi.Decoder

	// Selection & search
	selection      Selection
	wordDelimiters string

	// Viewport scroll offset: lines of scrollback shown above the page.
	scrollOffset int

	// Scrollback provider
	scrollbackStorage ScrollbackProvider

	// Middleware for handler interception
	middleware *Middleware

	// Providers for external data/actions
	responseProvider     ResponseProvider
	bellProvider         BellProvider
	titleProvider        TitleProvider
	apcProvider          APCProvider
	pmProvider           PMProvider
	sosProvider          SOSProvider
	clipboardProvider    ClipboardProvider
	notificationProvider NotificationProvider
	recordingProvider    RecordingProvider
	semanticPromptHandler SemanticPromptHandler
	sizeProvider         SizeProvider

	// Shell integration
	promptMarks []PromptMark

	// Working directory (OSC 7)
	workingDir string

	// User variables (OSC 1337 SetUserVar)
	userVars map[string]string

	// Image manager for Sixel and Kitty graphics
	images *ImageManager

	// Image protocol flags
	sixelEnabled bool
	kittyEnabled bool
}

// Option configures a Terminal during construction.
type Option func(*Terminal)

// WithSize sets the terminal dimensions.
// Values <= 0 are replaced with defaults (24x80).
func WithSize(rows, cols int) Option {
	if rows <= 0 {
		rows = DefaultRows
	}
	if cols <= 0 {
		cols = DefaultCols
	}

	return func(t *Terminal) {
		t.rows = rows
		t.cols = cols
	}
}

// WithResponse sets the writer for terminal responses (e.g., cursor position reports).
// If nil, responses are discarded.
func WithResponse(p ResponseProvider) Option {
	return func(t *Terminal) {
		t.responseProvider = p
	}
}

// WithBell sets the handler for bell/beep events.
// Defaults to a no-op if not set.
func WithBell(p BellProvider) Option {
	return func(t *Terminal) {
		t.bellProvider = p
	}
}

// WithTitle sets the handler for window title changes.
// Defaults to a no-op if not set.
func WithTitle(p TitleProvider) Option {
	return func(t *Terminal) {
		t.titleProvider = p
	}
}

// WithAPC sets the handler for Application Program Command sequences.
// Defaults to a no-op if not set.
func WithAPC(p APCProvider) Option {
	return func(t *Terminal) {
		t.apcProvider = p
	}
}

// WithPM sets the handler for Privacy Message sequences.
// Defaults to a no-op if not set.
func WithPM(p PMProvider) Option {
	return func(t *Terminal) {
		t.pmProvider = p
	}
}

// WithSOS sets the handler for Start of String sequences.
// Defaults to a no-op if not set.
func WithSOS(p SOSProvider) Option {
	return func(t *Terminal) {
		t.sosProvider = p
	}
}

// WithClipboard sets the handler for clipboard read/write operations (OSC 52).
// Defaults to a no-op if not set.
func WithClipboard(p ClipboardProvider) Option {
	return func(t *Terminal) {
		t.clipboardProvider = p
	}
}

// WithNotification sets the handler for desktop notifications (OSC 9/777).
// Defaults to a no-op if not set.
func WithNotification(p NotificationProvider) Option {
	return func(t *Terminal) {
		t.notificationProvider = p
	}
}

// WithScrollback sets the storage for scrollback lines.
// Lines scrolled off the top are pushed here. Defaults to a no-op if not set.
func WithScrollback(storage ScrollbackProvider) Option {
	return func(t *Terminal) {
		t.scrollbackStorage = storage
	}
}

// WithMiddleware sets functions to intercept handler calls.
// Each middleware receives the original parameters and a next function to call the default implementation.
func WithMiddleware(mw *Middleware) Option {
	return func(t *Terminal) {
		if t.middleware == nil {
			t.middleware = &Middleware{}
		}
		t.middleware.Merge(mw)
	}
}

// WithRecording sets the handler for capturing raw input bytes before parsing.
// Useful for replay, debugging, or regression testing.
func WithRecording(p RecordingProvider) Option {
	return func(t *Terminal) {
		t.recordingProvider = p
	}
}

// WithSemanticPrompt sets the handler for semantic prompt events (OSC 133).
func WithSemanticPrompt(p SemanticPromptHandler) Option {
	return func(t *Terminal) {
		t.semanticPromptHandler = p
	}
}

// WithSizeProvider sets the provider for pixel dimension queries.
func WithSizeProvider(p SizeProvider) Option {
	return func(t *Terminal) {
		t.sizeProvider = p
	}
}

// WithWordDelimiters sets the delimiter characters used by wordwise selection.
func WithWordDelimiters(delimiters string) Option {
	return func(t *Terminal) {
		t.wordDelimiters = delimiters
	}
}

// WithLogger routes unknown-sequence diagnostics to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Terminal) {
		t.decoder.SetLogger(logger)
	}
}

// WithSixel enables or disables Sixel graphics protocol support.
// When disabled, Sixel sequences are ignored.
// Default is true (enabled).
func WithSixel(enabled bool) Option {
	return func(t *Terminal) {
		t.sixelEnabled = enabled
	}
}

// WithKitty enables or disables Kitty graphics protocol support.
// When disabled, Kitty graphics APC sequences are ignored.
// Default is true (enabled).
func WithKitty(enabled bool) Option {
	return func(t *Terminal) {
		t.kittyEnabled = enabled
	}
}

// New creates a terminal with the given options.
// Defaults to 24x80 with line wrap and cursor visible.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		rows:                 DefaultRows,
		cols:                 DefaultCols,
		colors:               make(map[int]color.Color),
		keyboardModes:        make([]ansi.KeyboardMode, 0),
		bellProvider:         NoopBell{},
		titleProvider:        NoopTitle{},
		apcProvider:          NoopAPC{},
		pmProvider:           NoopPM{},
		sosProvider:          NoopSOS{},
		clipboardProvider:    NoopClipboard{},
		notificationProvider: NoopNotification{},
		recordingProvider:    NoopRecording{},
		wordDelimiters:       defaultWordDelimiters,
		userVars:             make(map[string]string),
		sixelEnabled:         true,
		kittyEnabled:         true,
	}

	// The decoder exists before options run so WithLogger can reach it.
	t.decoder = ansi.NewDecoder(t)

	for _, opt := range opts {
		opt(t)
	}

	t.links = NewHyperlinkTable()

	if t.scrollbackStorage == nil {
		t.scrollbackStorage = NoopScrollback{}
	}
	if mem, ok := t.scrollbackStorage.(*MemoryScrollback); ok {
		mem.SetEvictFunc(t.onScrollbackEvict)
	}

	t.primaryBuffer = NewBufferWithStorage(t.rows, t.cols, t.scrollbackStorage)
	t.primaryBuffer.SetHyperlinkTable(t.links)
	t.alternateBuffer = NewBuffer(t.rows, t.cols) // Alternate buffer has no scrollback
	t.alternateBuffer.SetHyperlinkTable(t.links)
	t.alternateBuffer.SetWrappable(false)
	t.activeBuffer = t.primaryBuffer

	t.cursor = NewCursor()
	t.template = NewCellTemplate()

	t.scrollTop = 0
	t.scrollBottom = t.rows

	t.modes = defaultModes

	t.images = NewImageManager()

	return t
}

// onScrollbackEvict releases per-cell state of a history line dropped from
// bounded storage and keeps absolute-row anchors consistent.
func (t *Terminal) onScrollbackEvict(cells []Cell) {
	t.links.ReleaseLine(cells)
	t.selectionShift(-1)
	for i := range t.promptMarks {
		t.promptMarks[i].Row--
	}
}

// Rows returns the terminal height in character rows.
func (t *Terminal) Rows() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rows
}

// Cols returns the terminal width in character columns.
func (t *Terminal) Cols() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cols
}

// Cell returns the cell at (row, col) in the active screen.
// Returns nil if coordinates are out of bounds.
func (t *Terminal) Cell(row, col int) *Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeBuffer.Cell(row, col)
}

// GridLine returns the cells of the line at the given offset: 0 is the top
// of the page, negative offsets reach into scrollback (-1 is the newest
// history line). Returns nil when the offset is out of range.
func (t *Terminal) GridLine(offset int) []Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if offset >= 0 {
		if line := t.activeBuffer.Line(offset); line != nil {
			return line.cells
		}
		return nil
	}

	index := t.primaryBuffer.ScrollbackLen() + offset
	return t.primaryBuffer.ScrollbackLine(index)
}

// HistoryLineCount returns the number of lines currently held in scrollback.
func (t *Terminal) HistoryLineCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.primaryBuffer.ScrollbackLen()
}

// CursorPos returns the current cursor position (0-based).
func (t *Terminal) CursorPos() (row, col int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor.Row, t.cursor.Col
}

// CursorVisible returns true if the cursor is currently visible.
func (t *Terminal) CursorVisible() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor.Visible
}

// CursorStyle returns the current cursor rendering style.
func (t *Terminal) CursorStyle() CursorStyle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cursor.Style
}

// CursorPhase returns the combined visibility and blink state, driven by the
// mode set, DECSCUSR style, and BlinkTick.
func (t *Terminal) CursorPhase() CursorPhase {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.modes&ModeShowCursor == 0 {
		return CursorPhaseHidden
	}

	blinking := t.modes&ModeBlinkingCursor != 0
	switch t.cursor.Style {
	case CursorStyleBlinkingBlock, CursorStyleBlinkingUnderline, CursorStyleBlinkingBar:
		blinking = true
	}

	if !blinking {
		return CursorPhaseSteady
	}
	if t.blinkOff {
		return CursorPhaseBlinkOff
	}
	return CursorPhaseBlinkOn
}

// BlinkTick advances the blink timer by one half-period.
// The renderer calls this at its blink interval.
func (t *Terminal) BlinkTick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.blinkOff = !t.blinkOff
}

// Title returns the current window title string.
func (t *Terminal) Title() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.title
}

// HasMode returns true if the specified mode flag is enabled.
func (t *Terminal) HasMode(mode TerminalMode) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modes&mode != 0
}

// ModeValueFor reports the DECRQM answer for a wire mode request.
func (t *Terminal) ModeValueFor(mode ansi.Mode) ModeValue {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.modeValueLocked(mode)
}

func (t *Terminal) modeValueLocked(mode ansi.Mode) ModeValue {
	m, ok := modeFromAnsi(mode.Mode)
	if !ok {
		return ModeValueNotRecognized
	}
	if m == ModeColumnMode {
		// DECCOLM is not supported; the column count is host-controlled.
		return ModeValuePermanentlyReset
	}
	if t.modes&m != 0 {
		return ModeValueSet
	}
	return ModeValueReset
}

// Resize changes the terminal dimensions. The primary screen reflows
// soft-wrapped content into the new width; the alternate screen crops and
// pads. Scroll margins reset to the full page and the cursor is clamped.
// Invalid dimensions (<= 0) are ignored.
func (t *Terminal) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if rows == t.rows && cols == t.cols {
		return
	}

	primaryCursor := *t.cursor
	if t.activeBuffer != t.primaryBuffer {
		// Reflow tracks the saved primary cursor while the alternate
		// screen is displayed.
		if t.savedCursor != nil {
			primaryCursor = Cursor{Row: t.savedCursor.Row, Col: t.savedCursor.Col}
		}
	}

	t.primaryBuffer.ResizeReflow(rows, cols, &primaryCursor)
	t.alternateBuffer.Resize(rows, cols)

	if t.activeBuffer == t.primaryBuffer {
		*t.cursor = primaryCursor
	} else {
		clampCursor(t.cursor, rows, cols)
		if t.savedCursor != nil {
			t.savedCursor.Row = primaryCursor.Row
			t.savedCursor.Col = primaryCursor.Col
		}
	}

	t.rows = rows
	t.cols = cols
	t.scrollTop = 0
	t.scrollBottom = rows
	t.scrollOffset = 0

	t.selectionValidate()
}

// Write processes raw bytes, parsing escape sequences and updating the
// terminal state. Implements io.Writer.
func (t *Terminal) Write(data []byte) (int, error) {
	t.recordingProvider.Record(data)
	return t.decoder.Write(data)
}

// WriteString is a convenience method that converts the string to bytes and calls Write.
func (t *Terminal) WriteString(s string) (int, error) {
	return t.Write([]byte(s))
}

// clamp ensures the value is within the given range.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// effectiveRow returns the effective row considering origin mode.
func (t *Terminal) effectiveRow(row int) int {
	if t.modes&ModeOrigin != 0 {
		return row + t.scrollTop
	}
	return row
}

// scrollIfNeeded performs scrolling if the cursor left the scroll region.
func (t *Terminal) scrollIfNeeded() {
	fill := t.template.fillCell()
	if t.cursor.Row >= t.scrollBottom {
		linesToScroll := t.cursor.Row - t.scrollBottom + 1
		t.scrollUpLocked(t.scrollTop, t.scrollBottom, linesToScroll, &fill)
		t.cursor.Row = t.scrollBottom - 1
	} else if t.cursor.Row < t.scrollTop {
		linesToScroll := t.scrollTop - t.cursor.Row
		t.activeBuffer.ScrollDown(t.scrollTop, t.scrollBottom, linesToScroll, &fill)
		t.cursor.Row = t.scrollTop
	}
}

// scrollUpLocked scrolls the region up, keeping selection anchors aligned
// when lines enter scrollback.
func (t *Terminal) scrollUpLocked(top, bottom, n int, fill *Cell) {
	evicting := top == 0 && t.activeBuffer == t.primaryBuffer &&
		t.primaryBuffer.MaxScrollback() > 0
	t.activeBuffer.ScrollUp(top, bottom, n, fill)
	if evicting {
		// Anchors follow their content into scrollback; the eviction hook
		// handles lines dropped past the cap.
		return
	}
	if top == 0 && t.activeBuffer == t.primaryBuffer {
		// Content moved up with no history to land in.
		t.selectionShift(-n)
		return
	}
	// Region scrolls discard lines; any selection inside is stale.
	t.selectionDamageRows(top, bottom)
}

// writeResponse writes a response back via the response provider if set.
// Thread-safe: reads responseProvider with lock to avoid race conditions.
func (t *Terminal) writeResponse(data []byte) {
	t.mu.RLock()
	provider := t.responseProvider
	t.mu.RUnlock()

	if provider != nil {
		provider.Write(data)
	}
}

// writeResponseString writes a string response back via the writer if set.
func (t *Terminal) writeResponseString(s string) {
	t.writeResponse([]byte(s))
}

// --- Viewport ---

// ViewportOffset returns how many history lines are scrolled into view
// above the page. Zero means the live page bottom is visible.
func (t *Terminal) ViewportOffset() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollOffset
}

// ScrollViewport moves the viewport by delta lines: positive into history,
// negative toward the live page. The offset clamps to the stored history.
func (t *Terminal) ScrollViewport(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	max := t.primaryBuffer.ScrollbackLen()
	if t.activeBuffer != t.primaryBuffer {
		max = 0
	}
	t.scrollOffset = clamp(t.scrollOffset+delta, 0, max)
}

// ResetViewport snaps the viewport back to the live page.
func (t *Terminal) ResetViewport() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scrollOffset = 0
}

// viewportLine returns the cells shown at viewport row, honouring the
// scroll offset. Caller must hold the lock.
func (t *Terminal) viewportLine(row int) []Cell {
	if t.scrollOffset == 0 || t.activeBuffer != t.primaryBuffer {
		if line := t.activeBuffer.Line(row); line != nil {
			return line.cells
		}
		return nil
	}

	historyLen := t.primaryBuffer.ScrollbackLen()
	abs := historyLen - t.scrollOffset + row
	if abs < historyLen {
		return t.primaryBuffer.ScrollbackLine(abs)
	}
	if line := t.activeBuffer.Line(abs - historyLen); line != nil {
		return line.cells
	}
	return nil
}

// --- Scrollback Methods ---

// ScrollbackLen returns the number of lines stored in scrollback (primary screen only).
func (t *Terminal) ScrollbackLen() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.primaryBuffer.ScrollbackLen()
}

// ScrollbackLine returns a line from scrollback, where 0 is the oldest line.
// Returns nil if index is out of range.
func (t *Terminal) ScrollbackLine(index int) []Cell {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.primaryBuffer.ScrollbackLine(index)
}

// ClearScrollback removes all stored scrollback lines.
func (t *Terminal) ClearScrollback() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.primaryBuffer.ClearScrollback()
	t.scrollOffset = 0
}

// SetMaxScrollback sets the maximum number of scrollback lines to retain.
// Older lines are automatically removed when the limit is exceeded.
func (t *Terminal) SetMaxScrollback(max int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.primaryBuffer.SetMaxScrollback(max)
}

// MaxScrollback returns the current maximum scrollback capacity.
func (t *Terminal) MaxScrollback() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.primaryBuffer.MaxScrollback()
}

// --- Dirty Tracking Methods ---

// HasDirty returns true if any line in the active screen was modified since the last ClearDirty call.
func (t *Terminal) HasDirty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeBuffer.HasDirty()
}

// DirtyLines returns the rows of all lines modified since the last ClearDirty call.
func (t *Terminal) DirtyLines() []int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeBuffer.DirtyLines()
}

// ClearDirty marks all lines as clean, resetting the dirty tracking state.
func (t *Terminal) ClearDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activeBuffer.ClearAllDirty()
}

// --- Convenience Methods ---

// LineContent returns the text content of a line, trimming trailing spaces.
// Returns empty string if the line contains only spaces or is out of bounds.
func (t *Terminal) LineContent(row int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeBuffer.LineContent(row)
}

// String returns the visible screen content as a newline-separated string
// with trailing blanks trimmed. Trailing empty lines are omitted.
// Implements fmt.Stringer.
func (t *Terminal) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var lines []string
	lastNonEmpty := -1

	for row := 0; row < t.rows; row++ {
		line := t.activeBuffer.LineContent(row)
		lines = append(lines, line)
		if line != "" {
			lastNonEmpty = row
		}
	}

	if lastNonEmpty < 0 {
		return ""
	}

	result := ""
	for i, line := range lines[:lastNonEmpty+1] {
		if i > 0 {
			result += "\n"
		}
		result += line
	}

	return result
}

// IsAlternateScreen returns true if the alternate screen is currently active.
// The alternate screen has no scrollback and is typically used by full-screen applications.
func (t *Terminal) IsAlternateScreen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeBuffer == t.alternateBuffer
}

// ScrollRegion returns the current scrolling boundaries (0-based, exclusive bottom).
// When origin mode is enabled, cursor positioning is relative to scrollTop.
func (t *Terminal) ScrollRegion() (top, bottom int) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollTop, t.scrollBottom
}

// IsWrapped returns true if the line was soft-wrapped, false if it ended with an explicit newline.
func (t *Terminal) IsWrapped(row int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.activeBuffer.IsWrapped(row)
}

// MarkLine toggles the user bookmark flag on a page line.
func (t *Terminal) MarkLine(row int, marked bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if line := t.activeBuffer.Line(row); line != nil {
		if marked {
			line.SetFlag(LineMarked)
		} else {
			line.ClearFlag(LineMarked)
		}
	}
}

// IsLineMarked reports the user bookmark flag of a page line.
func (t *Terminal) IsLineMarked(row int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if line := t.activeBuffer.Line(row); line != nil {
		return line.HasFlag(LineMarked)
	}
	return false
}

// Hyperlink resolves an interned hyperlink id from a cell.
func (t *Terminal) Hyperlink(id HyperlinkID) (Hyperlink, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.links.Lookup(id)
}

// HyperlinkCount returns the number of live interned hyperlinks.
func (t *Terminal) HyperlinkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.links.Len()
}

// WorkingDirectory returns the current working directory URI (OSC 7).
func (t *Terminal) WorkingDirectory() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.workingDir
}

// WorkingDirectoryPath extracts the path from the working directory URI.
func (t *Terminal) WorkingDirectoryPath() string {
	t.mu.RLock()
	uri := t.workingDir
	t.mu.RUnlock()

	const prefix = "file://"
	if len(uri) <= len(prefix) || uri[:len(prefix)] != prefix {
		return ""
	}
	rest := uri[len(prefix):]

	for i := 0; i < len(rest); i++ {
		if rest[i] == '/' {
			return rest[i:]
		}
	}
	return ""
}

// UserVar returns the value of an OSC 1337 user variable.
func (t *Terminal) UserVar(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.userVars[name]
	return v, ok
}

// --- Provider accessors ---

// SetResponseProvider sets the response provider at runtime.
func (t *Terminal) SetResponseProvider(p ResponseProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responseProvider = p
}

// ResponseProviderValue returns the current response provider.
func (t *Terminal) ResponseProviderValue() ResponseProvider {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.responseProvider
}

// SetBellProvider sets the bell provider at runtime.
func (t *Terminal) SetBellProvider(p BellProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bellProvider = p
}

// SetTitleProvider sets the title provider at runtime.
func (t *Terminal) SetTitleProvider(p TitleProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.titleProvider = p
}

// SetClipboardProvider sets the clipboard provider at runtime.
func (t *Terminal) SetClipboardProvider(c ClipboardProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clipboardProvider = c
}

// SetNotificationProvider sets the notification provider at runtime.
func (t *Terminal) SetNotificationProvider(p NotificationProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.notificationProvider = p
}

// SetMiddleware sets the middleware at runtime.
func (t *Terminal) SetMiddleware(mw *Middleware) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.middleware = mw
}

// SetRecordingProvider replaces the recording handler at runtime.
func (t *Terminal) SetRecordingProvider(p RecordingProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recordingProvider = p
}

// RecordedData returns all raw input bytes captured since the last ClearRecording call.
func (t *Terminal) RecordedData() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.recordingProvider.Data()
}

// ClearRecording discards all captured input data.
func (t *Terminal) ClearRecording() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.recordingProvider.Clear()
}

// SetSizeProvider sets the provider for pixel dimension queries.
func (t *Terminal) SetSizeProvider(p SizeProvider) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sizeProvider = p
}

// InputModes snapshots the live mode set for the input encoder.
func (t *Terminal) InputModes() input.Modes {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return input.Modes{
		ApplicationCursorKeys: t.modes&ModeCursorKeys != 0,
		ApplicationKeypad:     t.modes&ModeKeypadApplication != 0,
		MouseX10:              t.modes&ModeReportMouseX10 != 0,
		MouseClicks:           t.modes&ModeReportMouseClicks != 0,
		MouseButtonMotion:     t.modes&ModeReportCellMouseMotion != 0,
		MouseAnyMotion:        t.modes&ModeReportAllMouseMotion != 0,
		MouseUTF8:             t.modes&ModeUTF8Mouse != 0,
		MouseSGR:              t.modes&ModeSGRMouse != 0,
		MouseUrxvt:            t.modes&ModeUrxvtMouse != 0,
		FocusReporting:        t.modes&ModeReportFocusInOut != 0,
		BracketedPaste:        t.modes&ModeBracketedPaste != 0,
		AlternateScroll:       t.modes&ModeAlternateScroll != 0,
		AlternateScreen:       t.activeBuffer == t.alternateBuffer,
		LineFeedNewLine:       t.modes&ModeLineFeedNewLine != 0,
		ModifyOtherKeys:       int(t.modifyOtherKeys),
	}
}

// SixelEnabled returns true if Sixel graphics protocol is enabled.
func (t *Terminal) SixelEnabled() bool {
	return t.sixelEnabled
}

// KittyEnabled returns true if Kitty graphics protocol is enabled.
func (t *Terminal) KittyEnabled() bool {
	return t.kittyEnabled
}
