package contour

import (
	"crypto/sha256"
	"sync"
)

// ImageData stores decoded image pixels and metadata. Pixels are always RGBA.
type ImageData struct {
	ID     uint32
	Width  uint32
	Height uint32
	Data   []byte

	hash     [32]byte
	lastUsed uint64
}

// ImagePlacement represents a displayed instance of an image.
type ImagePlacement struct {
	ID      uint32 // Unique placement ID
	ImageID uint32 // Reference to ImageData

	// Position in terminal (cell coordinates)
	Row, Col int

	// Size in cells
	Cols, Rows int

	// Source region (crop from original image)
	SrcX, SrcY uint32
	SrcW, SrcH uint32

	// Z-index for layering (-1 = behind text, 0+ = in front)
	ZIndex int32

	// Sub-cell offset in pixels
	OffsetX, OffsetY uint32
}

// CellImage is a lightweight reference stored in each Cell.
// It contains UV coordinates for rendering the correct slice of the image.
type CellImage struct {
	PlacementID uint32
	ImageID     uint32

	// Normalized texture coordinates (0.0 - 1.0)
	U0, V0 float32 // Top-left corner
	U1, V1 float32 // Bottom-right corner

	ZIndex int32
}

// defaultImageMemory is the image memory budget before pruning.
const defaultImageMemory = 320 * 1024 * 1024

// ImageManager handles storage, placement, and lifecycle of terminal images.
// Identical pixel data is deduplicated by hash; unplaced images are pruned
// least-recently-used when the memory budget is exceeded.
type ImageManager struct {
	mu sync.RWMutex

	images     map[uint32]*ImageData
	placements map[uint32]*ImagePlacement
	hashToID   map[[32]byte]uint32

	nextImageID     uint32
	nextPlacementID uint32

	// Monotonic access clock for LRU pruning.
	clock uint64

	maxMemory  int64
	usedMemory int64

	// Kitty chunked-transfer state.
	accumulator     []byte
	accumulatorID   uint32
	accumulatorMore bool
}

// NewImageManager creates an ImageManager with the default memory budget.
func NewImageManager() *ImageManager {
	return &ImageManager{
		images:     make(map[uint32]*ImageData),
		placements: make(map[uint32]*ImagePlacement),
		hashToID:   make(map[[32]byte]uint32),
		maxMemory:  defaultImageMemory,
	}
}

// SetMaxMemory sets the maximum memory budget for images.
func (m *ImageManager) SetMaxMemory(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxMemory = bytes
}

// Store adds image data and returns its ID.
// If an identical image exists (same hash), returns the existing ID.
func (m *ImageManager) Store(width, height uint32, data []byte) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := sha256.Sum256(data)

	if existingID, ok := m.hashToID[hash]; ok {
		if img, ok := m.images[existingID]; ok {
			m.clock++
			img.lastUsed = m.clock
			return existingID
		}
	}

	m.nextImageID++
	id := m.nextImageID
	m.storeLocked(id, width, height, data, hash)
	return id
}

// StoreWithID adds image data with a specific ID (used by the Kitty protocol).
func (m *ImageManager) StoreWithID(id, width, height uint32, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(old.Data))
		delete(m.hashToID, old.hash)
	}

	m.storeLocked(id, width, height, data, sha256.Sum256(data))
	if id >= m.nextImageID {
		m.nextImageID = id + 1
	}
}

func (m *ImageManager) storeLocked(id, width, height uint32, data []byte, hash [32]byte) {
	m.clock++
	m.images[id] = &ImageData{
		ID:       id,
		Width:    width,
		Height:   height,
		Data:     data,
		hash:     hash,
		lastUsed: m.clock,
	}
	m.hashToID[hash] = id
	m.usedMemory += int64(len(data))

	if m.usedMemory > m.maxMemory {
		m.pruneLocked()
	}
}

// Image returns the image data for the given ID, or nil if not found.
func (m *ImageManager) Image(id uint32) *ImageData {
	m.mu.Lock()
	defer m.mu.Unlock()

	if img, ok := m.images[id]; ok {
		m.clock++
		img.lastUsed = m.clock
		return img
	}
	return nil
}

// Place creates a new placement and returns its ID.
func (m *ImageManager) Place(p *ImagePlacement) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPlacementID++
	p.ID = m.nextPlacementID
	m.placements[p.ID] = p

	return p.ID
}

// Placement returns the placement for the given ID, or nil if not found.
func (m *ImageManager) Placement(id uint32) *ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.placements[id]
}

// Placements returns all current placements.
func (m *ImageManager) Placements() []*ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ImagePlacement, 0, len(m.placements))
	for _, p := range m.placements {
		result = append(result, p)
	}
	return result
}

// RemovePlacement removes a placement by ID.
func (m *ImageManager) RemovePlacement(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.placements, id)
}

// RemovePlacementsForImage removes all placements for a given image ID.
func (m *ImageManager) RemovePlacementsForImage(imageID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.ImageID == imageID {
			delete(m.placements, id)
		}
	}
}

// DeleteImage removes an image and all its placements.
func (m *ImageManager) DeleteImage(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if img, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(img.Data))
		delete(m.hashToID, img.hash)
		delete(m.images, id)
	}

	for pid, p := range m.placements {
		if p.ImageID == id {
			delete(m.placements, pid)
		}
	}
}

// Clear removes all images and placements.
func (m *ImageManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.images = make(map[uint32]*ImageData)
	m.placements = make(map[uint32]*ImagePlacement)
	m.hashToID = make(map[[32]byte]uint32)
	m.usedMemory = 0
	m.accumulator = nil
	m.accumulatorMore = false
}

// UsedMemory returns the current memory usage in bytes.
func (m *ImageManager) UsedMemory() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usedMemory
}

// ImageCount returns the number of stored images.
func (m *ImageManager) ImageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}

// PlacementCount returns the number of active placements.
func (m *ImageManager) PlacementCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.placements)
}

// pruneLocked removes least recently used unplaced images until under budget.
func (m *ImageManager) pruneLocked() {
	referenced := make(map[uint32]bool)
	for _, p := range m.placements {
		referenced[p.ImageID] = true
	}

	for m.usedMemory > m.maxMemory {
		var victim *ImageData
		for id, img := range m.images {
			if referenced[id] {
				continue
			}
			if victim == nil || img.lastUsed < victim.lastUsed {
				victim = img
			}
		}
		if victim == nil {
			return
		}
		m.usedMemory -= int64(len(victim.Data))
		delete(m.hashToID, victim.hash)
		delete(m.images, victim.ID)
	}
}

// DeletePlacementsByPosition removes placements that overlap a given cell position.
func (m *ImageManager) DeletePlacementsByPosition(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if row >= p.Row && row < p.Row+p.Rows &&
			col >= p.Col && col < p.Col+p.Cols {
			delete(m.placements, id)
		}
	}
}

// DeletePlacementsByZIndex removes placements with a specific z-index.
func (m *ImageManager) DeletePlacementsByZIndex(z int32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.ZIndex == z {
			delete(m.placements, id)
		}
	}
}

// DeletePlacementsInRow removes all placements that intersect a given row.
func (m *ImageManager) DeletePlacementsInRow(row int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if row >= p.Row && row < p.Row+p.Rows {
			delete(m.placements, id)
		}
	}
}

// DeletePlacementsInColumn removes all placements that intersect a given column.
func (m *ImageManager) DeletePlacementsInColumn(col int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if col >= p.Col && col < p.Col+p.Cols {
			delete(m.placements, id)
		}
	}
}
