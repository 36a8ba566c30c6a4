package engine

// PlaceholderSize is the edge length of the default content a sticker shows
// before its image is supplied.
const PlaceholderSize = 192

// Sticker is a movable, scalable, rotatable overlay placed on a board.
// It owns its transform, its corner cache and its menu attachments; the
// image itself lives with the content provider and is referenced by AssetID.
//
// A Sticker is not safe for concurrent use.
type Sticker struct {
	id      string
	assetID string
	width   uint32
	height  uint32

	matrix Matrix2D

	active  bool
	deleted bool

	layerKey int64

	minSize  uint32
	maxSize  uint32
	autoLift bool

	filter *ColorFilter
	menus  [numPositions]*Menu

	corners      [numPositions]Point
	cornersDirty bool
}

// NewSticker creates a sticker showing width x height content at the origin.
func NewSticker(id string, width, height uint32, layerKey int64) *Sticker {
	return &Sticker{
		id:           id,
		width:        width,
		height:       height,
		matrix:       Identity(),
		layerKey:     layerKey,
		cornersDirty: true,
	}
}

// NewPlaceholderSticker creates a sticker with the default placeholder content.
func NewPlaceholderSticker(id string, layerKey int64) *Sticker {
	return NewSticker(id, PlaceholderSize, PlaceholderSize, layerKey)
}

func (s *Sticker) ID() string      { return s.id }
func (s *Sticker) AssetID() string { return s.assetID }

// ContentSize returns the untransformed content size.
func (s *Sticker) ContentSize() (uint32, uint32) {
	return s.width, s.height
}

// SetContent swaps the sticker's content. The transform is kept.
func (s *Sticker) SetContent(assetID string, width, height uint32) {
	s.assetID = assetID
	s.width = width
	s.height = height
	s.cornersDirty = true
}

// Matrix returns the current placement transform.
func (s *Sticker) Matrix() Matrix2D {
	return s.matrix
}

// SetMatrix replaces the placement transform. Used when restoring a board.
func (s *Sticker) SetMatrix(m Matrix2D) {
	s.matrix = m
	s.cornersDirty = true
}

// --- Geometry ---

func (s *Sticker) contentRect() Rect {
	return Rect{Width: float64(s.width), Height: float64(s.height)}
}

// Bounds returns the axis-aligned bounding box of the transformed content.
func (s *Sticker) Bounds() Rect {
	return s.matrix.TransformRect(s.contentRect())
}

// CornerPoints returns the transformed content corners in the order
// TopLeft, TopRight, BottomRight, BottomLeft.
func (s *Sticker) CornerPoints() [4]Point {
	if s.cornersDirty {
		w, h := float64(s.width), float64(s.height)
		s.corners[TopLeft] = s.matrix.MapPoint(Point{0, 0})
		s.corners[TopRight] = s.matrix.MapPoint(Point{w, 0})
		s.corners[BottomRight] = s.matrix.MapPoint(Point{w, h})
		s.corners[BottomLeft] = s.matrix.MapPoint(Point{0, h})
		s.cornersDirty = false
	}
	return s.corners
}

// Contains reports whether (x, y) falls inside the sticker's quadrilateral.
func (s *Sticker) Contains(x, y float64) bool {
	if !s.Bounds().Contains(x, y) {
		return false
	}
	c := s.CornerPoints()
	return PolygonContains(c[:], Point{X: x, Y: y})
}

// --- Transform ---

// SetInitScale scales about the canvas origin. Used to seed a new sticker.
func (s *Sticker) SetInitScale(scale float64) {
	s.matrix.PostScale(scale, scale, 0, 0)
	s.cornersDirty = true
}

// SetInitTranslate translates a new sticker into place.
func (s *Sticker) SetInitTranslate(tx, ty float64) {
	s.Translate(tx, ty)
}

// Translate moves the sticker by (dx, dy).
func (s *Sticker) Translate(dx, dy float64) {
	s.matrix.PostTranslate(dx, dy)
	s.cornersDirty = true
}

// ScaleAboutCenter scales around the center of the current bounds.
// It does not consult CanScale.
func (s *Sticker) ScaleAboutCenter(sx, sy float64) {
	cx, cy := s.Bounds().Center()
	s.matrix.PostScale(sx, sy, cx, cy)
	s.cornersDirty = true
}

// RotateAboutCenter rotates by degrees around the center of the current bounds.
func (s *Sticker) RotateAboutCenter(degrees float64) {
	cx, cy := s.Bounds().Center()
	s.matrix.PostRotate(degrees, cx, cy)
	s.cornersDirty = true
}

// FlipHorizontal mirrors the sticker about its vertical center line.
func (s *Sticker) FlipHorizontal() {
	s.ScaleAboutCenter(-1, 1)
}

// CanScale reports whether a scale gesture by factor should be applied.
// The top and right edges are measured as they would be after the gesture:
// growing is allowed while the longer one stays under maxSize, shrinking
// while the shorter one stays over minSize. Both branches treat
// maxSize <= 0 as unconstrained.
func (s *Sticker) CanScale(factor float64) bool {
	c := s.CornerPoints()
	length1 := Distance(c[TopLeft], c[TopRight]) * factor
	length2 := Distance(c[TopRight], c[BottomRight]) * factor
	switch {
	case factor > 1:
		return s.maxSize <= 0 || max(length1, length2) < float64(s.maxSize)
	case factor < 1:
		// The shrink branch keys off maxSize too; a sticker with only a
		// minSize set shrinks freely.
		return s.maxSize <= 0 || min(length1, length2) > float64(s.minSize)
	default:
		return true
	}
}

// --- Size constraints ---

func (s *Sticker) MinSize() uint32 { return s.minSize }
func (s *Sticker) MaxSize() uint32 { return s.maxSize }

// SetMinSize sets the minimum edge length. 0 disables the bound.
func (s *Sticker) SetMinSize(v uint32) { s.minSize = v }

// SetMaxSize sets the maximum edge length. 0 disables the bound.
func (s *Sticker) SetMaxSize(v uint32) { s.maxSize = v }

// --- State ---

func (s *Sticker) IsActive() bool  { return s.active }
func (s *Sticker) IsDeleted() bool { return s.deleted }

// SetActive selects or deselects the sticker. Deleted stickers stay inactive.
func (s *Sticker) SetActive(active bool) {
	if s.deleted {
		return
	}
	s.active = active
}

// Delete marks the sticker deleted. There is no way back.
func (s *Sticker) Delete() {
	s.deleted = true
	s.active = false
}

// AutoLift reports whether selecting the sticker brings it to the front.
func (s *Sticker) AutoLift() bool        { return s.autoLift }
func (s *Sticker) SetAutoLift(lift bool) { s.autoLift = lift }

// --- Layering ---

// LayerKey orders stickers: larger keys draw later, on top.
func (s *Sticker) LayerKey() int64 { return s.layerKey }

// SetLayerKey restores a persisted key.
func (s *Sticker) SetLayerKey(key int64) { s.layerKey = key }

// BringToFront places the sticker above every key clock has issued.
func (s *Sticker) BringToFront(clock LayerClock) {
	s.layerKey = clock.Next()
}

// BringToBack places the sticker below every front key and below every
// earlier back placement.
func (s *Sticker) BringToBack(clock LayerClock) {
	s.layerKey = -clock.Next()
}

// --- Attachments ---

// ColorFilter returns the active tint, or nil.
func (s *Sticker) ColorFilter() *ColorFilter { return s.filter }

// SetColorFilter tints the sticker. Any channel equal to NoColor clears
// the filter instead.
func (s *Sticker) SetColorFilter(r, g, b int) {
	if r == NoColor || g == NoColor || b == NoColor {
		s.filter = nil
		return
	}
	s.filter = NewTintFilter(r, g, b)
}

// ClearColorFilter removes the tint.
func (s *Sticker) ClearColorFilter() {
	s.filter = nil
}

// AddMenus attaches menus by position, replacing any menu already there.
// Menus with an invalid position are ignored.
func (s *Sticker) AddMenus(menus ...*Menu) {
	for _, m := range menus {
		if m == nil || !m.Position.Valid() {
			continue
		}
		m.attach(s)
		s.menus[m.Position] = m
	}
}

// MenuAt returns the menu at pos, or nil.
func (s *Sticker) MenuAt(pos Position) *Menu {
	if !pos.Valid() {
		return nil
	}
	return s.menus[pos]
}

// Menus returns the attached menus in corner order.
func (s *Sticker) Menus() []*Menu {
	out := make([]*Menu, 0, len(s.menus))
	for _, m := range s.menus {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
