package engine

// Position tags a corner of a sticker's quadrilateral. Corners are always
// reported in this order.
type Position int

const (
	TopLeft Position = iota
	TopRight
	BottomRight
	BottomLeft

	numPositions
)

func (p Position) String() string {
	switch p {
	case TopLeft:
		return "topLeft"
	case TopRight:
		return "topRight"
	case BottomRight:
		return "bottomRight"
	case BottomLeft:
		return "bottomLeft"
	default:
		return "unknown"
	}
}

// Valid reports whether p is one of the four corner tags.
func (p Position) Valid() bool {
	return p >= TopLeft && p < numPositions
}

// MenuRole is what a corner decoration does when triggered.
type MenuRole string

const (
	MenuDelete MenuRole = "delete"
	MenuRotate MenuRole = "rotate"
	MenuScale  MenuRole = "scale"
	MenuFlip   MenuRole = "flip"
	MenuCustom MenuRole = "custom"
)

// DefaultMenuRadius is the hit radius of a menu handle in canvas pixels.
const DefaultMenuRadius = 24.0

// Menu is a handle decoration pinned to one corner of a sticker. It keeps
// only the sticker's ID so it never extends the sticker's lifetime; the
// Board resolves the ID when the menu is triggered.
type Menu struct {
	Position Position
	Role     MenuRole
	Radius   float64

	stickerID string
}

// NewMenu creates an unattached menu.
func NewMenu(pos Position, role MenuRole) *Menu {
	return &Menu{Position: pos, Role: role, Radius: DefaultMenuRadius}
}

// StickerID returns the owning sticker's ID, or "" when unattached.
func (m *Menu) StickerID() string {
	return m.stickerID
}

func (m *Menu) attach(s *Sticker) {
	m.stickerID = s.id
}

// Anchor returns the corner of s the menu is drawn at.
func (m *Menu) Anchor(s *Sticker) Point {
	return s.CornerPoints()[m.Position]
}

// HitTest reports whether (x, y) lands on the menu handle for s.
func (m *Menu) HitTest(s *Sticker, x, y float64) bool {
	return Distance(m.Anchor(s), Point{X: x, Y: y}) <= m.Radius
}

// MenuGesture carries the deltas a triggered menu forwards to its sticker.
type MenuGesture struct {
	Degrees float64 `json:"degrees,omitempty"`
	Factor  float64 `json:"factor,omitempty"`
}
