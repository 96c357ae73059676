// Package mouse turns raw tea.MouseMsg events into click/hover/scroll/drag
// actions against a declarative hit map, so dialogs and panes never parse
// mouse coordinates themselves.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const doubleClickWindow = 400 * time.Millisecond

// Rect is an axis-aligned region in screen cells. The right/bottom edges
// are exclusive, matching terminal cell addressing.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether (x, y) falls within r. A zero-width or
// zero-height rect contains nothing.
func (r Rect) Contains(x, y int) bool {
	if r.W <= 0 || r.H <= 0 {
		return false
	}
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named, hit-testable rect with caller-defined payload data.
type Region struct {
	ID   string
	Rect Rect
	Data interface{}
}

// HitMap is an ordered set of regions; later-added regions take priority
// on overlap, since they are assumed to render on top.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty hit map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region.
func (hm *HitMap) Add(id string, rect Rect, data interface{}) {
	hm.regions = append(hm.regions, Region{ID: id, Rect: rect, Data: data})
}

// AddRect is Add with the rect's fields spelled out.
func (hm *HitMap) AddRect(id string, x, y, w, h int, data interface{}) {
	hm.Add(id, Rect{X: x, Y: y, W: w, H: h}, data)
}

// Test returns the topmost region containing (x, y), or nil.
func (hm *HitMap) Test(x, y int) *Region {
	for i := len(hm.regions) - 1; i >= 0; i-- {
		if hm.regions[i].Rect.Contains(x, y) {
			r := hm.regions[i]
			return &r
		}
	}
	return nil
}

// Clear drops all registered regions. Callers rebuild the hit map each
// render pass.
func (hm *HitMap) Clear() {
	hm.regions = nil
}

// Regions returns a copy of the registered regions, safe for callers to
// mutate without affecting the hit map.
func (hm *HitMap) Regions() []Region {
	out := make([]Region, len(hm.regions))
	copy(out, hm.regions)
	return out
}

// ActionType classifies the result of HandleMouse.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
)

// Action is the normalized outcome of a single mouse event.
type Action struct {
	Type           ActionType
	Region         *Region
	Delta          int // scroll amount, signed
	DragDX, DragDY int
}

// ClickResult is the outcome of a raw HandleClick call.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks click/drag state across frames on top of a HitMap.
type Handler struct {
	HitMap *HitMap

	lastClickRegion string
	lastClickTime   time.Time

	dragging       bool
	dragRegion     string
	dragStartX     int
	dragStartY     int
	dragStartValue int
}

// NewHandler returns a Handler with a fresh, empty HitMap.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// Clear resets both the hit map and click/drag tracking state.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.lastClickRegion = ""
	h.lastClickTime = time.Time{}
	h.dragging = false
	h.dragRegion = ""
}

// HandleClick resolves a raw click coordinate against the hit map,
// folding in double-click detection. A successful double-click resets the
// tracker so a third click in the same spot starts a fresh single click.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	result := ClickResult{Region: region}
	if region == nil {
		h.lastClickRegion = ""
		return result
	}

	now := time.Now()
	if h.lastClickRegion == region.ID && now.Sub(h.lastClickTime) <= doubleClickWindow {
		result.IsDoubleClick = true
		h.lastClickRegion = ""
		h.lastClickTime = time.Time{}
		return result
	}

	h.lastClickRegion = region.ID
	h.lastClickTime = now
	return result
}

// StartDrag begins tracking a drag gesture anchored at (x, y) over the
// named region, remembering startValue (e.g. the sidebar width before the
// drag) so callers can compute an absolute new value from DragDelta.
func (h *Handler) StartDrag(x, y int, region string, startValue int) {
	h.dragging = true
	h.dragRegion = region
	h.dragStartX = x
	h.dragStartY = y
	h.dragStartValue = startValue
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the region name passed to StartDrag, or "" if not dragging.
func (h *Handler) DragRegion() string {
	if !h.dragging {
		return ""
	}
	return h.dragRegion
}

// DragStartValue returns the value captured when the drag began.
func (h *Handler) DragStartValue() int { return h.dragStartValue }

// DragDelta returns the offset of (x, y) from the drag's start point.
func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag stops drag tracking.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
}

// HandleMouse is the single entry point dialogs and panes call with each
// incoming tea.MouseMsg.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	if h.dragging {
		switch msg.Action {
		case tea.MouseActionMotion:
			dx, dy := h.DragDelta(msg.X, msg.Y)
			return Action{Type: ActionDrag, DragDX: dx, DragDY: dy}
		case tea.MouseActionRelease:
			h.EndDrag()
			return Action{Type: ActionDragEnd}
		}
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if msg.Shift {
				return Action{Type: ActionScrollLeft}
			}
			return Action{Type: ActionScrollUp, Delta: -3}
		case tea.MouseButtonWheelDown:
			if msg.Shift {
				return Action{Type: ActionScrollRight}
			}
			return Action{Type: ActionScrollDown, Delta: 3}
		case tea.MouseButtonWheelLeft:
			return Action{Type: ActionScrollRight}
		case tea.MouseButtonWheelRight:
			return Action{Type: ActionScrollLeft}
		case tea.MouseButtonLeft:
			cr := h.HandleClick(msg.X, msg.Y)
			if cr.Region == nil {
				return Action{Type: ActionNone}
			}
			if cr.IsDoubleClick {
				return Action{Type: ActionDoubleClick, Region: cr.Region}
			}
			return Action{Type: ActionClick, Region: cr.Region}
		}
	case tea.MouseActionMotion:
		return Action{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y)}
	}

	return Action{Type: ActionNone}
}
