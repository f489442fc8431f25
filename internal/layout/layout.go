// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package layout turns a terminal size into the sizes the views use.
//
// Breakpoints are expressed in pixels and a terminal cell counts as
// PxPerCol by PxPerRow pixels, so the same tiers apply as on a screen:
// mobile below 768, tablet below 1024, desktop below 1200, large below
// 1440 and extra large above.
package layout

const (
	PxPerCol = 8
	PxPerRow = 16

	// MinContentWidth keeps room for the chat when padding is applied.
	MinContentWidth = 20
)

// Tier is a breakpoint bucket.
type Tier int

const (
	Mobile Tier = iota
	Tablet
	Desktop
	Large
	XL
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case Mobile:
		return "mobile"
	case Tablet:
		return "tablet"
	case Desktop:
		return "desktop"
	case Large:
		return "large"
	case XL:
		return "xl"
	default:
		return "unknown"
	}
}

// TierFor returns the tier of a width in pixels.
func TierFor(px int) Tier {
	switch {
	case px >= 1440:
		return XL
	case px >= 1200:
		return Large
	case px >= 1024:
		return Desktop
	case px >= 768:
		return Tablet
	default:
		return Mobile
	}
}

// Layout holds sizes in terminal cells.
type Layout struct {
	Tier   Tier
	Width  int
	Height int

	PaddingLeft   int
	SidebarWidth  int // 0 when the sidebar is hidden
	SidebarHidden bool
	ContentWidth  int

	ModalWidth  int
	ModalHeight int
	InputWidth  int

	// FontSize is the pixel font size of the tier. Views treat anything
	// below 13 as compact.
	FontSize int
}

// Compact reports whether views should drop spacing.
func (l Layout) Compact() bool {
	return l.FontSize < 13
}

// tierSpec holds the pixel values of a tier. Zero modal or input sizes
// mean a fraction of the viewport is used instead.
type tierSpec struct {
	padding     int
	sidebar     int
	modalW      int
	modalH      int
	input       int
	fontSize    int
	viewportPct int // modal width percentage for fractional tiers
	inputInset  int // px subtracted from the fractional input width
}

var tiers = map[Tier]tierSpec{
	XL:      {padding: 120, sidebar: 300, modalW: 850, modalH: 650, input: 600, fontSize: 15},
	Large:   {padding: 100, sidebar: 285, modalW: 750, modalH: 580, input: 550, fontSize: 14},
	Desktop: {padding: 80, sidebar: 240, modalW: 700, modalH: 550, input: 500, fontSize: 13},
	Tablet:  {padding: 20, sidebar: 200, fontSize: 13, viewportPct: 90, inputInset: 80},
	Mobile:  {padding: 15, fontSize: 12, viewportPct: 95, inputInset: 40},
}

// Compute returns the layout for a terminal of cols by rows cells.
func Compute(cols, rows int) Layout {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	px := cols * PxPerCol
	tier := TierFor(px)
	s := tiers[tier]

	l := Layout{
		Tier:     tier,
		Width:    cols,
		Height:   rows,
		FontSize: s.fontSize,
	}

	// A sidebar as wide as the window is the same as no sidebar: the
	// tab keys navigate instead.
	l.SidebarWidth = toCols(s.sidebar)
	if l.SidebarWidth == 0 || cols-l.SidebarWidth < MinContentWidth {
		l.SidebarWidth = 0
		l.SidebarHidden = true
	}
	l.ContentWidth = cols - l.SidebarWidth

	l.PaddingLeft = toCols(s.padding)
	if l.ContentWidth-l.PaddingLeft < MinContentWidth {
		l.PaddingLeft = max(0, l.ContentWidth-MinContentWidth)
	}

	if s.viewportPct > 0 {
		l.ModalWidth = cols * s.viewportPct / 100
		l.ModalHeight = rows * s.viewportPct / 100
		l.InputWidth = l.ModalWidth - toCols(s.inputInset)
	} else {
		l.ModalWidth = toCols(s.modalW)
		l.ModalHeight = s.modalH / PxPerRow
		l.InputWidth = toCols(s.input)
	}

	l.ModalWidth = clamp(l.ModalWidth, 1, cols)
	l.ModalHeight = clamp(l.ModalHeight, 1, rows)
	// The input sits inside the modal border and padding.
	l.InputWidth = clamp(l.InputWidth, 1, max(1, l.ModalWidth-4))
	return l
}

func toCols(px int) int {
	return px / PxPerCol
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
