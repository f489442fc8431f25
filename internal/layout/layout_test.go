// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		px   int
		want Tier
	}{
		{0, Mobile},
		{767, Mobile},
		{768, Tablet},
		{1023, Tablet},
		{1024, Desktop},
		{1199, Desktop},
		{1200, Large},
		{1439, Large},
		{1440, XL},
		{4000, XL},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.px), "px=%d", tt.px)
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		want       Layout
	}{
		{
			name: "xl", cols: 200, rows: 50,
			want: Layout{Tier: XL, Width: 200, Height: 50, PaddingLeft: 15, SidebarWidth: 37,
				ContentWidth: 163, ModalWidth: 106, ModalHeight: 40, InputWidth: 75, FontSize: 15},
		},
		{
			name: "large", cols: 160, rows: 40,
			want: Layout{Tier: Large, Width: 160, Height: 40, PaddingLeft: 12, SidebarWidth: 35,
				ContentWidth: 125, ModalWidth: 93, ModalHeight: 36, InputWidth: 68, FontSize: 14},
		},
		{
			name: "desktop", cols: 130, rows: 40,
			want: Layout{Tier: Desktop, Width: 130, Height: 40, PaddingLeft: 10, SidebarWidth: 30,
				ContentWidth: 100, ModalWidth: 87, ModalHeight: 34, InputWidth: 62, FontSize: 13},
		},
		{
			name: "tablet", cols: 100, rows: 30,
			want: Layout{Tier: Tablet, Width: 100, Height: 30, PaddingLeft: 2, SidebarWidth: 25,
				ContentWidth: 75, ModalWidth: 90, ModalHeight: 27, InputWidth: 80, FontSize: 13},
		},
		{
			name: "mobile", cols: 80, rows: 24,
			want: Layout{Tier: Mobile, Width: 80, Height: 24, PaddingLeft: 1, SidebarHidden: true,
				ContentWidth: 80, ModalWidth: 76, ModalHeight: 22, InputWidth: 71, FontSize: 12},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compute(tt.cols, tt.rows))
		})
	}
}

func TestCompute_ModalFitsShortTerminal(t *testing.T) {
	l := Compute(200, 20)
	assert.Equal(t, XL, l.Tier)
	assert.Equal(t, 20, l.ModalHeight)
}

func TestCompute_Degenerate(t *testing.T) {
	l := Compute(0, 0)
	assert.Equal(t, Mobile, l.Tier)
	assert.Equal(t, 1, l.Width)
	assert.Equal(t, 1, l.ModalWidth)
	assert.Equal(t, 1, l.ModalHeight)
	assert.Equal(t, 1, l.InputWidth)
	assert.Equal(t, 0, l.PaddingLeft)
	assert.True(t, l.SidebarHidden)
}

func TestCompact(t *testing.T) {
	assert.True(t, Compute(60, 20).Compact())
	assert.False(t, Compute(120, 40).Compact())
}
