package delivery

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/vovakirdan/tanker-run/internal/core"
)

// Glyphs
const (
	PlayerChar  = '█'
	CrateChar   = '▓'
	CoolChar    = '▒'
	FireChar    = '▓'
	BulletChar  = '━'
	EdgeChar    = '═'
	LaneChar    = '-'
	StationChar = '░'
)

// laneDash is the world-unit length of one lane marking and of the gap after it.
const laneDash = 40

// viewport maps world units onto the playfield below the HUD row.
type viewport struct {
	top    int
	sx, sy float64
}

func newViewport(dst *core.Screen, s Snapshot) viewport {
	rows := max(dst.Height()-1, 1)
	return viewport{
		top: 1,
		sx:  float64(dst.Width()) / s.WorldW,
		sy:  float64(rows) / s.WorldH,
	}
}

// cells converts a world box to screen cells. Anything with a positive
// world footprint covers at least one cell.
func (v viewport) cells(b core.Box) core.Rect {
	x0 := int(math.Floor(b.X * v.sx))
	y0 := int(math.Floor(b.Y * v.sy))
	x1 := max(int(math.Ceil(b.Right()*v.sx)), x0+1)
	y1 := max(int(math.Ceil(b.Bottom()*v.sy)), y0+1)
	return core.NewRect(x0, y0+v.top, x1-x0, y1-y0)
}

// Draw renders a snapshot into dst: road, entities, HUD and any overlay.
func Draw(dst *core.Screen, s Snapshot) {
	dst.Clear()
	if s.WorldW <= 0 || s.WorldH <= 0 {
		return
	}
	v := newViewport(dst, s)

	drawRoad(dst, v, s)

	if s.GasStation != nil {
		r := v.cells(s.GasStation.Box())
		dst.DrawRect(r, StationChar, core.ColorGreen)
		dst.DrawBox(r, core.ColorBrightGreen)
		dst.DrawTextColor(r.X+(r.W-3)/2, r.Y+r.H/2, "GAS", core.ColorBrightGreen)
	}

	for _, o := range s.Obstacles {
		glyph, color := obstacleGlyph(o.Kind)
		dst.DrawRect(v.cells(o.Box()), glyph, color)
	}

	for _, b := range s.Bullets {
		dst.DrawRect(v.cells(b.Box()), BulletChar, core.ColorBrightYellow)
	}

	dst.DrawRect(v.cells(s.Player.Box()), PlayerChar, core.ColorBlue)

	drawHUD(dst, s)

	switch {
	case s.Phase == PhaseGameOver:
		drawCenteredMessage(dst, "GAME OVER", fmt.Sprintf("Distance: %d  |  R restart  B menu", s.Distance), core.ColorBrightRed)
	case s.Phase == PhaseDelivered:
		drawCenteredMessage(dst, "DELIVERY MADE!", fmt.Sprintf("Distance: %d  |  R restart  B menu", s.Distance), core.ColorBrightGreen)
	case s.Paused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume", core.ColorYellow)
	}
}

func obstacleGlyph(kind string) (rune, core.Color) {
	switch kind {
	case "cool":
		return CoolChar, core.ColorCyan
	case "fire":
		return FireChar, core.ColorOrange
	default:
		return CrateChar, core.ColorRed
	}
}

// drawRoad draws the road edges and a center lane that scrolls with the
// background offset.
func drawRoad(dst *core.Screen, v viewport, s Snapshot) {
	w := dst.Width()
	dst.DrawHLine(0, v.top, w, EdgeChar, core.ColorGray)
	dst.DrawHLine(0, dst.Height()-1, w, EdgeChar, core.ColorGray)

	lane := v.top + int(s.WorldH/2*v.sy)
	for x := 0; x < w; x++ {
		worldX := int(float64(x)/v.sx) - s.BackgroundX
		if worldX%(2*laneDash) < laneDash {
			dst.SetColor(x, lane, LaneChar, core.ColorGray)
		}
	}
}

func drawHUD(dst *core.Screen, s Snapshot) {
	hud := fmt.Sprintf(" %s  Speed: %d  Distance: %d / %d", s.Title, s.Speed, s.Distance, s.RouteLength)
	if s.LivesEnabled {
		hud += fmt.Sprintf("  Lives: %d", s.Lives)
	}
	dst.DrawText(0, 0, hud+" ")
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	tw := utf8.RuneCountInString(title)
	sw := utf8.RuneCountInString(subtitle)

	boxW := max(tw, sw) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, c)

	dst.DrawTextColor(boxX+(boxW-tw)/2, boxY+1, title, c)
	dst.DrawText(boxX+(boxW-sw)/2, boxY+3, subtitle)
}
