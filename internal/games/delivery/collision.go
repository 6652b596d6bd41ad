package delivery

import (
	"github.com/vovakirdan/tanker-run/internal/config"
)

// contact summarizes what the collision pass found in one tick.
type contact struct {
	destroyed  int  // Obstacles removed by bullets
	playerHits int  // Obstacles removed by touching the player
	docked     bool // Player overlapped the visible gas station
}

// bulletHits reports whether a bullet crossed an obstacle during the last
// tick. The bullet's box is swept over its displacement relative to the
// obstacle so fast closing speeds cannot tunnel through.
func bulletHits(b Bullet, o Obstacle, speed int, velocity float64) bool {
	// Obstacle displacement is -(speed - o.Speed); the bullet's is +velocity.
	rel := velocity + float64(speed) - o.Speed
	return b.Box().SweepX(rel).Intersects(o.Box())
}

// resolveBullets removes every obstacle hit by a bullet. Single-use bullets
// are consumed by their first hit tick; otherwise they fly on.
func resolveBullets(w *world, speed int, bc config.Bullet) int {
	if len(w.bullets) == 0 || len(w.obstacles) == 0 {
		return 0
	}

	hitObstacle := make([]bool, len(w.obstacles))
	bullets := w.bullets[:0]
	for _, b := range w.bullets {
		used := false
		for i, o := range w.obstacles {
			if bulletHits(b, o, speed, bc.Velocity) {
				hitObstacle[i] = true
				used = true
			}
		}
		if !used || !bc.SingleUse {
			bullets = append(bullets, b)
		}
	}
	w.bullets = bullets

	destroyed := 0
	obstacles := w.obstacles[:0]
	for i, o := range w.obstacles {
		if hitObstacle[i] {
			destroyed++
			continue
		}
		obstacles = append(obstacles, o)
	}
	w.obstacles = obstacles

	return destroyed
}

// resolvePlayer removes every obstacle touching the player and returns how
// many there were.
func resolvePlayer(w *world, p Player) int {
	box := p.Box()
	hits := 0
	obstacles := w.obstacles[:0]
	for _, o := range w.obstacles {
		if box.Intersects(o.Box()) {
			hits++
			continue
		}
		obstacles = append(obstacles, o)
	}
	w.obstacles = obstacles
	return hits
}

// canDock reports whether the player reached the gas station.
func canDock(w world, p Player, appear int) bool {
	return w.station.Visible && w.distance >= appear && p.Box().Intersects(w.station.Box())
}

// resolve runs the collision pass in its fixed order: bullets against
// obstacles, then the player against what is left, then docking.
// It mutates w, the player's lives and the phase.
func (g *Game) resolve(w *world) contact {
	var c contact

	c.destroyed = resolveBullets(w, g.player.Speed, g.cfg.Bullet)

	c.playerHits = resolvePlayer(w, g.player)
	if c.playerHits > 0 && g.vehicle.Lives {
		g.player.Lives = max(g.player.Lives-c.playerHits, 0)
		if g.player.Lives <= 0 {
			g.phase = PhaseGameOver
			return c
		}
	}

	if g.phase == PhasePlaying && canDock(*w, g.player, g.cfg.Route.GasAppearDistance) {
		c.docked = true
		g.phase = PhaseDelivered
	}

	return c
}
