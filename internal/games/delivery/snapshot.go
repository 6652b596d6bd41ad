package delivery

// Snapshot is an immutable copy of the run for presentation and journaling.
// It shares no memory with the Game that produced it.
type Snapshot struct {
	Vehicle      string
	Title        string
	Tick         uint64
	Phase        Phase
	Paused       bool
	Player       Player
	Obstacles    []Obstacle
	Bullets      []Bullet
	GasStation   *GasStation // Nil until the station appears, and after delivery
	BackgroundX  int
	Distance     int
	RouteLength  int
	Speed        int
	Lives        int
	LivesEnabled bool
	WorldW       float64
	WorldH       float64
}

// Snapshot returns a deep copy of the current state.
func (g *Game) Snapshot() Snapshot {
	w := g.world.clone()

	s := Snapshot{
		Vehicle:      g.id,
		Title:        g.vehicle.Title,
		Tick:         g.tick,
		Phase:        g.phase,
		Paused:       g.paused,
		Player:       g.player,
		Obstacles:    w.obstacles,
		Bullets:      w.bullets,
		BackgroundX:  w.backgroundX,
		Distance:     w.distance,
		RouteLength:  g.cfg.Route.Length,
		Speed:        g.player.Speed,
		Lives:        g.player.Lives,
		LivesEnabled: g.vehicle.Lives,
		WorldW:       g.cfg.World.Width,
		WorldH:       g.cfg.World.Height,
	}

	if w.station.Visible && g.phase != PhaseDelivered {
		station := w.station
		s.GasStation = &station
	}

	return s
}

// Ended reports whether the snapshot shows a finished run.
func (s Snapshot) Ended() bool {
	return s.Phase.Terminal()
}
