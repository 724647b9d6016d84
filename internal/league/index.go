package league

// Index is an id-keyed view over a GameState, rebuilt once per tick so
// lookups never scan every league.
type Index struct {
	clubs      map[ClubID]*Club
	players    map[PlayerID]*Player
	fixtures   map[FixtureID]*Fixture
	clubLeague map[ClubID]*League
	order      []*Club
}

// BuildIndex indexes every club, player and fixture in gs.
func BuildIndex(gs *GameState) *Index {
	idx := &Index{
		clubs:      make(map[ClubID]*Club),
		players:    make(map[PlayerID]*Player),
		fixtures:   make(map[FixtureID]*Fixture),
		clubLeague: make(map[ClubID]*League),
	}
	for _, l := range gs.Leagues {
		for _, c := range l.Clubs {
			idx.clubs[c.ID] = c
			idx.clubLeague[c.ID] = l
			idx.order = append(idx.order, c)
			for _, p := range c.Players {
				idx.players[p.ID] = p
			}
		}
		for _, f := range l.Fixtures {
			idx.fixtures[f.ID] = f
		}
	}
	return idx
}

// Club looks up a club by id.
func (x *Index) Club(id ClubID) (*Club, bool) {
	c, ok := x.clubs[id]
	return c, ok
}

// Player looks up a player by id.
func (x *Index) Player(id PlayerID) (*Player, bool) {
	p, ok := x.players[id]
	return p, ok
}

// Fixture looks up a fixture by id.
func (x *Index) Fixture(id FixtureID) (*Fixture, bool) {
	f, ok := x.fixtures[id]
	return f, ok
}

// LeagueOf returns the league a club plays in.
func (x *Index) LeagueOf(id ClubID) (*League, bool) {
	l, ok := x.clubLeague[id]
	return l, ok
}

// Clubs returns every indexed club in league then club order.
func (x *Index) Clubs() []*Club {
	return x.order
}

// MovePlayer records that p now belongs to club to. The caller has already
// updated both rosters.
func (x *Index) MovePlayer(p *Player, to *Club) {
	p.ClubID = to.ID
	x.players[p.ID] = p
}
