package builder

// Player is the runtime that plays a custom game on the device. The server
// only produces the document it loads; no implementation lives here.
type Player interface {
	Load(def Definition, active bool) error
}

// Document is what GET /builder/games/:id returns.
type Document struct {
	ID         string     `json:"id"`
	Definition Definition `json:"definition"`
	Active     bool       `json:"active"`
}

// LoadInto hands the document to a player.
func (d Document) LoadInto(p Player) error {
	return p.Load(d.Definition, d.Active)
}
