package league

import (
	"fmt"

	"github.com/google/uuid"
)

// NewID derives a stable id for a new entity of kind. Ids depend only on
// the career seed and the serial counter, so a replayed career produces
// the same ids.
func (g *GameState) NewID(kind string) string {
	name := fmt.Sprintf("touchline/%d/%s/%d", g.Seed, kind, g.Serial())
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
