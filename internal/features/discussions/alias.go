package discussions

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

var (
	aliasAdjectives = []string{
		"Curious", "Brave", "Quiet", "Witty", "Sleepy", "Clever", "Bold", "Gentle",
		"Lucky", "Swift", "Sunny", "Mellow", "Zesty", "Cosmic", "Humble", "Jolly",
	}
	aliasAnimals = []string{
		"Otter", "Fox", "Panda", "Owl", "Koala", "Falcon", "Badger", "Dolphin",
		"Lynx", "Heron", "Gecko", "Walrus", "Raven", "Moose", "Tiger", "Puffin",
	}
)

// Alias derives a stable anonymous handle for a user inside one discussion.
// The same user gets unrelated handles in different discussions.
func Alias(discussionID, userID uuid.UUID) string {
	sum := sha256.Sum256([]byte(discussionID.String() + userID.String()))
	adj := aliasAdjectives[int(sum[0])%len(aliasAdjectives)]
	animal := aliasAnimals[int(sum[1])%len(aliasAnimals)]
	n := binary.BigEndian.Uint16(sum[2:4]) % 100
	return fmt.Sprintf("%s %s %02d", adj, animal, n)
}
