package cervus

import (
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Target is a captured camera pose the player has to find again, together
// with the image that was shown for it.
type Target struct {
	ID   uuid.UUID
	Pose Pose
	// Snapshot is the encoded image captured with the pose. The core never
	// decodes it.
	Snapshot []byte
	// Fingerprint is a digest of Snapshot, for matching a target to a saved
	// image without comparing bytes.
	Fingerprint uint64
}

// NewTarget records pose and snapshot under a fresh ID.
func NewTarget(pose Pose, snapshot []byte) *Target {
	return &Target{
		ID:          uuid.New(),
		Pose:        pose,
		Snapshot:    snapshot,
		Fingerprint: xxhash.Sum64(snapshot),
	}
}

// Matches reports whether snapshot is the image captured with the target.
func (t *Target) Matches(snapshot []byte) bool {
	return xxhash.Sum64(snapshot) == t.Fingerprint && len(snapshot) == len(t.Snapshot)
}
