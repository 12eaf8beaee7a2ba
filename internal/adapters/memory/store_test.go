package memory

import (
	"testing"

	"github.com/aretw0/cascade/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, New())
}
