// Package snowflake provides a process-wide Snowflake ID generator used for
// every row identifier the classifier store hands out.
package snowflake

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.RWMutex
	node *snowflake.Node
)

// Init initializes the package-level node with the given node ID (0-1023).
// It must be called once before NextID is used; tests may call it with 0.
func Init(nodeID int64) error {
	if nodeID < 0 || nodeID > 1023 {
		return fmt.Errorf("snowflake: node id %d out of range [0, 1023]", nodeID)
	}

	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("snowflake: new node: %w", err)
	}

	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// NextID returns the next Snowflake ID from the package-level node,
// lazily initializing node 0 if Init was never called.
func NextID() int64 {
	mu.RLock()
	n := node
	mu.RUnlock()

	if n == nil {
		if err := Init(0); err != nil {
			panic(err)
		}
		mu.RLock()
		n = node
		mu.RUnlock()
	}

	return n.Generate().Int64()
}
