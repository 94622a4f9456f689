package hasher

// Exported aliases for testing internal state from the
// hasher_test package.

// InitialForTest exposes the initial chaining value.
var InitialForTest = initial

// BlockForTest exposes the compression function.
var BlockForTest = block

// PendingLenForTest reports how many bytes are buffered
// but not yet compressed.
func PendingLenForTest(en *Engine) int {
	return en.pending.Len()
}
