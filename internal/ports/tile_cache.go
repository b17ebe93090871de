package ports

import "context"

// Storage for rendered map tiles, keyed by tile address and visibility state.
type TileCache interface {
	// Return the cached tile and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, png []byte) error
}
