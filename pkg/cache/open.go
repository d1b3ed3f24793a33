package cache

import "fmt"

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Open builds the cache named by backend. dir is used by the file backend and
// url by the redis backend.
func Open(backend, dir, url string) (Cache, error) {
	switch backend {
	case BackendNone, "":
		return NewNullCache(), nil
	case BackendFile:
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		return NewRedisCache(url)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
