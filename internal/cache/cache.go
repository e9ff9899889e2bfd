// Package cache defines the in-process cache used in front of the stores.
package cache

// Cache is safe for concurrent use. Values are stored as given; callers cache
// copies of mutable values.
type Cache interface {
	Get(key interface{}) (interface{}, bool)
	Add(key, value interface{})
	Keys() []interface{}
	Delete(key interface{})
	Len() int
	Purge()
}
