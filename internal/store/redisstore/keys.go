package redisstore

import "fmt"

// Key prefix for all stored data
const keyPrefix = "gamelobby"

// docKey returns the Redis key holding one document's JSON value
func docKey(collection, id string) string {
	return fmt.Sprintf("%s:doc:%s:%s", keyPrefix, collection, id)
}

// collectionIndexKey returns the Redis key of the LIST of document
// keys in a collection, in insertion order
func collectionIndexKey(collection string) string {
	return fmt.Sprintf("%s:idx:%s", keyPrefix, collection)
}
