package store

import "hash/fnv"

// PartitionKey computes the partition for a key using FNV-1a hash
func PartitionKey(key string, numPartitions int) int {
	h := fnv.New32a()
	h.Write([]byte(key))

	return int(h.Sum32() % uint32(numPartitions))
}
