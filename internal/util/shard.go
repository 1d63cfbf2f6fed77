package util

// ShardBounds splits n records into contiguous [start,end) shards of at most
// shardSize records each. Shards are contiguous in input order so output can
// be reassembled by shard index.
func ShardBounds(n, shardSize int) [][2]int {
	if shardSize <= 0 {
		shardSize = 500
	}
	out := make([][2]int, 0)
	for i := 0; i < n; i += shardSize {
		end := i + shardSize
		if end > n {
			end = n
		}
		out = append(out, [2]int{i, end})
	}
	return out
}
