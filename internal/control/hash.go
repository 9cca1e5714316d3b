// Package control holds the low-level primitives shared by the netlink,
// monitor, and hwdb packages: string hashing, the tag bloom filter,
// devnode name escaping, and run-directory path helpers.
package control

import "encoding/binary"

// Murmur2 computes the 32-bit MurmurHash2 of key with the given seed.
//
// MurmurHash2 was written by Austin Appleby and placed in the public
// domain. This port reads each 4-byte block little-endian rather than
// native-endian so the hash is identical across host byte orders; on
// little-endian hosts (the only ones sysfs/netlink exist on) this
// matches the upstream C/Rust implementations bit for bit.
func Murmur2(key []byte, seed uint32) uint32 {
	const m = 0x5bd1e995
	const r = 24

	h := seed ^ uint32(len(key))

	i := 0
	for ; i+4 <= len(key); i += 4 {
		k := binary.LittleEndian.Uint32(key[i : i+4])
		k *= m
		k ^= k >> r
		k *= m

		h *= m
		h ^= k
	}

	switch len(key) - i {
	case 3:
		h ^= uint32(key[i+2]) << 16
		h ^= uint32(key[i+1]) << 8
		h ^= uint32(key[i])
	case 2:
		h ^= uint32(key[i+1]) << 8
		h ^= uint32(key[i])
	case 1:
		h ^= uint32(key[i])
	}

	h *= m

	h ^= h >> 13
	h *= m
	h ^= h >> 15

	return h
}
