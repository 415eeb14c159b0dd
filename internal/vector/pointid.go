package vector

// PointID deterministically narrows a string identifier to an unsigned
// 64-bit point id (h = h*31 + code unit). Qdrant point ids must be numeric
// or UUID, so string ids are hashed; the mapping is lossy and collisions,
// while far less likely than with the 32-bit space, are not detected.
func PointID(id string) uint64 {
	var h uint64
	for _, r := range id {
		h = h*31 + uint64(r)
	}
	return h
}
