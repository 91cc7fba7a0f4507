package services

// Allow reports whether callerID may mutate a resource owned by ownerID.
func Allow(callerID, ownerID string) bool {
	return callerID != "" && callerID == ownerID
}
