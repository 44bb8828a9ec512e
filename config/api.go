package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public paths (health probe and read-only GraphQL)
	return []string{"/health", "/graphql"}
}
